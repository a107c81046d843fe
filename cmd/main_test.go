package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"capereport/config"
	"capereport/logger"
	"capereport/output"
)

const minimalReport = `{
	"target": {"category": "file", "file": {
		"type": "data", "name": "sample.exe", "path": "/tmp/sample.exe", "guest_paths": null,
		"crc32": "0D4A1185",
		"md5": "5eb63bbbe01eeed093cb22bb8f5acdc3",
		"sha1": "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed",
		"sha256": "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		"sha512": "309ecc489c12d6eb4cc40f50c902f2b4d0ed77ee511a7c7a9bcd3ca86d4cd86f989dd35bc5ff499670da34255b45b0cfd830e81f605dcf7dc5542e93ae9cd76f",
		"sha3_384": "83bff28dde1b1bf5810071c6643c08e5b05bdb836effd70b403ea8ea0a634dc4997eb1053aa3593f590f9c63630dd90b",
		"ssdeep": "3:aaX:a", "tlsh": "", "size": 11
	}},
	"behavior": {
		"summary": {
			"files": [], "read_files": [], "write_files": [], "delete_files": [],
			"keys": [], "read_keys": [], "write_keys": [], "delete_keys": [],
			"executed_commands": [], "resolved_apis": [], "mutexes": [],
			"created_services": [], "started_services": []
		},
		"processes": [], "processtree": [], "anomaly": [], "enhanced": [],
		"encryptedbuffers": []
	},
	"CAPE": {"payloads": [], "configs": []},
	"network": {},
	"suricata": {
		"alerts": [], "dns": [], "fileinfo": [], "files": [],
		"http": [], "perf": [], "ssh": [], "tls": []
	},
	"dropped": [], "procdump": [], "procmemory": [], "signatures": [],
	"malscore": 1.5
}`

func testWriter(t *testing.T) (*output.Writer, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		OutputFileName: filepath.Join(t.TempDir(), "digests.json"),
		OutputFormat:   "json",
		MaxReportBytes: 1 << 20,
	}
	w, err := output.New(cfg)
	if err != nil {
		t.Fatalf("output init: %v", err)
	}
	return w, cfg
}

func readDigests(t *testing.T, path string) []output.Digest {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read digests: %v", err)
	}
	var digests []output.Digest
	if err := json.Unmarshal(data, &digests); err != nil {
		t.Fatalf("parse digests: %v", err)
	}
	return digests
}

func TestDecodeOneWritesDigest(t *testing.T) {
	logger.Init("error")
	w, cfg := testWriter(t)

	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, []byte(minimalReport), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}

	if err := decodeOne(context.Background(), cfg, w, path); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	digests := readDigests(t, cfg.OutputFileName)
	if len(digests) != 1 {
		t.Fatalf("expected 1 digest, got %d", len(digests))
	}
	d := digests[0]
	if d.Status != "ok" || d.Report != path {
		t.Fatalf("unexpected digest: %+v", d)
	}
	if d.SHA256 != "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9" {
		t.Fatalf("unexpected sha256: %s", d.SHA256)
	}
	if d.Malscore != 1.5 {
		t.Fatalf("unexpected malscore: %v", d.Malscore)
	}
}

func TestDecodeOneRecordsFailure(t *testing.T) {
	logger.Init("error")
	w, cfg := testWriter(t)

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"target":`), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}

	if err := decodeOne(context.Background(), cfg, w, path); err == nil {
		t.Fatal("expected decode error")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	digests := readDigests(t, cfg.OutputFileName)
	if len(digests) != 1 {
		t.Fatalf("expected 1 digest, got %d", len(digests))
	}
	if digests[0].Status != "error" || digests[0].Error == "" {
		t.Fatalf("unexpected digest: %+v", digests[0])
	}
}

func TestDecodeOneMissingFile(t *testing.T) {
	logger.Init("error")
	w, cfg := testWriter(t)

	path := filepath.Join(t.TempDir(), "absent.json")
	if err := decodeOne(context.Background(), cfg, w, path); err == nil {
		t.Fatal("expected error for missing report")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	digests := readDigests(t, cfg.OutputFileName)
	if len(digests) != 1 || digests[0].Status != "error" {
		t.Fatalf("unexpected digests: %+v", digests)
	}
}

func TestProgressVisible(t *testing.T) {
	t.Setenv("CAPEREPORT_DISABLE_PROGRESS", "")
	if !progressVisible() {
		t.Fatal("expected progress visible by default")
	}
	for _, v := range []string{"1", "true", "YES", " on "} {
		t.Setenv("CAPEREPORT_DISABLE_PROGRESS", v)
		if progressVisible() {
			t.Fatalf("expected progress hidden for %q", v)
		}
	}
	t.Setenv("CAPEREPORT_DISABLE_PROGRESS", "0")
	if !progressVisible() {
		t.Fatal("expected progress visible for 0")
	}
}
