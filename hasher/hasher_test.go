package hasher

import (
	"os"
	"testing"

	"capereport/logger"
)

func TestComputeHashes(t *testing.T) {
	logger.Init("info")
	tmp, err := os.CreateTemp("", "hash-test")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	defer os.Remove(tmp.Name())
	tmp.WriteString("hello world")
	tmp.Close()

	hashes := ComputeHashes(tmp.Name(), Algorithms)
	want := map[string]string{
		"crc32":    "0d4a1185",
		"md5":      "5eb63bbbe01eeed093cb22bb8f5acdc3",
		"sha1":     "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed",
		"sha256":   "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		"sha512":   "309ecc489c12d6eb4cc40f50c902f2b4d0ed77ee511a7c7a9bcd3ca86d4cd86f989dd35bc5ff499670da34255b45b0cfd830e81f605dcf7dc5542e93ae9cd76f",
		"sha3_384": "83bff28dde1b1bf5810071c6643c08e5b05bdb836effd70b403ea8ea0a634dc4997eb1053aa3593f590f9c63630dd90b",
	}
	for algo, digest := range want {
		if hashes[algo] != digest {
			t.Errorf("%s mismatch: %s", algo, hashes[algo])
		}
	}
}

func TestComputeHashesSkipsUnknownAlgorithm(t *testing.T) {
	logger.Init("info")
	tmp, err := os.CreateTemp("", "hash-test")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	defer os.Remove(tmp.Name())
	tmp.WriteString("x")
	tmp.Close()

	hashes := ComputeHashes(tmp.Name(), []string{"md5", "unknown"})
	if _, ok := hashes["unknown"]; ok {
		t.Errorf("unexpected hash for unknown algorithm")
	}
	if hashes["md5"] == "" {
		t.Errorf("md5 missing")
	}
}
