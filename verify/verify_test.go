package verify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capereport/logger"
	"capereport/report"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

func sampleFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))
	return path
}

func helloWorldHashes() *report.File {
	return &report.File{
		CRC32:   "0D4A1185",
		MD5:     "5eb63bbbe01eeed093cb22bb8f5acdc3",
		SHA1:    "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed",
		SHA256:  "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		SHA512:  "309ecc489c12d6eb4cc40f50c902f2b4d0ed77ee511a7c7a9bcd3ca86d4cd86f989dd35bc5ff499670da34255b45b0cfd830e81f605dcf7dc5542e93ae9cd76f",
		SHA3384: "83bff28dde1b1bf5810071c6643c08e5b05bdb836effd70b403ea8ea0a634dc4997eb1053aa3593f590f9c63630dd90b",
	}
}

func TestSampleAllMatch(t *testing.T) {
	path := sampleFile(t)
	results := Sample(path, helloWorldHashes())

	require.Len(t, results, 6)
	for _, r := range results {
		assert.True(t, r.Match, "%s: reported %s computed %s", r.Algorithm, r.Reported, r.Computed)
	}
	assert.Empty(t, Mismatches(results))
}

func TestSampleCaseInsensitiveComparison(t *testing.T) {
	// report-side crc32 above is uppercase; local digests are lowercase
	path := sampleFile(t)
	for _, r := range Sample(path, helloWorldHashes()) {
		if r.Algorithm == "crc32" {
			assert.Equal(t, "0D4A1185", r.Reported)
			assert.Equal(t, "0d4a1185", r.Computed)
			assert.True(t, r.Match)
		}
	}
}

func TestSampleDetectsMismatch(t *testing.T) {
	path := sampleFile(t)
	f := helloWorldHashes()
	f.SHA256 = "0000000000000000000000000000000000000000000000000000000000000000"

	results := Sample(path, f)
	bad := Mismatches(results)
	require.Len(t, bad, 1)
	assert.Equal(t, "sha256", bad[0].Algorithm)
	assert.False(t, bad[0].Match)
}

func TestSampleSkipsEmptyReportFields(t *testing.T) {
	path := sampleFile(t)
	f := &report.File{MD5: "5eb63bbbe01eeed093cb22bb8f5acdc3"}

	results := Sample(path, f)
	require.Len(t, results, 1)
	assert.Equal(t, "md5", results[0].Algorithm)
}
