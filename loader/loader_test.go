package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capereport/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write(data)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestLoadPlainJSON(t *testing.T) {
	doc := []byte(`{"malscore": 0.0}`)
	path := writeFile(t, "report.json", doc)

	got, err := Load(path, 0)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestLoadGzipJSON(t *testing.T) {
	doc := []byte(`{"malscore": 10.0}`)
	path := writeFile(t, "report.json.gz", gzipped(t, doc))

	got, err := Load(path, 0)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestLoadShortFile(t *testing.T) {
	// shorter than the sniff window
	doc := []byte(`{}`)
	path := writeFile(t, "tiny.json", doc)

	got, err := Load(path, 0)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestLoadSizeCap(t *testing.T) {
	doc := bytes.Repeat([]byte("a"), 100)
	path := writeFile(t, "big.json", doc)

	_, err := Load(path, 64)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 64 bytes")

	got, err := Load(path, 100)
	require.NoError(t, err)
	assert.Len(t, got, 100)
}

func TestLoadSizeCapAppliesToDecompressedSize(t *testing.T) {
	doc := bytes.Repeat([]byte("a"), 4096)
	path := writeFile(t, "big.json.gz", gzipped(t, doc))

	_, err := Load(path, 1024)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"), 0)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
