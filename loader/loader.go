// Package loader reads raw report documents from disk for the
// decoder. Reports come out of the sandbox either as plain JSON or
// gzip-compressed JSON; compression is detected by magic bytes, never
// by file extension.
package loader

import (
	"fmt"
	"io"
	"os"

	"capereport/logger"

	"github.com/h2non/filetype"
	"github.com/klauspost/compress/gzip"
)

// DefaultMaxBytes bounds the decompressed report size. Reports feed a
// synchronous decoder, so an adversarially large document costs
// memory, not a hang; this is the caller-side safeguard.
const DefaultMaxBytes = 1 << 30

const sniffLen = 262

// Load returns the raw JSON bytes of the report at path,
// transparently decompressing gzip input. maxBytes caps the
// decompressed size; zero means DefaultMaxBytes.
func Load(path string, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var reader io.Reader = f
	kind, err := filetype.Match(head[:n])
	if err == nil && kind.MIME.Value == "application/gzip" {
		logger.Debugf("Report %s is gzip-compressed", path)
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	buf, err := io.ReadAll(io.LimitReader(reader, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) > maxBytes {
		return nil, fmt.Errorf("report %s exceeds %d bytes decompressed", path, maxBytes)
	}
	return buf, nil
}
