package hasher

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"hash/crc32"
	"io"
	"os"
	"sync"

	"capereport/logger"

	"golang.org/x/crypto/sha3"
)

const (
	hashBufferSmallSize      = 32 * 1024
	hashBufferLargeSize      = 128 * 1024
	hashLargeBufferThreshold = 256 * 1024
)

var hashBufferSmallPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, hashBufferSmallSize)
		return &buf
	},
}

var hashBufferLargePool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, hashBufferLargeSize)
		return &buf
	},
}

// Algorithms lists the cryptographic digests a sandbox report records
// for every file, in report field order.
var Algorithms = []string{"crc32", "md5", "sha1", "sha256", "sha512", "sha3_384"}

func newHash(algo string) hash.Hash {
	switch algo {
	case "crc32":
		return crc32.NewIEEE()
	case "md5":
		return md5.New()
	case "sha1":
		return sha1.New()
	case "sha256":
		return sha256.New()
	case "sha512":
		return sha512.New()
	case "sha3_384":
		return sha3.New384()
	default:
		return nil
	}
}

// ComputeHashes streams the file once through every requested digest
// and returns lowercase hex strings keyed by algorithm name, matching
// the form hash values take inside a report.
func ComputeHashes(path string, algorithms []string) map[string]string {
	hashes := make(map[string]string, len(algorithms))

	file, err := os.Open(path)
	if err != nil {
		logger.Warnf("Failed to open file for hashing %s: %v", path, err)
		return hashes
	}
	defer file.Close()

	type hasherEntry struct {
		name string
		h    hash.Hash
	}
	hashers := make([]hasherEntry, 0, len(algorithms))
	seen := make(map[string]struct{}, len(algorithms))
	for _, algo := range algorithms {
		if _, ok := seen[algo]; ok {
			continue
		}
		h := newHash(algo)
		if h == nil {
			logger.Warnf("Unsupported hash algorithm: %s", algo)
			continue
		}
		hashers = append(hashers, hasherEntry{name: algo, h: h})
		seen[algo] = struct{}{}
	}

	if len(hashers) > 0 {
		bufferPool := &hashBufferSmallPool
		if info, statErr := file.Stat(); statErr == nil && info.Size() >= hashLargeBufferThreshold {
			bufferPool = &hashBufferLargePool
		}
		bufferPtr := bufferPool.Get().(*[]byte)
		buffer := *bufferPtr
		for {
			n, readErr := file.Read(buffer)
			if n > 0 {
				chunk := buffer[:n]
				for i := range hashers {
					if _, err := hashers[i].h.Write(chunk); err != nil {
						logger.Warnf("Failed to update hash %s for %s: %v", hashers[i].name, path, err)
					}
				}
			}
			if readErr != nil {
				if readErr != io.EOF {
					logger.Warnf("Failed to compute hashes for %s: %v", path, readErr)
				}
				break
			}
		}
		bufferPool.Put(bufferPtr)
	}

	for i := range hashers {
		hashes[hashers[i].name] = hex.EncodeToString(hashers[i].h.Sum(nil))
	}

	return hashes
}
