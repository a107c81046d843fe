package fuzzy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHasTLSH(t *testing.T) {
	h, ok := Lookup("tlsh")
	require.True(t, ok)
	assert.Equal(t, "tlsh", h.Name())
	assert.Contains(t, Available(), "tlsh")
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("ssdeep")
	assert.False(t, ok)
}

func TestTLSHMatchNormalization(t *testing.T) {
	h := TLSHHasher{}
	digest := "a0b12c07d34e56f89a0b12c07d34e56f89a0b12c07d34e56f89a0b12c07d34e56f89ab"

	assert.True(t, h.Match(digest, digest))
	// version prefix and case both vary by emitting tool
	assert.True(t, h.Match(digest, "T1"+digest))
	assert.True(t, h.Match("T1"+digest, digest))
	assert.True(t, h.Match(digest, "T1"+strings.ToUpper(digest)))
	assert.False(t, h.Match(digest, "T1deadbeef"))
}
