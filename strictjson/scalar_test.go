package strictjson

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseValue(t *testing.T, doc string) interface{} {
	t.Helper()
	v, err := Parse([]byte(doc))
	require.NoError(t, err)
	return v
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := Parse([]byte(`{"a":`))
	require.Error(t, err)
	assert.True(t, HasKind(err, KindMalformedInput))

	_, err = Parse([]byte(`{} trailing`))
	require.Error(t, err)
	assert.True(t, HasKind(err, KindMalformedInput))
}

func TestHexIntRoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 15, 16, 255, 0x401000, 0x7fffffffffff, 0xffffffffffffffff} {
		got, err := HexIntValue(fmt.Sprintf("%x", n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestHexIntNativePassThrough(t *testing.T) {
	v := parseValue(t, `4198400`)
	got, err := HexIntValue(v)
	require.NoError(t, err)
	assert.Equal(t, uint64(4198400), got)
}

func TestHexIntNegativeNativeInteger(t *testing.T) {
	// NTSTATUS-style values arrive as native negatives and keep
	// their two's-complement bit pattern
	got, err := HexIntValue(parseValue(t, `-1`))
	require.NoError(t, err)
	assert.Equal(t, uint64(0xffffffffffffffff), got)

	got, err = HexIntValue(parseValue(t, `-1073741819`))
	require.NoError(t, err)
	assert.Equal(t, uint64(0xffffffffc0000005), got)

	// IsHexInt and HexIntValue agree on what they accept
	for _, doc := range []string{`-1`, `-1073741819`, `0`, `17`} {
		v := parseValue(t, doc)
		require.True(t, IsHexInt(v), "probe rejects %s", doc)
		_, err := HexIntValue(v)
		assert.NoError(t, err, "codec rejects %s", doc)
	}
}

func TestHexIntPrefixedString(t *testing.T) {
	got, err := HexIntValue("0x1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got)
}

func TestHexIntRejectsOtherTypes(t *testing.T) {
	for _, v := range []interface{}{true, []interface{}{}, map[string]interface{}{}, nil} {
		_, err := HexIntValue(v)
		require.Error(t, err)
		assert.True(t, HasKind(err, KindScalarDecode))
	}

	_, err := HexIntValue("zzzz")
	require.Error(t, err)
	assert.True(t, HasKind(err, KindScalarDecode))
}

func TestHexBytesLength(t *testing.T) {
	for _, s := range []string{"", "00", "deadbeef", "0a0b0c0d0e0f"} {
		got, err := HexBytesValue(s)
		require.NoError(t, err)
		assert.Len(t, got, len(s)/2)
	}
}

func TestHexBytesRejectsBadInput(t *testing.T) {
	for _, s := range []string{"f", "abc", "zz"} {
		_, err := HexBytesValue(s)
		require.Error(t, err, "input %q", s)
		assert.True(t, HasKind(err, KindScalarDecode))
	}

	_, err := HexBytesValue(parseValue(t, `12`))
	require.Error(t, err)
}

func TestListAnnotatesElementIndex(t *testing.T) {
	var out []string
	err := List(&out, StringValue)(parseValue(t, `["a", 3, "c"]`))
	require.Error(t, err)
	flat := Flatten(err)
	require.Len(t, flat, 1)
	assert.Equal(t, "[1]", flat[0].Path())
}

func TestMapOfCollectsSortedKeyErrors(t *testing.T) {
	var out map[string]string
	err := MapOf(&out, StringValue)(parseValue(t, `{"b": 1, "a": 2, "c": "ok"}`))
	require.Error(t, err)
	flat := Flatten(err)
	require.Len(t, flat, 2)
	assert.Equal(t, "a", flat[0].Path())
	assert.Equal(t, "b", flat[1].Path())
}
