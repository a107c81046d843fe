package strictjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpaqueAcceptsAnything(t *testing.T) {
	for _, doc := range []string{`null`, `{"nested": [1, 2]}`, `"text"`, `[false]`} {
		assert.NoError(t, Opaque(parseValue(t, doc)))
	}
	assert.NoError(t, Opaque(nil))
}

func TestCanaryOnlyAcceptsNull(t *testing.T) {
	require.NoError(t, Canary(nil))

	err := Canary(parseValue(t, `"deadbeef"`))
	require.Error(t, err)
	flat := Flatten(err)
	require.Len(t, flat, 1)
	assert.Equal(t, KindPlaceholderViolation, flat[0].Kind)
}

func TestCanaryList(t *testing.T) {
	require.NoError(t, CanaryList(nil))
	require.NoError(t, CanaryList(parseValue(t, `[]`)))
	require.NoError(t, CanaryList(parseValue(t, `[null, null]`)))

	err := CanaryList(parseValue(t, `[null, {"sig": 1}]`))
	require.Error(t, err)
	flat := Flatten(err)
	require.Len(t, flat, 1)
	assert.Equal(t, KindPlaceholderViolation, flat[0].Kind)
	assert.Equal(t, "[1]", flat[0].Path())

	err = CanaryList(parseValue(t, `"not a list"`))
	require.Error(t, err)
	assert.True(t, HasKind(err, KindPlaceholderViolation))
}

func TestCanaryObject(t *testing.T) {
	require.NoError(t, CanaryObject(nil))
	require.NoError(t, CanaryObject(parseValue(t, `{}`)))

	err := CanaryObject(parseValue(t, `{"surprise": 1}`))
	require.Error(t, err)
	flat := Flatten(err)
	require.Len(t, flat, 1)
	assert.Equal(t, KindUnknownField, flat[0].Kind)
	assert.Equal(t, "surprise", flat[0].Path())
}
