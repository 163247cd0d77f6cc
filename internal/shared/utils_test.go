package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandBytes(t *testing.T) {
	a, err := RandBytes(32)
	require.NoError(t, err)
	b, err := RandBytes(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestWipeByteArray(t *testing.T) {
	b := []byte("passphrase")
	WipeByteArray(b)
	assert.Equal(t, make([]byte, len(b)), b)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}
