package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandBytes(t *testing.T) {
	a, err := GenerateRandBytes(32)
	require.NoError(t, err)
	b, err := GenerateRandBytes(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Len(t, b, 32)
	assert.NotEqual(t, a, b)
}

func TestWipeByteArray(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)

	require.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	sentinels := []error{
		ErrInvalidSecret,
		ErrInvalidURI,
		ErrIncompatibleVersion,
		ErrDecryptionFailed,
		ErrKeyNotDerived,
	}
	for _, s := range sentinels {
		wrapped := fmt.Errorf("outer: %w", s)
		assert.True(t, errors.Is(wrapped, s), s.Error())
		for _, other := range sentinels {
			if other != s {
				assert.False(t, errors.Is(wrapped, other))
			}
		}
	}
}
