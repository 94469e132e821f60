package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CompareHashAndPassword(hash, "hunter2"))
	assert.False(t, CompareHashAndPassword(hash, "hunter3"))
	assert.False(t, CompareHashAndPassword("", "hunter2"))
}

func TestGenToken(t *testing.T) {
	a, err := GenToken(32)
	require.NoError(t, err)
	b, err := GenToken(32)
	require.NoError(t, err)

	assert.Len(t, a, 43) // 32 bytes, base64 raw url
	assert.NotEqual(t, a, b)
}
