package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("my-password")
	require.NoError(t, err)
	require.NotEqual(t, "my-password", hash)

	assert.NoError(t, CompareHash(hash, "my-password"))
	assert.Error(t, CompareHash(hash, "wrong-password"))
}

func TestGetHash_SaltedPerCall(t *testing.T) {
	hash1, err := GetHash("my-password")
	require.NoError(t, err)
	hash2, err := GetHash("my-password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}
