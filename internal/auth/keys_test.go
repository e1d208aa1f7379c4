package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrGenerateKey_GeneratesAndPersists(t *testing.T) {
	dir := t.TempDir()

	key, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key, keyLength)

	// Second call loads the same key.
	again, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key, again)

	info, err := os.Stat(filepath.Join(dir, "auth.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadOrGenerateKey_RejectsCorruptKey(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "auth.key")

	require.NoError(t, os.WriteFile(keyPath, []byte("too short"), 0o600))
	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)

	// Right length, not hex.
	bad := make([]byte, keyHexLength)
	for i := range bad {
		bad[i] = 'z'
	}
	require.NoError(t, os.WriteFile(keyPath, bad, 0o600))
	_, err = LoadOrGenerateKey(dir)
	assert.Error(t, err)
}
