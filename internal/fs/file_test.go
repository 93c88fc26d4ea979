package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRename(t *testing.T) {
	name := filepath.Join(t.TempDir(), "entry.bin")

	require.NoError(t, WriteRename(name, []byte("one"), 0600))
	require.NoError(t, WriteRename(name, []byte("two"), 0600))

	p, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "two", string(p))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(name))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRemoveIfExists(t *testing.T) {
	name := filepath.Join(t.TempDir(), "gone")

	assert.NoError(t, RemoveIfExists(name))

	require.NoError(t, os.WriteFile(name, []byte("x"), 0600))
	assert.NoError(t, RemoveIfExists(name))
	_, err := os.Stat(name)
	assert.True(t, os.IsNotExist(err))
}
