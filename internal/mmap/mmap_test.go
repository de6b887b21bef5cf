package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapFile_ReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, f.Truncate(64))

	m, err := MapFile(f, 64)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 64, m.Size())
	copy(m.Bytes(), "persisted")
	require.NoError(t, m.Sync())

	// The write went through the mapping to the file.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), raw[:9])
}

func TestMapFile_InvalidSize(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "empty")
	require.NoError(t, err)
	defer f.Close()

	_, err = MapFile(f, 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestMapAnon(t *testing.T) {
	m, err := MapAnon(4096)
	require.NoError(t, err)
	defer m.Close()

	b := m.Bytes()
	require.Len(t, b, 4096)
	for _, c := range b {
		require.Zero(t, c, "anonymous mappings start zeroed")
	}

	b[0] = 0xff
	assert.Equal(t, byte(0xff), m.Bytes()[0])

	require.NoError(t, m.Sync(), "sync is a no-op for anonymous mappings")
}

func TestMapping_Close(t *testing.T) {
	m, err := MapAnon(4096)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "close is idempotent")
	assert.Nil(t, m.Bytes())
	assert.ErrorIs(t, m.Sync(), ErrClosed)
	assert.ErrorIs(t, m.Advise(AccessRandom), ErrClosed)
}

func TestMapping_Advise(t *testing.T) {
	m, err := MapAnon(4096)
	require.NoError(t, err)
	defer m.Close()

	assert.NoError(t, m.Advise(AccessSequential))
	assert.NoError(t, m.Advise(AccessRandom))
	assert.NoError(t, m.Advise(AccessDefault))
}
