package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Hash_isContentAddressed(t *testing.T) {
	assert := assert.New(t)

	h1 := Hash("int x = 1;")
	h2 := Hash("int x = 1;")
	h3 := Hash("int x = 2;")
	assert.Equal(h1, h2)
	assert.NotEqual(h1, h3)
	assert.Len(h1, 64, "hex-encoded 256-bit digest")
}

func Test_Store_putGetRoundTrip(t *testing.T) {
	assert := assert.New(t)

	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	hash := Hash("void t() { }")
	_, ok, err := store.Get(hash)
	require.NoError(t, err)
	assert.False(ok, "miss before the first Put")

	errs := []string{"division by zero at 1:20"}
	warns := []string{"alias warning at 2:3"}
	require.NoError(t, store.Put(hash, "t.btrc", "session-1", errs, warns))

	entry, ok, err := store.Get(hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(hash, entry.Hash)
	assert.Equal("t.btrc", entry.Filename)
	assert.Equal("session-1", entry.SessionID)
	assert.Equal(errs, entry.Errors)
	assert.Equal(warns, entry.Warnings)
	assert.NotEmpty(entry.ID)
}

func Test_Store_putReplacesExistingEntry(t *testing.T) {
	assert := assert.New(t)

	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	hash := Hash("int f();")
	require.NoError(t, store.Put(hash, "a.btrc", "s1", []string{"first"}, nil))
	require.NoError(t, store.Put(hash, "a.btrc", "s2", nil, nil))

	entry, ok, err := store.Get(hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal("s2", entry.SessionID)
	assert.Empty(entry.Errors)
}

func Test_Store_cleanDiagnosticsRoundTripAsEmpty(t *testing.T) {
	assert := assert.New(t)

	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	hash := Hash("void ok() { }")
	require.NoError(t, store.Put(hash, "ok.btrc", "s", nil, nil))
	entry, ok, err := store.Get(hash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(entry.Errors)
	assert.Nil(entry.Warnings)
}
