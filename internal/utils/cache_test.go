package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_BasicOperations(t *testing.T) {
	cache := NewCache[string, int]()

	cache.Set("key1", 42)
	value, exists := cache.Get("key1")
	assert.True(t, exists)
	assert.Equal(t, 42, value)

	_, exists = cache.Get("nonexistent")
	assert.False(t, exists)

	cache.Delete("key1")
	_, exists = cache.Get("key1")
	assert.False(t, exists)
}

func TestCache_Clear(t *testing.T) {
	cache := NewCache[string, string]()

	cache.Set("key1", "value1")
	cache.Set("key2", "value2")
	assert.Equal(t, 2, cache.Size())

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewCacheWithSize[string, int](2)

	cache.Set("a", 1)
	cache.Set("b", 2)
	_, _ = cache.Get("a")
	cache.Set("c", 3)

	_, ok := cache.Get("b")
	assert.False(t, ok, "b was least recently used")
	assert.ElementsMatch(t, []string{"a", "c"}, cache.Keys())
}

func TestCache_FileValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.go")
	require.NoError(t, os.WriteFile(path, []byte("package x\n"), 0644))

	cache := NewCache[string, string]()
	require.NoError(t, cache.SetWithFileInfo(path, "parsed", path))

	value, ok := cache.GetWithFileValidation(path, path)
	require.True(t, ok)
	assert.Equal(t, "parsed", value)

	require.NoError(t, os.WriteFile(path, []byte("package x\n\nvar y int\n"), 0644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	_, ok = cache.GetWithFileValidation(path, path)
	assert.False(t, ok, "modified file must invalidate the entry")
	assert.Equal(t, 0, cache.Size())
}

func TestCache_SetWithFileInfoMissingFile(t *testing.T) {
	cache := NewCache[string, string]()
	err := cache.SetWithFileInfo("missing", "v", filepath.Join(t.TempDir(), "missing.go"))
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Size())
}
