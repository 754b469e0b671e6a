package internal

import (
	"os"
	"path/filepath"
	"testing"

	tt "github.com/gnolang/guardlint/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFindings() []tt.Finding {
	return []tt.Finding{
		{
			Code:             "invert-if",
			Message:          "Invert if statement to reduce nesting.",
			FilePath:         "src/main.js",
			RelativeFilePath: "main.js",
			Line:             3,
			Column:           3,
			Start:            40,
			End:              42,
			Severity:         tt.SeverityWarning,
			Fix:              &tt.Fix{Start: 16, End: 90, Content: "{\n  return\n}"},
		},
		{
			Code:     "invert-if",
			FilePath: "src/main.js",
			Line:     9,
			Severity: tt.SeverityError,
		},
	}
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(0)
	require.NoError(t, err)

	base := cache.Key("a.js", []byte("x"), "invert-if=WARNING")
	assert.Equal(t, base, cache.Key("a.js", []byte("x"), "invert-if=WARNING"))

	others := []Key{
		cache.Key("b.js", []byte("x"), "invert-if=WARNING"),
		cache.Key("a.js", []byte("y"), "invert-if=WARNING"),
		cache.Key("a.js", []byte("x"), "invert-if=ERROR"),
		cache.Key("a.js", []byte("x")),
		// length prefixes keep field boundaries apart
		cache.Key("a.j", []byte("sx"), "invert-if=WARNING"),
	}
	for _, k := range others {
		assert.NotEqual(t, base, k)
	}
}

func TestCacheGetSet(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(2)
	require.NoError(t, err)

	k1 := cache.Key("a.js", []byte("1"))
	k2 := cache.Key("b.js", []byte("2"))
	k3 := cache.Key("c.js", []byte("3"))

	_, ok := cache.Get(k1)
	assert.False(t, ok)

	cache.Set(k1, sampleFindings())
	got, ok := cache.Get(k1)
	require.True(t, ok)
	assert.Equal(t, sampleFindings(), got)

	// k1 was used last, so k2 is evicted first
	cache.Set(k2, nil)
	_, _ = cache.Get(k1)
	cache.Set(k3, nil)
	assert.Equal(t, 2, cache.Len())
	_, ok = cache.Get(k2)
	assert.False(t, ok)
	_, ok = cache.Get(k1)
	assert.True(t, ok)

	cache.InvalidateAll()
	assert.Equal(t, 0, cache.Len())
}

func TestCacheSaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "cache.mp")

	cache, err := NewCache(8)
	require.NoError(t, err)
	key := cache.Key("a.js", []byte("source"))
	cache.Set(key, sampleFindings())
	require.NoError(t, cache.Save(path))

	loaded, err := NewCache(8)
	require.NoError(t, err)
	require.NoError(t, loaded.Load(path))

	got, ok := loaded.Get(key)
	require.True(t, ok)
	assert.Equal(t, sampleFindings(), got)
}

func TestCacheLoadMissingFile(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(8)
	require.NoError(t, err)
	assert.NoError(t, cache.Load(filepath.Join(t.TempDir(), "missing.mp")))
	assert.Equal(t, 0, cache.Len())
}

func TestCacheLoadCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cache.mp")
	require.NoError(t, os.WriteFile(path, []byte("not msgpack"), 0o644))

	cache, err := NewCache(8)
	require.NoError(t, err)
	assert.Error(t, cache.Load(path))
}
