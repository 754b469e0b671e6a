package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/minio/highwayhash"
	"github.com/vmihailenco/msgpack/v5"

	tt "github.com/gnolang/guardlint/internal/types"
)

// DefaultCacheSize is the number of analyzed sources kept in memory.
const DefaultCacheSize = 1024

var hashKey = []byte("guardlint-findings-cache-key-v1!")

// Key identifies one analyzed source: its path, its content and the rule
// set it was analyzed with.
type Key [highwayhash.Size]byte

// Cache keeps the findings of recently analyzed sources. It is safe for
// concurrent use.
type Cache struct {
	entries *lru.Cache[Key, []tt.Finding]
}

type cacheEntry struct {
	Key      []byte       `msgpack:"key"`
	Findings []tt.Finding `msgpack:"findings"`
}

// NewCache creates a cache holding up to size sources.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[Key, []tt.Finding](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Key hashes filename, source and salt into a cache key.
func (c *Cache) Key(filename string, source []byte, salt ...string) Key {
	h, err := highwayhash.New(hashKey)
	if err != nil {
		// only fails on a key of the wrong length
		panic(err)
	}
	write := func(b []byte) {
		_, _ = h.Write([]byte(fmt.Sprintf("%d:", len(b))))
		_, _ = h.Write(b)
	}
	write([]byte(filename))
	write(source)
	for _, s := range salt {
		write([]byte(s))
	}

	var key Key
	copy(key[:], h.Sum(nil))
	return key
}

func (c *Cache) Get(key Key) ([]tt.Finding, bool) {
	return c.entries.Get(key)
}

func (c *Cache) Set(key Key, findings []tt.Finding) {
	c.entries.Add(key, findings)
}

func (c *Cache) Len() int {
	return c.entries.Len()
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	c.entries.Purge()
}

// Save writes the cache to path, replacing the previous file atomically.
func (c *Cache) Save(path string) error {
	keys := c.entries.Keys()
	entries := make([]cacheEntry, 0, len(keys))
	for _, k := range keys {
		findings, ok := c.entries.Peek(k)
		if !ok {
			continue
		}
		entries = append(entries, cacheEntry{Key: k[:], Findings: findings})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "cache-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(entries); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	return os.Rename(f.Name(), path)
}

// Load merges the entries saved at path. A missing file is not an error.
func (c *Cache) Load(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	var entries []cacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	for _, e := range entries {
		if len(e.Key) != len(Key{}) {
			continue
		}
		var key Key
		copy(key[:], e.Key)
		c.entries.Add(key, e.Findings)
	}
	return nil
}
