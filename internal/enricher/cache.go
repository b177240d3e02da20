package enricher

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/heartmarshall/vocab-curator/internal/provider"
)

// Cache stores remote lookups per word.
type Cache interface {
	// Get returns the cached entries and whether a usable entry exists.
	Get(word string) ([]provider.Entry, bool)
	Put(word string, entries []provider.Entry) error
}

var errBadCacheKey = errors.New("invalid cache key")

// FileCache keeps one JSON file per word: <dir>/<word>.json. Files are
// written atomically so an interrupted run leaves no partial entry.
type FileCache struct {
	dir string
}

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

func (c *FileCache) path(word string) (string, error) {
	if word == "" || word == "." || word == ".." || strings.ContainsAny(word, `/\`) {
		return "", fmt.Errorf("%w: %q", errBadCacheKey, word)
	}
	return filepath.Join(c.dir, word+".json"), nil
}

// Get treats unreadable or malformed files as absent.
func (c *FileCache) Get(word string) ([]provider.Entry, bool) {
	path, err := c.path(word)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var entries []provider.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (c *FileCache) Put(word string, entries []provider.Entry) error {
	path, err := c.path(word)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, word+".*.tmp")
	if err != nil {
		return fmt.Errorf("create cache entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit cache entry: %w", err)
	}
	return nil
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string][]provider.Entry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string][]provider.Entry)}
}

func (c *MemoryCache) Get(word string) ([]provider.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries, ok := c.m[word]
	return entries, ok
}

func (c *MemoryCache) Put(word string, entries []provider.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[word] = entries
	return nil
}

// Len returns the number of cached words.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
