// Package cache persists small string values across pricetrack restarts.
// The store mirrors the signed-in session into it.
package cache

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// document is the on-disk layout of the cache file.
type document struct {
	Entries map[string]string `toml:"entries"`
}

// File is a write-through cache backed by a TOML file. Every Set and Clear
// rewrites the file; reads are served from memory.
type File struct {
	mu      sync.RWMutex
	path    string
	entries map[string]string
}

// Open loads the cache at path, falling back to an empty cache when the file
// is missing or unreadable. The path is used as given; config.Load has
// already expanded it. Only an empty path is an error.
func Open(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("cache path is empty")
	}
	f := &File{path: path, entries: make(map[string]string)}

	file, err := os.Open(path)
	if err != nil {
		return f, nil // missing or unreadable: start empty
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return f, nil
	}

	var doc document
	if err := toml.Unmarshal(bytes, &doc); err != nil {
		return f, nil // corrupt file is overwritten on next Set
	}
	if doc.Entries != nil {
		f.entries = doc.Entries
	}
	return f, nil
}

// Path returns the cache file path.
func (f *File) Path() string {
	return f.path
}

// Get returns the value stored under key.
func (f *File) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.entries[key]
	return v, ok
}

// Set stores value under key and persists the cache.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := maps.Clone(f.entries)
	next[key] = value
	if err := f.write(next); err != nil {
		return err
	}
	f.entries = next
	return nil
}

// Clear removes every entry and deletes the cache file.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = make(map[string]string)
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cache: %w", err)
	}
	return nil
}

func (f *File) write(entries map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	bytes, err := toml.Marshal(document{Entries: entries})
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, bytes, 0o600); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}
