// Package assets resolves shader source from disk or from the built-in
// defaults, and watches shader files for edits.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/AlexStampfl/3D-Square/internal/engine/shader"
)

// Manager loads shader stage text. A stage with no configured path uses
// the embedded default.
type Manager struct {
	vertexPath   string
	fragmentPath string
	cache        *Cache
}

// NewManager creates a manager for the given stage paths. Empty paths fall
// back to the embedded square shaders.
func NewManager(vertexPath, fragmentPath string) *Manager {
	return &Manager{
		vertexPath:   clean(vertexPath),
		fragmentPath: clean(fragmentPath),
		cache:        NewCache(),
	}
}

func clean(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Source returns the current text of both stages.
func (m *Manager) Source() (shader.Source, error) {
	vs, err := m.load(m.vertexPath, SquareVertexShader)
	if err != nil {
		return shader.Source{}, fmt.Errorf("vertex shader: %w", err)
	}
	fs, err := m.load(m.fragmentPath, SquareFragmentShader)
	if err != nil {
		return shader.Source{}, fmt.Errorf("fragment shader: %w", err)
	}
	return shader.Source{Vertex: vs, Fragment: fs}, nil
}

func (m *Manager) load(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	if data, ok := m.cache.Get(path); ok {
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	m.cache.Set(path, data)
	return string(data), nil
}

// Paths returns the absolute paths of the on-disk stage files, if any.
func (m *Manager) Paths() []string {
	var paths []string
	for _, p := range []string{m.vertexPath, m.fragmentPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Invalidate drops the cached text of a file so the next Source call
// reads it again.
func (m *Manager) Invalidate(path string) {
	m.cache.Delete(clean(path))
}

// Close drops all cached text.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded files.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes an item from cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
