// Package assets handles game asset loading and caching.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/chasm-rift/internal/logger"
	"github.com/Faultbox/chasm-rift/pkg/csm"
	"github.com/Faultbox/chasm-rift/pkg/formats"
)

// ErrNotFound is returned when no search directory or archive holds a file.
var ErrNotFound = errors.New("asset not found")

// Manager loads files from loose-file directories and CSM archives.
// Search directories take priority over archives; among archives the last
// added wins.
type Manager struct {
	archives   []*csm.Archive
	searchDirs []string
	cache      *Cache
	log        *zap.Logger
	mu         sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
		log:   logger.Named("assets"),
	}
}

// AddArchive adds a CSM archive to the manager.
func (m *Manager) AddArchive(path string) error {
	archive, err := csm.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", path, err)
	}

	m.mu.Lock()
	m.archives = append(m.archives, archive)
	m.mu.Unlock()

	m.log.Debug("archive added", zap.String("path", path), zap.Int("files", len(archive.Entries())))
	return nil
}

// AddSearchDir adds a directory of loose files. Later directories win.
func (m *Manager) AddSearchDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("search dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("search dir %s: not a directory", dir)
	}

	m.mu.Lock()
	m.searchDirs = append(m.searchDirs, dir)
	m.mu.Unlock()
	return nil
}

// SearchDirs returns the configured directories.
func (m *Manager) SearchDirs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.searchDirs...)
}

// Archives returns the opened archives in the order they were added.
func (m *Manager) Archives() []*csm.Archive {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*csm.Archive(nil), m.archives...)
}

// Load loads a file by name. A name that is an existing file is read
// directly and cached under its absolute path; otherwise search directories
// and then archives are tried, cached under the base name.
func (m *Manager) Load(name string) ([]byte, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return m.loadPath(name)
	}

	key := cacheKey(name)
	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	data, src, err := m.find(name)
	if err != nil {
		return nil, err
	}
	m.cache.Set(key, data)
	m.log.Debug("asset loaded", zap.String("name", name), zap.String("source", src), zap.Int("bytes", len(data)))
	return data, nil
}

func (m *Manager) loadPath(path string) ([]byte, error) {
	key := pathKey(path)
	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m.cache.Set(key, data)
	m.log.Debug("asset loaded", zap.String("name", path), zap.String("source", "path"), zap.Int("bytes", len(data)))
	return data, nil
}

func (m *Manager) find(name string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	base := filepath.Base(filepath.FromSlash(strings.ReplaceAll(name, "\\", "/")))
	for i := len(m.searchDirs) - 1; i >= 0; i-- {
		if path, ok := lookupFold(m.searchDirs[i], base); ok {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, "", fmt.Errorf("reading %s: %w", path, err)
			}
			return data, path, nil
		}
	}

	for i := len(m.archives) - 1; i >= 0; i-- {
		data, err := m.archives[i].Read(name)
		if err == nil {
			return data, "archive", nil
		}
		if !errors.Is(err, csm.ErrFileNotFound) {
			return nil, "", err
		}
	}

	return nil, "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// lookupFold finds name in dir ignoring case; game data is usually upper case.
func lookupFold(dir, name string) (string, bool) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), name) {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}

// LoadPalette loads and parses a palette.
func (m *Manager) LoadPalette(name string) (*formats.Palette, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	pal, err := formats.ParsePalette(data)
	if err != nil {
		return nil, fmt.Errorf("palette %s: %w", name, err)
	}
	return pal, nil
}

// LoadModel loads and decodes a .3O or .CAR model.
func (m *Manager) LoadModel(name string, pal *formats.Palette) (*formats.Model, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	model, err := formats.ParseModel(data, pal)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}
	m.log.Debug("model decoded",
		zap.String("name", name),
		zap.Stringer("format", model.Format),
		zap.Int("vertices", model.VertexCount),
		zap.Int("faces", len(model.Faces)),
		zap.Int("frames", model.FrameCount()))
	return model, nil
}

// LoadAnimated loads a static model and replaces its frames with those of
// a companion .ANI file.
func (m *Manager) LoadAnimated(modelName, aniName string, pal *formats.Palette) (*formats.Model, error) {
	model, err := m.LoadModel(modelName, pal)
	if err != nil {
		return nil, err
	}
	data, err := m.Load(aniName)
	if err != nil {
		return nil, err
	}
	frames, err := formats.ParseANI(data, model.VertexCount)
	if err != nil {
		return nil, fmt.Errorf("animation %s: %w", aniName, err)
	}
	return model.WithAnimation(frames)
}

// Invalidate drops a cached file so the next Load reads it again. Both the
// base-name entry and the entry for name as a path are dropped.
func (m *Manager) Invalidate(name string) {
	m.cache.Delete(cacheKey(name))
	m.cache.Delete(pathKey(name))
}

// CacheStats returns cache hit and miss counts.
func (m *Manager) CacheStats() (hits, misses int) {
	return m.cache.Stats()
}

// Close closes all archives.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, archive := range m.archives {
		archive.Close()
	}
	m.archives = nil
	m.cache.Clear()
}

func cacheKey(name string) string {
	return strings.ToUpper(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
}

// pathKey keys direct path loads; the prefix keeps them apart from base names.
func pathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "path:" + filepath.Clean(path)
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
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

// Len returns the number of cached items.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
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
