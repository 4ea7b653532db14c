package internal

import (
	"crypto/md5"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	tt "github.com/gnolang/mylang/internal/types"
)

// DefaultCacheMaxAge is how long a cached report stays valid.
const DefaultCacheMaxAge = 24 * time.Hour

const cacheFileName = "parse_cache.gob"

// stamp identifies one version of a file on disk.
type stamp struct {
	Hash    string
	ModTime time.Time
}

func (s stamp) matches(other stamp) bool {
	return s.Hash == other.Hash && s.ModTime.Equal(other.ModTime)
}

// CacheEntry holds the reports parsed from one version of a file.
type CacheEntry struct {
	Stamp    stamp
	Reports  []tt.Report
	StoredAt time.Time
}

// snapshot is the persisted form of a Cache.
type snapshot struct {
	Settings     string
	Dependencies map[string]string
	Entries      map[string]CacheEntry
}

// Cache keeps the reports of unchanged files across runs.
//
// Reports depend on more than the file itself: the engine settings and the
// dependency files (usually the configuration) also shape them. The cache
// remembers both and starts over whenever one of them differs from what the
// stored entries were produced with.
type Cache struct {
	dir      string
	settings string
	maxAge   time.Duration

	mu           sync.Mutex
	entries      map[string]CacheEntry
	dependencies map[string]string // path to content hash
}

// NewCache opens the cache stored in dir for the given engine settings.
// Entries stored under other settings are dropped.
func NewCache(dir, settings string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	c := &Cache{
		dir:          dir,
		settings:     settings,
		maxAge:       DefaultCacheMaxAge,
		entries:      make(map[string]CacheEntry),
		dependencies: make(map[string]string),
	}

	stored, err := c.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	if stored.Settings == settings {
		if stored.Entries != nil {
			c.entries = stored.Entries
		}
		if stored.Dependencies != nil {
			c.dependencies = stored.Dependencies
		}
	}

	return c, nil
}

// Dir returns the directory holding the cache file.
func (c *Cache) Dir() string {
	return c.dir
}

// SetMaxAge sets how long entries stay valid.
func (c *Cache) SetMaxAge(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxAge = d
}

// SetDependencies declares the files every entry depends on. When their
// contents differ from the ones the stored entries were built with, every
// entry is dropped.
func (c *Cache) SetDependencies(files ...string) error {
	hashes, err := hashFiles(files)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if maps.Equal(hashes, c.dependencies) {
		return nil
	}
	c.dependencies = hashes
	return c.invalidate()
}

// Get returns the reports stored for filename when the file is unchanged.
func (c *Cache) Get(filename string) ([]tt.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dependenciesChanged() {
		return nil, false
	}

	entry, ok := c.entries[filename]
	if !ok {
		return nil, false
	}
	if time.Since(entry.StoredAt) > c.maxAge {
		delete(c.entries, filename)
		return nil, false
	}
	current, err := stampFile(filename)
	if err != nil || !current.matches(entry.Stamp) {
		delete(c.entries, filename)
		return nil, false
	}

	return entry.Reports, true
}

// Set stores the reports parsed from content, the bytes read from filename.
func (c *Cache) Set(filename string, content []byte, reports []tt.Report) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", filename, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[filename] = CacheEntry{
		Stamp:    stamp{Hash: hashBytes(content), ModTime: info.ModTime()},
		Reports:  reports,
		StoredAt: time.Now(),
	}
	return c.save()
}

// dependenciesChanged rehashes the dependency files. On a change the new
// hashes are adopted and every entry is dropped.
func (c *Cache) dependenciesChanged() bool {
	if len(c.dependencies) == 0 {
		return false
	}
	current, err := hashFiles(keysOf(c.dependencies))
	if err == nil && maps.Equal(current, c.dependencies) {
		return false
	}
	if err == nil {
		c.dependencies = current
	}
	_ = c.invalidate()
	return true
}

// invalidate drops every entry. c.mu must be held.
func (c *Cache) invalidate() error {
	c.entries = make(map[string]CacheEntry)
	return c.save()
}

func (c *Cache) path() string {
	return filepath.Join(c.dir, cacheFileName)
}

func (c *Cache) load() (snapshot, error) {
	file, err := os.Open(c.path())
	if errors.Is(err, os.ErrNotExist) {
		return snapshot{}, nil
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	var stored snapshot
	if err := gob.NewDecoder(file).Decode(&stored); err != nil {
		// a cache written in another format is discarded
		return snapshot{}, nil
	}
	return stored, nil
}

func (c *Cache) save() error {
	file, err := os.Create(c.path())
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	err = gob.NewEncoder(file).Encode(snapshot{
		Settings:     c.settings,
		Dependencies: c.dependencies,
		Entries:      c.entries,
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

func stampFile(filename string) (stamp, error) {
	file, err := os.Open(filename)
	if err != nil {
		return stamp{}, err
	}
	defer file.Close()

	h := md5.New()
	if _, err := io.Copy(h, file); err != nil {
		return stamp{}, err
	}
	info, err := file.Stat()
	if err != nil {
		return stamp{}, err
	}
	return stamp{Hash: fmt.Sprintf("%x", h.Sum(nil)), ModTime: info.ModTime()}, nil
}

func hashFiles(files []string) (map[string]string, error) {
	hashes := make(map[string]string, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return hashes, fmt.Errorf("failed to hash %s: %w", f, err)
		}
		hashes[f] = hashBytes(content)
	}
	return hashes, nil
}

func hashBytes(content []byte) string {
	return fmt.Sprintf("%x", md5.Sum(content))
}

func keysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
