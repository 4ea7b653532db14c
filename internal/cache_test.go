package internal

import (
	"go/token"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnolang/mylang/internal/types"
)

func sampleReports(filename string) []tt.Report {
	return []tt.Report{{
		Filename: filename,
		Line:     1,
		Failed:   true,
		Issues: []tt.Issue{{
			Rule:       "fatal-error",
			Filename:   filename,
			Message:    "Premature end-of-file",
			SourceLine: "fun(10",
			Start:      token.Position{Filename: filename, Line: 1, Column: 7},
		}},
	}}
}

func storeReports(t *testing.T, cache *Cache, filename string) []tt.Report {
	t.Helper()
	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	reports := sampleReports(filename)
	require.NoError(t, cache.Set(filename, content, reports))
	return reports
}

func TestCache(t *testing.T) {
	tmpDir := t.TempDir()

	cache, err := NewCache(filepath.Join(tmpDir, "cache"), "settings")
	require.NoError(t, err)

	t.Run("SaveAndLoad", func(t *testing.T) {
		filename := writeFile(t, tmpDir, "saved.my", "fun(10")
		reports := storeReports(t, cache, filename)

		loaded, found := cache.Get(filename)
		assert.True(t, found)
		assert.Equal(t, reports, loaded)

		reopened, err := NewCache(cache.Dir(), "settings")
		require.NoError(t, err)
		loaded, found = reopened.Get(filename)
		assert.True(t, found)
		assert.Equal(t, reports, loaded)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get("nonexistent.my")
		assert.False(t, found)
	})

	t.Run("FileModified", func(t *testing.T) {
		filename := writeFile(t, tmpDir, "modified.my", "fun(10")
		storeReports(t, cache, filename)

		writeFile(t, tmpDir, "modified.my", "fun(10)")

		_, found := cache.Get(filename)
		assert.False(t, found)
	})

	t.Run("Expired", func(t *testing.T) {
		filename := writeFile(t, tmpDir, "expired.my", "fun(10")

		short, err := NewCache(filepath.Join(tmpDir, "short"), "settings")
		require.NoError(t, err)
		short.SetMaxAge(time.Nanosecond)
		storeReports(t, short, filename)
		time.Sleep(time.Millisecond)

		_, found := short.Get(filename)
		assert.False(t, found)
	})
}

func TestCache_SettingsChanged(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "cache")
	filename := writeFile(t, tmpDir, "main.my", "fun(10")

	cache, err := NewCache(dir, "markdown=false")
	require.NoError(t, err)
	storeReports(t, cache, filename)

	same, err := NewCache(dir, "markdown=false")
	require.NoError(t, err)
	_, found := same.Get(filename)
	assert.True(t, found)

	other, err := NewCache(dir, "markdown=true")
	require.NoError(t, err)
	_, found = other.Get(filename)
	assert.False(t, found)
}

func TestCache_DependencyChanged(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	config := writeFile(t, tmpDir, ".mylang.yaml", "markdown: false\n")
	filename := writeFile(t, tmpDir, "main.my", "fun(10")

	cache, err := NewCache(filepath.Join(tmpDir, "cache"), "settings")
	require.NoError(t, err)
	require.NoError(t, cache.SetDependencies(config))
	storeReports(t, cache, filename)

	_, found := cache.Get(filename)
	require.True(t, found)

	writeFile(t, tmpDir, ".mylang.yaml", "markdown: true\n")
	_, found = cache.Get(filename)
	assert.False(t, found)

	// entries stored after the change are served again
	storeReports(t, cache, filename)
	_, found = cache.Get(filename)
	assert.True(t, found)
}

func TestCache_DependencyChangedBetweenRuns(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "cache")

	config := writeFile(t, tmpDir, ".mylang.yaml", "markdown: false\n")
	filename := writeFile(t, tmpDir, "main.my", "fun(10")

	first, err := NewCache(dir, "settings")
	require.NoError(t, err)
	require.NoError(t, first.SetDependencies(config))
	storeReports(t, first, filename)

	unchanged, err := NewCache(dir, "settings")
	require.NoError(t, err)
	require.NoError(t, unchanged.SetDependencies(config))
	_, found := unchanged.Get(filename)
	assert.True(t, found)

	writeFile(t, tmpDir, ".mylang.yaml", "markdown: true\n")
	changed, err := NewCache(dir, "settings")
	require.NoError(t, err)
	require.NoError(t, changed.SetDependencies(config))
	_, found = changed.Get(filename)
	assert.False(t, found)
}

func TestCache_UnreadableFileIsDiscarded(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, cacheFileName), []byte("not gob"), 0o644))

	cache, err := NewCache(dir, "settings")
	require.NoError(t, err)
	_, found := cache.Get("main.my")
	assert.False(t, found)
}

func TestCache_MissingDependency(t *testing.T) {
	t.Parallel()
	cache, err := NewCache(t.TempDir(), "settings")
	require.NoError(t, err)
	assert.Error(t, cache.SetDependencies(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestCacheWithEngine(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	engine, err := NewEngine(Options{CacheDir: filepath.Join(tmpDir, "cache")})
	require.NoError(t, err)

	filename := writeFile(t, tmpDir, "main.my", "if name = 10 {}")

	reports, err := engine.Run(filename)
	require.NoError(t, err)
	require.True(t, reports[0].Failed)

	cached, err := engine.Run(filename)
	require.NoError(t, err)
	assert.Equal(t, reports, cached)

	writeFile(t, tmpDir, "main.my", "if name == 10 {}")
	fresh, err := engine.Run(filename)
	require.NoError(t, err)
	assert.False(t, fresh[0].Failed)
	assert.Empty(t, fresh[0].Issues)
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	cache, err := NewCache(filepath.Join(tmpDir, "cache"), "settings")
	require.NoError(t, err)

	filename := writeFile(t, tmpDir, "main.my", "fun(10")
	content := []byte("fun(10")
	reports := sampleReports(filename)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Set(filename, content, reports))
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(filename)
		}()
	}
	wg.Wait()

	loaded, found := cache.Get(filename)
	assert.True(t, found)
	assert.Equal(t, reports, loaded)
}

func TestCacheWithEngine_MarkdownToggled(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "cache")

	filename := writeFile(t, tmpDir, "guide.md", "# Guide\n\n```mylang\nval x = 1\n```\n")

	plain, err := NewEngine(Options{CacheDir: cacheDir})
	require.NoError(t, err)
	reports, err := plain.Run(filename)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Failed)

	withMarkdown, err := NewEngine(Options{CacheDir: cacheDir, Markdown: true})
	require.NoError(t, err)
	reports, err = withMarkdown.Run(filename)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.False(t, reports[0].Failed)
	assert.Equal(t, 4, reports[0].Line)
}
