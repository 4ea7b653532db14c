package sources

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DefaultExtension is the file extension of mylang sources.
const DefaultExtension = ".my"

type FileInfo struct {
	Path string
	Size int64
}

// Finder walks a directory tree looking for source files.
type Finder struct {
	rootDir    string
	extensions []string
}

// New creates a finder rooted at rootDir. With no extensions every regular
// file matches.
func New(rootDir string, extensions ...string) *Finder {
	return &Finder{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Find returns the matching files sorted by path.
func (f *Finder) Find() ([]FileInfo, error) {
	var (
		files []FileInfo
		mutex sync.Mutex
		wg    sync.WaitGroup
	)

	err := filepath.Walk(f.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if Accepts(path, f.extensions) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fileInfo := FileInfo{
					Path: path,
					Size: info.Size(),
				}
				mutex.Lock()
				files = append(files, fileInfo)
				mutex.Unlock()
			}()
		}
		return nil
	})

	wg.Wait()
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// Accepts reports whether path has one of extensions. An empty list
// accepts everything.
func Accepts(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
