package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/gnolang/mylang/internal/types"
)

// debounce is how long a file must stay quiet before it is parsed again.
// Every event on the file restarts the wait.
const debounce = 100 * time.Millisecond

var (
	errAlreadyWatching = errors.New("already watching")
	errNotWatching     = errors.New("not watching")
)

// StartWatching re-parses accepted files under dirs whenever they are
// written. onChange receives the new reports; when nil they are logged.
func (e *Engine) StartWatching(dirs []string, onChange func(filename string, reports []tt.Report)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isWatching {
		return errAlreadyWatching
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.watchDirs = dirs
	e.onChange = onChange
	e.pending = make(map[string]*time.Timer)
	e.done = make(chan struct{})
	e.isWatching = true
	go e.watchLoop(watcher, e.done)
	return nil
}

// StopWatching stops the watch loop and releases the watcher.
func (e *Engine) StopWatching() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isWatching {
		return errNotWatching
	}

	e.isWatching = false
	for _, timer := range e.pending {
		timer.Stop()
	}
	e.pending = nil
	close(e.done)
	return e.watcher.Close()
}

func (e *Engine) watchLoop(watcher *fsnotify.Watcher, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !e.Accepts(event.Name) {
		return
	}
	e.schedule(event.Name)
}

// schedule parses filename once it has been quiet for the debounce period.
func (e *Engine) schedule(filename string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isWatching {
		return
	}
	if timer, ok := e.pending[filename]; ok {
		timer.Reset(debounce)
		return
	}
	e.pending[filename] = time.AfterFunc(debounce, func() { e.reparse(filename) })
}

func (e *Engine) reparse(filename string) {
	e.mu.Lock()
	watching := e.isWatching
	onChange := e.onChange
	delete(e.pending, filename)
	e.mu.Unlock()

	if !watching {
		return
	}

	reports, err := e.Run(filename)
	if err != nil {
		e.logger.Error("error parsing changed file", zap.String("file", filename), zap.Error(err))
		return
	}

	if onChange != nil {
		onChange(filename, reports)
		return
	}
	e.reportIssues(filename, reports)
}

func (e *Engine) reportIssues(filename string, reports []tt.Report) {
	issues := tt.Issues(reports)
	if len(issues) == 0 {
		e.logger.Info("no problems found", zap.String("file", filename))
		return
	}

	e.logger.Info("found problems",
		zap.String("file", filename),
		zap.Int("count", len(issues)),
		zap.Bool("failed", tt.AnyFailed(reports)))
	for _, issue := range issues {
		e.logger.Info("problem",
			zap.String("kind", issue.Rule),
			zap.Int("line", issue.Start.Line),
			zap.Int("column", issue.Start.Column),
			zap.String("message", issue.Message))
	}
}
