package internal

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/mylang/ast"
	tt "github.com/gnolang/mylang/internal/types"
	"github.com/gnolang/mylang/parser"
	"github.com/gnolang/mylang/sources"
)

// Options configures an Engine.
type Options struct {
	// Extensions of standalone source files. Defaults to sources.DefaultExtension.
	Extensions []string
	// Markdown enables parsing of mylang blocks inside .md files.
	Markdown bool
	// CacheDir enables the report cache when not empty.
	CacheDir    string
	CacheMaxAge time.Duration
	// Dependencies are files whose change invalidates every cached report,
	// typically the configuration file.
	Dependencies []string
	Logger       *zap.Logger
}

// Engine parses files and turns compilation results into reports.
type Engine struct {
	extensions []string
	markdown   bool
	logger     *zap.Logger
	cache      *Cache

	mu         sync.Mutex
	watcher    *fsnotify.Watcher
	watchDirs  []string
	isWatching bool
	done       chan struct{}
	pending    map[string]*time.Timer
	onChange   func(filename string, reports []tt.Report)
}

// NewEngine creates a new engine.
func NewEngine(opts Options) (*Engine, error) {
	engine := &Engine{
		extensions: opts.Extensions,
		markdown:   opts.Markdown,
		logger:     opts.Logger,
	}
	if len(engine.extensions) == 0 {
		engine.extensions = []string{sources.DefaultExtension}
	}
	if engine.logger == nil {
		engine.logger = zap.NewNop()
	}

	if opts.CacheDir != "" {
		cache, err := NewCache(opts.CacheDir, cacheSettings(engine.extensions, engine.markdown))
		if err != nil {
			return nil, err
		}
		if opts.CacheMaxAge > 0 {
			cache.SetMaxAge(opts.CacheMaxAge)
		}
		if err := cache.SetDependencies(opts.Dependencies...); err != nil {
			return nil, err
		}
		engine.cache = cache
	}

	return engine, nil
}

// cacheSettings describes the options that shape a file's reports.
func cacheSettings(extensions []string, markdown bool) string {
	exts := append([]string(nil), extensions...)
	sort.Strings(exts)
	return fmt.Sprintf("extensions=%s markdown=%t", strings.Join(exts, ","), markdown)
}

// Extensions returns every file extension the engine parses.
func (e *Engine) Extensions() []string {
	if !e.markdown {
		return e.extensions
	}
	return append(append([]string(nil), e.extensions...), ".md")
}

// Accepts reports whether filename is parsed by the engine.
func (e *Engine) Accepts(filename string) bool {
	return sources.Accepts(filename, e.Extensions())
}

// Run parses the given file and returns one report per unit.
func (e *Engine) Run(filename string) ([]tt.Report, error) {
	if e.cache != nil {
		if reports, ok := e.cache.Get(filename); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			return reports, nil
		}
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	var reports []tt.Report
	if e.markdown && isMarkdown(filename) {
		blocks, err := sources.ExtractMarkdown(content)
		if err != nil {
			return nil, fmt.Errorf("error reading markdown: %w", err)
		}
		for i, block := range blocks {
			reports = append(reports, e.runUnit(filename, i+1, block.Line, block.Source))
		}
	} else {
		reports = []tt.Report{e.runUnit(filename, 0, 1, string(content))}
	}

	if e.cache != nil {
		if err := e.cache.Set(filename, content, reports); err != nil {
			e.logger.Warn("failed to cache reports", zap.String("file", filename), zap.Error(err))
		}
	}

	return reports, nil
}

// RunSource parses an in-memory source.
func (e *Engine) RunSource(filename string, source []byte) tt.Report {
	return e.runUnit(filename, 0, 1, string(source))
}

func (e *Engine) runUnit(filename string, unit, firstLine int, source string) tt.Report {
	report := tt.Report{Filename: filename, Unit: unit, Line: firstLine}

	result, err := parser.Parse(source, parser.WithLogger(e.logger.With(zap.String("file", filename))))
	if err != nil {
		report.Failed = true
		if errors.Is(err, parser.ErrInvalidInput) {
			report.Issues = []tt.Issue{{
				Rule:     tt.RuleInvalidInput,
				Filename: filename,
				Message:  "Invalid input",
				Start:    token.Position{Filename: filename, Line: firstLine, Column: 1},
			}}
		}
		return report
	}

	report.Failed = result.Failed()
	if !report.Failed {
		report.AST = ast.Dump(result.Root())
	}
	for _, p := range result.Problems() {
		report.Issues = append(report.Issues, tt.Issue{
			Rule:       p.Kind.String(),
			Filename:   filename,
			Message:    p.Description,
			SourceLine: p.SourceLine,
			Start: token.Position{
				Filename: filename,
				Line:     firstLine + p.Line - 1,
				Column:   p.Column,
			},
		})
	}
	return report
}

func isMarkdown(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".md")
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	return &SourceCode{Lines: lines}, nil
}
