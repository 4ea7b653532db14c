package compile

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnolang/mylang/internal"
	tt "github.com/gnolang/mylang/internal/types"
	"github.com/gnolang/mylang/sources"
)

// Engine parses files and in-memory sources.
type Engine interface {
	Run(filePath string) ([]tt.Report, error)
	RunSource(filename string, source []byte) tt.Report
	Accepts(filename string) bool
	Extensions() []string
}

var _ Engine = (*internal.Engine)(nil)

// New creates an engine from config. dependencies invalidate the cache
// when they change, usually the configuration file itself.
func New(config Config, logger *zap.Logger, dependencies ...string) (*internal.Engine, error) {
	return internal.NewEngine(internal.Options{
		Extensions:   config.Extensions,
		Markdown:     config.Markdown,
		CacheDir:     config.Cache.Dir,
		CacheMaxAge:  config.Cache.MaxAge,
		Dependencies: dependencies,
		Logger:       logger,
	})
}

// NewFromFile loads the configuration at configurationPath and creates an
// engine from it.
func NewFromFile(configurationPath string, logger *zap.Logger) (*internal.Engine, Config, error) {
	config, err := LoadConfig(configurationPath)
	if err != nil {
		return nil, config, err
	}

	var deps []string
	if configurationPath != "" {
		deps = append(deps, configurationPath)
	}
	engine, err := New(config, logger, deps...)
	if err != nil {
		return nil, config, err
	}
	return engine, config, nil
}

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	inputs [][]byte,
	processor func(Engine, string, []byte) ([]tt.Report, error),
) ([]tt.Report, error) {
	var allReports []tt.Report
	for i, source := range inputs {
		if err := ctx.Err(); err != nil {
			return allReports, err
		}
		reports, err := processor(engine, fmt.Sprintf("<source %d>", i), source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		allReports = append(allReports, reports...)
	}

	return allReports, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	processor func(Engine, string) ([]tt.Report, error),
) ([]tt.Report, error) {
	var allReports []tt.Report
	for _, path := range paths {
		reports, err := ProcessPath(ctx, logger, engine, path, processor)
		allReports = append(allReports, reports...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return allReports, err
		}
	}

	return allReports, nil
}

// ProcessPath parses a single file, or every accepted file below a
// directory using up to runtime.NumCPU() workers. Files that cannot be read
// are logged and skipped. When ctx is cancelled the reports collected so
// far are returned with ctx.Err().
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	processor func(Engine, string) ([]tt.Report, error),
) ([]tt.Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		return processor(engine, path)
	}

	found, err := sources.New(path, engine.Extensions()...).Find()
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(found),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		reports []tt.Report
	)

	// limit the number of workers
	sem := make(chan struct{}, runtime.NumCPU())

	var cancelled error
dispatch:
	for _, file := range found {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(fp string) {
			defer wg.Done()
			defer func() { <-sem }()

			fileReports, err := processor(engine, fp)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
			} else {
				mu.Lock()
				reports = append(reports, fileReports...)
				mu.Unlock()
			}
			_ = bar.Add(1)
		}(file.Path)
	}
	wg.Wait()
	_ = bar.Finish()

	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Filename != reports[j].Filename {
			return reports[i].Filename < reports[j].Filename
		}
		return reports[i].Unit < reports[j].Unit
	})

	if reports == nil {
		reports = []tt.Report{}
	}
	return reports, cancelled
}

func ProcessFile(engine Engine, filePath string) ([]tt.Report, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine Engine, filename string, source []byte) ([]tt.Report, error) {
	return []tt.Report{engine.RunSource(filename, source)}, nil
}
