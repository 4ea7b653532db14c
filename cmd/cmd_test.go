package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/mylang/compile"
	tt "github.com/gnolang/mylang/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Run(filePath string) ([]tt.Report, error) {
	args := m.Called(filePath)
	return args.Get(0).([]tt.Report), args.Error(1)
}

func (m *mockEngine) RunSource(filename string, source []byte) tt.Report {
	args := m.Called(filename, source)
	return args.Get(0).(tt.Report)
}

func (m *mockEngine) Accepts(filename string) bool {
	return filepath.Ext(filename) == ".my"
}

func (m *mockEngine) Extensions() []string {
	return []string{".my"}
}

var _ compile.Engine = (*mockEngine)(nil)

func createTempFiles(t *testing.T, dir string, files map[string]string) []string {
	t.Helper()
	var paths []string
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func failedReport(filename string) tt.Report {
	return tt.Report{
		Filename: filename,
		Line:     1,
		Failed:   true,
		Issues: []tt.Issue{{
			Rule:       "syntax-error",
			Filename:   filename,
			Message:    "Unexpected operator `=`",
			SourceLine: "if name = 10 {}",
			Start:      token.Position{Filename: filename, Line: 1, Column: 9},
		}},
	}
}

func recoveredReport(filename string) tt.Report {
	return tt.Report{
		Filename: filename,
		Line:     1,
		AST:      "IfStatement\n  condition: a == b\n",
		Issues: []tt.Issue{{
			Rule:       "syntax-error",
			Filename:   filename,
			Message:    "Expected token of type `NAME`",
			SourceLine: "val == 1",
			Start:      token.Position{Filename: filename, Line: 2, Column: 5},
		}},
	}
}

func TestRunParseProcess(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	createTempFiles(t, dir, map[string]string{
		"bad.my":       "if name = 10 {}",
		"recovered.my": "if a == b {\nval == 1\n}",
		"good.my":      "val a = 1",
	})
	bad := filepath.Join(dir, "bad.my")
	recovered := filepath.Join(dir, "recovered.my")
	good := filepath.Join(dir, "good.my")

	tests := []struct {
		name     string
		paths    []string
		opts     printOptions
		wantCode int
		contains []string
	}{
		{
			name:     "failed file",
			paths:    []string{bad},
			wantCode: 1,
			contains: []string{"error: syntax-error", "bad.my:1:9", "^~~~ here", "= Unexpected operator `=`"},
		},
		{
			name:     "recovered file is not a failure",
			paths:    []string{recovered},
			wantCode: 0,
			contains: []string{"recovered.my:2:5", "= Expected token of type `NAME`"},
		},
		{
			name:     "strict fails on recovered problems",
			paths:    []string{recovered},
			opts:     printOptions{strict: true},
			wantCode: 1,
		},
		{
			name:     "clean file with ast",
			paths:    []string{good},
			opts:     printOptions{showAST: true},
			wantCode: 0,
			contains: []string{"good.my:\nDeclarationStatement"},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			engine := new(mockEngine)
			engine.On("Run", bad).Return([]tt.Report{failedReport(bad)}, nil).Maybe()
			engine.On("Run", recovered).Return([]tt.Report{recoveredReport(recovered)}, nil).Maybe()
			engine.On("Run", good).Return([]tt.Report{{
				Filename: good,
				Line:     1,
				AST:      "DeclarationStatement\n  name: a\n  value: 1\n",
			}}, nil).Maybe()

			var out bytes.Buffer
			code := runParseProcess(context.Background(), zap.NewNop(), &out, engine, tc.paths, tc.opts)
			assert.Equal(t, tc.wantCode, code)
			for _, s := range tc.contains {
				assert.Contains(t, out.String(), s)
			}
			engine.AssertExpectations(t)
		})
	}
}

func TestRunParseProcess_MissingPath(t *testing.T) {
	t.Parallel()
	engine := new(mockEngine)
	var out bytes.Buffer
	code := runParseProcess(context.Background(), zap.NewNop(), &out, engine,
		[]string{filepath.Join(t.TempDir(), "missing.my")}, printOptions{})
	assert.Equal(t, 1, code)
	engine.AssertNotCalled(t, "Run", mock.Anything)
}

func TestRunParseProcess_JSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	createTempFiles(t, dir, map[string]string{"bad.my": "if name = 10 {}"})
	bad := filepath.Join(dir, "bad.my")

	engine := new(mockEngine)
	engine.On("Run", bad).Return([]tt.Report{failedReport(bad)}, nil)

	t.Run("stdout", func(t *testing.T) {
		var out bytes.Buffer
		code := runParseProcess(context.Background(), zap.NewNop(), &out, engine, []string{bad}, printOptions{json: true})
		assert.Equal(t, 1, code)

		var decoded map[string][]tt.Report
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, []tt.Report{failedReport(bad)}, decoded[bad])
	})

	t.Run("file", func(t *testing.T) {
		output := filepath.Join(dir, "out.json")
		var out bytes.Buffer
		runParseProcess(context.Background(), zap.NewNop(), &out, engine, []string{bad},
			printOptions{json: true, jsonOutput: output})
		assert.Empty(t, out.String())

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Unexpected operator")
	})
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, exitCode(nil, true))
	assert.Equal(t, 1, exitCode([]tt.Report{failedReport("a.my")}, false))
	assert.Equal(t, 0, exitCode([]tt.Report{recoveredReport("a.my")}, false))
	assert.Equal(t, 1, exitCode([]tt.Report{recoveredReport("a.my")}, true))
}

func TestUnitName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a.my", unitName(tt.Report{Filename: "a.my"}))
	assert.Equal(t, "doc.md#2 (line 14)", unitName(tt.Report{Filename: "doc.md", Unit: 2, Line: 14}))
}

func TestPrintTokens(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	require.NoError(t, printTokens(&out, "fun(10)"))
	assert.Equal(t, "NAME(\"fun\")\nLPAREN(\"(\")\nNUMBER(\"10\")\nRPAREN(\")\")\nEOF(\"\")\n", out.String())

	out.Reset()
	err := printTokens(&out, "val @")
	assert.EqualError(t, err, "1:5: Unexpected symbol `@`")
	assert.Equal(t, "KEYWORD(\"val\")\n", out.String())
}

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"custom.yaml", "custom.toml"} {
		path := filepath.Join(t.TempDir(), name)

		written, err := initConfigurationFile(path)
		require.NoError(t, err)
		assert.Equal(t, path, written)

		config, err := compile.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, compile.DefaultConfig(), config)
	}
}
