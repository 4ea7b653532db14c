package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/mylang/compile"
	"github.com/gnolang/mylang/formatter"
	"github.com/gnolang/mylang/internal"
	tt "github.com/gnolang/mylang/internal/types"
)

var (
	parseJsonOutput bool
	outPath         string
	showAST         bool
	strict          bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [paths...]",
	Short: "Parse files or directories and report problems",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, config, err := compile.NewFromFile(cfgFile, logger)
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}

		opts := printOptions{
			json:       parseJsonOutput,
			jsonOutput: outPath,
			showAST:    showAST,
			strict:     strict || config.Strict,
		}
		if code := runParseProcess(ctx, logger, os.Stdout, engine, args, opts); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseJsonOutput, "json", false, "Output reports in JSON format")
	parseCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	parseCmd.Flags().BoolVar(&showAST, "ast", false, "Print the syntax tree of every parsed unit")
	parseCmd.Flags().BoolVar(&strict, "strict", false, "Fail when any problem is found, even if parsing recovered")
}

type printOptions struct {
	json       bool
	jsonOutput string
	showAST    bool
	strict     bool
}

// runParseProcess parses paths and prints the reports to w. It returns the
// process exit code.
func runParseProcess(ctx context.Context, logger *zap.Logger, w io.Writer, engine compile.Engine, paths []string, opts printOptions) int {
	reports, err := compile.ProcessFiles(ctx, logger, engine, paths, compile.ProcessFile)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		return 1
	}

	if err := printReports(logger, w, reports, opts); err != nil {
		logger.Error("Error printing reports", zap.Error(err))
		return 1
	}

	return exitCode(reports, opts.strict)
}

func exitCode(reports []tt.Report, strict bool) int {
	if tt.AnyFailed(reports) {
		return 1
	}
	if strict && len(tt.Issues(reports)) > 0 {
		return 1
	}
	return 0
}

func printReports(logger *zap.Logger, w io.Writer, reports []tt.Report, opts printOptions) error {
	reportsByFile := make(map[string][]tt.Report)
	for _, report := range reports {
		reportsByFile[report.Filename] = append(reportsByFile[report.Filename], report)
	}

	sortedFiles := make([]string, 0, len(reportsByFile))
	for filename := range reportsByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	if opts.json {
		d, err := json.Marshal(reportsByFile)
		if err != nil {
			return fmt.Errorf("error marshalling reports to JSON: %w", err)
		}
		if opts.jsonOutput == "" {
			_, err = fmt.Fprintln(w, string(d))
			return err
		}
		return os.WriteFile(opts.jsonOutput, d, 0o644)
	}

	for _, filename := range sortedFiles {
		fileReports := reportsByFile[filename]
		if issues := tt.Issues(fileReports); len(issues) > 0 {
			sourceCode, err := internal.ReadSourceCode(filename)
			if err != nil {
				logger.Warn("Error reading source file", zap.String("file", filename), zap.Error(err))
			}
			fmt.Fprint(w, formatter.GenerateFormattedIssue(issues, sourceCode))
		}
		if !opts.showAST {
			continue
		}
		for _, report := range fileReports {
			if report.Failed {
				continue
			}
			fmt.Fprintf(w, "%s:\n%s\n", unitName(report), report.AST)
		}
	}
	return nil
}

func unitName(report tt.Report) string {
	if report.Unit == 0 {
		return report.Filename
	}
	return fmt.Sprintf("%s#%d (line %d)", report.Filename, report.Unit, report.Line)
}
