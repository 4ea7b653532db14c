package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/mylang/compile"
	"github.com/gnolang/mylang/formatter"
	"github.com/gnolang/mylang/internal"
	tt "github.com/gnolang/mylang/internal/types"
)

// watchCmd: mylang watch [dirs...]
var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-parse files as they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}

		engine, _, err := compile.NewFromFile(cfgFile, logger)
		if err != nil {
			logger.Fatal("Failed to initialize engine", zap.Error(err))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := engine.StartWatching(args, printChange); err != nil {
			logger.Fatal("Failed to start watching", zap.Strings("dirs", args), zap.Error(err))
		}
		logger.Info("watching for changes", zap.Strings("dirs", args))

		<-ctx.Done()
		if err := engine.StopWatching(); err != nil {
			logger.Error("Error stopping watcher", zap.Error(err))
		}
	},
}

func printChange(filename string, reports []tt.Report) {
	issues := tt.Issues(reports)
	if len(issues) == 0 {
		fmt.Printf("%s: ok\n", filename)
		return
	}
	sourceCode, _ := internal.ReadSourceCode(filename)
	fmt.Print(formatter.GenerateFormattedIssue(issues, sourceCode))
}
