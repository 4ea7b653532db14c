package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/mylang/lexer"
)

// tokensCmd: mylang tokens <file>
var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the token stream of a source file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := os.ReadFile(args[0])
		if err != nil {
			logger.Fatal("Error reading source file", zap.String("file", args[0]), zap.Error(err))
		}
		if err := printTokens(os.Stdout, string(source)); err != nil {
			fmt.Fprintf(os.Stderr, "%s:%v\n", args[0], err)
			os.Exit(1)
		}
	},
}

func printTokens(w io.Writer, source string) error {
	tokens, err := lexer.Tokenize(source)
	for _, tok := range tokens {
		fmt.Fprintln(w, tok)
	}
	return err
}
