package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cguide/pkg/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Dump the token stream of a C file",
	Long: `Lex a C file and print one token per line with its type, text and
source span. Useful when debugging unexpected parse results.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		source, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}

		text := string(source)
		lx := lexer.New(text)
		for {
			tok := lx.NextToken()
			fmt.Printf("%-16s %-24q [%s]\n", tok.Type, tok.Span.Text(text), tok.Span)
			if tok.Type == lexer.TokenEOF {
				return nil
			}
		}
	},
}
