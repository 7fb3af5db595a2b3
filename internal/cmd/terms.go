package cmd

import (
	"fmt"

	"github.com/salmonumbrella/xmlcsv/internal/markup"
	"github.com/salmonumbrella/xmlcsv/internal/output"
	"github.com/spf13/cobra"
)

var termsCmd = &cobra.Command{
	Use:   "terms <input.xml>",
	Short: "Print the lexical terms of an XML document",
	Long: `Print the terms the lexer produces for an XML document: opening tags,
closing tags and text runs, in document order. Use - for stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		content, err := readDocument(args[0], stdinFromContext(ctx))
		if err != nil {
			return err
		}

		terms, err := markup.Lex(content)
		if err != nil {
			return fmt.Errorf("lexical analysis failed: %w", err)
		}
		loggerFromContext(ctx).Debug("lexed document", "terms", len(terms))

		views := markup.Views(terms)
		if GetOutputFormat() == output.FormatText {
			return printAs(output.FormatTable, views)
		}
		return printStructured(views)
	},
}

func init() {
	rootCmd.AddCommand(termsCmd)
}
