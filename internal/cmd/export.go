package cmd

import (
	"context"
	"fmt"

	"github.com/salmonumbrella/xmlcsv/internal/convert"
	"github.com/salmonumbrella/xmlcsv/internal/output"
	"github.com/spf13/cobra"
)

var (
	strictFlag bool
	padFlag    bool
)

type conversion func(c *convert.Converter, ctx context.Context, req convert.Request) (*convert.Report, error)

var exportCmd = &cobra.Command{
	Use:   "export <input.xml> <output.csv>",
	Short: "Convert an XML document into a CSV table",
	Long: `Convert an XML document into a CSV table.

Every leaf element becomes a column named after the leaf; groups of
sibling elements become rows. Use - for stdin or stdout.`,
	Example: `  xmlcsv export people.xml people.csv
  cat people.xml | xmlcsv export - - --pad`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConversion(cmd, args, (*convert.Converter).Export)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <input.csv> <output.xml>",
	Short: "Convert a CSV table into an XML document",
	Long: `Convert a CSV table into an XML document.

The first line names the columns; each following line becomes an
<element> under a <root2> wrapper. Use - for stdin or stdout.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConversion(cmd, args, (*convert.Converter).Import)
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert in the direction implied by the input extension",
	Long: `Convert a file, choosing the direction from the input extension:
.xml inputs are exported to CSV and .csv inputs are imported to XML.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConversion(cmd, args, (*convert.Converter).Convert)
	},
}

func init() {
	for _, c := range []*cobra.Command{exportCmd, convertCmd} {
		c.Flags().BoolVar(&strictFlag, "strict", false, "Reject tags left open at end of input")
		c.Flags().BoolVar(&padFlag, "pad", false, "Pad short rows with empty fields")
	}

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(convertCmd)
}

func runConversion(cmd *cobra.Command, args []string, run conversion) error {
	ctx := cmd.Context()
	log := loggerFromContext(ctx)
	quiet := output.QuietFromContext(ctx)

	strict, pad := conversionOptions(cmd)
	req := convert.Request{
		Input:   argAt(args, 0),
		Output:  argAt(args, 1),
		Options: convert.Options{Strict: strict, PadRows: pad},
	}

	notify := convert.NewWriterNotifier(stderrFromContext(ctx), log, quiet)
	c := convert.New(notify, log).WithStdio(stdinFromContext(ctx), stdoutFromContext(ctx))

	report, err := run(c, ctx, req)
	if err != nil {
		return err
	}

	// stdout already carries the converted document
	if req.Output == convert.StdioPath {
		return nil
	}

	if structuredOutputRequested() {
		return printStructured(report)
	}
	if quiet {
		return nil
	}
	_, err = fmt.Fprintf(stdoutFromContext(ctx), "Wrote %d rows, %d columns to %s\n", report.Rows, report.Columns, report.Output)
	return err
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
