package cmd

import (
	"context"

	"github.com/salmonumbrella/xmlcsv/internal/output"
)

func structuredOutputRequested() bool {
	return output.IsStructured(GetOutputFormat())
}

func printStructured(data interface{}) error {
	ctx := currentContext()
	printer := output.NewPrinter(stdoutFromContext(ctx), GetOutputFormat())
	return printer.Print(ctx, data)
}

// printAs prints data in format, ignoring the selected output format.
func printAs(format output.Format, data interface{}) error {
	ctx := currentContext()
	return output.NewPrinter(stdoutFromContext(ctx), format).Print(ctx, data)
}

func currentContext() context.Context {
	if rootCmd != nil && rootCmd.Context() != nil {
		return rootCmd.Context()
	}
	return context.Background()
}
