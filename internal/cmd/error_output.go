package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/xmlcsv/internal/convert"
	"github.com/salmonumbrella/xmlcsv/internal/markup"
	"github.com/salmonumbrella/xmlcsv/internal/output"
	"github.com/salmonumbrella/xmlcsv/internal/table"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid --error-format %q (expected auto|text|json|yaml)", format)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(stderrFromContext(ctx))
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(stderrFromContext(ctx))
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(stderrFromContext(ctx), err)
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message":  err.Error(),
		"type":     convert.ErrorType(err),
		"category": convert.ErrorCategory(err),
	}

	var lexErr *markup.LexError
	if errors.As(err, &lexErr) {
		errMap["line"] = lexErr.Line
		errMap["column"] = lexErr.Column
	}

	var treeErr *markup.TreeError
	if errors.As(err, &treeErr) && treeErr.Unclosed {
		errMap["subtype"] = "unclosed"
	}

	var fmtErr *table.FormatError
	if errors.As(err, &fmtErr) && fmtErr.Row >= 0 {
		errMap["row"] = fmtErr.Row
		errMap["column"] = fmtErr.Column
	}

	var writeErr *convert.WriteError
	if errors.As(err, &writeErr) {
		errMap["subtype"] = writeErr.Op
	}

	return map[string]interface{}{"error": errMap}
}
