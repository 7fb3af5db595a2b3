package convert

import (
	"errors"

	"github.com/salmonumbrella/xmlcsv/internal/markup"
	"github.com/salmonumbrella/xmlcsv/internal/table"
)

// ErrorType names the kind of a conversion failure for error envelopes.
// Unknown errors are reported as "error".
func ErrorType(err error) string {
	var (
		argErr   ArgumentError
		readErr  *ReadError
		writeErr *WriteError
		lexErr   *markup.LexError
		treeErr  *markup.TreeError
		fmtErr   *table.FormatError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &argErr):
		return "argument"
	case errors.As(err, &readErr):
		return "io_read"
	case errors.As(err, &writeErr):
		return "io_write"
	case errors.As(err, &lexErr):
		return "lex"
	case errors.As(err, &treeErr):
		return "tree"
	case errors.As(err, &fmtErr):
		return "table_format"
	case errors.Is(err, markup.ErrEmptyTree):
		return "empty_tree"
	default:
		return "error"
	}
}

// ErrorCategory reports "user" for failures caused by the input or the
// invocation and "system" for everything else.
func ErrorCategory(err error) string {
	switch ErrorType(err) {
	case "argument", "lex", "tree", "table_format", "empty_tree":
		return "user"
	default:
		return "system"
	}
}
