package markup

import (
	"errors"
	"fmt"
)

// ErrEmptyTree is returned by Serialize when the synthetic root has no
// document beneath it.
var ErrEmptyTree = errors.New("invalid XML tree: no top-level element")

// LexError reports a character the lexer cannot accept in its current
// state. Line and Column are 1-based; Offset is a byte offset.
type LexError struct {
	Char   rune
	Line   int
	Column int
	Offset int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("unexpected '%c' at line %d, column %d", e.Char, e.Line, e.Column)
}

// TreeError reports a closing tag that does not match the innermost open
// tag, or (in strict mode) a tag left open at the end of input.
type TreeError struct {
	Found    string
	Expected string
	Unclosed bool
}

func (e *TreeError) Error() string {
	switch {
	case e.Unclosed:
		return fmt.Sprintf("unclosed tag <%s> at end of input", e.Expected)
	case e.Expected == "":
		return fmt.Sprintf("unexpected closing tag: found <%s>, no open tag", e.Found)
	default:
		return fmt.Sprintf("unexpected closing tag: found <%s>, expected <%s>", e.Found, e.Expected)
	}
}
