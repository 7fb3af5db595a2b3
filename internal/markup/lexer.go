package markup

import "strings"

// Lex splits a document into terms in a single pass. A term is only
// emitted once its closing boundary is seen and its trimmed content is
// non-empty, so whitespace between tags never produces a Text term.
//
// Lines containing '?' are dropped from that character to the end of the
// line; this is how processing instructions such as the XML declaration
// are skipped. Text still being accumulated when the input ends is
// discarded.
//
// Any character that is not valid in the current state aborts the whole
// lex and returns a *LexError; no partial result is returned.
func Lex(input string) ([]Term, error) {
	l := &lexer{line: 1}
	for offset, c := range input {
		l.column++
		if err := l.step(c, offset); err != nil {
			return nil, err
		}
		if c == '\n' {
			l.line++
			l.column = 0
		}
	}
	return l.terms, nil
}

type lexer struct {
	terms []Term

	// accumulator for the term being built
	kind Kind
	buf  strings.Builder

	prev     rune
	skipLine bool

	line   int
	column int
}

func (l *lexer) step(c rune, offset int) error {
	if l.skipLine {
		if c != '\n' {
			return nil
		}
		l.skipLine = false
		l.prev = 0
		l.reset()
	}

	switch {
	case c == '<':
		if l.kind == KindText {
			l.flush()
		}
		if l.kind != KindNone {
			return l.unexpected(c, offset)
		}
		l.kind = KindOpeningTag

	case c == '>':
		switch l.kind {
		case KindOpeningTag, KindClosingTag:
			l.flush()
		case KindNone, KindText:
			return l.unexpected(c, offset)
		}

	case c == '/' && l.kind != KindText:
		if l.kind != KindOpeningTag || l.prev != '<' {
			return l.unexpected(c, offset)
		}
		l.kind = KindClosingTag

	case c == '?':
		l.skipLine = true

	default:
		if l.kind == KindNone {
			l.kind = KindText
		}
		l.buf.WriteRune(c)
	}

	l.prev = c
	return nil
}

// flush emits the accumulated term if it has content and resets the
// accumulator.
func (l *lexer) flush() {
	t := Term{Kind: l.kind, Value: l.buf.String()}.trimmed()
	if t.Kind != KindNone && t.Value != "" {
		l.terms = append(l.terms, t)
	}
	l.reset()
}

func (l *lexer) reset() {
	l.kind = KindNone
	l.buf.Reset()
}

func (l *lexer) unexpected(c rune, offset int) error {
	return &LexError{Char: c, Line: l.line, Column: l.column, Offset: offset}
}
