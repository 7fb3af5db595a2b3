package markup

import (
	"fmt"
	"strings"
)

// Kind identifies which variant a Term holds.
type Kind int

const (
	KindNone Kind = iota
	KindOpeningTag
	KindClosingTag
	KindText
)

// String returns a string representation of the term kind
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindOpeningTag:
		return "opening_tag"
	case KindClosingTag:
		return "closing_tag"
	case KindText:
		return "text"
	default:
		panic(fmt.Sprintf("markup: unknown term kind %d", int(k)))
	}
}

// Term is one lexical unit of a document: a tag boundary or a run of
// text. Value holds the tag name or the text content and is empty for
// KindNone.
type Term struct {
	Kind  Kind
	Value string
}

func OpeningTag(name string) Term { return Term{Kind: KindOpeningTag, Value: name} }
func ClosingTag(name string) Term { return Term{Kind: KindClosingTag, Value: name} }
func Text(content string) Term    { return Term{Kind: KindText, Value: content} }
func None() Term                  { return Term{} }

// String renders the term as it appears in a document.
func (t Term) String() string {
	switch t.Kind {
	case KindNone:
		return ""
	case KindOpeningTag:
		return "<" + t.Value + ">"
	case KindClosingTag:
		return "</" + t.Value + ">"
	case KindText:
		return t.Value
	default:
		panic(fmt.Sprintf("markup: unknown term kind %d", int(t.Kind)))
	}
}

// trimmed returns a copy with surrounding whitespace removed from Value.
func (t Term) trimmed() Term {
	t.Value = strings.TrimSpace(t.Value)
	return t
}

// TermView is the printable form of a Term used by structured output.
type TermView struct {
	Index int    `json:"index" yaml:"index"`
	Kind  string `json:"kind" yaml:"kind"`
	Value string `json:"value" yaml:"value"`
}

// Views converts terms into their printable form.
func Views(terms []Term) []TermView {
	views := make([]TermView, 0, len(terms))
	for i, t := range terms {
		views = append(views, TermView{Index: i, Kind: t.Kind.String(), Value: t.Value})
	}
	return views
}
