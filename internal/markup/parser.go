package markup

import (
	"fmt"

	"github.com/salmonumbrella/xmlcsv/internal/doctree"
)

// RootName is the name of the synthetic node every parsed tree hangs from.
const RootName = "root"

// ParseOptions controls how strictly Parse treats its input.
type ParseOptions struct {
	// Strict rejects tags that are still open when the terms run out.
	Strict bool
}

// Parse builds a tree from terms using an explicit stack of open
// elements seeded with the synthetic root. A closing tag must name the
// innermost open element; there is no recovery or implicit closing.
// Consecutive Text terms inside one element are concatenated.
func Parse(terms []Term, opts ParseOptions) (*doctree.Tree, error) {
	tree := doctree.New(RootName)
	stack := []doctree.NodeID{tree.Root()}

	for _, term := range terms {
		top := stack[len(stack)-1]

		switch term.Kind {
		case KindOpeningTag:
			node := tree.AddChild(top, term.Value)
			stack = append(stack, node)

		case KindClosingTag:
			if len(stack) == 1 {
				return nil, &TreeError{Found: term.Value}
			}
			if expected := tree.Name(top); term.Value != expected {
				return nil, &TreeError{Found: term.Value, Expected: expected}
			}
			stack = stack[:len(stack)-1]

		case KindText:
			tree.AppendData(top, term.Value)

		case KindNone:

		default:
			panic(fmt.Sprintf("markup: unknown term kind %d", int(term.Kind)))
		}
	}

	if opts.Strict && len(stack) > 1 {
		return nil, &TreeError{Expected: tree.Name(stack[len(stack)-1]), Unclosed: true}
	}

	return tree, nil
}

// ParseString lexes and parses a document in one call.
func ParseString(input string, opts ParseOptions) (*doctree.Tree, error) {
	terms, err := Lex(input)
	if err != nil {
		return nil, err
	}
	return Parse(terms, opts)
}
