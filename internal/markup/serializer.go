package markup

import (
	"strings"

	"github.com/salmonumbrella/xmlcsv/internal/doctree"
)

// Declaration is written at the top of every rendered document.
const Declaration = "<?xml version=\"1.0\"?>\n"

const indentUnit = "  "

// Serialize turns a tree back into terms, including the whitespace
// needed for an indented layout. Output starts at the first child of the
// root; any further top-level siblings are not serialized.
func Serialize(tree *doctree.Tree) ([]Term, error) {
	top := tree.Children(tree.Root())
	if len(top) == 0 {
		return nil, ErrEmptyTree
	}

	var terms []Term
	serializeNode(tree, top[0], 0, &terms)
	return terms, nil
}

func serializeNode(tree *doctree.Tree, id doctree.NodeID, depth int, terms *[]Term) {
	indent := strings.Repeat(indentUnit, depth)
	name := tree.Name(id)
	children := tree.Children(id)

	*terms = append(*terms, Text(indent), OpeningTag(name))
	if data := tree.Data(id); data != "" {
		*terms = append(*terms, Text(data))
	}

	if len(children) > 0 {
		*terms = append(*terms, Text("\n"))
		for _, c := range children {
			serializeNode(tree, c, depth+1, terms)
		}
		*terms = append(*terms, Text(indent))
	}

	*terms = append(*terms, ClosingTag(name), Text("\n"))
}

// Render writes the declaration followed by every term in order. Text is
// copied verbatim; nothing is escaped.
func Render(terms []Term) string {
	var b strings.Builder
	b.WriteString(Declaration)
	for _, t := range terms {
		b.WriteString(t.String())
	}
	return b.String()
}
