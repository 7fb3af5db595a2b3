package table

import (
	"strings"

	"github.com/salmonumbrella/xmlcsv/internal/doctree"
)

// Names of the synthetic levels an ingested document hangs from.
const (
	RootName    = "root"
	InnerName   = "root2"
	ElementName = "element"
)

// Ingest builds a tree from tabular text. The first line names the
// columns; every following line becomes one element node with a leaf
// child per column. Fields beyond the declared columns are ignored.
//
// Input with fewer than two lines, or a row with fewer fields than
// there are columns, fails with a *FormatError and no tree.
func Ingest(input string) (*doctree.Tree, error) {
	lines := strings.Split(strings.TrimSpace(input), "\n")
	if len(lines) < 2 {
		return nil, errNoEntries()
	}

	columns := strings.Split(strings.TrimSuffix(lines[0], "\r"), Delimiter)

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, strings.Split(strings.TrimSuffix(line, "\r"), Delimiter))
	}

	tree := doctree.New(RootName)
	tree.Wrappers = 2
	inner := tree.AddChild(tree.Root(), InnerName)

	for r, row := range rows {
		if len(row) < len(columns) {
			return nil, errMissingField(r, len(row))
		}
		element := tree.AddChild(inner, ElementName)
		for c, name := range columns {
			leaf := tree.AddChild(element, name)
			tree.SetData(leaf, row[c])
		}
	}

	return tree, nil
}
