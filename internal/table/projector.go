package table

import (
	"strings"

	"github.com/salmonumbrella/xmlcsv/internal/doctree"
)

// ProjectOptions controls the shape of projected rows.
type ProjectOptions struct {
	// PadRows emits an empty field for every column that has no value at
	// a row, so each row is as wide as the header. Without it, columns
	// that ran out of values are left out and later fields shift left.
	PadRows bool
}

// Project flattens a tree into a table. Every leaf with a non-empty name
// and text contributes one value to the column named by its path. The
// row counter advances once each time a non-leaf node finishes, and a
// column is padded with empty values up to the current row before a new
// value is appended, so sparse columns stay aligned with their record.
// When a record repeats a path, the last value wins.
//
// Columns appear in the order their path is first seen.
func Project(tree *doctree.Tree, opts ProjectOptions) *Table {
	p := &projector{tree: tree, index: make(map[string]int)}
	p.visit(tree.Root())

	t := &Table{
		Headers: make([]string, len(p.keys)),
		Keys:    p.keys,
		Rows:    [][]string{},
	}
	for i, key := range p.keys {
		t.Headers[i] = key[strings.LastIndex(key, "/")+1:]
	}

	for r := 0; r < p.rows; r++ {
		var row []string
		filled := false
		for _, values := range p.columns {
			switch {
			case r < len(values):
				row = append(row, values[r])
				filled = true
			case opts.PadRows:
				row = append(row, "")
			}
		}
		if !filled {
			continue
		}
		t.Rows = append(t.Rows, row)
	}

	return t
}

type projector struct {
	tree    *doctree.Tree
	index   map[string]int
	keys    []string
	columns [][]string
	rows    int
}

func (p *projector) visit(id doctree.NodeID) {
	if !p.tree.IsLeaf(id) {
		for _, c := range p.tree.Children(id) {
			p.visit(c)
		}
		p.rows++
		return
	}

	name, data := p.tree.Name(id), p.tree.Data(id)
	if name == "" || data == "" {
		return
	}
	path := p.tree.Path(id)
	if len(path) == 0 {
		return
	}

	key := strings.Join(path, "/")
	col, ok := p.index[key]
	if !ok {
		col = len(p.keys)
		p.index[key] = col
		p.keys = append(p.keys, key)
		p.columns = append(p.columns, nil)
	}
	// resize to the current row: pads sparse columns, and drops an
	// earlier value when one record repeats the same path
	values := p.columns[col]
	if len(values) > p.rows {
		values = values[:p.rows]
	}
	for len(values) < p.rows {
		values = append(values, "")
	}
	p.columns[col] = append(values, data)
}
