package table

import (
	"errors"
	"reflect"
	"testing"

	"github.com/salmonumbrella/xmlcsv/internal/doctree"
	"github.com/salmonumbrella/xmlcsv/internal/markup"
)

func mustParse(t *testing.T, input string) *doctree.Tree {
	t.Helper()
	tree, err := markup.ParseString(input, markup.ParseOptions{})
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return tree
}

func TestProjectSiblingGroups(t *testing.T) {
	tree := mustParse(t, "<a><x>1</x><y>2</y></a><a><x>3</x><y>4</y></a>")

	got := Project(tree, ProjectOptions{})

	if want := []string{"x", "y"}; !reflect.DeepEqual(got.Headers, want) {
		t.Fatalf("headers = %v, want %v", got.Headers, want)
	}
	if want := []string{"a/x", "a/y"}; !reflect.DeepEqual(got.Keys, want) {
		t.Fatalf("keys = %v, want %v", got.Keys, want)
	}
	if want := [][]string{{"1", "2"}, {"3", "4"}}; !reflect.DeepEqual(got.Rows, want) {
		t.Fatalf("rows = %v, want %v", got.Rows, want)
	}
	if want := "x,y\n1,2\n3,4\n"; got.Render() != want {
		t.Fatalf("Render() = %q, want %q", got.Render(), want)
	}
}

func TestProjectNestedDocument(t *testing.T) {
	input := `<?xml version="1.0"?>
<people>
  <person>
    <name>Alice</name>
    <age>30</age>
  </person>
  <person>
    <name>Bob</name>
    <age>25</age>
  </person>
</people>
`
	got := Project(mustParse(t, input), ProjectOptions{}).Render()
	want := "name,age\nAlice,30\nBob,25\n"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestProjectFirstSeenColumnOrder(t *testing.T) {
	tree := mustParse(t, "<r><b>1</b><a>2</a></r><r><c>3</c><a>4</a><b>5</b></r>")
	got := Project(tree, ProjectOptions{})
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(got.Headers, want) {
		t.Fatalf("headers = %v, want %v", got.Headers, want)
	}
}

func TestProjectSparseColumns(t *testing.T) {
	tree := mustParse(t, "<a><x>1</x><y>2</y></a><a><x>3</x></a><a><y>6</y></a>")

	ragged := Project(tree, ProjectOptions{})
	// y was padded with "" for the second record; the third row loses
	// its x column entirely and 6 shifts under the x header
	if want := [][]string{{"1", "2"}, {"3", ""}, {"6"}}; !reflect.DeepEqual(ragged.Rows, want) {
		t.Fatalf("ragged rows = %v, want %v", ragged.Rows, want)
	}

	padded := Project(tree, ProjectOptions{PadRows: true})
	if want := [][]string{{"1", "2"}, {"3", ""}, {"", "6"}}; !reflect.DeepEqual(padded.Rows, want) {
		t.Fatalf("padded rows = %v, want %v", padded.Rows, want)
	}
	if want := "x,y\n1,2\n3,\n,6\n"; padded.Render() != want {
		t.Fatalf("padded Render() = %q, want %q", padded.Render(), want)
	}
}

func TestProjectRepeatedLeafKeepsLastValue(t *testing.T) {
	tree := mustParse(t, "<a><x>1</x><x>2</x></a><a><x>3</x></a>")
	got := Project(tree, ProjectOptions{})
	if want := [][]string{{"2"}, {"3"}}; !reflect.DeepEqual(got.Rows, want) {
		t.Fatalf("rows = %v, want %v", got.Rows, want)
	}
}

func TestProjectSkipsEmptyLeaves(t *testing.T) {
	tree := mustParse(t, "<a><x></x><y>2</y></a>")
	got := Project(tree, ProjectOptions{})
	if want := []string{"y"}; !reflect.DeepEqual(got.Headers, want) {
		t.Fatalf("headers = %v, want %v", got.Headers, want)
	}
}

func TestProjectEmptyTree(t *testing.T) {
	got := Project(doctree.New("root"), ProjectOptions{})
	if len(got.Headers) != 0 || len(got.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", got)
	}
	if got.Render() != "\n" {
		t.Fatalf("expected lone newline, got %q", got.Render())
	}
}

func TestIngest(t *testing.T) {
	tree, err := Ingest("name,age\nAlice,30\nBob,25\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inner := tree.Children(tree.Root())
	if len(inner) != 1 || tree.Name(inner[0]) != InnerName {
		t.Fatalf("expected single %q wrapper", InnerName)
	}
	elements := tree.Children(inner[0])
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}

	want := [][2][2]string{
		{{"name", "Alice"}, {"age", "30"}},
		{{"name", "Bob"}, {"age", "25"}},
	}
	for i, el := range elements {
		if tree.Name(el) != ElementName {
			t.Fatalf("element %d named %q", i, tree.Name(el))
		}
		leaves := tree.Children(el)
		if len(leaves) != 2 {
			t.Fatalf("element %d: expected 2 leaves, got %d", i, len(leaves))
		}
		for j, leaf := range leaves {
			got := [2]string{tree.Name(leaf), tree.Data(leaf)}
			if got != want[i][j] {
				t.Errorf("element %d leaf %d = %v, want %v", i, j, got, want[i][j])
			}
			if tree.Parent(leaf) != el {
				t.Errorf("element %d leaf %d has wrong parent", i, j)
			}
		}
	}
}

func TestIngestHandlesCRLF(t *testing.T) {
	tree, err := Ingest("a,b\r\n1,2\r\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	leaves := tree.Children(tree.Children(tree.Children(tree.Root())[0])[0])
	if tree.Name(leaves[1]) != "b" || tree.Data(leaves[1]) != "2" {
		t.Fatalf("expected b=2, got %q=%q", tree.Name(leaves[1]), tree.Data(leaves[1]))
	}
}

func TestIngestIgnoresExtraFields(t *testing.T) {
	tree, err := Ingest("a,b\n1,2,3\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elements := tree.Children(tree.Children(tree.Root())[0])
	if len(elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(elements))
	}
	leaves := tree.Children(elements[0])
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaves, got %d", len(leaves))
	}
	want := [][2]string{{"a", "1"}, {"b", "2"}}
	for i, leaf := range leaves {
		if got := [2]string{tree.Name(leaf), tree.Data(leaf)}; got != want[i] {
			t.Errorf("leaf %d = %v, want %v", i, got, want[i])
		}
	}
}

func TestIngestErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		row     int
		column  int
	}{
		{name: "header only", input: "name,age\n", message: "no entries in CSV file", row: -1, column: -1},
		{name: "empty", input: "   ", message: "no entries in CSV file", row: -1, column: -1},
		{name: "short row", input: "name,age\nAlice,30\nBob\n", message: "expected key 1 for row 1", row: 1, column: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Ingest(tt.input)
			if tree != nil {
				t.Fatalf("expected no tree on error")
			}
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("expected *FormatError, got %v", err)
			}
			if err.Error() != tt.message {
				t.Fatalf("message = %q, want %q", err.Error(), tt.message)
			}
			if formatErr.Row != tt.row || formatErr.Column != tt.column {
				t.Fatalf("position = %d/%d, want %d/%d", formatErr.Row, formatErr.Column, tt.row, tt.column)
			}
		})
	}
}

func TestIngestThenSerialize(t *testing.T) {
	tree, err := Ingest("name,age\nAlice,30\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	terms, err := markup.Serialize(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<?xml version=\"1.0\"?>\n<root2>\n  <element>\n    <name>Alice</name>\n    <age>30</age>\n  </element>\n</root2>\n"
	if got := markup.Render(terms); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}
