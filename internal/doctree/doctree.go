package doctree

// NodeID addresses a node inside the Tree that created it.
type NodeID int

// NoParent is the parent handle of a tree's root node.
const NoParent NodeID = -1

// Node is one element of the document: a tag name, the text collected
// inside it and its children in document order.
type Node struct {
	Name     string
	Data     string
	parent   NodeID
	children []NodeID
}

// Tree owns every node of a document. Nodes reference each other by
// handle; a node's parent is used only to compute its path.
type Tree struct {
	nodes []Node
	// Wrappers is the number of synthetic levels above the document,
	// starting at the root. They are left out of Path.
	Wrappers int
}

// New returns a tree holding a single synthetic root node.
func New(rootName string) *Tree {
	return &Tree{
		nodes:    []Node{{Name: rootName, parent: NoParent}},
		Wrappers: 1,
	}
}

// Root returns the handle of the root node.
func (t *Tree) Root() NodeID {
	return 0
}

// Len returns the number of nodes in the tree, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// AddChild creates a node named name as the last child of parent.
func (t *Tree) AddChild(parent NodeID, name string) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Name: name, parent: parent})
	p := &t.nodes[parent]
	p.children = append(p.children, id)
	return id
}

// Node returns the node behind id. The pointer is invalidated by the
// next AddChild.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

func (t *Tree) Name(id NodeID) string {
	return t.nodes[id].Name
}

func (t *Tree) Data(id NodeID) string {
	return t.nodes[id].Data
}

func (t *Tree) SetData(id NodeID, data string) {
	t.nodes[id].Data = data
}

// AppendData concatenates s onto the node's text.
func (t *Tree) AppendData(id NodeID, s string) {
	t.nodes[id].Data += s
}

// Children returns the node's children in document order. Callers must
// not modify the returned slice.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].children
}

// Parent returns the node's parent, or NoParent for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// IsLeaf reports whether the node has no children.
func (t *Tree) IsLeaf(id NodeID) bool {
	return len(t.nodes[id].children) == 0
}

// Depth returns the number of ancestors of id.
func (t *Tree) Depth(id NodeID) int {
	depth := 0
	for p := t.nodes[id].parent; p != NoParent; p = t.nodes[p].parent {
		depth++
	}
	return depth
}

// Path returns the names from the first non-synthetic ancestor down to
// id. Wrapper nodes themselves have an empty path.
func (t *Tree) Path(id NodeID) []string {
	var chain []string
	for n := id; n != NoParent; n = t.nodes[n].parent {
		chain = append(chain, t.nodes[n].Name)
	}
	// chain runs node -> root; drop the wrapper levels at its end
	keep := len(chain) - t.Wrappers
	if keep <= 0 {
		return nil
	}
	path := make([]string, keep)
	for i := 0; i < keep; i++ {
		path[i] = chain[keep-1-i]
	}
	return path
}

// Walk visits every node depth-first in document order, starting at the
// root. Returning false from fn skips the node's children.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	var visit func(id NodeID, depth int)
	visit = func(id NodeID, depth int) {
		if !fn(id, depth) {
			return
		}
		for _, c := range t.nodes[id].children {
			visit(c, depth+1)
		}
	}
	visit(t.Root(), 0)
}
