package dom

// Tree owns the logical nodes of one document and provides lookup by ID.
type Tree struct {
	Root *Node

	byID map[NodeID]*Node
	next NodeID
}

// NewTree creates a tree with a "document" root wrapper.
func NewTree() *Tree {
	t := &Tree{byID: make(map[NodeID]*Node), next: 1}
	t.Root = &Node{ID: 0, Tag: "document"}
	t.byID[0] = t.Root
	return t
}

// NewNode creates a node under parent (the root if parent is nil) and
// returns it. IDs are assigned monotonically.
func (t *Tree) NewNode(tag string, parent *Node) *Node {
	if parent == nil {
		parent = t.Root
	}
	n := &Node{
		ID:     t.next,
		Tag:    tag,
		Parent: parent,
		depth:  parent.depth + 1,
	}
	t.next++
	parent.Children = append(parent.Children, n)
	t.byID[n.ID] = n
	return n
}

// NewTextNode creates a text leaf under parent.
func (t *Tree) NewTextNode(text string, parent *Node) *Node {
	n := t.NewNode(TextTag, parent)
	n.Text = text
	return n
}

// Lookup resolves a node by ID. The second result is false for IDs the
// tree has never issued (e.g. nodes synthesized after the snapshot).
func (t *Tree) Lookup(id NodeID) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// Len returns the number of nodes in the tree, including the root.
func (t *Tree) Len() int { return len(t.byID) }

// Walk visits every node in document order, root first.
func (t *Tree) Walk(fn func(*Node)) {
	var visit func(*Node)
	visit = func(n *Node) {
		fn(n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(t.Root)
}
