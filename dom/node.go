// Package dom holds the logical node tree that tagging decisions are made
// against. The tree is built before rendering starts (from HTML, Markdown,
// or programmatically) and is treated as a read-only snapshot for the
// duration of one render.
package dom

// NodeID identifies a node within its tree.
type NodeID int

// Node is a single logical document node. Nodes are owned by their Tree;
// everything else holds them by pointer or by ID.
type Node struct {
	ID       NodeID
	Tag      string // lowercase element name, or "#text"
	Text     string // content for text nodes
	Attrs    map[string]string
	Parent   *Node
	Children []*Node

	depth int
}

// TextTag is the tag used for text leaves.
const TextTag = "#text"

// roles maps element tags to PDF structure types. Tags absent from the map
// have no structural role of their own.
var roles = map[string]string{
	"p":          "P",
	"h1":         "H1",
	"h2":         "H2",
	"h3":         "H3",
	"h4":         "H4",
	"h5":         "H5",
	"h6":         "H6",
	"ul":         "L",
	"ol":         "L",
	"li":         "LI",
	"table":      "Table",
	"tr":         "TR",
	"td":         "TD",
	"th":         "TH",
	"blockquote": "BlockQuote",
	"caption":    "Caption",
	"figure":     "Figure",
	"img":        "Figure",
	"a":          "Link",
	"pre":        "Code",
	"code":       "Code",
	"em":         "Em",
	"strong":     "Strong",
	"q":          "Quote",
}

// transparentInline lists inline wrappers with no structural role whose
// content is attributed to the nearest tagged ancestor.
var transparentInline = map[string]bool{
	"span":  true,
	"u":     true,
	"s":     true,
	"small": true,
	"sub":   true,
	"sup":   true,
	"wbr":   true,
}

// nonSemanticWrapper lists structural placeholders that must never appear
// in the logical tree themselves.
var nonSemanticWrapper = map[string]bool{
	"document": true,
	"html":     true,
	"head":     true,
	"body":     true,
	"thead":    true,
	"tbody":    true,
	"tfoot":    true,
}

// RoleMap returns the role-equivalence map carried by the structure tree
// root: custom structure types mapped to standard ones.
func RoleMap() map[string]string {
	return map[string]string{
		"Em":     "Span",
		"Strong": "Span",
	}
}

// Role returns the node's own structure type, or "" if it has none.
func (n *Node) Role() string { return roles[n.Tag] }

// Depth returns the node's cached depth (root is 0).
func (n *Node) Depth() int { return n.depth }

// IsText reports whether the node is a bare text leaf.
func (n *Node) IsText() bool { return n.Tag == TextTag }

// IsLineBreak reports whether the node is a line-break marker.
func (n *Node) IsLineBreak() bool { return n.Tag == "br" }

// IsTransparentInline reports whether the node is an inline wrapper with
// no structural role of its own.
func (n *Node) IsTransparentInline() bool { return transparentInline[n.Tag] }

// IsNonSemanticWrapper reports whether the node is a structural placeholder
// that must never itself appear in the logical tree.
func (n *Node) IsNonSemanticWrapper() bool { return nonSemanticWrapper[n.Tag] }

// IsDecorative reports whether the node is explicitly excluded from the
// logical structure.
func (n *Node) IsDecorative() bool {
	if n.Tag == "hr" {
		return true
	}
	if n.Attrs["aria-hidden"] == "true" {
		return true
	}
	switch n.Attrs["role"] {
	case "presentation", "none":
		return true
	}
	return false
}

// HasDecorativeAncestor reports whether any ancestor is decorative.
func (n *Node) HasDecorativeAncestor() bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.IsDecorative() {
			return true
		}
	}
	return false
}

// RequiresStructurePresence reports whether the node must be represented
// in the structure tree even without registered content. Table cells need
// this so every row keeps a consistent column count.
func (n *Node) RequiresStructurePresence() bool {
	return n.Tag == "td" || n.Tag == "th"
}

// NearestTaggedAncestor returns the closest ancestor carrying a structural
// role, skipping non-semantic wrappers and transparent inlines. Returns nil
// if nothing up the chain resolves.
func (n *Node) NearestTaggedAncestor() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.IsNonSemanticWrapper() || p.IsTransparentInline() {
			continue
		}
		if p.Role() != "" {
			return p
		}
	}
	return nil
}

// Ancestors returns the parent chain from the immediate parent upward.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// Attr returns the named attribute or "".
func (n *Node) Attr(key string) string { return n.Attrs[key] }
