package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML builds a logical tree from an HTML document. The html/head/body
// scaffolding is folded into the document root; script, style and comments
// are dropped; whitespace-only text is ignored.
func ParseHTML(r io.Reader) (*Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	t := NewTree()
	walkHTML(t, doc, t.Root)
	return t, nil
}

func walkHTML(t *Tree, n *html.Node, parent *Node) {
	switch n.Type {
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Html, atom.Body:
			// fold into the document root
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walkHTML(t, c, parent)
			}
			return
		case atom.Head, atom.Script, atom.Style:
			return
		}
		node := t.NewNode(strings.ToLower(n.Data), parent)
		if len(n.Attr) > 0 {
			node.Attrs = make(map[string]string, len(n.Attr))
			for _, a := range n.Attr {
				node.Attrs[strings.ToLower(a.Key)] = a.Val
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkHTML(t, c, node)
		}
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text != "" {
			t.NewTextNode(text, parent)
		}
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkHTML(t, c, parent)
		}
	}
}
