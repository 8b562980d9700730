package dom

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// ParseMarkdown builds a logical tree from Markdown source using goldmark,
// with GFM tables enabled. Header-row cells become "th" nodes.
func ParseMarkdown(src []byte) (*Tree, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))
	t := NewTree()
	buildMarkdown(t, doc, src, t.Root, false)
	return t, nil
}

func buildMarkdown(t *Tree, n ast.Node, src []byte, parent *Node, headerRow bool) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Heading:
			node := t.NewNode(fmt.Sprintf("h%d", c.Level), parent)
			buildMarkdown(t, c, src, node, false)
		case *ast.Paragraph:
			node := t.NewNode("p", parent)
			buildMarkdown(t, c, src, node, false)
		case *ast.TextBlock:
			// tight list item content: no paragraph of its own
			buildMarkdown(t, c, src, parent, false)
		case *ast.List:
			tag := "ul"
			if c.IsOrdered() {
				tag = "ol"
			}
			node := t.NewNode(tag, parent)
			buildMarkdown(t, c, src, node, false)
		case *ast.ListItem:
			node := t.NewNode("li", parent)
			buildMarkdown(t, c, src, node, false)
		case *ast.Blockquote:
			node := t.NewNode("blockquote", parent)
			buildMarkdown(t, c, src, node, false)
		case *ast.FencedCodeBlock:
			node := t.NewNode("pre", parent)
			t.NewTextNode(blockLines(c, src), node)
		case *ast.CodeBlock:
			node := t.NewNode("pre", parent)
			t.NewTextNode(blockLines(c, src), node)
		case *ast.ThematicBreak:
			t.NewNode("hr", parent)
		case *ast.Emphasis:
			tag := "em"
			if c.Level >= 2 {
				tag = "strong"
			}
			node := t.NewNode(tag, parent)
			buildMarkdown(t, c, src, node, false)
		case *ast.CodeSpan:
			node := t.NewNode("code", parent)
			buildMarkdown(t, c, src, node, false)
		case *ast.Link:
			node := t.NewNode("a", parent)
			node.Attrs = map[string]string{"href": string(c.Destination)}
			buildMarkdown(t, c, src, node, false)
		case *ast.AutoLink:
			node := t.NewNode("a", parent)
			url := string(c.URL(src))
			node.Attrs = map[string]string{"href": url}
			t.NewTextNode(url, node)
		case *ast.Image:
			node := t.NewNode("img", parent)
			node.Attrs = map[string]string{
				"src": string(c.Destination),
				"alt": string(c.Text(src)),
			}
		case *ast.Text:
			if txt := string(c.Segment.Value(src)); txt != "" {
				t.NewTextNode(txt, parent)
			}
		case *ast.String:
			if len(c.Value) > 0 {
				t.NewTextNode(string(c.Value), parent)
			}
		case *extast.Table:
			node := t.NewNode("table", parent)
			buildMarkdown(t, c, src, node, false)
		case *extast.TableHeader:
			node := t.NewNode("tr", parent)
			buildMarkdown(t, c, src, node, true)
		case *extast.TableRow:
			node := t.NewNode("tr", parent)
			buildMarkdown(t, c, src, node, false)
		case *extast.TableCell:
			tag := "td"
			if headerRow {
				tag = "th"
			}
			node := t.NewNode(tag, parent)
			buildMarkdown(t, c, src, node, false)
		default:
			buildMarkdown(t, child, src, parent, headerRow)
		}
	}
}

func blockLines(n interface{ Lines() *text.Segments }, src []byte) string {
	var out []byte
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		out = append(out, seg.Value(src)...)
	}
	return string(out)
}
