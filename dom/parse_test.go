package dom

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// outline flattens a tree into indented tag lines for comparison.
func outline(t *Tree) []string {
	var out []string
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		line := strings.Repeat("  ", depth) + n.Tag
		if n.IsText() {
			line = fmt.Sprintf("%s(%s)", line, n.Text)
		}
		out = append(out, line)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, c := range t.Root.Children {
		visit(c, 0)
	}
	return out
}

func TestParseHTML(t *testing.T) {
	src := `<html><head><title>skip</title><style>p{}</style></head><body>
<h1>Title</h1>
<p>Hello <strong>world</strong></p>
<table><thead><tr><th scope="col">A</th></tr></thead>
<tbody><tr><td>1</td></tr></tbody></table>
</body></html>`

	tree, err := ParseHTML(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"h1",
		"  #text(Title)",
		"p",
		"  #text(Hello)",
		"  strong",
		"    #text(world)",
		"table",
		"  thead",
		"    tr",
		"      th",
		"        #text(A)",
		"  tbody",
		"    tr",
		"      td",
		"        #text(1)",
	}
	if diff := cmp.Diff(want, outline(tree)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}

	// attribute keys are lowercased
	var th *Node
	tree.Walk(func(n *Node) {
		if n.Tag == "th" {
			th = n
		}
	})
	if th == nil || th.Attr("scope") != "col" {
		t.Errorf("th scope attr missing")
	}
}

func TestParseHTMLFragment(t *testing.T) {
	tree, err := ParseHTML(strings.NewReader(`<p aria-hidden="true">x</p>`))
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Root.Children) != 1 {
		t.Fatalf("children = %d", len(tree.Root.Children))
	}
	p := tree.Root.Children[0]
	if p.Tag != "p" || !p.IsDecorative() {
		t.Errorf("node = %s, decorative = %v", p.Tag, p.IsDecorative())
	}
}

func TestParseMarkdown(t *testing.T) {
	src := []byte(`# Title

Some *em* and **strong** text with [a link](https://example.com).

- one
- two

![chart](img.png)

---
`)
	tree, err := ParseMarkdown(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"h1",
		"  #text(Title)",
		"p",
		"  #text(Some )",
		"  em",
		"    #text(em)",
		"  #text( and )",
		"  strong",
		"    #text(strong)",
		"  #text( text with )",
		"  a",
		"    #text(a link)",
		"  #text(.)",
		"ul",
		"  li",
		"    #text(one)",
		"  li",
		"    #text(two)",
		"p",
		"  img",
		"hr",
	}
	if diff := cmp.Diff(want, outline(tree)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}

	var link, img *Node
	tree.Walk(func(n *Node) {
		switch n.Tag {
		case "a":
			link = n
		case "img":
			img = n
		}
	})
	if link == nil || link.Attr("href") != "https://example.com" {
		t.Error("link destination missing")
	}
	if img == nil || img.Attr("src") != "img.png" || img.Attr("alt") != "chart" {
		t.Error("image attrs missing")
	}
}

func TestParseMarkdownTable(t *testing.T) {
	src := []byte(`| A | B |
|---|---|
| 1 | 2 |
`)
	tree, err := ParseMarkdown(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"table",
		"  tr",
		"    th",
		"      #text(A)",
		"    th",
		"      #text(B)",
		"  tr",
		"    td",
		"      #text(1)",
		"    td",
		"      #text(2)",
	}
	if diff := cmp.Diff(want, outline(tree)); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMarkdownCodeBlock(t *testing.T) {
	src := []byte("```\nfirst\nsecond\n```\n")
	tree, err := ParseMarkdown(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Root.Children) != 1 {
		t.Fatalf("children = %d", len(tree.Root.Children))
	}
	pre := tree.Root.Children[0]
	if pre.Tag != "pre" || len(pre.Children) != 1 {
		t.Fatalf("node = %s with %d children", pre.Tag, len(pre.Children))
	}
	if got := pre.Children[0].Text; got != "first\nsecond\n" {
		t.Errorf("code text = %q", got)
	}
}
