package render

import (
	"image"
	"strings"
	"testing"

	"github.com/tagpdf/tagpdf/dom"
	"github.com/tagpdf/tagpdf/ir/raw"
)

func mustMarkdown(t *testing.T, src string) *dom.Tree {
	t.Helper()
	tree, err := dom.ParseMarkdown([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func countMarkers(content string) (opens, closes int) {
	opens = strings.Count(content, " BDC\n") + strings.Count(content, " BMC\n")
	closes = strings.Count(content, "EMC\n")
	return
}

func TestRenderMarkdownEndToEnd(t *testing.T) {
	tree := mustMarkdown(t, "# Title\n\nHello *world* again.\n")
	e := NewEngine()
	res, err := e.Render(&Document{Tree: tree})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("pages = %d", len(res.Pages))
	}
	content := res.Pages[0].Content

	if !strings.Contains(content, "/H1 <</MCID 0>> BDC\n") {
		t.Errorf("heading sequence missing:\n%s", content)
	}
	if !strings.Contains(content, "/P <</MCID 1>> BDC\n") {
		t.Errorf("paragraph sequence missing:\n%s", content)
	}
	if !strings.Contains(content, "/Em <</MCID 2>> BDC\n") {
		t.Errorf("emphasis sequence missing:\n%s", content)
	}
	// the text after the emphasis reopens the paragraph with a fresh id
	if !strings.Contains(content, "/P <</MCID 3>> BDC\n") {
		t.Errorf("paragraph continuation missing:\n%s", content)
	}
	if opens, closes := countMarkers(content); opens != closes {
		t.Errorf("unbalanced markers: %d opens, %d closes\n%s", opens, closes, content)
	}
	if got := len(res.Builder.Registrations()); got != 4 {
		t.Errorf("registrations = %d, want 4", got)
	}
}

func TestRenderPageBreakResetsMCID(t *testing.T) {
	tree := mustMarkdown(t, "first\n\nsecond\n")
	// room for exactly one line per page
	e := NewEngine(WithPageSize(200, 100))
	res, err := e.Render(&Document{Tree: tree})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Pages) < 2 {
		t.Fatalf("pages = %d, want a break", len(res.Pages))
	}
	for i := 0; i < 2; i++ {
		content := res.Pages[i].Content
		if !strings.Contains(content, "<</MCID 0>> BDC\n") {
			t.Errorf("page %d: identifier not reset:\n%s", i+1, content)
		}
		if opens, closes := countMarkers(content); opens != closes {
			t.Errorf("page %d: unbalanced markers (%d/%d)", i+1, opens, closes)
		}
	}
}

func TestRenderHeaderFooterArtifacts(t *testing.T) {
	tree := mustMarkdown(t, "body\n")
	e := NewEngine(WithHeader("doc"), WithFooter("1"))
	res, err := e.Render(&Document{Tree: tree})
	if err != nil {
		t.Fatal(err)
	}
	content := res.Pages[0].Content
	if !strings.HasPrefix(content, "/Artifact BMC\n") {
		t.Errorf("header not an artifact:\n%s", content)
	}
	if !strings.HasSuffix(content, "EMC\n") {
		t.Errorf("footer sequence not drained:\n%s", content)
	}
	if opens, closes := countMarkers(content); opens != closes {
		t.Errorf("unbalanced markers (%d/%d)", opens, closes)
	}
	// header/footer never register structure content
	for _, reg := range res.Builder.Registrations() {
		if reg.Node.IsText() {
			t.Errorf("furniture registered: %+v", reg)
		}
	}
}

func TestRenderLinkUnderlineKeepsSequence(t *testing.T) {
	tree := dom.NewTree()
	p := tree.NewNode("p", nil)
	a := tree.NewNode("a", p)
	a.Attrs = map[string]string{"href": "https://example.com"}
	tree.NewTextNode("here", a)

	e := NewEngine()
	res, err := e.Render(&Document{Tree: tree})
	if err != nil {
		t.Fatal(err)
	}
	content := res.Pages[0].Content
	if strings.Count(content, "/Link <</MCID 0>> BDC\n") != 2 {
		t.Errorf("link sequence not reopened with original id:\n%s", content)
	}
	if !strings.Contains(content, "/Artifact BMC\n") {
		t.Errorf("underline not wrapped as artifact:\n%s", content)
	}
	// the reopen's duplicate registration is absorbed
	if got := len(res.Builder.Registrations()); got != 1 {
		t.Errorf("registrations = %d, want 1", got)
	}
}

func TestRenderImageWithLoader(t *testing.T) {
	tree := dom.NewTree()
	img := tree.NewNode("img", nil)
	img.Attrs = map[string]string{"src": "chart.png", "alt": "a chart"}

	loader := func(src string) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 40, 20)), nil
	}
	e := NewEngine(WithImageLoader(loader))
	res, err := e.Render(&Document{Tree: tree})
	if err != nil {
		t.Fatal(err)
	}
	content := res.Pages[0].Content
	if !strings.Contains(content, "/Figure <</MCID 0>> BDC\n") {
		t.Errorf("figure sequence missing:\n%s", content)
	}
	if !strings.Contains(content, "/Im1 Do Q\n") {
		t.Errorf("image operator missing:\n%s", content)
	}
	if len(res.Pages[0].Images) != 1 || res.Pages[0].Images[0].Name != "Im1" {
		t.Fatalf("placed images = %+v", res.Pages[0].Images)
	}

	sres := res.BuildStructure(100, map[int]raw.ObjectRef{1: {Num: 5}}, nil)
	var figure *raw.DictObj
	for _, rec := range sres.Records {
		d, ok := rec.Obj.(*raw.DictObj)
		if !ok {
			continue
		}
		if s, ok := d.Get(raw.NameLiteral("S")); ok {
			if n, ok := s.(raw.NameObj); ok && n.Value() == "Figure" {
				figure = d
			}
		}
	}
	if figure == nil {
		t.Fatal("no Figure element in structure tree")
	}
	alt, ok := figure.Get(raw.NameLiteral("Alt"))
	if !ok || string(alt.(raw.StringObj).Value()) != "a chart" {
		t.Errorf("Alt = %v", alt)
	}
}

func TestRenderDecorativeImage(t *testing.T) {
	tree := dom.NewTree()
	img := tree.NewNode("img", nil)
	img.Attrs = map[string]string{"src": "bg.png", "alt": ""}

	loader := func(src string) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
	}
	e := NewEngine(WithImageLoader(loader))
	res, err := e.Render(&Document{Tree: tree})
	if err != nil {
		t.Fatal(err)
	}
	content := res.Pages[0].Content
	if !strings.Contains(content, "/Artifact BMC\n") || strings.Contains(content, "BDC") {
		t.Errorf("decorative image not an artifact:\n%s", content)
	}
	if len(res.Builder.Registrations()) != 0 {
		t.Errorf("registrations = %+v, want none", res.Builder.Registrations())
	}
}

func TestRenderImagePlaceholder(t *testing.T) {
	tree := dom.NewTree()
	img := tree.NewNode("img", nil)
	img.Attrs = map[string]string{"src": "chart.png", "alt": "a chart"}

	e := NewEngine() // no loader
	res, err := e.Render(&Document{Tree: tree})
	if err != nil {
		t.Fatal(err)
	}
	content := res.Pages[0].Content
	if !strings.Contains(content, "re S\n") {
		t.Errorf("placeholder box missing:\n%s", content)
	}
	if opens, closes := countMarkers(content); opens != closes {
		t.Errorf("unbalanced markers (%d/%d)", opens, closes)
	}
}

func TestRenderNilDocument(t *testing.T) {
	e := NewEngine()
	if _, err := e.Render(nil); err == nil {
		t.Error("nil document accepted")
	}
	if _, err := e.Render(&Document{}); err == nil {
		t.Error("nil tree accepted")
	}
}
