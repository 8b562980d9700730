package render

import (
	"fmt"
	"strings"

	"github.com/tagpdf/tagpdf/dom"
	"github.com/tagpdf/tagpdf/images"
	"github.com/tagpdf/tagpdf/observability"
	"github.com/tagpdf/tagpdf/structure"
	"github.com/tagpdf/tagpdf/tagging"
	"github.com/tagpdf/tagpdf/writer"
)

// pass holds the state of one render. Strictly sequential; nothing in here
// may be shared across concurrent renders.
type pass struct {
	e *Engine

	state   *tagging.StateManager
	text    *tagging.TextProcessor
	drawing *tagging.DrawingProcessor
	image   *tagging.ImageProcessor
	builder *structure.TreeBuilder

	pages   []Page
	buf     strings.Builder
	placed  []PlacedImage
	pageNum int
	cursorY float64
	imageN  int
}

// Render produces tagged page streams for the document. The returned
// Result's builder holds every structure registration made along the way.
func (e *Engine) Render(doc *Document) (*Result, error) {
	if doc == nil || doc.Tree == nil {
		return nil, fmt.Errorf("render: nil document tree")
	}
	st := tagging.NewStateManager(e.log)
	builder := structure.NewTreeBuilder(doc.Tree, e.log)
	p := &pass{
		e:       e,
		state:   st,
		text:    tagging.NewTextProcessor(doc.Tree, st, builder, e.log),
		drawing: tagging.NewDrawingProcessor(st, builder, e.log),
		image:   tagging.NewImageProcessor(doc.Tree, st, builder, e.log),
		builder: builder,
	}
	p.startPage(1)
	for _, child := range doc.Tree.Root.Children {
		p.visit(child)
	}
	p.endPage()
	e.log.Info("render complete",
		observability.Int("pages", len(p.pages)),
		observability.Int("registrations", len(builder.Registrations())))
	return &Result{Pages: p.pages, Builder: builder}, nil
}

func (p *pass) startPage(n int) {
	p.pageNum = n
	p.state.SetPage(n)
	p.cursorY = p.e.pageH - p.e.margins.Top
	if p.e.header != "" {
		// page furniture: no logical association
		p.buf.WriteString(p.text.Process(tagging.NoNode(), func() string {
			return p.showText(p.e.header, p.e.margins.Left, p.e.pageH-p.e.margins.Top/2)
		}))
	}
}

func (p *pass) endPage() {
	if p.e.footer != "" {
		p.buf.WriteString(p.text.Process(tagging.NoNode(), func() string {
			return p.showText(p.e.footer, p.e.margins.Left, p.e.margins.Bottom/2)
		}))
	}
	p.buf.WriteString(p.state.CloseAll())
	if err := p.state.Validate(); err != nil {
		// unreachable unless the state machine itself is broken
		panic(err)
	}
	p.pages = append(p.pages, Page{Number: p.pageNum, Content: p.buf.String(), Images: p.placed})
	p.buf.Reset()
	p.placed = nil
}

func (p *pass) advance(lines float64) {
	p.cursorY -= lines * p.e.fontSize * p.e.lineHeight
	if p.cursorY < p.e.margins.Bottom {
		p.endPage()
		p.startPage(p.pageNum + 1)
	}
}

func (p *pass) visit(n *dom.Node) {
	switch {
	case n.IsText():
		x := p.e.margins.Left
		y := p.cursorY
		p.buf.WriteString(p.text.Process(tagging.ForNode(n.ID), func() string {
			return p.showText(n.Text, x, y)
		}))
		p.advance(1)
		return

	case n.IsLineBreak():
		p.buf.WriteString(p.text.Process(tagging.ForNode(n.ID), func() string { return "" }))
		p.advance(1)
		return

	case n.Tag == "img":
		p.placeImage(n)
		p.advance(1)
		return

	case n.Tag == "hr":
		y := p.cursorY
		p.buf.WriteString(p.drawing.Process(tagging.ForNode(n.ID), func() string {
			return fmt.Sprintf("%g %g m %g %g l S\n",
				p.e.margins.Left, y, p.e.pageW-p.e.margins.Right, y)
		}))
		p.advance(1)
		return
	}

	for _, child := range n.Children {
		p.visit(child)
	}

	switch n.Tag {
	case "a":
		// underline under the link's own still-open sequence
		y := p.cursorY + p.e.fontSize*p.e.lineHeight - 2
		p.buf.WriteString(p.drawing.Process(tagging.ForNode(n.ID), func() string {
			return fmt.Sprintf("%g %g m %g %g l S\n", p.e.margins.Left, y, p.e.margins.Left+80, y)
		}))
	case "table":
		// border around the table; decorative relative to whichever cell
		// sequence is still open
		y := p.cursorY
		p.buf.WriteString(p.drawing.Process(tagging.ForNode(n.ID), func() string {
			return fmt.Sprintf("%g %g %g %g re S\n",
				p.e.margins.Left, y, p.e.pageW-p.e.margins.Left-p.e.margins.Right, p.e.fontSize*4)
		}))
		p.advance(1)
	}
}

func (p *pass) placeImage(n *dom.Node) {
	decorative := n.Attr("alt") == ""
	src := n.Attr("src")
	if p.e.loadImage == nil || src == "" {
		// no pixel data: a placeholder box stands in for the image
		y := p.cursorY
		p.buf.WriteString(p.drawing.Process(tagging.ForNode(n.ID), func() string {
			return fmt.Sprintf("%g %g 100 60 re S\n", p.e.margins.Left, y-60)
		}))
		return
	}
	img, err := p.e.loadImage(src)
	if err != nil {
		p.e.log.Warn("image load failed", observability.String("src", src), observability.Error("err", err))
		return
	}
	img = images.Downsample(img, 2048)
	maxW := p.e.pageW - p.e.margins.Left - p.e.margins.Right
	w, h := images.FitBox(img, maxW, p.cursorY-p.e.margins.Bottom)
	p.imageN++
	name := fmt.Sprintf("Im%d", p.imageN)
	x := p.e.margins.Left
	y := p.cursorY - h
	p.buf.WriteString(p.image.Process(tagging.ForNode(n.ID), decorative, func() string {
		return fmt.Sprintf("q %g 0 0 %g %g %g cm /%s Do Q\n", w, h, x, y, name)
	}))
	p.placed = append(p.placed, PlacedImage{Name: name, Image: img})
}

func (p *pass) showText(s string, x, y float64) string {
	return fmt.Sprintf("BT /F1 %g Tf %g %g Td %s Tj ET\n",
		p.e.fontSize, x, y, writer.EscapeString([]byte(s)))
}
