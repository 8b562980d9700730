// Package render walks a logical node tree and produces tagged page
// content streams, driving the tagging processors for every content unit
// and accumulating structure registrations for the post-render assembly
// pass. Geometry here is deliberately simple (single column, fixed line
// advance); the point is the wrapping, not visual fidelity.
package render

import (
	"image"

	"github.com/tagpdf/tagpdf/dom"
	"github.com/tagpdf/tagpdf/ir/raw"
	"github.com/tagpdf/tagpdf/observability"
	"github.com/tagpdf/tagpdf/structure"
)

// Document is one renderable document: the finalized node tree plus the
// catalog-level accessibility metadata.
type Document struct {
	Tree   *dom.Tree
	Title  string
	Lang   string
	Marked bool
}

// PlacedImage records an image XObject placed on a page, so the caller can
// build the page's resource dictionary.
type PlacedImage struct {
	Name  string
	Image image.Image
}

// Page is one rendered page: its content stream and placed images.
type Page struct {
	Number  int
	Content string
	Images  []PlacedImage
}

// Result is the outcome of one render. The builder holds the structure
// registrations; BuildStructure runs the batch assembly pass.
type Result struct {
	Pages   []Page
	Builder *structure.TreeBuilder
}

// BuildStructure assembles the structure tree for the rendered document.
func (r *Result) BuildStructure(startID int, pageRefs map[int]raw.ObjectRef, links []structure.LinkAnnotation) structure.Result {
	return r.Builder.Build(startID, pageRefs, links)
}

// Margins defines page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// ImageLoader resolves an image source reference to pixel data.
type ImageLoader func(src string) (image.Image, error)

// Option configures an Engine.
type Option func(*Engine)

// WithPageSize sets the page dimensions in points.
func WithPageSize(width, height float64) Option {
	return func(e *Engine) {
		e.pageW = width
		e.pageH = height
	}
}

// WithMargins sets the page margins.
func WithMargins(m Margins) Option {
	return func(e *Engine) { e.margins = m }
}

// WithFontSize sets the body font size.
func WithFontSize(size float64) Option {
	return func(e *Engine) { e.fontSize = size }
}

// WithLineHeight sets the line height multiplier.
func WithLineHeight(mult float64) Option {
	return func(e *Engine) { e.lineHeight = mult }
}

// WithHeader sets running header text, emitted as an artifact on every
// page.
func WithHeader(text string) Option {
	return func(e *Engine) { e.header = text }
}

// WithFooter sets running footer text, emitted as an artifact on every
// page.
func WithFooter(text string) Option {
	return func(e *Engine) { e.footer = text }
}

// WithImageLoader sets the resolver for img node sources.
func WithImageLoader(fn ImageLoader) Option {
	return func(e *Engine) { e.loadImage = fn }
}

// WithLogger sets the logger shared by the engine and the tagging
// machinery.
func WithLogger(log observability.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// Engine renders documents. It holds configuration only; all per-render
// state lives in the render pass, so one engine may serve independent
// renders.
type Engine struct {
	pageW, pageH float64
	margins      Margins
	fontSize     float64
	lineHeight   float64
	header       string
	footer       string
	loadImage    ImageLoader
	log          observability.Logger
}

// NewEngine creates an engine with A4 geometry by default.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		pageW:      595,
		pageH:      842,
		margins:    Margins{Top: 50, Bottom: 50, Left: 50, Right: 50},
		fontSize:   12,
		lineHeight: 1.2,
		log:        observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
