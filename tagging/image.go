package tagging

import (
	"strings"

	"github.com/tagpdf/tagpdf/dom"
	"github.com/tagpdf/tagpdf/observability"
)

// ImageKind is the full decision space for image content: the cross
// product of the current state and the decorative flag. Images are always
// atomic — opened, rendered and closed in one call.
type ImageKind int

const (
	// ImageSemantic opens a semantic sequence, no prior close needed.
	ImageSemantic ImageKind = iota
	// ImageSemanticAfterSemantic closes the open semantic sequence first.
	ImageSemanticAfterSemantic
	// ImageSemanticAfterArtifact closes the open artifact first.
	ImageSemanticAfterArtifact
	// ImageArtifact wraps the image in an artifact, no prior close needed.
	ImageArtifact
	// ImageArtifactAfterSemantic closes the open semantic sequence first.
	ImageArtifactAfterSemantic
	// ImageArtifactAfterArtifact closes the open artifact first.
	ImageArtifactAfterArtifact
)

// ImageDecision is the outcome of analyzing one image placement.
type ImageDecision struct {
	Kind   ImageKind
	Target *dom.Node // nil for artifact images
	Role   string
}

// ImageProcessor decides how image placements are wrapped.
type ImageProcessor struct {
	tree     *dom.Tree
	state    *StateManager
	listener Listener
	log      observability.Logger
}

// NewImageProcessor creates the image engine for one render.
func NewImageProcessor(tree *dom.Tree, state *StateManager, l Listener, log observability.Logger) *ImageProcessor {
	if l == nil {
		l = NopListener{}
	}
	if log == nil {
		log = observability.NopLogger{}
	}
	return &ImageProcessor{tree: tree, state: state, listener: l, log: log}
}

// Analyze decides the wrapping for an image. decorative forces an artifact
// even for a resolved node; a missing or unresolved node always yields an
// artifact.
func (p *ImageProcessor) Analyze(ref NodeRef, decorative bool) ImageDecision {
	var node *dom.Node
	if id, ok := ref.ID(); ok {
		if n, found := p.tree.Lookup(id); found {
			node = n
		}
	}
	if node == nil || decorative || node.IsDecorative() || node.HasDecorativeAncestor() {
		switch p.state.State() {
		case StateSemantic:
			return ImageDecision{Kind: ImageArtifactAfterSemantic}
		case StateArtifact:
			return ImageDecision{Kind: ImageArtifactAfterArtifact}
		default:
			return ImageDecision{Kind: ImageArtifact}
		}
	}
	role := node.Role()
	if role == "" {
		role = "Figure"
	}
	switch p.state.State() {
	case StateSemantic:
		return ImageDecision{Kind: ImageSemanticAfterSemantic, Target: node, Role: role}
	case StateArtifact:
		return ImageDecision{Kind: ImageSemanticAfterArtifact, Target: node, Role: role}
	default:
		return ImageDecision{Kind: ImageSemantic, Target: node, Role: role}
	}
}

// Execute applies the decision around the rendered image operators. The
// sequence is always closed again before returning.
func (p *ImageProcessor) Execute(d ImageDecision, render func() string) string {
	var out strings.Builder
	switch d.Kind {
	case ImageSemanticAfterSemantic, ImageArtifactAfterSemantic:
		out.WriteString(End())
		p.state.CloseSemantic()
	case ImageSemanticAfterArtifact, ImageArtifactAfterArtifact:
		out.WriteString(End())
		p.state.CloseArtifact()
	}
	switch d.Kind {
	case ImageSemantic, ImageSemanticAfterSemantic, ImageSemanticAfterArtifact:
		mcid := p.state.NextMCID()
		out.WriteString(BeginSemantic(d.Role, mcid))
		p.state.OpenSemantic(d.Target.ID, d.Role, mcid)
		p.listener.SequenceOpened(d.Target.ID, mcid, d.Role, p.state.Page())
		out.WriteString(render())
		out.WriteString(End())
		p.state.CloseSemantic()
	case ImageArtifact, ImageArtifactAfterSemantic, ImageArtifactAfterArtifact:
		out.WriteString(BeginArtifact())
		p.state.OpenArtifact()
		out.WriteString(render())
		out.WriteString(End())
		p.state.CloseArtifact()
	}
	return out.String()
}

// Process analyzes and executes in one call.
func (p *ImageProcessor) Process(ref NodeRef, decorative bool, render func() string) string {
	return p.Execute(p.Analyze(ref, decorative), render)
}
