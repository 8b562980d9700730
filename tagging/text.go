package tagging

import (
	"strings"

	"github.com/tagpdf/tagpdf/dom"
	"github.com/tagpdf/tagpdf/observability"
)

// TextKind is the decision space for text content.
type TextKind int

const (
	// TextContinue emits inside whatever sequence is already open.
	TextContinue TextKind = iota
	// TextArtifact ensures an artifact sequence is open and emits inside it.
	TextArtifact
	// TextOpenSemantic closes whatever is open and opens a semantic
	// sequence with a fresh content identifier.
	TextOpenSemantic
)

// TextDecision is the outcome of analyzing one text run. Analyze has no
// side effects; only Execute mutates state.
type TextDecision struct {
	Kind   TextKind
	Target *dom.Node // registration target for TextOpenSemantic
	Role   string    // effective role for TextOpenSemantic
}

// TextProcessor decides how text runs are wrapped. Text is the most
// involved of the three engines because of parent-resolution fallback for
// leaves, transparent inlines and line breaks.
type TextProcessor struct {
	tree     *dom.Tree
	state    *StateManager
	listener Listener
	log      observability.Logger
}

// NewTextProcessor creates the text engine for one render. Nil listener
// and logger are replaced with no-ops.
func NewTextProcessor(tree *dom.Tree, state *StateManager, l Listener, log observability.Logger) *TextProcessor {
	if l == nil {
		l = NopListener{}
	}
	if log == nil {
		log = observability.NopLogger{}
	}
	return &TextProcessor{tree: tree, state: state, listener: l, log: log}
}

// Analyze decides how a text run for ref must be wrapped given the current
// state. It never mutates anything.
func (p *TextProcessor) Analyze(ref NodeRef) TextDecision {
	id, supplied := ref.ID()
	if !supplied {
		// page furniture and other content with no logical association
		return TextDecision{Kind: TextArtifact}
	}
	node, found := p.tree.Lookup(id)
	if !found {
		// Node synthesized during layout after the tree snapshot (reflow
		// splits, font substitution). Never open a new sequence for it:
		// stay in whatever is open, else fall back to an artifact.
		if p.state.State() != StateNone {
			return TextDecision{Kind: TextContinue}
		}
		p.log.Debug("text for untracked node", observability.Int("node", int(id)))
		return TextDecision{Kind: TextArtifact}
	}
	if node.IsDecorative() || node.HasDecorativeAncestor() {
		return TextDecision{Kind: TextArtifact}
	}
	if node.IsLineBreak() {
		// A line break never opens a sequence for itself. If nothing is
		// open it must still not orphan its siblings, so the nearest
		// tagged ancestor's role is used.
		if p.state.State() != StateNone {
			return TextDecision{Kind: TextContinue}
		}
		block := node.NearestTaggedAncestor()
		if block == nil {
			return TextDecision{Kind: TextArtifact}
		}
		return TextDecision{Kind: TextOpenSemantic, Target: block, Role: block.Role()}
	}
	if node.IsText() || node.IsTransparentInline() {
		block := node.NearestTaggedAncestor()
		if block == nil {
			return TextDecision{Kind: TextArtifact}
		}
		return TextDecision{Kind: TextOpenSemantic, Target: block, Role: block.Role()}
	}
	return TextDecision{Kind: TextOpenSemantic, Target: node, Role: node.Role()}
}

// Execute applies the decision around the rendered content and returns the
// wrapped operator text. render must be synchronous and side-effect free.
func (p *TextProcessor) Execute(d TextDecision, render func() string) string {
	switch d.Kind {
	case TextContinue:
		return render()

	case TextArtifact:
		var out strings.Builder
		switch p.state.State() {
		case StateSemantic:
			out.WriteString(End())
			p.state.CloseSemantic()
			out.WriteString(BeginArtifact())
			p.state.OpenArtifact()
		case StateNone:
			out.WriteString(BeginArtifact())
			p.state.OpenArtifact()
		case StateArtifact:
			// continue in the open artifact
		}
		out.WriteString(render())
		return out.String()

	case TextOpenSemantic:
		var out strings.Builder
		switch p.state.State() {
		case StateSemantic:
			out.WriteString(End())
			p.state.CloseSemantic()
		case StateArtifact:
			out.WriteString(End())
			p.state.CloseArtifact()
		}
		mcid := p.state.NextMCID()
		out.WriteString(BeginSemantic(d.Role, mcid))
		p.state.OpenSemantic(d.Target.ID, d.Role, mcid)
		p.listener.SequenceOpened(d.Target.ID, mcid, d.Role, p.state.Page())
		out.WriteString(render())
		return out.String()
	}
	return ""
}

// Process analyzes and executes in one call.
func (p *TextProcessor) Process(ref NodeRef, render func() string) string {
	return p.Execute(p.Analyze(ref), render)
}
