package tagging

import (
	"crypto/sha256"
	"strings"

	"github.com/tagpdf/tagpdf/dom"
	"github.com/tagpdf/tagpdf/observability"
)

// DrawingKind is the decision space for vector drawing content. Drawings
// are decorative by policy (borders, backgrounds, rules) and may interleave
// with an in-progress semantic sequence.
type DrawingKind int

const (
	// DrawingSkip suppresses a phantom call: identical content already
	// emitted for the same node. No output, no state change.
	DrawingSkip DrawingKind = iota
	// DrawingArtifactWrap wraps the drawing alone in an artifact sequence.
	DrawingArtifactWrap
	// DrawingBare emits the drawing inside the already-open artifact.
	DrawingBare
	// DrawingInterruptSame closes the semantic sequence owned by the same
	// node, wraps the drawing as an artifact, and reopens the sequence
	// with its original content identifier.
	DrawingInterruptSame
	// DrawingInterruptOther closes a semantic sequence owned by a
	// different node and wraps the drawing as an artifact. The interrupted
	// owner reopens on its next text emission.
	DrawingInterruptOther
)

// DrawingDecision carries the speculatively rendered content along with
// the chosen wrapping.
type DrawingDecision struct {
	Kind    DrawingKind
	Content string

	node    dom.NodeID
	hasNode bool
	hash    [sha256.Size]byte
}

type drawKey struct {
	node dom.NodeID
	hash [sha256.Size]byte
}

// DrawingProcessor decides how drawings are wrapped and suppresses
// duplicate emissions per node.
type DrawingProcessor struct {
	state    *StateManager
	listener Listener
	log      observability.Logger
	seen     map[drawKey]struct{}
}

// NewDrawingProcessor creates the drawing engine for one render.
func NewDrawingProcessor(state *StateManager, l Listener, log observability.Logger) *DrawingProcessor {
	if l == nil {
		l = NopListener{}
	}
	if log == nil {
		log = observability.NopLogger{}
	}
	return &DrawingProcessor{state: state, listener: l, log: log, seen: make(map[drawKey]struct{})}
}

// Analyze renders the drawing speculatively (render must be pure) and
// decides the wrapping. It never mutates state; the duplicate registry is
// only written by Execute.
func (p *DrawingProcessor) Analyze(ref NodeRef, render func() string) DrawingDecision {
	d := DrawingDecision{Content: render()}
	if id, ok := ref.ID(); ok {
		d.node = id
		d.hasNode = true
		d.hash = sha256.Sum256([]byte(stripWrappers(d.Content)))
		if _, dup := p.seen[drawKey{node: id, hash: d.hash}]; dup {
			d.Kind = DrawingSkip
			return d
		}
	}
	switch p.state.State() {
	case StateNone:
		d.Kind = DrawingArtifactWrap
	case StateArtifact:
		d.Kind = DrawingBare
	case StateSemantic:
		if d.hasNode && d.node == p.state.ActiveNode() {
			d.Kind = DrawingInterruptSame
		} else {
			d.Kind = DrawingInterruptOther
		}
	}
	return d
}

// Execute applies the decision and returns the wrapped operator text.
func (p *DrawingProcessor) Execute(d DrawingDecision) string {
	if d.Kind == DrawingSkip {
		p.log.Debug("phantom drawing suppressed", observability.Int("node", int(d.node)))
		return ""
	}
	if d.hasNode {
		p.seen[drawKey{node: d.node, hash: d.hash}] = struct{}{}
	}
	switch d.Kind {
	case DrawingBare:
		return d.Content

	case DrawingArtifactWrap:
		var out strings.Builder
		out.WriteString(BeginArtifact())
		p.state.OpenArtifact()
		out.WriteString(d.Content)
		out.WriteString(End())
		p.state.CloseArtifact()
		return out.String()

	case DrawingInterruptSame:
		// The logical element is one contiguous piece of content merely
		// visually interrupted, so the reopened sequence keeps its
		// original identifier.
		mcid, _ := p.state.ActiveMCID()
		role := p.state.ActiveRole()
		owner := p.state.ActiveNode()
		var out strings.Builder
		out.WriteString(End())
		p.state.CloseSemantic()
		out.WriteString(BeginArtifact())
		p.state.OpenArtifact()
		out.WriteString(d.Content)
		out.WriteString(End())
		p.state.CloseArtifact()
		out.WriteString(BeginSemantic(role, mcid))
		p.state.OpenSemantic(owner, role, mcid)
		// duplicate registration; the assembler absorbs it
		p.listener.SequenceOpened(owner, mcid, role, p.state.Page())
		return out.String()

	case DrawingInterruptOther:
		var out strings.Builder
		out.WriteString(End())
		p.state.CloseSemantic()
		out.WriteString(BeginArtifact())
		p.state.OpenArtifact()
		out.WriteString(d.Content)
		out.WriteString(End())
		p.state.CloseArtifact()
		return out.String()
	}
	return ""
}

// Process analyzes and executes in one call.
func (p *DrawingProcessor) Process(ref NodeRef, render func() string) string {
	return p.Execute(p.Analyze(ref, render))
}

// stripWrappers removes marked-content wrapper lines so re-entrant
// wrapping does not defeat duplicate detection.
func stripWrappers(content string) string {
	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "EMC" || strings.HasSuffix(trimmed, " BDC") || strings.HasSuffix(trimmed, " BMC") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
