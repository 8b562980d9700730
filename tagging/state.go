// Package tagging wraps content-stream emission in marked-content
// sequences: semantic sequences tied to logical nodes, or artifact
// sequences for decorative content. One StateManager and one set of
// processors serve one document render; nothing here is safe for
// concurrent use within a render, and nothing here returns errors —
// missing or unresolved node associations degrade to artifacts.
package tagging

import (
	"fmt"

	"github.com/tagpdf/tagpdf/dom"
	"github.com/tagpdf/tagpdf/observability"
)

// State is the marked-content mode of the stream at an instant. Exactly
// one of the three holds; Semantic and Artifact are mutually exclusive by
// construction.
type State int

const (
	StateNone State = iota
	StateSemantic
	StateArtifact
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateSemantic:
		return "semantic"
	case StateArtifact:
		return "artifact"
	default:
		return "invalid"
	}
}

// StateManager tracks the open marked-content sequence, the per-page
// content-identifier counter and the current page for one render. It is
// mutated exclusively by processor Execute calls.
type StateManager struct {
	state      State
	activeMCID int
	hasMCID    bool
	activeNode dom.NodeID
	activeRole string

	mcidCounter int
	page        int

	log observability.Logger
}

// NewStateManager creates the per-render state holder. A nil logger
// disables logging.
func NewStateManager(log observability.Logger) *StateManager {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &StateManager{page: 1, log: log}
}

// OpenSemantic enters a semantic sequence for node, clearing an artifact
// sequence if one is open.
func (m *StateManager) OpenSemantic(node dom.NodeID, role string, mcid int) {
	if m.state == StateArtifact {
		m.state = StateNone
	}
	m.state = StateSemantic
	m.activeMCID = mcid
	m.hasMCID = true
	m.activeNode = node
	m.activeRole = role
	m.log.Debug("open semantic", observability.Int("node", int(node)),
		observability.Int("mcid", mcid), observability.String("role", role))
}

// CloseSemantic leaves the semantic sequence.
func (m *StateManager) CloseSemantic() {
	m.state = StateNone
	m.hasMCID = false
}

// OpenArtifact enters an artifact sequence, clearing a semantic sequence
// if one is open.
func (m *StateManager) OpenArtifact() {
	if m.state == StateSemantic {
		m.state = StateNone
		m.hasMCID = false
	}
	m.state = StateArtifact
}

// CloseArtifact leaves the artifact sequence.
func (m *StateManager) CloseArtifact() {
	m.state = StateNone
}

// NextMCID returns and post-increments the page-local content identifier.
func (m *StateManager) NextMCID() int {
	id := m.mcidCounter
	m.mcidCounter++
	return id
}

// SetPage records the current page, resetting the content-identifier
// counter when the page changes.
func (m *StateManager) SetPage(n int) {
	if n != m.page {
		m.page = n
		m.mcidCounter = 0
	}
}

// CloseAll drains whatever sequence is open and returns the close operator
// text, or "" when nothing is open. Used at page boundaries so no sequence
// dangles across pages. Idempotent.
func (m *StateManager) CloseAll() string {
	if m.state == StateNone {
		return ""
	}
	m.state = StateNone
	m.hasMCID = false
	return End()
}

// State returns the current marked-content mode.
func (m *StateManager) State() State { return m.state }

// ActiveMCID returns the content identifier of the open semantic sequence.
func (m *StateManager) ActiveMCID() (int, bool) { return m.activeMCID, m.hasMCID }

// ActiveNode returns the owner of the open semantic sequence. Only
// meaningful while State() == StateSemantic.
func (m *StateManager) ActiveNode() dom.NodeID { return m.activeNode }

// ActiveRole returns the role of the open semantic sequence.
func (m *StateManager) ActiveRole() string { return m.activeRole }

// Page returns the current page number.
func (m *StateManager) Page() int { return m.page }

// Validate checks the state/identifier invariant. A violation is an
// internal logic fault, not a recoverable runtime condition.
func (m *StateManager) Validate() error {
	if (m.state == StateSemantic) != m.hasMCID {
		return fmt.Errorf("tagging: state %v with active mcid present=%v", m.state, m.hasMCID)
	}
	return nil
}
