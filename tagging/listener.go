package tagging

import "github.com/tagpdf/tagpdf/dom"

// Listener is notified whenever a semantic sequence is opened. The
// structure assembler implements it to accumulate registrations; the
// processors never depend on what the listener does with the event.
type Listener interface {
	SequenceOpened(node dom.NodeID, mcid int, role string, page int)
}

// NopListener discards all events.
type NopListener struct{}

func (NopListener) SequenceOpened(dom.NodeID, int, string, int) {}

// NodeRef is an optional node association for a content unit. It
// distinguishes "no id supplied" from "id supplied" — an id that is
// supplied but unresolved in the tree is a third case the processors
// detect themselves.
type NodeRef struct {
	id  dom.NodeID
	set bool
}

// NoNode is the reference for content with no logical association.
func NoNode() NodeRef { return NodeRef{} }

// ForNode references the node with the given id.
func ForNode(id dom.NodeID) NodeRef { return NodeRef{id: id, set: true} }

// ID returns the node id and whether one was supplied.
func (r NodeRef) ID() (dom.NodeID, bool) { return r.id, r.set }
