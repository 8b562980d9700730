// Package compliance defines the validation surface shared by the
// accessibility standards this module can check documents against.
package compliance

import (
	"context"

	"github.com/tagpdf/tagpdf/render"
)

// Context is an alias for context.Context to allow for future expansion.
type Context = context.Context

// Violation represents a compliance violation.
type Violation struct {
	Code        string
	Description string
	Location    string
}

// Report details compliance status.
type Report struct {
	Compliant  bool
	Standard   string // e.g., "PDF/UA-1"
	Violations []Violation
}

// Validator checks a document against a standard before rendering.
type Validator interface {
	Validate(ctx Context, doc *render.Document) (*Report, error)
}
