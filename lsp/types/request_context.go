package types

import (
	"context"

	"github.com/tliron/glsp"
)

// RequestContext carries one LSP call: the server, the protocol context,
// the context.Context index operations run under, and the non-fatal
// problems the handler met along the way.
type RequestContext struct {
	Server   ServerContext
	GLSP     *glsp.Context // Notify and Call back to the client
	ctx      context.Context
	warnings []error
}

// NewRequestContext creates a request context running under
// context.Background
func NewRequestContext(server ServerContext, glsp *glsp.Context) *RequestContext {
	return &RequestContext{
		Server: server,
		GLSP:   glsp,
		ctx:    context.Background(),
	}
}

// WithContext replaces the context index operations run under
func (r *RequestContext) WithContext(ctx context.Context) *RequestContext {
	if ctx != nil {
		r.ctx = ctx
	}
	return r
}

// Context returns the context for blocking work done by the handler
func (r *RequestContext) Context() context.Context {
	return r.ctx
}

// AddWarning records a problem that did not stop the request. The
// middleware logs warnings once the handler returns.
func (r *RequestContext) AddWarning(err error) {
	if err != nil {
		r.warnings = append(r.warnings, err)
	}
}

// Warnings returns the recorded warnings, or nil
func (r *RequestContext) Warnings() []error {
	return r.warnings
}

// HasWarnings reports whether any warning was recorded
func (r *RequestContext) HasWarnings() bool {
	return len(r.warnings) > 0
}
