package model

import "context"

// RequestContext carries per-request metadata extracted by the transport
// middleware. The portfolio API is public, so there is no identity here,
// only correlation and presentation hints.
type RequestContext struct {
	CorrelationID string
	Locale        string
	Timezone      string
	TraceID       string
}

type requestContextKey struct{}

// WithRequestContext stores a RequestContext in the context.
func WithRequestContext(ctx context.Context, rctx *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rctx)
}

// RequestContextFrom extracts the RequestContext, or nil if absent.
func RequestContextFrom(ctx context.Context) *RequestContext {
	rctx, _ := ctx.Value(requestContextKey{}).(*RequestContext)
	return rctx
}
