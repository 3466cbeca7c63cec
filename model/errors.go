package model

import "fmt"

// Standard error codes.
const (
	ErrBadRequest       = "BAD_REQUEST"
	ErrNotFound         = "NOT_FOUND"
	ErrInvalidDirective = "INVALID_DIRECTIVE"
	ErrInternalError    = "INTERNAL_ERROR"
	ErrRemoteFetch      = "REMOTE_FETCH"
	ErrRemoteTimeout    = "REMOTE_TIMEOUT"
)

// ErrorEnvelope is the standard error response envelope returned by the BFF.
// It implements the error interface.
type ErrorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// Error implements the error interface.
func (e *ErrorEnvelope) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError returns a BAD_REQUEST error.
func NewBadRequestError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrBadRequest, Message: msg}
}

// NewNotFoundError returns a NOT_FOUND error.
func NewNotFoundError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrNotFound, Message: msg}
}

// NewInvalidDirectiveError returns an INVALID_DIRECTIVE error. These signal
// programmer mistakes (unknown filter or sort attribute) and must fail the
// request loudly rather than render an empty view that looks like a
// legitimate result.
func NewInvalidDirectiveError(msg string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: ErrInvalidDirective, Message: msg}
}

// NewInternalError returns an INTERNAL_ERROR.
func NewInternalError() *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrInternalError,
		Message: "An unexpected error occurred",
	}
}

// NewRemoteFetchError returns a REMOTE_FETCH error for failed content API
// calls. The loader converts these to page state; they never crash a page.
func NewRemoteFetchError(msg string) *ErrorEnvelope {
	if msg == "" {
		msg = "The content service is temporarily unavailable"
	}
	return &ErrorEnvelope{Code: ErrRemoteFetch, Message: msg}
}

// NewRemoteTimeoutError returns a REMOTE_TIMEOUT error.
func NewRemoteTimeoutError() *ErrorEnvelope {
	return &ErrorEnvelope{
		Code:    ErrRemoteTimeout,
		Message: "The content service did not respond in time",
	}
}
