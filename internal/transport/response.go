// Package transport contains the HTTP router, middleware chain, and all
// request handlers for the portfolio API.
package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nbamra/folio-bff/model"
)

// statusForCode maps ErrorEnvelope codes to HTTP status codes.
var statusForCode = map[string]int{
	model.ErrBadRequest:       http.StatusBadRequest,
	model.ErrNotFound:         http.StatusNotFound,
	model.ErrInvalidDirective: http.StatusBadRequest,
	model.ErrInternalError:    http.StatusInternalServerError,
	model.ErrRemoteFetch:      http.StatusBadGateway,
	model.ErrRemoteTimeout:    http.StatusGatewayTimeout,
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// WriteError writes an ErrorEnvelope as a JSON response with the correct
// HTTP status code. If err is not an *ErrorEnvelope, a generic 500 is returned.
func WriteError(w http.ResponseWriter, err error) {
	var ee *model.ErrorEnvelope
	if !errors.As(err, &ee) {
		ee = model.NewInternalError()
	}

	status := statusForCode[ee.Code]
	if status == 0 {
		status = http.StatusInternalServerError
	}

	type errorResponse struct {
		Error *model.ErrorEnvelope `json:"error"`
	}
	WriteJSON(w, status, errorResponse{Error: ee})
}

// WriteNotFound writes a 404 response carrying a recovery link back to the
// listing, so clients can render a dedicated not-found view.
func WriteNotFound(w http.ResponseWriter, msg, backLink string) {
	type notFoundResponse struct {
		Error    *model.ErrorEnvelope `json:"error"`
		BackLink string               `json:"backLink,omitempty"`
	}
	WriteJSON(w, http.StatusNotFound, notFoundResponse{
		Error:    model.NewNotFoundError(msg),
		BackLink: backLink,
	})
}
