package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nbamra/folio-bff/model"
)

func TestWriteError_statusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", model.NewBadRequestError("bad"), http.StatusBadRequest},
		{"not found", model.NewNotFoundError("missing"), http.StatusNotFound},
		{"invalid directive", model.NewInvalidDirectiveError("bad attr"), http.StatusBadRequest},
		{"remote fetch", model.NewRemoteFetchError(""), http.StatusBadGateway},
		{"remote timeout", model.NewRemoteTimeoutError(), http.StatusGatewayTimeout},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestWriteError_wrapsEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, model.NewNotFoundError("gone"))

	var body struct {
		Error *model.ErrorEnvelope `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body.Error == nil || body.Error.Code != model.ErrNotFound || body.Error.Message != "gone" {
		t.Errorf("body = %+v", body.Error)
	}
}

func TestWriteError_plainErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("sensitive internals"))

	var body struct {
		Error *model.ErrorEnvelope `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body.Error.Message == "sensitive internals" {
		t.Error("internal error text must not leak to clients")
	}
}

func TestWriteJSON_setsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]string{"ok": "yes"})

	if got := rec.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", got)
	}
}
