package transport

import (
	"net/http"

	"github.com/nbamra/folio-bff/internal/loader"
	"github.com/nbamra/folio-bff/internal/observability"
	"github.com/nbamra/folio-bff/model"
)

type workResponse struct {
	Items    []model.Item `json:"items"`
	Fallback bool         `json:"fallback"`
}

// handleWork serves the work history through the two-tier source: remote
// collection first, bundled static default when the remote is down or
// empty. Either way the result is sorted most recent first.
func handleWork(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := observability.StartSpan(r.Context(), "work.history")
		defer span.End()

		items, fellBack := deps.WorkSource.Fetch(ctx)
		span.SetAttributes(observability.AttrFallback.Bool(fellBack))
		if fellBack && deps.Metrics != nil {
			deps.Metrics.RecordFallback("experience")
		}

		WriteJSON(w, http.StatusOK, workResponse{
			Items:    loader.SortByStartDate(items, "startDate"),
			Fallback: fellBack,
		})
	}
}
