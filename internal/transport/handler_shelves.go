package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nbamra/folio-bff/internal/catalog"
	"github.com/nbamra/folio-bff/internal/observability"
	"github.com/nbamra/folio-bff/internal/view"
)

func handleListShelves(shelves *catalog.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		type shelfSummary struct {
			ShelfID    string          `json:"shelfId"`
			Descriptor view.Descriptor `json:"descriptor"`
			Size       int             `json:"size"`
		}
		ids := shelves.IDs()
		out := make([]shelfSummary, 0, len(ids))
		for _, id := range ids {
			shelf, err := shelves.Get(id)
			if err != nil {
				continue
			}
			out = append(out, shelfSummary{
				ShelfID:    id,
				Descriptor: shelf.Descriptor,
				Size:       len(shelf.Snapshot),
			})
		}
		WriteJSON(w, http.StatusOK, map[string]any{"shelves": out})
	}
}

// handleShelfView computes the filtered, sorted view of a shelf with the
// resolved active record.
func handleShelfView(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shelfID := chi.URLParam(r, "shelfId")

		ctx, span := observability.StartSpan(r.Context(), "shelf.view",
			observability.AttrShelfID.String(shelfID))

		shelf, err := deps.Shelves.Get(shelfID)
		if err != nil {
			observability.EndSpanWithError(span, err)
			WriteError(w, err)
			return
		}

		query := view.Query{
			Selection: view.Selection(queryMap(r, "filter")),
			ActiveID:  r.URL.Query().Get("active"),
		}
		if key := r.URL.Query().Get("sort"); key != "" {
			dir := view.Direction(r.URL.Query().Get("dir"))
			if dir == "" {
				dir = view.Ascending
			}
			query.Sort = &view.SortDirective{Key: key, Direction: dir}
		}

		start := time.Now()
		result, err := view.Compute(shelf.Snapshot, shelf.Descriptor, query)
		if deps.Metrics != nil {
			status := "ok"
			if err != nil {
				status = "error"
			}
			deps.Metrics.RecordViewComputation(shelfID, status, time.Since(start))
		}
		if err != nil {
			observability.EndSpanWithError(span, err)
			observability.RequestLogger(ctx, deps.Logger).Warn("view computation rejected",
				zap.String("shelf_id", shelfID), zap.Error(err))
			WriteError(w, err)
			return
		}

		span.End()
		WriteJSON(w, http.StatusOK, result)
	}
}

// handleShelfFilters returns the distinct values per filterable attribute,
// the sentinel first.
func handleShelfFilters(shelves *catalog.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shelfID := chi.URLParam(r, "shelfId")

		shelf, err := shelves.Get(shelfID)
		if err != nil {
			WriteError(w, err)
			return
		}

		filters := make(map[string][]string, len(shelf.Descriptor.Filterable))
		for _, attr := range shelf.Descriptor.Filterable {
			values, err := view.FilterValues(shelf.Snapshot, attr)
			if err != nil {
				WriteError(w, err)
				return
			}
			filters[attr] = values
		}

		WriteJSON(w, http.StatusOK, map[string]any{
			"shelfId":  shelfID,
			"filters":  filters,
			"sortable": shelf.Descriptor.Sortable,
		})
	}
}

// --- query helpers ---

// queryInt extracts an integer query param with a default.
func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// queryMap extracts all query params with a given prefix as a map.
// e.g., filter[genre]=Drama → {"genre": "Drama"}
func queryMap(r *http.Request, prefix string) map[string]string {
	result := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(key) > len(prefix)+2 && key[:len(prefix)+1] == prefix+"[" && key[len(key)-1] == ']' {
			field := key[len(prefix)+1 : len(key)-1]
			if len(values) > 0 {
				result[field] = values[0]
			}
		}
	}
	return result
}
