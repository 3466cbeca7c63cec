package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nbamra/folio-bff/internal/content"
	"github.com/nbamra/folio-bff/internal/loader"
	"github.com/nbamra/folio-bff/internal/observability"
	"github.com/nbamra/folio-bff/model"
)

// handleListCollection is the stateless passthrough: one bounded page of a
// named collection, no accumulation.
func handleListCollection(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		ctx, span := observability.StartSpan(r.Context(), "collection.list",
			observability.AttrCollection.String(name))
		defer span.End()

		opts := content.ListOptions{
			Limit: pageSize(r, deps.Config.Collections),
			Skip:  queryInt(r, "skip", 0),
		}
		if opts.Skip < 0 {
			opts.Skip = 0
		}

		page, err := deps.Content.GetAll(ctx, name, queryMap(r, "filter"), opts)
		if err != nil {
			span.RecordError(err)
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, page)
	}
}

// handleFeed serves the accumulated feed state, issuing the initial load.
func handleFeed(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		ctx, span := observability.StartSpan(r.Context(), "collection.feed",
			observability.AttrCollection.String(name))
		defer span.End()

		state := deps.Loader.LoadInitial(ctx, name, pageSize(r, deps.Config.Collections))
		recordPageLoad(deps, name, "initial", state)
		WriteJSON(w, http.StatusOK, state)
	}
}

// handleFeedMore advances the feed by one page.
func handleFeedMore(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		ctx, span := observability.StartSpan(r.Context(), "collection.feed_more",
			observability.AttrCollection.String(name))
		defer span.End()

		state := deps.Loader.LoadMore(ctx, name, pageSize(r, deps.Config.Collections))
		recordPageLoad(deps, name, "more", state)
		WriteJSON(w, http.StatusOK, state)
	}
}

// handleFeedReset drops a feed's accumulated state. In-flight responses
// for the old state are discarded, not merged.
func handleFeedReset(l *loader.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		l.Reset(name)
		WriteJSON(w, http.StatusOK, l.State(name))
	}
}

// handleCollectionItem is the detail lookup.
func handleCollectionItem(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		id := chi.URLParam(r, "id")

		ctx, span := observability.StartSpan(r.Context(), "collection.item",
			observability.AttrCollection.String(name),
			observability.AttrItemID.String(id))
		defer span.End()

		item, err := deps.Content.GetByID(ctx, name, id)
		if err != nil {
			span.RecordError(err)
			var envelope *model.ErrorEnvelope
			if errors.As(err, &envelope) && envelope.Code == model.ErrNotFound {
				WriteNotFound(w, envelope.Message, "/api/collections/"+name)
				return
			}
			WriteError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, item)
	}
}

func recordPageLoad(deps Dependencies, collection, kind string, state loader.PageState) {
	if deps.Metrics == nil {
		return
	}
	status := "ok"
	if state.LastError != "" {
		status = "error"
	}
	deps.Metrics.RecordPageLoad(collection, kind, status)
}
