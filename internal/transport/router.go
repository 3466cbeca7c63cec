package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nbamra/folio-bff/internal/catalog"
	"github.com/nbamra/folio-bff/internal/config"
	"github.com/nbamra/folio-bff/internal/content"
	"github.com/nbamra/folio-bff/internal/loader"
	"github.com/nbamra/folio-bff/internal/observability"
)

// Dependencies holds all injected dependencies for the HTTP transport layer.
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Shelves    *catalog.Registry
	Content    content.Fetcher
	Loader     *loader.Loader
	WorkSource *loader.Chain

	// ContentHealth gates the content_service readiness check; usually the
	// content client itself.
	ContentHealth observability.HealthChecker
}

// NewRouter creates a chi.Router with the full middleware pipeline and all
// route registrations. Health, readiness, and metrics endpoints bypass the
// request pipeline.
func NewRouter(deps Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(CORS(deps.Config.Server.CORS))
	r.Use(RequestID)
	r.Use(SecurityHeaders)

	r.Get("/api/health", observability.HandleHealth())
	r.Get("/api/ready", observability.HandleReady(observability.ReadinessChecks{
		ShelvesLoaded:  func() bool { return len(deps.Shelves.IDs()) > 0 },
		ContentService: deps.ContentHealth,
	}))
	if deps.Config.Observability.Metrics.Enabled {
		r.Handle(deps.Config.Observability.Metrics.Path, observability.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(observability.TracingMiddleware)
		r.Use(BuildRequestContext)
		r.Use(HandlerTimeout(deps.Config.Server.HandlerTimeout))
		r.Use(RequestLogging)
		if deps.Metrics != nil {
			r.Use(deps.Metrics.MetricsMiddleware)
		}

		r.Route("/api", func(r chi.Router) {
			r.Get("/shelves", handleListShelves(deps.Shelves))
			r.Get("/shelves/{shelfId}/view", handleShelfView(deps))
			r.Get("/shelves/{shelfId}/filters", handleShelfFilters(deps.Shelves))

			r.Get("/collections/{name}", handleListCollection(deps))
			r.Get("/collections/{name}/feed", handleFeed(deps))
			r.Get("/collections/{name}/feed/more", handleFeedMore(deps))
			r.Post("/collections/{name}/feed/reset", handleFeedReset(deps.Loader))
			r.Get("/collections/{name}/items/{id}", handleCollectionItem(deps))

			r.Get("/home", handleHome(deps))
			r.Get("/work", handleWork(deps))
		})
	})

	return r
}

// pageSize resolves the requested page size against configured bounds.
func pageSize(r *http.Request, cfg config.CollectionsConfig) int {
	size := queryInt(r, "page_size", cfg.DefaultPageSize)
	if size < 1 {
		size = cfg.DefaultPageSize
	}
	if size > cfg.MaxPageSize {
		size = cfg.MaxPageSize
	}
	return size
}
