package loader

import (
	"context"

	"go.uber.org/zap"

	"github.com/nbamra/folio-bff/internal/content"
	"github.com/nbamra/folio-bff/model"
)

// Chain is a two-tier data source: try the remote collection first, fall
// back to a bundled static default when the fetch fails or comes back
// empty. Used for work history, which must render even when the content
// service is down.
type Chain struct {
	fetcher    content.Fetcher
	collection string
	limit      int
	static     []model.Item
	logger     *zap.Logger
}

// NewChain builds a fallback chain for one collection.
func NewChain(fetcher content.Fetcher, collection string, limit int, static []model.Item, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{
		fetcher:    fetcher,
		collection: collection,
		limit:      limit,
		static:     static,
		logger:     logger,
	}
}

// Fetch returns the remote items when available, otherwise the static
// default. The second return reports whether the fallback was used.
func (c *Chain) Fetch(ctx context.Context) ([]model.Item, bool) {
	page, err := c.fetcher.GetAll(ctx, c.collection, nil, content.ListOptions{Limit: c.limit})
	if err != nil {
		c.logger.Warn("remote source failed, serving static fallback",
			zap.String("collection", c.collection),
			zap.Error(err))
		return c.static, true
	}
	if len(page.Items) == 0 {
		c.logger.Info("remote source empty, serving static fallback",
			zap.String("collection", c.collection))
		return c.static, true
	}
	return page.Items, false
}
