package loader

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nbamra/folio-bff/internal/content"
	"github.com/nbamra/folio-bff/model"
)

// BatchRequest names one collection to fetch as part of a batch.
type BatchRequest struct {
	Collection string
	Limit      int
	Filter     map[string]string
}

// BatchEntry is the outcome for one collection in a batch. A failed
// collection carries Error and an empty item list; it never hides the
// others.
type BatchEntry struct {
	Collection string       `json:"collection"`
	Items      []model.Item `json:"items"`
	HasNext    bool         `json:"hasNext"`
	Error      string       `json:"error,omitempty"`
}

// LoadBatch fetches several independent collections in parallel and
// resolves once all of them have settled. Each fetch gets its own timeout
// so one slow upstream cannot hold the whole batch.
func (l *Loader) LoadBatch(ctx context.Context, requests []BatchRequest, perFetchTimeout time.Duration) map[string]BatchEntry {
	if perFetchTimeout <= 0 {
		perFetchTimeout = 3 * time.Second
	}

	results := make(chan BatchEntry, len(requests))
	var wg sync.WaitGroup

	for _, req := range requests {
		wg.Add(1)
		go func(req BatchRequest) {
			defer wg.Done()
			results <- l.fetchOne(ctx, req, perFetchTimeout)
		}(req)
	}

	wg.Wait()
	close(results)

	out := make(map[string]BatchEntry, len(requests))
	for entry := range results {
		out[entry.Collection] = entry
	}
	return out
}

// fetchOne runs a single batch member. A panic in a fetch is contained
// here so it cannot take down sibling fetches.
func (l *Loader) fetchOne(ctx context.Context, req BatchRequest, timeout time.Duration) (entry BatchEntry) {
	entry = BatchEntry{Collection: req.Collection, Items: []model.Item{}}

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("batch fetch panicked",
				zap.String("collection", req.Collection),
				zap.Any("panic", r))
			entry.Error = "Could not load content. Please try again later."
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page, err := l.fetcher.GetAll(fetchCtx, req.Collection, req.Filter, content.ListOptions{
		Limit: req.Limit,
	})
	if err != nil {
		l.logger.Warn("batch fetch failed",
			zap.String("collection", req.Collection),
			zap.Error(err))
		entry.Error = userMessage(err)
		return entry
	}

	entry.Items = page.Items
	entry.HasNext = page.HasNext
	return entry
}
