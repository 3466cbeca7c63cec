// Package loader accumulates paged results from remote collections and
// exposes loading, error, and has-more status. It is the only writer of
// that state; everything downstream just reads snapshots.
package loader

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/nbamra/folio-bff/internal/content"
	"github.com/nbamra/folio-bff/model"
)

// PageState is the accumulated view of one remote collection. Fetch
// failures surface through LastError; they never propagate as errors.
type PageState struct {
	Records   []model.Item `json:"records"`
	HasMore   bool         `json:"hasMore"`
	IsLoading bool         `json:"isLoading"`
	LastError string       `json:"lastError,omitempty"`
}

type collectionState struct {
	PageState
	epoch uint64
}

// Loader owns per-collection page state. All state transitions happen
// under the mutex; fetches run outside it.
type Loader struct {
	fetcher content.Fetcher
	logger  *zap.Logger

	mu     sync.Mutex
	states map[string]*collectionState
}

// New creates a Loader backed by the given content fetcher.
func New(fetcher content.Fetcher, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		fetcher: fetcher,
		logger:  logger,
		states:  make(map[string]*collectionState),
	}
}

// State returns a copy of the current page state for a collection.
func (l *Loader) State(collection string) PageState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked(collection).PageState
}

// LoadInitial fetches the first page, replacing whatever was accumulated.
// On failure the records stay empty and LastError carries the message.
func (l *Loader) LoadInitial(ctx context.Context, collection string, pageSize int) PageState {
	l.mu.Lock()
	st := l.stateLocked(collection)
	if st.IsLoading {
		snapshot := st.PageState
		l.mu.Unlock()
		return snapshot
	}
	st.IsLoading = true
	epoch := st.epoch
	l.mu.Unlock()

	page, err := l.fetcher.GetAll(ctx, collection, nil, content.ListOptions{Limit: pageSize})

	l.mu.Lock()
	defer l.mu.Unlock()
	st = l.stateLocked(collection)
	defer l.clearLoadingLocked(st, epoch)

	if st.epoch != epoch {
		l.logger.Debug("discarding stale initial load",
			zap.String("collection", collection))
		return st.PageState
	}

	if err != nil {
		l.logger.Warn("initial load failed",
			zap.String("collection", collection),
			zap.Error(err))
		st.Records = []model.Item{}
		st.HasMore = false
		st.LastError = userMessage(err)
		return st.PageState
	}

	st.Records = page.Items
	st.HasMore = page.HasNext
	st.LastError = ""
	return st.PageState
}

// LoadMore fetches the next page and appends it. The IsLoading flag is
// checked synchronously under the lock, so two concurrent calls cannot
// both fetch the same offset; the second is a no-op returning the current
// state.
func (l *Loader) LoadMore(ctx context.Context, collection string, pageSize int) PageState {
	l.mu.Lock()
	st := l.stateLocked(collection)
	if st.IsLoading {
		snapshot := st.PageState
		l.mu.Unlock()
		return snapshot
	}
	st.IsLoading = true
	epoch := st.epoch
	skip := len(st.Records)
	l.mu.Unlock()

	page, err := l.fetcher.GetAll(ctx, collection, nil, content.ListOptions{
		Limit: pageSize,
		Skip:  skip,
	})

	l.mu.Lock()
	defer l.mu.Unlock()
	st = l.stateLocked(collection)
	defer l.clearLoadingLocked(st, epoch)

	if st.epoch != epoch {
		l.logger.Debug("discarding stale load-more response",
			zap.String("collection", collection))
		return st.PageState
	}

	if err != nil {
		l.logger.Warn("load more failed",
			zap.String("collection", collection),
			zap.Int("skip", skip),
			zap.Error(err))
		st.LastError = userMessage(err)
		return st.PageState
	}

	st.Records = append(st.Records, page.Items...)
	st.HasMore = page.HasNext
	st.LastError = ""
	return st.PageState
}

// Reset discards a collection's accumulated state and bumps its epoch so
// any response still in flight is dropped instead of overwriting fresh
// state.
func (l *Loader) Reset(collection string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.stateLocked(collection)
	st.epoch++
	st.PageState = PageState{}
}

// stateLocked returns the state for a collection, creating it on first
// use. Caller must hold the lock.
func (l *Loader) stateLocked(collection string) *collectionState {
	st, ok := l.states[collection]
	if !ok {
		st = &collectionState{}
		l.states[collection] = st
	}
	return st
}

// clearLoadingLocked drops the loading flag for the epoch that set it.
// Runs deferred so the flag is cleared on every exit path and the UI can
// never be stuck on "loading". Caller must hold the lock.
func (l *Loader) clearLoadingLocked(st *collectionState, epoch uint64) {
	if st.epoch == epoch {
		st.IsLoading = false
	}
}

// userMessage extracts the client-facing message from a loader failure.
func userMessage(err error) string {
	var envelope *model.ErrorEnvelope
	if errors.As(err, &envelope) {
		return envelope.Message
	}
	return "Could not load content. Please try again later."
}
