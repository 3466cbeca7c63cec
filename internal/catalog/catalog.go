// Package catalog bundles the curated shelf data the service renders
// without any remote dependency: the review shelves (movies, books,
// albums) with their view descriptors, and the static work-history
// default used when the content service cannot be reached.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/nbamra/folio-bff/internal/view"
	"github.com/nbamra/folio-bff/model"
)

// Shelf pairs a snapshot with the descriptor that governs its views.
type Shelf struct {
	Descriptor view.Descriptor
	Snapshot   model.Snapshot
}

// Registry holds the configured shelves, keyed by shelf ID.
type Registry struct {
	mu      sync.RWMutex
	shelves map[string]Shelf
}

// NewRegistry creates a registry pre-populated with the bundled shelves.
func NewRegistry() *Registry {
	r := &Registry{shelves: make(map[string]Shelf)}
	r.Register(movieShelf())
	r.Register(bookShelf())
	r.Register(albumShelf())
	return r
}

// Register adds or replaces a shelf.
func (r *Registry) Register(s Shelf) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shelves[s.Descriptor.ShelfID] = s
}

// Get returns a shelf by ID.
func (r *Registry) Get(shelfID string) (Shelf, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.shelves[shelfID]
	if !ok {
		return Shelf{}, model.NewNotFoundError(fmt.Sprintf("shelf %q not found", shelfID))
	}
	return s, nil
}

// IDs returns the registered shelf IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.shelves))
	for id := range r.shelves {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
