package catalog

import (
	"errors"
	"testing"

	"github.com/nbamra/folio-bff/internal/view"
	"github.com/nbamra/folio-bff/model"
)

func TestRegistry_bundledShelves(t *testing.T) {
	r := NewRegistry()

	want := []string{"albums", "books", "movies"}
	got := r.IDs()
	if len(got) != len(want) {
		t.Fatalf("IDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("IDs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_getUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("podcasts")
	if err == nil {
		t.Fatal("expected error for unknown shelf")
	}
	var envelope *model.ErrorEnvelope
	if !errors.As(err, &envelope) || envelope.Code != model.ErrNotFound {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

// Every descriptor must be answerable by its own snapshot: each declared
// filterable attribute and sortable ordinal appears on at least one
// record, and the default sort is itself declared sortable.
func TestShelves_descriptorsMatchSnapshots(t *testing.T) {
	r := NewRegistry()

	for _, id := range r.IDs() {
		shelf, err := r.Get(id)
		if err != nil {
			t.Fatalf("Get(%q): %v", id, err)
		}

		for _, attr := range shelf.Descriptor.Filterable {
			if _, err := view.FilterValues(shelf.Snapshot, attr); err != nil {
				t.Errorf("shelf %q: filterable attribute %q unusable: %v", id, attr, err)
			}
		}
		for _, key := range shelf.Descriptor.Sortable {
			directive := view.SortDirective{Key: key, Direction: view.Ascending}
			if _, err := view.ApplySort(shelf.Snapshot, directive); err != nil {
				t.Errorf("shelf %q: sortable ordinal %q unusable: %v", id, key, err)
			}
		}

		defaultKey := shelf.Descriptor.DefaultSort.Key
		found := false
		for _, key := range shelf.Descriptor.Sortable {
			if key == defaultKey {
				found = true
			}
		}
		if !found {
			t.Errorf("shelf %q: default sort %q not in sortable set", id, defaultKey)
		}
	}
}

func TestShelves_uniqueIDs(t *testing.T) {
	r := NewRegistry()

	for _, id := range r.IDs() {
		shelf, _ := r.Get(id)
		seen := make(map[string]bool)
		for _, rec := range shelf.Snapshot {
			if rec.ID == "" {
				t.Errorf("shelf %q has a record with empty id", id)
			}
			if seen[rec.ID] {
				t.Errorf("shelf %q has duplicate record id %q", id, rec.ID)
			}
			seen[rec.ID] = true
		}
	}
}

func TestStaticWorkHistory(t *testing.T) {
	items := StaticWorkHistory()
	if len(items) == 0 {
		t.Fatal("static work history must not be empty")
	}
	for _, it := range items {
		if model.ItemID(it) == "" {
			t.Error("work item missing _id")
		}
		if model.ItemString(it, "startDate") == "" {
			t.Errorf("work item %q missing startDate", model.ItemID(it))
		}
	}
}
