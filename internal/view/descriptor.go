// Package view computes the visible ordering and active selection for a
// curated shelf. All functions are pure: the snapshot is never mutated and
// no state is held between calls.
package view

import (
	"fmt"

	"github.com/nbamra/folio-bff/model"
)

// All is the sentinel filter value that leaves an attribute unconstrained.
const All = "All"

// Direction orders a sort ascending or descending.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortDirective names the ordinal to sort by and the direction.
type SortDirective struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Selection maps a categorical attribute to its chosen value, or All.
type Selection map[string]string

// Query is the full client input for one view computation.
type Query struct {
	Selection Selection
	Sort      *SortDirective
	ActiveID  string
}

// Descriptor declares, per shelf, which attributes may be filtered and
// which ordinals may be sorted. Pages configure the engine through this
// rather than re-implementing the pattern.
type Descriptor struct {
	ShelfID     string        `json:"shelfId"`
	Filterable  []string      `json:"filterable"`
	Sortable    []string      `json:"sortable"`
	DefaultSort SortDirective `json:"defaultSort"`
}

// ValidateQuery checks a query against the descriptor. Unknown attribute or
// sort keys are programmer errors and fail fast.
func (d Descriptor) ValidateQuery(q Query) error {
	for attr := range q.Selection {
		if !containsString(d.Filterable, attr) {
			return model.NewInvalidDirectiveError(
				fmt.Sprintf("shelf %q: attribute %q is not filterable", d.ShelfID, attr),
			)
		}
	}
	if q.Sort != nil {
		if !containsString(d.Sortable, q.Sort.Key) {
			return model.NewInvalidDirectiveError(
				fmt.Sprintf("shelf %q: ordinal %q is not sortable", d.ShelfID, q.Sort.Key),
			)
		}
		if q.Sort.Direction != Ascending && q.Sort.Direction != Descending {
			return model.NewInvalidDirectiveError(
				fmt.Sprintf("shelf %q: unknown sort direction %q", d.ShelfID, q.Sort.Direction),
			)
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
