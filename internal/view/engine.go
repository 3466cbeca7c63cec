package view

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nbamra/folio-bff/model"
)

// Result is one computed view over a shelf snapshot.
type Result struct {
	Records []model.Record `json:"records"`
	Active  *model.Record  `json:"active,omitempty"`
	Total   int            `json:"total"`
	Visible int            `json:"visible"`
}

// ApplyFilters keeps the records matching every non-All selection,
// composed with AND. A record matches an attribute when its value set
// contains the selected value. An empty result is valid and distinct from
// "not loaded". A selection naming an attribute no record carries is a
// programmer error.
func ApplyFilters(snapshot model.Snapshot, sel Selection) ([]model.Record, error) {
	active := make(Selection, len(sel))
	for attr, value := range sel {
		if value == All || value == "" {
			continue
		}
		if !snapshotHasAttribute(snapshot, attr) {
			return nil, model.NewInvalidDirectiveError(
				fmt.Sprintf("unknown filter attribute %q", attr),
			)
		}
		active[attr] = value
	}

	out := make([]model.Record, 0, len(snapshot))
	for _, rec := range snapshot {
		matched := true
		for attr, value := range active {
			if !rec.HasAttribute(attr, value) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ApplySort orders records by one ordinal. The sort is stable: records are
// decorated with their original index, which breaks ties regardless of
// direction. A record missing the ordinal sorts as the lowest value.
func ApplySort(records []model.Record, directive SortDirective) ([]model.Record, error) {
	if len(records) > 0 && !recordsHaveOrdinal(records, directive.Key) {
		return nil, model.NewInvalidDirectiveError(
			fmt.Sprintf("unknown sort ordinal %q", directive.Key),
		)
	}

	type decorated struct {
		rec   model.Record
		key   float64
		index int
	}
	dec := make([]decorated, len(records))
	for i, rec := range records {
		key, ok := rec.Ordinals[directive.Key]
		if !ok {
			key = math.Inf(-1)
		}
		dec[i] = decorated{rec: rec, key: key, index: i}
	}

	desc := directive.Direction == Descending
	sort.Slice(dec, func(i, j int) bool {
		if dec[i].key != dec[j].key {
			if desc {
				return dec[i].key > dec[j].key
			}
			return dec[i].key < dec[j].key
		}
		return dec[i].index < dec[j].index
	})

	out := make([]model.Record, len(dec))
	for i, d := range dec {
		out[i] = d.rec
	}
	return out, nil
}

// FilterValues returns the distinct values a snapshot carries for one
// attribute, ordered case-insensitively, with the All sentinel first.
func FilterValues(snapshot model.Snapshot, attribute string) ([]string, error) {
	if !snapshotHasAttribute(snapshot, attribute) {
		return nil, model.NewInvalidDirectiveError(
			fmt.Sprintf("unknown filter attribute %q", attribute),
		)
	}

	seen := make(map[string]struct{})
	var values []string
	for _, rec := range snapshot {
		for _, v := range rec.Attributes[attribute] {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
	}

	sort.Slice(values, func(i, j int) bool {
		li, lj := strings.ToLower(values[i]), strings.ToLower(values[j])
		if li != lj {
			return li < lj
		}
		return values[i] < values[j]
	})

	return append([]string{All}, values...), nil
}

// ResolveActive returns the record matching requestedID if it is still in
// the ordered list, the first record otherwise, or nil when the list is
// empty. The active selection is not sticky across a result set that no
// longer contains it.
func ResolveActive(records []model.Record, requestedID string) *model.Record {
	if len(records) == 0 {
		return nil
	}
	if requestedID != "" {
		for i := range records {
			if records[i].ID == requestedID {
				return &records[i]
			}
		}
	}
	return &records[0]
}

// Compute runs the full pipeline for one query: validate against the
// descriptor, filter, sort, and resolve the active record.
func Compute(snapshot model.Snapshot, d Descriptor, q Query) (Result, error) {
	if err := d.ValidateQuery(q); err != nil {
		return Result{}, err
	}

	filtered, err := ApplyFilters(snapshot, q.Selection)
	if err != nil {
		return Result{}, err
	}

	directive := d.DefaultSort
	if q.Sort != nil {
		directive = *q.Sort
	}
	ordered := filtered
	if directive.Key != "" {
		ordered, err = ApplySort(filtered, directive)
		if err != nil {
			return Result{}, err
		}
	}

	return Result{
		Records: ordered,
		Active:  ResolveActive(ordered, q.ActiveID),
		Total:   len(snapshot),
		Visible: len(ordered),
	}, nil
}

func snapshotHasAttribute(snapshot model.Snapshot, attribute string) bool {
	for _, rec := range snapshot {
		if _, ok := rec.Attributes[attribute]; ok {
			return true
		}
	}
	return false
}

func recordsHaveOrdinal(records []model.Record, key string) bool {
	for _, rec := range records {
		if _, ok := rec.Ordinals[key]; ok {
			return true
		}
	}
	return false
}
