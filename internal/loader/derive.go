package loader

import (
	"math"
	"sort"
	"time"

	"github.com/nbamra/folio-bff/model"
)

// startDateLayouts are tried in order when parsing a date field. Content
// editors have used all of these.
var startDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006",
}

// SortByStartDate orders items by a date field, most recent first. The
// sort is stable via an original-index tiebreak. Items with a missing or
// unparsable date are treated as the oldest, never dropped.
func SortByStartDate(items []model.Item, field string) []model.Item {
	type decorated struct {
		item  model.Item
		when  int64
		index int
	}

	dec := make([]decorated, len(items))
	for i, it := range items {
		dec[i] = decorated{item: it, when: parseStartDate(model.ItemString(it, field)), index: i}
	}

	sort.Slice(dec, func(i, j int) bool {
		if dec[i].when != dec[j].when {
			return dec[i].when > dec[j].when
		}
		return dec[i].index < dec[j].index
	})

	out := make([]model.Item, len(dec))
	for i, d := range dec {
		out[i] = d.item
	}
	return out
}

// parseStartDate maps missing and unparsable dates to the lowest possible
// key so they rank as older than any real date, pre-1970 ones included.
func parseStartDate(raw string) int64 {
	if raw == "" {
		return math.MinInt64
	}
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Unix()
		}
	}
	return math.MinInt64
}

// Grouped holds category groups in first-seen key order. Members keep
// their relative order from the source sequence.
type Grouped struct {
	Keys   []string                `json:"keys"`
	Groups map[string][]model.Item `json:"groups"`
}

// GroupByCategory buckets items by a string field. Items without the
// field fall into defaultKey.
func GroupByCategory(items []model.Item, field, defaultKey string) Grouped {
	g := Grouped{Groups: make(map[string][]model.Item)}
	for _, it := range items {
		key := model.ItemString(it, field)
		if key == "" {
			key = defaultKey
		}
		if _, seen := g.Groups[key]; !seen {
			g.Keys = append(g.Keys, key)
		}
		g.Groups[key] = append(g.Groups[key], it)
	}
	return g
}
