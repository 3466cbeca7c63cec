package loader

import (
	"reflect"
	"testing"

	"github.com/nbamra/folio-bff/model"
)

func itemIDs(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = model.ItemID(it)
	}
	return out
}

func TestSortByStartDate_mostRecentFirst(t *testing.T) {
	items := []model.Item{
		{"_id": "mid", "startDate": "2019-06-01"},
		{"_id": "old", "startDate": "2015-01-01"},
		{"_id": "new", "startDate": "2023-03-01"},
	}

	got := SortByStartDate(items, "startDate")
	want := []string{"new", "mid", "old"}
	if !reflect.DeepEqual(itemIDs(got), want) {
		t.Errorf("order = %v, want %v", itemIDs(got), want)
	}
}

func TestSortByStartDate_missingDateIsOldestNeverDropped(t *testing.T) {
	items := []model.Item{
		{"_id": "undated-1"},
		{"_id": "dated", "startDate": "2020-01-01"},
		{"_id": "undated-2", "startDate": "sometime"},
	}

	got := SortByStartDate(items, "startDate")
	want := []string{"dated", "undated-1", "undated-2"}
	if !reflect.DeepEqual(itemIDs(got), want) {
		t.Errorf("order = %v, want %v", itemIDs(got), want)
	}
}

func TestSortByStartDate_missingDateRanksBelowPre1970Dates(t *testing.T) {
	items := []model.Item{
		{"_id": "undated"},
		{"_id": "sixties", "startDate": "1969-06-01"},
		{"_id": "recent", "startDate": "2020-01-01"},
	}

	got := SortByStartDate(items, "startDate")
	want := []string{"recent", "sixties", "undated"}
	if !reflect.DeepEqual(itemIDs(got), want) {
		t.Errorf("order = %v, want %v", itemIDs(got), want)
	}
}

func TestSortByStartDate_stableOnEqualDates(t *testing.T) {
	items := []model.Item{
		{"_id": "a", "startDate": "2020-01"},
		{"_id": "b", "startDate": "2020-01"},
		{"_id": "c", "startDate": "2020-01"},
	}

	got := SortByStartDate(items, "startDate")
	if !reflect.DeepEqual(itemIDs(got), []string{"a", "b", "c"}) {
		t.Errorf("equal dates reordered: %v", itemIDs(got))
	}
}

func TestSortByStartDate_acceptsMultipleLayouts(t *testing.T) {
	items := []model.Item{
		{"_id": "year-only", "startDate": "2018"},
		{"_id": "full", "startDate": "2021-09-15T00:00:00Z"},
		{"_id": "month", "startDate": "2019-04"},
	}

	got := SortByStartDate(items, "startDate")
	want := []string{"full", "month", "year-only"}
	if !reflect.DeepEqual(itemIDs(got), want) {
		t.Errorf("order = %v, want %v", itemIDs(got), want)
	}
}

func TestGroupByCategory_firstSeenOrder(t *testing.T) {
	items := []model.Item{
		{"_id": "s1", "category": "A"},
		{"_id": "s2"},
		{"_id": "s3", "category": "A"},
	}

	got := GroupByCategory(items, "category", "Other")
	if !reflect.DeepEqual(got.Keys, []string{"A", "Other"}) {
		t.Errorf("keys = %v, want [A Other]", got.Keys)
	}
	if !reflect.DeepEqual(itemIDs(got.Groups["A"]), []string{"s1", "s3"}) {
		t.Errorf("group A = %v, want [s1 s3] in source order", itemIDs(got.Groups["A"]))
	}
	if !reflect.DeepEqual(itemIDs(got.Groups["Other"]), []string{"s2"}) {
		t.Errorf("group Other = %v, want [s2]", itemIDs(got.Groups["Other"]))
	}
}

func TestGroupByCategory_empty(t *testing.T) {
	got := GroupByCategory(nil, "category", "Other")
	if len(got.Keys) != 0 || len(got.Groups) != 0 {
		t.Errorf("got %+v, want empty grouping", got)
	}
}
