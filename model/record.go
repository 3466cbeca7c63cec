// Package model holds the shared domain types for the portfolio BFF:
// curated shelf records, raw content API items, the request context, and
// the error envelope returned to clients.
package model

// Record is one item on a curated shelf (a movie, book, or album review).
// Attributes hold the categorical values used for equality filtering; a
// record may carry several values for one attribute (a movie with two
// genres). Ordinals hold the sortable values (year, rating). Payload is
// the opaque display content the engine never inspects.
type Record struct {
	ID         string              `json:"id"`
	Attributes map[string][]string `json:"attributes,omitempty"`
	Ordinals   map[string]float64  `json:"ordinals,omitempty"`
	Payload    map[string]any      `json:"payload,omitempty"`
}

// HasAttribute reports whether the record carries the given value for a
// categorical attribute.
func (r Record) HasAttribute(name, value string) bool {
	for _, v := range r.Attributes[name] {
		if v == value {
			return true
		}
	}
	return false
}

// Snapshot is the fixed, ordered record list a shelf renders from. It is
// immutable for the lifetime of the shelf; the view engine only reads it.
type Snapshot []Record

// Item is a raw item from a remote content collection. The content API is
// schemaless from our side; items are keyed maps with an "_id" field.
type Item map[string]any

// ItemID returns the item's "_id" field, or "" if absent.
func ItemID(it Item) string {
	id, _ := it["_id"].(string)
	return id
}

// ItemString returns a string field from the item, or "" if absent or not
// a string.
func ItemString(it Item, key string) string {
	s, _ := it[key].(string)
	return s
}
