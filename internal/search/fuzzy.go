// Package search implements case-insensitive fuzzy matching over catalog records.
package search

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/ukydev/yatra-planner/internal/models"
)

// DefaultMaxDistance is the edit distance FuzzySearch tolerates by default.
const DefaultMaxDistance = 2

// Levenshtein returns the edit distance between s1 and s2, ignoring case.
func Levenshtein(s1, s2 string) int {
	return levenshtein.ComputeDistance(strings.ToLower(s1), strings.ToLower(s2))
}

// Field extracts one searchable text field from a record.
type Field[T any] func(T) string

// Match is a search hit. Lower scores are better; 0 is a substring match.
type Match[T any] struct {
	Item  T   `json:"item"`
	Score int `json:"score"`
}

// FuzzySearch ranks items against query.
//
// A field containing the query scores 0 and ends the scan for that item.
// Otherwise each space-separated word of each field is compared with the query
// and the item keeps its smallest edit distance. Items scoring above
// maxDistance are dropped; the rest are returned best first, ties in input order.
// An empty query returns every item with score 0.
func FuzzySearch[T any](items []T, query string, fields []Field[T], maxDistance int) []Match[T] {
	if query == "" {
		out := make([]Match[T], len(items))
		for i, item := range items {
			out[i] = Match[T]{Item: item}
		}
		return out
	}

	q := strings.ToLower(query)
	out := make([]Match[T], 0, len(items))
	for _, item := range items {
		best := math.MaxInt
		for _, field := range fields {
			value := strings.ToLower(field(item))
			if strings.Contains(value, q) {
				best = 0
				break
			}
			for _, word := range strings.Split(value, " ") {
				if d := Levenshtein(q, word); d < best {
					best = d
				}
			}
		}
		if best <= maxDistance {
			out = append(out, Match[T]{Item: item, Score: best})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})
	return out
}

// DestinationFields are the searchable fields of a destination, by key.
var DestinationFields = map[string]Field[models.Destination]{
	"name":        func(d models.Destination) string { return d.Name },
	"location":    func(d models.Destination) string { return d.Location },
	"description": func(d models.Destination) string { return d.Description },
}

// DestinationKeys resolves field keys against DestinationFields.
// With no keys it returns the name and location fields.
func DestinationKeys(keys ...string) ([]Field[models.Destination], error) {
	if len(keys) == 0 {
		keys = []string{"name", "location"}
	}
	fields := make([]Field[models.Destination], 0, len(keys))
	for _, k := range keys {
		f, ok := DestinationFields[k]
		if !ok {
			return nil, fmt.Errorf("unknown search key %q", k)
		}
		fields = append(fields, f)
	}
	return fields, nil
}
