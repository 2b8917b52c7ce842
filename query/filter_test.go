package query_test

import (
	"testing"

	"github.com/rise-and-shine/docrepo/query"
	"github.com/stretchr/testify/assert"
)

func TestFilterMatch(t *testing.T) {
	doc := query.Document{
		"id":     "a",
		"name":   "alice",
		"age":    float64(30),
		"active": true,
		"nick":   nil,
		"address": map[string]any{
			"city": "Tashkent",
		},
	}

	tests := []struct {
		name     string
		filter   query.Filter
		expected bool
	}{
		{name: "zero value matches", filter: query.Filter{}, expected: true},
		{name: "all", filter: query.All(), expected: true},
		{name: "id", filter: query.ID("a"), expected: true},
		{name: "id mismatch", filter: query.ID("b"), expected: false},
		{name: "eq string", filter: query.Eq("name", "alice"), expected: true},
		{name: "eq int against float", filter: query.Eq("age", 30), expected: true},
		{name: "eq nested", filter: query.Eq("address.city", "Tashkent"), expected: true},
		{name: "eq missing equals nil", filter: query.Eq("missing", nil), expected: true},
		{name: "ne", filter: query.Ne("name", "bob"), expected: true},
		{name: "gt", filter: query.Gt("age", 29), expected: true},
		{name: "gt equal", filter: query.Gt("age", 30), expected: false},
		{name: "gte", filter: query.Gte("age", 30), expected: true},
		{name: "lt", filter: query.Lt("age", 31.5), expected: true},
		{name: "lte", filter: query.Lte("age", 29), expected: false},
		{name: "gt across kinds", filter: query.Gt("name", 1), expected: false},
		{name: "gt missing", filter: query.Gt("missing", 1), expected: false},
		{name: "string order", filter: query.Lt("name", "bob"), expected: true},
		{name: "in", filter: query.In("name", "bob", "alice"), expected: true},
		{name: "in miss", filter: query.In("name", "bob"), expected: false},
		{name: "exists", filter: query.Exists("nick"), expected: true},
		{name: "exists missing", filter: query.Exists("missing"), expected: false},
		{
			name:     "and",
			filter:   query.And(query.Eq("active", true), query.Gte("age", 18)),
			expected: true,
		},
		{name: "empty and", filter: query.And(), expected: true},
		{
			name:     "or",
			filter:   query.Or(query.Eq("name", "bob"), query.Eq("age", 30)),
			expected: true,
		},
		{name: "empty or", filter: query.Or(), expected: false},
		{name: "not", filter: query.Not(query.Eq("active", true)), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Match(doc))
		})
	}
}

func TestFilterBuilder(t *testing.T) {
	b := query.NewFilterBuilder("users")

	assert.Equal(t, "users", b.Collection())
	assert.Equal(t, query.Eq("age", 1), b.Eq("age", 1))
	assert.Equal(t, query.OpAll, query.Filter{}.Op())
	assert.Equal(t, query.F[int]("age").Eq(3), b.Eq("age", 3))
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		a, b     any
		expected int
	}{
		{name: "numbers", a: 1, b: 2.5, expected: -1},
		{name: "equal numbers", a: int64(2), b: float64(2), expected: 0},
		{name: "strings", a: "b", b: "a", expected: 1},
		{name: "null before number", a: nil, b: 0, expected: -1},
		{name: "number before string", a: 100, b: "1", expected: -1},
		{name: "bools", a: false, b: true, expected: -1},
		{name: "arrays", a: []any{1, 2}, b: []any{1, 3}, expected: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, query.Compare(tt.a, tt.b))
		})
	}
}
