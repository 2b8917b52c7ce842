package pgstore

import (
	"strings"
	"testing"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/schema"
)

func format(e sqlExpr) string {
	return schema.NewFormatter(pgdialect.New()).FormatQuery(e.sql, e.args...)
}

func TestFilterSQL(t *testing.T) {
	testCases := []struct {
		name     string
		filter   query.Filter
		contains []string
		exact    string
	}{
		{name: "all", filter: query.All(), exact: "TRUE"},
		{name: "zero filter", filter: query.Filter{}, exact: "TRUE"},
		{name: "id uses the key column", filter: query.ID("a"), exact: "d.id = 'a'"},
		{name: "id not equal", filter: query.Ne("id", "a"), exact: "d.id <> 'a'"},
		{
			name:     "equal number",
			filter:   query.Eq("rank", 2),
			contains: []string{"COALESCE(d.doc #> ", ", 'null'::jsonb) = '2'::jsonb"},
		},
		{
			name:     "equal null matches missing",
			filter:   query.Eq("deleted_at", nil),
			contains: []string{"'null'::jsonb) = 'null'::jsonb"},
		},
		{
			name:     "not equal string",
			filter:   query.Ne("name", "x"),
			contains: []string{`'null'::jsonb) <> '"x"'::jsonb`},
		},
		{
			name:     "in",
			filter:   query.In("group", "x", "y"),
			contains: []string{`IN ('"x"'::jsonb, '"y"'::jsonb)`},
		},
		{name: "empty in", filter: query.In("group"), exact: "FALSE"},
		{name: "exists", filter: query.Exists("name"), contains: []string{"(d.doc #> ", " IS NOT NULL)"}},
		{
			name:     "greater than number",
			filter:   query.Gt("rank", 2),
			contains: []string{"= 'number' THEN (d.doc #>> ", ")::numeric > ", " ELSE FALSE END"},
		},
		{
			name:     "less than string compares bytes",
			filter:   query.Lt("name", "m"),
			contains: []string{"= 'string' THEN", `COLLATE "C" < 'm'`},
		},
		{name: "ordering against null", filter: query.Gte("rank", nil), exact: "FALSE"},
		{name: "empty and", filter: query.And(), exact: "TRUE"},
		{name: "empty or", filter: query.Or(), exact: "FALSE"},
		{
			name:     "and",
			filter:   query.And(query.ID("a"), query.Exists("name")),
			contains: []string{"(d.id = 'a') AND ((d.doc #> "},
		},
		{
			name:   "or",
			filter: query.Or(query.ID("a"), query.ID("b")),
			exact:  "(d.id = 'a') OR (d.id = 'b')",
		},
		{name: "not", filter: query.Not(query.ID("a")), exact: "NOT (d.id = 'a')"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e, err := filterSQL(tc.filter)
			require.NoError(t, err)
			assert.Equal(t, strings.Count(e.sql, "?"), len(e.args))

			got := format(e)
			if tc.exact != "" {
				assert.Equal(t, tc.exact, got)
			}
			for _, fragment := range tc.contains {
				assert.Contains(t, got, fragment)
			}
		})
	}
}

func TestUpdateSQL(t *testing.T) {
	sets, err := updateSQL(query.Set("name", "x").Set("address.city", "y").Unset("tags").Inc("rank", 1))
	require.NoError(t, err)
	require.Len(t, sets, 4)

	for _, s := range sets {
		assert.Equal(t, strings.Count(s.sql, "?"), len(s.args))
		assert.True(t, strings.HasPrefix(s.sql, "doc = "))
	}

	assert.Contains(t, format(sets[0]), `'"x"'::jsonb, true)`)
	assert.Contains(t, format(sets[1]), "CASE WHEN jsonb_typeof(d.doc #> ")
	assert.Contains(t, format(sets[1]), "'{}'::jsonb")
	assert.Contains(t, format(sets[2]), "doc = d.doc #- ")
	assert.Contains(t, format(sets[3]), "to_jsonb(CASE WHEN ")
	assert.Contains(t, format(sets[3]), "+ ('1')::numeric)")
}

func TestUpdateSQLRejectsInvalidUpdates(t *testing.T) {
	_, err := updateSQL(query.Set("id", "b"))
	require.Error(t, err)
	assert.Equal(t, query.CodeImmutableField, errx.AsErrorX(err).Code())

	_, err = updateSQL(query.Inc("rank", "one"))
	require.Error(t, err)
	assert.Equal(t, query.CodeNotNumeric, errx.AsErrorX(err).Code())
}

func TestOrderKeys(t *testing.T) {
	keys := orderKeys("name")
	require.Len(t, keys, 5)

	testCases := []struct {
		name     string
		key      sqlExpr
		contains []string
	}{
		{
			name: "type rank",
			key:  keys[0],
			contains: []string{
				"CASE jsonb_typeof(d.doc #> ",
				"WHEN 'number' THEN 1 WHEN 'string' THEN 2",
				"WHEN 'boolean' THEN 5 ELSE 0 END",
			},
		},
		{name: "numbers", key: keys[1], contains: []string{"= 'number' THEN (d.doc #>> ", ")::numeric END"}},
		{name: "strings bytewise", key: keys[2], contains: []string{"= 'string' THEN d.doc #>> ", " END) COLLATE \"C\""}},
		{name: "booleans", key: keys[3], contains: []string{"= 'boolean' THEN (d.doc #>> ", ")::boolean END"}},
		{name: "arrays", key: keys[4], contains: []string{"= 'array' THEN d.doc #> ", " END"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := format(tc.key)
			for _, c := range tc.contains {
				assert.Contains(t, got, c)
			}
		})
	}
}
