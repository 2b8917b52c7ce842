package pgstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/query"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// Columns of a collection table as seen through the "d" alias.
const (
	docColumn = "d.doc"
	idColumn  = "d.id"
	seqColumn = "d.seq"
)

// sqlExpr is a SQL fragment with bun placeholders and the matching arguments.
type sqlExpr struct {
	sql  string
	args []any
}

// param is an argument placeholder inside build.
type param struct{ v any }

// build concatenates strings, nested expressions and params into one expression,
// keeping arguments in placeholder order.
func build(parts ...any) sqlExpr {
	var (
		sb   strings.Builder
		args []any
	)
	for _, part := range parts {
		switch p := part.(type) {
		case string:
			sb.WriteString(p)
		case sqlExpr:
			sb.WriteString(p.sql)
			args = append(args, p.args...)
		case param:
			sb.WriteString("?")
			args = append(args, p.v)
		}
	}
	return sqlExpr{sql: sb.String(), args: args}
}

func join(exprs []sqlExpr, sep string) sqlExpr {
	parts := make([]any, 0, 2*len(exprs))
	for i, e := range exprs {
		if i > 0 {
			parts = append(parts, sep)
		}
		parts = append(parts, e)
	}
	return build(parts...)
}

func path(k query.Key) param {
	return param{pgdialect.Array(k.Path())}
}

func jsonValue(v any) (param, error) {
	data, err := json.Marshal(query.Normalize(v))
	if err != nil {
		return param{}, errx.Wrap(err)
	}
	return param{string(data)}, nil
}

// valueAt is the JSON value at k, with missing fields read as JSON null.
func valueAt(k query.Key) sqlExpr {
	return build("COALESCE(", docColumn, " #> ", path(k), ", 'null'::jsonb)")
}

// filterSQL translates f into a boolean expression that never evaluates to NULL, so
// that NOT and the empty AND/OR match Filter.Match exactly.
func filterSQL(f query.Filter) (sqlExpr, error) {
	switch f.Op() {
	case query.OpAll:
		return build("TRUE"), nil

	case query.OpEq, query.OpNe:
		if id, ok := f.Value().(string); ok && f.Key() == query.IDKey {
			return build(idColumn, comparator(f.Op()), param{id}), nil
		}
		v, err := jsonValue(f.Value())
		if err != nil {
			return sqlExpr{}, err
		}
		return build(valueAt(f.Key()), comparator(f.Op()), v, "::jsonb"), nil

	case query.OpIn:
		if len(f.Values()) == 0 {
			return build("FALSE"), nil
		}
		items := make([]sqlExpr, 0, len(f.Values()))
		for _, candidate := range f.Values() {
			v, err := jsonValue(candidate)
			if err != nil {
				return sqlExpr{}, err
			}
			items = append(items, build(v, "::jsonb"))
		}
		return build(valueAt(f.Key()), " IN (", join(items, ", "), ")"), nil

	case query.OpExists:
		return build("(", docColumn, " #> ", path(f.Key()), " IS NOT NULL)"), nil

	case query.OpGt, query.OpGte, query.OpLt, query.OpLte:
		return orderSQL(f), nil

	case query.OpAnd, query.OpOr:
		if len(f.Children()) == 0 {
			if f.Op() == query.OpAnd {
				return build("TRUE"), nil
			}
			return build("FALSE"), nil
		}
		children := make([]sqlExpr, 0, len(f.Children()))
		for _, c := range f.Children() {
			e, err := filterSQL(c)
			if err != nil {
				return sqlExpr{}, err
			}
			children = append(children, build("(", e, ")"))
		}
		return join(children, " "+strings.ToUpper(string(f.Op()))+" "), nil

	case query.OpNot:
		if len(f.Children()) != 1 {
			return build("FALSE"), nil
		}
		e, err := filterSQL(f.Children()[0])
		if err != nil {
			return sqlExpr{}, err
		}
		return build("NOT (", e, ")"), nil

	default:
		return sqlExpr{}, errx.New(
			fmt.Sprintf("filter operator %q is not supported", f.Op()),
			errx.WithCode(query.CodeUnsupportedFilter),
			errx.WithType(errx.T_Validation),
		)
	}
}

func comparator(op query.Op) string {
	switch op {
	case query.OpNe:
		return " <> "
	case query.OpGt:
		return " > "
	case query.OpGte:
		return " >= "
	case query.OpLt:
		return " < "
	case query.OpLte:
		return " <= "
	default:
		return " = "
	}
}

// orderSQL compares only values of the same JSON type as the operand. CASE keeps the
// casts from running on values of another type.
func orderSQL(f query.Filter) sqlExpr {
	p := path(f.Key())
	cmp := comparator(f.Op())

	switch v := query.Normalize(f.Value()).(type) {
	case float64:
		return build("CASE WHEN jsonb_typeof(", docColumn, " #> ", p, ") = 'number' THEN (",
			docColumn, " #>> ", p, ")::numeric", cmp, param{v}, " ELSE FALSE END")
	case string:
		return build("CASE WHEN jsonb_typeof(", docColumn, " #> ", p, ") = 'string' THEN (",
			docColumn, " #>> ", p, `) COLLATE "C"`, cmp, param{v}, " ELSE FALSE END")
	case bool:
		return build("CASE WHEN jsonb_typeof(", docColumn, " #> ", p, ") = 'boolean' THEN (",
			docColumn, " #>> ", p, ")::boolean", cmp, param{v}, " ELSE FALSE END")
	default:
		return build("FALSE")
	}
}

// orderBy sorts by the value of sort.Key, then by insertion order. reverse flips the
// whole ordering and is used to find the last row.
func orderBy(q *bun.SelectQuery, sort *query.Sort, reverse bool) *bun.SelectQuery {
	seqDir := " ASC"
	if reverse {
		seqDir = " DESC"
	}

	if sort != nil {
		dir := " ASC"
		if sort.Direction.IsDescending() != reverse {
			dir = " DESC"
		}
		for _, key := range orderKeys(sort.Key) {
			q = q.OrderExpr(key.sql+dir, key.args...)
		}
	}
	return q.OrderExpr(seqColumn + seqDir)
}

// orderKeys are the ORDER BY expressions sorting values at k like query.Compare: first
// by JSON type (missing and null, number, string, object, array, boolean), then by
// value within the type. Strings compare bytewise. Objects tie. Arrays follow jsonb
// ordering, which compares lengths before elements.
func orderKeys(k query.Key) []sqlExpr {
	p := path(k)
	value := build(docColumn, " #> ", p)
	text := build(docColumn, " #>> ", p)

	return []sqlExpr{
		build("CASE jsonb_typeof(", value, ") WHEN 'number' THEN 1 WHEN 'string' THEN 2",
			" WHEN 'object' THEN 3 WHEN 'array' THEN 4 WHEN 'boolean' THEN 5 ELSE 0 END"),
		typed(value, "number", build("(", text, ")::numeric")),
		build("(", typed(value, "string", text), `) COLLATE "C"`),
		typed(value, "boolean", build("(", text, ")::boolean")),
		typed(value, "array", value),
	}
}

// typed evaluates to then when value has JSON type typ, and to NULL otherwise.
func typed(value sqlExpr, typ string, then sqlExpr) sqlExpr {
	return build("CASE WHEN jsonb_typeof(", value, ") = '", typ, "' THEN ", then, " END")
}

// updateSQL returns one "doc = ..." assignment per update operation. They are run as
// separate statements in a single transaction so that each one reads the result of
// the previous.
func updateSQL(u query.Update) ([]sqlExpr, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	sets := make([]sqlExpr, 0, len(u.Ops()))
	for _, op := range u.Ops() {
		switch op.Op {
		case query.UpdateSet:
			v, err := jsonValue(op.Value)
			if err != nil {
				return nil, err
			}
			sets = append(sets, build("doc = ", setAt(op.Key, build(v, "::jsonb"))))

		case query.UpdateUnset:
			sets = append(sets, build("doc = ", docColumn, " #- ", path(op.Key)))

		case query.UpdateInc:
			v, err := jsonValue(op.Value)
			if err != nil {
				return nil, err
			}
			sets = append(sets, build("doc = ", setAt(op.Key, incremented(op.Key, v))))
		}
	}
	return sets, nil
}

// setAt stores value at k, replacing missing or non object parents by empty objects.
func setAt(k query.Key, value sqlExpr) sqlExpr {
	segments := k.Path()
	doc := build(docColumn)
	for i := 1; i < len(segments); i++ {
		prefix := param{pgdialect.Array(segments[:i])}
		doc = build("CASE WHEN jsonb_typeof(", doc, " #> ", prefix, ") = 'object' THEN ", doc,
			" ELSE jsonb_set(", doc, ", ", prefix, ", '{}'::jsonb) END")
	}
	return build("jsonb_set(", doc, ", ", path(k), ", ", value, ", true)")
}

// incremented adds delta to the number at k. Missing and null fields count as zero.
// Any other non number fails the numeric cast with invalid_text_representation.
func incremented(k query.Key, delta param) sqlExpr {
	current := build(docColumn, " #> ", path(k))
	text := build(docColumn, " #>> ", path(k))
	return build(
		"to_jsonb(CASE WHEN ", current, " IS NULL OR jsonb_typeof(", current, ") = 'null' THEN 0",
		" WHEN jsonb_typeof(", current, ") = 'number' THEN (", text, ")::numeric",
		" ELSE ('x' || (", text, "))::numeric END + (", delta, ")::numeric)",
	)
}
