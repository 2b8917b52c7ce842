package query

import "github.com/samber/lo"

// Op names a filter operator.
type Op string

const (
	OpAll    Op = "all"
	OpEq     Op = "eq"
	OpNe     Op = "ne"
	OpGt     Op = "gt"
	OpGte    Op = "gte"
	OpLt     Op = "lt"
	OpLte    Op = "lte"
	OpIn     Op = "in"
	OpExists Op = "exists"
	OpAnd    Op = "and"
	OpOr     Op = "or"
	OpNot    Op = "not"
)

// Filter is a predicate over documents. The zero value matches every document.
type Filter struct {
	op       Op
	key      Key
	value    any
	values   []any
	children []Filter
}

// All matches every document.
func All() Filter { return Filter{op: OpAll} }

// ID matches the document with the given identifier.
func ID(id string) Filter { return Eq(IDKey, id) }

// Eq matches documents whose field equals v. A missing field equals nil.
func Eq(key Key, v any) Filter { return Filter{op: OpEq, key: key, value: v} }

// Ne matches documents whose field does not equal v.
func Ne(key Key, v any) Filter { return Filter{op: OpNe, key: key, value: v} }

// Gt matches documents whose field is greater than v.
func Gt(key Key, v any) Filter { return Filter{op: OpGt, key: key, value: v} }

// Gte matches documents whose field is greater than or equal to v.
func Gte(key Key, v any) Filter { return Filter{op: OpGte, key: key, value: v} }

// Lt matches documents whose field is less than v.
func Lt(key Key, v any) Filter { return Filter{op: OpLt, key: key, value: v} }

// Lte matches documents whose field is less than or equal to v.
func Lte(key Key, v any) Filter { return Filter{op: OpLte, key: key, value: v} }

// In matches documents whose field equals any of vs.
func In(key Key, vs ...any) Filter { return Filter{op: OpIn, key: key, values: vs} }

// Exists matches documents that have the field set, even to null.
func Exists(key Key) Filter { return Filter{op: OpExists, key: key} }

// And matches documents matched by every filter. An empty And matches everything.
func And(fs ...Filter) Filter { return Filter{op: OpAnd, children: fs} }

// Or matches documents matched by at least one filter. An empty Or matches nothing.
func Or(fs ...Filter) Filter { return Filter{op: OpOr, children: fs} }

// Not negates f.
func Not(f Filter) Filter { return Filter{op: OpNot, children: []Filter{f}} }

// Op returns the operator. The zero Filter reports OpAll.
func (f Filter) Op() Op {
	if f.op == "" {
		return OpAll
	}
	return f.op
}

// Key returns the field the operator applies to.
func (f Filter) Key() Key { return f.key }

// Value returns the operand of comparison operators.
func (f Filter) Value() any { return f.value }

// Values returns the operands of In.
func (f Filter) Values() []any { return f.values }

// Children returns the operands of And, Or and Not.
func (f Filter) Children() []Filter { return f.children }

// Match reports whether doc satisfies the filter.
func (f Filter) Match(doc Document) bool {
	switch f.Op() {
	case OpAll:
		return true
	case OpEq:
		v, _ := doc.Lookup(f.key)
		return Equal(v, f.value)
	case OpNe:
		v, _ := doc.Lookup(f.key)
		return !Equal(v, f.value)
	case OpGt, OpGte, OpLt, OpLte:
		return f.matchOrder(doc)
	case OpIn:
		v, _ := doc.Lookup(f.key)
		return lo.ContainsBy(f.values, func(candidate any) bool { return Equal(v, candidate) })
	case OpExists:
		_, ok := doc.Lookup(f.key)
		return ok
	case OpAnd:
		return lo.EveryBy(f.children, func(c Filter) bool { return c.Match(doc) })
	case OpOr:
		return lo.SomeBy(f.children, func(c Filter) bool { return c.Match(doc) })
	case OpNot:
		return len(f.children) == 1 && !f.children[0].Match(doc)
	default:
		return false
	}
}

func (f Filter) matchOrder(doc Document) bool {
	v, ok := doc.Lookup(f.key)
	if !ok {
		return false
	}

	c, ok := comparableOrder(v, f.value)
	if !ok {
		return false
	}

	switch f.op {
	case OpGt:
		return c > 0
	case OpGte:
		return c >= 0
	case OpLt:
		return c < 0
	default:
		return c <= 0
	}
}

// FilterBuilder builds filters for one collection. Stores own a single builder and hand
// the same instance out to every caller.
type FilterBuilder struct {
	collection string
}

// NewFilterBuilder returns a builder bound to the named collection.
func NewFilterBuilder(collection string) *FilterBuilder {
	return &FilterBuilder{collection: collection}
}

// Collection returns the name of the collection the builder belongs to.
func (b *FilterBuilder) Collection() string { return b.collection }

func (b *FilterBuilder) All() Filter { return All() }
func (b *FilterBuilder) ID(id string) Filter { return ID(id) }
func (b *FilterBuilder) Eq(key Key, v any) Filter { return Eq(key, v) }
func (b *FilterBuilder) Ne(key Key, v any) Filter { return Ne(key, v) }
func (b *FilterBuilder) Gt(key Key, v any) Filter { return Gt(key, v) }
func (b *FilterBuilder) Gte(key Key, v any) Filter { return Gte(key, v) }
func (b *FilterBuilder) Lt(key Key, v any) Filter { return Lt(key, v) }
func (b *FilterBuilder) Lte(key Key, v any) Filter { return Lte(key, v) }
func (b *FilterBuilder) In(key Key, vs ...any) Filter { return In(key, vs...) }
func (b *FilterBuilder) Exists(key Key) Filter { return Exists(key) }
func (b *FilterBuilder) And(fs ...Filter) Filter { return And(fs...) }
func (b *FilterBuilder) Or(fs ...Filter) Filter { return Or(fs...) }
func (b *FilterBuilder) Not(f Filter) Filter { return Not(f) }
