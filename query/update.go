package query

import (
	"fmt"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
)

// UpdateOp names a field level update operator.
type UpdateOp string

const (
	UpdateSet   UpdateOp = "set"
	UpdateUnset UpdateOp = "unset"
	UpdateInc   UpdateOp = "inc"
)

// FieldOp is one field level change of an Update.
type FieldOp struct {
	Op    UpdateOp
	Key   Key
	Value any
}

// Update is an ordered list of field changes applied to matching documents.
type Update struct {
	ops []FieldOp
}

// Set assigns value to the field.
func Set(key Key, value any) Update { return Update{}.Set(key, value) }

// Unset removes the field.
func Unset(key Key) Update { return Update{}.Unset(key) }

// Inc adds delta to a numeric field. A missing field counts as zero.
func Inc(key Key, delta any) Update { return Update{}.Inc(key, delta) }

// SetField builds a one field update from a typed selector.
func SetField[V any](field Field[V], value V) Update {
	return Set(field.Key(), value)
}

// Combine concatenates updates; later operations win on the same field.
func Combine(us ...Update) Update {
	var out Update
	for _, u := range us {
		out.ops = append(out.ops, u.ops...)
	}
	return out
}

func (u Update) Set(key Key, value any) Update { return u.with(UpdateSet, key, value) }
func (u Update) Unset(key Key) Update { return u.with(UpdateUnset, key, nil) }
func (u Update) Inc(key Key, delta any) Update { return u.with(UpdateInc, key, delta) }
func (u Update) Ops() []FieldOp { return u.ops }
func (u Update) IsEmpty() bool { return len(u.ops) == 0 }

func (u Update) with(op UpdateOp, k Key, v any) Update {
	ops := make([]FieldOp, len(u.ops), len(u.ops)+1)
	copy(ops, u.ops)
	return Update{ops: append(ops, FieldOp{Op: op, Key: k, Value: v})}
}

// Validate rejects updates touching the identifier or a path below it, and non
// numeric increments.
func (u Update) Validate() error {
	for _, op := range u.ops {
		if op.Key.Path()[0] == string(IDKey) {
			return errx.New(
				"document identifier cannot be updated",
				errx.WithCode(CodeImmutableField),
				errx.WithType(errx.T_Validation),
				errx.WithDetails(errx.D{"key": string(op.Key)}),
			)
		}
		if op.Op == UpdateInc && !isNumber(op.Value) {
			return errx.New(
				fmt.Sprintf("increment of %s must be numeric", op.Key),
				errx.WithCode(CodeNotNumeric),
				errx.WithType(errx.T_Validation),
			)
		}
	}
	return nil
}

// Apply returns a copy of doc with the update applied.
func (u Update) Apply(doc Document) (Document, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	out := doc.Clone()
	for _, op := range u.ops {
		switch op.Op {
		case UpdateSet:
			out.Set(op.Key, normalize(op.Value))
		case UpdateUnset:
			out.Unset(op.Key)
		case UpdateInc:
			current, ok := out.Lookup(op.Key)
			if !ok || current == nil {
				current = float64(0)
			}
			base, err := cast.ToFloat64E(current)
			if err != nil || !isNumber(current) {
				return nil, errx.New(
					fmt.Sprintf("field %s is not numeric", op.Key),
					errx.WithCode(CodeNotNumeric),
					errx.WithType(errx.T_Validation),
				)
			}
			out.Set(op.Key, base+cast.ToFloat64(op.Value))
		}
	}
	return out, nil
}

// UpdateBuilder builds updates for one collection.
type UpdateBuilder struct {
	collection string
}

// NewUpdateBuilder returns a builder bound to the named collection.
func NewUpdateBuilder(collection string) *UpdateBuilder {
	return &UpdateBuilder{collection: collection}
}

// Collection returns the name of the collection the builder belongs to.
func (b *UpdateBuilder) Collection() string { return b.collection }

func (b *UpdateBuilder) Set(key Key, value any) Update { return Set(key, value) }
func (b *UpdateBuilder) Unset(key Key) Update { return Unset(key) }
func (b *UpdateBuilder) Inc(key Key, delta any) Update { return Inc(key, delta) }
func (b *UpdateBuilder) Combine(us ...Update) Update { return Combine(us...) }
