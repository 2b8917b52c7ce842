// Package query provides the store-native building blocks used by document repositories.
//
// It defines field selectors, filter predicates, update specifications, projections,
// ordering and paging descriptors, together with the builder objects that stores expose
// to callers. Filters and updates are plain value trees: stores either evaluate them
// against in-memory documents or translate them into their own query language.
package query

import "strings"

// Error codes returned by this package and by stores built on it.
const (
	CodeInvalidPage       = "INVALID_PAGE"
	CodeInvalidEntity     = "INVALID_ENTITY"
	CodeImmutableField    = "IMMUTABLE_FIELD"
	CodeNotNumeric        = "FIELD_NOT_NUMERIC"
	CodeUnsupportedFilter = "UNSUPPORTED_FILTER"
)

// IDKey is the document field holding the entity identifier.
const IDKey Key = "id"

// Key selects a document field by its serialized name.
// Nested fields are addressed with dots, e.g. "address.city".
type Key string

// Path splits the key into its dot separated segments.
func (k Key) Path() []string {
	return strings.Split(string(k), ".")
}

func (k Key) String() string {
	return string(k)
}

// Field is a typed field selector. The type parameter carries the field value type so
// that helpers like SetField can check values at compile time.
type Field[V any] struct {
	key Key
}

// F returns a typed selector for the field with the given serialized name.
func F[V any](name string) Field[V] {
	return Field[V]{key: Key(name)}
}

// Key returns the untyped selector of the field.
func (f Field[V]) Key() Key {
	return f.key
}

// Eq is the typed shortcut for Eq(f.Key(), v).
func (f Field[V]) Eq(v V) Filter {
	return Eq(f.key, v)
}
