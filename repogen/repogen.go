// Package repogen provides generic repository contracts for document collections
// split along CQRS lines.
//
// ReadOnlyRepo is the query side: finds with optional paging and ordering, lookups by
// identifier and existence checks. Repo is the command side and embeds ReadOnlyRepo.
// ReadRepository and WriteRepository implement the two contracts by forwarding every
// call to a Store, the generic repository implementation that actually talks to the
// storage engine (see memstore and pgstore).
package repogen

import (
	"context"

	"github.com/rise-and-shine/docrepo/query"
)

// CodeAlreadyExists is the error code stores return when inserting an identifier that
// is already stored.
const CodeAlreadyExists = "DOCUMENT_ALREADY_EXISTS"

// Entity is a record stored in a collection. The identifier is serialized as the "id"
// document field.
type Entity interface {
	GetID() string
}

// Collection is the raw handle of the underlying collection. Stores return their own
// concrete handle type, which callers may type-assert for native access.
type Collection interface {
	// Name returns the collection name.
	Name() string
	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int64, error)
	// Drop removes every document from the collection.
	Drop(ctx context.Context) error
}

// ReadOnlyRepo defines the query side of a repository for entities of type E.
//
// Paged operations take a zero based pageIndex and a page size. Results never
// include more than size entities and start after pageIndex*size matches.
type ReadOnlyRepo[E Entity] interface {
	// Filter returns the filter builder owned by the store.
	Filter() *query.FilterBuilder
	// Project returns the projection builder owned by the store.
	Project() *query.ProjectionBuilder

	// Find returns every entity matching f in storage order.
	Find(ctx context.Context, f query.Filter) ([]E, error)
	// FindPage returns one page of entities matching f in storage order.
	FindPage(ctx context.Context, f query.Filter, pageIndex, size int) ([]E, error)
	// FindOrdered returns one page of entities matching f, ascending by order.
	FindOrdered(ctx context.Context, f query.Filter, order query.Key, pageIndex, size int) ([]E, error)
	// FindOrderedDir returns one page of entities matching f, ordered in the given direction.
	FindOrderedDir(
		ctx context.Context, f query.Filter, order query.Key, pageIndex, size int, isDescending bool,
	) ([]E, error)

	// FindAll returns every entity in storage order.
	FindAll(ctx context.Context) ([]E, error)
	// FindAllPage returns one page of entities in storage order.
	FindAllPage(ctx context.Context, pageIndex, size int) ([]E, error)
	// FindAllOrdered returns one page of entities, descending by order.
	// Unlike FindOrdered the default direction is descending.
	FindAllOrdered(ctx context.Context, order query.Key, pageIndex, size int) ([]E, error)
	// FindAllOrderedDir returns one page of entities ordered in the given direction.
	FindAllOrderedDir(ctx context.Context, order query.Key, pageIndex, size int, isDescending bool) ([]E, error)

	// First returns the first entity in storage order, or nil when the collection is empty.
	First(ctx context.Context) (*E, error)
	// FirstMatch returns the first entity matching f in storage order, or nil.
	FirstMatch(ctx context.Context, f query.Filter) (*E, error)
	// FirstOrdered returns the entity matching f with the smallest order value, or nil.
	FirstOrdered(ctx context.Context, f query.Filter, order query.Key) (*E, error)
	// FirstOrderedDir returns the first entity matching f in the given direction, or nil.
	FirstOrderedDir(ctx context.Context, f query.Filter, order query.Key, isDescending bool) (*E, error)

	// Last returns the last entity in storage order, or nil when the collection is empty.
	Last(ctx context.Context) (*E, error)
	// LastMatch returns the last entity matching f in storage order, or nil.
	LastMatch(ctx context.Context, f query.Filter) (*E, error)
	// LastOrdered returns the entity matching f with the greatest order value, or nil.
	LastOrdered(ctx context.Context, f query.Filter, order query.Key) (*E, error)
	// LastOrderedDir returns the last entity matching f in the given direction, or nil.
	LastOrderedDir(ctx context.Context, f query.Filter, order query.Key, isDescending bool) (*E, error)

	// Get returns the entity with the given identifier, or nil when there is none.
	Get(ctx context.Context, id string) (*E, error)

	// Any reports whether at least one entity matches f.
	Any(ctx context.Context, f query.Filter) (bool, error)
}

// Repo defines the command side of a repository for entities of type E.
// It embeds ReadOnlyRepo.
//
// Update operations report false when nothing matched; that is not an error.
type Repo[E Entity] interface {
	ReadOnlyRepo[E]

	// Collection returns the raw collection handle owned by the store.
	Collection() Collection
	// Updater returns the update builder owned by the store.
	Updater() *query.UpdateBuilder

	// Insert stores a new entity. An empty identifier is replaced by a generated one,
	// written back into entity.
	Insert(ctx context.Context, entity *E) error
	// InsertMany stores a batch of new entities in one call.
	InsertMany(ctx context.Context, entities []E) error

	// Replace overwrites the stored entity with the same identifier.
	Replace(ctx context.Context, entity E) error
	// ReplaceMany overwrites every stored entity of the batch.
	ReplaceMany(ctx context.Context, entities []E) error

	// Delete removes the entity with the given identifier.
	Delete(ctx context.Context, id string) error
	// DeleteEntity removes the stored entity with the identifier of entity.
	DeleteEntity(ctx context.Context, entity E) error
	// DeleteMatching removes every entity matching f.
	DeleteMatching(ctx context.Context, f query.Filter) error

	// Update applies u to the stored entity with the identifier of entity.
	Update(ctx context.Context, entity E, u query.Update) (bool, error)
	// UpdateMatching applies u to every entity matching f.
	UpdateMatching(ctx context.Context, f query.Filter, u query.Update) (bool, error)
	// UpdateField sets one field of the stored entity with the identifier of entity.
	UpdateField(ctx context.Context, entity E, field query.Key, value any) (bool, error)
	// UpdateFieldMatching sets one field of every entity matching f.
	UpdateFieldMatching(ctx context.Context, f query.Filter, field query.Key, value any) (bool, error)
}

// Store is the generic repository implementation the façades forward to.
// It has exactly the operations of Repo.
type Store[E Entity] interface {
	Repo[E]
}
