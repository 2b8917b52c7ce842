package repogen

import (
	"context"

	"github.com/rise-and-shine/docrepo/query"
)

// WriteRepository implements Repo by forwarding every call to a Store.
// Reads are served by the embedded ReadRepository over the same store.
type WriteRepository[E Entity] struct {
	*ReadRepository[E]
}

// NewWriteRepository returns a command side façade over store.
func NewWriteRepository[E Entity](store Store[E]) *WriteRepository[E] {
	return &WriteRepository[E]{
		ReadRepository: NewReadRepository(store),
	}
}

func (r *WriteRepository[E]) Collection() Collection {
	return r.store.Collection()
}

func (r *WriteRepository[E]) Updater() *query.UpdateBuilder {
	return r.store.Updater()
}

func (r *WriteRepository[E]) Insert(ctx context.Context, entity *E) error {
	return r.store.Insert(ctx, entity)
}

func (r *WriteRepository[E]) InsertMany(ctx context.Context, entities []E) error {
	return r.store.InsertMany(ctx, entities)
}

func (r *WriteRepository[E]) Replace(ctx context.Context, entity E) error {
	return r.store.Replace(ctx, entity)
}

func (r *WriteRepository[E]) ReplaceMany(ctx context.Context, entities []E) error {
	return r.store.ReplaceMany(ctx, entities)
}

func (r *WriteRepository[E]) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

func (r *WriteRepository[E]) DeleteEntity(ctx context.Context, entity E) error {
	return r.store.DeleteEntity(ctx, entity)
}

func (r *WriteRepository[E]) DeleteMatching(ctx context.Context, f query.Filter) error {
	return r.store.DeleteMatching(ctx, f)
}

func (r *WriteRepository[E]) Update(ctx context.Context, entity E, u query.Update) (bool, error) {
	return r.store.Update(ctx, entity, u)
}

func (r *WriteRepository[E]) UpdateMatching(ctx context.Context, f query.Filter, u query.Update) (bool, error) {
	return r.store.UpdateMatching(ctx, f, u)
}

func (r *WriteRepository[E]) UpdateField(ctx context.Context, entity E, field query.Key, value any) (bool, error) {
	return r.store.UpdateField(ctx, entity, field, value)
}

func (r *WriteRepository[E]) UpdateFieldMatching(
	ctx context.Context, f query.Filter, field query.Key, value any,
) (bool, error) {
	return r.store.UpdateFieldMatching(ctx, f, field, value)
}

// SetField is UpdateField with a typed selector, so the value type is checked at
// compile time.
func SetField[E Entity, V any](ctx context.Context, r Repo[E], entity E, field query.Field[V], value V) (bool, error) {
	return r.UpdateField(ctx, entity, field.Key(), value)
}

// SetFieldMatching is UpdateFieldMatching with a typed selector.
func SetFieldMatching[E Entity, V any](
	ctx context.Context, r Repo[E], f query.Filter, field query.Field[V], value V,
) (bool, error) {
	return r.UpdateFieldMatching(ctx, f, field.Key(), value)
}
