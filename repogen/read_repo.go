package repogen

import (
	"context"

	"github.com/rise-and-shine/docrepo/query"
)

// ReadRepository implements ReadOnlyRepo by forwarding every call to a Store.
// It is safe for concurrent use when the store is.
type ReadRepository[E Entity] struct {
	store Store[E]
}

// NewReadRepository returns a query side façade over store.
func NewReadRepository[E Entity](store Store[E]) *ReadRepository[E] {
	return &ReadRepository[E]{store: store}
}

func (r *ReadRepository[E]) Filter() *query.FilterBuilder {
	return r.store.Filter()
}

func (r *ReadRepository[E]) Project() *query.ProjectionBuilder {
	return r.store.Project()
}

func (r *ReadRepository[E]) Find(ctx context.Context, f query.Filter) ([]E, error) {
	return r.store.Find(ctx, f)
}

func (r *ReadRepository[E]) FindPage(ctx context.Context, f query.Filter, pageIndex, size int) ([]E, error) {
	return r.store.FindPage(ctx, f, pageIndex, size)
}

func (r *ReadRepository[E]) FindOrdered(
	ctx context.Context, f query.Filter, order query.Key, pageIndex, size int,
) ([]E, error) {
	return r.store.FindOrdered(ctx, f, order, pageIndex, size)
}

func (r *ReadRepository[E]) FindOrderedDir(
	ctx context.Context, f query.Filter, order query.Key, pageIndex, size int, isDescending bool,
) ([]E, error) {
	return r.store.FindOrderedDir(ctx, f, order, pageIndex, size, isDescending)
}

func (r *ReadRepository[E]) FindAll(ctx context.Context) ([]E, error) {
	return r.store.FindAll(ctx)
}

func (r *ReadRepository[E]) FindAllPage(ctx context.Context, pageIndex, size int) ([]E, error) {
	return r.store.FindAllPage(ctx, pageIndex, size)
}

func (r *ReadRepository[E]) FindAllOrdered(ctx context.Context, order query.Key, pageIndex, size int) ([]E, error) {
	return r.store.FindAllOrdered(ctx, order, pageIndex, size)
}

func (r *ReadRepository[E]) FindAllOrderedDir(
	ctx context.Context, order query.Key, pageIndex, size int, isDescending bool,
) ([]E, error) {
	return r.store.FindAllOrderedDir(ctx, order, pageIndex, size, isDescending)
}

func (r *ReadRepository[E]) First(ctx context.Context) (*E, error) {
	return r.store.First(ctx)
}

func (r *ReadRepository[E]) FirstMatch(ctx context.Context, f query.Filter) (*E, error) {
	return r.store.FirstMatch(ctx, f)
}

func (r *ReadRepository[E]) FirstOrdered(ctx context.Context, f query.Filter, order query.Key) (*E, error) {
	return r.store.FirstOrdered(ctx, f, order)
}

func (r *ReadRepository[E]) FirstOrderedDir(
	ctx context.Context, f query.Filter, order query.Key, isDescending bool,
) (*E, error) {
	return r.store.FirstOrderedDir(ctx, f, order, isDescending)
}

func (r *ReadRepository[E]) Last(ctx context.Context) (*E, error) {
	return r.store.Last(ctx)
}

func (r *ReadRepository[E]) LastMatch(ctx context.Context, f query.Filter) (*E, error) {
	return r.store.LastMatch(ctx, f)
}

func (r *ReadRepository[E]) LastOrdered(ctx context.Context, f query.Filter, order query.Key) (*E, error) {
	return r.store.LastOrdered(ctx, f, order)
}

func (r *ReadRepository[E]) LastOrderedDir(
	ctx context.Context, f query.Filter, order query.Key, isDescending bool,
) (*E, error) {
	return r.store.LastOrderedDir(ctx, f, order, isDescending)
}

func (r *ReadRepository[E]) Get(ctx context.Context, id string) (*E, error) {
	return r.store.Get(ctx, id)
}

func (r *ReadRepository[E]) Any(ctx context.Context, f query.Filter) (bool, error) {
	return r.store.Any(ctx, f)
}
