package pgstore

import (
	"context"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/pg"
	"github.com/rise-and-shine/docrepo/query"
	"github.com/rise-and-shine/docrepo/repogen"
	"github.com/uptrace/bun"
)

// Store implements repogen.Store over a collection table.
type Store[E repogen.Entity] struct {
	coll *Collection

	filters     *query.FilterBuilder
	projections *query.ProjectionBuilder
	updates     *query.UpdateBuilder
}

// Option configures a Store.
type Option func(*Collection)

// WithSchema places the collection table in schema instead of public.
func WithSchema(schema string) Option {
	return func(c *Collection) { c.schema = schema }
}

// New returns a store for the named collection. The table is not created; call
// Collection().EnsureCreated or use Open.
func New[E repogen.Entity](idb bun.IDB, name string, opts ...Option) *Store[E] {
	coll := &Collection{db: idb, schema: defaultSchema, name: name}
	for _, opt := range opts {
		opt(coll)
	}

	return &Store[E]{
		coll:        coll,
		filters:     query.NewFilterBuilder(name),
		projections: query.NewProjectionBuilder(name),
		updates:     query.NewUpdateBuilder(name),
	}
}

// Open is New followed by EnsureCreated.
func Open[E repogen.Entity](ctx context.Context, idb bun.IDB, name string, opts ...Option) (*Store[E], error) {
	s := New[E](idb, name, opts...)
	if err := s.coll.EnsureCreated(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store[E]) Filter() *query.FilterBuilder { return s.filters }
func (s *Store[E]) Project() *query.ProjectionBuilder { return s.projections }
func (s *Store[E]) Updater() *query.UpdateBuilder { return s.updates }
func (s *Store[E]) Collection() repogen.Collection { return s.coll }

func (s *Store[E]) Find(ctx context.Context, f query.Filter) ([]E, error) {
	return s.find(ctx, f, nil, nil)
}

func (s *Store[E]) FindPage(ctx context.Context, f query.Filter, pageIndex, size int) ([]E, error) {
	return s.find(ctx, f, nil, &query.Page{Index: pageIndex, Size: size})
}

func (s *Store[E]) FindOrdered(
	ctx context.Context, f query.Filter, order query.Key, pageIndex, size int,
) ([]E, error) {
	return s.FindOrderedDir(ctx, f, order, pageIndex, size, false)
}

func (s *Store[E]) FindOrderedDir(
	ctx context.Context, f query.Filter, order query.Key, pageIndex, size int, isDescending bool,
) ([]E, error) {
	sort := &query.Sort{Key: order, Direction: query.DirectionOf(isDescending)}
	return s.find(ctx, f, sort, &query.Page{Index: pageIndex, Size: size})
}

func (s *Store[E]) FindAll(ctx context.Context) ([]E, error) {
	return s.Find(ctx, query.All())
}

func (s *Store[E]) FindAllPage(ctx context.Context, pageIndex, size int) ([]E, error) {
	return s.FindPage(ctx, query.All(), pageIndex, size)
}

// FindAllOrdered sorts descending when no direction is given.
func (s *Store[E]) FindAllOrdered(ctx context.Context, order query.Key, pageIndex, size int) ([]E, error) {
	return s.FindAllOrderedDir(ctx, order, pageIndex, size, true)
}

func (s *Store[E]) FindAllOrderedDir(
	ctx context.Context, order query.Key, pageIndex, size int, isDescending bool,
) ([]E, error) {
	return s.FindOrderedDir(ctx, query.All(), order, pageIndex, size, isDescending)
}

func (s *Store[E]) First(ctx context.Context) (*E, error) {
	return s.FirstMatch(ctx, query.All())
}

func (s *Store[E]) FirstMatch(ctx context.Context, f query.Filter) (*E, error) {
	return s.edge(ctx, f, nil, false)
}

func (s *Store[E]) FirstOrdered(ctx context.Context, f query.Filter, order query.Key) (*E, error) {
	return s.FirstOrderedDir(ctx, f, order, false)
}

func (s *Store[E]) FirstOrderedDir(
	ctx context.Context, f query.Filter, order query.Key, isDescending bool,
) (*E, error) {
	return s.edge(ctx, f, &query.Sort{Key: order, Direction: query.DirectionOf(isDescending)}, false)
}

func (s *Store[E]) Last(ctx context.Context) (*E, error) {
	return s.LastMatch(ctx, query.All())
}

func (s *Store[E]) LastMatch(ctx context.Context, f query.Filter) (*E, error) {
	return s.edge(ctx, f, nil, true)
}

func (s *Store[E]) LastOrdered(ctx context.Context, f query.Filter, order query.Key) (*E, error) {
	return s.LastOrderedDir(ctx, f, order, false)
}

func (s *Store[E]) LastOrderedDir(
	ctx context.Context, f query.Filter, order query.Key, isDescending bool,
) (*E, error) {
	return s.edge(ctx, f, &query.Sort{Key: order, Direction: query.DirectionOf(isDescending)}, true)
}

func (s *Store[E]) Get(ctx context.Context, id string) (*E, error) {
	return s.edge(ctx, query.ID(id), nil, false)
}

func (s *Store[E]) Any(ctx context.Context, f query.Filter) (bool, error) {
	where, err := filterSQL(f)
	if err != nil {
		return false, err
	}

	q := s.coll.selectRows(s.coll.db, (*row)(nil)).Where(where.sql, where.args...)

	exists, err := q.Exists(ctx)
	if err != nil {
		return false, errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}
	return exists, nil
}

func (s *Store[E]) find(ctx context.Context, f query.Filter, sort *query.Sort, page *query.Page) ([]E, error) {
	if page != nil {
		if err := page.Validate(); err != nil {
			return nil, err
		}
	}

	where, err := filterSQL(f)
	if err != nil {
		return nil, err
	}

	rows := make([]row, 0)
	q := s.coll.selectRows(s.coll.db, &rows).Where(where.sql, where.args...)
	q = orderBy(q, sort, false)
	if page != nil {
		q = q.Offset(page.Skip()).Limit(page.Limit())
	}

	err = q.Scan(ctx)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}

	out := make([]E, 0, len(rows))
	for _, r := range rows {
		entity, decodeErr := query.Decode[E](r.Doc)
		if decodeErr != nil {
			return nil, decodeErr
		}
		out = append(out, entity)
	}
	return out, nil
}

// edge returns the first or last matching entity, or nil when nothing matches.
func (s *Store[E]) edge(ctx context.Context, f query.Filter, sort *query.Sort, last bool) (*E, error) {
	where, err := filterSQL(f)
	if err != nil {
		return nil, err
	}

	rows := make([]row, 0, 1)
	q := s.coll.selectRows(s.coll.db, &rows).Where(where.sql, where.args...)
	q = orderBy(q, sort, last).Limit(1)

	err = q.Scan(ctx)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.ErrorDetails(err, q)))
	}

	if len(rows) == 0 {
		return nil, nil //nolint:nilnil // absence is not an error
	}

	entity, err := query.Decode[E](rows[0].Doc)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}
