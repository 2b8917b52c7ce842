package memstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/query"
	"github.com/rise-and-shine/docrepo/repogen"
)

// Store implements repogen.Store over an in-memory Collection.
type Store[E repogen.Entity] struct {
	coll *Collection

	filters     *query.FilterBuilder
	projections *query.ProjectionBuilder
	updates     *query.UpdateBuilder
}

// New returns an empty store for the named collection.
func New[E repogen.Entity](name string) *Store[E] {
	return &Store[E]{
		coll:        newCollection(name),
		filters:     query.NewFilterBuilder(name),
		projections: query.NewProjectionBuilder(name),
		updates:     query.NewUpdateBuilder(name),
	}
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
	if err := ctx.Err(); err != nil {
		return nil, errx.Wrap(err)
	}

	doc, ok := s.coll.get(id)
	if !ok {
		return nil, nil //nolint:nilnil // absence is not an error
	}
	return decodeOne[E](doc)
}

func (s *Store[E]) Any(ctx context.Context, f query.Filter) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errx.Wrap(err)
	}
	return s.coll.exists(f), nil
}

func (s *Store[E]) find(ctx context.Context, f query.Filter, sort *query.Sort, page *query.Page) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, errx.Wrap(err)
	}
	if page != nil {
		if err := page.Validate(); err != nil {
			return nil, err
		}
	}

	docs := s.coll.match(f)
	if sort != nil {
		sortDocs(docs, *sort)
	}
	if page != nil {
		docs = window(docs, *page)
	}

	return decodeAll[E](docs)
}

// edge returns the first or last matching entity, optionally after sorting.
func (s *Store[E]) edge(ctx context.Context, f query.Filter, sort *query.Sort, last bool) (*E, error) {
	if err := ctx.Err(); err != nil {
		return nil, errx.Wrap(err)
	}

	docs := s.coll.match(f)
	if len(docs) == 0 {
		return nil, nil //nolint:nilnil // absence is not an error
	}
	if sort != nil {
		sortDocs(docs, *sort)
	}

	if last {
		return decodeOne[E](docs[len(docs)-1])
	}
	return decodeOne[E](docs[0])
}

// sortDocs sorts stably so that documents with equal keys keep storage order in
// both directions.
func sortDocs(docs []query.Document, sort query.Sort) {
	slices.SortStableFunc(docs, func(a, b query.Document) int {
		av, _ := a.Lookup(sort.Key)
		bv, _ := b.Lookup(sort.Key)
		c := query.Compare(av, bv)
		if sort.Direction.IsDescending() {
			return -c
		}
		return c
	})
}

func window(docs []query.Document, page query.Page) []query.Document {
	start := page.Skip()
	if start < 0 || start >= len(docs) {
		return []query.Document{}
	}
	end := start + min(page.Limit(), len(docs)-start)
	return docs[start:end]
}

func decodeOne[E repogen.Entity](doc query.Document) (*E, error) {
	entity, err := query.Decode[E](doc)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func decodeAll[E repogen.Entity](docs []query.Document) ([]E, error) {
	out := make([]E, 0, len(docs))
	for _, doc := range docs {
		entity, err := query.Decode[E](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func alreadyExists(collection, id string) error {
	return errx.New(
		fmt.Sprintf("document %s already exists in %s", id, collection),
		errx.WithCode(repogen.CodeAlreadyExists),
		errx.WithType(errx.T_Conflict),
		errx.WithDetails(errx.D{"collection": collection, "id": id}),
	)
}

func missingID(collection string) error {
	return errx.New(
		fmt.Sprintf("entity without identifier cannot be stored in %s", collection),
		errx.WithCode(query.CodeInvalidEntity),
		errx.WithType(errx.T_Validation),
	)
}
