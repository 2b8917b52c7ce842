package instrumented

import (
	"context"

	"github.com/rise-and-shine/docrepo/query"
)

func (s *Store[E]) Find(ctx context.Context, f query.Filter) ([]E, error) {
	ctx, done := s.observe(ctx, "Find")
	out, err := s.Store.Find(ctx, f)
	done(err)
	return out, err
}

func (s *Store[E]) FindPage(ctx context.Context, f query.Filter, pageIndex, size int) ([]E, error) {
	ctx, done := s.observe(ctx, "FindPage")
	out, err := s.Store.FindPage(ctx, f, pageIndex, size)
	done(err)
	return out, err
}

func (s *Store[E]) FindOrdered(
	ctx context.Context, f query.Filter, order query.Key, pageIndex, size int,
) ([]E, error) {
	ctx, done := s.observe(ctx, "FindOrdered")
	out, err := s.Store.FindOrdered(ctx, f, order, pageIndex, size)
	done(err)
	return out, err
}

func (s *Store[E]) FindOrderedDir(
	ctx context.Context, f query.Filter, order query.Key, pageIndex, size int, isDescending bool,
) ([]E, error) {
	ctx, done := s.observe(ctx, "FindOrderedDir")
	out, err := s.Store.FindOrderedDir(ctx, f, order, pageIndex, size, isDescending)
	done(err)
	return out, err
}

func (s *Store[E]) FindAll(ctx context.Context) ([]E, error) {
	ctx, done := s.observe(ctx, "FindAll")
	out, err := s.Store.FindAll(ctx)
	done(err)
	return out, err
}

func (s *Store[E]) FindAllPage(ctx context.Context, pageIndex, size int) ([]E, error) {
	ctx, done := s.observe(ctx, "FindAllPage")
	out, err := s.Store.FindAllPage(ctx, pageIndex, size)
	done(err)
	return out, err
}

func (s *Store[E]) FindAllOrdered(ctx context.Context, order query.Key, pageIndex, size int) ([]E, error) {
	ctx, done := s.observe(ctx, "FindAllOrdered")
	out, err := s.Store.FindAllOrdered(ctx, order, pageIndex, size)
	done(err)
	return out, err
}

func (s *Store[E]) FindAllOrderedDir(
	ctx context.Context, order query.Key, pageIndex, size int, isDescending bool,
) ([]E, error) {
	ctx, done := s.observe(ctx, "FindAllOrderedDir")
	out, err := s.Store.FindAllOrderedDir(ctx, order, pageIndex, size, isDescending)
	done(err)
	return out, err
}

func (s *Store[E]) First(ctx context.Context) (*E, error) {
	ctx, done := s.observe(ctx, "First")
	out, err := s.Store.First(ctx)
	done(err)
	return out, err
}

func (s *Store[E]) FirstMatch(ctx context.Context, f query.Filter) (*E, error) {
	ctx, done := s.observe(ctx, "FirstMatch")
	out, err := s.Store.FirstMatch(ctx, f)
	done(err)
	return out, err
}

func (s *Store[E]) FirstOrdered(ctx context.Context, f query.Filter, order query.Key) (*E, error) {
	ctx, done := s.observe(ctx, "FirstOrdered")
	out, err := s.Store.FirstOrdered(ctx, f, order)
	done(err)
	return out, err
}

func (s *Store[E]) FirstOrderedDir(
	ctx context.Context, f query.Filter, order query.Key, isDescending bool,
) (*E, error) {
	ctx, done := s.observe(ctx, "FirstOrderedDir")
	out, err := s.Store.FirstOrderedDir(ctx, f, order, isDescending)
	done(err)
	return out, err
}

func (s *Store[E]) Last(ctx context.Context) (*E, error) {
	ctx, done := s.observe(ctx, "Last")
	out, err := s.Store.Last(ctx)
	done(err)
	return out, err
}

func (s *Store[E]) LastMatch(ctx context.Context, f query.Filter) (*E, error) {
	ctx, done := s.observe(ctx, "LastMatch")
	out, err := s.Store.LastMatch(ctx, f)
	done(err)
	return out, err
}

func (s *Store[E]) LastOrdered(ctx context.Context, f query.Filter, order query.Key) (*E, error) {
	ctx, done := s.observe(ctx, "LastOrdered")
	out, err := s.Store.LastOrdered(ctx, f, order)
	done(err)
	return out, err
}

func (s *Store[E]) LastOrderedDir(
	ctx context.Context, f query.Filter, order query.Key, isDescending bool,
) (*E, error) {
	ctx, done := s.observe(ctx, "LastOrderedDir")
	out, err := s.Store.LastOrderedDir(ctx, f, order, isDescending)
	done(err)
	return out, err
}

func (s *Store[E]) Get(ctx context.Context, id string) (*E, error) {
	ctx, done := s.observe(ctx, "Get")
	out, err := s.Store.Get(ctx, id)
	done(err)
	return out, err
}

func (s *Store[E]) Any(ctx context.Context, f query.Filter) (bool, error) {
	ctx, done := s.observe(ctx, "Any")
	out, err := s.Store.Any(ctx, f)
	done(err)
	return out, err
}

func (s *Store[E]) Insert(ctx context.Context, entity *E) error {
	ctx, done := s.observe(ctx, "Insert")
	err := s.Store.Insert(ctx, entity)
	done(err)
	return err
}

func (s *Store[E]) InsertMany(ctx context.Context, entities []E) error {
	ctx, done := s.observe(ctx, "InsertMany")
	err := s.Store.InsertMany(ctx, entities)
	done(err)
	return err
}

func (s *Store[E]) Replace(ctx context.Context, entity E) error {
	ctx, done := s.observe(ctx, "Replace")
	err := s.Store.Replace(ctx, entity)
	done(err)
	return err
}

func (s *Store[E]) ReplaceMany(ctx context.Context, entities []E) error {
	ctx, done := s.observe(ctx, "ReplaceMany")
	err := s.Store.ReplaceMany(ctx, entities)
	done(err)
	return err
}

func (s *Store[E]) Delete(ctx context.Context, id string) error {
	ctx, done := s.observe(ctx, "Delete")
	err := s.Store.Delete(ctx, id)
	done(err)
	return err
}

func (s *Store[E]) DeleteEntity(ctx context.Context, entity E) error {
	ctx, done := s.observe(ctx, "DeleteEntity")
	err := s.Store.DeleteEntity(ctx, entity)
	done(err)
	return err
}

func (s *Store[E]) DeleteMatching(ctx context.Context, f query.Filter) error {
	ctx, done := s.observe(ctx, "DeleteMatching")
	err := s.Store.DeleteMatching(ctx, f)
	done(err)
	return err
}

func (s *Store[E]) Update(ctx context.Context, entity E, u query.Update) (bool, error) {
	ctx, done := s.observe(ctx, "Update")
	ok, err := s.Store.Update(ctx, entity, u)
	done(err)
	return ok, err
}

func (s *Store[E]) UpdateMatching(ctx context.Context, f query.Filter, u query.Update) (bool, error) {
	ctx, done := s.observe(ctx, "UpdateMatching")
	ok, err := s.Store.UpdateMatching(ctx, f, u)
	done(err)
	return ok, err
}

func (s *Store[E]) UpdateField(ctx context.Context, entity E, field query.Key, value any) (bool, error) {
	ctx, done := s.observe(ctx, "UpdateField")
	ok, err := s.Store.UpdateField(ctx, entity, field, value)
	done(err)
	return ok, err
}

func (s *Store[E]) UpdateFieldMatching(
	ctx context.Context, f query.Filter, field query.Key, value any,
) (bool, error) {
	ctx, done := s.observe(ctx, "UpdateFieldMatching")
	ok, err := s.Store.UpdateFieldMatching(ctx, f, field, value)
	done(err)
	return ok, err
}
