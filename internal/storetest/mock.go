package storetest

import (
	"context"

	"github.com/rise-and-shine/docrepo/query"
	"github.com/rise-and-shine/docrepo/repogen"
	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of repogen.Store for Item.
type MockStore struct {
	mock.Mock
}

// Ensure MockStore implements the interface
var _ repogen.Store[Item] = (*MockStore)(nil)

func (m *MockStore) Filter() *query.FilterBuilder {
	return m.Called().Get(0).(*query.FilterBuilder)
}

func (m *MockStore) Project() *query.ProjectionBuilder {
	return m.Called().Get(0).(*query.ProjectionBuilder)
}

func (m *MockStore) Updater() *query.UpdateBuilder {
	return m.Called().Get(0).(*query.UpdateBuilder)
}

func (m *MockStore) Collection() repogen.Collection {
	return m.Called().Get(0).(repogen.Collection)
}

func (m *MockStore) Find(ctx context.Context, f query.Filter) ([]Item, error) {
	return items(m.Called(ctx, f))
}

func (m *MockStore) FindPage(ctx context.Context, f query.Filter, pageIndex, size int) ([]Item, error) {
	return items(m.Called(ctx, f, pageIndex, size))
}

func (m *MockStore) FindOrdered(
	ctx context.Context, f query.Filter, order query.Key, pageIndex, size int,
) ([]Item, error) {
	return items(m.Called(ctx, f, order, pageIndex, size))
}

func (m *MockStore) FindOrderedDir(
	ctx context.Context, f query.Filter, order query.Key, pageIndex, size int, isDescending bool,
) ([]Item, error) {
	return items(m.Called(ctx, f, order, pageIndex, size, isDescending))
}

func (m *MockStore) FindAll(ctx context.Context) ([]Item, error) {
	return items(m.Called(ctx))
}

func (m *MockStore) FindAllPage(ctx context.Context, pageIndex, size int) ([]Item, error) {
	return items(m.Called(ctx, pageIndex, size))
}

func (m *MockStore) FindAllOrdered(ctx context.Context, order query.Key, pageIndex, size int) ([]Item, error) {
	return items(m.Called(ctx, order, pageIndex, size))
}

func (m *MockStore) FindAllOrderedDir(
	ctx context.Context, order query.Key, pageIndex, size int, isDescending bool,
) ([]Item, error) {
	return items(m.Called(ctx, order, pageIndex, size, isDescending))
}

func (m *MockStore) First(ctx context.Context) (*Item, error) {
	return item(m.Called(ctx))
}

func (m *MockStore) FirstMatch(ctx context.Context, f query.Filter) (*Item, error) {
	return item(m.Called(ctx, f))
}

func (m *MockStore) FirstOrdered(ctx context.Context, f query.Filter, order query.Key) (*Item, error) {
	return item(m.Called(ctx, f, order))
}

func (m *MockStore) FirstOrderedDir(
	ctx context.Context, f query.Filter, order query.Key, isDescending bool,
) (*Item, error) {
	return item(m.Called(ctx, f, order, isDescending))
}

func (m *MockStore) Last(ctx context.Context) (*Item, error) {
	return item(m.Called(ctx))
}

func (m *MockStore) LastMatch(ctx context.Context, f query.Filter) (*Item, error) {
	return item(m.Called(ctx, f))
}

func (m *MockStore) LastOrdered(ctx context.Context, f query.Filter, order query.Key) (*Item, error) {
	return item(m.Called(ctx, f, order))
}

func (m *MockStore) LastOrderedDir(
	ctx context.Context, f query.Filter, order query.Key, isDescending bool,
) (*Item, error) {
	return item(m.Called(ctx, f, order, isDescending))
}

func (m *MockStore) Get(ctx context.Context, id string) (*Item, error) {
	return item(m.Called(ctx, id))
}

func (m *MockStore) Any(ctx context.Context, f query.Filter) (bool, error) {
	args := m.Called(ctx, f)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Insert(ctx context.Context, entity *Item) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockStore) InsertMany(ctx context.Context, entities []Item) error {
	return m.Called(ctx, entities).Error(0)
}

func (m *MockStore) Replace(ctx context.Context, entity Item) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockStore) ReplaceMany(ctx context.Context, entities []Item) error {
	return m.Called(ctx, entities).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) DeleteEntity(ctx context.Context, entity Item) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockStore) DeleteMatching(ctx context.Context, f query.Filter) error {
	return m.Called(ctx, f).Error(0)
}

func (m *MockStore) Update(ctx context.Context, entity Item, u query.Update) (bool, error) {
	args := m.Called(ctx, entity, u)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) UpdateMatching(ctx context.Context, f query.Filter, u query.Update) (bool, error) {
	args := m.Called(ctx, f, u)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) UpdateField(ctx context.Context, entity Item, field query.Key, value any) (bool, error) {
	args := m.Called(ctx, entity, field, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) UpdateFieldMatching(
	ctx context.Context, f query.Filter, field query.Key, value any,
) (bool, error) {
	args := m.Called(ctx, f, field, value)
	return args.Bool(0), args.Error(1)
}

func items(args mock.Arguments) ([]Item, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Item), args.Error(1)
}

func item(args mock.Arguments) (*Item, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}
