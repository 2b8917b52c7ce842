package cachedstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rise-and-shine/docrepo/cache/memcache"
	"github.com/rise-and-shine/docrepo/cachedstore"
	"github.com/rise-and-shine/docrepo/internal/storetest"
	"github.com/rise-and-shine/docrepo/logger"
	"github.com/rise-and-shine/docrepo/memstore"
	"github.com/rise-and-shine/docrepo/query"
	"github.com/rise-and-shine/docrepo/repogen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repogen.Store[storetest.Item] {
		return cachedstore.New[storetest.Item](
			memstore.New[storetest.Item]("items"), memcache.New(0),
			cachedstore.WithLogger(logger.Nop()),
		)
	})
}

// setup stores a and b, and returns the decorated store together with the inner
// store, which bypasses the cache.
func setup(t *testing.T) (*cachedstore.Store[storetest.Item], *memstore.Store[storetest.Item], *memcache.Cache) {
	t.Helper()

	inner := memstore.New[storetest.Item]("items")
	c := memcache.New(0)
	s := cachedstore.New[storetest.Item](inner, c, cachedstore.WithLogger(logger.Nop()))

	require.NoError(t, inner.InsertMany(context.Background(), []storetest.Item{
		{ID: "a", Name: "alpha", Group: "x"},
		{ID: "b", Name: "beta", Group: "x"},
	}))
	return s, inner, c
}

func TestGetIsServedFromCache(t *testing.T) {
	ctx := context.Background()
	s, inner, c := setup(t)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, c.Len())

	// Bypass the decorator: the cached copy is still returned.
	_, err = inner.UpdateField(ctx, storetest.Item{ID: "a"}, "name", "changed")
	require.NoError(t, err)

	got, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)
}

func TestAbsenceIsNotCached(t *testing.T) {
	ctx := context.Background()
	s, _, c := setup(t)

	got, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, c.Len())
}

func TestWritesEvict(t *testing.T) {
	testCases := []struct {
		name  string
		write func(ctx context.Context, s *cachedstore.Store[storetest.Item]) error
		want  string
	}{
		{
			name: "update field",
			write: func(ctx context.Context, s *cachedstore.Store[storetest.Item]) error {
				_, err := s.UpdateField(ctx, storetest.Item{ID: "a"}, "name", "changed")
				return err
			},
			want: "changed",
		},
		{
			name: "update",
			write: func(ctx context.Context, s *cachedstore.Store[storetest.Item]) error {
				_, err := s.Update(ctx, storetest.Item{ID: "a"}, query.Set("name", "changed"))
				return err
			},
			want: "changed",
		},
		{
			name: "replace",
			write: func(ctx context.Context, s *cachedstore.Store[storetest.Item]) error {
				return s.Replace(ctx, storetest.Item{ID: "a", Name: "changed"})
			},
			want: "changed",
		},
		{
			name: "replace many",
			write: func(ctx context.Context, s *cachedstore.Store[storetest.Item]) error {
				return s.ReplaceMany(ctx, []storetest.Item{{ID: "b"}, {ID: "a", Name: "changed"}})
			},
			want: "changed",
		},
		{
			name: "update matching",
			write: func(ctx context.Context, s *cachedstore.Store[storetest.Item]) error {
				_, err := s.UpdateMatching(ctx, query.Eq("group", "x"), query.Set("name", "changed"))
				return err
			},
			want: "changed",
		},
		{
			name: "update field matching",
			write: func(ctx context.Context, s *cachedstore.Store[storetest.Item]) error {
				_, err := s.UpdateFieldMatching(ctx, query.Eq("group", "x"), "name", "changed")
				return err
			},
			want: "changed",
		},
		{
			name: "delete",
			write: func(ctx context.Context, s *cachedstore.Store[storetest.Item]) error {
				return s.Delete(ctx, "a")
			},
		},
		{
			name: "delete entity",
			write: func(ctx context.Context, s *cachedstore.Store[storetest.Item]) error {
				return s.DeleteEntity(ctx, storetest.Item{ID: "a"})
			},
		},
		{
			name: "delete matching",
			write: func(ctx context.Context, s *cachedstore.Store[storetest.Item]) error {
				return s.DeleteMatching(ctx, query.Eq("group", "x"))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			s, _, c := setup(t)

			_, err := s.Get(ctx, "a")
			require.NoError(t, err)
			require.Equal(t, 1, c.Len())

			require.NoError(t, tc.write(ctx, s))
			assert.Equal(t, 0, c.Len())

			got, err := s.Get(ctx, "a")
			require.NoError(t, err)
			if tc.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got.Name)
		})
	}
}

func TestDropPurgesCache(t *testing.T) {
	ctx := context.Background()
	s, inner, c := setup(t)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 1, c.Len())

	require.NoError(t, s.Collection().Drop(ctx))

	count, err := s.Collection().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 0, c.Len())

	got, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	unwrapper, ok := s.Collection().(interface{ Unwrap() repogen.Collection })
	require.True(t, ok)
	assert.Same(t, inner.Collection(), unwrapper.Unwrap())
	assert.Same(t, s.Collection(), s.Collection())
}

func TestMatchingWritesKeepOtherCollections(t *testing.T) {
	ctx := context.Background()
	c := memcache.New(0)
	items := cachedstore.New[storetest.Item](memstore.New[storetest.Item]("items"), c)
	others := cachedstore.New[storetest.Item](memstore.New[storetest.Item]("others"), c)

	require.NoError(t, items.Insert(ctx, &storetest.Item{ID: "a"}))
	require.NoError(t, others.Insert(ctx, &storetest.Item{ID: "a"}))
	_, err := items.Get(ctx, "a")
	require.NoError(t, err)
	_, err = others.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	require.NoError(t, items.DeleteMatching(ctx, query.All()))
	assert.Equal(t, 1, c.Len())
}

type brokenCache struct{}

var errBroken = errors.New("cache unavailable")

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errBroken }
func (brokenCache) Set(context.Context, string, []byte) error { return errBroken }
func (brokenCache) Delete(context.Context, ...string) error { return errBroken }
func (brokenCache) DeletePrefix(context.Context, string) error { return errBroken }

func TestCacheFailuresFallBackToStore(t *testing.T) {
	ctx := context.Background()
	s := cachedstore.New[storetest.Item](
		memstore.New[storetest.Item]("items"), brokenCache{},
		cachedstore.WithLogger(logger.Nop()),
	)

	require.NoError(t, s.Insert(ctx, &storetest.Item{ID: "a", Name: "alpha"}))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alpha", got.Name)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.DeleteMatching(ctx, query.All()))
}
