// Package storetest holds the behaviour every repogen.Store must show, expressed as a
// reusable test suite. Store packages run it against their own constructor.
package storetest

import (
	"context"
	"math"
	"testing"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/query"
	"github.com/rise-and-shine/docrepo/repogen"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Item is the entity used by the suite.
type Item struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Rank  int      `json:"rank"`
	Group string   `json:"group,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

func (i Item) GetID() string { return i.ID }

// NewStoreFunc returns an empty store. It is called once per sub test.
type NewStoreFunc func(t *testing.T) repogen.Store[Item]

// Run runs the suite against the stores returned by newStore.
func Run(t *testing.T, newStore NewStoreFunc) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, repo *repogen.WriteRepository[Item], store repogen.Store[Item])
	}{
		{"insert then get round trips", testInsertGet},
		{"insert assigns identifier", testInsertAssignsID},
		{"insert duplicate conflicts", testInsertDuplicate},
		{"insert many", testInsertMany},
		{"get missing returns nil", testGetMissing},
		{"any agrees with find", testAnyAgreesWithFind},
		{"pages concatenate to ordered result", testPagesConcatenate},
		{"invalid page is rejected", testInvalidPage},
		{"page offset overflow is rejected", testPageOverflow},
		{"find all ordered defaults to descending unlike find ordered", testDefaultDirectionAsymmetry},
		{"ordered scenario a b c", testScenarioABC},
		{"equal keys keep storage order", testTieBreak},
		{"update field changes only that field", testUpdateField},
		{"update without match reports false", testUpdateNoMatch},
		{"update matching", testUpdateMatching},
		{"identifier paths are immutable", testIdentifierImmutable},
		{"typed field update", testSetField},
		{"replace", testReplace},
		{"delete by id", testDelete},
		{"delete entity", testDeleteEntity},
		{"delete matching empties any", testDeleteMatching},
		{"first and last", testFirstLast},
		{"builders and collection are shared", testSharedHandles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			tt.fn(t, repogen.NewWriteRepository(store), store)
		})
	}
}

func seed(t *testing.T, repo repogen.Repo[Item], items ...Item) {
	t.Helper()
	require.NoError(t, repo.InsertMany(context.Background(), items))
}

func ids(items []Item) []string {
	return lo.Map(items, func(i Item, _ int) string { return i.ID })
}

func abc() []Item {
	return []Item{
		{ID: "a", Name: "alpha", Rank: 1, Group: "x"},
		{ID: "b", Name: "bravo", Rank: 2, Group: "y"},
		{ID: "c", Name: "charlie", Rank: 3, Group: "x"},
	}
}

func testInsertGet(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	item := Item{ID: "a", Name: "alpha", Rank: 7, Tags: []string{"t1", "t2"}}

	require.NoError(t, repo.Insert(ctx, &item))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, item, *got)
}

func testInsertAssignsID(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	item := Item{Name: "anonymous"}

	require.NoError(t, repo.Insert(ctx, &item))
	require.NotEmpty(t, item.ID)

	got, err := repo.Get(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "anonymous", got.Name)
}

func testInsertDuplicate(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)

	err := repo.Insert(ctx, &Item{ID: "a"})
	require.Error(t, err)
	assert.Equal(t, repogen.CodeAlreadyExists, errx.AsErrorX(err).Code())
}

func testInsertMany(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	items := []Item{{ID: "a"}, {Name: "generated"}}

	require.NoError(t, repo.InsertMany(ctx, items))
	assert.NotEmpty(t, items[1].ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", items[1].ID}, ids(all))
}

func testGetMissing(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	got, err := repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testAnyAgreesWithFind(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)

	filters := []query.Filter{
		query.All(),
		query.Eq("group", "x"),
		query.Gt("rank", 2),
		query.Gt("rank", 3),
		query.In("name", "bravo", "zulu"),
		query.And(query.Eq("group", "x"), query.Lt("rank", 2)),
		query.Or(query.Eq("name", "nobody"), query.Eq("group", "z")),
		query.Not(query.Exists("name")),
	}

	for _, f := range filters {
		found, err := repo.Find(ctx, f)
		require.NoError(t, err)

		exists, err := repo.Any(ctx, f)
		require.NoError(t, err)

		assert.Equal(t, len(found) > 0, exists, "filter %+v", f)
	}
}

func testPagesConcatenate(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	items := make([]Item, 0, 7)
	for i, name := range []string{"g", "c", "e", "a", "f", "b", "d"} {
		items = append(items, Item{ID: name, Name: name, Rank: 10 - i})
	}
	seed(t, repo, items...)

	full, err := repo.FindOrdered(ctx, query.All(), "name", 0, len(items))
	require.NoError(t, err)
	require.Len(t, full, len(items))

	var paged []Item
	for page := 0; ; page++ {
		chunk, err := repo.FindOrdered(ctx, query.All(), "name", page, 3)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(chunk), 3)
		if len(chunk) == 0 {
			break
		}
		paged = append(paged, chunk...)
	}
	assert.Equal(t, ids(full), ids(paged))

	unordered, err := repo.Find(ctx, query.All())
	require.NoError(t, err)
	page1, err := repo.FindPage(ctx, query.All(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, ids(unordered[3:6]), ids(page1))

	allPage, err := repo.FindAllPage(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, ids(unordered[6:]), ids(allPage))
}

func testInvalidPage(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()

	_, err := repo.FindPage(ctx, query.All(), -1, 2)
	require.Error(t, err)
	assert.Equal(t, query.CodeInvalidPage, errx.AsErrorX(err).Code())

	_, err = repo.FindAllOrdered(ctx, "rank", 0, 0)
	require.Error(t, err)
	assert.Equal(t, query.CodeInvalidPage, errx.AsErrorX(err).Code())
}

func testPageOverflow(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)

	tests := []struct {
		index int
		size  int
	}{
		{index: math.MaxInt/2 + 1, size: 4},
		{index: math.MaxInt/2 + 2, size: 2},
		{index: math.MaxInt, size: 3},
	}

	for _, tt := range tests {
		got, err := repo.FindPage(ctx, query.All(), tt.index, tt.size)
		require.Error(t, err)
		assert.Equal(t, query.CodeInvalidPage, errx.AsErrorX(err).Code())
		assert.Empty(t, got)

		_, err = repo.FindAllOrdered(ctx, "rank", tt.index, tt.size)
		require.Error(t, err)
		assert.Equal(t, query.CodeInvalidPage, errx.AsErrorX(err).Code())
	}

	got, err := repo.FindPage(ctx, query.All(), math.MaxInt, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// The find family defaults to ascending and the findAll family to descending.
// This asymmetry is part of the contract and must not be "fixed".
func testDefaultDirectionAsymmetry(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)

	findAll, err := repo.FindAllOrdered(ctx, "rank", 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(findAll))

	find, err := repo.FindOrdered(ctx, query.All(), "rank", 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(find))
}

func testScenarioABC(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	for _, item := range abc() {
		require.NoError(t, repo.Insert(ctx, &item))
	}

	desc, err := repo.FindAllOrdered(ctx, "rank", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(desc))

	asc, err := repo.FindAllOrderedDir(ctx, "rank", 0, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(asc))

	explicitDesc, err := repo.FindOrderedDir(ctx, query.Eq("group", "x"), "rank", 0, 5, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(explicitDesc))

	secondPage, err := repo.FindAllOrdered(ctx, "rank", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(secondPage))
}

func testTieBreak(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo,
		Item{ID: "a", Rank: 1},
		Item{ID: "b", Rank: 2},
		Item{ID: "c", Rank: 1},
		Item{ID: "d", Rank: 2},
	)

	asc, err := repo.FindOrdered(ctx, query.All(), "rank", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b", "d"}, ids(asc))

	desc, err := repo.FindOrderedDir(ctx, query.All(), "rank", 0, 10, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(desc))
}

func testUpdateField(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)
	b := abc()[1]

	ok, err := repo.UpdateField(ctx, b, "name", "beta")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, Item{ID: "b", Name: "beta", Rank: 2, Group: "y"}, *got)

	others, err := repo.Find(ctx, query.Ne("id", "b"))
	require.NoError(t, err)
	assert.Equal(t, []Item{abc()[0], abc()[2]}, others)
}

func testUpdateNoMatch(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)

	ok, err := repo.Update(ctx, Item{ID: "missing"}, query.Set("name", "x"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.UpdateFieldMatching(ctx, query.Eq("group", "z"), "name", "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testIdentifierImmutable(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)

	for _, u := range []query.Update{
		query.Set("id.x", 1),
		query.Unset("id.x"),
		query.Inc("id.n", 1),
	} {
		ok, err := repo.Update(ctx, Item{ID: "a"}, u)
		require.Error(t, err)
		assert.False(t, ok)
		assert.Equal(t, query.CodeImmutableField, errx.AsErrorX(err).Code())
	}

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID)
}

func testUpdateMatching(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)

	ok, err := repo.UpdateMatching(ctx, query.Eq("group", "x"), repo.Updater().Inc("rank", 10).Set("name", "bumped"))
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := repo.FindOrdered(ctx, query.All(), "rank", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []Item{
		{ID: "b", Name: "bravo", Rank: 2, Group: "y"},
		{ID: "a", Name: "bumped", Rank: 11, Group: "x"},
		{ID: "c", Name: "bumped", Rank: 13, Group: "x"},
	}, found)

	ok, err = repo.Update(ctx, Item{ID: "b"}, query.Unset("group"))
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Group)
}

func testSetField(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)
	rank := query.F[int]("rank")

	ok, err := repogen.SetField(ctx, repo, abc()[0], rank, 42)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repogen.SetFieldMatching(ctx, repo, query.Eq("group", "y"), rank, 43)
	require.NoError(t, err)
	assert.True(t, ok)

	last, err := repo.LastOrdered(ctx, query.All(), "rank")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "b", last.ID)
}

func testReplace(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)

	require.NoError(t, repo.Replace(ctx, Item{ID: "a", Name: "replaced"}))
	require.NoError(t, repo.ReplaceMany(ctx, []Item{
		{ID: "b", Name: "b2", Rank: 20},
		{ID: "missing", Name: "ignored"},
	}))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Item{
		{ID: "a", Name: "replaced"},
		{ID: "b", Name: "b2", Rank: 20},
		abc()[2],
	}, all)
}

func testDelete(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)

	require.NoError(t, repo.Delete(ctx, "b"))
	require.NoError(t, repo.Delete(ctx, "missing"))

	got, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(all))
}

func testDeleteEntity(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)

	require.NoError(t, repo.DeleteEntity(ctx, abc()[0]))

	exists, err := repo.Any(ctx, query.ID("a"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func testDeleteMatching(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()
	seed(t, repo, abc()...)
	inX := query.Eq("group", "x")

	exists, err := repo.Any(ctx, inX)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, repo.DeleteMatching(ctx, inX))

	exists, err = repo.Any(ctx, inX)
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := repo.Collection().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func testFirstLast(t *testing.T, repo *repogen.WriteRepository[Item], _ repogen.Store[Item]) {
	ctx := context.Background()

	empty, err := repo.First(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty)

	seed(t, repo,
		Item{ID: "m", Name: "mike", Rank: 5, Group: "x"},
		Item{ID: "k", Name: "kilo", Rank: 9, Group: "y"},
		Item{ID: "z", Name: "zulu", Rank: 1, Group: "x"},
	)

	check := func(expected string, got *Item, err error) {
		t.Helper()
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, expected, got.ID)
	}

	got, err := repo.First(ctx)
	check("m", got, err)
	got, err = repo.Last(ctx)
	check("z", got, err)
	got, err = repo.FirstMatch(ctx, query.Eq("group", "y"))
	check("k", got, err)
	got, err = repo.LastMatch(ctx, query.Eq("group", "x"))
	check("z", got, err)
	got, err = repo.FirstOrdered(ctx, query.All(), "rank")
	check("z", got, err)
	got, err = repo.FirstOrderedDir(ctx, query.All(), "rank", true)
	check("k", got, err)
	got, err = repo.LastOrdered(ctx, query.All(), "name")
	check("z", got, err)
	got, err = repo.LastOrderedDir(ctx, query.Eq("group", "x"), "rank", true)
	check("z", got, err)

	none, err := repo.FirstMatch(ctx, query.Eq("group", "none"))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func testSharedHandles(t *testing.T, repo *repogen.WriteRepository[Item], store repogen.Store[Item]) {
	assert.Same(t, store.Filter(), repo.Filter())
	assert.Same(t, store.Project(), repo.Project())
	assert.Same(t, store.Updater(), repo.Updater())
	assert.Equal(t, store.Collection(), repo.Collection())
	assert.NotEmpty(t, repo.Collection().Name())
}
