package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/sommelier/internal/catalog"
	"github.com/rpggio/sommelier/internal/domain/wine"
	"github.com/rpggio/sommelier/internal/search"
)

func newSearchDB(t *testing.T) *SearchRepository {
	t.Helper()
	db := NewTestDB(t)
	require.NoError(t, NewWineRepository(db).Replace(context.Background(), "v1", sampleWines()))
	return NewSearchRepository(db)
}

func TestSearchRepository_Term(t *testing.T) {
	repo := newSearchDB(t)
	ctx := context.Background()

	ids, err := repo.Search(ctx, search.ProviderRequest{Term: "cabernet", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, []wine.ID{"1"}, ids)

	ids, err = repo.Search(ctx, search.ProviderRequest{Term: "vineyard", Limit: 10})
	require.NoError(t, err)
	require.ElementsMatch(t, []wine.ID{"1", "2"}, ids, "terms match as prefixes")

	ids, err = repo.Search(ctx, search.ProviderRequest{Term: `"cherry`, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, []wine.ID{"2"}, ids, "quotes are stripped")
}

func TestSearchRepository_NameOutranksDescription(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewWineRepository(db).Replace(ctx, "v1", []wine.Wine{
		{ID: "a", Name: "Estate Red", Type: "Red", Description: ptr("Notes of merlot and plum.")},
		{ID: "b", Name: "Merlot", Type: "Red"},
	}))

	ids, err := NewSearchRepository(db).Search(ctx, search.ProviderRequest{Term: "merlot", Limit: 10})
	require.NoError(t, err)
	require.Equal(t, []wine.ID{"b", "a"}, ids)
}

func TestSearchRepository_Filters(t *testing.T) {
	repo := newSearchDB(t)
	ctx := context.Background()

	ids, err := repo.Search(ctx, search.ProviderRequest{Filters: wine.Filters{MaxPrice: ptr(50.0)}})
	require.NoError(t, err)
	require.Equal(t, []wine.ID{"2"}, ids, "unknown price never matches a bound")

	ids, err = repo.Search(ctx, search.ProviderRequest{Filters: wine.Filters{Type: "red"}})
	require.NoError(t, err)
	require.Equal(t, []wine.ID{"1", "2"}, ids, "rating order without a term")

	ids, err = repo.Search(ctx, search.ProviderRequest{Term: "valley", Filters: wine.Filters{FoodPairing: "salmon"}})
	require.NoError(t, err)
	require.Equal(t, []wine.ID{"2"}, ids)

	ids, err = repo.Search(ctx, search.ProviderRequest{Filters: wine.Filters{Vintage: ptr(2021), MinRating: ptr(91.0)}})
	require.NoError(t, err)
	require.Equal(t, []wine.ID{"1"}, ids)

	ids, err = repo.Search(ctx, search.ProviderRequest{Filters: wine.Filters{}, Limit: 1})
	require.NoError(t, err)
	require.Equal(t, []wine.ID{"1"}, ids)
}

func TestSearchRepository_AsProvider(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	wines := NewWineRepository(db)
	require.NoError(t, wines.Replace(ctx, "v1", sampleWines()))

	cat, err := catalog.Load(ctx, catalog.Store("sqlite", wines), nil)
	require.NoError(t, err)
	require.Equal(t, "v1", cat.Version())

	var provider search.Provider = NewSearchRepository(db)
	m := search.NewRemoteMatcher(provider, cat, search.NewLocalMatcher(cat), search.RemoteConfig{}, nil)
	got, err := m.Match(ctx, wine.Query{Term: "pinot"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, wine.ID("2"), got[0].ID)
}
