package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

func TestLocalMatcher_FreeText(t *testing.T) {
	ctx := context.Background()
	m := NewLocalMatcher(newCatalog(t, caymus(), pinot()))

	got, err := m.Match(ctx, wine.Query{Term: "  CABERNET "})
	require.NoError(t, err)
	require.Equal(t, []string{"Caymus Cabernet Sauvignon 2021"}, names(got))

	got, err = m.Match(ctx, wine.Query{Term: "vineyards"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = m.Match(ctx, wine.Query{Term: "cherry"})
	require.NoError(t, err)
	require.Equal(t, []string{"Willamette Valley Pinot Noir 2021"}, names(got), "description is searched")

	got, err = m.Match(ctx, wine.Query{Term: "usa"})
	require.NoError(t, err)
	require.Len(t, got, 2, "country is searched")
}

func TestLocalMatcher_Filters(t *testing.T) {
	ctx := context.Background()
	unpriced := wine.Wine{ID: "3", Name: "Mystery Red", Type: "Red"}
	m := NewLocalMatcher(newCatalog(t, caymus(), pinot(), unpriced))

	tests := []struct {
		name    string
		filters wine.Filters
		want    []string
	}{
		{"max price", wine.Filters{MaxPrice: ptr(50.0)}, []string{"Willamette Valley Pinot Noir 2021"}},
		{"inclusive max", wine.Filters{MaxPrice: ptr(32.99)}, []string{"Willamette Valley Pinot Noir 2021"}},
		{"inclusive min", wine.Filters{MinPrice: ptr(89.99)}, []string{"Caymus Cabernet Sauvignon 2021"}},
		{"inverted bounds", wine.Filters{MinPrice: ptr(60.0), MaxPrice: ptr(40.0)}, nil},
		{"min rating", wine.Filters{MinRating: ptr(91.0)}, []string{"Caymus Cabernet Sauvignon 2021"}},
		{"vintage", wine.Filters{Vintage: ptr(2021)}, []string{"Caymus Cabernet Sauvignon 2021", "Willamette Valley Pinot Noir 2021"}},
		{"vintage miss", wine.Filters{Vintage: ptr(2019)}, nil},
		{"type substring", wine.Filters{Type: "re"}, []string{"Caymus Cabernet Sauvignon 2021", "Willamette Valley Pinot Noir 2021", "Mystery Red"}},
		{"region", wine.Filters{Region: "napa"}, []string{"Caymus Cabernet Sauvignon 2021"}},
		{"winery", wine.Filters{Winery: "willamette"}, []string{"Willamette Valley Pinot Noir 2021"}},
		{"pairing", wine.Filters{FoodPairing: "salm"}, []string{"Willamette Valley Pinot Noir 2021"}},
		{"occasion", wine.Filters{Occasion: "celebr"}, []string{"Caymus Cabernet Sauvignon 2021"}},
		{"conjunction", wine.Filters{Type: "red", MaxPrice: ptr(100.0), FoodPairing: "duck"}, []string{"Willamette Valley Pinot Noir 2021"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Match(ctx, wine.Query{Filters: tt.filters})
			require.NoError(t, err)
			if tt.want == nil {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, names(got))
		})
	}
}

func TestLocalMatcher_TermAndFilters(t *testing.T) {
	m := NewLocalMatcher(newCatalog(t, caymus(), pinot()))
	got, err := m.Match(context.Background(), wine.Query{Term: "vineyards", Filters: wine.Filters{MaxPrice: ptr(50.0)}})
	require.NoError(t, err)
	require.Equal(t, []string{"Willamette Valley Pinot Noir 2021"}, names(got))
}

func TestLocalMatcher_InvalidQuery(t *testing.T) {
	m := NewLocalMatcher(newCatalog(t, caymus()))
	_, err := m.Match(context.Background(), wine.Query{Term: "   "})
	require.ErrorIs(t, err, wine.ErrInvalidQuery)
}
