package wine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{`"abc"`, "abc"},
		{`" 42 "`, "42"},
		{`42`, "42"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var id ID
		require.NoError(t, json.Unmarshal([]byte(tt.in), &id), tt.in)
		require.Equal(t, tt.want, id, tt.in)
	}

	var id ID
	require.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}

func TestWine_Normalize(t *testing.T) {
	w := Wine{
		ID:        " 7 ",
		Name:      "  Rosé  ",
		Type:      " Rosé ",
		Winery:    ptr("   "),
		Region:    ptr(" Provence "),
		Pairings:  []string{"Salad", " salad ", "", "Fish"},
		Occasions: []string{" "},
	}
	got := w.Normalize()

	require.Equal(t, ID("7"), got.ID)
	require.Equal(t, "Rosé", got.Name)
	require.Nil(t, got.Winery, "blank optional text becomes unknown")
	require.Equal(t, "Provence", *got.Region)
	require.Equal(t, []string{"Salad", "Fish"}, got.Pairings)
	require.Nil(t, got.Occasions)
	require.Equal(t, "   ", *w.Winery, "receiver is not modified")
}

func TestFilters_Matches(t *testing.T) {
	w := Wine{
		Name:      "Caymus Cabernet Sauvignon",
		Type:      "Red",
		Winery:    ptr("Caymus Vineyards"),
		Region:    ptr("Napa Valley"),
		Vintage:   ptr(2021),
		Price:     ptr(89.99),
		Rating:    ptr(92.0),
		Pairings:  []string{"Steak"},
		Occasions: []string{"Celebration"},
	}

	require.True(t, Filters{}.Matches(w))
	require.True(t, Filters{Type: " RED "}.Matches(w))
	require.True(t, Filters{MinPrice: ptr(89.99), MaxPrice: ptr(89.99)}.Matches(w))
	require.False(t, Filters{MaxPrice: ptr(89.98)}.Matches(w))
	require.False(t, Filters{MinPrice: ptr(100.0), MaxPrice: ptr(50.0)}.Matches(w))
	require.True(t, Filters{MinRating: ptr(92.0)}.Matches(w))
	require.False(t, Filters{Vintage: ptr(2020)}.Matches(w))
	require.True(t, Filters{FoodPairing: "ste"}.Matches(w))
	require.False(t, Filters{Occasion: "picnic"}.Matches(w))

	unknown := Wine{Name: "Mystery", Type: "Red"}
	require.False(t, Filters{MaxPrice: ptr(1000.0)}.Matches(unknown), "unknown price never satisfies a bound")
	require.False(t, Filters{MinRating: ptr(0.0)}.Matches(unknown), "unknown rating never satisfies a minimum")
	require.False(t, Filters{Vintage: ptr(2021)}.Matches(unknown))
	require.False(t, Filters{Region: "napa"}.Matches(unknown))
	require.True(t, Filters{Type: "red"}.Matches(unknown))
}

func TestQuery_ValidateAndKey(t *testing.T) {
	require.ErrorIs(t, Query{}.Validate(), ErrInvalidQuery)
	require.ErrorIs(t, Query{Term: "  ", Filters: Filters{Type: " "}}.Validate(), ErrInvalidQuery)
	require.NoError(t, Query{Term: "pinot"}.Validate())
	require.NoError(t, Query{Filters: Filters{MaxPrice: ptr(20.0)}}.Validate())

	a := Query{Term: " Pinot ", Filters: Filters{Type: "Red", MaxPrice: ptr(20.0)}}
	b := Query{Term: "pinot", Filters: Filters{Type: "red ", MaxPrice: ptr(20.0)}}
	require.Equal(t, a.Key(), b.Key())
	require.Equal(t, "pinot|type=red&max_price=20", a.Key())
}
