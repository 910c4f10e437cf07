package search

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

func TestRank_ExactMatchFirst(t *testing.T) {
	exact := wine.Wine{ID: "a", Name: "Merlot", Type: "Red", Rating: ptr(80.0)}
	partial := wine.Wine{ID: "b", Name: "Estate Merlot Reserve", Type: "Red", Rating: ptr(95.0)}
	typed := wine.Wine{ID: "c", Name: "House Blend", Type: "merlot", Rating: ptr(70.0)}

	got := Rank([]wine.Wine{partial, exact, typed}, " MERLOT ", 5)
	require.Equal(t, []wine.ID{"a", "c", "b"}, ids(got))
}

func TestRank_UnknownRatingLast(t *testing.T) {
	unrated := wine.Wine{ID: "u", Name: "U", Type: "Red"}
	low := wine.Wine{ID: "l", Name: "L", Type: "Red", Rating: ptr(10.0)}
	high := wine.Wine{ID: "h", Name: "H", Type: "Red", Rating: ptr(99.0)}

	got := Rank([]wine.Wine{unrated, low, high}, "", 5)
	require.Equal(t, []wine.ID{"h", "l", "u"}, ids(got))
}

func TestRank_StableOnTies(t *testing.T) {
	a := wine.Wine{ID: "a", Name: "A", Type: "Red", Rating: ptr(90.0)}
	b := wine.Wine{ID: "b", Name: "B", Type: "Red", Rating: ptr(90.0)}
	c := wine.Wine{ID: "c", Name: "C", Type: "Red"}
	d := wine.Wine{ID: "d", Name: "D", Type: "Red"}

	got := Rank([]wine.Wine{c, a, d, b}, "", 5)
	require.Equal(t, []wine.ID{"a", "b", "c", "d"}, ids(got))
}

func TestRank_CapAppliedAfterSort(t *testing.T) {
	var candidates []wine.Wine
	for i := range 8 {
		candidates = append(candidates, wine.Wine{ID: wine.ID(fmt.Sprint(i)), Name: "W", Type: "Red", Rating: ptr(float64(i))})
	}
	got := Rank(candidates, "", 5)
	require.Equal(t, []wine.ID{"7", "6", "5", "4", "3"}, ids(got))
}

func TestRank_Empty(t *testing.T) {
	got := Rank(nil, "anything", 5)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestRank_OrderingProperty(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	types := []string{"red", "white", "red blend"}
	for round := range 50 {
		var candidates []wine.Wine
		n := r.IntN(20)
		for i := range n {
			w := wine.Wine{ID: wine.ID(fmt.Sprintf("%d-%d", round, i)), Name: fmt.Sprintf("Wine %d", i), Type: types[r.IntN(len(types))]}
			if r.IntN(4) > 0 {
				w.Rating = ptr(float64(r.IntN(100)))
			}
			candidates = append(candidates, w)
		}

		got := Rank(candidates, "red", 5)
		require.LessOrEqual(t, len(got), 5)
		for i := 1; i < len(got); i++ {
			a, b := got[i-1], got[i]
			pa, pb := precedence(a, "red"), precedence(b, "red")
			require.GreaterOrEqual(t, pa, pb)
			if pa == pb {
				require.LessOrEqual(t, compareRating(a.Rating, b.Rating), 0)
			}
		}
	}
}

func ids(wines []wine.Wine) []wine.ID {
	out := make([]wine.ID, 0, len(wines))
	for _, w := range wines {
		out = append(out, w.ID)
	}
	return out
}
