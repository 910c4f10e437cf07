package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

// DefaultLimit is the result cap for one search.
const DefaultLimit = 5

// Rank orders candidates by exact name/type match first, then rating
// descending with unknown ratings last, and truncates to limit. The sort is
// stable and the cap is applied after sorting.
func Rank(candidates []wine.Wine, term string, limit int) []wine.Wine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(candidates) == 0 {
		return []wine.Wine{}
	}

	term = wine.Fold(term)
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b wine.Wine) int {
		if c := cmp.Compare(precedence(b, term), precedence(a, term)); c != 0 {
			return c
		}
		return compareRating(a.Rating, b.Rating)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// precedence is 1 when the name or type equals the term.
func precedence(w wine.Wine, term string) int {
	if term == "" {
		return 0
	}
	if strings.EqualFold(strings.TrimSpace(w.Name), term) || strings.EqualFold(strings.TrimSpace(w.Type), term) {
		return 1
	}
	return 0
}

// compareRating sorts higher ratings first and unknown ratings last.
func compareRating(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*b, *a)
	}
}
