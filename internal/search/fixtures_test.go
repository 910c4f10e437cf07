package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/sommelier/internal/catalog"
	"github.com/rpggio/sommelier/internal/domain/wine"
)

func ptr[T any](v T) *T { return &v }

func caymus() wine.Wine {
	return wine.Wine{
		ID:          "1",
		Name:        "Caymus Cabernet Sauvignon 2021",
		Winery:      ptr("Caymus Vineyards"),
		Type:        "Red",
		Region:      ptr("Napa Valley"),
		Country:     ptr("USA"),
		Vintage:     ptr(2021),
		Price:       ptr(89.99),
		Rating:      ptr(92.0),
		Description: ptr("Rich and velvety."),
		Pairings:    []string{"Steak", "Lamb"},
		Occasions:   []string{"Celebration"},
	}
}

func pinot() wine.Wine {
	return wine.Wine{
		ID:          "2",
		Name:        "Willamette Valley Pinot Noir 2021",
		Winery:      ptr("Willamette Valley Vineyards"),
		Type:        "Red",
		Region:      ptr("Willamette Valley"),
		Country:     ptr("USA"),
		Vintage:     ptr(2021),
		Price:       ptr(32.99),
		Rating:      ptr(90.0),
		Description: ptr("Bright cherry."),
		Pairings:    []string{"Salmon", "Duck"},
		Occasions:   []string{"Weeknight dinner"},
	}
}

func newCatalog(t *testing.T, wines ...wine.Wine) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New("test", wines)
	require.NoError(t, err)
	return cat
}

func names(wines []wine.Wine) []string {
	out := make([]string, 0, len(wines))
	for _, w := range wines {
		out = append(out, w.Name)
	}
	return out
}
