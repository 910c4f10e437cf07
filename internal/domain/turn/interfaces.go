package turn

import (
	"context"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

// SearchEngine runs the named query families.
type SearchEngine interface {
	Search(ctx context.Context, term string, filters wine.Filters) ([]wine.Wine, error)
	ByType(ctx context.Context, wineType string) ([]wine.Wine, error)
	ByWinery(ctx context.Context, winery string) ([]wine.Wine, error)
	ByRegion(ctx context.Context, region string) ([]wine.Wine, error)
	ByPriceRange(ctx context.Context, minPrice, maxPrice *float64) ([]wine.Wine, error)
	ByRating(ctx context.Context, minRating float64) ([]wine.Wine, error)
	ByVintage(ctx context.Context, year int) ([]wine.Wine, error)
	ByPairing(ctx context.Context, food string) ([]wine.Wine, error)
	ByOccasion(ctx context.Context, occasion string) ([]wine.Wine, error)
	RandomPick(ctx context.Context, filters wine.Filters) (wine.Wine, error)
}
