package search

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

// Engine exposes the named query families. It holds no per-session state.
type Engine struct {
	matcher Matcher
	corpus  Corpus
	limit   int
	intn    func(n int) int
	logger  *slog.Logger
}

// NewEngine creates a search engine. matcher produces candidates (local or
// remote-with-fallback); corpus backs random picks.
func NewEngine(matcher Matcher, corpus Corpus, limit int, logger *slog.Logger) *Engine {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		matcher: matcher,
		corpus:  corpus,
		limit:   limit,
		intn:    rand.IntN,
		logger:  logger,
	}
}

// Search runs a free-text query with optional filters.
func (e *Engine) Search(ctx context.Context, term string, filters wine.Filters) ([]wine.Wine, error) {
	return e.run(ctx, wine.Query{Term: term, Filters: filters})
}

// ByType searches by wine type (e.g. red, sparkling).
func (e *Engine) ByType(ctx context.Context, wineType string) ([]wine.Wine, error) {
	if err := required(wineType); err != nil {
		return nil, err
	}
	return e.run(ctx, wine.Query{Filters: wine.Filters{Type: wineType}})
}

// ByWinery searches by producer.
func (e *Engine) ByWinery(ctx context.Context, winery string) ([]wine.Wine, error) {
	if err := required(winery); err != nil {
		return nil, err
	}
	return e.run(ctx, wine.Query{Filters: wine.Filters{Winery: winery}})
}

// ByRegion searches by region.
func (e *Engine) ByRegion(ctx context.Context, region string) ([]wine.Wine, error) {
	if err := required(region); err != nil {
		return nil, err
	}
	return e.run(ctx, wine.Query{Filters: wine.Filters{Region: region}})
}

// ByPriceRange searches within inclusive price bounds; at least one bound is
// required. Inverted bounds are accepted and match nothing.
func (e *Engine) ByPriceRange(ctx context.Context, minPrice, maxPrice *float64) ([]wine.Wine, error) {
	if minPrice == nil && maxPrice == nil {
		return nil, wine.ErrInvalidQuery
	}
	return e.run(ctx, wine.Query{Filters: wine.Filters{MinPrice: minPrice, MaxPrice: maxPrice}})
}

// ByRating searches for wines rated at least minRating.
func (e *Engine) ByRating(ctx context.Context, minRating float64) ([]wine.Wine, error) {
	return e.run(ctx, wine.Query{Filters: wine.Filters{MinRating: &minRating}})
}

// ByVintage searches for an exact vintage year.
func (e *Engine) ByVintage(ctx context.Context, year int) ([]wine.Wine, error) {
	if year <= 0 {
		return nil, wine.ErrInvalidQuery
	}
	return e.run(ctx, wine.Query{Filters: wine.Filters{Vintage: &year}})
}

// ByPairing searches for wines that pair with a food.
func (e *Engine) ByPairing(ctx context.Context, food string) ([]wine.Wine, error) {
	if err := required(food); err != nil {
		return nil, err
	}
	return e.run(ctx, wine.Query{Filters: wine.Filters{FoodPairing: food}})
}

// ByOccasion searches for wines suited to an occasion.
func (e *Engine) ByOccasion(ctx context.Context, occasion string) ([]wine.Wine, error) {
	if err := required(occasion); err != nil {
		return nil, err
	}
	return e.run(ctx, wine.Query{Filters: wine.Filters{Occasion: occasion}})
}

// RandomPick chooses uniformly among wines satisfying filters. Empty filters
// select from the whole catalog.
func (e *Engine) RandomPick(_ context.Context, filters wine.Filters) (wine.Wine, error) {
	var candidates []wine.Wine
	for _, w := range e.corpus.All() {
		if filters.Matches(w) {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return wine.Wine{}, wine.ErrNoMatch
	}
	return candidates[e.intn(len(candidates))], nil
}

func (e *Engine) run(ctx context.Context, q wine.Query) ([]wine.Wine, error) {
	candidates, err := e.matcher.Match(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("matching wines: %w", err)
	}
	results := Rank(candidates, q.Term, e.limit)
	e.logger.Debug("search complete", "term", q.Term, "filters", q.Filters.String(), "candidates", len(candidates), "results", len(results))
	return results, nil
}

func required(value string) error {
	if strings.TrimSpace(value) == "" {
		return wine.ErrInvalidQuery
	}
	return nil
}
