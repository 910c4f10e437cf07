package search

import (
	"context"
	"strings"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

// Matcher returns the unordered set of wines satisfying a query.
type Matcher interface {
	Match(ctx context.Context, q wine.Query) ([]wine.Wine, error)
}

// Corpus is the read-only catalog view the matchers need.
type Corpus interface {
	All() []wine.Wine
	Get(id wine.ID) (wine.Wine, error)
}

// LocalMatcher matches against the in-memory catalog.
type LocalMatcher struct {
	corpus Corpus
}

// NewLocalMatcher creates a matcher over corpus.
func NewLocalMatcher(corpus Corpus) *LocalMatcher {
	return &LocalMatcher{corpus: corpus}
}

// Match applies the free-text term (substring of any text field) and then
// the structured filters as a conjunction.
func (m *LocalMatcher) Match(_ context.Context, q wine.Query) ([]wine.Wine, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	term := wine.Fold(q.Term)
	var out []wine.Wine
	for _, w := range m.corpus.All() {
		if term != "" && !matchesTerm(w, term) {
			continue
		}
		if !q.Filters.Matches(w) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func matchesTerm(w wine.Wine, term string) bool {
	fields := [...]string{
		w.Name,
		wine.Text(w.Winery),
		w.Type,
		wine.Text(w.Region),
		wine.Text(w.Country),
		wine.Text(w.Description),
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
