package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/sommelier/internal/domain/wine"
	"github.com/rpggio/sommelier/internal/search"
)

// SearchRepository ranks catalog wines with SQLite FTS5. It implements
// search.Provider so it can stand in for a remote index.
type SearchRepository struct {
	db *DB
}

// NewSearchRepository creates a new SearchRepository
func NewSearchRepository(db *DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search returns wine ids in bm25 order for a term, or rating order when only
// filters are given.
func (r *SearchRepository) Search(ctx context.Context, req search.ProviderRequest) ([]wine.ID, error) {
	var (
		query string
		args  []any
	)
	match := matchExpr(req.Term)
	if match != "" {
		query = `
			SELECT w.id
			FROM wines_fts
			JOIN wines w ON w.rowid = wines_fts.rowid
			WHERE wines_fts MATCH ?
		`
		args = append(args, match)
	} else {
		query = `SELECT w.id FROM wines w WHERE 1 = 1`
	}

	conditions, filterArgs := filterConditions(req.Filters)
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
		args = append(args, filterArgs...)
	}

	if match != "" {
		// name weighs three times the other columns
		query += " ORDER BY bm25(wines_fts, 3.0, 1.0, 1.0, 1.0, 1.0, 1.0), w.position"
	} else {
		query += " ORDER BY w.rating IS NULL, w.rating DESC, w.position"
	}

	limit := req.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search wines: %w", err)
	}
	defer rows.Close()

	ids := []wine.ID{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		ids = append(ids, wine.ID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}
	return ids, nil
}

// matchExpr turns free text into an FTS5 expression of quoted prefix terms.
func matchExpr(term string) string {
	fields := strings.Fields(strings.ReplaceAll(term, `"`, " "))
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, `"`+f+`"*`)
	}
	return strings.Join(parts, " ")
}

func filterConditions(f wine.Filters) ([]string, []any) {
	var (
		conditions []string
		args       []any
	)
	like := func(column, value string) {
		if v := wine.Fold(value); v != "" {
			conditions = append(conditions, fmt.Sprintf("LOWER(COALESCE(w.%s, '')) LIKE ?", column))
			args = append(args, "%"+v+"%")
		}
	}
	like("type", f.Type)
	like("region", f.Region)
	like("winery", f.Winery)
	like("pairings", f.FoodPairing)
	like("occasions", f.Occasion)

	if f.MinPrice != nil {
		conditions = append(conditions, "w.price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, "w.price <= ?")
		args = append(args, *f.MaxPrice)
	}
	if f.MinRating != nil {
		conditions = append(conditions, "w.rating >= ?")
		args = append(args, *f.MinRating)
	}
	if f.Vintage != nil {
		conditions = append(conditions, "w.vintage = ?")
		args = append(args, *f.Vintage)
	}
	return conditions, args
}
