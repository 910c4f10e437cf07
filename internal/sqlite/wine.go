package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

// ErrDuplicateWine indicates two wines share an id.
var ErrDuplicateWine = errors.New("duplicate wine id")

const versionKey = "version"

const wineColumns = `id, name, type, winery, region, country, vintage, price, rating,
	description, tasting_notes, alcohol_content, image_url, pairings, occasions`

// WineRepository stores the catalog. It implements catalog.WineStore.
type WineRepository struct {
	db *DB
}

// NewWineRepository creates a new WineRepository
func NewWineRepository(db *DB) *WineRepository {
	return &WineRepository{db: db}
}

// Replace swaps the whole catalog for wines in one transaction, keeping
// their order.
func (r *WineRepository) Replace(ctx context.Context, version string, wines []wine.Wine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM wines`); err != nil {
		return fmt.Errorf("failed to clear wines: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO wines (position, `+wineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, w := range wines {
		args, err := wineArgs(w)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, append([]any{i}, args...)...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrDuplicateWine, w.ID)
			}
			return fmt.Errorf("failed to insert wine %s: %w", w.ID, err)
		}
	}

	if err := setVersion(ctx, tx, version); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

// Upsert inserts or updates a single wine. New wines go to the end.
func (r *WineRepository) Upsert(ctx context.Context, w wine.Wine) error {
	args, err := wineArgs(w)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO wines (position, ` + wineColumns + `)
		VALUES ((SELECT COALESCE(MAX(position), -1) + 1 FROM wines), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			winery = excluded.winery,
			region = excluded.region,
			country = excluded.country,
			vintage = excluded.vintage,
			price = excluded.price,
			rating = excluded.rating,
			description = excluded.description,
			tasting_notes = excluded.tasting_notes,
			alcohol_content = excluded.alcohol_content,
			image_url = excluded.image_url,
			pairings = excluded.pairings,
			occasions = excluded.occasions,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert wine: %w", err)
	}
	return nil
}

// Get retrieves a wine by ID
func (r *WineRepository) Get(ctx context.Context, id wine.ID) (wine.Wine, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+wineColumns+` FROM wines WHERE id = ?`, string(id))
	w, err := scanWine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return wine.Wine{}, wine.ErrNotFound
	}
	if err != nil {
		return wine.Wine{}, fmt.Errorf("failed to get wine: %w", err)
	}
	return w, nil
}

// List returns every wine in catalog order.
func (r *WineRepository) List(ctx context.Context) ([]wine.Wine, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+wineColumns+` FROM wines ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list wines: %w", err)
	}
	defer rows.Close()

	wines := []wine.Wine{}
	for rows.Next() {
		w, err := scanWine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wine: %w", err)
		}
		wines = append(wines, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wines: %w", err)
	}
	return wines, nil
}

// Version returns the stored catalog version, or "" when none is set.
func (r *WineRepository) Version(ctx context.Context) (string, error) {
	var version string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM catalog_meta WHERE key = ?`, versionKey).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get catalog version: %w", err)
	}
	return version, nil
}

// SetVersion records the catalog version tag.
func (r *WineRepository) SetVersion(ctx context.Context, version string) error {
	return setVersion(ctx, r.db, version)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setVersion(ctx context.Context, db execer, version string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO catalog_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, versionKey, version)
	if err != nil {
		return fmt.Errorf("failed to set catalog version: %w", err)
	}
	return nil
}

func wineArgs(w wine.Wine) ([]any, error) {
	pairings, err := encodeSet(w.Pairings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pairings for %s: %w", w.ID, err)
	}
	occasions, err := encodeSet(w.Occasions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode occasions for %s: %w", w.ID, err)
	}
	return []any{
		string(w.ID),
		w.Name,
		w.Type,
		nullable(w.Winery),
		nullable(w.Region),
		nullable(w.Country),
		nullable(w.Vintage),
		nullable(w.Price),
		nullable(w.Rating),
		nullable(w.Description),
		nullable(w.TastingNotes),
		nullable(w.AlcoholContent),
		nullable(w.ImageURL),
		pairings,
		occasions,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWine(s scanner) (wine.Wine, error) {
	var (
		w                                                      wine.Wine
		id                                                     string
		winery, region, country, description, notes, imageURL sql.NullString
		vintage                                                sql.NullInt64
		price, rating, abv                                     sql.NullFloat64
		pairings, occasions                                    string
	)
	err := s.Scan(
		&id,
		&w.Name,
		&w.Type,
		&winery,
		&region,
		&country,
		&vintage,
		&price,
		&rating,
		&description,
		&notes,
		&abv,
		&imageURL,
		&pairings,
		&occasions,
	)
	if err != nil {
		return wine.Wine{}, err
	}

	w.ID = wine.ID(id)
	w.Winery = nullString(winery)
	w.Region = nullString(region)
	w.Country = nullString(country)
	w.Description = nullString(description)
	w.TastingNotes = nullString(notes)
	w.ImageURL = nullString(imageURL)
	w.Price = nullFloat(price)
	w.Rating = nullFloat(rating)
	w.AlcoholContent = nullFloat(abv)
	if vintage.Valid {
		v := int(vintage.Int64)
		w.Vintage = &v
	}
	if w.Pairings, err = decodeSet(pairings); err != nil {
		return wine.Wine{}, fmt.Errorf("pairings for %s: %w", id, err)
	}
	if w.Occasions, err = decodeSet(occasions); err != nil {
		return wine.Wine{}, fmt.Errorf("occasions for %s: %w", id, err)
	}
	return w, nil
}

// nullable binds nil as NULL and anything else by value.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func encodeSet(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeSet(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}
