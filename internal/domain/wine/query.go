package wine

import (
	"fmt"
	"strings"
)

// Filters holds optional structured constraints. A nil or blank field means
// "no constraint", never "match empty".
type Filters struct {
	Type        string   `json:"type,omitempty"`
	Region      string   `json:"region,omitempty"`
	Winery      string   `json:"winery,omitempty"`
	MinPrice    *float64 `json:"min_price,omitempty"`
	MaxPrice    *float64 `json:"max_price,omitempty"`
	MinRating   *float64 `json:"min_rating,omitempty"`
	Vintage     *int     `json:"vintage,omitempty"`
	FoodPairing string   `json:"food_pairing,omitempty"`
	Occasion    string   `json:"occasion,omitempty"`
}

// IsEmpty reports whether no constraint is set.
func (f Filters) IsEmpty() bool {
	return strings.TrimSpace(f.Type) == "" &&
		strings.TrimSpace(f.Region) == "" &&
		strings.TrimSpace(f.Winery) == "" &&
		f.MinPrice == nil &&
		f.MaxPrice == nil &&
		f.MinRating == nil &&
		f.Vintage == nil &&
		strings.TrimSpace(f.FoodPairing) == "" &&
		strings.TrimSpace(f.Occasion) == ""
}

// Matches reports whether w satisfies every set constraint.
func (f Filters) Matches(w Wine) bool {
	if !containsFold(w.Type, f.Type) {
		return false
	}
	if !containsFold(Text(w.Region), f.Region) {
		return false
	}
	if !containsFold(Text(w.Winery), f.Winery) {
		return false
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		if w.Price == nil {
			return false
		}
		if f.MinPrice != nil && *w.Price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && *w.Price > *f.MaxPrice {
			return false
		}
	}
	if f.MinRating != nil {
		if w.Rating == nil || *w.Rating < *f.MinRating {
			return false
		}
	}
	if f.Vintage != nil {
		if w.Vintage == nil || *w.Vintage != *f.Vintage {
			return false
		}
	}
	if !anyContainsFold(w.Pairings, f.FoodPairing) {
		return false
	}
	if !anyContainsFold(w.Occasions, f.Occasion) {
		return false
	}
	return true
}

// String renders the set constraints in a stable order.
func (f Filters) String() string {
	var parts []string
	add := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			parts = append(parts, key+"="+Fold(value))
		}
	}
	add("type", f.Type)
	add("region", f.Region)
	add("winery", f.Winery)
	if f.MinPrice != nil {
		parts = append(parts, fmt.Sprintf("min_price=%g", *f.MinPrice))
	}
	if f.MaxPrice != nil {
		parts = append(parts, fmt.Sprintf("max_price=%g", *f.MaxPrice))
	}
	if f.MinRating != nil {
		parts = append(parts, fmt.Sprintf("min_rating=%g", *f.MinRating))
	}
	if f.Vintage != nil {
		parts = append(parts, fmt.Sprintf("vintage=%d", *f.Vintage))
	}
	add("food", f.FoodPairing)
	add("occasion", f.Occasion)
	return strings.Join(parts, "&")
}

// Query is a free-text term plus optional structured filters.
type Query struct {
	Term    string  `json:"term,omitempty"`
	Filters Filters `json:"filters"`
}

// Validate returns ErrInvalidQuery when neither a term nor a filter is set.
func (q Query) Validate() error {
	if Fold(q.Term) == "" && q.Filters.IsEmpty() {
		return ErrInvalidQuery
	}
	return nil
}

// Key identifies the query for caching.
func (q Query) Key() string {
	return Fold(q.Term) + "|" + q.Filters.String()
}

// Fold case-folds and trims a term for matching.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsFold(field, term string) bool {
	term = Fold(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), term)
}

func anyContainsFold(values []string, term string) bool {
	term = Fold(term)
	if term == "" {
		return true
	}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}
