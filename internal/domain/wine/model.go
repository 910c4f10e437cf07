package wine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is a stable wine identifier. Catalog sources may carry ids as JSON
// strings or integers; both decode to the same string form.
type ID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("wine id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Wine is a single catalog entry. It is immutable once loaded.
//
// Optional attributes are pointers: nil is the "unknown" sentinel and is
// never conflated with a present-but-blank value.
type Wine struct {
	ID             ID       `json:"id" validate:"required"`
	Name           string   `json:"name" validate:"required"`
	Type           string   `json:"type" validate:"required"`
	Winery         *string  `json:"winery,omitempty"`
	Region         *string  `json:"region,omitempty"`
	Country        *string  `json:"country,omitempty"`
	Vintage        *int     `json:"vintage,omitempty" validate:"omitempty,gte=1000,lte=9999"`
	Price          *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Rating         *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=100"`
	Description    *string  `json:"description,omitempty"`
	TastingNotes   *string  `json:"tasting_notes,omitempty"`
	AlcoholContent *float64 `json:"alcohol_content,omitempty" validate:"omitempty,gte=0,lte=100"`
	ImageURL       *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Pairings       []string `json:"pairings,omitempty"`
	Occasions      []string `json:"occasions,omitempty"`
}

// Text returns the value of an optional text attribute, or "" when unknown.
func Text(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// Normalize trims text attributes and turns blank optional values into the
// unknown sentinel. It returns a copy; the receiver is not modified.
func (w Wine) Normalize() Wine {
	w.ID = ID(strings.TrimSpace(string(w.ID)))
	w.Name = strings.TrimSpace(w.Name)
	w.Type = strings.TrimSpace(w.Type)
	w.Winery = normalizeText(w.Winery)
	w.Region = normalizeText(w.Region)
	w.Country = normalizeText(w.Country)
	w.Description = normalizeText(w.Description)
	w.TastingNotes = normalizeText(w.TastingNotes)
	w.ImageURL = normalizeText(w.ImageURL)
	w.Pairings = normalizeSet(w.Pairings)
	w.Occasions = normalizeSet(w.Occasions)
	return w
}

func normalizeText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
