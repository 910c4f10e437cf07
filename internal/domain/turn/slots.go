package turn

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

// MaxSlotLength caps a sanitized slot value in runes.
const MaxSlotLength = 100

var unsafeChars = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "&", "")

// Sanitize strips markup characters, trims, and caps length.
func Sanitize(value string) string {
	value = strings.TrimSpace(unsafeChars.Replace(value))
	if utf8.RuneCountInString(value) > MaxSlotLength {
		value = strings.TrimSpace(string([]rune(value)[:MaxSlotLength]))
	}
	return value
}

// NormalizeSlots flattens dispatcher slot objects into plain sanitized
// strings. A slot may arrive as a string, a number, or an object carrying a
// "value" field. Nil and blank values are dropped.
func NormalizeSlots(raw map[string]any) Slots {
	out := make(Slots, len(raw))
	for name, v := range raw {
		var s string
		switch val := v.(type) {
		case nil:
			continue
		case string:
			s = val
		case float64:
			s = strconv.FormatFloat(val, 'f', -1, 64)
		case int:
			s = strconv.Itoa(val)
		case map[string]any:
			inner, ok := val["value"]
			if !ok || inner == nil {
				continue
			}
			s = fmt.Sprint(inner)
		default:
			s = fmt.Sprint(val)
		}
		if s = Sanitize(s); s != "" {
			out[name] = s
		}
	}
	return out
}

// Get returns the sanitized value of a slot, or "".
func (s Slots) Get(name string) string {
	if s == nil {
		return ""
	}
	return s[name]
}

// Amount parses a price or rating slot such as "30", "$29.99", or "1,200".
// Unparseable or negative values are treated as absent.
func (s Slots) Amount(name string) *float64 {
	raw := strings.NewReplacer("$", "", ",", "").Replace(wine.Fold(s.Get(name)))
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "dollars"))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Year parses a vintage slot.
func (s Slots) Year(name string) *int {
	v, err := strconv.Atoi(s.Get(name))
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// Filters collects every structured constraint present in the slots.
func (s Slots) Filters() wine.Filters {
	return wine.Filters{
		Type:        s.Get(SlotWineType),
		Region:      s.Get(SlotRegion),
		Winery:      s.Get(SlotWinery),
		MinPrice:    s.Amount(SlotMinPrice),
		MaxPrice:    s.Amount(SlotMaxPrice),
		MinRating:   s.Amount(SlotMinRating),
		Vintage:     s.Year(SlotVintage),
		FoodPairing: s.Get(SlotFood),
		Occasion:    s.Get(SlotOccasion),
	}
}

// Detail is a field a user can ask about for the current wine.
type Detail string

const (
	DetailPrice       Detail = "price"
	DetailRating      Detail = "rating"
	DetailLocation    Detail = "location"
	DetailDescription Detail = "description"
)

// ParseDetail maps an Action slot value, including common synonyms, to a
// Detail.
func ParseDetail(action string) (Detail, bool) {
	switch wine.Fold(action) {
	case "price", "cost", "how much":
		return DetailPrice, true
	case "rating", "score", "points":
		return DetailRating, true
	case "location", "region", "where", "origin", "country":
		return DetailLocation, true
	case "description", "describe", "notes", "tasting notes":
		return DetailDescription, true
	default:
		return "", false
	}
}
