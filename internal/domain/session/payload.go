package session

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

// FromPayload reconstructs a cursor. A payload without a wine list yields an
// empty cursor. A list or position that cannot be decoded, or a position
// outside the list, yields ErrInvalidPayload.
func FromPayload(p Payload) (*Cursor, error) {
	c := New()
	raw, ok := p[KeyWineList]
	if !ok || raw == nil {
		return c, nil
	}

	list, err := decodeList(raw)
	if err != nil {
		return New(), err
	}
	if len(list) == 0 {
		return c, nil
	}

	position := 0
	if rawPos, ok := p[KeyPosition]; ok && rawPos != nil {
		position, err = decodePosition(rawPos)
		if err != nil {
			return New(), err
		}
	}
	if position < 0 || position >= len(list) {
		return New(), fmt.Errorf("%w: position %d outside list of %d", ErrInvalidPayload, position, len(list))
	}

	c.state = StateBrowsing
	c.results = list
	c.position = position
	return c, nil
}

// Save writes the cursor state into a copy of p and returns it. Keys the
// cursor does not own are carried over unchanged.
func (c *Cursor) Save(p Payload) Payload {
	out := make(Payload, len(p)+2)
	maps.Copy(out, p)

	switch c.state {
	case StateBrowsing:
		out[KeyWineList] = c.Results()
		out[KeyPosition] = c.position
	case StateEmpty:
		delete(out, KeyWineList)
		delete(out, KeyPosition)
	}
	return out
}

func decodeList(raw any) ([]wine.Wine, error) {
	if list, ok := raw.([]wine.Wine); ok {
		return list, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, KeyWineList, err)
	}
	var list []wine.Wine
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, KeyWineList, err)
	}
	return list, nil
}

func decodePosition(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrInvalidPayload, KeyPosition)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", ErrInvalidPayload, KeyPosition, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s has type %T", ErrInvalidPayload, KeyPosition, raw)
	}
}
