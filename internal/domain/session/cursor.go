package session

import (
	"slices"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

// New returns an empty cursor.
func New() *Cursor {
	return &Cursor{state: StateEmpty}
}

// State reports the current state.
func (c *Cursor) State() State { return c.state }

// Position reports the zero-based position; it is 0 when empty.
func (c *Cursor) Position() int { return c.position }

// Len reports the size of the active result list.
func (c *Cursor) Len() int { return len(c.results) }

// Results returns a copy of the active result list.
func (c *Cursor) Results() []wine.Wine { return slices.Clone(c.results) }

// LoadResults replaces any prior list. A non-empty list starts browsing at
// position 0; an empty list resets the cursor.
func (c *Cursor) LoadResults(list []wine.Wine) {
	if len(list) == 0 {
		c.Reset()
		return
	}
	c.state = StateBrowsing
	c.results = slices.Clone(list)
	c.position = 0
}

// Reset drops the active list.
func (c *Cursor) Reset() {
	c.state = StateEmpty
	c.results = nil
	c.position = 0
}

// Current returns the wine at the current position.
func (c *Cursor) Current() (wine.Wine, error) {
	switch c.state {
	case StateBrowsing:
		return c.results[c.position], nil
	case StateEmpty:
		return wine.Wine{}, wine.ErrNoActiveSession
	default:
		panic("session: unknown cursor state " + c.state.String())
	}
}

// Next advances one position. At the last position it returns the current
// wine with ErrEndOfList and does not move.
func (c *Cursor) Next() (wine.Wine, error) {
	switch c.state {
	case StateBrowsing:
		if c.position >= len(c.results)-1 {
			return c.results[c.position], ErrEndOfList
		}
		c.position++
		return c.results[c.position], nil
	case StateEmpty:
		return wine.Wine{}, wine.ErrNoActiveSession
	default:
		panic("session: unknown cursor state " + c.state.String())
	}
}

// Previous moves back one position. At position 0 it returns the current
// wine with ErrStartOfList and does not move.
func (c *Cursor) Previous() (wine.Wine, error) {
	switch c.state {
	case StateBrowsing:
		if c.position <= 0 {
			return c.results[c.position], ErrStartOfList
		}
		c.position--
		return c.results[c.position], nil
	case StateEmpty:
		return wine.Wine{}, wine.ErrNoActiveSession
	default:
		panic("session: unknown cursor state " + c.state.String())
	}
}

// Restart returns to the first result.
func (c *Cursor) Restart() (wine.Wine, error) {
	switch c.state {
	case StateBrowsing:
		c.position = 0
		return c.results[0], nil
	case StateEmpty:
		return wine.Wine{}, wine.ErrNoActiveSession
	default:
		panic("session: unknown cursor state " + c.state.String())
	}
}
