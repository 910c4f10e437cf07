package catalog

import (
	"github.com/rpggio/sommelier/internal/domain/wine"
)

// Catalog is the in-memory wine corpus. It is built once by Load and is
// never mutated afterwards, so it is safe for concurrent readers.
type Catalog struct {
	version string
	wines   []wine.Wine
	byID    map[wine.ID]int
}

// New builds a catalog from wines using the same validation as Load.
func New(version string, wines []wine.Wine) (*Catalog, error) {
	if wines == nil {
		wines = []wine.Wine{}
	}
	return build(Document{Version: version, Wines: wines})
}

// Version returns the catalog document's version tag.
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of wines.
func (c *Catalog) Len() int {
	return len(c.wines)
}

// All returns the wines in catalog order. Callers must not modify the slice.
func (c *Catalog) All() []wine.Wine {
	return c.wines
}

// Get returns the wine with the given id.
func (c *Catalog) Get(id wine.ID) (wine.Wine, error) {
	idx, ok := c.byID[id]
	if !ok {
		return wine.Wine{}, wine.ErrNotFound
	}
	return c.wines[idx], nil
}
