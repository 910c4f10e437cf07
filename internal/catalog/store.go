package catalog

import (
	"context"
	"fmt"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

// WineStore provides catalog rows from a database-backed store.
type WineStore interface {
	Version(ctx context.Context) (string, error)
	List(ctx context.Context) ([]wine.Wine, error)
}

type storeSource struct {
	name  string
	store WineStore
}

// Store reads the catalog from a database-backed store.
func Store(name string, store WineStore) Source {
	return &storeSource{name: name, store: store}
}

func (s *storeSource) Name() string { return s.name }

func (s *storeSource) Read(ctx context.Context) (Document, error) {
	version, err := s.store.Version(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("read catalog version: %w", err)
	}
	wines, err := s.store.List(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("list wines: %w", err)
	}
	if wines == nil {
		wines = []wine.Wine{}
	}
	return Document{Version: version, Wines: wines}, nil
}
