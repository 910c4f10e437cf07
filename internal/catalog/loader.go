package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

// LoadError describes a fatal catalog load failure.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{wine.ErrLoad, e.Err}
}

// Document is the catalog source layout: a version tag plus ordered wines.
type Document struct {
	Version  string      `json:"version"`
	Metadata *metadata   `json:"metadata,omitempty"`
	Wines    []wine.Wine `json:"wines"`
}

type metadata struct {
	Version string `json:"version"`
}

// Source produces a catalog document.
type Source interface {
	Name() string
	Read(ctx context.Context) (Document, error)
}

// Load reads every record from src, validates it, and builds the catalog.
// Any failure rejects the whole load; no partial catalog is returned.
func Load(ctx context.Context, src Source, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	doc, err := src.Read(ctx)
	if err != nil {
		return nil, &LoadError{Source: src.Name(), Err: err}
	}

	cat, err := build(doc)
	if err != nil {
		return nil, &LoadError{Source: src.Name(), Err: err}
	}

	logger.Info("catalog loaded", "source", src.Name(), "version", cat.version, "wines", cat.Len())
	return cat, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func build(doc Document) (*Catalog, error) {
	if doc.Wines == nil {
		return nil, errors.New("document has no wines list")
	}

	version := doc.Version
	if version == "" && doc.Metadata != nil {
		version = doc.Metadata.Version
	}
	if version == "" {
		version = "unknown"
	}

	cat := &Catalog{
		version: version,
		wines:   make([]wine.Wine, 0, len(doc.Wines)),
		byID:    make(map[wine.ID]int, len(doc.Wines)),
	}
	for i, raw := range doc.Wines {
		w := raw.Normalize()
		if err := validate.Struct(w); err != nil {
			return nil, fmt.Errorf("wine %d (id %q): %w", i, w.ID, err)
		}
		if _, dup := cat.byID[w.ID]; dup {
			return nil, fmt.Errorf("wine %d: duplicate id %q", i, w.ID)
		}
		cat.byID[w.ID] = len(cat.wines)
		cat.wines = append(cat.wines, w)
	}
	return cat, nil
}

type readerSource struct {
	name string
	r    io.Reader
}

// JSONReader reads a catalog document from r.
func JSONReader(r io.Reader, name string) Source {
	return &readerSource{name: name, r: r}
}

func (s *readerSource) Name() string { return s.name }

func (s *readerSource) Read(_ context.Context) (Document, error) {
	return decodeDocument(s.r)
}

type fileSource struct {
	path string
}

// JSONFile reads a catalog document from a file.
func JSONFile(path string) Source {
	return &fileSource{path: path}
}

func (s *fileSource) Name() string { return s.path }

func (s *fileSource) Read(_ context.Context) (Document, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return Document{}, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return decodeDocument(f)
}

func decodeDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("parse catalog: %w", err)
	}
	return doc, nil
}
