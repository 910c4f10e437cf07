// Command ingest loads a JSON catalog document into the SQLite catalog store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/sommelier/internal/catalog"
	"github.com/rpggio/sommelier/internal/config"
	"github.com/rpggio/sommelier/internal/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	src := flag.String("from", cfg.Catalog.Path, "JSON catalog document to load")
	dst := flag.String("db", cfg.Catalog.DBPath, "SQLite database to write")
	version := flag.String("version", "", "catalog version tag (defaults to the document's)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(context.Background(), logger, *src, *dst, *version); err != nil {
		logger.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, src, dst, version string) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cat, err := catalog.Load(ctx, catalog.JSONFile(src), logger)
	if err != nil {
		return err
	}
	if version == "" {
		version = cat.Version()
	}

	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sqlite.New(dst)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		return err
	}

	if err := sqlite.NewWineRepository(db).Replace(ctx, version, cat.All()); err != nil {
		return err
	}
	logger.Info("catalog ingested", "from", src, "db", dst, "version", version, "wines", cat.Len())
	return nil
}
