// Package app assembles the assistant from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/sommelier/internal/catalog"
	"github.com/rpggio/sommelier/internal/config"
	"github.com/rpggio/sommelier/internal/domain/turn"
	"github.com/rpggio/sommelier/internal/mcp"
	"github.com/rpggio/sommelier/internal/search"
	"github.com/rpggio/sommelier/internal/search/elastic"
	"github.com/rpggio/sommelier/internal/sqlite"
	"github.com/rpggio/sommelier/internal/transport"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// App holds the wired components.
type App struct {
	Config   config.Config
	Catalog  *catalog.Catalog
	Engine   *search.Engine
	Turns    *turn.Service
	MCP      *sdkmcp.Server
	DB       *sqlite.DB // nil unless the catalog or search needs SQLite
	verifier *transport.StaticTokens
	logger   *slog.Logger
}

// Build loads the catalog and wires search, the dispatcher and the MCP server.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &App{
		Config:   cfg,
		verifier: transport.NewStaticTokens(cfg.Auth.Tokens),
		logger:   logger,
	}

	var err error
	if cfg.Catalog.Source == "sqlite" {
		if err := a.openDB(); err != nil {
			return nil, err
		}
		a.Catalog, err = catalog.Load(ctx, catalog.Store("sqlite:"+cfg.Catalog.DBPath, sqlite.NewWineRepository(a.DB)), logger)
	} else {
		a.Catalog, err = catalog.Load(ctx, catalog.JSONFile(cfg.Catalog.Path), logger)
	}
	if err != nil {
		a.Close()
		return nil, err
	}

	matcher, err := a.matcher(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Engine = search.NewEngine(matcher, a.Catalog, cfg.Search.MaxResults, logger)
	a.Turns = turn.NewService(a.Engine, logger)
	a.MCP = mcp.NewServer(mcp.Config{
		Turns:         a.Turns,
		Catalog:       a.Catalog,
		Verifier:      a.verifier,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Version:       Version,
		Logger:        logger,
	})
	return a, nil
}

func (a *App) matcher(ctx context.Context) (search.Matcher, error) {
	local := search.NewLocalMatcher(a.Catalog)
	remote := a.Config.Search.Remote
	if !remote.Enabled {
		return local, nil
	}

	var provider search.Provider
	switch remote.Provider {
	case "elastic":
		p, err := elastic.New(elastic.Config{
			Addresses: remote.Addresses,
			Index:     remote.Index,
			Username:  remote.Username,
			Password:  remote.Password,
		})
		if err != nil {
			return nil, err
		}
		provider = p
	case "sqlite":
		if a.DB == nil {
			if err := a.openDB(); err != nil {
				return nil, err
			}
		}
		// A JSON catalog is mirrored into SQLite so FTS sees the same wines.
		if a.Config.Catalog.Source != "sqlite" {
			repo := sqlite.NewWineRepository(a.DB)
			if err := repo.Replace(ctx, a.Catalog.Version(), a.Catalog.All()); err != nil {
				return nil, fmt.Errorf("mirror catalog into sqlite: %w", err)
			}
		}
		provider = sqlite.NewSearchRepository(a.DB)
	default:
		return nil, fmt.Errorf("unknown search provider %q", remote.Provider)
	}

	a.logger.Info("remote search enabled", "provider", remote.Provider)
	return search.NewRemoteMatcher(provider, a.Catalog, local, search.RemoteConfig{
		Timeout:        remote.Timeout,
		MaxRetries:     remote.MaxRetries,
		CacheTTL:       remote.CacheTTL,
		CandidateLimit: remote.CandidateLimit,
	}, a.logger), nil
}

func (a *App) openDB() error {
	if err := ensureDBDir(a.Config.Catalog.DBPath); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(a.Config.Catalog.DBPath)
	if err != nil {
		return err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return err
	}
	a.DB = db
	return nil
}

// HTTPHandler serves the JSON-RPC webhook, the MCP endpoint and /health.
func (a *App) HTTPHandler() http.Handler {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return a.MCP },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	var auth func(http.Handler) http.Handler
	if a.Config.Auth.Enabled {
		auth = transport.AuthMiddleware(a.verifier)
	}
	return transport.NewServer(transport.Options{
		Turns:          a.Turns,
		Auth:           auth,
		MCP:            mcpHandler,
		AllowedOrigins: a.Config.Server.CORSOrigins,
		Logger:         a.logger,
	})
}

// Close releases the database, if one was opened.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
