package testserver

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/sommelier/internal/app"
	"github.com/rpggio/sommelier/internal/config"
)

type TestServer struct {
	Server *httptest.Server
	App    *app.App
	Token  string
}

// CatalogPath is the absolute path of the shared test catalog.
func CatalogPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "testdata", "wines.json")
}

// Config returns a configuration serving the test catalog with SQLite FTS
// as the ranked-match backend and token auth enabled.
func Config(token string) config.Config {
	cfg := config.Default()
	cfg.Auth.Enabled = true
	cfg.Auth.Tokens = []string{"test-client=" + token}
	cfg.Catalog.Path = CatalogPath()
	cfg.Catalog.DBPath = ":memory:"
	cfg.Search.Remote.Enabled = true
	cfg.Search.Remote.Provider = "sqlite"
	cfg.Search.Remote.Timeout = time.Second
	return cfg
}

func New(t *testing.T, token string) *TestServer {
	t.Helper()
	return NewWithConfig(t, token, Config(token))
}

func NewWithConfig(t *testing.T, token string, cfg config.Config) *TestServer {
	t.Helper()

	a, err := app.Build(context.Background(), cfg, nil)
	require.NoError(t, err)

	server := httptest.NewServer(a.HTTPHandler())

	t.Cleanup(func() {
		server.Close()
		_ = a.Close()
	})

	return &TestServer{
		Server: server,
		App:    a,
		Token:  token,
	}
}
