package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Search    SearchConfig    `yaml:"search"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// TransportConfig selects how the MCP dispatcher surface is served.
type TransportConfig struct {
	Mode string `yaml:"mode"` // "http" or "stdio"
}

// AuthConfig guards the HTTP surfaces with static bearer tokens.
type AuthConfig struct {
	Enabled bool     `yaml:"enabled"`
	Tokens  []string `yaml:"tokens"`
}

// CatalogConfig locates the wine catalog.
type CatalogConfig struct {
	Source string `yaml:"source"` // "json" or "sqlite"
	Path   string `yaml:"path"`
	DBPath string `yaml:"db_path"`
}

type SearchConfig struct {
	MaxResults int          `yaml:"max_results"`
	Remote     RemoteConfig `yaml:"remote"`
}

// RemoteConfig configures the optional ranked-match backend.
type RemoteConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Provider       string        `yaml:"provider"` // "elastic" or "sqlite"
	Addresses      []string      `yaml:"addresses"`
	Index          string        `yaml:"index"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     uint          `yaml:"max_retries"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	CandidateLimit int           `yaml:"candidate_limit"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Catalog: CatalogConfig{
			Source: "json",
			Path:   "data/wines.json",
			DBPath: "data/sommelier.db",
		},
		Search: SearchConfig{
			MaxResults: 5,
			Remote: RemoteConfig{
				Provider:       "elastic",
				Addresses:      []string{"http://localhost:9200"},
				Index:          "wines",
				Timeout:        2 * time.Second,
				MaxRetries:     2,
				CacheTTL:       5 * time.Minute,
				CandidateLimit: 50,
			},
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// Load reads configuration from an optional .env file, an optional YAML
// file, and environment variables, in that order of increasing precedence.
func Load() (Config, error) {
	envFile := os.Getenv("SOMMELIER_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("SOMMELIER_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown modes and out-of-range values.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.Catalog.Source {
	case "json", "sqlite":
	default:
		return fmt.Errorf("invalid catalog source %q", c.Catalog.Source)
	}
	if c.Search.Remote.Enabled {
		switch c.Search.Remote.Provider {
		case "elastic", "sqlite":
		default:
			return fmt.Errorf("invalid remote search provider %q", c.Search.Remote.Provider)
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive")
	}
	if c.Auth.Enabled && len(c.Auth.Tokens) == 0 {
		return fmt.Errorf("auth enabled without tokens")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v := os.Getenv(key); v != "" {
			*dst = splitList(v)
		}
	}
	var errs []error
	num := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("SOMMELIER_SERVER_HOST", &cfg.Server.Host)
	num("SOMMELIER_SERVER_PORT", &cfg.Server.Port)
	list("SOMMELIER_SERVER_CORS_ORIGINS", &cfg.Server.CORSOrigins)
	str("SOMMELIER_TRANSPORT_MODE", &cfg.Transport.Mode)
	flag("SOMMELIER_AUTH_ENABLED", &cfg.Auth.Enabled)
	list("SOMMELIER_AUTH_TOKENS", &cfg.Auth.Tokens)
	str("SOMMELIER_CATALOG_SOURCE", &cfg.Catalog.Source)
	str("SOMMELIER_CATALOG_PATH", &cfg.Catalog.Path)
	str("SOMMELIER_CATALOG_DB_PATH", &cfg.Catalog.DBPath)
	num("SOMMELIER_SEARCH_MAX_RESULTS", &cfg.Search.MaxResults)
	flag("SOMMELIER_SEARCH_REMOTE_ENABLED", &cfg.Search.Remote.Enabled)
	str("SOMMELIER_SEARCH_REMOTE_PROVIDER", &cfg.Search.Remote.Provider)
	list("SOMMELIER_SEARCH_REMOTE_ADDRESSES", &cfg.Search.Remote.Addresses)
	str("SOMMELIER_SEARCH_REMOTE_INDEX", &cfg.Search.Remote.Index)
	str("SOMMELIER_SEARCH_REMOTE_USERNAME", &cfg.Search.Remote.Username)
	str("SOMMELIER_SEARCH_REMOTE_PASSWORD", &cfg.Search.Remote.Password)
	duration("SOMMELIER_SEARCH_REMOTE_TIMEOUT", &cfg.Search.Remote.Timeout)
	duration("SOMMELIER_SEARCH_REMOTE_CACHE_TTL", &cfg.Search.Remote.CacheTTL)
	str("SOMMELIER_LOG_LEVEL", &cfg.Log.Level)
	str("SOMMELIER_LOG_PATH", &cfg.Log.Path)

	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
