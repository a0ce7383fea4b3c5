// Package config loads digibouquet settings.
//
// Settings come from three layers, later ones winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file (--config, or ~/.config/digibouquet/config.toml if present)
//  3. DIGIBOUQUET_* environment variables
//
// Example file:
//
//	[server]
//	addr = ":8080"
//	base_url = "https://bouquet.example"
//
//	[store]
//	backend = "sqlite"
//	path = "/var/lib/digibouquet/bouquets.db"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/digibouquet/pkg/cache"
	"github.com/matzehuels/digibouquet/pkg/pipeline"
	"github.com/matzehuels/digibouquet/pkg/store"
)

// AppName names the config, cache and data directories.
const AppName = "digibouquet"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DIGIBOUQUET_"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	BaseURL         string        `toml:"base_url"`
	CORSOrigins     []string      `toml:"cors_origins"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes"`
}

// StoreConfig selects the bouquet record backend.
type StoreConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`

	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	RedisTTL      time.Duration `toml:"redis_ttl"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	DisableResilience bool `toml:"disable_resilience"`
}

// CacheConfig selects the layout and artifact cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Style  string  `toml:"style"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			BaseURL:         "http://localhost:8080",
			CORSOrigins:     []string{"*"},
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    64 << 10,
		},
		Store: StoreConfig{
			Backend:         store.BackendFile,
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   AppName,
			MongoCollection: "bouquets",
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
		},
		Render: RenderConfig{
			Style:  pipeline.DefaultStyle,
			Width:  pipeline.DefaultWidth,
			Height: pipeline.DefaultHeight,
		},
		Log: LogConfig{Level: "info"},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load builds a Config from defaults, the TOML file at path and the
// environment. An empty path loads DefaultPath when that file exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case err == nil:
			if err := checkUndecoded(md); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text on top of the defaults. It does not consult the
// environment.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
}

// ApplyEnv overrides fields from DIGIBOUQUET_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	integer := func(name string, dst *int) error {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = n
		}
		return nil
	}

	str("ADDR", &c.Server.Addr)
	str("BASE_URL", &c.Server.BaseURL)
	if v, ok := lookup(EnvPrefix + "CORS_ORIGINS"); ok {
		c.Server.CORSOrigins = splitList(v)
	}

	str("STORE", &c.Store.Backend)
	str("STORE_PATH", &c.Store.Path)
	str("REDIS_ADDR", &c.Store.RedisAddr)
	str("REDIS_PASSWORD", &c.Store.RedisPassword)
	if err := integer("REDIS_DB", &c.Store.RedisDB); err != nil {
		return err
	}
	str("MONGO_URI", &c.Store.MongoURI)
	str("MONGO_DATABASE", &c.Store.MongoDatabase)

	str("CACHE", &c.Cache.Backend)
	str("CACHE_DIR", &c.Cache.Dir)
	str("CACHE_REDIS_ADDR", &c.Cache.RedisAddr)

	str("STYLE", &c.Render.Style)
	str("LOG_LEVEL", &c.Log.Level)
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return fmt.Errorf("server.base_url must start with http:// or https://, got %q", c.Server.BaseURL)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return fmt.Errorf("store.backend must be one of %v, got %q", store.Backends, c.Store.Backend)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return fmt.Errorf("cache.backend must be one of [none file redis], got %q", c.Cache.Backend)
	}
	if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
		return fmt.Errorf("render.style: %w", err)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 ||
		c.Render.Width > pipeline.MaxDimension || c.Render.Height > pipeline.MaxDimension {
		return fmt.Errorf("render frame must be within 1..%g, got %gx%g", pipeline.MaxDimension, c.Render.Width, c.Render.Height)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// =============================================================================
// Factories
// =============================================================================

// StoreOptions converts the store section into a store.Config.
func (c *Config) StoreOptions(logger *log.Logger) (store.Config, error) {
	sc := store.Config{
		Backend:           c.Store.Backend,
		Path:              c.Store.Path,
		DisableResilience: c.Store.DisableResilience,
		Logger:            logger,
		Redis: store.RedisConfig{
			Addr:     c.Store.RedisAddr,
			Password: c.Store.RedisPassword,
			DB:       c.Store.RedisDB,
			TTL:      c.Store.RedisTTL,
		},
		Mongo: store.MongoConfig{
			URI:        c.Store.MongoURI,
			Database:   c.Store.MongoDatabase,
			Collection: c.Store.MongoCollection,
		},
	}
	if sc.Path == "" {
		switch sc.Backend {
		case store.BackendFile:
			dir, err := DataDir()
			if err != nil {
				return sc, err
			}
			sc.Path = filepath.Join(dir, "bouquets")
		case store.BackendSQLite:
			dir, err := DataDir()
			if err != nil {
				return sc, err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return sc, fmt.Errorf("create data dir: %w", err)
			}
			sc.Path = filepath.Join(dir, "bouquets.db")
		}
	}
	return sc, nil
}

// OpenStore opens the configured bouquet store.
func (c *Config) OpenStore(ctx context.Context, logger *log.Logger) (store.Store, error) {
	sc, err := c.StoreOptions(logger)
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, sc)
}

// OpenCache opens the configured cache. A file cache that cannot be created
// degrades to no caching.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   AppName + ":cache:",
		})
	default:
		dir := c.Cache.Dir
		if dir == "" {
			d, err := CacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns ~/.config/digibouquet/config.toml, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns ~/.cache/digibouquet, honoring XDG_CACHE_HOME.
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns ~/.local/share/digibouquet, honoring XDG_DATA_HOME.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
