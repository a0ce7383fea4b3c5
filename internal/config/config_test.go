package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/digibouquet/pkg/store"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[server]
addr = ":9090"
base_url = "https://bouquet.example"
read_timeout = "3s"

[store]
backend = "sqlite"
path = "/tmp/b.db"

[cache]
backend = "none"

[render]
style = "simple"
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.BaseURL != "https://bouquet.example" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("ReadTimeout = %v, want 3s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != Default().Server.WriteTimeout {
		t.Error("unset fields should keep defaults")
	}
	if cfg.Store.Backend != store.BackendSQLite || cfg.Store.Path != "/tmp/b.db" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Render.Style != "simple" {
		t.Errorf("style = %q", cfg.Render.Style)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", `[server`, "parse config"},
		{"unknown key", "[server]\nport = 1", "unknown config keys"},
		{"bad backend", "[store]\nbackend = \"postgres\"", "store.backend"},
		{"bad cache", "[cache]\nbackend = \"memcached\"", "cache.backend"},
		{"bad style", "[render]\nstyle = \"watercolor\"", "render.style"},
		{"bad base url", "[server]\nbase_url = \"bouquet.example\"", "base_url"},
		{"bad frame", "[render]\nwidth = -1.0", "render frame"},
		{"bad level", "[log]\nlevel = \"loud\"", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DIGIBOUQUET_ADDR":         ":7000",
		"DIGIBOUQUET_STORE":        "redis",
		"DIGIBOUQUET_REDIS_ADDR":   "redis:6379",
		"DIGIBOUQUET_REDIS_DB":     "3",
		"DIGIBOUQUET_CORS_ORIGINS": "https://a.example, https://b.example,",
		"DIGIBOUQUET_LOG_LEVEL":    "debug",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.Backend != "redis" || cfg.Store.RedisAddr != "redis:6379" || cfg.Store.RedisDB != 3 {
		t.Errorf("store = %+v", cfg.Store)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel())
	}

	env["DIGIBOUQUET_REDIS_DB"] = "three"
	if err := Default().ApplyEnv(lookup); err == nil {
		t.Error("non-numeric REDIS_DB should fail")
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DIGIBOUQUET_STYLE", "simple")

	// No file at the default location is fine.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if cfg.Render.Style != "simple" {
		t.Errorf("env override not applied, style = %q", cfg.Render.Style)
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("cache backend = %q, want none", cfg.Cache.Backend)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("an explicit missing file should fail")
	}
}

func TestStoreOptionsDefaultsPaths(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)

	cfg := Default()
	sc, err := cfg.StoreOptions(nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(data, AppName, "bouquets"); sc.Path != want {
		t.Errorf("file store path = %q, want %q", sc.Path, want)
	}

	cfg.Store.Backend = store.BackendSQLite
	sc, err = cfg.StoreOptions(nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(data, AppName, "bouquets.db"); sc.Path != want {
		t.Errorf("sqlite path = %q, want %q", sc.Path, want)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", AppName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, _ = CacheDir()
	if dir != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("CacheDir() with XDG_CACHE_HOME = %q", dir)
	}
}
