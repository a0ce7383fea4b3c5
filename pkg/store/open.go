package store

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the supported backend names.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo}

// Config selects and configures a backend.
type Config struct {
	Backend string
	Path    string // file directory or sqlite database path
	Redis   RedisConfig
	Mongo   MongoConfig

	// DisableResilience skips the retry and breaker wrappers.
	DisableResilience bool
	Logger            *log.Logger
}

// Open creates the configured backend wrapped with WithRetry and WithBreaker.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case BackendMemory, "":
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(cfg.Path)
	case BackendSQLite:
		path := cfg.Path
		if path == "" {
			path = "digibouquet.db"
		}
		s, err = NewSQLiteStore(ctx, path)
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Redis)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want one of %v)", cfg.Backend, Backends)
	}
	if err != nil {
		return nil, err
	}
	if cfg.DisableResilience {
		return s, nil
	}

	name := cfg.Backend
	if name == "" {
		name = BackendMemory
	}
	bc := DefaultBreakerConfig("store-" + name)
	bc.Logger = cfg.Logger
	// Retry sits inside the breaker so one logical call counts once.
	return WithBreaker(WithRetry(s, DefaultRetryPolicy), bc), nil
}
