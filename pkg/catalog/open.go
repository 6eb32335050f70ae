package catalog

import (
	"context"
	"fmt"
)

// Config selects and configures a catalog backend.
type Config struct {
	// Backend is one of "memory", "file", "redis", "mongo", "null".
	Backend string

	// Dir is the directory of the file backend.
	Dir string

	Redis RedisConfig
	Mongo MongoConfig
}

// Open creates the configured store. An empty backend means "null".
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "null":
		return NewNullStore(), nil
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.Dir)
	case "redis":
		return NewRedisStore(ctx, cfg.Redis)
	case "mongo":
		return NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Backend)
	}
}
