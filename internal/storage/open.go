package storage

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Dir         string // data directory for file, bolt and sqlite
	RedisURL    string
	RedisPrefix string
}

// Open constructs the backend named by opts.Backend. An empty name means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemStore(), nil
	case BackendFile, "":
		return NewFileStore(filepath.Join(opts.Dir, "carts"))
	case BackendBolt:
		return OpenBolt(filepath.Join(opts.Dir, "carts.db"))
	case BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(opts.Dir, "carts.sqlite"))
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("storage: redis backend needs a redis url")
		}
		return OpenRedis(ctx, opts.RedisURL, opts.RedisPrefix)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}
}
