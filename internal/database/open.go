package database

import (
	"context"
	"fmt"
	"strings"
)

// Open returns the backend selected by rawURL's scheme:
//
//	memory://                 in-process map
//	redis://host:6379/0       Redis (rediss:// for TLS)
//	postgres://user@host/db   Postgres kv_store table
//	sqlite:///path/to/file.db SQLite file (sqlite://relative.db also works)
func Open(ctx context.Context, rawURL string) (KV, error) {
	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return nil, fmt.Errorf("storage url %q has no scheme", rawURL)
	}
	switch strings.ToLower(scheme) {
	case "memory", "mem":
		return NewMemoryStore(), nil
	case "redis", "rediss":
		return NewRedisStore(rawURL)
	case "postgres", "postgresql":
		return OpenPostgres(ctx, rawURL)
	case "sqlite", "sqlite3", "file":
		if rest == "" {
			return nil, fmt.Errorf("sqlite storage url needs a path")
		}
		return OpenSQLite(ctx, rest)
	default:
		return nil, fmt.Errorf("unsupported storage scheme %q", scheme)
	}
}
