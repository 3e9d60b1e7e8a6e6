package database

import (
	"context"
	"errors"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("storage backend closed")

// KV is a string-keyed record store. Values are opaque bytes; the whole value is
// replaced on every Set.
type KV interface {
	// Get returns the value for key. found is false when no record exists.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Ensure concrete types implement the interface
var (
	_ KV = (*MemoryStore)(nil)
	_ KV = (*RedisStore)(nil)
	_ KV = (*SQLStore)(nil)
)
