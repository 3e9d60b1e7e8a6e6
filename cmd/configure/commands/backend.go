// Package commands implements the thai-toolkit-configure subcommands. Every
// command reads the same environment as the server, so settings are written
// to the backend the server reads from.
package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/benvon/thai-toolkit/internal/config"
	"github.com/benvon/thai-toolkit/internal/database"
)

const openTimeout = 30 * time.Second

func openBackend(ctx context.Context) (*config.Config, database.KV, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()
	kv, err := database.Open(ctx, cfg.StorageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage backend: %w", err)
	}
	return cfg, kv, nil
}

func closeBackend(kv database.KV, stderr io.Writer) {
	if err := kv.Close(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Warning: failed to close storage backend: %v\n", err)
	}
}
