package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/benvon/thai-toolkit/internal/queue"
)

const checkTimeout = 10 * time.Second

type check struct {
	name string
	run  func(ctx context.Context) error
}

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test connectivity to configured backends",
		Long:  "Ping the storage backend, and Redis and RabbitMQ when they are configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, kv, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer closeBackend(kv, cmd.ErrOrStderr())

			checks := []check{{name: "storage", run: kv.Ping}}
			if cfg.RedisURL != "" {
				checks = append(checks, check{name: "redis", run: func(ctx context.Context) error {
					opts, err := redis.ParseURL(cfg.RedisURL)
					if err != nil {
						return err
					}
					client := redis.NewClient(opts)
					defer func() { _ = client.Close() }()
					return client.Ping(ctx).Err()
				}})
			}
			if cfg.RabbitMQURL != "" {
				checks = append(checks, check{name: "rabbitmq", run: func(ctx context.Context) error {
					q, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL, nil)
					if err != nil {
						return err
					}
					defer func() { _ = q.Close() }()
					return q.HealthCheck(ctx)
				}})
			}

			return runChecks(cmd, checks)
		},
	}
}

func runChecks(cmd *cobra.Command, checks []check) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, c := range checks {
		ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
		err := c.run(ctx)
		cancel()
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(out, "✗ %s: %v\n", c.name, err)
			continue
		}
		_, _ = fmt.Fprintf(out, "✓ %s\n", c.name)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	_, _ = fmt.Fprintln(out, "All checks passed")
	return nil
}
