package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/benvon/thai-toolkit/internal/models"
)

const (
	corsConfigKey      = "thai-toolkit-settings:cors"
	ratelimitConfigKey = "thai-toolkit-settings:ratelimit"
)

// CorsConfigRepository stores the CORS configuration in the storage backend.
type CorsConfigRepository struct {
	kv KV
}

// NewCorsConfigRepository creates a new CORS config repository.
func NewCorsConfigRepository(kv KV) *CorsConfigRepository {
	return &CorsConfigRepository{kv: kv}
}

// Get retrieves the CORS config. It returns nil, nil when none is stored.
func (r *CorsConfigRepository) Get(ctx context.Context) (*models.CorsConfig, error) {
	c := &models.CorsConfig{}
	found, err := getJSON(ctx, r.kv, corsConfigKey, c)
	if err != nil {
		return nil, fmt.Errorf("get cors config: %w", err)
	}
	if !found {
		return nil, nil
	}
	return c, nil
}

// Set replaces the CORS config. AllowedOrigins is comma-separated.
func (r *CorsConfigRepository) Set(ctx context.Context, c *models.CorsConfig) error {
	origins := strings.TrimSpace(c.AllowedOrigins)
	if origins == "" {
		return fmt.Errorf("allowed_origins cannot be empty")
	}
	stored := *c
	stored.AllowedOrigins = origins
	stored.UpdatedAt = time.Now()
	if err := setJSON(ctx, r.kv, corsConfigKey, &stored); err != nil {
		return fmt.Errorf("set cors config: %w", err)
	}
	return nil
}

// AllowedOriginsSlice returns allowed origins as a slice (split by comma).
func AllowedOriginsSlice(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	var out []string
	seen := make(map[string]bool)
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// RatelimitConfigRepository stores the rate limit configuration in the storage backend.
type RatelimitConfigRepository struct {
	kv KV
}

// NewRatelimitConfigRepository creates a new ratelimit config repository.
func NewRatelimitConfigRepository(kv KV) *RatelimitConfigRepository {
	return &RatelimitConfigRepository{kv: kv}
}

// Get retrieves the rate limit config. It returns nil, nil when none is stored.
func (r *RatelimitConfigRepository) Get(ctx context.Context) (*models.RatelimitConfig, error) {
	c := &models.RatelimitConfig{}
	found, err := getJSON(ctx, r.kv, ratelimitConfigKey, c)
	if err != nil {
		return nil, fmt.Errorf("get ratelimit config: %w", err)
	}
	if !found {
		return nil, nil
	}
	return c, nil
}

// Set replaces the rate limit config. Rate format: e.g. "5-S", "100-M".
func (r *RatelimitConfigRepository) Set(ctx context.Context, c *models.RatelimitConfig) error {
	rate := strings.TrimSpace(c.Rate)
	if rate == "" {
		return fmt.Errorf("rate cannot be empty")
	}
	stored := models.RatelimitConfig{Rate: rate, UpdatedAt: time.Now()}
	if err := setJSON(ctx, r.kv, ratelimitConfigKey, &stored); err != nil {
		return fmt.Errorf("set ratelimit config: %w", err)
	}
	return nil
}

func getJSON(ctx context.Context, kv KV, key string, dst any) (bool, error) {
	raw, found, err := kv.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func setJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, raw)
}
