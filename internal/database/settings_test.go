package database

import (
	"context"
	"testing"

	"github.com/benvon/thai-toolkit/internal/models"
)

func TestAllowedOriginsSlice(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "https://a.example.com", []string{"https://a.example.com"}},
		{"comma", "https://a.com, https://b.com", []string{"https://a.com", "https://b.com"}},
		{"dedup", "x, x, y", []string{"x", "y"}},
		{"trim", "  a  ,  b  ", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := AllowedOriginsSlice(tt.raw)
			if len(got) != len(tt.want) {
				t.Errorf("AllowedOriginsSlice(%q) length = %d, want %d", tt.raw, len(got), len(tt.want))
				return
			}
			for i, w := range tt.want {
				if got[i] != w {
					t.Errorf("AllowedOriginsSlice(%q)[%d] = %q, want %q", tt.raw, i, got[i], w)
				}
			}
		})
	}
}

func TestCorsConfigRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewCorsConfigRepository(NewMemoryStore())

	got, err := repo.Get(ctx)
	if err != nil || got != nil {
		t.Fatalf("Get() on empty store = %v, %v; want nil, nil", got, err)
	}

	if err := repo.Set(ctx, &models.CorsConfig{AllowedOrigins: "  "}); err == nil {
		t.Error("Expected error for empty origins")
	}

	if err := repo.Set(ctx, &models.CorsConfig{AllowedOrigins: " https://a.com ", MaxAge: 600}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err = repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.AllowedOrigins != "https://a.com" || got.MaxAge != 600 {
		t.Errorf("Get() = %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be stamped")
	}
}

func TestRatelimitConfigRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewRatelimitConfigRepository(NewMemoryStore())

	if err := repo.Set(ctx, &models.RatelimitConfig{Rate: ""}); err == nil {
		t.Error("Expected error for empty rate")
	}
	if err := repo.Set(ctx, &models.RatelimitConfig{Rate: " 100-M "}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.Rate != "100-M" {
		t.Errorf("Get() = %+v, want rate 100-M", got)
	}
}
