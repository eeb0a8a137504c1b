package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_DRIVER", "REVIEW_TEXT_MAX_LENGTH", "NOTIFY_TIMEOUT", "CORS_ALLOWED_ORIGINS", "REDIS_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.DatabaseDriver != "postgres" {
		t.Errorf("DatabaseDriver = %q, want postgres", cfg.DatabaseDriver)
	}
	if cfg.ReviewTextMaxLength != 5000 {
		t.Errorf("ReviewTextMaxLength = %d, want 5000", cfg.ReviewTextMaxLength)
	}
	if cfg.CommentTextMaxLength != 2000 {
		t.Errorf("CommentTextMaxLength = %d, want 2000", cfg.CommentTextMaxLength)
	}
	if cfg.NotifyTimeout != 2*time.Second {
		t.Errorf("NotifyTimeout = %v, want 2s", cfg.NotifyTimeout)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.RedisURL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 {
		t.Errorf("CORSAllowedOrigins = %v, want one default origin", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("REVIEW_TEXT_MAX_LENGTH", "120")
	t.Setenv("NOTIFY_TIMEOUT", "500ms")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()

	if cfg.DatabaseDriver != "sqlite" {
		t.Errorf("DatabaseDriver = %q, want sqlite", cfg.DatabaseDriver)
	}
	if cfg.ReviewTextMaxLength != 120 {
		t.Errorf("ReviewTextMaxLength = %d, want 120", cfg.ReviewTextMaxLength)
	}
	if cfg.NotifyTimeout != 500*time.Millisecond {
		t.Errorf("NotifyTimeout = %v, want 500ms", cfg.NotifyTimeout)
	}
	if cfg.DBMaxOpenConns != 100 {
		t.Errorf("DBMaxOpenConns = %d, want fallback 100", cfg.DBMaxOpenConns)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins = %v, want %v", cfg.CORSAllowedOrigins, want)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Errorf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], want[i])
		}
	}
}
