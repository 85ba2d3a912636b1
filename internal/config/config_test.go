package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LARDER_JWT_SECRET", "0123456789abcdef")
	t.Setenv("LARDER_PORT", "")
	t.Setenv("LARDER_TOKEN_TTL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("token ttl = %v", cfg.TokenTTL)
	}
	if cfg.AllowedOrigin != "*" {
		t.Errorf("allowed origin = %q", cfg.AllowedOrigin)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("LARDER_JWT_SECRET", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error without secret")
	}

	t.Setenv("LARDER_JWT_SECRET", "short")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("LARDER_JWT_SECRET", "")
	t.Setenv("LARDER_DB_PATH", "")
	t.Setenv("LARDER_PORT", "9999")
	// godotenv sets variables that were unset; t.Setenv restores them afterwards.
	t.Cleanup(func() {
		os.Unsetenv("LARDER_API_KEY")
	})

	path := filepath.Join(t.TempDir(), ".env")
	content := "LARDER_JWT_SECRET=from-env-file-secret\nLARDER_PORT=1111\nLARDER_API_KEY=anon\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}

	os.Unsetenv("LARDER_JWT_SECRET")
	os.Unsetenv("LARDER_API_KEY")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "from-env-file-secret" {
		t.Errorf("secret = %q", cfg.JWTSecret)
	}
	if cfg.Port != "9999" {
		t.Errorf("port = %q, want environment to win", cfg.Port)
	}
	if cfg.APIKey != "anon" {
		t.Errorf("api key = %q", cfg.APIKey)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	t.Setenv("LARDER_JWT_SECRET", "0123456789abcdef")
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestLoadBadDuration(t *testing.T) {
	t.Setenv("LARDER_JWT_SECRET", "0123456789abcdef")
	t.Setenv("LARDER_TOKEN_TTL", "forever")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for bad duration")
	}
}
