package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is the backend configuration, read from LARDER_* environment
// variables.
type Config struct {
	Port            string
	DBPath          string
	LogLevel        string
	LogFormat       string
	JWTSecret       string
	TokenTTL        time.Duration
	APIKey          string
	AllowedOrigin   string
	CleanupInterval time.Duration
}

// Load reads envFile into the environment, if it exists, then builds the
// config. Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Port:          getenv("LARDER_PORT", "8080"),
		DBPath:        getenv("LARDER_DB_PATH", "larder.db"),
		LogLevel:      getenv("LARDER_LOG_LEVEL", "info"),
		LogFormat:     getenv("LARDER_LOG_FORMAT", "text"),
		JWTSecret:     os.Getenv("LARDER_JWT_SECRET"),
		APIKey:        os.Getenv("LARDER_API_KEY"),
		AllowedOrigin: getenv("LARDER_ALLOWED_ORIGIN", "*"),
	}

	var err error
	if cfg.TokenTTL, err = parseDuration("LARDER_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.CleanupInterval, err = parseDuration("LARDER_CLEANUP_INTERVAL", time.Hour); err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("LARDER_JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 16 {
		return Config{}, errors.New("LARDER_JWT_SECRET must be at least 16 characters")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
