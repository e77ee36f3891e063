package config

import (
	"os"
	"strconv"
	"time"

	"github.com/outlndrr-pr/pixel-wars/internal/game"
)

// Config is the full server configuration, read from the environment.
type Config struct {
	Port         string
	DatabaseURL  string
	AnonCooldown time.Duration
	AuthCooldown time.Duration
	Debug        bool
}

// FromEnv reads PORT, DATABASE_URL, COOLDOWN_ANON_MS, COOLDOWN_AUTH_MS and
// DEBUG. Missing values fall back to the classic rules; an empty
// DATABASE_URL means memory-only, no persistence.
func FromEnv() Config {
	return Config{
		Port:         envString("PORT", "8000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		AnonCooldown: envDurationMS("COOLDOWN_ANON_MS", game.PixelPlacementCooldown),
		AuthCooldown: envDurationMS("COOLDOWN_AUTH_MS", game.PixelPlacementCooldown),
		Debug:        envBool("DEBUG"),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationMS(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
