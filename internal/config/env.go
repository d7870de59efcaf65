package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Env holds the settings of `prayer-clock serve` and the upstream endpoint
// overrides shared by every command.
type Env struct {
	Addr     string
	LogLevel string
	// AladhanBaseURL, NominatimBaseURL and IPAPIURL override the public
	// endpoints when set.
	AladhanBaseURL   string
	NominatimBaseURL string
	IPAPIURL         string
	CacheTTL         time.Duration
	// CacheSize bounds each kind of cached entry.
	CacheSize int
	// RateLimit is the number of requests per minute allowed per client IP.
	RateLimit int
}

// DefaultEnv returns the server defaults.
func DefaultEnv() Env {
	return Env{
		Addr:      ":8080",
		LogLevel:  "info",
		CacheTTL:  time.Hour,
		CacheSize: 1024,
		RateLimit: 100,
	}
}

// FromEnv reads server settings from the environment after loading the given
// .env files (".env" when none are named). Missing files are ignored and
// variables already set in the environment win.
func FromEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Env{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	env := DefaultEnv()
	env.Addr = getString("PRAYER_CLOCK_ADDR", env.Addr)
	env.LogLevel = getString("PRAYER_CLOCK_LOG_LEVEL", env.LogLevel)
	env.AladhanBaseURL = getString("ALADHAN_BASE_URL", "")
	env.NominatimBaseURL = getString("NOMINATIM_BASE_URL", "")
	env.IPAPIURL = getString("PRAYER_CLOCK_IPAPI_URL", "")

	if v := os.Getenv("PRAYER_CLOCK_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Env{}, fmt.Errorf("invalid PRAYER_CLOCK_CACHE_TTL %q: must be a duration such as 1h", v)
		}
		env.CacheTTL = d
	}
	if v := os.Getenv("PRAYER_CLOCK_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Env{}, fmt.Errorf("invalid PRAYER_CLOCK_CACHE_SIZE %q: must be a positive integer", v)
		}
		env.CacheSize = n
	}
	if v := os.Getenv("PRAYER_CLOCK_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Env{}, fmt.Errorf("invalid PRAYER_CLOCK_RATE_LIMIT %q: must be a positive integer", v)
		}
		env.RateLimit = n
	}
	return env, nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
