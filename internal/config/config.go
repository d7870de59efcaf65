// Package config provides persistent configuration for the prayer-clock CLI.
//
// Configuration is stored as JSON at ~/.config/prayer-clock/config.json
// (XDG-compliant). The merge priority is: CLI flags > config file > defaults.
// Server settings come from the environment instead; see FromEnv.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/prayer-clock/internal/i18n"
	"github.com/smokyabdulrahman/prayer-clock/internal/method"
	"github.com/smokyabdulrahman/prayer-clock/internal/prayer"
)

const (
	configDirName  = "prayer-clock"
	configFileName = "config.json"
)

// MinPollInterval is the shortest accepted poll_interval.
const MinPollInterval = time.Second

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city", "country",
	"latitude", "longitude",
	"timezone",
	"method", "school", "latitude_adjustment",
	"time_format",
	"locale",
	"poll_interval",
	"format",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or auto-detect).
type Config struct {
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
	// Method, School and LatitudeAdjustment are pointers so that 0 is
	// distinguishable from "not set". Unset values are resolved per region.
	Method             *int   `json:"method,omitempty"`
	School             *int   `json:"school,omitempty"`
	LatitudeAdjustment *int   `json:"latitude_adjustment,omitempty"`
	TimeFormat         string `json:"time_format,omitempty"` // "12h" or "24h"
	Locale             string `json:"locale,omitempty"`
	PollInterval       string `json:"poll_interval,omitempty"` // Go duration, e.g. "30s"
	Format             string `json:"format,omitempty"`        // next-prayer display format
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		TimeFormat:   "24h",
		Locale:       i18n.DefaultLocale,
		PollInterval: "30s",
		Format:       prayer.FormatFull,
	}
}

// TimeLayout returns the Go layout for TimeFormat.
func (c *Config) TimeLayout() string {
	if c.TimeFormat == "12h" {
		return "3:04 PM"
	}
	return "15:04"
}

// Interval parses PollInterval, returning def when unset or invalid.
func (c *Config) Interval(def time.Duration) time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d < MinPollInterval {
		return def
	}
	return d
}

// HasCoordinates reports whether a latitude or longitude was configured.
func (c *Config) HasCoordinates() bool {
	return c.Latitude != 0 || c.Longitude != 0
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid JSON, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "city":
		c.City = value
	case "country":
		c.Country = value
	case "latitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: must be a number", value)
		}
		if v < -90 || v > 90 {
			return fmt.Errorf("invalid latitude %q: must be between -90 and 90", value)
		}
		c.Latitude = v
	case "longitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: must be a number", value)
		}
		if v < -180 || v > 180 {
			return fmt.Errorf("invalid longitude %q: must be between -180 and 180", value)
		}
		c.Longitude = v
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone %q: must be an IANA zone such as Asia/Riyadh", value)
		}
		c.Timezone = value
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: must be an integer", value)
		}
		if _, ok := method.Lookup(v); !ok {
			return fmt.Errorf("invalid method %q: run `prayer-clock methods` for the list", value)
		}
		c.Method = &v
	case "school":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid school %q: must be an integer", value)
		}
		if v != 0 && v != 1 {
			return fmt.Errorf("invalid school %q: must be 0 (Shafi) or 1 (Hanafi)", value)
		}
		c.School = &v
	case "latitude_adjustment":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid latitude_adjustment %q: must be an integer", value)
		}
		if !method.LatitudeAdjustment(v).Valid() {
			return fmt.Errorf("invalid latitude_adjustment %q: must be 1, 2 or 3", value)
		}
		c.LatitudeAdjustment = &v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "locale":
		if !i18n.Supported(value) {
			return fmt.Errorf("invalid locale %q: must be \"ar\" or \"en\"", value)
		}
		c.Locale = value
	case "poll_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid poll_interval %q: must be a duration such as 30s", value)
		}
		if d < MinPollInterval {
			return fmt.Errorf("invalid poll_interval %q: must be at least %s", value, MinPollInterval)
		}
		c.PollInterval = value
	case "format":
		if !ValidFormat(value) {
			return fmt.Errorf("invalid format %q: must be one of %s, or a Go template", value, strings.Join(prayer.Formats, ", "))
		}
		c.Format = value
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "city":
		return c.City, nil
	case "country":
		return c.Country, nil
	case "latitude":
		if c.Latitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Latitude, 'f', -1, 64), nil
	case "longitude":
		if c.Longitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Longitude, 'f', -1, 64), nil
	case "method":
		if c.Method == nil {
			return "", nil
		}
		return strconv.Itoa(*c.Method), nil
	case "school":
		if c.School == nil {
			return "", nil
		}
		return strconv.Itoa(*c.School), nil
	case "latitude_adjustment":
		if c.LatitudeAdjustment == nil {
			return "", nil
		}
		return strconv.Itoa(*c.LatitudeAdjustment), nil
	case "timezone":
		return c.Timezone, nil
	case "time_format":
		return c.TimeFormat, nil
	case "locale":
		return c.Locale, nil
	case "poll_interval":
		return c.PollInterval, nil
	case "format":
		return c.Format, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// ValidFormat reports whether f is a named display format or a template.
func ValidFormat(f string) bool {
	if strings.Contains(f, "{{") {
		return true
	}
	for _, name := range prayer.Formats {
		if f == name {
			return true
		}
	}
	return false
}
