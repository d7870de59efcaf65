package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// tempConfigPath returns a path to a config file inside a temp directory.
func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

// --- Defaults ---

func TestDefaults(t *testing.T) {
	d := Defaults()

	if d.Method != nil {
		t.Errorf("Defaults().Method = %d, want nil (resolved per region)", *d.Method)
	}
	if d.School != nil {
		t.Errorf("Defaults().School = %d, want nil", *d.School)
	}
	if d.TimeFormat != "24h" {
		t.Errorf("Defaults().TimeFormat = %q, want %q", d.TimeFormat, "24h")
	}
	if d.Locale != "ar" {
		t.Errorf("Defaults().Locale = %q, want %q", d.Locale, "ar")
	}
	if d.PollInterval != "30s" {
		t.Errorf("Defaults().PollInterval = %q, want %q", d.PollInterval, "30s")
	}
	if d.Format != "full" {
		t.Errorf("Defaults().Format = %q, want %q", d.Format, "full")
	}
	if d.City != "" || d.Country != "" || d.Timezone != "" {
		t.Error("Defaults() should not set a location")
	}
}

// --- Dir and Path with XDG ---

func TestDir_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	want := filepath.Join("/tmp/xdg-test", "prayer-clock")
	if dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestDir_FallbackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", "prayer-clock")
	if dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestPath_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	p, err := Path()
	if err != nil {
		t.Fatalf("Path() error: %v", err)
	}

	want := filepath.Join("/tmp/xdg-test", "prayer-clock", "config.json")
	if p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}

// --- LoadFrom ---

func TestLoadFrom_NonExistentFile(t *testing.T) {
	cfg, err := LoadFrom("/no/such/file.json")
	if err != nil {
		t.Fatalf("LoadFrom non-existent should not error, got: %v", err)
	}
	if cfg.City != "" || cfg.Country != "" {
		t.Error("LoadFrom non-existent should return empty config")
	}
	if cfg.Method != nil {
		t.Error("LoadFrom non-existent should have nil Method")
	}
}

func TestLoadFrom_ValidJSON(t *testing.T) {
	path := tempConfigPath(t)

	method := 4
	data := Config{
		City:       "Riyadh",
		Country:    "Saudi Arabia",
		Timezone:   "Asia/Riyadh",
		Method:     &method,
		TimeFormat: "12h",
		Locale:     "en",
	}
	raw, _ := json.MarshalIndent(data, "", "  ")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}

	if cfg.City != "Riyadh" {
		t.Errorf("City = %q, want %q", cfg.City, "Riyadh")
	}
	if cfg.Timezone != "Asia/Riyadh" {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, "Asia/Riyadh")
	}
	if cfg.Method == nil || *cfg.Method != 4 {
		t.Errorf("Method = %v, want 4", cfg.Method)
	}
	if cfg.Locale != "en" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "en")
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte("{bad json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("LoadFrom with invalid JSON should error")
	}
}

func TestLoadFrom_MethodZero(t *testing.T) {
	// Method 0 (Jafari) is valid and must be distinguishable from "not set".
	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte(`{"method": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if cfg.Method == nil {
		t.Fatal("Method should not be nil for method=0")
	}
	if *cfg.Method != 0 {
		t.Errorf("Method = %d, want 0", *cfg.Method)
	}
}

// --- SaveTo ---

func TestSaveTo_CreatesDirectoryAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "config.json")

	method := 2
	cfg := &Config{City: "London", Method: &method}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if data[len(data)-1] != '\n' {
		t.Error("saved file should end with a newline")
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("saved file has invalid JSON: %v", err)
	}
	if loaded.City != "London" {
		t.Errorf("loaded City = %q, want %q", loaded.City, "London")
	}
	if loaded.Method == nil || *loaded.Method != 2 {
		t.Errorf("loaded Method = %v, want 2", loaded.Method)
	}
}

// --- ResetAt ---

func TestResetAt_DeletesFile(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{City: "London"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	if err := ResetAt(path); err != nil {
		t.Fatalf("ResetAt error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("ResetAt should have deleted the file")
	}
}

func TestResetAt_NonExistentFile(t *testing.T) {
	if err := ResetAt("/no/such/file.json"); err != nil {
		t.Errorf("ResetAt on non-existent file should not error, got: %v", err)
	}
}

// --- Set ---

func TestSet_Validation(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"latitude", "51.5074", false},
		{"latitude", "-90", false},
		{"latitude", "91", true},
		{"latitude", "abc", true},
		{"longitude", "180", false},
		{"longitude", "-181", true},
		{"timezone", "Asia/Riyadh", false},
		{"timezone", "Mars/Olympus", true},
		{"method", "0", false},
		{"method", "23", false},
		{"method", "6", true}, // not in the catalogue
		{"method", "24", true},
		{"method", "abc", true},
		{"school", "1", false},
		{"school", "2", true},
		{"latitude_adjustment", "3", false},
		{"latitude_adjustment", "0", true},
		{"latitude_adjustment", "x", true},
		{"time_format", "12h", false},
		{"time_format", "", true},
		{"locale", "en", false},
		{"locale", "fr", true},
		{"poll_interval", "1m", false},
		{"poll_interval", "500ms", true},
		{"poll_interval", "soon", true},
		{"format", "name-and-countdown", false},
		{"format", "{{.Name}} in {{.Countdown}}", false},
		{"format", "bogus", true},
		{"unknown_key", "value", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(%s, %q) error = %v, wantErr = %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestSetThenGet_RoundTrip(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"city", "Riyadh"},
		{"country", "Saudi Arabia"},
		{"latitude", "24.7136"},
		{"longitude", "46.6753"},
		{"timezone", "Asia/Riyadh"},
		{"method", "4"},
		{"school", "1"},
		{"latitude_adjustment", "2"},
		{"time_format", "12h"},
		{"locale", "en"},
		{"poll_interval", "45s"},
		{"format", "short-name-and-time"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := &Config{}
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%q, %q) error: %v", tt.key, tt.value, err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.value {
				t.Errorf("Set/Get round-trip: got %q, want %q", got, tt.value)
			}
		})
	}
}

// --- Get ---

func TestGet_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	for _, key := range ValidKeys {
		got, err := cfg.Get(key)
		if err != nil {
			t.Errorf("Get(%q) error: %v", key, err)
		}
		if got != "" {
			t.Errorf("Get(%q) = %q, want empty for empty config", key, got)
		}
	}
}

func TestGet_UnknownKey(t *testing.T) {
	cfg := &Config{}
	if _, err := cfg.Get("prayers"); err == nil {
		t.Fatal("Get with unknown key should error")
	}
}

// --- Helpers ---

func TestTimeLayout(t *testing.T) {
	if got := (&Config{TimeFormat: "12h"}).TimeLayout(); got != "3:04 PM" {
		t.Errorf("12h layout = %q", got)
	}
	if got := (&Config{}).TimeLayout(); got != "15:04" {
		t.Errorf("default layout = %q", got)
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 30 * time.Second},
		{"2m", 2 * time.Minute},
		{"garbage", 30 * time.Second},
		{"10ms", 30 * time.Second},
	}
	for _, tt := range tests {
		cfg := &Config{PollInterval: tt.value}
		if got := cfg.Interval(30 * time.Second); got != tt.want {
			t.Errorf("Interval(%q) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestHasCoordinates(t *testing.T) {
	if (&Config{}).HasCoordinates() {
		t.Error("empty config should have no coordinates")
	}
	if !(&Config{Longitude: -0.12}).HasCoordinates() {
		t.Error("a longitude alone counts as coordinates")
	}
}

// --- OmitEmpty JSON behavior ---

func TestConfig_OmitEmpty_JSON(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "{}" {
		t.Errorf("empty config JSON = %s, want {}", got)
	}
}

func TestConfig_OmitEmpty_MethodZero(t *testing.T) {
	method := 0
	data, err := json.Marshal(&Config{Method: &method})
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["method"]; !ok {
		t.Error("method=0 should be present in JSON, but was omitted")
	}
}
