package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/prayer-clock/internal/config"
	"github.com/smokyabdulrahman/prayer-clock/internal/display"
	"github.com/smokyabdulrahman/prayer-clock/internal/logging"
)

// Global flags shared across all subcommands.
var (
	FlagCity               string
	FlagCountry            string
	FlagLatitude           float64
	FlagLongitude          float64
	FlagTimezone           string
	FlagMethod             int
	FlagSchool             int
	FlagLatitudeAdjustment int
	FlagJSON               bool
	FlagTimeFormat         string
	FlagLocale             string
	FlagVerbose            bool
)

// loadedConfig holds the config loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// logger is the diagnostics logger built during PersistentPreRunE.
var logger = zerolog.Nop()

// now is the clock used by every command. Tests replace it.
var now = time.Now

// flagKeys maps flags that mirror a config key onto that key, so explicit
// flag values go through the same validation as `config set`.
var flagKeys = map[string]string{
	"latitude":            "latitude",
	"longitude":           "longitude",
	"timezone":            "timezone",
	"method":              "method",
	"school":              "school",
	"latitude-adjustment": "latitude_adjustment",
	"time-format":         "time_format",
	"locale":              "locale",
}

// NewRootCmd creates the root command for the prayer-clock CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "prayer-clock",
		Short:   "Islamic prayer times with a live next-prayer countdown",
		Long:    "Show today's prayer times, count down to the next prayer, and serve\nschedules over HTTP. Times come from the Al Adhan API.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if FlagVerbose {
				level = "debug"
			}
			log, err := logging.New(cmd.ErrOrStderr(), logging.Options{Level: level, Pretty: true})
			if err != nil {
				return err
			}
			logger = log
			display.SetEnabled(display.Detect(cmd.OutOrStdout()))

			if err := validateFlags(cmd); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			return nil
		},
		// Default action: show today's prayer schedule.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(PrintVersion("{{.Version}}"))

	// Register global persistent flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCity, "city", "", "Override city (takes precedence over config)")
	pf.StringVar(&FlagCountry, "country", "", "Override country")
	pf.Float64Var(&FlagLatitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&FlagLongitude, "longitude", 0, "Override longitude")
	pf.StringVar(&FlagTimezone, "timezone", "", "IANA timezone, e.g. Asia/Riyadh")
	pf.IntVar(&FlagMethod, "method", -1, "Override calculation method (see 'methods')")
	pf.IntVar(&FlagSchool, "school", -1, "Override school (0=Shafi, 1=Hanafi)")
	pf.IntVar(&FlagLatitudeAdjustment, "latitude-adjustment", -1, "High latitude rule (1=middle of the night, 2=one seventh, 3=angle based)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagLocale, "locale", "", "Display language: ar or en (overrides config)")
	pf.BoolVarP(&FlagVerbose, "verbose", "v", false, "Log diagnostics to stderr")

	// Register subcommands.
	rootCmd.AddCommand(newNextCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newCitiesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())
	rootCmd.AddCommand(newServeCmd(version))

	return rootCmd
}

// PrintVersion prints the version string in the expected format.
func PrintVersion(version string) string {
	return fmt.Sprintf("prayer-clock %s\n", version)
}

// validateFlags rejects explicit flag values that `config set` would reject.
func validateFlags(cmd *cobra.Command) error {
	var scratch config.Config
	var err error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		if setErr := scratch.Set(key, f.Value.String()); setErr != nil {
			err = fmt.Errorf("--%s: %w", f.Name, setErr)
		}
	})
	return err
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) *config.Config {
	cfg := loadedConfig
	if cfg == nil {
		empty := config.Config{}
		cfg = &empty
	}

	defaults := config.Defaults()

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	// An explicit place replaces the configured one entirely.
	if flagWasSet(flags, root, "city") {
		cfg.City = FlagCity
		cfg.Country = ""
		cfg.Latitude, cfg.Longitude = 0, 0
	}
	if flagWasSet(flags, root, "country") {
		cfg.Country = FlagCountry
	}
	if flagWasSet(flags, root, "latitude") || flagWasSet(flags, root, "longitude") {
		cfg.City, cfg.Country = "", ""
		cfg.Latitude, cfg.Longitude = FlagLatitude, FlagLongitude
	}
	if flagWasSet(flags, root, "timezone") {
		cfg.Timezone = FlagTimezone
	}
	if flagWasSet(flags, root, "method") {
		cfg.Method = &FlagMethod
	}
	if flagWasSet(flags, root, "school") {
		cfg.School = &FlagSchool
	}
	if flagWasSet(flags, root, "latitude-adjustment") {
		cfg.LatitudeAdjustment = &FlagLatitudeAdjustment
	}

	if flagWasSet(flags, root, "time-format") {
		cfg.TimeFormat = FlagTimeFormat
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = defaults.TimeFormat
	}
	if flagWasSet(flags, root, "locale") {
		cfg.Locale = FlagLocale
	}
	if cfg.Locale == "" {
		cfg.Locale = defaults.Locale
	}
	if cfg.PollInterval == "" {
		cfg.PollInterval = defaults.PollInterval
	}
	if cfg.Format == "" {
		cfg.Format = defaults.Format
	}

	return cfg
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// placeLabel joins the non-empty parts of a place name.
func placeLabel(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
