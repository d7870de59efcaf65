package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-clock/internal/config"
	"github.com/smokyabdulrahman/prayer-clock/internal/prayer"
)

var flagFormat string

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long:  "Display the next upcoming prayer time with a countdown, rolling over\nto tomorrow's Fajr after Isha. Suited to status bars such as tmux.",
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "", "Display format: time-remaining, countdown, next-prayer-time, name-and-time, name-and-remaining, name-and-countdown, short-name-and-time, short-name-and-remaining, full, or a custom Go template (overrides config)")

	return cmd
}

// nextJSON is the --json shape of `next`.
type nextJSON struct {
	prayer.Result
	Label     string `json:"label,omitempty"`
	Countdown string `json:"countdown,omitempty"`
	Place     string `json:"place"`
	Message   string `json:"message,omitempty"`
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	if cmd.Flags().Changed("format") {
		if !config.ValidFormat(flagFormat) {
			return fmt.Errorf("--format: unknown format %q", flagFormat)
		}
		cfg.Format = flagFormat
	}

	o, err := loadOutlook(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		payload := nextJSON{Result: o.Next, Place: o.Place, Message: o.Message}
		if o.Next.Status == prayer.Found {
			payload.At = o.Next.At.In(o.Day.Location)
			payload.Label = o.Next.Name.Label(cfg.Locale)
			payload.Countdown = prayer.FormatCountdown(o.Next.At.Sub(o.Now))
		}
		return writeJSON(out, payload)
	}

	// Without tomorrow's Fajr the status bar keeps a placeholder rather
	// than failing.
	fmt.Fprint(out, prayer.FormatOutput(o.Next, o.Now, prayer.FormatOptions{
		Mode:       cfg.Format,
		TimeLayout: cfg.TimeLayout(),
		Locale:     cfg.Locale,
	}))
	return nil
}
