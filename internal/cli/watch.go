package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-clock/internal/config"
	"github.com/smokyabdulrahman/prayer-clock/internal/display"
	"github.com/smokyabdulrahman/prayer-clock/internal/prayer"
	"github.com/smokyabdulrahman/prayer-clock/internal/watch"
)

var flagInterval time.Duration

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep a live countdown to the next prayer",
		Long:  "Print a status line with the next prayer and its countdown, refreshed\non every poll until interrupted. Schedules are fetched once per day.",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}

	cmd.Flags().DurationVar(&flagInterval, "interval", 0, "Refresh interval (overrides poll_interval, minimum 1s)")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Status line format, as for 'next' (overrides config)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	interval := cfg.Interval(watch.DefaultInterval)
	if cmd.Flags().Changed("interval") {
		if flagInterval < config.MinPollInterval {
			return fmt.Errorf("--interval must be at least %s", config.MinPollInterval)
		}
		interval = flagInterval
	}
	if cmd.Flags().Changed("format") {
		if !config.ValidFormat(flagFormat) {
			return fmt.Errorf("--format: unknown format %q", flagFormat)
		}
		cfg.Format = flagFormat
	}

	a, err := newApp(logger)
	if err != nil {
		return err
	}
	src, err := a.locationSource(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := watch.New(watch.Config{
		Source:   a.schedule,
		Interval: interval,
		Locale:   cfg.Locale,
		Logger:   logger,
		Now:      now,
	})
	out := cmd.OutOrStdout()
	err = d.Run(ctx, src, func(s watch.Snapshot) {
		renderSnapshot(out, s, cfg)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// renderSnapshot prints one status line per displayed or failed state.
func renderSnapshot(w io.Writer, s watch.Snapshot, cfg *config.Config) {
	switch s.State {
	case watch.Displaying:
		line := prayer.FormatOutput(s.Next, s.At, prayer.FormatOptions{
			Mode:       cfg.Format,
			TimeLayout: cfg.TimeLayout(),
			Locale:     cfg.Locale,
		})
		if s.Next.Status == prayer.Found {
			line = display.Countdown(line, s.Next.At.Sub(s.At))
		}
		if s.Place != "" {
			line = display.Gray(s.Place) + "  " + line
		}
		if s.Message != "" {
			line += "  " + display.Yellow(s.Message)
		}
		fmt.Fprintln(w, line)
	case watch.Failed:
		fmt.Fprintln(w, display.Yellow(s.Message))
	default:
		logger.Debug().Str("state", s.State.String()).Str("place", s.Place).Msg("watch")
	}
}
