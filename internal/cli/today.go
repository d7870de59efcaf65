package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-clock/internal/config"
	"github.com/smokyabdulrahman/prayer-clock/internal/display"
	"github.com/smokyabdulrahman/prayer-clock/internal/i18n"
	"github.com/smokyabdulrahman/prayer-clock/internal/prayer"
	"github.com/smokyabdulrahman/prayer-clock/internal/watch"
)

// outlook is today's schedule together with the next prayer.
type outlook struct {
	Place string
	Day   *prayer.Day
	Next  prayer.Result
	Now   time.Time
	// Message is set when tomorrow's Fajr could not be fetched.
	Message string
}

// todayJSON is the --json shape of the default command.
type todayJSON struct {
	Place     string        `json:"place"`
	Day       *prayer.Day   `json:"day"`
	Next      prayer.Result `json:"next"`
	Countdown string        `json:"countdown,omitempty"`
	Message   string        `json:"message,omitempty"`
}

func runToday(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig(cmd)

	o, err := loadOutlook(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if FlagJSON {
		payload := todayJSON{Place: o.Place, Day: o.Day, Next: o.Next, Message: o.Message}
		if o.Next.Status == prayer.Found {
			payload.Countdown = prayer.FormatCountdown(o.Next.At.Sub(o.Now))
		}
		return writeJSON(out, payload)
	}

	fmt.Fprint(out, display.RenderDay(o.Day, o.Next, o.Now, display.DayOptions{
		Place:      o.Place,
		Locale:     cfg.Locale,
		TimeLayout: cfg.TimeLayout(),
		Message:    o.Message,
	}))
	return nil
}

// loadOutlook locates the user and computes the next prayer, rolling over
// to tomorrow's Fajr when today is exhausted. A failed rollover is not an
// error: the outlook carries a localized message instead.
func loadOutlook(ctx context.Context, cfg *config.Config) (*outlook, error) {
	a, err := newApp(logger)
	if err != nil {
		return nil, err
	}
	src, err := a.locationSource(cfg)
	if err != nil {
		return nil, err
	}

	loc, err := src.Locate(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("location lookup failed")
		return nil, fmt.Errorf("%s: %w", i18n.Message(i18n.LocationFailed, cfg.Locale), fmt.Errorf("%w: %w", watch.ErrNoLocation, err))
	}

	t := now()
	next, day, err := a.schedule.Next(ctx, loc.Request, t)
	if day == nil {
		return nil, fmt.Errorf("%s: %w", i18n.Message(i18n.FetchFailed, cfg.Locale), err)
	}

	o := &outlook{Place: loc.Name, Day: day, Next: next, Now: t.In(day.Location)}
	if err != nil {
		logger.Warn().Err(err).Str("place", loc.Name).Msg("tomorrow's schedule unavailable")
		o.Message = i18n.Message(i18n.TomorrowFailed, cfg.Locale)
	}
	return o, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
