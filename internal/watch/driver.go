// Package watch drives a live next-prayer countdown: it acquires a location,
// loads today's schedule, and re-evaluates the next prayer on every tick,
// rolling over to tomorrow when today is exhausted.
package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-clock/internal/i18n"
	"github.com/smokyabdulrahman/prayer-clock/internal/prayer"
	"github.com/smokyabdulrahman/prayer-clock/internal/schedule"
)

// DefaultInterval is how often the next prayer is recomputed.
const DefaultInterval = 30 * time.Second

// ErrNoLocation wraps location acquisition failures.
var ErrNoLocation = errors.New("location unavailable")

// State is the driver's lifecycle stage.
type State int

const (
	Idle State = iota
	AcquiringLocation
	Computing
	Displaying
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AcquiringLocation:
		return "acquiring-location"
	case Computing:
		return "computing"
	case Displaying:
		return "displaying"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is what the driver hands to its renderer after each step.
type Snapshot struct {
	State State
	Place string
	// Day is today's schedule once loaded.
	Day  *prayer.Day
	Next prayer.Result
	// Countdown is Next rendered as HH:MM:SS, set only when Next is Found.
	Countdown string
	// Message is a localized notice for the user, if any.
	Message string
	Err     error
	At      time.Time
}

// DaySource loads a normalized schedule.
type DaySource interface {
	Day(ctx context.Context, req schedule.Request, date time.Time) (*prayer.Day, error)
}

// Ticker abstracts time.Ticker so tests can drive ticks by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ *time.Ticker }

func (t realTicker) C() <-chan time.Time { return t.Ticker.C }

// Config wires a Driver.
type Config struct {
	Source   DaySource
	Interval time.Duration
	Locale   string
	Logger   zerolog.Logger
	// Now and NewTicker default to the wall clock.
	Now       func() time.Time
	NewTicker func(d time.Duration) Ticker
}

// Driver runs the polling loop. One Driver may Run at a time.
type Driver struct {
	source    DaySource
	interval  time.Duration
	locale    string
	logger    zerolog.Logger
	now       func() time.Time
	newTicker func(time.Duration) Ticker
}

// New returns a Driver with defaults applied.
func New(cfg Config) *Driver {
	d := &Driver{
		source:    cfg.Source,
		interval:  cfg.Interval,
		locale:    cfg.Locale,
		logger:    cfg.Logger,
		now:       cfg.Now,
		newTicker: cfg.NewTicker,
	}
	if d.interval <= 0 {
		d.interval = DefaultInterval
	}
	if d.locale == "" {
		d.locale = i18n.DefaultLocale
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.newTicker == nil {
		d.newTicker = func(interval time.Duration) Ticker { return realTicker{time.NewTicker(interval)} }
	}
	return d
}

// session is the state of one Run.
type session struct {
	loc      Location
	today    *prayer.Day
	todayKey string
	tomorrow *prayer.Day
	// tomorrowFailed stops refetching tomorrow for the current today.
	tomorrowFailed bool
}

func dateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// Run blocks until ctx is cancelled or today's schedule cannot be loaded.
// Results that arrive after cancellation are dropped, and cancellation is
// reported as ctx.Err().
func (d *Driver) Run(ctx context.Context, source LocationSource, emit func(Snapshot)) error {
	emit(Snapshot{State: AcquiringLocation, At: d.now()})

	loc, err := source.Locate(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		emit(Snapshot{
			State:   Failed,
			Message: i18n.Message(i18n.LocationFailed, d.locale),
			Err:     err,
			At:      d.now(),
		})
		return fmt.Errorf("%w: %w", ErrNoLocation, err)
	}

	s := &session{loc: loc}
	emit(Snapshot{State: Computing, Place: loc.Name, At: d.now()})
	if err := d.loadToday(ctx, s, d.now(), emit); err != nil {
		return err
	}
	if err := d.step(ctx, s, emit); err != nil {
		return err
	}

	ticker := d.newTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			if err := d.step(ctx, s, emit); err != nil {
				return err
			}
		}
	}
}

func (d *Driver) loadToday(ctx context.Context, s *session, now time.Time, emit func(Snapshot)) error {
	day, err := d.source.Day(ctx, s.loc.Request, now)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		d.logger.Error().Err(err).Str("place", s.loc.Name).Msg("loading today's schedule")
		emit(Snapshot{
			State:   Failed,
			Place:   s.loc.Name,
			Message: i18n.Message(i18n.FetchFailed, d.locale),
			Err:     err,
			At:      now,
		})
		return err
	}
	// Later days are taken in the zone the location reported.
	s.loc.Request.Zone = day.Location
	s.today = day
	s.todayKey = dateKey(now, day.Location)
	s.tomorrow = nil
	s.tomorrowFailed = false
	return nil
}

// step re-evaluates the next prayer against a fresh now.
func (d *Driver) step(ctx context.Context, s *session, emit func(Snapshot)) error {
	now := d.now()

	if dateKey(now, s.today.Location) != s.todayKey {
		if s.tomorrow != nil && s.tomorrow.Covers(now) {
			d.logger.Debug().Str("place", s.loc.Name).Msg("promoting tomorrow's schedule")
			s.today = s.tomorrow
			s.todayKey = dateKey(now, s.today.Location)
			s.tomorrow = nil
			s.tomorrowFailed = false
		} else if err := d.loadToday(ctx, s, now, emit); err != nil {
			return err
		}
	}

	r := prayer.Next(now, s.today)
	var msg string
	if r.Status == prayer.Exhausted {
		if s.tomorrow == nil && !s.tomorrowFailed {
			tomorrow, err := d.source.Day(ctx, s.loc.Request, now.In(s.today.Location).AddDate(0, 0, 1))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				d.logger.Warn().Err(err).Str("place", s.loc.Name).Msg("loading tomorrow's schedule")
				s.tomorrowFailed = true
			} else {
				s.tomorrow = tomorrow
			}
		}
		if s.tomorrow != nil {
			if fajr := prayer.FirstOf(now, s.tomorrow, prayer.Fajr); fajr.Status == prayer.Found {
				r = fajr
			}
		}
		if s.tomorrowFailed {
			msg = i18n.Message(i18n.TomorrowFailed, d.locale)
		}
	}

	snap := Snapshot{
		State:   Displaying,
		Place:   s.loc.Name,
		Day:     s.today,
		Next:    r,
		Message: msg,
		At:      now,
	}
	if r.Status == prayer.Found {
		snap.Countdown = prayer.FormatCountdown(r.At.Sub(now))
	}
	emit(snap)
	return nil
}
