// Package schedule fetches and normalizes one day of prayer times for a
// location, applying the method resolver, the response cache and the Hijri
// fallback.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-clock/internal/api"
	"github.com/smokyabdulrahman/prayer-clock/internal/cache"
	"github.com/smokyabdulrahman/prayer-clock/internal/geo"
	"github.com/smokyabdulrahman/prayer-clock/internal/method"
	"github.com/smokyabdulrahman/prayer-clock/internal/prayer"
)

// Fetcher is the subset of the Al Adhan client the service needs.
type Fetcher interface {
	FetchTimings(ctx context.Context, q api.TimingsQuery) (*api.Response, error)
	GregorianToHijri(ctx context.Context, date time.Time) (*api.HijriConversion, error)
}

// MethodResolver suggests a calculation method for a location.
type MethodResolver interface {
	Resolve(ctx context.Context, tz string, coords *geo.Coordinates) method.Hint
}

// Request describes where to compute a schedule. Explicit Method or
// LatitudeAdjustment values override the resolver.
type Request struct {
	Coordinates geo.Coordinates
	City        string
	Country     string
	Timezone    string
	// Zone, when set, pins the zone calendar dates are taken in, overriding
	// Timezone. It is never sent upstream.
	Zone *time.Location

	Method             *int
	School             *int
	LatitudeAdjustment *method.LatitudeAdjustment
	Tune               string
}

// Config wires a Service.
type Config struct {
	API      Fetcher
	Resolver MethodResolver
	// Cache is optional.
	Cache  *cache.Cache
	Logger zerolog.Logger
	// Fallback is the zone used when neither the request nor the payload
	// names a known one. Defaults to time.Local.
	Fallback *time.Location
}

// Service produces normalized days.
type Service struct {
	api      Fetcher
	resolver MethodResolver
	cache    *cache.Cache
	logger   zerolog.Logger
	fallback *time.Location
}

// NewService returns a Service.
func NewService(cfg Config) *Service {
	fallback := cfg.Fallback
	if fallback == nil {
		fallback = time.Local
	}
	return &Service{
		api:      cfg.API,
		resolver: cfg.Resolver,
		cache:    cfg.Cache,
		logger:   cfg.Logger,
		fallback: fallback,
	}
}

// Zone returns the location a request's dates are interpreted in.
func (s *Service) Zone(req Request) *time.Location {
	if req.Zone != nil {
		return req.Zone
	}
	if req.Timezone != "" {
		if loc, err := time.LoadLocation(req.Timezone); err == nil {
			return loc
		}
	}
	return s.fallback
}

// Query builds the API query for req on the calendar date of date in the
// request's zone.
func (s *Service) Query(ctx context.Context, req Request, date time.Time) api.TimingsQuery {
	q := api.TimingsQuery{
		Date:      date.In(s.Zone(req)),
		Latitude:  req.Coordinates.Lat,
		Longitude: req.Coordinates.Lng,
		City:      req.City,
		Country:   req.Country,
		Method:    req.Method,
		School:    req.School,
		Timezone:  req.Timezone,
		Tune:      req.Tune,
	}
	if req.LatitudeAdjustment != nil {
		adj := int(*req.LatitudeAdjustment)
		q.LatitudeAdjustment = &adj
	}

	if (q.Method == nil || q.LatitudeAdjustment == nil) && s.resolver != nil {
		var coords *geo.Coordinates
		if req.City == "" {
			coords = &req.Coordinates
		}
		hint := s.resolver.Resolve(ctx, req.Timezone, coords)
		if q.Method == nil {
			q.Method = hint.Method
		}
		if q.LatitudeAdjustment == nil && hint.LatitudeAdjustment != nil {
			adj := int(*hint.LatitudeAdjustment)
			q.LatitudeAdjustment = &adj
		}
	}
	return q
}

// Day fetches and normalizes the schedule for the calendar date of date.
// Unless req.Zone pins the zone, the date is taken in the location's own
// zone: when the payload reports a zone in which date falls on another day
// than in Zone(req), that day is fetched instead.
func (s *Service) Day(ctx context.Context, req Request, date time.Time) (*prayer.Day, error) {
	zone := s.Zone(req)
	day, err := s.fetchDay(ctx, req, date)
	if err != nil {
		return nil, err
	}
	if req.Zone != nil || sameDate(date.In(day.Location), date.In(zone)) {
		return day, nil
	}

	s.logger.Debug().
		Str("requested", date.In(zone).Format(api.DateLayout)).
		Str("timezone", day.Timezone).
		Msg("re-anchoring schedule to the location's zone")
	req.Zone = day.Location
	return s.fetchDay(ctx, req, date)
}

func (s *Service) fetchDay(ctx context.Context, req Request, date time.Time) (*prayer.Day, error) {
	q := s.Query(ctx, req, date)

	resp := s.loadTimings(q)
	if resp == nil {
		var err error
		resp, err = s.api.FetchTimings(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("fetching timings for %s: %w", q.Date.Format(api.DateLayout), err)
		}
		if s.cache != nil {
			s.cache.SaveTimings(q, resp)
		}
	}

	day, err := prayer.NormalizeDay(resp, prayer.Options{Fallback: s.Zone(req)})
	if err != nil {
		return nil, err
	}

	if day.Hijri.Readable == "" {
		day = s.withHijriFallback(ctx, q.Date, day)
	}

	s.logger.Debug().
		Str("date", q.Date.Format(api.DateLayout)).
		Str("timezone", day.Timezone).
		Int("timings", len(day.Timings)).
		Msg("schedule normalized")

	return day, nil
}

// Next answers the next prayer for now, rolling over to tomorrow's Fajr once
// today is exhausted. The returned day is always today's. If tomorrow cannot
// be fetched the Exhausted result is returned together with the error.
func (s *Service) Next(ctx context.Context, req Request, now time.Time) (prayer.Result, *prayer.Day, error) {
	today, err := s.Day(ctx, req, now)
	if err != nil {
		return prayer.Result{Status: prayer.NoData}, nil, err
	}

	r := prayer.Next(now, today)
	if r.Status != prayer.Exhausted {
		return r, today, nil
	}

	// Tomorrow is taken in today's zone so both days agree on the date.
	req.Zone = today.Location
	tomorrow, err := s.Day(ctx, req, now.In(today.Location).AddDate(0, 0, 1))
	if err != nil {
		return r, today, fmt.Errorf("fetching tomorrow: %w", err)
	}
	if fajr := prayer.FirstOf(now, tomorrow, prayer.Fajr); fajr.Status == prayer.Found {
		return fajr, today, nil
	}
	return r, today, nil
}

func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (s *Service) loadTimings(q api.TimingsQuery) *api.Response {
	if s.cache == nil {
		return nil
	}
	return s.cache.LoadTimings(q)
}

// withHijriFallback fills the Hijri label from the conversion endpoint.
// Failures are logged and leave the day unchanged.
func (s *Service) withHijriFallback(ctx context.Context, date time.Time, day *prayer.Day) *prayer.Day {
	var conv *api.HijriConversion
	if s.cache != nil {
		conv = s.cache.LoadHijri(date)
	}
	if conv == nil {
		var err error
		conv, err = s.api.GregorianToHijri(ctx, date)
		if err != nil {
			s.logger.Debug().Err(err).Msg("hijri conversion failed")
			return day
		}
		if s.cache != nil {
			s.cache.SaveHijri(date, conv)
		}
	}

	readable := conv.Readable()
	if readable == "" {
		return day
	}
	return day.WithHijri(conv.Data.Hijri.Date, readable)
}
