// Package server exposes prayer schedules over a small JSON HTTP API.
package server

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-clock/internal/cache"
	"github.com/smokyabdulrahman/prayer-clock/internal/geo"
	"github.com/smokyabdulrahman/prayer-clock/internal/method"
	"github.com/smokyabdulrahman/prayer-clock/internal/prayer"
	"github.com/smokyabdulrahman/prayer-clock/internal/schedule"
)

// Schedule computes normalized days and next prayers.
type Schedule interface {
	Day(ctx context.Context, req schedule.Request, date time.Time) (*prayer.Day, error)
	Next(ctx context.Context, req schedule.Request, now time.Time) (prayer.Result, *prayer.Day, error)
	Zone(req schedule.Request) *time.Location
}

// MethodResolver suggests a calculation method for a location.
type MethodResolver interface {
	Resolve(ctx context.Context, tz string, coords *geo.Coordinates) method.Hint
}

// CitySearcher finds candidate cities for manual selection.
type CitySearcher interface {
	SearchCities(ctx context.Context, query, country, lang string, limit int) ([]geo.City, error)
}

// Config holds the router's dependencies.
type Config struct {
	Version  string
	Logger   zerolog.Logger
	Schedule Schedule
	Resolver MethodResolver
	Cities   CitySearcher
	// Cache memoizes city searches when set.
	Cache *cache.Cache
	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit int
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRouter creates a chi router with all API routes configured.
func NewRouter(cfg Config) *chi.Mux {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	h := &handlers{cfg: cfg}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(cfg.Logger))
	r.Use(Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/ops/health", h.health)

		r.Group(func(r chi.Router) {
			if cfg.RateLimit > 0 {
				r.Use(RateLimitByIP(cfg.RateLimit, time.Minute))
			}
			r.Get("/prayer/day", h.getDay)
			r.Get("/prayer/next", h.getNext)
			r.Get("/prayer/method", h.getMethod)
			r.Get("/location/cities", h.getCities)
		})
	})

	return r
}
