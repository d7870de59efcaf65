package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-clock/internal/api"
	"github.com/smokyabdulrahman/prayer-clock/internal/cache"
	"github.com/smokyabdulrahman/prayer-clock/internal/config"
	"github.com/smokyabdulrahman/prayer-clock/internal/geo"
	"github.com/smokyabdulrahman/prayer-clock/internal/method"
	"github.com/smokyabdulrahman/prayer-clock/internal/schedule"
	"github.com/smokyabdulrahman/prayer-clock/internal/watch"
)

// app holds the clients shared by the commands of one invocation.
type app struct {
	env       config.Env
	cache     *cache.Cache
	aladhan   *api.Client
	nominatim *geo.Nominatim
	ip        *geo.IPLocator
	resolver  *method.Resolver
	schedule  *schedule.Service
}

// newApp wires the upstream clients from the environment.
func newApp(log zerolog.Logger) (*app, error) {
	env, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	return newAppWithEnv(env, log), nil
}

func newAppWithEnv(env config.Env, log zerolog.Logger) *app {
	a := &app{
		env:       env,
		cache:     cache.NewWithConfig(cache.Config{TimingsTTL: env.CacheTTL, Size: env.CacheSize}),
		aladhan:   api.NewClient(log),
		nominatim: geo.NewNominatim(log),
		ip:        geo.NewIPLocator(log),
	}
	if env.AladhanBaseURL != "" {
		a.aladhan.BaseURL = env.AladhanBaseURL
	}
	if env.NominatimBaseURL != "" {
		a.nominatim.BaseURL = env.NominatimBaseURL
	}
	if env.IPAPIURL != "" {
		a.ip.URL = env.IPAPIURL
	}

	a.resolver = method.NewResolver(a.cache.Countries(a.nominatim), log)
	a.schedule = schedule.NewService(schedule.Config{
		API:      a.aladhan,
		Resolver: a.resolver,
		Cache:    a.cache,
		Logger:   log,
	})
	return a
}

// locationSource picks where the schedule is computed for.
// Priority: coordinates > city/country > IP auto-detect.
func (a *app) locationSource(cfg *config.Config) (watch.LocationSource, error) {
	var src watch.LocationSource
	switch {
	case cfg.HasCoordinates():
		src = watch.Fixed{
			Name: fmt.Sprintf("%.4f, %.4f", cfg.Latitude, cfg.Longitude),
			Request: schedule.Request{
				Coordinates: geo.Coordinates{Lat: cfg.Latitude, Lng: cfg.Longitude},
			},
		}
	case cfg.City != "":
		if cfg.Country == "" {
			return nil, fmt.Errorf("--country is required when using --city")
		}
		src = watch.Fixed{
			Name:    placeLabel(cfg.City, cfg.Country),
			Request: schedule.Request{City: cfg.City, Country: cfg.Country},
		}
	default:
		src = watch.IPSource{
			Detector: a.ip,
			Places:   a.cache.Places(a.nominatim),
			Lang:     cfg.Locale,
		}
	}
	return overrides{src: src, cfg: cfg}, nil
}

// overrides applies the configured timezone and calculation settings to
// whatever location the wrapped source returns.
type overrides struct {
	src watch.LocationSource
	cfg *config.Config
}

func (o overrides) Locate(ctx context.Context) (watch.Location, error) {
	loc, err := o.src.Locate(ctx)
	if err != nil {
		return loc, err
	}
	if o.cfg.Timezone != "" {
		loc.Request.Timezone = o.cfg.Timezone
	}
	if o.cfg.Method != nil {
		loc.Request.Method = o.cfg.Method
	}
	if o.cfg.School != nil {
		loc.Request.School = o.cfg.School
	}
	if o.cfg.LatitudeAdjustment != nil {
		adj := method.LatitudeAdjustment(*o.cfg.LatitudeAdjustment)
		loc.Request.LatitudeAdjustment = &adj
	}
	return loc, nil
}
