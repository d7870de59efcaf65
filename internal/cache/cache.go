// Package cache keeps upstream responses in memory for a bounded time so a
// polling loop or a busy server does not refetch the same day repeatedly.
// Nothing is written to disk.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/smokyabdulrahman/prayer-clock/internal/api"
	"github.com/smokyabdulrahman/prayer-clock/internal/geo"
)

const (
	// DefaultTimingsTTL matches how often Al Adhan responses are revalidated.
	DefaultTimingsTTL = time.Hour
	// DefaultSize bounds each kind of entry.
	DefaultSize = 1024

	citiesTTL = 15 * time.Minute
	placeTTL  = 24 * time.Hour
)

// Config sizes a Cache. Zero fields take the defaults.
type Config struct {
	TimingsTTL time.Duration
	PlaceTTL   time.Duration
	CitiesTTL  time.Duration
	// Size is the most entries kept per kind; the least recently used go
	// first.
	Size int
}

// Cache holds timings, reverse-geocoded place names and city searches.
// Expired entries are evicted in the background. It is safe for concurrent
// use.
type Cache struct {
	timings *expirable.LRU[string, *api.Response]
	hijri   *expirable.LRU[string, *api.HijriConversion]
	places  *expirable.LRU[string, string]
	cities  *expirable.LRU[string, []geo.City]
}

// New creates a Cache whose timings entries live for ttl. A non-positive ttl
// uses DefaultTimingsTTL.
func New(ttl time.Duration) *Cache {
	return NewWithConfig(Config{TimingsTTL: ttl})
}

// NewWithConfig creates a Cache from cfg.
func NewWithConfig(cfg Config) *Cache {
	if cfg.TimingsTTL <= 0 {
		cfg.TimingsTTL = DefaultTimingsTTL
	}
	if cfg.PlaceTTL <= 0 {
		cfg.PlaceTTL = placeTTL
	}
	if cfg.CitiesTTL <= 0 {
		cfg.CitiesTTL = citiesTTL
	}
	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}
	return &Cache{
		timings: expirable.NewLRU[string, *api.Response](cfg.Size, nil, cfg.TimingsTTL),
		hijri:   expirable.NewLRU[string, *api.HijriConversion](cfg.Size, nil, cfg.PlaceTTL),
		places:  expirable.NewLRU[string, string](cfg.Size, nil, cfg.PlaceTTL),
		cities:  expirable.NewLRU[string, []geo.City](cfg.Size, nil, cfg.CitiesTTL),
	}
}

// cacheKey builds a deterministic hash from the parameters that affect a
// response.
func cacheKey(parts ...any) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%v|", p)
	}
	return fmt.Sprintf("%x", h.Sum(nil)[:8])
}

func intOrNone(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func timingsKey(q api.TimingsQuery) string {
	return cacheKey(
		q.Date.Format(api.DateLayout),
		fmt.Sprintf("%.6f", q.Latitude),
		fmt.Sprintf("%.6f", q.Longitude),
		q.City, q.Country,
		intOrNone(q.Method), intOrNone(q.School), intOrNone(q.LatitudeAdjustment),
		q.Timezone, q.Tune,
	)
}

// LoadTimings returns the cached response for q, or nil.
func (c *Cache) LoadTimings(q api.TimingsQuery) *api.Response {
	v, _ := c.timings.Get(timingsKey(q))
	return v
}

// SaveTimings stores resp for q. Cached responses are shared and must not be
// mutated by callers.
func (c *Cache) SaveTimings(q api.TimingsQuery, resp *api.Response) {
	c.timings.Add(timingsKey(q), resp)
}

// LoadHijri returns a cached Gregorian to Hijri conversion.
func (c *Cache) LoadHijri(date time.Time) *api.HijriConversion {
	v, _ := c.hijri.Get(date.Format(api.DateLayout))
	return v
}

// SaveHijri stores a Gregorian to Hijri conversion.
func (c *Cache) SaveHijri(date time.Time, conv *api.HijriConversion) {
	c.hijri.Add(date.Format(api.DateLayout), conv)
}

func placeKey(coords geo.Coordinates, lang string) string {
	// Four decimals is roughly 11 m, well inside one settlement.
	return cacheKey(fmt.Sprintf("%.4f", coords.Lat), fmt.Sprintf("%.4f", coords.Lng), lang)
}

// LoadPlace returns a cached display place name.
func (c *Cache) LoadPlace(coords geo.Coordinates, lang string) (string, bool) {
	return c.places.Get(placeKey(coords, lang))
}

// SavePlace stores a display place name.
func (c *Cache) SavePlace(coords geo.Coordinates, lang, name string) {
	c.places.Add(placeKey(coords, lang), name)
}

func citiesKey(query, country, lang string, limit int) string {
	return cacheKey(country, query, lang, limit)
}

// LoadCities returns a cached city search.
func (c *Cache) LoadCities(query, country, lang string, limit int) ([]geo.City, bool) {
	return c.cities.Get(citiesKey(query, country, lang, limit))
}

// SaveCities stores a city search result.
func (c *Cache) SaveCities(query, country, lang string, limit int, cities []geo.City) {
	c.cities.Add(citiesKey(query, country, lang, limit), cities)
}

// Len reports the number of stored entries. Entries past their TTL count
// until the background eviction reaches them.
func (c *Cache) Len() int {
	return c.timings.Len() + c.hijri.Len() + c.places.Len() + c.cities.Len()
}

// CountryLocator reverse-geocodes coordinates to a country code.
type CountryLocator interface {
	CountryCode(ctx context.Context, c geo.Coordinates) (string, error)
}

// CachedLocator memoizes successful country lookups for the place TTL.
type CachedLocator struct {
	cache *Cache
	next  CountryLocator
}

// Countries wraps next so repeated lookups for the same spot are served from
// c. Errors are not cached.
func (c *Cache) Countries(next CountryLocator) *CachedLocator {
	return &CachedLocator{cache: c, next: next}
}

// CountryCode implements CountryLocator.
func (l *CachedLocator) CountryCode(ctx context.Context, coords geo.Coordinates) (string, error) {
	if cc, ok := l.cache.LoadPlace(coords, "country_code"); ok {
		return cc, nil
	}
	cc, err := l.next.CountryCode(ctx, coords)
	if err != nil {
		return "", err
	}
	l.cache.SavePlace(coords, "country_code", cc)
	return cc, nil
}

// PlaceNamer reverse-geocodes coordinates to a display name.
type PlaceNamer interface {
	PlaceName(ctx context.Context, c geo.Coordinates, lang string) (string, error)
}

// CachedPlaces memoizes successful place-name lookups per language.
type CachedPlaces struct {
	cache *Cache
	next  PlaceNamer
}

// Places wraps next like Countries does.
func (c *Cache) Places(next PlaceNamer) *CachedPlaces {
	return &CachedPlaces{cache: c, next: next}
}

// PlaceName implements PlaceNamer.
func (p *CachedPlaces) PlaceName(ctx context.Context, coords geo.Coordinates, lang string) (string, error) {
	if name, ok := p.cache.LoadPlace(coords, lang); ok {
		return name, nil
	}
	name, err := p.next.PlaceName(ctx, coords, lang)
	if err != nil {
		return "", err
	}
	p.cache.SavePlace(coords, lang, name)
	return name, nil
}
