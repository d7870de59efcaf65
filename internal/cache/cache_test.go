package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/prayer-clock/internal/api"
	"github.com/smokyabdulrahman/prayer-clock/internal/geo"
)

func sampleAPIResponse() *api.Response {
	return &api.Response{
		Code:   200,
		Status: "OK",
		Data: api.Data{
			Timings: api.Timings{"Fajr": "05:17", "Isha": "19:10"},
			Meta:    api.Meta{Timezone: "Europe/London"},
		},
	}
}

func intPtr(v int) *int { return &v }

func sampleQuery() api.TimingsQuery {
	return api.TimingsQuery{
		Date:      time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		Latitude:  51.5074,
		Longitude: -0.1278,
		Method:    intPtr(15),
	}
}

func TestTimings_RoundTrip(t *testing.T) {
	c := New(time.Hour)
	resp := sampleAPIResponse()

	c.SaveTimings(sampleQuery(), resp)

	got := c.LoadTimings(sampleQuery())
	require.NotNil(t, got)
	assert.Same(t, resp, got)
}

func TestTimings_CacheMiss(t *testing.T) {
	c := New(time.Hour)
	assert.Nil(t, c.LoadTimings(sampleQuery()))
}

func TestTimings_Expires(t *testing.T) {
	c := New(50 * time.Millisecond)
	c.SaveTimings(sampleQuery(), sampleAPIResponse())
	require.NotNil(t, c.LoadTimings(sampleQuery()))

	assert.Eventually(t, func() bool { return c.LoadTimings(sampleQuery()) == nil },
		time.Second, 10*time.Millisecond, "entry should expire after the TTL")
}

func TestTimings_DifferentParams(t *testing.T) {
	c := New(time.Hour)
	c.SaveTimings(sampleQuery(), sampleAPIResponse())

	tests := []struct {
		name   string
		mutate func(q *api.TimingsQuery)
	}{
		{"date", func(q *api.TimingsQuery) { q.Date = q.Date.AddDate(0, 0, 1) }},
		{"latitude", func(q *api.TimingsQuery) { q.Latitude = 40 }},
		{"method", func(q *api.TimingsQuery) { q.Method = intPtr(2) }},
		{"method unset", func(q *api.TimingsQuery) { q.Method = nil }},
		{"school", func(q *api.TimingsQuery) { q.School = intPtr(1) }},
		{"latitude adjustment", func(q *api.TimingsQuery) { q.LatitudeAdjustment = intPtr(3) }},
		{"timezone", func(q *api.TimingsQuery) { q.Timezone = "Europe/London" }},
		{"city", func(q *api.TimingsQuery) { q.City = "London" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := sampleQuery()
			tt.mutate(&q)
			assert.Nil(t, c.LoadTimings(q))
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New(0)
	c.SaveTimings(sampleQuery(), sampleAPIResponse())
	assert.NotNil(t, c.LoadTimings(sampleQuery()))

	c = NewWithConfig(Config{})
	for i := 0; i < DefaultSize+10; i++ {
		c.SavePlace(geo.Coordinates{Lat: float64(i)}, "ar", "x")
	}
	assert.Equal(t, DefaultSize, c.Len())
}

func TestHijri_RoundTrip(t *testing.T) {
	c := New(time.Hour)
	date := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	conv := &api.HijriConversion{Code: 200}

	assert.Nil(t, c.LoadHijri(date))
	c.SaveHijri(date, conv)
	assert.Same(t, conv, c.LoadHijri(date))
	assert.Nil(t, c.LoadHijri(date.AddDate(0, 0, 1)))
}

func TestPlace_RoundTrip(t *testing.T) {
	c := NewWithConfig(Config{PlaceTTL: 50 * time.Millisecond})
	coords := geo.Coordinates{Lat: 24.7136, Lng: 46.6753}

	c.SavePlace(coords, "ar", "الرياض، السعودية")

	got, ok := c.LoadPlace(geo.Coordinates{Lat: 24.71361, Lng: 46.67529}, "ar")
	require.True(t, ok, "nearby coordinates share an entry")
	assert.Equal(t, "الرياض، السعودية", got)

	_, ok = c.LoadPlace(coords, "en")
	assert.False(t, ok, "language is part of the key")

	assert.Eventually(t, func() bool {
		_, ok := c.LoadPlace(coords, "ar")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCities_TTL(t *testing.T) {
	c := NewWithConfig(Config{CitiesTTL: 50 * time.Millisecond})
	cities := []geo.City{{Name: "Amman", Country: "Jordan", Lat: 31.95, Lng: 35.93}}

	c.SaveCities("amm", "JO", "ar", 50, cities)

	got, ok := c.LoadCities("amm", "JO", "ar", 50)
	require.True(t, ok)
	assert.Equal(t, cities, got)

	_, ok = c.LoadCities("amm", "JO", "ar", 10)
	assert.False(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := c.LoadCities("amm", "JO", "ar", 50)
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestExpiredEntriesEvicted(t *testing.T) {
	c := NewWithConfig(Config{TimingsTTL: time.Hour, CitiesTTL: 50 * time.Millisecond})
	c.SaveTimings(sampleQuery(), sampleAPIResponse())
	c.SaveCities("q", "", "ar", 50, nil)
	c.SavePlace(geo.Coordinates{}, "ar", "x")
	require.Equal(t, 3, c.Len())

	assert.Eventually(t, func() bool { return c.Len() == 2 },
		2*time.Second, 10*time.Millisecond, "only the city search expires")
}

func TestSize_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewWithConfig(Config{Size: 2})
	first := geo.Coordinates{Lat: 1}
	c.SavePlace(first, "ar", "first")
	c.SavePlace(geo.Coordinates{Lat: 2}, "ar", "second")

	_, ok := c.LoadPlace(first, "ar")
	require.True(t, ok)
	c.SavePlace(geo.Coordinates{Lat: 3}, "ar", "third")

	_, ok = c.LoadPlace(first, "ar")
	assert.True(t, ok, "recently read entry survives")
	_, ok = c.LoadPlace(geo.Coordinates{Lat: 2}, "ar")
	assert.False(t, ok, "least recently used entry is evicted")
	assert.Equal(t, 2, c.Len())
}

func TestCacheKey_Deterministic(t *testing.T) {
	k1 := cacheKey("28-02-2026", 51.5, "London", 2)
	k2 := cacheKey("28-02-2026", 51.5, "London", 2)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 16)
	assert.NotEqual(t, k1, cacheKey("28-02-2026", 51.5, "London", 3))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := sampleQuery()
			q.Latitude = float64(i)
			for j := 0; j < 100; j++ {
				c.SaveTimings(q, sampleAPIResponse())
				_ = c.LoadTimings(q)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, c.Len())
}

type countingLocator struct {
	code  string
	err   error
	calls int
}

func (l *countingLocator) CountryCode(ctx context.Context, c geo.Coordinates) (string, error) {
	l.calls++
	return l.code, l.err
}

func TestCountries_Memoizes(t *testing.T) {
	c := New(time.Hour)
	next := &countingLocator{code: "NZ"}
	loc := c.Countries(next)
	coords := geo.Coordinates{Lat: -36.85, Lng: 174.76}

	for i := 0; i < 3; i++ {
		cc, err := loc.CountryCode(context.Background(), coords)
		require.NoError(t, err)
		assert.Equal(t, "NZ", cc)
	}
	assert.Equal(t, 1, next.calls)
}

func TestCountries_ErrorsNotCached(t *testing.T) {
	c := New(time.Hour)
	next := &countingLocator{err: errors.New("boom")}
	loc := c.Countries(next)

	_, err := loc.CountryCode(context.Background(), geo.Coordinates{})
	require.Error(t, err)
	_, err = loc.CountryCode(context.Background(), geo.Coordinates{})
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
}

type countingNamer struct {
	calls int
}

func (n *countingNamer) PlaceName(_ context.Context, _ geo.Coordinates, lang string) (string, error) {
	n.calls++
	if lang == "ar" {
		return "الرياض، السعودية", nil
	}
	return "Riyadh, Saudi Arabia", nil
}

func TestPlaces_MemoizesPerLanguage(t *testing.T) {
	c := New(time.Hour)
	next := &countingNamer{}
	places := c.Places(next)
	coords := geo.Coordinates{Lat: 24.7136, Lng: 46.6753}

	for i := 0; i < 2; i++ {
		name, err := places.PlaceName(context.Background(), coords, "ar")
		require.NoError(t, err)
		assert.Equal(t, "الرياض، السعودية", name)
	}
	name, err := places.PlaceName(context.Background(), coords, "en")
	require.NoError(t, err)
	assert.Equal(t, "Riyadh, Saudi Arabia", name)
	assert.Equal(t, 2, next.calls)
}
