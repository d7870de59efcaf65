package watch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/prayer-clock/internal/geo"
	"github.com/smokyabdulrahman/prayer-clock/internal/schedule"
	"github.com/smokyabdulrahman/prayer-clock/internal/watch"
)

type stubDetector struct {
	loc *geo.Location
	err error
}

func (s stubDetector) DetectLocation(context.Context) (*geo.Location, error) { return s.loc, s.err }

type stubNamer struct {
	name string
	err  error
	lang string
}

func (s *stubNamer) PlaceName(_ context.Context, _ geo.Coordinates, lang string) (string, error) {
	s.lang = lang
	return s.name, s.err
}

func TestFixed_Locate(t *testing.T) {
	f := watch.Fixed{Name: "Makkah", Request: schedule.Request{City: "Makkah", Country: "SA"}}
	loc, err := f.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Makkah", loc.Name)
	assert.Equal(t, "SA", loc.Request.Country)
}

func TestIPSource_Locate(t *testing.T) {
	detected := &geo.Location{City: "Riyadh", Country: "Saudi Arabia", Latitude: 24.7, Longitude: 46.7, Timezone: "Asia/Riyadh"}
	school := 1

	t.Run("detector name", func(t *testing.T) {
		loc, err := watch.IPSource{Detector: stubDetector{loc: detected}, School: &school}.Locate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Riyadh, Saudi Arabia", loc.Name)
		assert.Equal(t, "Asia/Riyadh", loc.Request.Timezone)
		assert.Equal(t, geo.Coordinates{Lat: 24.7, Lng: 46.7}, loc.Request.Coordinates)
		assert.Equal(t, &school, loc.Request.School)
	})

	t.Run("reverse geocoded name", func(t *testing.T) {
		namer := &stubNamer{name: "الرياض، السعودية"}
		loc, err := watch.IPSource{Detector: stubDetector{loc: detected}, Places: namer, Lang: "ar"}.Locate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "الرياض، السعودية", loc.Name)
		assert.Equal(t, "ar", namer.lang)
	})

	t.Run("reverse geocoding failure keeps detector name", func(t *testing.T) {
		namer := &stubNamer{err: errors.New("rate limited")}
		loc, err := watch.IPSource{Detector: stubDetector{loc: detected}, Places: namer}.Locate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Riyadh, Saudi Arabia", loc.Name)
	})

	t.Run("detector failure", func(t *testing.T) {
		_, err := watch.IPSource{Detector: stubDetector{err: errors.New("offline")}}.Locate(context.Background())
		assert.EqualError(t, err, "offline")
	})

	t.Run("partial name", func(t *testing.T) {
		loc, err := watch.IPSource{Detector: stubDetector{loc: &geo.Location{Country: "Japan"}}}.Locate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Japan", loc.Name)
	})
}
