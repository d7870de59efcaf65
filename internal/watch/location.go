package watch

import (
	"context"
	"strings"

	"github.com/smokyabdulrahman/prayer-clock/internal/geo"
	"github.com/smokyabdulrahman/prayer-clock/internal/schedule"
)

// Location is a resolved place to compute a schedule for.
type Location struct {
	Request schedule.Request
	// Name is a display label such as "Riyadh, Saudi Arabia".
	Name string
}

// LocationSource supplies the user's location.
type LocationSource interface {
	Locate(ctx context.Context) (Location, error)
}

// Fixed is a manually selected location.
type Fixed Location

// Locate implements LocationSource.
func (f Fixed) Locate(context.Context) (Location, error) {
	return Location(f), nil
}

// IPDetector looks up a location from the public IP.
type IPDetector interface {
	DetectLocation(ctx context.Context) (*geo.Location, error)
}

// PlaceNamer reverse-geocodes a display name.
type PlaceNamer interface {
	PlaceName(ctx context.Context, c geo.Coordinates, lang string) (string, error)
}

// IPSource locates the user by IP. When Places is set the display name is
// reverse-geocoded in Lang, falling back to the detector's city and country.
type IPSource struct {
	Detector IPDetector
	Places   PlaceNamer
	Lang     string
	// School is passed through to every schedule request.
	School *int
}

// Locate implements LocationSource.
func (s IPSource) Locate(ctx context.Context) (Location, error) {
	l, err := s.Detector.DetectLocation(ctx)
	if err != nil {
		return Location{}, err
	}

	loc := Location{
		Request: schedule.Request{
			Coordinates: l.Coordinates(),
			Timezone:    l.Timezone,
			School:      s.School,
		},
		Name: joinNonEmpty(", ", l.City, l.Country),
	}
	if s.Places != nil {
		if name, err := s.Places.PlaceName(ctx, l.Coordinates(), s.Lang); err == nil && name != "" {
			loc.Name = name
		}
	}
	return loc, nil
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
