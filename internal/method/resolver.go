// Package method picks a calculation method and high-latitude policy for a
// location from its timezone, falling back to reverse geocoding.
package method

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-clock/internal/geo"
)

// LatitudeAdjustment is the Al Adhan latitudeAdjustmentMethod.
type LatitudeAdjustment int

const (
	MiddleOfTheNight LatitudeAdjustment = 1
	OneSeventh       LatitudeAdjustment = 2
	AngleBased       LatitudeAdjustment = 3
)

func (a LatitudeAdjustment) String() string {
	switch a {
	case MiddleOfTheNight:
		return "middle of the night"
	case OneSeventh:
		return "one seventh"
	case AngleBased:
		return "angle based"
	default:
		return fmt.Sprintf("LatitudeAdjustment(%d)", int(a))
	}
}

// Valid reports whether a is one of the three API policies.
func (a LatitudeAdjustment) Valid() bool {
	return a >= MiddleOfTheNight && a <= AngleBased
}

// Hint is the resolver's suggestion. A nil field means "let the API decide".
type Hint struct {
	Method             *int                `json:"method,omitempty"`
	LatitudeAdjustment *LatitudeAdjustment `json:"latitudeAdjustmentMethod,omitempty"`
	// Country is the ISO code the method was derived from, if any.
	Country string `json:"country,omitempty"`
}

// CountryLocator reverse-geocodes coordinates to an ISO-3166 alpha-2 code.
type CountryLocator interface {
	CountryCode(ctx context.Context, c geo.Coordinates) (string, error)
}

// Resolver derives a Hint from a timezone and optional coordinates.
type Resolver struct {
	locator CountryLocator
	logger  zerolog.Logger
}

// NewResolver returns a Resolver. locator may be nil, in which case only the
// timezone table is consulted.
func NewResolver(locator CountryLocator, logger zerolog.Logger) *Resolver {
	return &Resolver{locator: locator, logger: logger}
}

// Resolve never fails: unknown zones, lookup errors and unmapped countries
// all leave the corresponding field nil.
func (r *Resolver) Resolve(ctx context.Context, tz string, coords *geo.Coordinates) Hint {
	var hint Hint

	cc, ok := CountryForTimezone(tz)
	if !ok && coords != nil && r.locator != nil {
		code, err := r.locator.CountryCode(ctx, *coords)
		if err != nil {
			r.logger.Debug().Err(err).Str("timezone", tz).Msg("reverse geocode failed")
		}
		cc = strings.ToUpper(code)
	}

	if cc != "" {
		hint.Country = cc
		if id, ok := ForCountry(cc); ok {
			hint.Method = &id
		}
	}

	if IsHighLatitude(tz) {
		adj := AngleBased
		hint.LatitudeAdjustment = &adj
	}

	return hint
}
