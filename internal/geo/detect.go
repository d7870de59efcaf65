// Package geo resolves where the user is: IP geolocation, reverse geocoding
// and city search.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-clock/internal/resilience"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether c lies within the WGS84 range.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Location holds geographic coordinates detected from the user's IP.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// Coordinates returns the location's coordinates.
func (l Location) Coordinates() Coordinates {
	return Coordinates{Lat: l.Latitude, Lng: l.Longitude}
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Timezone string  `json:"timezone"`
}

// DefaultIPAPIURL is the free ip-api.com endpoint. It requires no API key.
const DefaultIPAPIURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// IPLocator determines the caller's location from their public IP address.
type IPLocator struct {
	http *resilience.Client
	// URL is the geolocation endpoint. Exported for testing with httptest.
	URL string
}

// NewIPLocator returns an IPLocator pointed at ip-api.com.
func NewIPLocator(logger zerolog.Logger) *IPLocator {
	cfg := resilience.DefaultConfig("ip-api")
	cfg.Timeout = 5 * time.Second
	cfg.Logger = logger
	return &IPLocator{
		http: resilience.NewClient(cfg),
		URL:  DefaultIPAPIURL,
	}
}

// DetectLocation looks up the caller's location.
func (l *IPLocator) DetectLocation(ctx context.Context) (*Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	return &Location{
		Latitude:  result.Lat,
		Longitude: result.Lon,
		City:      result.City,
		Country:   result.Country,
		Timezone:  result.Timezone,
	}, nil
}
