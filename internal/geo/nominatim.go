package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-clock/internal/resilience"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultUserAgent    = "prayer-clock/1.0"

	// DefaultCityLimit and MaxCityLimit bound SearchCities results.
	DefaultCityLimit = 50
	MaxCityLimit     = 100
)

// City is a candidate location for manual selection.
type City struct {
	Name    string  `json:"name"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type nominatimAddress struct {
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	State       string `json:"state"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

// locality picks the most specific settlement name available.
func (a nominatimAddress) locality() string {
	for _, s := range []string{a.City, a.Town, a.Village, a.State} {
		if s != "" {
			return s
		}
	}
	return ""
}

type nominatimPlace struct {
	DisplayName string           `json:"display_name"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Address     nominatimAddress `json:"address"`
}

// Nominatim talks to an OpenStreetMap Nominatim instance.
type Nominatim struct {
	http   *resilience.Client
	logger zerolog.Logger
	// BaseURL is the Nominatim root. Exported for testing with httptest.
	BaseURL string
	// UserAgent is required by the Nominatim usage policy.
	UserAgent string
}

// NewNominatim returns a client for the public Nominatim instance.
func NewNominatim(logger zerolog.Logger) *Nominatim {
	cfg := resilience.DefaultConfig("nominatim")
	cfg.Logger = logger
	return &Nominatim{
		http:      resilience.NewClient(cfg),
		logger:    logger,
		BaseURL:   defaultNominatimURL,
		UserAgent: defaultUserAgent,
	}
}

// CountryCode reverse-geocodes c at country zoom and returns the upper-case
// ISO-3166 alpha-2 code, or "" when the point is not in any country.
func (n *Nominatim) CountryCode(ctx context.Context, c Coordinates) (string, error) {
	params := n.reverseParams(c)
	params.Set("zoom", "3")

	var place nominatimPlace
	if err := n.get(ctx, "/reverse", params, &place); err != nil {
		return "", err
	}
	return strings.ToUpper(place.Address.CountryCode), nil
}

// PlaceName returns a "city، country" display label for c in the given
// language. Either part may be missing; "" means nothing usable came back.
func (n *Nominatim) PlaceName(ctx context.Context, c Coordinates, lang string) (string, error) {
	params := n.reverseParams(c)
	if lang != "" {
		params.Set("accept-language", lang)
	}

	var place nominatimPlace
	if err := n.get(ctx, "/reverse", params, &place); err != nil {
		return "", err
	}

	parts := make([]string, 0, 2)
	if s := place.Address.locality(); s != "" {
		parts = append(parts, s)
	}
	if place.Address.Country != "" {
		parts = append(parts, place.Address.Country)
	}
	sep := ", "
	if lang == "ar" {
		sep = "، "
	}
	return strings.Join(parts, sep), nil
}

// SearchCities finds candidate cities matching query, optionally restricted
// to an ISO-3166 country. Queries shorter than two characters search generic
// settlement terms inside country instead, and return nothing without one.
// Results are de-duplicated by name and country.
func (n *Nominatim) SearchCities(ctx context.Context, query, country, lang string, limit int) ([]City, error) {
	if limit <= 0 {
		limit = DefaultCityLimit
	}
	if limit > MaxCityLimit {
		limit = MaxCityLimit
	}

	query = strings.TrimSpace(query)
	var terms []string
	switch {
	case len([]rune(query)) >= 2:
		terms = []string{query}
	case country != "":
		terms = []string{"city", "town", "village"}
	default:
		return nil, nil
	}

	var places []nominatimPlace
	for _, term := range terms {
		params := url.Values{}
		params.Set("q", term)
		params.Set("format", "json")
		params.Set("limit", strconv.Itoa(limit))
		params.Set("addressdetails", "1")
		if lang != "" {
			params.Set("accept-language", lang)
		}
		if country != "" {
			params.Set("countrycodes", strings.ToLower(country))
		}

		var batch []nominatimPlace
		if err := n.get(ctx, "/search", params, &batch); err != nil {
			return nil, err
		}
		places = append(places, batch...)
	}

	return dedupeCities(places, limit), nil
}

func dedupeCities(places []nominatimPlace, limit int) []City {
	type key struct{ name, country string }
	seen := make(map[key]bool)
	cities := make([]City, 0, len(places))
	for _, p := range places {
		name := p.Address.locality()
		if name == "" {
			name = p.DisplayName
		}
		lat, latErr := strconv.ParseFloat(p.Lat, 64)
		lng, lngErr := strconv.ParseFloat(p.Lon, 64)
		if name == "" || latErr != nil || lngErr != nil {
			continue
		}
		k := key{name, p.Address.Country}
		if seen[k] {
			continue
		}
		seen[k] = true
		cities = append(cities, City{Name: name, Country: p.Address.Country, Lat: lat, Lng: lng})
		if len(cities) == limit {
			break
		}
	}
	return cities
}

func (n *Nominatim) reverseParams(c Coordinates) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.Lng, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	return params
}

func (n *Nominatim) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := n.BaseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", n.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	n.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("nominatim request")

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
