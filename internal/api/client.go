package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-clock/internal/resilience"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

// DateLayout is the dd-mm-yyyy layout used in Al Adhan paths and payloads.
const DateLayout = "02-01-2006"

// ErrCircuitOpen is returned when recent failures have opened the breaker in
// front of the API.
var ErrCircuitOpen = resilience.ErrCircuitOpen

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	http   *resilience.Client
	logger zerolog.Logger
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
}

// NewClient creates a new API client with sensible defaults.
func NewClient(logger zerolog.Logger) *Client {
	cfg := resilience.DefaultConfig("aladhan")
	cfg.Logger = logger
	return &Client{
		http:    resilience.NewClient(cfg),
		logger:  logger,
		BaseURL: defaultBaseURL,
	}
}

// TimingsQuery selects a single day of timings. When City is set the
// timingsByCity endpoint is used, otherwise the coordinates are sent.
// Nil optional fields are omitted so the API applies its own defaults.
type TimingsQuery struct {
	Date      time.Time
	Latitude  float64
	Longitude float64
	City      string
	Country   string

	Method             *int
	School             *int
	LatitudeAdjustment *int
	Timezone           string
	Tune               string
}

// Params returns the query string parameters for q.
func (q TimingsQuery) Params() url.Values {
	params := url.Values{}
	if q.City != "" {
		params.Set("city", q.City)
		params.Set("country", q.Country)
	} else {
		params.Set("latitude", fmt.Sprintf("%f", q.Latitude))
		params.Set("longitude", fmt.Sprintf("%f", q.Longitude))
	}
	if q.Method != nil {
		params.Set("method", strconv.Itoa(*q.Method))
	}
	if q.School != nil {
		params.Set("school", strconv.Itoa(*q.School))
	}
	if q.LatitudeAdjustment != nil {
		params.Set("latitudeAdjustmentMethod", strconv.Itoa(*q.LatitudeAdjustment))
	}
	if q.Timezone != "" {
		params.Set("timezonestring", q.Timezone)
	}
	if q.Tune != "" {
		params.Set("tune", q.Tune)
	}
	return params
}

// FetchTimings fetches one day of prayer times.
func (c *Client) FetchTimings(ctx context.Context, q TimingsQuery) (*Response, error) {
	path := "timings"
	if q.City != "" {
		path = "timingsByCity"
	}
	endpoint := fmt.Sprintf("%s/%s/%s", c.BaseURL, path, q.Date.Format(DateLayout))

	var apiResp Response
	if err := c.doRequest(ctx, endpoint, q.Params(), &apiResp); err != nil {
		return nil, err
	}
	if apiResp.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", apiResp.Code, apiResp.Status)
	}
	return &apiResp, nil
}

// GregorianToHijri converts a Gregorian date through the gToH endpoint.
func (c *Client) GregorianToHijri(ctx context.Context, date time.Time) (*HijriConversion, error) {
	params := url.Values{}
	params.Set("date", date.Format(DateLayout))

	var conv HijriConversion
	if err := c.doRequest(ctx, c.BaseURL+"/gToH", params, &conv); err != nil {
		return nil, err
	}
	if conv.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", conv.Code, conv.Status)
	}
	return &conv, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return err
		}
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("aladhan request")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	return nil
}
