// Package resilience wraps outbound HTTP calls in a circuit breaker.
//
// Calls are never retried. A failing upstream trips the breaker so repeated
// polling does not keep hammering it.
package resilience

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the breaker rejects a call without
// contacting the upstream.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ServerError marks a 5xx response as a breaker failure.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status %d", e.StatusCode)
}

// Config configures a breaker-guarded HTTP client.
type Config struct {
	// Name identifies the breaker in logs.
	Name string
	// Timeout bounds a single HTTP exchange.
	Timeout time.Duration
	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counts. Zero never clears them.
	Interval time.Duration
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
	// ReadyToTrip decides when to open. Defaults to DefaultReadyToTrip.
	ReadyToTrip func(counts gobreaker.Counts) bool
	// Logger receives state transitions.
	Logger zerolog.Logger
}

// DefaultConfig returns the settings used for every upstream.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		Timeout:     10 * time.Second,
		MaxRequests: 1,
		Interval:    time.Minute,
		OpenTimeout: 30 * time.Second,
		ReadyToTrip: DefaultReadyToTrip,
		Logger:      zerolog.Nop(),
	}
}

// DefaultReadyToTrip opens the circuit after at least 5 requests with a
// failure ratio of 50% or more.
func DefaultReadyToTrip(counts gobreaker.Counts) bool {
	if counts.Requests < 5 {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
}

// Client is an http.Client behind a circuit breaker.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
}

// NewClient builds a Client from cfg, filling zero fields from DefaultConfig.
func NewClient(cfg Config) *Client {
	def := DefaultConfig(cfg.Name)
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = def.ReadyToTrip
	}

	logger := cfg.Logger
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: cfg.ReadyToTrip,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker[*http.Response](settings),
	}
}

// Do sends req once. Transport errors and 5xx responses count as breaker
// failures; a 5xx response is still returned to the caller so it can report
// the upstream body. Callers must close the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		r, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if r.StatusCode >= http.StatusInternalServerError {
			return r, &ServerError{StatusCode: r.StatusCode}
		}
		return r, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		var serverErr *ServerError
		if errors.As(err, &serverErr) && resp != nil {
			return resp, nil
		}
		return nil, err
	}
	return resp, nil
}

// State reports the breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}
