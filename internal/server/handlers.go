package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/prayer-clock/internal/api"
	"github.com/smokyabdulrahman/prayer-clock/internal/geo"
	"github.com/smokyabdulrahman/prayer-clock/internal/i18n"
	"github.com/smokyabdulrahman/prayer-clock/internal/method"
	"github.com/smokyabdulrahman/prayer-clock/internal/prayer"
)

type handlers struct {
	cfg Config
}

type healthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Time    time.Time `json:"time"`
}

// health handles GET /v1/ops/health.
func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: h.cfg.Version, Time: h.cfg.Now().UTC()})
}

// getDay handles GET /v1/prayer/day.
func (h *handlers) getDay(w http.ResponseWriter, r *http.Request) {
	req, errs := parseRequest(r)
	date := h.cfg.Now()
	if v := r.URL.Query().Get("date"); v != "" && len(errs) == 0 {
		zone := h.cfg.Schedule.Zone(req)
		d, err := time.ParseInLocation(api.DateLayout, v, zone)
		if err != nil {
			errs = append(errs, FieldError{Field: "date", Message: "must be dd-mm-yyyy"})
		}
		// An explicit date is a calendar day, not an instant to re-anchor.
		req.Zone = zone
		date = d
	}
	if len(errs) > 0 {
		badRequest(w, r, errs)
		return
	}

	day, err := h.cfg.Schedule.Day(r.Context(), req, date)
	if err != nil {
		h.upstreamFailed(w, r, err, i18n.FetchFailed)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

type nextResponse struct {
	Status    prayer.Status `json:"status"`
	Name      prayer.Name   `json:"name,omitempty"`
	Label     string        `json:"label,omitempty"`
	At        *time.Time    `json:"at,omitempty"`
	Countdown string        `json:"countdown,omitempty"`
	Timezone  string        `json:"timezone"`
	Message   string        `json:"message,omitempty"`
}

// getNext handles GET /v1/prayer/next.
func (h *handlers) getNext(w http.ResponseWriter, r *http.Request) {
	req, errs := parseRequest(r)
	if len(errs) > 0 {
		badRequest(w, r, errs)
		return
	}

	locale := localeOf(r)
	now := h.cfg.Now()
	res, day, err := h.cfg.Schedule.Next(r.Context(), req, now)
	if err != nil && day == nil {
		h.upstreamFailed(w, r, err, i18n.FetchFailed)
		return
	}

	out := nextResponse{Status: res.Status, Timezone: day.Timezone}
	if err != nil {
		h.cfg.Logger.Warn().Err(err).Str("request_id", GetRequestID(r.Context())).Msg("tomorrow unavailable")
		out.Message = i18n.Message(i18n.TomorrowFailed, locale)
	}
	if res.Status == prayer.Found {
		at := res.At.In(day.Location)
		out.Name = res.Name
		out.Label = res.Name.Label(locale)
		out.At = &at
		out.Countdown = prayer.FormatCountdown(res.At.Sub(now))
	}
	writeJSON(w, http.StatusOK, out)
}

type methodResponse struct {
	Method             *method.Method `json:"method"`
	LatitudeAdjustment *adjustment    `json:"latitudeAdjustment"`
	Country            string         `json:"country,omitempty"`
}

type adjustment struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// getMethod handles GET /v1/prayer/method.
func (h *handlers) getMethod(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tz := q.Get("tz")
	var errs []FieldError
	if tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			errs = append(errs, FieldError{Field: "tz", Message: "unknown IANA timezone"})
		}
	}
	coords, hasCoords, coordErrs := parseCoordinates(q.Get("lat"), q.Get("lng"))
	errs = append(errs, coordErrs...)
	if tz == "" && !hasCoords && len(errs) == 0 {
		errs = append(errs, FieldError{Field: "tz", Message: "tz or lat/lng is required"})
	}
	if len(errs) > 0 {
		badRequest(w, r, errs)
		return
	}

	var cp *geo.Coordinates
	if hasCoords {
		cp = &coords
	}
	hint := h.cfg.Resolver.Resolve(r.Context(), tz, cp)

	out := methodResponse{Country: hint.Country}
	if hint.Method != nil {
		if m, ok := method.Lookup(*hint.Method); ok {
			out.Method = &m
		} else {
			out.Method = &method.Method{ID: *hint.Method}
		}
	}
	if a := hint.LatitudeAdjustment; a != nil {
		out.LatitudeAdjustment = &adjustment{ID: int(*a), Name: a.String()}
	}
	writeJSON(w, http.StatusOK, out)
}

type citiesResponse struct {
	Cities []geo.City `json:"cities"`
}

// getCities handles GET /v1/location/cities.
func (h *handlers) getCities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	country := strings.ToUpper(strings.TrimSpace(q.Get("country")))
	limit := geo.DefaultCityLimit

	var errs []FieldError
	if query == "" {
		errs = append(errs, FieldError{Field: "q", Message: "is required"})
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errs = append(errs, FieldError{Field: "limit", Message: "must be a positive integer"})
		} else {
			limit = min(n, geo.MaxCityLimit)
		}
	}
	if len(errs) > 0 {
		badRequest(w, r, errs)
		return
	}

	lang := localeOf(r)
	if h.cfg.Cache != nil {
		if cached, ok := h.cfg.Cache.LoadCities(query, country, lang, limit); ok {
			writeJSON(w, http.StatusOK, citiesResponse{Cities: cached})
			return
		}
	}

	found, err := h.cfg.Cities.SearchCities(r.Context(), query, country, lang, limit)
	if err != nil {
		h.upstreamFailed(w, r, err, i18n.LocationFailed)
		return
	}
	if found == nil {
		found = []geo.City{}
	}
	if h.cfg.Cache != nil {
		h.cfg.Cache.SaveCities(query, country, lang, limit, found)
	}
	writeJSON(w, http.StatusOK, citiesResponse{Cities: found})
}

func (h *handlers) upstreamFailed(w http.ResponseWriter, r *http.Request, err error, key i18n.Key) {
	h.cfg.Logger.Error().
		Err(err).
		Str("request_id", GetRequestID(r.Context())).
		Str("path", r.URL.Path).
		Msg("upstream request failed")
	badGateway(w, r, i18n.Message(key, localeOf(r)))
}

// localeOf picks the response language from ?locale= or Accept-Language.
func localeOf(r *http.Request) string {
	if l := r.URL.Query().Get("locale"); i18n.Supported(l) {
		return l
	}
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if i18n.Supported(base) {
			return base
		}
	}
	return i18n.DefaultLocale
}
