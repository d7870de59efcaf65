package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/prayer-clock/internal/geo"
	"github.com/smokyabdulrahman/prayer-clock/internal/method"
	"github.com/smokyabdulrahman/prayer-clock/internal/schedule"
)

// parseRequest reads a location (lat/lng or city/country) and the optional
// calculation overrides from the query string.
func parseRequest(r *http.Request) (schedule.Request, []FieldError) {
	q := r.URL.Query()
	req := schedule.Request{
		City:     strings.TrimSpace(q.Get("city")),
		Country:  strings.TrimSpace(q.Get("country")),
		Timezone: q.Get("tz"),
		Tune:     q.Get("tune"),
	}

	var errs []FieldError
	coords, hasCoords, coordErrs := parseCoordinates(q.Get("lat"), q.Get("lng"))
	errs = append(errs, coordErrs...)
	switch {
	case hasCoords:
		req.Coordinates = coords
		req.City, req.Country = "", ""
	case req.City != "" && req.Country == "":
		errs = append(errs, FieldError{Field: "country", Message: "is required with city"})
	case req.City == "" && len(coordErrs) == 0:
		errs = append(errs, FieldError{Field: "lat", Message: "lat/lng or city/country is required"})
	}

	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			errs = append(errs, FieldError{Field: "tz", Message: "unknown IANA timezone"})
		}
	}

	if v := q.Get("method"); v != "" {
		id, err := strconv.Atoi(v)
		if _, ok := method.Lookup(id); err != nil || !ok {
			errs = append(errs, FieldError{Field: "method", Message: "unknown calculation method"})
		} else {
			req.Method = &id
		}
	}
	if v := q.Get("school"); v != "" {
		school, err := strconv.Atoi(v)
		if err != nil || (school != 0 && school != 1) {
			errs = append(errs, FieldError{Field: "school", Message: "must be 0 (Shafi) or 1 (Hanafi)"})
		} else {
			req.School = &school
		}
	}
	if v := q.Get("latitudeAdjustment"); v != "" {
		n, err := strconv.Atoi(v)
		adj := method.LatitudeAdjustment(n)
		if err != nil || !adj.Valid() {
			errs = append(errs, FieldError{Field: "latitudeAdjustment", Message: "must be 1, 2 or 3"})
		} else {
			req.LatitudeAdjustment = &adj
		}
	}

	return req, errs
}

// parseCoordinates parses a lat/lng pair. Both empty is not an error.
func parseCoordinates(lat, lng string) (geo.Coordinates, bool, []FieldError) {
	if lat == "" && lng == "" {
		return geo.Coordinates{}, false, nil
	}

	var errs []FieldError
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil || la < -90 || la > 90 {
		errs = append(errs, FieldError{Field: "lat", Message: "must be a number between -90 and 90"})
	}
	lo, err := strconv.ParseFloat(lng, 64)
	if err != nil || lo < -180 || lo > 180 {
		errs = append(errs, FieldError{Field: "lng", Message: "must be a number between -180 and 180"})
	}
	if len(errs) > 0 {
		return geo.Coordinates{}, false, errs
	}
	return geo.Coordinates{Lat: la, Lng: lo}, true, nil
}
