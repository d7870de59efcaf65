package api

import "strings"

// Response represents the top-level Al Adhan timings response.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

// Data holds the prayer timings, date info, and metadata.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings maps an event name to its "HH:MM" label. Keys are usually
// title-case ("Fajr") but some mirrors return them upper-case ("FAJR"), and
// values may carry a zone suffix like "05:29 (AST)".
type Timings map[string]string

// DateInfo contains date representations.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     *HijriDate    `json:"hijri,omitempty"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri (Islamic) date.
type HijriDate struct {
	Date        string           `json:"date"` // e.g. "10-08-1447"
	Day         string           `json:"day"`
	Month       HijriMonth       `json:"month"`
	Year        string           `json:"year"`
	Designation HijriDesignation `json:"designation"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // English name, e.g. "Shaʿbān"
	Ar     string `json:"ar"` // Arabic name
}

// HijriDesignation contains the calendar designation labels.
type HijriDesignation struct {
	Abbreviated string `json:"abbreviated"` // "AH"
	Expanded    string `json:"expanded"`    // "Anno Hegirae"
}

// Readable returns "day month year" using the Arabic month name, or "" when
// any of the three parts is missing.
func (h *HijriDate) Readable() string {
	if h == nil || h.Day == "" || h.Month.Ar == "" || h.Year == "" {
		return ""
	}
	return strings.Join([]string{h.Day, h.Month.Ar, h.Year}, " ")
}

// GregorianDate represents the Gregorian date.
type GregorianDate struct {
	Date    string         `json:"date"` // e.g. "28-02-2026"
	Day     string         `json:"day"`
	Weekday GregorianDay   `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

// GregorianDay contains the weekday name.
type GregorianDay struct {
	En string `json:"en"`
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	Timezone  string      `json:"timezone"`
	Method    *MethodInfo `json:"method,omitempty"`
	School    string      `json:"school"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// HijriConversion is the response of the gToH endpoint.
type HijriConversion struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   struct {
		Hijri     *HijriDate    `json:"hijri"`
		Gregorian GregorianDate `json:"gregorian"`
	} `json:"data"`
}

// Readable returns the composed Hijri label, falling back to the raw Hijri
// date when parts are missing.
func (c *HijriConversion) Readable() string {
	if c == nil || c.Data.Hijri == nil {
		return ""
	}
	if s := c.Data.Hijri.Readable(); s != "" {
		return s
	}
	return c.Data.Hijri.Date
}
