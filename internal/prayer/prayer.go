// Package prayer normalizes Al Adhan timings into a day schedule and answers
// which prayer comes next.
package prayer

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/prayer-clock/internal/api"
)

// ErrNoPayload is returned by NormalizeDay for a nil response.
var ErrNoPayload = errors.New("no timings payload")

var clockPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// Time is one prayer of a normalized day.
type Time struct {
	Name  Name      `json:"name"`
	Label string    `json:"label"` // "HH:MM" as printed by the API, "" if unparseable
	At    time.Time `json:"at"`
}

// CalendarDate is a raw dd-mm-yyyy date with a human label.
type CalendarDate struct {
	Date     string `json:"date"`
	Readable string `json:"readable"`
}

// Day is a normalized schedule. It is not modified after NormalizeDay
// returns it; a new day replaces it wholesale.
type Day struct {
	Timezone   string         `json:"timezone"`
	MethodName string         `json:"method,omitempty"`
	Gregorian  CalendarDate   `json:"gregorian"`
	Hijri      CalendarDate   `json:"hijri"`
	Timings    map[Name]Time  `json:"timings"`
	Location   *time.Location `json:"-"`
	// Base is the instant the API stamped the day with, in Location.
	Base time.Time `json:"-"`
}

// Get returns the named prayer if the source contained it.
func (d *Day) Get(name Name) (Time, bool) {
	if d == nil {
		return Time{}, false
	}
	t, ok := d.Timings[name]
	return t, ok
}

// Ordered returns the present prayers in Order.
func (d *Day) Ordered() []Time {
	if d == nil {
		return nil
	}
	out := make([]Time, 0, len(d.Timings))
	for _, n := range Order {
		if t, ok := d.Timings[n]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Covers reports whether t falls on the day's calendar date in its zone.
func (d *Day) Covers(t time.Time) bool {
	if d == nil {
		return false
	}
	y1, m1, d1 := d.Base.Date()
	y2, m2, d2 := t.In(d.Location).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// WithHijri returns a copy of d carrying the given Hijri date.
func (d *Day) WithHijri(date, readable string) *Day {
	cp := *d
	cp.Hijri = CalendarDate{Date: date, Readable: readable}
	return &cp
}

// Options tunes NormalizeDay.
type Options struct {
	// Fallback is used when the payload has no timezone or an unknown one.
	// Defaults to time.Local.
	Fallback *time.Location
}

// NormalizeDay converts a raw Al Adhan response into a Day. Malformed fields
// are tolerated: missing prayers are omitted, unparseable labels resolve to
// midnight, and absent Hijri parts leave the readable label empty.
func NormalizeDay(raw *api.Response, opts Options) (*Day, error) {
	if raw == nil {
		return nil, ErrNoPayload
	}
	data := raw.Data

	loc := opts.Fallback
	if loc == nil {
		loc = time.Local
	}
	if tz := data.Meta.Timezone; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	base := baseDate(data.Date, loc)

	day := &Day{
		Timezone: data.Meta.Timezone,
		Gregorian: CalendarDate{
			Date:     data.Date.Gregorian.Date,
			Readable: data.Date.Readable,
		},
		Timings:  make(map[Name]Time, len(Order)),
		Location: loc,
		Base:     base,
	}
	if day.Gregorian.Date == "" {
		day.Gregorian.Date = data.Date.Readable
	}
	if data.Meta.Method != nil {
		day.MethodName = data.Meta.Method.Name
	}
	if h := data.Date.Hijri; h != nil {
		day.Hijri = CalendarDate{Date: h.Date, Readable: h.Readable()}
	}

	for _, name := range Order {
		value, ok := lookupLabel(data.Timings, name)
		if !ok || value == "" {
			continue
		}
		label, hour, minute := parseClock(value)
		day.Timings[name] = Time{
			Name:  name,
			Label: label,
			At:    time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, loc),
		}
	}

	return day, nil
}

// lookupLabel tries the exact key, then the upper-case key. The first key
// present wins even if its value is empty.
func lookupLabel(timings api.Timings, name Name) (string, bool) {
	for _, key := range []string{string(name), strings.ToUpper(string(name))} {
		if v, ok := timings[key]; ok {
			return v, true
		}
	}
	return "", false
}

// parseClock extracts the first H:MM or HH:MM in raw. Values are not range
// checked; "99:99" rolls over through time.Date. No match yields 00:00.
func parseClock(raw string) (label string, hour, minute int) {
	m := clockPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", 0, 0
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	return m[0], hour, minute
}

// baseDate picks the day's anchor: the Unix timestamp, else the Gregorian
// dd-mm-yyyy date, else the epoch.
func baseDate(d api.DateInfo, loc *time.Location) time.Time {
	if ts, err := strconv.ParseInt(strings.TrimSpace(d.Timestamp), 10, 64); err == nil {
		return time.Unix(ts, 0).In(loc)
	}
	if t, err := time.ParseInLocation(api.DateLayout, d.Gregorian.Date, loc); err == nil {
		return t
	}
	return time.Unix(0, 0).In(loc)
}
