package prayer

import (
	"fmt"
	"time"
)

// Status tags a Result.
type Status int

const (
	// NoData means the day had no timings at all.
	NoData Status = iota
	// Found means Name, At and In are set.
	Found
	// Exhausted means every prayer of the day has passed.
	Exhausted
)

func (s Status) String() string {
	switch s {
	case NoData:
		return "no-data"
	case Found:
		return "found"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result answers "what is next". It is recomputed on every tick.
type Result struct {
	Status Status        `json:"status"`
	Name   Name          `json:"name,omitempty"`
	At     time.Time     `json:"at"`
	In     time.Duration `json:"-"`
}

// Next returns the first prayer in Order that is strictly after now. A
// prayer whose time equals now has already passed.
func Next(now time.Time, day *Day) Result {
	if day == nil || len(day.Timings) == 0 {
		return Result{Status: NoData}
	}
	for _, name := range Order {
		t, ok := day.Timings[name]
		if !ok {
			continue
		}
		if t.At.After(now) {
			return Result{Status: Found, Name: name, At: t.At, In: t.At.Sub(now)}
		}
	}
	return Result{Status: Exhausted}
}

// FirstOf builds a Found result for a specific prayer of day, typically
// tomorrow's Fajr once today is exhausted. A prayer at or before now is
// Exhausted.
func FirstOf(now time.Time, day *Day, name Name) Result {
	t, ok := day.Get(name)
	if !ok {
		return Result{Status: NoData}
	}
	if !t.At.After(now) {
		return Result{Status: Exhausted}
	}
	return Result{Status: Found, Name: name, At: t.At, In: t.At.Sub(now)}
}
