package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format constants for display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatClock              = "countdown"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatNameAndClock       = "name-and-countdown"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// Formats lists the named display modes.
var Formats = []string{
	FormatTimeRemaining,
	FormatClock,
	FormatNextPrayerTime,
	FormatNameAndTime,
	FormatNameAndRemaining,
	FormatNameAndClock,
	FormatShortNameAndTime,
	FormatShortNameAndRemain,
	FormatFull,
}

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Display name, e.g. "Asr" or "العصر"
	ShortName string // Abbreviated name, e.g. "A"
	Time      string // Formatted prayer time, e.g. "15:02" or "3:02 PM"
	Remaining string // Time remaining, e.g. "2h 15m"
	Countdown string // Time remaining as HH:MM:SS
	Hours     int    // Whole hours remaining
	Minutes   int    // Remaining minutes after hours
}

// FormatOptions controls FormatOutput.
type FormatOptions struct {
	// Mode is a named format or a Go template containing "{{".
	Mode string
	// TimeLayout is "15:04" for 24h or "3:04 PM" for 12h.
	TimeLayout string
	// Locale selects prayer name translations.
	Locale string
}

// FormatOutput formats a Found result for display. The remaining time is
// measured from now, not from when r was computed.
//
// If Mode contains "{{", it is treated as a custom Go template string.
// Available template fields: .Name, .ShortName, .Time, .Remaining,
// .Countdown, .Hours, .Minutes
//
// Example: "{{.Name}} in {{.Countdown}}" -> "Asr in 02:15:00"
func FormatOutput(r Result, now time.Time, opts FormatOptions) string {
	if r.Status != Found {
		return "--:--"
	}

	layout := opts.TimeLayout
	if layout == "" {
		layout = "15:04"
	}
	d := r.At.Sub(now)
	name := r.Name.Label(opts.Locale)
	remaining := FormatRemaining(d)
	countdown := FormatCountdown(d)
	timeStr := r.At.Format(layout)
	short := r.Name.Short()

	if strings.Contains(opts.Mode, "{{") {
		return formatCustom(opts.Mode, FormatData{
			Name:      name,
			ShortName: short,
			Time:      timeStr,
			Remaining: remaining,
			Countdown: countdown,
			Hours:     int(d.Hours()),
			Minutes:   int(d.Minutes()) % 60,
		})
	}

	switch opts.Mode {
	case FormatTimeRemaining:
		return remaining
	case FormatClock:
		return countdown
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndTime:
		return fmt.Sprintf("%s %s", name, timeStr)
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", name, remaining)
	case FormatNameAndClock:
		return fmt.Sprintf("%s %s", name, countdown)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", name, timeStr, countdown)
	default:
		return fmt.Sprintf("%s %s", name, timeStr)
	}
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
