package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/prayer-clock/internal/prayer"
)

// DayOptions controls RenderDay.
type DayOptions struct {
	Place      string
	Locale     string
	TimeLayout string
	// Message is a notice printed under the table, e.g. a failed rollover.
	Message string
}

// RenderDay renders a day's schedule with the next prayer highlighted and
// passed prayers dimmed. next may belong to tomorrow, in which case it is
// shown on its own line under the table.
func RenderDay(day *prayer.Day, next prayer.Result, now time.Time, opts DayOptions) string {
	layout := opts.TimeLayout
	if layout == "" {
		layout = "15:04"
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  " + Bold(title(opts.Locale)) + "\n\n")
	if opts.Place != "" {
		sb.WriteString("  " + opts.Place + "\n")
	}
	if day.Timezone != "" {
		sb.WriteString("  " + Gray(day.Timezone) + "\n")
	}
	if g := day.Gregorian.Readable; g != "" {
		sb.WriteString("  " + g + "\n")
	}
	if h := day.Hijri.Readable; h != "" {
		sb.WriteString("  " + h + "\n")
	}
	sb.WriteString("\n")

	tbl := NewTable([]string{"", "", ""})
	tbl.HideHeader()
	rows := day.Ordered()
	for i, p := range rows {
		clock := p.Label
		if !p.At.IsZero() {
			clock = p.At.Format(layout)
		}
		cells := []string{p.Name.Label(opts.Locale), clock, ""}
		if next.Status == prayer.Found && next.Name == p.Name && next.At.Equal(p.At) {
			cells[2] = "<- " + prayer.FormatCountdown(next.At.Sub(now))
			tbl.SetHighlightRow(i)
		} else if !p.At.After(now) {
			tbl.SetDimmed(i)
		}
		tbl.AddRow(cells)
	}
	sb.WriteString(tbl.Render())

	if next.Status == prayer.Found && !day.Covers(next.At) {
		line := fmt.Sprintf("%s %s (%s)", next.Name.Label(opts.Locale), next.At.Format(layout), prayer.FormatCountdown(next.At.Sub(now)))
		sb.WriteString("\n  " + Accent(line) + "\n")
	}
	if opts.Message != "" {
		sb.WriteString("\n  " + Yellow(opts.Message) + "\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func title(locale string) string {
	if locale == "ar" {
		return "مواقيت الصلاة"
	}
	return "Prayer Times"
}
