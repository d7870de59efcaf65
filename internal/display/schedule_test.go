package display

import (
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/prayer-clock/internal/api"
	"github.com/smokyabdulrahman/prayer-clock/internal/prayer"
)

func testDay(t *testing.T) *prayer.Day {
	t.Helper()
	day, err := prayer.NormalizeDay(&api.Response{Data: api.Data{
		Timings: api.Timings{"Fajr": "05:00", "Dhuhr": "12:30", "Asr": "15:45", "Maghrib": "18:10", "Isha": "19:40"},
		Date: api.DateInfo{
			Readable:  "28 Feb 2026",
			Gregorian: api.GregorianDate{Date: "28-02-2026"},
		},
		Meta: api.Meta{Timezone: "UTC"},
	}}, prayer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return day
}

func lineWith(out, substr string) string {
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, substr) {
			return l
		}
	}
	return ""
}

func TestRenderDay_NextHighlighted(t *testing.T) {
	SetEnabled(false)
	day := testDay(t)
	now := time.Date(2026, 2, 28, 13, 0, 0, 0, time.UTC)

	out := RenderDay(day, prayer.Next(now, day), now, DayOptions{Place: "Riyadh, Saudi Arabia", Locale: "en"})

	for _, want := range []string{"Prayer Times", "Riyadh, Saudi Arabia", "UTC", "28 Feb 2026"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if l := lineWith(out, "Asr"); !strings.HasSuffix(l, "15:45  <- 02:45:00") {
		t.Errorf("Asr line = %q", l)
	}
	if l := lineWith(out, "Dhuhr"); strings.Contains(l, "<-") {
		t.Errorf("passed prayer should not carry a countdown: %q", l)
	}
}

func TestRenderDay_DimsPassedPrayers(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)
	day := testDay(t)
	now := time.Date(2026, 2, 28, 13, 0, 0, 0, time.UTC)

	out := RenderDay(day, prayer.Next(now, day), now, DayOptions{Locale: "en"})

	if l := lineWith(out, "Fajr"); !strings.Contains(l, dim) {
		t.Errorf("Fajr line should be dimmed: %q", l)
	}
	if l := lineWith(out, "Isha"); strings.Contains(l, "\033[") {
		t.Errorf("Isha line should be plain: %q", l)
	}
}

func TestRenderDay_Arabic(t *testing.T) {
	SetEnabled(false)
	day := testDay(t)
	now := time.Date(2026, 2, 28, 13, 0, 0, 0, time.UTC)

	out := RenderDay(day, prayer.Next(now, day), now, DayOptions{Locale: "ar"})

	if !strings.Contains(out, "مواقيت الصلاة") {
		t.Errorf("missing Arabic title:\n%s", out)
	}
	if l := lineWith(out, prayer.Asr.Label("ar")); !strings.Contains(l, "<- 02:45:00") {
		t.Errorf("Arabic Asr line = %q", l)
	}
}

func TestRenderDay_TomorrowAndMessage(t *testing.T) {
	SetEnabled(false)
	day := testDay(t)
	now := time.Date(2026, 2, 28, 21, 0, 0, 0, time.UTC)
	next := prayer.Result{
		Status: prayer.Found,
		Name:   prayer.Fajr,
		At:     time.Date(2026, 3, 1, 4, 59, 0, 0, time.UTC),
	}

	out := RenderDay(day, next, now, DayOptions{Locale: "en", TimeLayout: "3:04 PM", Message: "heads up"})

	if !strings.Contains(out, "Fajr 4:59 AM (07:59:00)") {
		t.Errorf("missing tomorrow line:\n%s", out)
	}
	if l := lineWith(out, "5:00 AM"); strings.Contains(l, "<-") {
		t.Errorf("today's Fajr must not be highlighted: %q", l)
	}
	if !strings.Contains(out, "heads up") {
		t.Error("missing message")
	}
}
