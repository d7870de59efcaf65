package prayer

import "strings"

// Name identifies one of the six daily events tracked by the clock.
type Name string

const (
	Fajr    Name = "Fajr"
	Sunrise Name = "Sunrise"
	Dhuhr   Name = "Dhuhr"
	Asr     Name = "Asr"
	Maghrib Name = "Maghrib"
	Isha    Name = "Isha"
)

// Order is the display and scan order of the day.
var Order = []Name{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// ShortNames maps prayer names to single-character abbreviations.
var ShortNames = map[Name]string{
	Fajr:    "F",
	Sunrise: "S",
	Dhuhr:   "D",
	Asr:     "A",
	Maghrib: "M",
	Isha:    "I",
}

var arabicNames = map[Name]string{
	Fajr:    "الفجر",
	Sunrise: "الشروق",
	Dhuhr:   "الظهر",
	Asr:     "العصر",
	Maghrib: "المغرب",
	Isha:    "العشاء",
}

// ParseName matches s case-insensitively against the six names.
func ParseName(s string) (Name, bool) {
	for _, n := range Order {
		if strings.EqualFold(string(n), s) {
			return n, true
		}
	}
	return "", false
}

// Short returns the one-letter abbreviation.
func (n Name) Short() string {
	return ShortNames[n]
}

// Label returns the display name for locale. Only "ar" is translated.
func (n Name) Label(locale string) string {
	if locale == "ar" {
		if s, ok := arabicNames[n]; ok {
			return s
		}
	}
	return string(n)
}
