// Package i18n holds the user-facing strings shown when something goes wrong.
package i18n

// Key identifies a message.
type Key int

const (
	// FetchFailed is shown when today's timings cannot be retrieved.
	FetchFailed Key = iota
	// LocationFailed is shown when the user's position cannot be determined.
	LocationFailed
	// TomorrowFailed is shown when tomorrow's Fajr cannot be retrieved.
	TomorrowFailed
)

// DefaultLocale is used for unknown locales.
const DefaultLocale = "ar"

var messages = map[string]map[Key]string{
	"ar": {
		FetchFailed:    "تعذر جلب أوقات الصلاة. حاول لاحقاً.",
		LocationFailed: "لم نتمكن من الحصول على موقعك. يرجى اختيار موقعك يدوياً.",
		TomorrowFailed: "تعذر جلب موعد فجر الغد.",
	},
	"en": {
		FetchFailed:    "Could not fetch prayer times. Please try again later.",
		LocationFailed: "Could not determine your location. Please choose it manually.",
		TomorrowFailed: "Could not fetch tomorrow's Fajr.",
	},
}

// Message returns the text for key in locale.
func Message(key Key, locale string) string {
	table, ok := messages[locale]
	if !ok {
		table = messages[DefaultLocale]
	}
	return table[key]
}

// Supported reports whether locale has its own translations.
func Supported(locale string) bool {
	_, ok := messages[locale]
	return ok
}
