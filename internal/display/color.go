// Package display renders prayer schedules and status lines for the terminal.
//
// Styling uses raw ANSI codes. It follows NO_COLOR (https://no-color.org/)
// and FORCE_COLOR, and is otherwise on only when the output is a terminal.
package display

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	gray   = "\033[90m"
)

// Imminent is how close a prayer must be for its countdown to be styled as
// urgent.
const Imminent = 15 * time.Minute

var enabled = Detect(os.Stdout)

// Detect reports whether styled output should be written to w. Writers
// that are not files, such as buffers, never get styles unless forced.
func Detect(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetEnabled overrides the detected state, e.g. with Detect(cmd.OutOrStdout()).
func SetEnabled(b bool) {
	enabled = b
}

// Enabled reports whether styling is active.
func Enabled() bool {
	return enabled
}

func style(codes, text string) string {
	if !enabled {
		return text
	}
	return codes + text + reset
}

// Bold is used for titles and table headers.
func Bold(text string) string { return style(bold, text) }

// Dim marks prayers that have passed.
func Dim(text string) string { return style(dim, text) }

// Yellow marks notices such as a failed rollover.
func Yellow(text string) string { return style(yellow, text) }

// Gray marks secondary details: timezone, place.
func Gray(text string) string { return style(gray, text) }

// Accent highlights the next prayer.
func Accent(text string) string { return style(bold+cyan, text) }

// Countdown styles a next-prayer line by how much time is left: bold yellow
// once the prayer is Imminent, green before that. Negative durations are
// treated as imminent.
func Countdown(text string, remaining time.Duration) string {
	if remaining <= Imminent {
		return style(bold+yellow, text)
	}
	return style(green, text)
}
