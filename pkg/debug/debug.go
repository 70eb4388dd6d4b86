// Package debug writes diagnostic logs when CMAP_DEBUG is set.
//
// Output goes to stderr until SetOutput points it elsewhere. The terminal
// UI sends it to a file, since stderr sits underneath the alt screen.
package debug

import (
	"io"
	"log"
	"os"
)

const prefix = "[cmap] "

var (
	enabled = os.Getenv("CMAP_DEBUG") != ""
	logger  = log.New(os.Stderr, prefix, log.Ltime|log.Lmicroseconds)
)

// Enabled reports whether debug logging is on.
func Enabled() bool { return enabled }

// SetEnabled turns debug logging on or off.
func SetEnabled(e bool) { enabled = e }

// SetOutput redirects debug output.
func SetOutput(w io.Writer) { logger.SetOutput(w) }

// Log writes a printf-style message when logging is on.
func Log(format string, args ...any) {
	if enabled {
		logger.Printf(format, args...)
	}
}

// LogIf is Log guarded by cond.
func LogIf(cond bool, format string, args ...any) {
	if enabled && cond {
		logger.Printf(format, args...)
	}
}
