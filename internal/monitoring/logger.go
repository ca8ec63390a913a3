// Package monitoring holds the process-wide diagnostic logger used by the
// eyemap pipeline. Everything logs through Logf so tests and embedding
// applications can redirect or mute diagnostics with one call.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be swapped with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// Warnf logs a recoverable problem. It shares the sink configured through
// SetLogger but prefixes the message so degraded-mode behaviour (fallback
// bounds, unknown regions) stands out in mixed output.
func Warnf(format string, v ...interface{}) {
	Logf("warning: "+format, v...)
}

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
