// Package diag provides structured diagnostic logging for the three
// error categories the core distinguishes: recoverable protocol
// hiccups, resource-saturation conditions, and fatal failures. None of
// these are returned as Go errors from the hot decode/render path —
// they are logged and the core keeps running (or, for Fatal, the
// caller decides whether to tear down), matching the error-handling
// design's "log, don't propagate" stance for anything on the byte
// stream.
package diag

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger with the three severities the core's
// error-handling design distinguishes.
type Logger struct {
	z zerolog.Logger
}

// New creates a Logger writing to w in zerolog's JSON format, one
// timestamped object per line. Pass os.Stderr for a demo binary; construct over an io.Writer
// of the caller's choosing when embedding the core elsewhere.
func New(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{z: zerolog.New(w).With().Timestamp().Logger()}
}

// Nop returns a Logger that discards everything, for callers (like
// tests) that don't want diagnostics on stderr.
func Nop() *Logger {
	return &Logger{z: zerolog.Nop()}
}

func withFields(e *zerolog.Event, component string, kv ...interface{}) *zerolog.Event {
	e = e.Str("component", component)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	return e
}

// Recoverable logs a condition the decoder or screen model absorbed on
// its own: a malformed escape sequence, an out-of-range CSI argument,
// an unhandled control code. Processing continues unaffected.
func (l *Logger) Recoverable(component, msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	withFields(l.z.Warn(), component, kv...).Msg(msg)
}

// Saturated logs a resource limit being hit: the CSI argument buffer
// filling up, the glyph atlas under permanent thrash, a scroll-back
// buffer at capacity. The core degrades gracefully rather than
// crashing; this is the signal a host can use to warn a user.
func (l *Logger) Saturated(component, msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	withFields(l.z.Error(), component, kv...).Msg(msg)
}

// Fatal logs a condition the core cannot continue past: the pty
// closing unexpectedly, a rasterizer that can no longer produce
// bitmaps. Unlike the stdlib log.Fatal, this does not call os.Exit —
// the caller (ioloop, cmd/driftterm) decides how to unwind.
func (l *Logger) Fatal(component, msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	withFields(l.z.Error(), component, kv...).Bool("fatal", true).Msg(msg)
}
