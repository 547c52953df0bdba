package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Levels beyond the four built into slog. Trace sits below Debug and Fatal
// above Error; Fatal only marks severity and never exits the process.
const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

// Output formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a configured application logger.
// It writes to w (Stderr when nil, to keep Stdout for command output).
// It standardizes common keys (e.g., "error" -> "err") and names the
// trace/fatal levels.
func New(w io.Writer, level slog.Leveler, format string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(NewHandler(w, level, format))
}

// NewHandler builds the slog.Handler used by New, so callers can wrap it
// (e.g. with Stats) before building a logger.
func NewHandler(w io.Writer, level slog.Leveler, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}
	if format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	// Standardize 'error' key to 'err'
	if a.Key == "error" {
		a.Key = "err"
	}
	if a.Key == slog.LevelKey && len(groups) == 0 {
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(LevelName(lvl))
		}
	}
	return a
}

// LevelName returns the display name of one of the six levels.
func LevelName(l slog.Level) string {
	switch bucket(l) {
	case LevelTrace:
		return "TRACE"
	case LevelFatal:
		return "FATAL"
	default:
		return bucket(l).String()
	}
}

// ParseLevel converts a flag value into a level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "fatal":
		return LevelFatal, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q: must be one of trace|debug|info|warning|error|fatal", s)
}

// bucket snaps an arbitrary slog level onto the six named levels.
func bucket(l slog.Level) slog.Level {
	switch {
	case l < slog.LevelDebug:
		return LevelTrace
	case l < slog.LevelInfo:
		return slog.LevelDebug
	case l < slog.LevelWarn:
		return slog.LevelInfo
	case l < slog.LevelError:
		return slog.LevelWarn
	case l < LevelFatal:
		return slog.LevelError
	default:
		return LevelFatal
	}
}
