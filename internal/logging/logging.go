// Package logging builds the slog loggers used by the command line tools.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Mode selects a handler preset.
type Mode uint8

const (
	// ModeDev writes human-readable text at debug level.
	ModeDev Mode = iota
	// ModeProd writes JSON at info level.
	ModeProd
	// ModeSilent discards everything.
	ModeSilent
)

func (m Mode) String() string {
	switch m {
	case ModeDev:
		return "dev"
	case ModeProd:
		return "prod"
	case ModeSilent:
		return "silent"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "dev", "prod" and "silent".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "debug", "":
		return ModeDev, nil
	case "prod", "json":
		return ModeProd, nil
	case "silent", "off", "none":
		return ModeSilent, nil
	default:
		return 0, fmt.Errorf("logging: unknown mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// New returns a logger for mode writing to w. A nil w discards output.
func New(mode Mode, w io.Writer) *slog.Logger {
	return slog.New(handler(mode, w))
}

func handler(mode Mode, w io.Writer) slog.Handler {
	if w == nil {
		return slog.DiscardHandler
	}
	switch mode {
	case ModeProd:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilent:
		return slog.DiscardHandler
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}
