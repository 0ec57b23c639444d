package match

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cwbudde/algo-specmatch/fit"
)

// Mode selects how residuals are weighted.
type Mode int

const (
	// ModeDefault uses raw flux differences.
	ModeDefault Mode = iota
	// ModeNormalized divides each difference by the quadrature sum of the
	// target and model errors.
	ModeNormalized
)

func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeNormalized:
		return "normalized"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "default" and "normalized", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default", "":
		return ModeDefault, nil
	case "normalized", "normalised":
		return ModeNormalized, nil
	default:
		return 0, fmt.Errorf("match: unknown mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != ModeDefault && m != ModeNormalized {
		return nil, fmt.Errorf("match: unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Option configures a match instance.
type Option func(*options)

type options struct {
	mode      Mode
	method    fit.Method
	methodSet bool
	settings  fit.Settings
	logger    *slog.Logger
}

func defaultOptions() options {
	return options{
		mode:     ModeDefault,
		method:   fit.LevenbergMarquardt,
		settings: fit.DefaultSettings(),
		logger:   slog.New(slog.DiscardHandler),
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithMode selects residual weighting. The default is [ModeDefault].
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithOptimizer selects the minimizer used by [SingleMatch.BestFit]. The
// default is [fit.LevenbergMarquardt]. [LincombMatch] always uses
// [fit.NelderMeadSimplex].
func WithOptimizer(m fit.Method) Option {
	return func(o *options) {
		o.method = m
		o.methodSet = true
	}
}

// WithSettings replaces the minimizer stopping criteria.
func WithSettings(s fit.Settings) Option {
	return func(o *options) { o.settings = s }
}

// WithLogger sets the logger for fit progress. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
