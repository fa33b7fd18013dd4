package response

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-drift/internal/units"
)

// Config holds PlaneImpactResponse settings.
type Config struct {
	// NBins is the length of every response spectrum.
	NBins int

	// Tick is the sample period of the response grid.
	Tick float64

	// ImpactsPerWire is the number of paths per wire in the field
	// response, from half a pitch below the wire up to the wire.
	ImpactsPerWire int

	// Filters are convolved, in order, with every path response.
	Filters []Filter

	Logger *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns 10000 bins at 0.5 us, six impacts per wire, no
// filters and a no-op logger.
func DefaultConfig() Config {
	return Config{
		NBins:          10000,
		Tick:           0.5 * units.Microsecond,
		ImpactsPerWire: 6,
		Logger:         zap.NewNop(),
	}
}

// WithNBins sets the response spectrum length.
func WithNBins(nbins int) Option {
	return func(cfg *Config) {
		if nbins > 0 {
			cfg.NBins = nbins
		}
	}
}

// WithTick sets the response sample period.
func WithTick(tick float64) Option {
	return func(cfg *Config) {
		if tick > 0 {
			cfg.Tick = tick
		}
	}
}

// WithImpactsPerWire sets the number of paths per wire region.
func WithImpactsPerWire(n int) Option {
	return func(cfg *Config) {
		if n > 1 {
			cfg.ImpactsPerWire = n
		}
	}
}

// WithFilters appends auxiliary responses.
func WithFilters(filters ...Filter) Option {
	return func(cfg *Config) {
		for _, f := range filters {
			if f != nil {
				cfg.Filters = append(cfg.Filters, f)
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
