package diffusion

import (
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"
)

// Config holds BinnedDiffusion settings.
type Config struct {
	// NSigma is how many sigma the 2D Gaussian extends in each direction.
	NSigma float64

	// Fluctuate applies charge-preserving Poisson fluctuations to patches.
	Fluctuate bool

	// Strategy selects constant or linear impact calculation.
	Strategy Strategy

	// Source feeds the Poisson draws. Access is serialized internally.
	Source rand.Source

	Logger *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns nsigma 3, no fluctuation, constant strategy, a
// fixed-seed source and a no-op logger.
func DefaultConfig() Config {
	return Config{
		NSigma:   3,
		Strategy: Constant,
		Source:   rand.NewPCG(1, 2),
		Logger:   zap.NewNop(),
	}
}

// WithNSigma sets the Gaussian truncation in sigma units.
func WithNSigma(nsigma float64) Option {
	return func(cfg *Config) {
		if nsigma > 0 {
			cfg.NSigma = nsigma
		}
	}
}

// WithFluctuate enables or disables Poisson fluctuation.
func WithFluctuate(fluctuate bool) Option {
	return func(cfg *Config) {
		cfg.Fluctuate = fluctuate
	}
}

// WithStrategy sets the impact calculation strategy.
func WithStrategy(s Strategy) Option {
	return func(cfg *Config) {
		cfg.Strategy = s
	}
}

// WithSeed seeds the fluctuation source.
func WithSeed(seed uint64) Option {
	return func(cfg *Config) {
		cfg.Source = rand.NewPCG(seed, seed+1)
	}
}

// WithRand sets the fluctuation source.
func WithRand(src rand.Source) Option {
	return func(cfg *Config) {
		if src != nil {
			cfg.Source = src
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

// lockedSource serializes a rand.Source shared by concurrently sampled
// diffusions.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}
