// Package config reads the INI run configuration and resolves the named
// field-response and filter sources it refers to.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/gcfg.v1"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cwbudde/algo-drift/internal/units"
	"github.com/cwbudde/algo-drift/sim/binning"
	"github.com/cwbudde/algo-drift/sim/diffusion"
	"github.com/cwbudde/algo-drift/sim/pimpos"
	"github.com/cwbudde/algo-drift/sim/response"
)

// Errors returned by configuration handling.
var (
	ErrUnknownSource = errors.New("config: unknown source")
	ErrInvalid       = errors.New("config: invalid value")
)

// Example is a complete configuration with every key at its default.
const Example = `[response]
# Name of a [fieldresponse] section.
field-response = garfield
plane = 0
# Names of [coldelec] or [rc] sections, convolved in order. Repeatable.
other = elec
nbins = 10000
tick-us = 0.5
impacts-per-wire = 6

[diffusion]
nsigma = 3
fluctuate = false
# constant or linear
strategy = constant
seed = 1

[time]
nticks = 9600
start-us = 0

[plane]
nwires = 1000
pitch-mm = 3
impacts-per-wire = 10

[fieldresponse "garfield"]
# Relative paths are taken from the directory of this file.
file = garfield.json

[coldelec "elec"]
gain = 14
shaping-us = 2

[rc "coupling"]
width-us = 1000
`

// Response configures the plane impact response.
type Response struct {
	FieldResponse  string   `gcfg:"field-response"`
	Plane          int      `gcfg:"plane"`
	Other          []string `gcfg:"other"`
	NBins          int      `gcfg:"nbins"`
	TickUs         float64  `gcfg:"tick-us"`
	ImpactsPerWire int      `gcfg:"impacts-per-wire"`
}

// Diffusion configures the binned diffusion.
type Diffusion struct {
	NSigma    float64 `gcfg:"nsigma"`
	Fluctuate bool    `gcfg:"fluctuate"`
	Strategy  string  `gcfg:"strategy"`
	Seed      int64   `gcfg:"seed"`
}

// Time configures the readout time binning. The tick is the response tick.
type Time struct {
	NTicks  int     `gcfg:"nticks"`
	StartUs float64 `gcfg:"start-us"`
}

// Plane configures the wire plane geometry, centered on zero pitch.
type Plane struct {
	NWires         int     `gcfg:"nwires"`
	PitchMm        float64 `gcfg:"pitch-mm"`
	ImpactsPerWire int     `gcfg:"impacts-per-wire"`
}

// FieldResponseSource names a field-response file.
type FieldResponseSource struct {
	File string `gcfg:"file"`
}

// ColdElecSource parametrizes a cold-electronics filter.
type ColdElecSource struct {
	Gain      float64 `gcfg:"gain"`
	ShapingUs float64 `gcfg:"shaping-us"`
}

// RCSource parametrizes an RC filter.
type RCSource struct {
	WidthUs float64 `gcfg:"width-us"`
}

// Config is the whole run configuration.
type Config struct {
	Response  Response  `gcfg:"response"`
	Diffusion Diffusion `gcfg:"diffusion"`
	Time      Time      `gcfg:"time"`
	Plane     Plane     `gcfg:"plane"`

	FieldResponses map[string]*FieldResponseSource `gcfg:"fieldresponse"`
	ColdElecs      map[string]*ColdElecSource      `gcfg:"coldelec"`
	RCs            map[string]*RCSource            `gcfg:"rc"`

	// dir resolves relative file names.
	dir string
}

// Default returns the configuration used for keys a file leaves out.
func Default() *Config {
	return &Config{
		Response: Response{
			Plane:          0,
			NBins:          10000,
			TickUs:         0.5,
			ImpactsPerWire: 6,
		},
		Diffusion: Diffusion{
			NSigma:   3,
			Strategy: "constant",
			Seed:     1,
		},
		Time:  Time{NTicks: 9600},
		Plane: Plane{NWires: 1000, PitchMm: 3, ImpactsPerWire: 10},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := gcfg.ReadFileInto(cfg, path); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads text over the defaults and validates the result. Relative
// file names resolve against dir.
func Parse(text, dir string) (*Config, error) {
	cfg := Default()
	if err := gcfg.ReadStringInto(cfg, text); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.dir = dir
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func invalid(key string, v any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalid, key, v)
}

// Validate checks value ranges. Source names are checked on resolution.
func (c *Config) Validate() error {
	switch {
	case c.Response.NBins <= 0:
		return invalid("response.nbins", c.Response.NBins)
	case c.Response.TickUs <= 0:
		return invalid("response.tick-us", c.Response.TickUs)
	case c.Response.ImpactsPerWire < 2:
		return invalid("response.impacts-per-wire", c.Response.ImpactsPerWire)
	case c.Diffusion.NSigma <= 0:
		return invalid("diffusion.nsigma", c.Diffusion.NSigma)
	case c.Time.NTicks <= 0:
		return invalid("time.nticks", c.Time.NTicks)
	case c.Plane.NWires < 2:
		return invalid("plane.nwires", c.Plane.NWires)
	case c.Plane.PitchMm <= 0:
		return invalid("plane.pitch-mm", c.Plane.PitchMm)
	case c.Plane.ImpactsPerWire < 1:
		return invalid("plane.impacts-per-wire", c.Plane.ImpactsPerWire)
	}
	if _, err := diffusion.ParseStrategy(c.Diffusion.Strategy); err != nil {
		return invalid("diffusion.strategy", c.Diffusion.Strategy)
	}
	return nil
}

// Tick returns the response and readout tick.
func (c *Config) Tick() float64 { return c.Response.TickUs * units.Microsecond }

// TimeBinning returns the readout time binning.
func (c *Config) TimeBinning() binning.Binning {
	start := c.Time.StartUs * units.Microsecond
	return binning.New(c.Time.NTicks, start, start+float64(c.Time.NTicks)*c.Tick())
}

// Pimpos returns the plane geometry: wires along y, pitch along z, with
// the wire set centered on the origin.
func (c *Config) Pimpos() (*pimpos.Pimpos, error) {
	pitch := c.Plane.PitchMm * units.Millimeter
	half := 0.5 * float64(c.Plane.NWires-1) * pitch
	return pimpos.New(c.Plane.NWires, -half, half,
		r3.Vec{Y: 1}, r3.Vec{Z: 1}, r3.Vec{}, c.Plane.ImpactsPerWire)
}

// DiffusionOptions converts the [diffusion] section.
func (c *Config) DiffusionOptions(logger *zap.Logger) ([]diffusion.Option, error) {
	strategy, err := diffusion.ParseStrategy(c.Diffusion.Strategy)
	if err != nil {
		return nil, err
	}
	return []diffusion.Option{
		diffusion.WithNSigma(c.Diffusion.NSigma),
		diffusion.WithFluctuate(c.Diffusion.Fluctuate),
		diffusion.WithStrategy(strategy),
		diffusion.WithSeed(uint64(c.Diffusion.Seed)),
		diffusion.WithLogger(logger),
	}, nil
}

// FieldResponse loads the field-response table named in [response].
func (c *Config) FieldResponse() (*response.FieldResponse, error) {
	name := c.Response.FieldResponse
	src, ok := c.FieldResponses[name]
	if !ok || src == nil {
		return nil, fmt.Errorf("%w: fieldresponse %q", ErrUnknownSource, name)
	}
	if src.File == "" {
		return nil, invalid(fmt.Sprintf("fieldresponse %q file", name), `""`)
	}
	path := src.File
	if !filepath.IsAbs(path) && c.dir != "" {
		path = filepath.Join(c.dir, path)
	}
	return response.LoadFile(path)
}

// Filters builds the filters named by response.other, in order, sampled on
// the response grid.
func (c *Config) Filters() ([]response.Filter, error) {
	tick := c.Tick()
	nbins := c.Response.NBins

	filters := make([]response.Filter, 0, len(c.Response.Other))
	for _, name := range c.Response.Other {
		if ce, ok := c.ColdElecs[name]; ok && ce != nil {
			if ce.ShapingUs <= 0 {
				return nil, invalid(fmt.Sprintf("coldelec %q shaping-us", name), ce.ShapingUs)
			}
			filters = append(filters, response.ColdElec(ce.Gain, ce.ShapingUs*units.Microsecond, tick, nbins))
			continue
		}
		if rc, ok := c.RCs[name]; ok && rc != nil {
			if rc.WidthUs <= 0 {
				return nil, invalid(fmt.Sprintf("rc %q width-us", name), rc.WidthUs)
			}
			filters = append(filters, response.RC(rc.WidthUs*units.Microsecond, tick, nbins))
			continue
		}
		return nil, fmt.Errorf("%w: other response %q", ErrUnknownSource, name)
	}
	return filters, nil
}

// ResponseOptions converts the [response] section, resolving filters.
func (c *Config) ResponseOptions(logger *zap.Logger) ([]response.Option, error) {
	filters, err := c.Filters()
	if err != nil {
		return nil, err
	}
	return []response.Option{
		response.WithNBins(c.Response.NBins),
		response.WithTick(c.Tick()),
		response.WithImpactsPerWire(c.Response.ImpactsPerWire),
		response.WithFilters(filters...),
		response.WithLogger(logger),
	}, nil
}

// PlaneImpactResponse resolves the field response and filters and builds
// the configured plane's impact response.
func (c *Config) PlaneImpactResponse(logger *zap.Logger) (*response.PlaneImpactResponse, error) {
	fr, err := c.FieldResponse()
	if err != nil {
		return nil, err
	}
	opts, err := c.ResponseOptions(logger)
	if err != nil {
		return nil, err
	}
	return response.New(fr, c.Response.Plane, opts...)
}
