package signal

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-drift/internal/units"
	"github.com/cwbudde/algo-drift/sim/diffusion"
	"github.com/cwbudde/algo-drift/sim/response"
	"github.com/cwbudde/algo-drift/sim/waveform"
)

// ErrNoWire is returned for a wire index outside the plane.
var ErrNoWire = errors.New("signal: no such wire")

// Wires locates the wires of a plane along the pitch. *pimpos.Pimpos
// satisfies it.
type Wires interface {
	NWires() int
	WirePosition(wire int) float64
}

// Option mutates a Plane.
type Option func(*Plane)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Plane) {
		if l != nil {
			p.logger = l
		}
	}
}

// Plane computes wire signals from one BinnedDiffusion and one
// PlaneImpactResponse sharing the same pitch frame.
type Plane struct {
	wires  Wires
	bd     *diffusion.BinnedDiffusion
	pir    *response.PlaneImpactResponse
	logger *zap.Logger

	mu        sync.Mutex
	resampled map[int][]complex128
}

// New returns a Plane over the given wires, charge and responses.
func New(wires Wires, bd *diffusion.BinnedDiffusion, pir *response.PlaneImpactResponse, opts ...Option) *Plane {
	p := &Plane{
		wires:     wires,
		bd:        bd,
		pir:       pir,
		logger:    zap.NewNop(),
		resampled: map[int][]complex128{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// ImpactRange returns the half-open impact bin range that can induce a
// signal on wire.
func (p *Plane) ImpactRange(wire int) (begin, end int) {
	pos := p.wires.WirePosition(wire)
	half := p.pir.HalfExtent()
	return p.bd.ImpactBinning().Range(pos-half, pos+half)
}

// impactPitch returns the pitch an impact's charge is attributed to: the
// bin center for constant binning, the lower bin edge for linear.
func (p *Plane) impactPitch(impact int) float64 {
	ib := p.bd.ImpactBinning()
	if p.bd.Config().Strategy == diffusion.Linear {
		return ib.Edge(impact)
	}
	return ib.Center(impact)
}

// Wire returns the signal induced on wire, one sample per time bin of the
// BinnedDiffusion. A wire no charge reaches yields zeros.
func (p *Plane) Wire(wire int) ([]float64, error) {
	if wire < 0 || wire >= p.wires.NWires() {
		return nil, fmt.Errorf("%w: %d", ErrNoWire, wire)
	}

	nticks := p.bd.TimeBinning().NBins()
	sum := make([]complex128, nticks)
	pos := p.wires.WirePosition(wire)

	contributions := 0
	begin, end := p.ImpactRange(wire)
	for impact := begin; impact < end; impact++ {
		id, err := p.bd.ImpactData(impact)
		if err != nil {
			return nil, err
		}
		if id == nil {
			continue
		}
		ir := p.pir.Closest(p.impactPitch(impact) - pos)
		if ir == nil {
			continue
		}
		rspec, err := p.responseSpectrum(ir, nticks)
		if err != nil {
			return nil, err
		}
		for k, v := range id.Spectrum() {
			sum[k] += v * rspec[k]
		}
		contributions++
	}

	if contributions == 0 {
		return make([]float64, nticks), nil
	}
	p.logger.Debug("wire signal",
		zap.Int("wire", wire),
		zap.Int("impacts", contributions))
	return waveform.IDFT(sum)
}

// responseSpectrum returns the spectrum of ir on the diffusion tick grid,
// resampling it when the response was built on another grid.
func (p *Plane) responseSpectrum(ir *response.ImpactResponse, nticks int) ([]complex128, error) {
	tick := p.bd.TimeBinning().BinSize()
	if p.pir.NBins() == nticks && math.Abs(p.pir.Tick()-tick) <= units.Nanosecond {
		return ir.Spectrum(), nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if spec, ok := p.resampled[ir.Index()]; ok {
		return spec, nil
	}

	wave, err := ir.Waveform()
	if err != nil {
		return nil, err
	}
	// Samples hold charge per tick.
	rs, err := waveform.Resample(wave, p.pir.Tick(), tick, nticks)
	if err != nil {
		return nil, err
	}
	waveform.Scale(rs, tick/p.pir.Tick())
	spec, err := waveform.DFT(rs)
	if err != nil {
		return nil, err
	}
	p.resampled[ir.Index()] = spec
	return spec, nil
}

// Sweep computes wires begin..end-1 in order, passing each signal to fn,
// and evicts impacts behind the sweep from the BinnedDiffusion as soon as
// no later wire needs them.
func (p *Plane) Sweep(begin, end int, fn func(wire int, signal []float64) error) error {
	begin = max(begin, 0)
	end = min(end, p.wires.NWires())
	for wire := begin; wire < end; wire++ {
		lo, hi := p.ImpactRange(wire)
		p.bd.SetWindow(lo, hi)

		sig, err := p.Wire(wire)
		if err != nil {
			return fmt.Errorf("signal: wire %d: %w", wire, err)
		}
		if err := fn(wire, sig); err != nil {
			return err
		}
	}
	return nil
}
