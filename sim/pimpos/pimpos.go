// Package pimpos describes pitch and impact positions of one wire plane.
//
// Wires are parallel and equally spaced along the pitch direction. The pitch
// axis is divided into one region per wire and each region into a fixed
// number of impact bins, finer than the wire spacing.
package pimpos

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cwbudde/algo-drift/sim/binning"
)

// ErrBadGeometry is returned for an unusable plane description.
var ErrBadGeometry = errors.New("pimpos: invalid plane geometry")

// Pimpos holds the pitch geometry of a wire plane.
type Pimpos struct {
	origin   r3.Vec
	wireDir  r3.Vec
	pitchDir r3.Vec

	nbinsPerWire int
	wirePitch    float64
	regions      binning.Binning
	impacts      binning.Binning
}

// New describes nwires wires whose centers lie at pitch distances from
// minWirePitch to maxWirePitch (inclusive) measured from origin along
// pitchDir. Each wire region is split into impactsPerWire impact bins.
func New(nwires int, minWirePitch, maxWirePitch float64, wireDir, pitchDir, origin r3.Vec, impactsPerWire int) (*Pimpos, error) {
	if nwires < 1 || impactsPerWire < 1 {
		return nil, fmt.Errorf("%w: nwires=%d impacts per wire=%d", ErrBadGeometry, nwires, impactsPerWire)
	}
	if r3.Norm(pitchDir) == 0 {
		return nil, fmt.Errorf("%w: zero pitch direction", ErrBadGeometry)
	}

	wirePitch := 0.0
	if nwires > 1 {
		wirePitch = (maxWirePitch - minWirePitch) / float64(nwires-1)
	}
	if wirePitch <= 0 {
		return nil, fmt.Errorf("%w: wire pitch %g", ErrBadGeometry, wirePitch)
	}

	lo := minWirePitch - 0.5*wirePitch
	hi := maxWirePitch + 0.5*wirePitch

	return &Pimpos{
		origin:       origin,
		wireDir:      r3.Unit(wireDir),
		pitchDir:     r3.Unit(pitchDir),
		nbinsPerWire: impactsPerWire,
		wirePitch:    wirePitch,
		regions:      binning.New(nwires, lo, hi),
		impacts:      binning.New(nwires*impactsPerWire, lo, hi),
	}, nil
}

// Distance returns the pitch coordinate of pt.
func (p *Pimpos) Distance(pt r3.Vec) float64 {
	return r3.Dot(r3.Sub(pt, p.origin), p.pitchDir)
}

// ImpactBinning returns the binning of impact positions along pitch.
func (p *Pimpos) ImpactBinning() binning.Binning { return p.impacts }

// RegionBinning returns the binning of wire regions along pitch.
func (p *Pimpos) RegionBinning() binning.Binning { return p.regions }

// NWires returns the number of wires.
func (p *Pimpos) NWires() int { return p.regions.NBins() }

// WirePitch returns the distance between adjacent wires.
func (p *Pimpos) WirePitch() float64 { return p.wirePitch }

// ImpactsPerWire returns the number of impact bins in one wire region.
func (p *Pimpos) ImpactsPerWire() int { return p.nbinsPerWire }

// ClosestWire returns the index of the wire nearest pitch, possibly out of
// bounds.
func (p *Pimpos) ClosestWire(pitch float64) int { return p.regions.Bin(pitch) }

// WirePosition returns the pitch coordinate of wire index.
func (p *Pimpos) WirePosition(wire int) float64 { return p.regions.Center(wire) }

// ImpactPosition returns the pitch coordinate of impact position index,
// the lower edge of the impact bin of the same index.
func (p *Pimpos) ImpactPosition(impact int) float64 { return p.impacts.Edge(impact) }

// WireImpacts returns the half-open impact index range of a wire region.
func (p *Pimpos) WireImpacts(wire int) (begin, end int) {
	begin = p.impacts.Clamp(wire * p.nbinsPerWire)
	end = p.impacts.Clamp((wire + 1) * p.nbinsPerWire)
	return begin, end
}
