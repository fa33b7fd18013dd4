package response

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-drift/internal/units"
	"github.com/cwbudde/algo-drift/sim/binning"
	"github.com/cwbudde/algo-drift/sim/waveform"
)

// tickTolerance is the largest filter period deviation accepted as equal
// to the response tick.
const tickTolerance = 1 * units.Nanosecond

// PlaneImpactResponse indexes the filtered response spectra of one plane by
// wire and impact position. It is immutable after New and safe for
// concurrent use.
type PlaneImpactResponse struct {
	plane  int
	nbins  int
	tick   float64
	nper   int
	logger *zap.Logger

	impact     float64
	wirePitch  float64
	halfExtent float64

	responses []*ImpactResponse
	byWire    [][]int
}

// New builds the impact responses of plane planeIdent of fr. Each path
// current is integrated over its native sample, rebinned onto the response
// tick grid, transformed and multiplied by the product of all filter
// spectra.
//
// Paths must come in increasing pitch and, for each wire w, consist of
// exactly ImpactsPerWire paths at w*pitch - k*impact for
// k = ImpactsPerWire-1 .. 0, with wires symmetric about zero.
func New(fr *FieldResponse, planeIdent int, opts ...Option) (*PlaneImpactResponse, error) {
	cfg := ApplyOptions(opts...)
	if fr == nil {
		return nil, ErrEmptyResponse
	}
	if err := fr.Validate(); err != nil {
		return nil, err
	}
	pr, err := fr.Plane(planeIdent)
	if err != nil {
		return nil, err
	}

	lay, err := inferLayout(pr, cfg.ImpactsPerWire)
	if err != nil {
		return nil, fmt.Errorf("response: plane %d: %w", planeIdent, err)
	}

	other, err := combineFilters(cfg)
	if err != nil {
		return nil, err
	}

	nraw := len(pr.Paths[0].Current)
	rawBins := binning.New(nraw, fr.TStart, fr.TStart+float64(nraw)*fr.Period)

	pir := &PlaneImpactResponse{
		plane:      planeIdent,
		nbins:      cfg.NBins,
		tick:       cfg.Tick,
		nper:       cfg.ImpactsPerWire,
		logger:     cfg.Logger,
		impact:     lay.impact,
		wirePitch:  lay.wirePitch,
		halfExtent: lay.halfExtent,
		responses:  make([]*ImpactResponse, len(pr.Paths)),
	}

	for i, path := range pr.Paths {
		spec, err := pir.pathSpectrum(path.Current, rawBins, fr.Period, other)
		if err != nil {
			return nil, fmt.Errorf("response: plane %d path %d: %w", planeIdent, i, err)
		}
		pir.responses[i] = NewImpactResponse(i, spec)
	}

	for w := -lay.half; w <= lay.half; w++ {
		direct, mirror := lay.groups[w], lay.groups[-w]
		row := slices.Clone(direct)
		for j := len(mirror) - 2; j >= 0; j-- {
			row = append(row, mirror[j])
		}
		pir.byWire = append(pir.byWire, row)
	}

	pir.logger.Info("built plane impact response",
		zap.Int("plane", planeIdent),
		zap.Int("paths", len(pr.Paths)),
		zap.Int("wires", len(pir.byWire)),
		zap.Int("filters", len(cfg.Filters)),
		zap.Float64("impact_pitch", pir.impact),
		zap.Float64("wire_pitch", pir.wirePitch),
		zap.Float64("half_extent", pir.halfExtent))

	return pir, nil
}

// combineFilters returns the product of all filter spectra, nil without
// filters.
func combineFilters(cfg Config) ([]complex128, error) {
	var other []complex128
	for i, f := range cfg.Filters {
		if math.Abs(f.Period()-cfg.Tick) > tickTolerance {
			return nil, fmt.Errorf("%w: filter %d period %g, tick %g", ErrTickMismatch, i, f.Period(), cfg.Tick)
		}

		wave := f.Samples()
		if len(wave) != cfg.NBins {
			cfg.Logger.Warn("resizing filter to response length",
				zap.Int("filter", i),
				zap.Int("samples", len(wave)),
				zap.Int("nbins", cfg.NBins))
		}
		wave = waveform.Resize(wave, cfg.NBins)

		spec, err := waveform.DFT(wave)
		if err != nil {
			return nil, fmt.Errorf("response: filter %d: %w", i, err)
		}
		if other == nil {
			other = spec
			continue
		}
		if err := waveform.MultiplyInPlace(other, spec); err != nil {
			return nil, err
		}
	}
	return other, nil
}

// pathSpectrum integrates current over each native bin into charge, sums
// it into the tick bin holding the native bin center, and transforms.
func (pir *PlaneImpactResponse) pathSpectrum(current []float64, raw binning.Binning, period float64, other []complex128) ([]complex128, error) {
	wave := make([]float64, pir.nbins)
	for r, c := range current {
		t := raw.Center(r)
		bin := int(math.Floor(t / pir.tick))
		if bin < 0 || bin >= pir.nbins {
			return nil, fmt.Errorf("%w: time %g us in bin %d of %d", ErrOutOfBounds, t/units.Microsecond, bin, pir.nbins)
		}
		wave[bin] += c * period
	}

	spec, err := waveform.DFT(wave)
	if err != nil {
		return nil, err
	}
	if other != nil {
		if err := waveform.MultiplyInPlace(spec, other); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

// layout is the wire and impact organization inferred from a plane's paths.
type layout struct {
	impact     float64
	wirePitch  float64
	halfExtent float64
	half       int
	groups     map[int][]int
}

func inferLayout(pr *PlaneResponse, nper int) (layout, error) {
	paths := pr.Paths
	if len(paths) < 2 || nper < 2 {
		return layout{}, fmt.Errorf("%w: %d paths, %d per wire", ErrBadLayout, len(paths), nper)
	}
	if pr.Pitch <= 0 {
		return layout{}, fmt.Errorf("%w: pitch %g", ErrBadLayout, pr.Pitch)
	}
	for i := 1; i < len(paths); i++ {
		if paths[i].PitchPos <= paths[i-1].PitchPos {
			return layout{}, fmt.Errorf("%w: path %d not in increasing pitch", ErrBadLayout, i)
		}
	}

	byAbs := make([]float64, len(paths))
	for i, p := range paths {
		byAbs[i] = p.PitchPos
	}
	slices.SortFunc(byAbs, func(a, b float64) int { return cmp.Compare(math.Abs(a), math.Abs(b)) })

	lay := layout{
		impact:     math.Abs(byAbs[1] - byAbs[0]),
		halfExtent: max(math.Abs(paths[0].PitchPos), math.Abs(paths[len(paths)-1].PitchPos)),
		groups:     map[int][]int{},
	}
	lay.wirePitch = 2 * float64(nper-1) * lay.impact
	if math.Abs(lay.wirePitch-pr.Pitch) > 1e-3*pr.Pitch {
		return layout{}, fmt.Errorf("%w: %d impacts of %g do not span half of pitch %g",
			ErrBadLayout, nper, lay.impact, pr.Pitch)
	}

	for i, p := range paths {
		w := int(math.Round(p.PitchPos/pr.Pitch + 0.25))
		lay.groups[w] = append(lay.groups[w], i)
	}

	lo, hi := math.MaxInt, math.MinInt
	for w, idx := range lay.groups {
		lo, hi = min(lo, w), max(hi, w)
		if len(idx) != nper {
			return layout{}, fmt.Errorf("%w: wire %d has %d paths, want %d", ErrBadLayout, w, len(idx), nper)
		}
		for k, i := range idx {
			want := float64(w)*pr.Pitch - float64(nper-1-k)*lay.impact
			if math.Abs(paths[i].PitchPos-want) > 1e-3*lay.impact {
				return layout{}, fmt.Errorf("%w: path %d at %g, want %g", ErrBadLayout, i, paths[i].PitchPos, want)
			}
		}
	}
	if lo != -hi || len(lay.groups) != 2*hi+1 {
		return layout{}, fmt.Errorf("%w: wires %d..%d not symmetric about zero", ErrBadLayout, lo, hi)
	}
	lay.half = hi
	return lay, nil
}

// PlaneID returns the plane identifier.
func (pir *PlaneImpactResponse) PlaneID() int { return pir.plane }

// NBins returns the length of every response spectrum.
func (pir *PlaneImpactResponse) NBins() int { return pir.nbins }

// Tick returns the response sample period.
func (pir *PlaneImpactResponse) Tick() float64 { return pir.tick }

// NWires returns the number of wires covered, including mirrored ones.
func (pir *PlaneImpactResponse) NWires() int { return len(pir.byWire) }

// PathsPerWire returns the number of field-response paths per wire.
func (pir *PlaneImpactResponse) PathsPerWire() int { return pir.nper }

// NImpactsPerWire returns the number of impact positions indexed per wire,
// both sides of the wire included.
func (pir *PlaneImpactResponse) NImpactsPerWire() int {
	if len(pir.byWire) == 0 {
		return 0
	}
	return len(pir.byWire[0])
}

// ImpactPitch returns the distance between adjacent impact positions.
func (pir *PlaneImpactResponse) ImpactPitch() float64 { return pir.impact }

// WirePitch returns the distance between adjacent wires.
func (pir *PlaneImpactResponse) WirePitch() float64 { return pir.wirePitch }

// HalfExtent returns the largest relative pitch with a response.
func (pir *PlaneImpactResponse) HalfExtent() float64 { return pir.halfExtent }

// ByWire returns, for each wire from the most negative relative wire
// up, the response indices of its impact positions in increasing pitch.
// The returned slices must not be modified.
func (pir *PlaneImpactResponse) ByWire() [][]int { return pir.byWire }

// Response returns the response of path index, or nil.
func (pir *PlaneImpactResponse) Response(index int) *ImpactResponse {
	if index < 0 || index >= len(pir.responses) {
		return nil
	}
	return pir.responses[index]
}

// locate returns the wire and impact indices nearest relpitch and the
// pitch remaining after moving to the wire. The wire is clamped to the
// table so that ±HalfExtent land on the outermost wires.
func (pir *PlaneImpactResponse) locate(relpitch float64) (wire, impact int, remainder float64) {
	half := len(pir.byWire) / 2
	relwire := min(max(int(math.Round(relpitch/pir.wirePitch)), -half), half)
	wire = len(pir.byWire)/2 + relwire
	remainder = relpitch - float64(relwire)*pir.wirePitch
	impact = int(math.Round(remainder/pir.impact)) + pir.NImpactsPerWire()/2
	return wire, impact, remainder
}

// Closest returns the response nearest to relpitch, the pitch of a charge
// relative to a wire. The closed interval [-HalfExtent, HalfExtent] is
// covered; it returns nil beyond it or when the nearest position falls
// outside the table.
func (pir *PlaneImpactResponse) Closest(relpitch float64) *ImpactResponse {
	if relpitch < -pir.halfExtent || relpitch > pir.halfExtent {
		return nil
	}
	wire, impact, _ := pir.locate(relpitch)
	if wire < 0 || wire >= len(pir.byWire) {
		pir.logger.Debug("relative pitch outside wire range",
			zap.Float64("relpitch", relpitch), zap.Int("wire", wire))
		return nil
	}
	region := pir.byWire[wire]
	if impact < 0 || impact >= len(region) {
		pir.logger.Debug("relative pitch outside impact range",
			zap.Float64("relpitch", relpitch), zap.Int("impact", impact))
		return nil
	}
	return pir.Response(region[impact])
}

// Bounded returns the two responses whose impact positions bracket
// relpitch, lower pitch first. At the edge of a wire region it returns the
// two outermost positions of that region. Both are nil beyond HalfExtent or
// when relpitch maps outside the table.
func (pir *PlaneImpactResponse) Bounded(relpitch float64) (*ImpactResponse, *ImpactResponse) {
	if relpitch < -pir.halfExtent || relpitch > pir.halfExtent {
		return nil, nil
	}
	wire, impact, remainder := pir.locate(relpitch)
	if wire < 0 || wire >= len(pir.byWire) {
		pir.logger.Debug("relative pitch outside wire range",
			zap.Float64("relpitch", relpitch), zap.Int("wire", wire))
		return nil, nil
	}

	region := pir.byWire[wire]
	last := len(region) - 1
	switch {
	case impact <= 0:
		return pir.Response(region[0]), pir.Response(region[1])
	case impact >= last:
		return pir.Response(region[last-1]), pir.Response(region[last])
	}

	center := len(region) / 2
	residual := remainder - float64(impact-center)*pir.impact
	if residual > 0 {
		return pir.Response(region[impact]), pir.Response(region[impact+1])
	}
	return pir.Response(region[impact-1]), pir.Response(region[impact])
}
