package diffusion

import (
	"fmt"
	"slices"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-drift/sim/waveform"
)

// ImpactData collects the diffusions that reach one impact position and
// materializes their summed waveform and its spectrum on demand.
type ImpactData struct {
	impact int

	mu         sync.Mutex
	diffusions []*GaussianDiffusion
	calculated bool
	waveform   []float64
	spectrum   []complex128
}

// NewImpactData returns an empty accumulator for impact index impact.
func NewImpactData(impact int) *ImpactData {
	return &ImpactData{impact: impact}
}

// Index returns the impact index.
func (id *ImpactData) Index() int { return id.impact }

// Add appends a contribution. Adding after the first Calculate has no
// effect on the memoized waveform.
func (id *ImpactData) Add(gd *GaussianDiffusion) {
	id.mu.Lock()
	defer id.mu.Unlock()
	id.diffusions = append(id.diffusions, gd)
}

// Diffusions returns the contributions in insertion order.
func (id *ImpactData) Diffusions() []*GaussianDiffusion {
	id.mu.Lock()
	defer id.mu.Unlock()
	return slices.Clone(id.diffusions)
}

// Calculate sums the sampled patches of all contributions into a waveform
// of nticks samples and transforms it. Every contribution must have been
// sampled. Only the first successful call does any work; later calls
// return immediately.
func (id *ImpactData) Calculate(nticks int, strategy Strategy) error {
	id.mu.Lock()
	defer id.mu.Unlock()

	if id.calculated {
		return nil
	}

	wave := make([]float64, nticks)
	for _, gd := range id.diffusions {
		if !gd.Sampled() {
			return fmt.Errorf("diffusion: impact %d: %w", id.impact, ErrNoPatch)
		}
		switch strategy {
		case Linear:
			id.foldLinear(wave, gd)
		default:
			id.foldConstant(wave, gd)
		}
	}

	spec, err := waveform.DFT(wave)
	if err != nil {
		return fmt.Errorf("diffusion: impact %d: %w", id.impact, err)
	}

	id.waveform = wave
	id.spectrum = spec
	id.calculated = true
	return nil
}

// foldConstant adds the patch row at this impact into wave.
func (id *ImpactData) foldConstant(wave []float64, gd *GaussianDiffusion) {
	patch := gd.Patch()
	if patch == nil {
		return
	}
	rows, _ := patch.Dims()
	pbin := id.impact - gd.POffsetBin()
	if pbin < 0 || pbin >= rows {
		return
	}
	accumulate(wave, gd.TOffsetBin(), 1, patch.RawRowView(pbin))
}

// foldLinear adds the lower-edge share of the row at this impact and the
// upper-edge share of the row below it.
func (id *ImpactData) foldLinear(wave []float64, gd *GaussianDiffusion) {
	patch := gd.Patch()
	if patch == nil {
		return
	}
	rows, _ := patch.Dims()
	weights := gd.Weights()
	toff := gd.TOffsetBin()
	pbin := id.impact - gd.POffsetBin()

	weight := func(row int) float64 {
		if row < len(weights) {
			return weights[row]
		}
		return 1
	}

	if pbin >= 0 && pbin < rows {
		accumulate(wave, toff, weight(pbin), patch.RawRowView(pbin))
	}
	if below := pbin - 1; below >= 0 && below < rows {
		accumulate(wave, toff, 1-weight(below), patch.RawRowView(below))
	}
}

// accumulate adds scale*row into wave starting at offset, clipped to wave.
func accumulate(wave []float64, offset int, scale float64, row []float64) {
	if scale == 0 || offset >= len(wave) {
		return
	}
	if offset < 0 {
		if -offset >= len(row) {
			return
		}
		row = row[-offset:]
		offset = 0
	}
	n := min(len(row), len(wave)-offset)
	floats.AddScaled(wave[offset:offset+n], scale, row[:n])
}

// Calculated reports whether the waveform has been materialized.
func (id *ImpactData) Calculated() bool {
	id.mu.Lock()
	defer id.mu.Unlock()
	return id.calculated
}

// Waveform returns the summed waveform, nil before Calculate. The slice is
// shared and must not be modified.
func (id *ImpactData) Waveform() []float64 {
	id.mu.Lock()
	defer id.mu.Unlock()
	return id.waveform
}

// Spectrum returns the DFT of the waveform, nil before Calculate. The slice
// is shared and must not be modified.
func (id *ImpactData) Spectrum() []complex128 {
	id.mu.Lock()
	defer id.mu.Unlock()
	return id.spectrum
}

// Span returns the union over contributions of the time intervals
// center ± nsigma*sigma. It needs no calculation. An empty accumulator
// spans (0, 0).
func (id *ImpactData) Span(nsigma float64) (tmin, tmax float64) {
	id.mu.Lock()
	defer id.mu.Unlock()
	return gaussRange(id.diffusions, (*GaussianDiffusion).TimeDesc, nsigma)
}

// Strip returns the half-open tick range holding non-zero waveform
// samples, (0, 0) before Calculate or for an all-zero waveform.
func (id *ImpactData) Strip() (begin, end int) {
	return waveform.Strip(id.Waveform())
}

// gaussRange returns the min and max of center ± nsigma*sigma over the
// descriptor picked from each diffusion.
func gaussRange(diffs []*GaussianDiffusion, pick func(*GaussianDiffusion) GaussDesc, nsigma float64) (vmin, vmax float64) {
	for i, gd := range diffs {
		lo, hi := pick(gd).Range(nsigma)
		if i == 0 {
			vmin, vmax = lo, hi
			continue
		}
		vmin = min(vmin, lo)
		vmax = max(vmax, hi)
	}
	return vmin, vmax
}
