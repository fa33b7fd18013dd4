package response

import (
	"sync"

	"github.com/cwbudde/algo-drift/sim/waveform"
)

// ImpactResponse is the response spectrum of one field-response path after
// all filters were applied.
type ImpactResponse struct {
	index    int
	spectrum []complex128

	once sync.Once
	wave []float64
	err  error
}

// NewImpactResponse wraps the spectrum of path index.
func NewImpactResponse(index int, spectrum []complex128) *ImpactResponse {
	return &ImpactResponse{index: index, spectrum: spectrum}
}

// Index returns the path index in the plane's field response.
func (ir *ImpactResponse) Index() int { return ir.index }

// Spectrum returns the response spectrum. The slice is shared and must not
// be modified.
func (ir *ImpactResponse) Spectrum() []complex128 { return ir.spectrum }

// Waveform returns the time-domain response, computed on first use.
func (ir *ImpactResponse) Waveform() ([]float64, error) {
	ir.once.Do(func() {
		ir.wave, ir.err = waveform.IDFT(ir.spectrum)
	})
	return ir.wave, ir.err
}
