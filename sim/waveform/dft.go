package waveform

import (
	"errors"
	"fmt"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Errors returned by waveform functions.
var (
	ErrEmptyInput     = errors.New("waveform: empty input")
	ErrLengthMismatch = errors.New("waveform: length mismatch")
)

// transform is a forward/inverse DFT of one fixed length.
type transform interface {
	forward(dst, src []complex128) error
	inverse(dst, src []complex128) error
}

type fftPlan struct {
	mu   sync.Mutex
	plan *algofft.Plan[complex128]
}

func (p *fftPlan) forward(dst, src []complex128) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plan.Forward(dst, src)
}

func (p *fftPlan) inverse(dst, src []complex128) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plan.Inverse(dst, src)
}

// fourierPlan serves lengths that are not a power of two.
type fourierPlan struct {
	mu  sync.Mutex
	n   int
	fft *fourier.CmplxFFT
}

func (p *fourierPlan) forward(dst, src []complex128) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fft.Coefficients(dst, src)
	return nil
}

func (p *fourierPlan) inverse(dst, src []complex128) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fft.Sequence(dst, src)
	scale := complex(1/float64(p.n), 0)
	for i := range dst {
		dst[i] *= scale
	}
	return nil
}

var (
	plansMu sync.Mutex
	plans   = map[int]transform{}
)

// usesFFTPlan reports whether length n is planned with algo-fft. Only
// power-of-two lengths transform correctly there.
func usesFFTPlan(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// planFor returns the cached transform of length n.
func planFor(n int) transform {
	plansMu.Lock()
	defer plansMu.Unlock()

	if t, ok := plans[n]; ok {
		return t
	}

	var t transform
	if usesFFTPlan(n) {
		if plan, err := algofft.NewPlan64(n); err == nil {
			t = &fftPlan{plan: plan}
		}
	}
	if t == nil {
		t = &fourierPlan{n: n, fft: fourier.NewCmplxFFT(n)}
	}
	plans[n] = t
	return t
}

// DFT returns the discrete Fourier transform of a real sequence.
func DFT(wave []float64) ([]complex128, error) {
	if len(wave) == 0 {
		return nil, ErrEmptyInput
	}
	in := make([]complex128, len(wave))
	for i, v := range wave {
		in[i] = complex(v, 0)
	}
	return DFTComplex(in)
}

// DFTComplex returns the discrete Fourier transform of a complex sequence.
func DFTComplex(seq []complex128) ([]complex128, error) {
	if len(seq) == 0 {
		return nil, ErrEmptyInput
	}
	out := make([]complex128, len(seq))
	if err := planFor(len(seq)).forward(out, seq); err != nil {
		return nil, fmt.Errorf("waveform: forward transform of %d samples: %w", len(seq), err)
	}
	return out, nil
}

// IDFTComplex returns the normalized inverse transform of spec.
func IDFTComplex(spec []complex128) ([]complex128, error) {
	if len(spec) == 0 {
		return nil, ErrEmptyInput
	}
	out := make([]complex128, len(spec))
	if err := planFor(len(spec)).inverse(out, spec); err != nil {
		return nil, fmt.Errorf("waveform: inverse transform of %d samples: %w", len(spec), err)
	}
	return out, nil
}

// IDFT returns the real part of the normalized inverse transform of spec.
func IDFT(spec []complex128) ([]float64, error) {
	seq, err := IDFTComplex(spec)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(seq))
	for i, c := range seq {
		out[i] = real(c)
	}
	return out, nil
}
