package waveform

import (
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each bin of spec.
func Magnitude(spec []complex128) []float64 {
	if len(spec) == 0 {
		return nil
	}

	out := make([]float64, len(spec))
	re, im, buf := getScratch(len(spec))
	for i, c := range spec {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// Power returns |X[k]|^2 for each bin of spec.
func Power(spec []complex128) []float64 {
	if len(spec) == 0 {
		return nil
	}

	out := make([]float64, len(spec))
	re, im, buf := getScratch(len(spec))
	for i, c := range spec {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// Phase returns arg(X[k]) for each bin of spec.
func Phase(spec []complex128) []float64 {
	out := make([]float64, len(spec))
	for i, c := range spec {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// MultiplyInPlace sets dst[k] *= other[k].
func MultiplyInPlace(dst, other []complex128) error {
	if len(dst) != len(other) {
		return ErrLengthMismatch
	}
	for i := range dst {
		dst[i] *= other[i]
	}
	return nil
}

// Multiply returns the bin-wise product of a and b.
func Multiply(a, b []complex128) ([]complex128, error) {
	if len(a) != len(b) {
		return nil, ErrLengthMismatch
	}
	out := make([]complex128, len(a))
	for i := range out {
		out[i] = a[i] * b[i]
	}
	return out, nil
}

// Scale multiplies every sample of wave by gain in place.
func Scale(wave []float64, gain float64) {
	if len(wave) == 0 {
		return
	}
	coeffs := make([]float64, len(wave))
	for i := range coeffs {
		coeffs[i] = gain
	}
	vecmath.MulBlockInPlace(wave, coeffs)
}

// Peak returns the index and value of the sample with the largest
// magnitude. An empty wave yields (-1, 0).
func Peak(wave []float64) (int, float64) {
	idx, best := -1, 0.0
	for i, v := range wave {
		if idx < 0 || abs(v) > abs(best) {
			idx, best = i, v
		}
	}
	return idx, best
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
