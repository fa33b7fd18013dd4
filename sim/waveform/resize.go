package waveform

import (
	"fmt"
	"math"
	"sort"
)

// Resize returns a copy of wave zero-padded or truncated to n samples.
func Resize(wave []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	copy(out, wave)
	return out
}

// Strip returns the half-open index range [begin, end) bracketing the
// non-zero samples of wave. An all-zero wave yields (0, 0).
func Strip(wave []float64) (begin, end int) {
	begin = -1
	for i, v := range wave {
		if v == 0 {
			continue
		}
		if begin < 0 {
			begin = i
		}
		end = i + 1
	}
	if begin < 0 {
		return 0, 0
	}
	return begin, end
}

// Resample linearly interpolates wave, sampled every fromTick starting at
// zero, onto n samples spaced toTick. Samples past the end of wave are zero.
func Resample(wave []float64, fromTick, toTick float64, n int) ([]float64, error) {
	if len(wave) == 0 {
		return nil, ErrEmptyInput
	}
	if fromTick <= 0 || toTick <= 0 || math.IsNaN(fromTick) || math.IsNaN(toTick) {
		return nil, fmt.Errorf("waveform: resample ticks must be > 0: %g -> %g", fromTick, toTick)
	}

	x := make([]float64, len(wave))
	for i := range x {
		x[i] = float64(i) * fromTick
	}
	last := x[len(x)-1]

	out := make([]float64, n)
	for i := range out {
		q := float64(i) * toTick
		if q > last {
			break
		}
		j := sort.SearchFloat64s(x, q)
		if j == 0 || x[j] == q {
			out[i] = wave[j]
			continue
		}
		x0, x1 := x[j-1], x[j]
		t := (q - x0) / (x1 - x0)
		out[i] = wave[j-1] + t*(wave[j]-wave[j-1])
	}
	return out, nil
}
