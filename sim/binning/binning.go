package binning

import (
	"fmt"
	"math"
)

// Binning is a uniform binning of [Min, Max) into NBins bins.
type Binning struct {
	nbins    int
	min, max float64
	binsize  float64
}

// New returns a binning of nbins bins spanning [min, max).
// A non-positive nbins or an empty interval yields a zero-width binning
// whose Bin always reports an out-of-bounds index.
func New(nbins int, min, max float64) Binning {
	if min > max {
		min, max = max, min
	}
	b := Binning{nbins: nbins, min: min, max: max}
	if nbins > 0 {
		b.binsize = (max - min) / float64(nbins)
	}
	return b
}

// NBins returns the number of bins.
func (b Binning) NBins() int { return b.nbins }

// Min returns the lower edge of the first bin.
func (b Binning) Min() float64 { return b.min }

// Max returns the upper edge of the last bin.
func (b Binning) Max() float64 { return b.max }

// BinSize returns the width of one bin.
func (b Binning) BinSize() float64 { return b.binsize }

// Span returns Max - Min.
func (b Binning) Span() float64 { return b.max - b.min }

// Bin returns the index of the bin containing value. The result is not
// bounds checked: values below Min give negative indices and values at or
// above Max give indices >= NBins.
func (b Binning) Bin(value float64) int {
	if b.binsize <= 0 {
		return -1
	}
	return int(math.Floor((value - b.min) / b.binsize))
}

// Center returns the value at the center of bin index.
func (b Binning) Center(index int) float64 {
	return b.min + (float64(index)+0.5)*b.binsize
}

// Edge returns the lower edge of bin index.
func (b Binning) Edge(index int) float64 {
	return b.min + float64(index)*b.binsize
}

// InBounds reports whether index is a valid bin index.
func (b Binning) InBounds(index int) bool {
	return index >= 0 && index < b.nbins
}

// Inside reports whether value lies in [Min, Max).
func (b Binning) Inside(value float64) bool {
	return value >= b.min && value < b.max
}

// Clamp limits index to [0, NBins].
func (b Binning) Clamp(index int) int {
	return max(0, min(index, b.nbins))
}

// Range returns the half-open bin range [Bin(lo), Bin(hi)+1) clamped
// to [0, NBins]. An empty range has begin == end.
func (b Binning) Range(lo, hi float64) (begin, end int) {
	if lo > hi {
		lo, hi = hi, lo
	}
	begin = b.Clamp(b.Bin(lo))
	end = b.Clamp(b.Bin(hi) + 1)
	if end < begin {
		end = begin
	}
	return begin, end
}

// String implements fmt.Stringer.
func (b Binning) String() string {
	return fmt.Sprintf("Binning(%d, [%g, %g))", b.nbins, b.min, b.max)
}
