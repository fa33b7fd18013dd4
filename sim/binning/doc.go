// Package binning maps a continuous scalar domain onto fixed-width integer bins.
//
// A [Binning] is an immutable value: nbins equal bins covering the half-open
// interval [min, max). It is shared by the diffusion and response packages for
// both time (ticks) and pitch (impact positions).
//
//	tb := binning.New(9600, 0, 4800*units.Microsecond)
//	tick := tb.Bin(t)
//	if tb.InBounds(tick) { ... }
package binning
