// Package depo defines point-like ionization charge depositions.
package depo

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// Deposition is a point charge produced at a time and position.
// Implementations must be immutable: diffusion objects keep a reference
// to the deposition rather than a copy.
type Deposition interface {
	Time() float64
	Pos() r3.Vec
	Charge() float64
}

// SimpleDepo is the plain value implementation of Deposition.
type SimpleDepo struct {
	time   float64
	pos    r3.Vec
	charge float64
}

// New returns a deposition of charge at time t and position pos.
func New(t float64, pos r3.Vec, charge float64) *SimpleDepo {
	return &SimpleDepo{time: t, pos: pos, charge: charge}
}

// Time returns the deposition time.
func (d *SimpleDepo) Time() float64 { return d.time }

// Pos returns the deposition position.
func (d *SimpleDepo) Pos() r3.Vec { return d.pos }

// Charge returns the deposited charge.
func (d *SimpleDepo) Charge() float64 { return d.charge }

// SortByTime orders depositions by increasing time, stable for ties.
func SortByTime(depos []Deposition) {
	slices.SortStableFunc(depos, func(a, b Deposition) int {
		return cmp.Compare(a.Time(), b.Time())
	})
}

// TotalCharge sums the charge of all depositions.
func TotalCharge(depos []Deposition) float64 {
	total := 0.0
	for _, d := range depos {
		total += d.Charge()
	}
	return total
}
