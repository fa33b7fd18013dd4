package main

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cwbudde/algo-drift/sim/depo"
)

// segment is a straight ionization track between two points reached at
// two times, split into evenly spaced depositions.
type segment struct {
	from, to   r3.Vec
	t0, t1     float64
	steps      int
	charge     float64
	sigmaTime  float64
	sigmaPitch float64
}

// records splits the segment into steps depositions sharing its charge.
// Each deposition sits at the center of its step.
func (s segment) records() []depo.Record {
	if s.steps <= 0 {
		return nil
	}
	q := s.charge / float64(s.steps)
	delta := r3.Sub(s.to, s.from)

	recs := make([]depo.Record, s.steps)
	for i := range recs {
		f := (float64(i) + 0.5) / float64(s.steps)
		p := r3.Add(s.from, r3.Scale(f, delta))
		recs[i] = depo.Record{
			Time:       s.t0 + f*(s.t1-s.t0),
			Pos:        [3]float64{p.X, p.Y, p.Z},
			Charge:     q,
			SigmaTime:  s.sigmaTime,
			SigmaPitch: s.sigmaPitch,
		}
	}
	return recs
}

// withDefaultSigmas fills in zero widths.
func withDefaultSigmas(recs []depo.Record, sigmaTime, sigmaPitch float64) {
	for i := range recs {
		if recs[i].SigmaTime == 0 {
			recs[i].SigmaTime = sigmaTime
		}
		if recs[i].SigmaPitch == 0 {
			recs[i].SigmaPitch = sigmaPitch
		}
	}
}
