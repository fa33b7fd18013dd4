// Package frtest builds synthetic field-response tables for tests.
package frtest

import (
	"math"

	"github.com/cwbudde/algo-drift/sim/response"
)

// Spec describes a synthetic field-response table.
type Spec struct {
	NWires         int     // odd, centred on wire zero
	ImpactsPerWire int     // paths per wire, from the wire out to half a pitch
	Pitch          float64 // wire pitch
	Period         float64 // sample period of the currents
	TStart         float64
	NSamples       int
}

// FieldResponse builds a table whose paths sample, for every wire, the half
// wire region below it: pitch positions w*Pitch - k*impact for
// k = ImpactsPerWire-1 .. 0, in increasing pitch order. Each current is a
// Gaussian pulse whose amplitude falls with distance from the central wire
// and whose arrival shifts with path index, so responses are distinct.
func FieldResponse(s Spec) *response.FieldResponse {
	half := s.NWires / 2
	impact := 0.5 * s.Pitch / float64(s.ImpactsPerWire-1)

	plane := response.PlaneResponse{PlaneID: 0, Pitch: s.Pitch}
	index := 0
	for w := -half; w <= half; w++ {
		for k := s.ImpactsPerWire - 1; k >= 0; k-- {
			pos := float64(w)*s.Pitch - float64(k)*impact
			plane.Paths = append(plane.Paths, response.PathResponse{
				PitchPos: pos,
				Current:  pulse(s.NSamples, 1/(1+math.Abs(pos)), float64(s.NSamples)/4+float64(index%7), 3),
			})
			index++
		}
	}

	return &response.FieldResponse{
		Planes: []response.PlaneResponse{plane},
		TStart: s.TStart,
		Period: s.Period,
	}
}

func pulse(n int, amp, center, width float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		d := (float64(i) - center) / width
		out[i] = amp * math.Exp(-0.5*d*d)
	}
	return out
}
