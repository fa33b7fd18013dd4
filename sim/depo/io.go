package depo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrBadRecord is returned when a deposition record cannot be decoded.
var ErrBadRecord = errors.New("depo: malformed deposition record")

// Record is the serialized form of one deposition. Optional sigmas carry
// the longitudinal (time) and transverse (pitch) diffusion widths when the
// producer already drifted the charge.
type Record struct {
	Time       float64    `json:"t"`
	Pos        [3]float64 `json:"pos"`
	Charge     float64    `json:"q"`
	SigmaTime  float64    `json:"sigma_t,omitempty"`
	SigmaPitch float64    `json:"sigma_p,omitempty"`
}

// Depo converts the record into a deposition.
func (r Record) Depo() *SimpleDepo {
	return New(r.Time, r.Pos3(), r.Charge)
}

// Pos3 returns the record position as a vector.
func (r Record) Pos3() r3.Vec {
	return r3.Vec{X: r.Pos[0], Y: r.Pos[1], Z: r.Pos[2]}
}

// ReadRecords decodes a JSON array of deposition records.
func ReadRecords(r io.Reader) ([]Record, error) {
	var recs []Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRecord, err)
	}
	return recs, nil
}

// WriteRecords encodes records as a JSON array.
func WriteRecords(w io.Writer, recs []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	return enc.Encode(recs)
}
