package response

import (
	"errors"
	"fmt"
)

// Errors returned by response construction and I/O.
var (
	ErrTickMismatch  = errors.New("response: filter period does not match tick")
	ErrOutOfBounds   = errors.New("response: field response sample beyond spectrum length")
	ErrNoPlane       = errors.New("response: no such plane")
	ErrBadLayout     = errors.New("response: paths do not match the impact layout")
	ErrEmptyResponse = errors.New("response: empty field response")
	ErrUnknownFormat = errors.New("response: unknown file format")
)

// PathResponse is the induced current on a wire for a unit charge drifting
// along one path.
type PathResponse struct {
	// PitchPos is the path position along the pitch, relative to the
	// central wire of the plane.
	PitchPos float64 `json:"pitchpos"`

	// WirePos is the path position along the wire direction.
	WirePos float64 `json:"wirepos"`

	// Current is sampled every FieldResponse.Period starting at
	// FieldResponse.TStart.
	Current []float64 `json:"current"`
}

// PlaneResponse holds the paths of one wire plane in increasing pitch.
type PlaneResponse struct {
	PlaneID  int            `json:"planeid"`
	Location float64        `json:"location"`
	Pitch    float64        `json:"pitch"`
	Paths    []PathResponse `json:"paths"`
}

// FieldResponse is a field-response table covering one or more planes.
type FieldResponse struct {
	Planes []PlaneResponse `json:"planes"`

	// Axis is the drift direction.
	Axis [3]float64 `json:"axis"`

	// Origin is the distance from the anode where paths start.
	Origin float64 `json:"origin"`

	TStart float64 `json:"tstart"`
	Period float64 `json:"period"`
	Speed  float64 `json:"speed"`
}

// Plane returns the plane with the given identifier.
func (fr *FieldResponse) Plane(ident int) (*PlaneResponse, error) {
	for i := range fr.Planes {
		if fr.Planes[i].PlaneID == ident {
			return &fr.Planes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrNoPlane, ident)
}

// PlaneIDs returns the identifiers of all planes in table order.
func (fr *FieldResponse) PlaneIDs() []int {
	ids := make([]int, len(fr.Planes))
	for i, p := range fr.Planes {
		ids[i] = p.PlaneID
	}
	return ids
}

// Validate checks the invariants construction relies on: a positive period,
// and every plane holding paths of equal, non-zero length.
func (fr *FieldResponse) Validate() error {
	if fr.Period <= 0 {
		return fmt.Errorf("%w: period %g", ErrEmptyResponse, fr.Period)
	}
	if len(fr.Planes) == 0 {
		return fmt.Errorf("%w: no planes", ErrEmptyResponse)
	}
	for _, p := range fr.Planes {
		if len(p.Paths) == 0 {
			return fmt.Errorf("%w: plane %d has no paths", ErrEmptyResponse, p.PlaneID)
		}
		n := len(p.Paths[0].Current)
		if n == 0 {
			return fmt.Errorf("%w: plane %d has empty currents", ErrEmptyResponse, p.PlaneID)
		}
		for i, path := range p.Paths {
			if len(path.Current) != n {
				return fmt.Errorf("%w: plane %d path %d has %d samples, want %d",
					ErrBadLayout, p.PlaneID, i, len(path.Current), n)
			}
		}
	}
	return nil
}
