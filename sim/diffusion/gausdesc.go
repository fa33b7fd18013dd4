package diffusion

import (
	"fmt"
	"strings"
)

// GaussDesc describes a Gaussian along one axis.
type GaussDesc struct {
	Center float64
	Sigma  float64
}

// Distance returns the signed distance of x from the center in units of
// sigma.
func (g GaussDesc) Distance(x float64) float64 {
	return (x - g.Center) / g.Sigma
}

// Range returns [Center - nsigma*Sigma, Center + nsigma*Sigma].
func (g GaussDesc) Range(nsigma float64) (lo, hi float64) {
	return g.Center - nsigma*g.Sigma, g.Center + nsigma*g.Sigma
}

// Strategy selects how patches are rasterized and folded into impacts.
type Strategy int

const (
	// Constant samples the density at bin centers; each patch row belongs to
	// one impact.
	Constant Strategy = iota

	// Linear integrates the density over bins and splits each patch row
	// between its two bounding impact positions.
	Linear
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case Constant:
		return "constant"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts "constant" or "linear" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "constant":
		return Constant, nil
	case "linear":
		return Linear, nil
	}
	return Constant, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}
