package response

import (
	"math"

	"github.com/cwbudde/algo-drift/internal/units"
)

// Filter is a sampled auxiliary response, such as electronics shaping,
// that is convolved with every field response.
type Filter interface {
	// Period is the sample period of Samples.
	Period() float64
	Samples() []float64
}

// SampledFilter is a Filter backed by a fixed waveform.
type SampledFilter struct {
	name    string
	period  float64
	samples []float64
}

// NewSampledFilter wraps samples taken every period.
func NewSampledFilter(name string, period float64, samples []float64) *SampledFilter {
	return &SampledFilter{name: name, period: period, samples: samples}
}

// Name returns the label the filter was created with.
func (f *SampledFilter) Name() string { return f.name }

// Period implements Filter.
func (f *SampledFilter) Period() float64 { return f.period }

// Samples implements Filter. The slice is shared.
func (f *SampledFilter) Samples() []float64 { return f.samples }

// coldElecWindow is the time span over which the shaping parametrization
// holds.
const coldElecWindow = 10 * units.Microsecond

// ColdElecAt evaluates the cold-electronics preamplifier and shaper response
// at time t for the given gain and shaping time. It is zero outside
// (0, 10 us).
func ColdElecAt(t, gain, shaping float64) float64 {
	if t <= 0 || t >= coldElecWindow {
		return 0
	}

	x := t / shaping
	gain *= 10 * 1.012

	e1 := math.Exp(-2.94809 * x)
	e2 := math.Exp(-2.82833 * x)
	e3 := math.Exp(-2.40318 * x)
	c1, s1 := math.Cos(1.19361*x), math.Sin(1.19361*x)
	c2, s2 := math.Cos(2.38722*x), math.Sin(2.38722*x)
	c3, s3 := math.Cos(2.5928*x), math.Sin(2.5928*x)
	c4, s4 := math.Cos(5.18561*x), math.Sin(5.18561*x)

	v := 4.31054 * e1
	v += e2 * (-2.6202*c1 - 2.6202*c1*c2 + 0.762456*s1 - 0.762456*c2*s1 + 0.762456*c1*s2 - 2.6202*s1*s2)
	v += e3 * (0.464924*c3 + 0.464924*c3*c4 - 0.327684*s3 + 0.327684*c4*s3 - 0.327684*c3*s4 + 0.464924*s3*s4)
	return gain * v
}

// ColdElec samples the cold-electronics response at t = i*period for
// nbins samples.
func ColdElec(gain, shaping, period float64, nbins int) *SampledFilter {
	samples := make([]float64, nbins)
	for i := range samples {
		samples[i] = ColdElecAt(float64(i)*period, gain, shaping)
	}
	return NewSampledFilter("coldelec", period, samples)
}

// RC samples the response of an RC high-pass with time constant width: a
// unit impulse in the first sample minus a decaying exponential of the same
// total area.
func RC(width, period float64, nbins int) *SampledFilter {
	samples := make([]float64, nbins)
	if nbins == 0 {
		return NewSampledFilter("rc", period, samples)
	}
	for i := range samples {
		samples[i] = -period / width * math.Exp(-float64(i)*period/width)
	}
	samples[0]++
	return NewSampledFilter("rc", period, samples)
}
