package diffusion

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cwbudde/algo-drift/internal/units"
	"github.com/cwbudde/algo-drift/sim/binning"
	"github.com/cwbudde/algo-drift/sim/depo"
)

func testSampling(strategy Strategy, fluctuate bool) Sampling {
	return Sampling{
		Time:      binning.New(200, 0, 100*units.Microsecond),
		Pitch:     binning.New(100, -15*units.Millimeter, 15*units.Millimeter),
		NSigma:    3,
		Fluctuate: fluctuate,
		Strategy:  strategy,
	}
}

func patchSum(p *mat.Dense) float64 {
	if p == nil {
		return 0
	}
	return mat.Sum(p)
}

func TestAxisWeightsNormalized(t *testing.T) {
	b := binning.New(100, -15, 15)
	for _, strategy := range []Strategy{Constant, Linear} {
		t.Run(strategy.String(), func(t *testing.T) {
			for _, g := range []GaussDesc{
				{Center: 0, Sigma: 1},
				{Center: 0.1, Sigma: 0.05},
				{Center: -14.9, Sigma: 2},
				{Center: 3.3, Sigma: 0},
			} {
				off, w, centroids := axisWeights(g, b, 3, strategy)
				require.NotEmpty(t, w, "%+v", g)
				assert.Len(t, centroids, len(w))
				assert.InDelta(t, 1.0, floats.Sum(w), 1e-12, "%+v", g)
				assert.True(t, b.InBounds(off), "offset %d", off)
				assert.LessOrEqual(t, off+len(w), b.NBins())
				for _, v := range w {
					assert.GreaterOrEqual(t, v, 0.0)
				}
			}
		})
	}
}

func TestAxisWeightsOutside(t *testing.T) {
	b := binning.New(10, 0, 10)
	_, w, _ := axisWeights(GaussDesc{Center: 100, Sigma: 1}, b, 3, Constant)
	assert.Empty(t, w)
}

func TestSetSamplingOffsets(t *testing.T) {
	s := testSampling(Constant, false)
	tdesc := GaussDesc{Center: 40 * units.Microsecond, Sigma: 2 * units.Microsecond}
	pdesc := GaussDesc{Center: 1.0, Sigma: 0.6}
	gd := NewGaussianDiffusion(depo.New(tdesc.Center, r3.Vec{Z: pdesc.Center}, 1000), tdesc, pdesc)

	assert.False(t, gd.Sampled())
	assert.Nil(t, gd.Patch())
	require.NoError(t, gd.SetSampling(s, nil))
	assert.True(t, gd.Sampled())

	tb, te := s.Time.Range(tdesc.Range(3))
	pb, pe := s.Pitch.Range(pdesc.Range(3))
	assert.Equal(t, tb, gd.TOffsetBin())
	assert.Equal(t, pb, gd.POffsetBin())

	rows, cols := gd.Dims()
	assert.Equal(t, pe-pb, rows)
	assert.Equal(t, te-tb, cols)
	assert.InDelta(t, 1000.0, patchSum(gd.Patch()), 1e-9)
	assert.Nil(t, gd.Weights())
}

func TestSetSamplingMemoized(t *testing.T) {
	s := testSampling(Constant, false)
	g := GaussDesc{Center: 50 * units.Microsecond, Sigma: units.Microsecond}
	gd := NewGaussianDiffusion(depo.New(g.Center, r3.Vec{}, 10), g, GaussDesc{Sigma: 1})

	require.NoError(t, gd.SetSampling(s, nil))
	first := gd.Patch()
	require.NoError(t, gd.SetSampling(s, nil))
	assert.Same(t, first, gd.Patch())

	other := s
	other.NSigma = 4
	require.ErrorIs(t, gd.SetSampling(other, nil), ErrSamplingMismatch)
	assert.Same(t, first, gd.Patch(), "patch untouched on mismatch")
}

func TestSetSamplingLinearWeights(t *testing.T) {
	s := testSampling(Linear, false)
	g := GaussDesc{Center: 50 * units.Microsecond, Sigma: units.Microsecond}
	gd := NewGaussianDiffusion(depo.New(g.Center, r3.Vec{}, 10), g, GaussDesc{Center: 0.1, Sigma: 0.5})
	require.NoError(t, gd.SetSampling(s, nil))

	rows, _ := gd.Dims()
	w := gd.Weights()
	require.Len(t, w, rows)
	for _, v := range w {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.InDelta(t, 10.0, patchSum(gd.Patch()), 1e-9)
}

func TestSetSamplingFluctuate(t *testing.T) {
	tests := []struct {
		name   string
		charge float64
	}{
		{"positive", 5000},
		{"negative", -5000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := testSampling(Constant, true)
			g := GaussDesc{Center: 50 * units.Microsecond, Sigma: 2 * units.Microsecond}
			gd := NewGaussianDiffusion(depo.New(g.Center, r3.Vec{}, tc.charge), g, GaussDesc{Sigma: 1})
			require.NoError(t, gd.SetSampling(s, rand.NewPCG(7, 8)))

			p := gd.Patch()
			require.NotNil(t, p)
			assert.InDelta(t, tc.charge, patchSum(p), 1e-6*math.Abs(tc.charge))

			rows, cols := p.Dims()
			for r := 0; r < rows; r++ {
				for c := 0; c < cols; c++ {
					v := p.At(r, c)
					assert.False(t, v*tc.charge < 0, "cell (%d,%d) has the wrong sign", r, c)
				}
			}
		})
	}
}

func TestFluctuateAllZero(t *testing.T) {
	// Poisson means this small always draw zero.
	patch := mat.NewDense(1, 2, []float64{1e-300, 1e-300})
	fluctuate(patch, 2e-300, rand.NewPCG(1, 1))
	assert.Equal(t, 0.0, patchSum(patch))
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
		err  bool
	}{
		{"", Constant, false},
		{"constant", Constant, false},
		{" Linear ", Linear, false},
		{"cubic", Constant, true},
	}
	for _, tc := range tests {
		got, err := ParseStrategy(tc.in)
		if tc.err {
			require.ErrorIs(t, err, ErrUnknownStrategy)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.want.String(), got.String())
	}
}

func TestGaussDesc(t *testing.T) {
	g := GaussDesc{Center: 10, Sigma: 2}
	assert.Equal(t, -1.5, g.Distance(7))
	lo, hi := g.Range(3)
	assert.Equal(t, 4.0, lo)
	assert.Equal(t, 16.0, hi)
}
