package diffusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cwbudde/algo-drift/internal/units"
	"github.com/cwbudde/algo-drift/sim/depo"
)

func sampledDiffusion(t *testing.T, s Sampling, tcenter, pcenter, charge float64) *GaussianDiffusion {
	t.Helper()
	tg := GaussDesc{Center: tcenter, Sigma: units.Microsecond}
	pg := GaussDesc{Center: pcenter, Sigma: 0.4}
	gd := NewGaussianDiffusion(depo.New(tcenter, r3.Vec{Z: pcenter}, charge), tg, pg)
	require.NoError(t, gd.SetSampling(s, nil))
	return gd
}

func TestImpactDataRequiresSampling(t *testing.T) {
	g := GaussDesc{Center: 10, Sigma: 1}
	id := NewImpactData(3)
	id.Add(NewGaussianDiffusion(depo.New(10, r3.Vec{}, 1), g, g))

	require.ErrorIs(t, id.Calculate(100, Constant), ErrNoPatch)
	assert.False(t, id.Calculated())
	assert.Nil(t, id.Waveform())
}

func TestImpactDataConstantRow(t *testing.T) {
	s := testSampling(Constant, false)
	gd := sampledDiffusion(t, s, 40*units.Microsecond, 0.15, 100)

	row := s.Pitch.Bin(0.15)
	id := NewImpactData(row)
	id.Add(gd)
	require.NoError(t, id.Calculate(s.Time.NBins(), Constant))

	patch := gd.Patch()
	want := floats.Sum(patch.RawRowView(row - gd.POffsetBin()))
	assert.InDelta(t, want, floats.Sum(id.Waveform()), 1e-12)
	assert.Len(t, id.Spectrum(), s.Time.NBins())
	assert.InDelta(t, want, real(id.Spectrum()[0]), 1e-9, "DC bin holds the total")

	begin, end := id.Strip()
	assert.Equal(t, gd.TOffsetBin(), begin)
	_, cols := gd.Dims()
	assert.Equal(t, gd.TOffsetBin()+cols, end)
}

func TestImpactDataSkipsRowsOutsidePatch(t *testing.T) {
	s := testSampling(Constant, false)
	gd := sampledDiffusion(t, s, 40*units.Microsecond, 0, 100)

	id := NewImpactData(gd.POffsetBin() - 1)
	id.Add(gd)
	require.NoError(t, id.Calculate(s.Time.NBins(), Constant))
	assert.Zero(t, floats.Sum(id.Waveform()))
	begin, end := id.Strip()
	assert.Zero(t, begin)
	assert.Zero(t, end)
}

func TestImpactDataMemoized(t *testing.T) {
	s := testSampling(Constant, false)
	a := sampledDiffusion(t, s, 40*units.Microsecond, 0, 100)
	b := sampledDiffusion(t, s, 60*units.Microsecond, 0, 50)

	id := NewImpactData(s.Pitch.Bin(0))
	id.Add(a)
	require.NoError(t, id.Calculate(s.Time.NBins(), Constant))
	wave := append([]float64(nil), id.Waveform()...)

	id.Add(b)
	require.NoError(t, id.Calculate(s.Time.NBins(), Constant))
	assert.Equal(t, wave, id.Waveform())
	assert.Len(t, id.Diffusions(), 2)
}

func TestImpactDataLinearSplitsRows(t *testing.T) {
	s := testSampling(Linear, false)
	gd := sampledDiffusion(t, s, 40*units.Microsecond, 0.1, 100)
	rows, _ := gd.Dims()

	total := 0.0
	for bin := gd.POffsetBin(); bin <= gd.POffsetBin()+rows; bin++ {
		id := NewImpactData(bin)
		id.Add(gd)
		require.NoError(t, id.Calculate(s.Time.NBins(), Linear))
		total += floats.Sum(id.Waveform())
	}
	assert.InEpsilon(t, 100.0, total, 1e-9)
}

func TestAccumulateClips(t *testing.T) {
	wave := make([]float64, 4)
	accumulate(wave, -1, 2, []float64{1, 1, 1})
	assert.Equal(t, []float64{2, 2, 0, 0}, wave)

	accumulate(wave, 3, 1, []float64{1, 1, 1})
	assert.Equal(t, []float64{2, 2, 0, 1}, wave)

	accumulate(wave, 10, 1, []float64{1})
	accumulate(wave, -5, 1, []float64{1})
	assert.Equal(t, []float64{2, 2, 0, 1}, wave)
}
