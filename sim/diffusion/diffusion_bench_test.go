package diffusion

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cwbudde/algo-drift/internal/units"
	"github.com/cwbudde/algo-drift/sim/depo"
)

func BenchmarkImpactData(b *testing.B) {
	pp, tbins := newPlane(b)
	depos := make([]depo.Deposition, 100)
	for i := range depos {
		depos[i] = depo.New(float64(100+30*i)*units.Microsecond, r3.Vec{Z: 0.1 * float64(i)}, 1e4)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bd := New(pp, tbins)
		for _, d := range depos {
			bd.Add(d, units.Microsecond, units.Millimeter)
		}
		for _, bin := range bd.Impacts() {
			if _, err := bd.ImpactData(bin); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkSetSampling(b *testing.B) {
	s := testSampling(Linear, true)
	src := &lockedSource{src: DefaultConfig().Source}
	g := GaussDesc{Center: 50 * units.Microsecond, Sigma: 2 * units.Microsecond}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gd := NewGaussianDiffusion(depo.New(g.Center, r3.Vec{}, 1e4), g, GaussDesc{Sigma: 1})
		if err := gd.SetSampling(s, src); err != nil {
			b.Fatal(err)
		}
	}
}
