package diffusion_test

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cwbudde/algo-drift/internal/units"
	"github.com/cwbudde/algo-drift/sim/binning"
	"github.com/cwbudde/algo-drift/sim/depo"
	"github.com/cwbudde/algo-drift/sim/diffusion"
	"github.com/cwbudde/algo-drift/sim/pimpos"
)

func ExampleBinnedDiffusion() {
	// Ten wires at 3 mm pitch, ten impact positions per wire.
	pp, err := pimpos.New(10, -13.5, 13.5, r3.Vec{Y: 1}, r3.Vec{Z: 1}, r3.Vec{}, 10)
	if err != nil {
		panic(err)
	}
	tbins := binning.New(200, 0, 100*units.Microsecond)

	bd := diffusion.New(pp, tbins, diffusion.WithNSigma(3))
	d := depo.New(50*units.Microsecond, r3.Vec{Z: 0.15}, 1000)
	bd.Add(d, 2*units.Microsecond, 0.3*units.Millimeter)

	total := 0.0
	for _, bin := range bd.Impacts() {
		id, err := bd.ImpactData(bin)
		if err != nil {
			panic(err)
		}
		total += floats.Sum(id.Waveform())
	}
	fmt.Println("impacts:", len(bd.Impacts()))
	fmt.Printf("charge: %.1f\n", total)
	// Output:
	// impacts: 7
	// charge: 1000.0
}
