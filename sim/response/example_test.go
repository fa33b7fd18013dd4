package response_test

import (
	"fmt"

	"github.com/cwbudde/algo-drift/internal/testutil/frtest"
	"github.com/cwbudde/algo-drift/internal/units"
	"github.com/cwbudde/algo-drift/sim/response"
)

func ExamplePlaneImpactResponse_Closest() {
	fr := frtest.FieldResponse(frtest.Spec{
		NWires:         3,
		ImpactsPerWire: 6,
		Pitch:          3 * units.Millimeter,
		Period:         0.1 * units.Microsecond,
		NSamples:       100,
	})
	pir, err := response.New(fr, 0, response.WithNBins(256))
	if err != nil {
		panic(err)
	}

	fmt.Println("wires:", pir.NWires(), "impacts per wire:", pir.NImpactsPerWire())
	fmt.Println("closest to 0.0 mm: path", pir.Closest(0).Index())
	fmt.Println("closest to 0.3 mm: path", pir.Closest(0.3).Index())
	lo, hi := pir.Bounded(-0.1)
	fmt.Println("bounding -0.1 mm: paths", lo.Index(), hi.Index())
	// Output:
	// wires: 3 impacts per wire: 11
	// closest to 0.0 mm: path 11
	// closest to 0.3 mm: path 10
	// bounding -0.1 mm: paths 10 11
}
