package pimpos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func newPlane(t *testing.T) *Pimpos {
	t.Helper()
	// 1000 wires at 3 mm pitch centred on zero, 10 impacts per wire.
	p, err := New(1000, -1498.5, 1498.5,
		r3.Vec{Y: 1}, r3.Vec{Z: 1}, r3.Vec{X: -3}, 10)
	require.NoError(t, err)
	return p
}

func TestGeometry(t *testing.T) {
	p := newPlane(t)

	assert.InDelta(t, 3.0, p.WirePitch(), 1e-12)
	assert.Equal(t, 1000, p.NWires())
	assert.Equal(t, 10000, p.ImpactBinning().NBins())
	assert.InDelta(t, -1500.0, p.ImpactBinning().Min(), 1e-9)
	assert.InDelta(t, 1500.0, p.ImpactBinning().Max(), 1e-9)
	assert.InDelta(t, 0.3, p.ImpactBinning().BinSize(), 1e-12)
}

func TestDistanceAndWires(t *testing.T) {
	p := newPlane(t)

	assert.InDelta(t, 7.5, p.Distance(r3.Vec{X: 100, Y: 42, Z: 7.5}), 1e-12)

	// An even number of wires straddles zero pitch.
	w := p.ClosestWire(1.4)
	assert.Equal(t, 500, w)
	assert.InDelta(t, 1.5, p.WirePosition(w), 1e-9)
	assert.Equal(t, 0, p.ClosestWire(-1499))
	assert.Equal(t, 999, p.ClosestWire(1499))

	begin, end := p.WireImpacts(w)
	assert.Equal(t, 10, end-begin)
	assert.InDelta(t, p.WirePosition(w)-1.5, p.ImpactPosition(begin), 1e-9)
}

func TestBadGeometry(t *testing.T) {
	_, err := New(0, 0, 1, r3.Vec{Y: 1}, r3.Vec{Z: 1}, r3.Vec{}, 10)
	require.ErrorIs(t, err, ErrBadGeometry)

	_, err = New(10, 0, 27, r3.Vec{Y: 1}, r3.Vec{}, r3.Vec{}, 10)
	require.ErrorIs(t, err, ErrBadGeometry)

	_, err = New(1, 0, 0, r3.Vec{Y: 1}, r3.Vec{Z: 1}, r3.Vec{}, 10)
	require.ErrorIs(t, err, ErrBadGeometry)
}
