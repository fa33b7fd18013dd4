package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-drift/internal/testutil/frtest"
	"github.com/cwbudde/algo-drift/internal/units"
	"github.com/cwbudde/algo-drift/sim/response"
)

func TestParseExample(t *testing.T) {
	cfg, err := Parse(Example, "")
	require.NoError(t, err)

	assert.Equal(t, "garfield", cfg.Response.FieldResponse)
	assert.Equal(t, []string{"elec"}, cfg.Response.Other)
	assert.Equal(t, 10000, cfg.Response.NBins)
	assert.Equal(t, 0.5*units.Microsecond, cfg.Tick())
	assert.Equal(t, "constant", cfg.Diffusion.Strategy)
	assert.Equal(t, 9600, cfg.Time.NTicks)
	require.Contains(t, cfg.FieldResponses, "garfield")
	assert.Equal(t, "garfield.json", cfg.FieldResponses["garfield"].File)
	require.Contains(t, cfg.ColdElecs, "elec")
	assert.Equal(t, 14.0, cfg.ColdElecs["elec"].Gain)
	require.Contains(t, cfg.RCs, "coupling")
	assert.Equal(t, 1000.0, cfg.RCs["coupling"].WidthUs)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse("[plane]\nnwires = 10\n\n[diffusion]\nstrategy = linear\n", "")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Plane.NWires)
	assert.Equal(t, 3.0, cfg.Plane.PitchMm)
	assert.Equal(t, 10000, cfg.Response.NBins)
	assert.Equal(t, 3.0, cfg.Diffusion.NSigma)

	opts, err := cfg.DiffusionOptions(zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, opts, 5)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"nbins", "[response]\nnbins = 0\n"},
		{"tick", "[response]\ntick-us = -1\n"},
		{"impacts per wire", "[response]\nimpacts-per-wire = 1\n"},
		{"nsigma", "[diffusion]\nnsigma = 0\n"},
		{"strategy", "[diffusion]\nstrategy = cubic\n"},
		{"nticks", "[time]\nnticks = 0\n"},
		{"nwires", "[plane]\nnwires = 1\n"},
		{"pitch", "[plane]\npitch-mm = 0\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.text, "")
			require.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Parse("[nosuchsection]\nx = 1\n", "")
	require.Error(t, err)
}

func TestGeometry(t *testing.T) {
	cfg, err := Parse("[plane]\nnwires = 5\npitch-mm = 3\nimpacts-per-wire = 10\n[time]\nnticks = 100\nstart-us = 10\n", "")
	require.NoError(t, err)

	pp, err := cfg.Pimpos()
	require.NoError(t, err)
	assert.Equal(t, 5, pp.NWires())
	assert.InDelta(t, 3.0, pp.WirePitch(), 1e-12)
	assert.InDelta(t, 0.0, pp.WirePosition(2), 1e-12)
	assert.Equal(t, 50, pp.ImpactBinning().NBins())

	tb := cfg.TimeBinning()
	assert.Equal(t, 100, tb.NBins())
	assert.Equal(t, 10*units.Microsecond, tb.Min())
	assert.InDelta(t, 0.5*units.Microsecond, tb.BinSize(), 1e-9)
}

func TestFilters(t *testing.T) {
	text := strings.NewReplacer(
		"other = elec", "other = elec\nother = coupling",
		"nbins = 10000", "nbins = 64",
	).Replace(Example)
	cfg, err := Parse(text, "")
	require.NoError(t, err)
	require.Equal(t, []string{"elec", "coupling"}, cfg.Response.Other)

	filters, err := cfg.Filters()
	require.NoError(t, err)
	require.Len(t, filters, 2)
	for _, f := range filters {
		assert.Len(t, f.Samples(), 64)
		assert.Equal(t, cfg.Tick(), f.Period())
	}

	cfg.Response.Other = append(cfg.Response.Other, "missing")
	_, err = cfg.Filters()
	require.ErrorIs(t, err, ErrUnknownSource)
}

func writeTable(t *testing.T, dir, name string) {
	t.Helper()
	fr := frtest.FieldResponse(frtest.Spec{
		NWires:         3,
		ImpactsPerWire: 6,
		Pitch:          3 * units.Millimeter,
		Period:         0.1 * units.Microsecond,
		NSamples:       100,
	})
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, response.WriteJSON(f, fr))
}

func TestLoadResolvesSources(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "garfield.json")

	path := filepath.Join(dir, "run.cfg")
	text := strings.Replace(Example, "nbins = 10000", "nbins = 256", 1)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	pir, err := cfg.PlaneImpactResponse(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, pir.NWires())
	assert.Equal(t, 256, pir.NBins())

	cfg.Response.FieldResponse = "other"
	_, err = cfg.FieldResponse()
	require.ErrorIs(t, err, ErrUnknownSource)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.cfg"))
	require.Error(t, err)
}
