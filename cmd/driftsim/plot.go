package main

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-drift/internal/units"
)

// frame holds the signals of consecutive wires on a common tick grid.
type frame struct {
	firstWire int
	tick      float64
	start     float64
	signals   [][]float64
}

// Dims implements plotter.GridXYZ with wires as columns and ticks as rows.
func (f *frame) Dims() (c, r int) {
	if len(f.signals) == 0 {
		return 0, 0
	}
	return len(f.signals), len(f.signals[0])
}

// Z implements plotter.GridXYZ.
func (f *frame) Z(c, r int) float64 { return f.signals[c][r] }

// X implements plotter.GridXYZ.
func (f *frame) X(c int) float64 { return float64(f.firstWire + c) }

// Y implements plotter.GridXYZ.
func (f *frame) Y(r int) float64 {
	return (f.start + (float64(r)+0.5)*f.tick) / units.Microsecond
}

func (f *frame) add(wire int, signal []float64) {
	if len(f.signals) == 0 {
		f.firstWire = wire
	}
	f.signals = append(f.signals, signal)
}

// save writes the frame as a heat map of wire against time.
func (f *frame) save(path, title string) error {
	c, r := f.Dims()
	if c == 0 || r == 0 {
		return fmt.Errorf("no wire signals to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Wire"
	p.Y.Label.Text = "Time [us]"

	hm := plotter.NewHeatMap(f, palette.Heat(32, 1))
	if hm.Min == hm.Max {
		return fmt.Errorf("flat frame, nothing to plot")
	}
	p.Add(hm)

	if err := p.Save(14*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
