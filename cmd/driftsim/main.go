// Command driftsim diffuses ionization depositions onto a wire plane and
// prints the induced wire signals.
//
// Usage:
//
//	driftsim [flags] -config run.cfg
//
// Depositions come from a JSON file of records given with -depos, or from
// a straight synthetic track across the plane when no file is given.
//
// Examples:
//
//	driftsim -example > run.cfg
//	driftsim -config run.cfg
//	driftsim -config run.cfg -depos depos.json -plot frame.png
//	driftsim -config run.cfg -track-from -30 -track-to 30 -track-charge 1e6
package main

import (
	"cmp"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cwbudde/algo-drift/internal/config"
	driftlog "github.com/cwbudde/algo-drift/internal/log"
	"github.com/cwbudde/algo-drift/internal/units"
	"github.com/cwbudde/algo-drift/sim/depo"
	"github.com/cwbudde/algo-drift/sim/diffusion"
	"github.com/cwbudde/algo-drift/sim/signal"
	"github.com/cwbudde/algo-drift/sim/waveform"
)

type options struct {
	configPath string
	deposPath  string
	plotPath   string
	all        bool
	debug      bool

	track      segment
	sigmaTime  float64
	sigmaPitch float64
}

func main() {
	var (
		o                  options
		example            bool
		fromMm, toMm       float64
		t0Us, t1Us         float64
		sigmaTUs, sigmaPMm float64
	)
	flag.StringVar(&o.configPath, "config", "", "run configuration file")
	flag.BoolVar(&example, "example", false, "print an example configuration and exit")
	flag.StringVar(&o.deposPath, "depos", "", "JSON array of deposition records")
	flag.StringVar(&o.plotPath, "plot", "", "write a wire/time heat map PNG to this path")
	flag.BoolVar(&o.all, "all", false, "print wires without signal too")
	flag.BoolVar(&o.debug, "debug", false, "development logging")
	flag.Float64Var(&fromMm, "track-from", -15, "synthetic track start pitch in mm")
	flag.Float64Var(&toMm, "track-to", 15, "synthetic track end pitch in mm")
	flag.Float64Var(&t0Us, "track-t0", 1000, "synthetic track start time in us")
	flag.Float64Var(&t1Us, "track-t1", 1500, "synthetic track end time in us")
	flag.IntVar(&o.track.steps, "track-steps", 100, "synthetic track depositions")
	flag.Float64Var(&o.track.charge, "track-charge", 5e5, "synthetic track total charge in electrons")
	flag.Float64Var(&sigmaTUs, "sigma-t", 1, "longitudinal width in us for depositions without one")
	flag.Float64Var(&sigmaPMm, "sigma-p", 1, "transverse width in mm for depositions without one")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: driftsim [flags] -config run.cfg\n\n")
		fmt.Fprintf(os.Stderr, "Diffuses depositions onto a wire plane and prints the wire signals.\n")
		fmt.Fprintf(os.Stderr, "Without -depos, a straight synthetic track is simulated.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  driftsim -example > run.cfg\n")
		fmt.Fprintf(os.Stderr, "  driftsim -config run.cfg -depos depos.json -plot frame.png\n")
		fmt.Fprintf(os.Stderr, "  driftsim -config run.cfg -track-from -30 -track-to 30 -track-charge 1e6\n")
	}
	flag.Parse()

	if example {
		fmt.Print(config.Example)
		return
	}
	if o.configPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	o.track.from = r3.Vec{Z: fromMm * units.Millimeter}
	o.track.to = r3.Vec{Z: toMm * units.Millimeter}
	o.track.t0 = t0Us * units.Microsecond
	o.track.t1 = t1Us * units.Microsecond
	o.sigmaTime = sigmaTUs * units.Microsecond
	o.sigmaPitch = sigmaPMm * units.Millimeter

	logger, err := driftlog.New(o.debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger, runID := driftlog.WithRun(logger)

	err = run(o, runID, logger)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadRecords(o options) ([]depo.Record, error) {
	var recs []depo.Record
	if o.deposPath == "" {
		recs = o.track.records()
	} else {
		f, err := os.Open(o.deposPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if recs, err = depo.ReadRecords(f); err != nil {
			return nil, fmt.Errorf("%s: %w", o.deposPath, err)
		}
	}
	withDefaultSigmas(recs, o.sigmaTime, o.sigmaPitch)
	return recs, nil
}

// wireSummary is one output row.
type wireSummary struct {
	wire     int
	pitch    float64
	peakTick int
	peak     float64
	integral float64
}

func run(o options, runID string, logger *zap.Logger) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	plane, err := cfg.Pimpos()
	if err != nil {
		return err
	}
	dopts, err := cfg.DiffusionOptions(logger)
	if err != nil {
		return err
	}
	bd := diffusion.New(plane, cfg.TimeBinning(), dopts...)

	pir, err := cfg.PlaneImpactResponse(logger)
	if err != nil {
		return err
	}

	recs, err := loadRecords(o)
	if err != nil {
		return err
	}
	slices.SortStableFunc(recs, func(a, b depo.Record) int {
		return cmp.Compare(a.Time, b.Time)
	})

	depos := make([]depo.Deposition, len(recs))
	accepted := 0
	for i, r := range recs {
		depos[i] = r.Depo()
		if bd.Add(depos[i], r.SigmaTime, r.SigmaPitch) {
			accepted++
		}
	}
	logger.Info("depositions added",
		zap.Int("total", len(depos)),
		zap.Int("accepted", accepted),
		zap.Float64("charge", depo.TotalCharge(depos)))
	if accepted == 0 {
		return errors.New("no deposition reaches the plane")
	}

	lo, hi := bd.PitchRange(cfg.Diffusion.NSigma)
	begin, end := plane.RegionBinning().Range(lo-pir.HalfExtent(), hi+pir.HalfExtent())

	sp := signal.New(plane, bd, pir, signal.WithLogger(logger))
	tb := cfg.TimeBinning()
	fr := &frame{tick: tb.BinSize(), start: tb.Min()}

	var rows []wireSummary
	err = sp.Sweep(begin, end, func(wire int, sig []float64) error {
		if o.plotPath != "" {
			fr.add(wire, sig)
		}
		tick, peak := waveform.Peak(sig)
		if peak == 0 && !o.all {
			return nil
		}
		rows = append(rows, wireSummary{
			wire:     wire,
			pitch:    plane.WirePosition(wire),
			peakTick: tick,
			peak:     peak,
			integral: floats.Sum(sig),
		})
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("wires simulated", zap.Int("begin", begin), zap.Int("end", end))

	printSummary(rows)

	if o.plotPath != "" {
		if err := fr.save(o.plotPath, "run "+runID); err != nil {
			return err
		}
		logger.Info("frame written", zap.String("path", o.plotPath))
	}
	return nil
}

func printSummary(rows []wireSummary) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Wire\tPitch [mm]\tPeak Tick\tPeak\tIntegral\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	if _, err := fmt.Fprintf(tw, "----\t----------\t---------\t----\t--------\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%d\t%.2f\t%d\t%.4g\t%.4g\n",
			r.wire,
			r.pitch/units.Millimeter,
			r.peakTick,
			r.peak,
			r.integral,
		); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
