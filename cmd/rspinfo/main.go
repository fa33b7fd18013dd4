// Command rspinfo prints the layout and per-impact properties of a plane
// impact response.
//
// Usage:
//
//	rspinfo [flags] field-response-file
//	rspinfo [flags] -config run.cfg
//
// The file may be JSON or msgpack, optionally gzip or bzip2 compressed.
//
// Examples:
//
//	rspinfo garfield.json.bz2
//	rspinfo -plane 2 -nbins 4096 garfield.json
//	rspinfo -config run.cfg -wire 0
//	rspinfo -list garfield.json
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-drift/internal/config"
	driftlog "github.com/cwbudde/algo-drift/internal/log"
	"github.com/cwbudde/algo-drift/internal/units"
	"github.com/cwbudde/algo-drift/sim/response"
	"github.com/cwbudde/algo-drift/sim/waveform"
)

func main() {
	cfgPath := flag.String("config", "", "run configuration; its [response] section selects the plane and filters")
	plane := flag.Int("plane", 0, "plane ident")
	nbins := flag.Int("nbins", 10000, "response length in ticks")
	tickUs := flag.Float64("tick", 0.5, "response tick in microseconds")
	perWire := flag.Int("impacts-per-wire", 6, "field-response paths per wire region")
	wire := flag.Int("wire", math.MinInt, "only print the impacts of this wire, relative to the central wire")
	list := flag.Bool("list", false, "list the plane idents in the file")
	debug := flag.Bool("debug", false, "development logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rspinfo [flags] field-response-file\n")
		fmt.Fprintf(os.Stderr, "       rspinfo [flags] -config run.cfg\n\n")
		fmt.Fprintf(os.Stderr, "Prints the wire layout and impact responses of one plane.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  rspinfo garfield.json.bz2\n")
		fmt.Fprintf(os.Stderr, "  rspinfo -plane 2 -nbins 4096 garfield.json\n")
		fmt.Fprintf(os.Stderr, "  rspinfo -config run.cfg -wire 0\n")
		fmt.Fprintf(os.Stderr, "  rspinfo -list garfield.json\n")
	}
	flag.Parse()

	logger, err := driftlog.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if *list {
			fr, err := cfg.FieldResponse()
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			printList(fr)
			return
		}
		pir, err := cfg.PlaneImpactResponse(logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		printAnalysis(pir, *wire)
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	fr, err := response.LoadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *list {
		printList(fr)
		return
	}

	pir, err := response.New(fr, *plane,
		response.WithNBins(*nbins),
		response.WithTick(*tickUs*units.Microsecond),
		response.WithImpactsPerWire(*perWire),
		response.WithLogger(logger.With(zap.String("file", flag.Arg(0)))),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	printAnalysis(pir, *wire)
}

func printList(fr *response.FieldResponse) {
	for _, id := range fr.PlaneIDs() {
		pr, err := fr.Plane(id)
		if err != nil {
			continue
		}
		fmt.Printf("%d\tlocation %.2f mm\tpitch %.3f mm\t%d paths\n",
			id, pr.Location/units.Millimeter, pr.Pitch/units.Millimeter, len(pr.Paths))
	}
}

func printAnalysis(pir *response.PlaneImpactResponse, onlyWire int) {
	fmt.Printf("plane %d: %d wires, %d impacts per wire, impact pitch %.4f mm, wire pitch %.4f mm, half extent %.2f mm\n",
		pir.PlaneID(), pir.NWires(), pir.NImpactsPerWire(),
		pir.ImpactPitch()/units.Millimeter, pir.WirePitch()/units.Millimeter,
		pir.HalfExtent()/units.Millimeter)
	fmt.Printf("response: %d ticks of %.3f us\n\n", pir.NBins(), pir.Tick()/units.Microsecond)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Wire\tImpact\tPath\tPitch [mm]\tPeak Tick\tPeak\tIntegral\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	if _, err := fmt.Fprintf(tw, "----\t------\t----\t----------\t---------\t----\t--------\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	center := pir.NWires() / 2
	half := pir.NImpactsPerWire() / 2
	for w, row := range pir.ByWire() {
		relwire := w - center
		if onlyWire != math.MinInt && relwire != onlyWire {
			continue
		}
		for k, idx := range row {
			ir := pir.Response(idx)
			if ir == nil {
				continue
			}
			wave, err := ir.Waveform()
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: path %d: %v\n", idx, err)
				return
			}
			tick, peak := waveform.Peak(wave)
			pitch := float64(relwire)*pir.WirePitch() + float64(k-half)*pir.ImpactPitch()

			if _, err := fmt.Fprintf(tw, "%d\t%d\t%d\t%.3f\t%d\t%.4g\t%.4g\n",
				relwire,
				k-half,
				idx,
				pitch/units.Millimeter,
				tick,
				peak,
				floats.Sum(wave),
			); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
				return
			}
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
