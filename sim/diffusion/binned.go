package diffusion

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cwbudde/algo-drift/sim/binning"
	"github.com/cwbudde/algo-drift/sim/depo"
)

// Geometry projects positions onto the pitch axis of a wire plane and
// defines its impact binning. *pimpos.Pimpos satisfies it.
type Geometry interface {
	Distance(pos r3.Vec) float64
	ImpactBinning() binning.Binning
}

// BinnedDiffusion associates impact positions along the pitch of a wire
// plane with the diffused depositions that drift to them, over a fixed,
// discretely sampled time and pitch domain.
type BinnedDiffusion struct {
	geom  Geometry
	tbins binning.Binning
	cfg   Config
	src   *lockedSource
	log   *zap.Logger

	mu      sync.RWMutex
	window  [2]int
	impacts map[int]*ImpactData
	diffs   []*GaussianDiffusion
	known   map[*GaussianDiffusion]struct{}
}

// New returns a BinnedDiffusion over the impact binning of geom and the
// time binning tbins.
func New(geom Geometry, tbins binning.Binning, opts ...Option) *BinnedDiffusion {
	cfg := ApplyOptions(opts...)
	return &BinnedDiffusion{
		geom:    geom,
		tbins:   tbins,
		cfg:     cfg,
		src:     &lockedSource{src: cfg.Source},
		log:     cfg.Logger,
		impacts: map[int]*ImpactData{},
		known:   map[*GaussianDiffusion]struct{}{},
	}
}

// Geometry returns the plane geometry.
func (bd *BinnedDiffusion) Geometry() Geometry { return bd.geom }

// TimeBinning returns the time binning.
func (bd *BinnedDiffusion) TimeBinning() binning.Binning { return bd.tbins }

// ImpactBinning returns the impact binning of the geometry.
func (bd *BinnedDiffusion) ImpactBinning() binning.Binning { return bd.geom.ImpactBinning() }

// Config returns the settings in effect.
func (bd *BinnedDiffusion) Config() Config { return bd.cfg }

// Sampling returns the parameters every patch is sampled with.
func (bd *BinnedDiffusion) Sampling() Sampling {
	return Sampling{
		Time:      bd.tbins,
		Pitch:     bd.geom.ImpactBinning(),
		NSigma:    bd.cfg.NSigma,
		Fluctuate: bd.cfg.Fluctuate,
		Strategy:  bd.cfg.Strategy,
	}
}

// Add diffuses d with the given time and pitch widths and registers it
// with every impact bin within nsigma. It returns false, changing nothing,
// when the charge lies entirely outside the time or impact domain.
func (bd *BinnedDiffusion) Add(d depo.Deposition, sigmaTime, sigmaPitch float64) bool {
	nsigma := bd.cfg.NSigma

	tdesc := GaussDesc{Center: d.Time(), Sigma: sigmaTime}
	if lo, hi := tdesc.Distance(bd.tbins.Min()), tdesc.Distance(bd.tbins.Max()); lo > nsigma || hi < -nsigma {
		bd.log.Debug("deposition outside time domain",
			zap.Float64("time", d.Time()),
			zap.Float64("min_sigma", lo),
			zap.Float64("max_sigma", hi))
		return false
	}

	ibins := bd.geom.ImpactBinning()
	pdesc := GaussDesc{Center: bd.geom.Distance(d.Pos()), Sigma: sigmaPitch}
	if lo, hi := pdesc.Distance(ibins.Min()), pdesc.Distance(ibins.Max()); lo > nsigma || hi < -nsigma {
		bd.log.Debug("deposition outside pitch domain",
			zap.Float64("pitch", pdesc.Center),
			zap.Float64("min_sigma", lo),
			zap.Float64("max_sigma", hi))
		return false
	}

	begin, end := bd.impactRange(pdesc)
	if begin >= end {
		return false
	}

	gd := NewGaussianDiffusion(d, tdesc, pdesc)

	bd.mu.Lock()
	defer bd.mu.Unlock()
	bd.remember(gd)
	for bin := begin; bin < end; bin++ {
		bd.register(gd, bin)
	}
	return true
}

// AddDiffusion associates an already built diffusion with one impact,
// without checking its extent. Impacts outside the impact binning are
// ignored and reported by a false return.
func (bd *BinnedDiffusion) AddDiffusion(gd *GaussianDiffusion, impact int) bool {
	if !bd.geom.ImpactBinning().InBounds(impact) {
		bd.log.Debug("impact outside binning", zap.Int("impact", impact))
		return false
	}

	bd.mu.Lock()
	defer bd.mu.Unlock()
	bd.remember(gd)
	bd.register(gd, impact)
	return true
}

func (bd *BinnedDiffusion) remember(gd *GaussianDiffusion) {
	if _, ok := bd.known[gd]; ok {
		return
	}
	bd.known[gd] = struct{}{}
	bd.diffs = append(bd.diffs, gd)
}

func (bd *BinnedDiffusion) register(gd *GaussianDiffusion, impact int) {
	id, ok := bd.impacts[impact]
	if !ok {
		id = NewImpactData(impact)
		bd.impacts[impact] = id
	}
	id.Add(gd)
}

// impactRange returns the half-open impact bin range a pitch Gaussian
// reaches. Linear calculation also feeds the impact position above the
// last reached bin.
func (bd *BinnedDiffusion) impactRange(pdesc GaussDesc) (begin, end int) {
	ibins := bd.geom.ImpactBinning()
	begin, end = ibins.Range(pdesc.Range(bd.cfg.NSigma))
	if bd.cfg.Strategy == Linear && end > begin {
		end = min(end+1, ibins.NBins())
	}
	return begin, end
}

// Erase drops the accumulators of impacts in [begin, end). The diffusions
// stay known to range queries and Restore.
func (bd *BinnedDiffusion) Erase(begin, end int) {
	bd.mu.Lock()
	defer bd.mu.Unlock()
	bd.erase(begin, end)
}

func (bd *BinnedDiffusion) erase(begin, end int) {
	if end-begin > len(bd.impacts) {
		for bin := range bd.impacts {
			if bin >= begin && bin < end {
				delete(bd.impacts, bin)
			}
		}
		return
	}
	for bin := begin; bin < end; bin++ {
		delete(bd.impacts, bin)
	}
}

// SetWindow records the impact window a sweeping reader is working in and
// erases every accumulator below begin.
func (bd *BinnedDiffusion) SetWindow(begin, end int) {
	bd.mu.Lock()
	defer bd.mu.Unlock()
	if begin > 0 {
		bd.erase(0, begin)
	}
	bd.window = [2]int{begin, end}
}

// Window returns the last window set with SetWindow.
func (bd *BinnedDiffusion) Window() (begin, end int) {
	bd.mu.RLock()
	defer bd.mu.RUnlock()
	return bd.window[0], bd.window[1]
}

// Restore rebuilds accumulators for impacts in [begin, end) that are not
// currently held, from every known diffusion reaching them. It returns
// the number of impacts rebuilt.
func (bd *BinnedDiffusion) Restore(begin, end int) int {
	ibins := bd.geom.ImpactBinning()
	begin, end = ibins.Clamp(begin), ibins.Clamp(end)

	bd.mu.Lock()
	defer bd.mu.Unlock()

	rebuilt := map[int]bool{}
	for _, gd := range bd.diffs {
		lo, hi := bd.impactRange(gd.PitchDesc())
		for bin := max(lo, begin); bin < min(hi, end); bin++ {
			if _, held := bd.impacts[bin]; held && !rebuilt[bin] {
				continue
			}
			rebuilt[bin] = true
			bd.register(gd, bin)
		}
	}
	return len(rebuilt)
}

// ImpactData returns the accumulator of impact, sampling its diffusions and
// calculating its waveform on first access. It returns nil, and no error,
// when impact is outside the impact binning or holds no contribution.
func (bd *BinnedDiffusion) ImpactData(impact int) (*ImpactData, error) {
	if !bd.geom.ImpactBinning().InBounds(impact) {
		return nil, nil
	}

	bd.mu.RLock()
	id, ok := bd.impacts[impact]
	bd.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if !id.Calculated() {
		s := bd.Sampling()
		for _, gd := range id.Diffusions() {
			if err := gd.SetSampling(s, bd.src); err != nil {
				return nil, fmt.Errorf("diffusion: impact %d: %w", impact, err)
			}
		}
	}
	if err := id.Calculate(bd.tbins.NBins(), bd.cfg.Strategy); err != nil {
		return nil, err
	}
	return id, nil
}

// Impacts returns the indices of the held accumulators in increasing
// order.
func (bd *BinnedDiffusion) Impacts() []int {
	bd.mu.RLock()
	defer bd.mu.RUnlock()
	out := make([]int, 0, len(bd.impacts))
	for bin := range bd.impacts {
		out = append(out, bin)
	}
	slices.Sort(out)
	return out
}

// Diffusions returns every diffusion added so far, each once.
func (bd *BinnedDiffusion) Diffusions() []*GaussianDiffusion {
	bd.mu.RLock()
	defer bd.mu.RUnlock()
	return slices.Clone(bd.diffs)
}

// PitchRange returns the pitch interval covering all diffusions out to
// nsigma, without bounds checking. No diffusions gives (0, 0).
func (bd *BinnedDiffusion) PitchRange(nsigma float64) (float64, float64) {
	bd.mu.RLock()
	defer bd.mu.RUnlock()
	return gaussRange(bd.diffs, (*GaussianDiffusion).PitchDesc, nsigma)
}

// ImpactBinRange returns the half-open impact bin range of PitchRange,
// clamped to [0, nimpacts].
func (bd *BinnedDiffusion) ImpactBinRange(nsigma float64) (int, int) {
	if len(bd.Diffusions()) == 0 {
		return 0, 0
	}
	return bd.geom.ImpactBinning().Range(bd.PitchRange(nsigma))
}

// TimeRange returns the time interval covering all diffusions out to
// nsigma, without bounds checking. No diffusions gives (0, 0).
func (bd *BinnedDiffusion) TimeRange(nsigma float64) (float64, float64) {
	bd.mu.RLock()
	defer bd.mu.RUnlock()
	return gaussRange(bd.diffs, (*GaussianDiffusion).TimeDesc, nsigma)
}

// TimeBinRange returns the half-open time bin range of TimeRange, clamped
// to [0, nticks].
func (bd *BinnedDiffusion) TimeBinRange(nsigma float64) (int, int) {
	if len(bd.Diffusions()) == 0 {
		return 0, 0
	}
	return bd.tbins.Range(bd.TimeRange(nsigma))
}
