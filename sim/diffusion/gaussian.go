package diffusion

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-drift/sim/binning"
	"github.com/cwbudde/algo-drift/sim/depo"
)

// Errors returned by diffusion sampling.
var (
	ErrSamplingMismatch = errors.New("diffusion: already sampled with different parameters")
	ErrUnknownStrategy  = errors.New("diffusion: unknown strategy")
	ErrNoPatch          = errors.New("diffusion: patch requested before sampling")
)

// Sampling is the parameter tuple a patch is rasterized for.
type Sampling struct {
	Time      binning.Binning
	Pitch     binning.Binning
	NSigma    float64
	Fluctuate bool
	Strategy  Strategy
}

// GaussianDiffusion is one deposition diffused along time and pitch. Its
// patch is computed once, on the first SetSampling call.
type GaussianDiffusion struct {
	depo  depo.Deposition
	time  GaussDesc
	pitch GaussDesc

	mu       sync.Mutex
	sampled  bool
	sampling Sampling
	patch    *mat.Dense
	weights  []float64
	toffset  int
	poffset  int
}

// NewGaussianDiffusion pairs a deposition with its time and pitch
// Gaussians. The caller keeps the descriptors consistent with the
// deposition; see BinnedDiffusion.Add.
func NewGaussianDiffusion(d depo.Deposition, time, pitch GaussDesc) *GaussianDiffusion {
	return &GaussianDiffusion{depo: d, time: time, pitch: pitch}
}

// Depo returns the deposition.
func (gd *GaussianDiffusion) Depo() depo.Deposition { return gd.depo }

// TimeDesc returns the time Gaussian.
func (gd *GaussianDiffusion) TimeDesc() GaussDesc { return gd.time }

// PitchDesc returns the pitch Gaussian.
func (gd *GaussianDiffusion) PitchDesc() GaussDesc { return gd.pitch }

// SetSampling rasterizes the patch for s. Calling it again with the same
// parameters is a no-op; different parameters return ErrSamplingMismatch
// and leave the existing patch untouched. src drives the Poisson draws
// when s.Fluctuate is set and may be nil otherwise.
func (gd *GaussianDiffusion) SetSampling(s Sampling, src rand.Source) error {
	gd.mu.Lock()
	defer gd.mu.Unlock()

	if gd.sampled {
		if gd.sampling != s {
			return ErrSamplingMismatch
		}
		return nil
	}

	toff, tw, _ := axisWeights(gd.time, s.Time, s.NSigma, s.Strategy)
	poff, pw, centroids := axisWeights(gd.pitch, s.Pitch, s.NSigma, s.Strategy)

	gd.toffset = toff
	gd.poffset = poff
	if len(tw) > 0 && len(pw) > 0 {
		gd.patch = rasterize(gd.depo.Charge(), pw, tw)
		if s.Fluctuate && src != nil {
			fluctuate(gd.patch, gd.depo.Charge(), src)
		}
	}
	if s.Strategy == Linear && len(pw) > 0 {
		gd.weights = lowerEdgeWeights(centroids, s.Pitch, poff)
	}
	gd.sampling = s
	gd.sampled = true
	return nil
}

// Sampled reports whether the patch has been computed.
func (gd *GaussianDiffusion) Sampled() bool {
	gd.mu.Lock()
	defer gd.mu.Unlock()
	return gd.sampled
}

// Patch returns the rasterized charge, rows indexed by pitch bin and
// columns by time bin, relative to POffsetBin and TOffsetBin. It is nil
// before sampling or when the Gaussian misses the binning entirely.
// The returned matrix must not be modified.
func (gd *GaussianDiffusion) Patch() *mat.Dense {
	gd.mu.Lock()
	defer gd.mu.Unlock()
	return gd.patch
}

// Dims returns the patch rows (pitch) and columns (time).
func (gd *GaussianDiffusion) Dims() (rows, cols int) {
	p := gd.Patch()
	if p == nil {
		return 0, 0
	}
	return p.Dims()
}

// Weights returns, for Linear sampling, the fraction of each patch row's
// charge that belongs to the impact position at the row's lower edge.
// The remainder belongs to the next impact position. Nil for Constant.
func (gd *GaussianDiffusion) Weights() []float64 {
	gd.mu.Lock()
	defer gd.mu.Unlock()
	return gd.weights
}

// TOffsetBin returns the time bin of the first patch column.
func (gd *GaussianDiffusion) TOffsetBin() int {
	gd.mu.Lock()
	defer gd.mu.Unlock()
	return gd.toffset
}

// POffsetBin returns the pitch bin of the first patch row.
func (gd *GaussianDiffusion) POffsetBin() int {
	gd.mu.Lock()
	defer gd.mu.Unlock()
	return gd.poffset
}

// axisWeights returns the clamped first bin of g's ±nsigma extent in b,
// the normalized weight of every bin in that extent, and the charge
// centroid inside each bin.
func axisWeights(g GaussDesc, b binning.Binning, nsigma float64, strategy Strategy) (offset int, w, centroids []float64) {
	lo, hi := g.Range(nsigma)
	begin, end := b.Range(lo, hi)
	if end <= begin {
		return begin, nil, nil
	}

	n := end - begin
	w = make([]float64, n)
	centroids = make([]float64, n)

	if g.Sigma <= 0 {
		// lo == hi, so the extent is the single bin holding the center.
		w[0] = 1
		centroids[0] = g.Center
		return begin, w, centroids
	}

	norm := distuv.Normal{Mu: g.Center, Sigma: g.Sigma}
	for i := range w {
		bin := begin + i
		a, c := b.Edge(bin), b.Edge(bin+1)
		switch strategy {
		case Linear:
			w[i] = norm.CDF(c) - norm.CDF(a)
		default:
			w[i] = norm.Prob(b.Center(bin)) * b.BinSize()
		}

		centroids[i] = b.Center(bin)
		if mass := norm.CDF(c) - norm.CDF(a); mass > 1e-12 {
			centroids[i] = g.Center + g.Sigma*g.Sigma*(norm.Prob(a)-norm.Prob(c))/mass
		}
	}

	total := floats.Sum(w)
	if total <= 0 || math.IsNaN(total) {
		// The window only holds far tails; keep the charge in the bin
		// nearest the center.
		for i := range w {
			w[i] = 0
		}
		nearest := min(max(b.Bin(g.Center), begin), end-1)
		w[nearest-begin] = 1
		return begin, w, centroids
	}
	floats.Scale(1/total, w)
	return begin, w, centroids
}

// rasterize returns charge * pw ⊗ tw.
func rasterize(charge float64, pw, tw []float64) *mat.Dense {
	patch := mat.NewDense(len(pw), len(tw), nil)
	for p, wp := range pw {
		floats.ScaleTo(patch.RawRowView(p), charge*wp, tw)
	}
	return patch
}

// fluctuate replaces each cell by a Poisson draw with the cell's magnitude
// as mean, then rescales so the patch again sums to charge. A patch whose
// draws are all zero is left zero.
func fluctuate(patch *mat.Dense, charge float64, src rand.Source) {
	sign := 1.0
	if charge < 0 {
		sign = -1
	}

	rows, _ := patch.Dims()
	total := 0.0
	for r := 0; r < rows; r++ {
		row := patch.RawRowView(r)
		for c, v := range row {
			mean := math.Abs(v)
			if mean <= 0 {
				row[c] = 0
				continue
			}
			n := distuv.Poisson{Lambda: mean, Src: src}.Rand()
			row[c] = n
			total += n
		}
	}

	if total <= 0 {
		return
	}
	patch.Scale(sign*math.Abs(charge)/total, patch)
}

// lowerEdgeWeights converts per-row centroids into the fraction of charge
// assigned to each row's lower impact edge.
func lowerEdgeWeights(centroids []float64, b binning.Binning, offset int) []float64 {
	w := make([]float64, len(centroids))
	for i, c := range centroids {
		frac := (c - b.Edge(offset+i)) / b.BinSize()
		w[i] = 1 - min(max(frac, 0), 1)
	}
	return w
}
