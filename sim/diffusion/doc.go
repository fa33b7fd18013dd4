// Package diffusion rasterizes diffused point depositions onto a time ×
// impact grid and accumulates them into per-impact waveforms.
//
// The pipeline is pull based and lazy:
//
//   - [BinnedDiffusion.Add] turns a deposition plus its longitudinal and
//     transverse widths into a [GaussianDiffusion] and registers it with
//     every impact bin it can reach within nsigma.
//   - [BinnedDiffusion.ImpactData] is the only place work happens. On the
//     first read of an impact, every contributing diffusion is sampled into
//     its 2D patch (rows = pitch, columns = time) and the patch rows are
//     summed into that impact's waveform, which is then transformed to a
//     spectrum. Both results are memoized.
//   - [BinnedDiffusion.Erase] and [BinnedDiffusion.SetWindow] drop impact
//     accumulators behind a sweeping reader to keep memory bounded.
//
// # Strategies
//
// [Constant] evaluates the Gaussian density at bin centers and assigns each
// patch row wholly to its impact bin. [Linear] integrates the Gaussian over
// bin edges and shares each row between the two impact positions bounding
// it, in proportion to where the charge centroid sits inside the bin.
//
// # Concurrency
//
// Configuration and Add calls must finish before concurrent reads begin.
// ImpactData may then be called from several goroutines for distinct
// impacts; a diffusion shared by two impacts is sampled exactly once.
// Erase must not race with a read of the same impact; erasing strictly
// behind the read frontier satisfies this.
package diffusion
