// Package waveform provides the sampled-sequence primitives shared by the
// diffusion and response packages: forward and inverse discrete Fourier
// transforms of arbitrary length, magnitude and power spectra, resizing and
// spectrum products.
//
// # Transforms
//
// [DFT] and [IDFT] keep one plan per length. Power-of-two lengths use the
// algo-fft planner; every other length, including the usual 9600 and 10000
// tick frames, uses gonum's mixed-radix transform. Both directions follow the same convention:
//
//	X[k] = sum_n x[n] exp(-2πi kn/N)
//	x[n] = 1/N sum_k X[k] exp(+2πi kn/N)
//
// so IDFT(DFT(x)) reproduces x.
//
// # Spectra
//
// [Magnitude] and [Power] use SIMD kernels from algo-vecmath when available.
package waveform
