// Package signal forms per-wire induced signals by convolving the
// accumulated charge at each impact position with the plane impact response
// closest to that position.
//
// For wire w, every impact within the response's half extent of the wire
// contributes IDFT(ImpactData spectrum × response spectrum). Response
// spectra sampled on a different tick grid are resampled once and cached.
package signal
