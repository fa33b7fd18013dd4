// Package response builds per-impact response spectra for one wire plane.
//
// A [FieldResponse] is a table of induced-current waveforms, one per drift
// path, sampled at pitch positions below each wire of a plane. A
// [PlaneImpactResponse] rebins those currents onto a fixed tick grid,
// transforms them, multiplies in any auxiliary [Filter] spectra (for example
// [ColdElec] shaping or an [RC] coupling) and indexes the results by wire and
// impact position. Paths only sample one half of each wire region; the other
// half is filled in by mirror symmetry about the central wire.
//
// Lookups by pitch relative to a wire go through
// [PlaneImpactResponse.Closest] and [PlaneImpactResponse.Bounded].
//
// Tables are read with [ReadJSON], [ReadMsgpack] or [LoadFile]. Resolving
// tables and filters by name is left to the caller.
package response
