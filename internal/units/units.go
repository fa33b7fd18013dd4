// Package units defines the system of units shared by the simulation packages.
//
// Quantities are stored as plain float64 values scaled by these constants:
// time in nanoseconds, length in millimeters, charge in electrons.
package units

const (
	Nanosecond  = 1.0
	Microsecond = 1000 * Nanosecond
	Millisecond = 1000 * Microsecond
	Second      = 1000 * Millisecond

	Millimeter = 1.0
	Centimeter = 10 * Millimeter
	Meter      = 1000 * Millimeter

	Centimeter2 = Centimeter * Centimeter

	// Eplus is the magnitude of the electron charge.
	Eplus = 1.0
)
