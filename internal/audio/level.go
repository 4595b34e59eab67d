// Package audio captures audio, extracts block peaks and converts them to
// decibels for the meter.
package audio

import "math"

// FloorDB is the lowest level the meter knows about. Readings at or below it
// mean there is no usable signal.
const FloorDB = -144.0

// Bias returns the linear scale factor that puts refLevelDB at 0 dB on the meter.
func Bias(refLevelDB float64) float64 {
	return math.Pow(10, -refLevelDB/20)
}

// ToDecibels converts a linear peak amplitude to dB, applying bias.
// Silence, invalid input and anything under the floor return FloorDB.
func ToDecibels(peak, bias float64) float64 {
	if !(peak > 0) {
		return FloorDB
	}
	db := 20 * math.Log10(peak*bias)
	if math.IsNaN(db) || math.IsInf(db, 0) || db < FloorDB {
		return FloorDB
	}
	return db
}

// HasSignal reports whether db is a real reading rather than the floor sentinel.
func HasSignal(db float64) bool {
	return db > FloorDB
}

// CeilingDB is the highest reading the meter accepts from a text stream.
const CeilingDB = -FloorDB

// InRange reports whether db is a finite reading from FloorDB to CeilingDB.
func InRange(db float64) bool {
	return db >= FloorDB && db <= CeilingDB
}
