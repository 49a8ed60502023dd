// Package geometry provides pure position, distance, and area-shape math for
// the tactical grid. One grid unit is a 5-foot square. The package is
// stateless and has no dependencies on the rest of the engine.
package geometry

import "math"

// FeetPerSquare is the edge length of one grid cell in feet.
const FeetPerSquare = 5

// Position is an immutable pair of integer grid coordinates.
type Position struct {
	X int
	Y int
}

// Distance returns the Euclidean distance between a and b in feet, rounded to
// the nearest 5-foot increment.
//
// Postcondition: result >= 0 and result % 5 == 0.
func Distance(a, b Position) int {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	squares := math.Hypot(dx, dy)
	return int(math.Round(squares)) * FeetPerSquare
}

// distanceFeet returns the exact (unrounded) distance between a and b in feet.
// Movement costing uses the exact value; display distances use Distance.
func distanceFeet(a, b Position) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Hypot(dx, dy) * FeetPerSquare
}

// ExactDistanceFeet returns the unrounded Euclidean distance in feet.
func ExactDistanceFeet(a, b Position) float64 {
	return distanceFeet(a, b)
}
