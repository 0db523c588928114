package common

import (
	"fmt"
	"math"
	"math/rand"
)

// Point is an immutable position in the 2D world.
type Point struct {
	X float64
	Y float64
}

// NewRandomPoint samples a point uniformly within [xMin, xMax] x [yMin, yMax].
func NewRandomPoint(rng *rand.Rand, xMin, xMax, yMin, yMax float64) (Point, error) {
	if xMax < xMin || yMax < yMin {
		return Point{}, fmt.Errorf("invalid bounds: x [%.3f, %.3f], y [%.3f, %.3f]", xMin, xMax, yMin, yMax)
	}
	return Point{
		X: xMin + rng.Float64()*(xMax-xMin),
		Y: yMin + rng.Float64()*(yMax-yMin),
	}, nil
}

// Distance calculates the Euclidean distance between two points.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(other.X-p.X, other.Y-p.Y)
}

// Bearing returns the direction from p towards other, in radians.
func (p Point) Bearing(other Point) float64 {
	return math.Atan2(other.Y-p.Y, other.X-p.X)
}

// Shifted returns the point reached by moving distance along bearing.
func (p Point) Shifted(distance, bearing float64) Point {
	return Point{
		X: p.X + distance*math.Cos(bearing),
		Y: p.Y + distance*math.Sin(bearing),
	}
}

// IsClose reports whether both coordinates agree within tol.
func (p Point) IsClose(other Point, tol float64) bool {
	return math.Abs(p.X-other.X) <= tol && math.Abs(p.Y-other.Y) <= tol
}

// String returns a string representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X, p.Y)
}
