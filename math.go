package xfer

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const deg2rad = math.Pi / 180

// norm returns the norm of a given vector which is supposed to be 3x1.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// dot performs the inner product via mat64/BLAS.
func dot(a, b []float64) float64 {
	return mat64.Dot(mat64.NewVector(len(a), a), mat64.NewVector(len(b), b))
}

// cross performs the cross product.
func cross(a, b []float64) []float64 {
	return []float64{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]}
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// Deg2rad converts degrees to radians, and enforces only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforces only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}
