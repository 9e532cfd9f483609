package xfer

import (
	"fmt"
	"math"
	"time"
)

// sampleEllipse discretizes the transfer half-ellipse between radii r1 and
// r2 into sampleCount+1 time-tagged states. The true anomaly θ sweeps from
// periapsis (θ=0, r=r1) to apoapsis (θ=π, r=r2). It is a pure function of
// its inputs and may be called concurrently.
//
// The velocity direction is the tangential approximation consistent with
// the planar parametrization (-v sinθ, v cosθ, 0), not a full rotation into
// the ellipse's true velocity direction.
func sampleEllipse(r1, r2, aTransfer, μ float64, tof time.Duration, sampleCount int) ([]Point, error) {
	if sampleCount <= 0 {
		return nil, InvalidSampleCountError{Count: sampleCount}
	}
	eT := (r2 - r1) / (r1 + r2)
	points := make([]Point, 0, sampleCount+1)
	for i := 0; i <= sampleCount; i++ {
		θ := math.Pi * float64(i) / float64(sampleCount)
		sinθ, cosθ := math.Sincos(θ)
		r := aTransfer * (1 - eT*eT) / (1 + eT*cosθ)
		radicand := 2*μ/r - μ/aTransfer
		if radicand < 0 {
			return nil, TransferComputationError{Op: fmt.Sprintf("vis-viva at θ=%.2f deg (r=%.4f km)", Rad2deg(θ), r)}
		}
		v := math.Sqrt(radicand)
		// Tangential direction is the plane normal crossed with the radial.
		vDir := cross([]float64{0, 0, 1}, []float64{cosθ, sinθ, 0})
		elapsed := time.Duration(float64(tof) * float64(i) / float64(sampleCount))
		points = append(points, Point{
			Elapsed:  elapsed,
			Position: []float64{r * cosθ, r * sinθ, 0},
			Velocity: []float64{v * vDir[0], v * vDir[1], v * vDir[2]},
		})
	}
	return points, nil
}
