package xfer

import (
	"fmt"
	"time"
)

// Point is one time-tagged state along a transfer trajectory. Position and
// velocity are expressed in the planar frame of the transfer ellipse,
// centered on the central body: the position norm is a radius from the
// center, not an altitude above a surface.
type Point struct {
	Elapsed  time.Duration // since the first impulse
	Position []float64     // km
	Velocity []float64     // km/s
}

// Trajectory is the immutable result of a transfer computation. Nothing in
// this package mutates a Trajectory after it has been built.
type Trajectory struct {
	ID             uint64
	Name           string
	ΔV1            float64 // km/s, signed: negative means a retrograde burn
	ΔV2            float64 // km/s, signed
	TOF            time.Duration
	Points         []Point
	InitialOrbitID uint64
	TargetOrbitID  uint64
	TransferType   string
}

// TOFHours returns the time of flight in hours, the unit used by the
// serialization contract.
func (t Trajectory) TOFHours() float64 {
	return t.TOF.Hours()
}

// IsNoOp returns whether this trajectory is the zero-impulse result of a
// transfer between coincident orbits.
func (t Trajectory) IsNoOp() bool {
	return t.ΔV1 == 0 && t.ΔV2 == 0 && t.TOF == 0 && len(t.Points) == 0
}

// String implements the Stringer interface.
func (t Trajectory) String() string {
	return fmt.Sprintf("%s transfer: Δv1=%.6f km/s Δv2=%.6f km/s tof=%s (%d points)",
		t.TransferType, t.ΔV1, t.ΔV2, t.TOF, len(t.Points))
}
