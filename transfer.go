package xfer

import (
	"math"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// DefaultSampleCount is the number of trajectory samples used when the
// caller does not care.
const DefaultSampleCount = 100

// TransferStrategy computes a transfer trajectory between two orbits around
// the same central body. Implementations must be stateless across calls:
// Compute is a deterministic function of its inputs and safe for concurrent
// use.
type TransferStrategy interface {
	// Type returns the stable external identifier of this strategy.
	Type() string
	// Compute determines the transfer between the two orbits and samples it
	// into sampleCount+1 points.
	Compute(initial, target *Orbit, sampleCount int) (*Trajectory, error)
}

// Hohmann computes a Hohmann transfer between two circular radii. It
// returns the departure and arrival velocities on the transfer ellipse, and
// the time of flight (half the period of the transfer ellipse).
// To get the impulses:
// Δv1 = vDeparture - vCircular(rI)
// Δv2 = vCircular(rF) - vArrival
func Hohmann(rI, rF float64, body CelestialBody) (vDeparture, vArrival float64, tof time.Duration, err error) {
	μ := body.GM()
	aTransfer := 0.5 * (rI + rF)
	depRadicand := 2*μ/rI - μ/aTransfer
	arrRadicand := 2*μ/rF - μ/aTransfer
	if depRadicand < 0 || arrRadicand < 0 {
		err = TransferComputationError{Op: "vis-viva on transfer ellipse"}
		return
	}
	vDeparture = math.Sqrt(depRadicand)
	vArrival = math.Sqrt(arrRadicand)
	tof = time.Duration(math.Pi * math.Sqrt(math.Pow(aTransfer, 3)/μ) * float64(time.Second))
	return
}

// HohmannStrategy is the built-in two-impulse coplanar transfer strategy.
type HohmannStrategy struct {
	logger kitlog.Logger
}

// NewHohmann returns a Hohmann strategy. The logger may be nil.
func NewHohmann(logger kitlog.Logger) *HohmannStrategy {
	return &HohmannStrategy{logger: logger}
}

// Type implements the TransferStrategy interface.
func (h *HohmannStrategy) Type() string { return "hohmann" }

// Description returns a short description of the strategy.
func (h *HohmannStrategy) Description() string {
	return "A simple transfer between two coplanar circular orbits."
}

// RequiresInclinationChange returns whether this strategy changes the
// orbital plane. A pure Hohmann transfer never does.
func (h *HohmannStrategy) RequiresInclinationChange() bool { return false }

// Compute implements the TransferStrategy interface.
//
// The transfer departs from the initial orbit's perigee. Outbound (initial
// perigee at or below target perigee) it arrives at the target's apogee;
// inbound it arrives at the target's perigee. Impulses keep their sign: a
// de-orbit transfer yields negative values, i.e. retrograde burns.
func (h *HohmannStrategy) Compute(initial, target *Orbit, sampleCount int) (*Trajectory, error) {
	if initial == nil {
		return nil, InvalidOrbitError{Field: "initial", Reason: "missing orbit"}
	}
	if target == nil {
		return nil, InvalidOrbitError{Field: "target", Reason: "missing orbit"}
	}
	if !initial.Body().Equals(target.Body()) {
		return nil, InvalidOrbitError{Field: "central_body", Reason: "orbits do not share a central body"}
	}
	if initial.Inclination() != target.Inclination() {
		return nil, IncompatiblePlaneError{
			InitialInclination: initial.Inclination(),
			TargetInclination:  target.Inclination(),
		}
	}

	traj := &Trajectory{
		InitialOrbitID: initial.ID(),
		TargetOrbitID:  target.ID(),
		TransferType:   h.Type(),
	}

	if initial.Coincident(*target) {
		// Nothing to do, and nothing to sample.
		return traj, nil
	}

	r1 := initial.AltitudePerigee()
	var r2 float64
	if initial.AltitudePerigee() <= target.AltitudePerigee() {
		r2 = target.AltitudeApogee()
	} else {
		r2 = target.AltitudePerigee()
	}

	μ := initial.Body().GM()
	aTransfer := 0.5 * (r1 + r2)
	vDeparture, vArrival, tof, err := Hohmann(r1, r2, initial.Body())
	if err != nil {
		return nil, err
	}
	traj.ΔV1 = vDeparture - math.Sqrt(μ/r1)
	traj.ΔV2 = math.Sqrt(μ/r2) - vArrival
	traj.TOF = tof

	points, err := sampleEllipse(r1, r2, aTransfer, μ, tof, sampleCount)
	if err != nil {
		return nil, err
	}
	traj.Points = points

	if h.logger != nil {
		h.logger.Log("transfer", h.Type(), "r1", r1, "r2", r2,
			"Δv1", traj.ΔV1, "Δv2", traj.ΔV2, "tof", tof, "points", len(points))
	}
	return traj, nil
}
