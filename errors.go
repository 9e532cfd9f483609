package xfer

import "fmt"

// InvalidOrbitError is returned when orbital elements are malformed or
// physically inconsistent (e.g. perigee above apogee).
type InvalidOrbitError struct {
	Field  string
	Value  float64
	Reason string
}

func (e InvalidOrbitError) Error() string {
	return fmt.Sprintf("invalid orbit: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// IncompatiblePlaneError is returned when a coplanar-only strategy is asked
// to transfer between orbits of different inclinations.
type IncompatiblePlaneError struct {
	InitialInclination float64 // degrees
	TargetInclination  float64 // degrees
}

func (e IncompatiblePlaneError) Error() string {
	return fmt.Sprintf("incompatible planes: initial inclination %v deg, target inclination %v deg", e.InitialInclination, e.TargetInclination)
}

// UnsupportedTransferTypeError is returned by the registry for unknown
// strategy identifiers.
type UnsupportedTransferTypeError struct {
	Type string
}

func (e UnsupportedTransferTypeError) Error() string {
	return fmt.Sprintf("unsupported transfer type %q", e.Type)
}

// InvalidSampleCountError is returned when the requested number of
// trajectory samples is not strictly positive.
type InvalidSampleCountError struct {
	Count int
}

func (e InvalidSampleCountError) Error() string {
	return fmt.Sprintf("invalid sample count %d: must be strictly positive", e.Count)
}

// TransferComputationError wraps an unexpected arithmetic fault (e.g. a
// negative radicand from inconsistent radii). It is never a validation
// failure: those have their own types above.
type TransferComputationError struct {
	Op    string
	Cause error
}

func (e TransferComputationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("transfer computation failed during %s", e.Op)
	}
	return fmt.Sprintf("transfer computation failed during %s: %s", e.Op, e.Cause)
}

func (e TransferComputationError) Unwrap() error {
	return e.Cause
}
