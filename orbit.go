package xfer

import (
	"fmt"
	"math"
	"time"

	"github.com/gonum/floats"
)

const (
	// identicalε is the altitude tolerance (in km) under which two orbits
	// are considered the same orbit.
	identicalε = 1e-3
)

// Orbit defines a classical orbit via its perigee and apogee distances and
// its angular elements. Angles are stored in degrees, distances in km.
//
// Convention: the perigee and apogee scalars are radii measured from the
// center of the central body. They are used exactly as stored, no body
// radius is ever added to them. Sampled trajectory positions follow the
// same convention.
//
// An Orbit is immutable once constructed: "changing" an altitude produces a
// new instance (see WithAltitudes), and the derived semi-major axis and
// eccentricity are computed exactly once.
type Orbit struct {
	id         uint64
	name       string
	altPerigee float64
	altApogee  float64
	i, Ω, ω, ν float64 // degrees
	a, e       float64 // derived at construction
	body       CelestialBody
}

// NewOrbit creates an orbit around the given body and assigns it an id from
// the provided allocator. A nil allocator leaves the id at zero, which is
// fine for orbits never handed to a serialization layer.
func NewOrbit(ids IDAllocator, altPerigee, altApogee, inclination, raan, argp, trueAnomaly float64, body CelestialBody) (*Orbit, error) {
	var id uint64
	if ids != nil {
		id = ids.Next()
	}
	return NewOrbitWithID(id, "", altPerigee, altApogee, inclination, raan, argp, trueAnomaly, body)
}

// geoRadius is the geostationary radius of Earth in km.
const geoRadius = 42164

// NewGeostationary returns the circular equatorial Earth orbit at the
// geostationary radius, whose period matches Earth's rotation. A nil
// allocator leaves the id at zero.
func NewGeostationary(ids IDAllocator) (*Orbit, error) {
	var id uint64
	if ids != nil {
		id = ids.Next()
	}
	return NewOrbitWithID(id, "Geostationary Orbit", geoRadius, geoRadius, 0, 0, 0, 0, Earth)
}

// NewOrbitWithID creates an orbit with a caller-supplied id and name. Used
// when reconstructing an orbit from a serialized record.
func NewOrbitWithID(id uint64, name string, altPerigee, altApogee, inclination, raan, argp, trueAnomaly float64, body CelestialBody) (*Orbit, error) {
	if body.GM() <= 0 {
		return nil, InvalidOrbitError{Field: "central_body", Value: body.GM(), Reason: "gravitational parameter must be strictly positive"}
	}
	if altPerigee <= 0 {
		return nil, InvalidOrbitError{Field: "altitude_perigee", Value: altPerigee, Reason: "must be strictly positive"}
	}
	if altPerigee > altApogee {
		return nil, InvalidOrbitError{Field: "altitude_perigee", Value: altPerigee, Reason: "perigee must not be above apogee"}
	}
	if inclination < 0 || inclination > 180 {
		return nil, InvalidOrbitError{Field: "inclination", Value: inclination, Reason: "must be in [0, 180] degrees"}
	}
	if raan < 0 || raan > 360 {
		return nil, InvalidOrbitError{Field: "raan", Value: raan, Reason: "must be in [0, 360] degrees"}
	}
	if argp < 0 || argp > 360 {
		return nil, InvalidOrbitError{Field: "argp", Value: argp, Reason: "must be in [0, 360] degrees"}
	}
	if trueAnomaly < 0 || trueAnomaly > 360 {
		return nil, InvalidOrbitError{Field: "nu", Value: trueAnomaly, Reason: "must be in [0, 360] degrees"}
	}
	o := &Orbit{
		id:         id,
		name:       name,
		altPerigee: altPerigee,
		altApogee:  altApogee,
		i:          inclination,
		Ω:          raan,
		ω:          argp,
		ν:          trueAnomaly,
		body:       body,
	}
	o.a = (altPerigee + altApogee) / 2
	o.e = (altApogee - altPerigee) / (altApogee + altPerigee)
	return o, nil
}

// ID returns the process-assigned id of this orbit.
func (o Orbit) ID() uint64 { return o.id }

// Name returns the optional name of this orbit.
func (o Orbit) Name() string { return o.name }

// AltitudePerigee returns the perigee distance in km.
func (o Orbit) AltitudePerigee() float64 { return o.altPerigee }

// AltitudeApogee returns the apogee distance in km.
func (o Orbit) AltitudeApogee() float64 { return o.altApogee }

// Inclination returns the inclination in degrees.
func (o Orbit) Inclination() float64 { return o.i }

// RAAN returns the right ascension of the ascending node in degrees.
func (o Orbit) RAAN() float64 { return o.Ω }

// ArgPerigee returns the argument of perigee in degrees.
func (o Orbit) ArgPerigee() float64 { return o.ω }

// TrueAnomaly returns the true anomaly in degrees.
func (o Orbit) TrueAnomaly() float64 { return o.ν }

// Body returns the central body of this orbit.
func (o Orbit) Body() CelestialBody { return o.body }

// Periapsis returns the periapsis radius in km.
func (o Orbit) Periapsis() float64 { return o.a * (1 - o.e) }

// Apoapsis returns the apoapsis radius in km.
func (o Orbit) Apoapsis() float64 { return o.a * (1 + o.e) }

// SemiMajorAxis returns the derived semi-major axis in km.
func (o Orbit) SemiMajorAxis() float64 { return o.a }

// Eccentricity returns the derived eccentricity.
func (o Orbit) Eccentricity() float64 { return o.e }

// Elements returns the six classical orbital elements which an external
// classical-to-Cartesian capability needs. Angles are in degrees.
func (o Orbit) Elements() (a, e, i, Ω, ω, ν float64) {
	return o.a, o.e, o.i, o.Ω, o.ω, o.ν
}

// Period returns the period of this orbit.
func (o Orbit) Period() time.Duration {
	// The time package does not trivially handle fractions of a second, so
	// let's compute this in a convoluted way...
	seconds := 2 * math.Pi * math.Sqrt(math.Pow(o.a, 3)/o.body.μ)
	duration, _ := time.ParseDuration(fmt.Sprintf("%.6fs", seconds))
	return duration
}

// RV returns the Cartesian position and velocity of this orbit in km and
// km/s via a PQW to ECI rotation of the perifocal state.
func (o Orbit) RV() (R, V []float64) {
	i := Deg2rad(o.i)
	Ω := Deg2rad(o.Ω)
	ω := Deg2rad(o.ω)
	ν := Deg2rad(o.ν)
	p := o.a * (1 - o.e*o.e)
	sinν, cosν := math.Sincos(ν)

	R = make([]float64, 3)
	R[0] = p * cosν / (1 + o.e*cosν)
	R[1] = p * sinν / (1 + o.e*cosν)
	R[2] = 0
	R = PQW2ECI(i, ω, Ω, R)

	V = make([]float64, 3)
	V[0] = -math.Sqrt(o.body.μ/p) * sinν
	V[1] = math.Sqrt(o.body.μ/p) * (o.e + cosν)
	V[2] = 0
	V = PQW2ECI(i, ω, Ω, V)
	return R, V
}

// WithAltitudes returns a new orbit identical to this one except for its
// perigee and apogee distances. The derived elements are recomputed; id and
// name carry over.
func (o Orbit) WithAltitudes(altPerigee, altApogee float64) (*Orbit, error) {
	return NewOrbitWithID(o.id, o.name, altPerigee, altApogee, o.i, o.Ω, o.ω, o.ν, o.body)
}

// Coincident returns whether both orbits have the same perigee and apogee
// within identicalε. A transfer between coincident orbits is a no-op.
func (o Orbit) Coincident(o1 Orbit) bool {
	return floats.EqualWithinAbs(o.altPerigee, o1.altPerigee, identicalε) &&
		floats.EqualWithinAbs(o.altApogee, o1.altApogee, identicalε)
}

// String implements the Stringer interface.
func (o Orbit) String() string {
	return fmt.Sprintf("perigee=%.1f apogee=%.1f a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f ν=%.3f (%s)",
		o.altPerigee, o.altApogee, o.a, o.e, o.i, o.Ω, o.ω, o.ν, o.body.Name)
}
