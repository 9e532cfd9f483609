package xfer

import "fmt"

// CelestialBody is the gravitational reference of an orbit. Only the
// gravitational parameter and the mean radius matter to the transfer
// computation; both are read-only.
type CelestialBody struct {
	Name   string
	Radius float64 // mean radius in km
	μ      float64 // gravitational parameter in km^3/s^2
}

// GM returns μ (which is unexported because it's a lowercase letter).
func (c CelestialBody) GM() float64 {
	return c.μ
}

// String implements the Stringer interface.
func (c CelestialBody) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial body is the same.
func (c CelestialBody) Equals(b CelestialBody) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.μ == b.μ
}

// BodyFromName returns the celestial body in the catalog with that name.
func BodyFromName(name string) (CelestialBody, error) {
	switch name {
	case "Sun":
		return Sun, nil
	case "Earth":
		return Earth, nil
	case "Moon":
		return Moon, nil
	case "Mars":
		return Mars, nil
	case "Jupiter":
		return Jupiter, nil
	default:
		return CelestialBody{}, fmt.Errorf("undefined body %q", name)
	}
}

// Sun is our star.
var Sun = CelestialBody{"Sun", 695700, 1.32712440017987e11}

// Earth is home.
var Earth = CelestialBody{"Earth", 6378.1363, 398600.4418}

// Moon is the only place humans have left footprints off Earth.
var Moon = CelestialBody{"Moon", 1737.4, 4902.800066}

// Mars is the vacation place.
var Mars = CelestialBody{"Mars", 3396.19, 4.28283100e4}

// Jupiter is big.
var Jupiter = CelestialBody{"Jupiter", 71492.0, 1.266865361e8}
