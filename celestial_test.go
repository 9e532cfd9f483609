package xfer

import "testing"

func TestBodyFromName(t *testing.T) {
	for _, name := range []string{"Sun", "Earth", "Moon", "Mars", "Jupiter"} {
		body, err := BodyFromName(name)
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		if body.Name != name {
			t.Fatalf("got %s, expected %s", body.Name, name)
		}
		if body.GM() <= 0 {
			t.Fatalf("%s has non-positive μ", name)
		}
		if body.Radius < 0 {
			t.Fatalf("%s has negative radius", name)
		}
	}
	if _, err := BodyFromName("Krypton"); err == nil {
		t.Fatal("expected an error for an undefined body")
	}
}

func TestBodyEquals(t *testing.T) {
	if !Earth.Equals(Earth) {
		t.Fatal("Earth does not equal itself")
	}
	if Earth.Equals(Mars) {
		t.Fatal("Earth equals Mars")
	}
	if len(Earth.String()) == 0 {
		t.Fatal("Earth string is empty")
	}
}
