package xfer

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
)

const velocityε = 1e-5 // km/s

func TestHohmannFunc(t *testing.T) {
	// LEO to GEO, radii from Vallado's example 6-1.
	rI := Earth.Radius + 191.34411
	rF := Earth.Radius + 35781.34857
	vDeparture, vArrival, tof, err := Hohmann(rI, rF, Earth)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(vDeparture-vCircular(rI), 2.457038, velocityε) {
		t.Fatalf("incorrect departure impulse %f", vDeparture-vCircular(rI))
	}
	if !floats.EqualWithinAbs(vArrival-vCircular(rF), -1.478187, velocityε) {
		t.Fatalf("incorrect arrival impulse %f", vArrival-vCircular(rF))
	}
	tofExp := 5*time.Hour + 15*time.Minute + 24*time.Second
	if tof < tofExp-time.Second || tof > tofExp+time.Second {
		t.Fatalf("incorrect time of flight %s", tof)
	}
}

func vCircular(r float64) float64 {
	v, _, _, _ := Hohmann(r, r, Earth)
	return v
}

func TestHohmannOutbound(t *testing.T) {
	ids := NewSequentialIDs(1)
	initial, err := NewOrbit(ids, 500, 500, 0, 0, 0, 0, Earth)
	if err != nil {
		t.Fatal(err)
	}
	target, err := NewOrbit(ids, 500, 35786, 0, 0, 0, 0, Earth)
	if err != nil {
		t.Fatal(err)
	}
	traj, err := NewHohmann(nil).Compute(initial, target, 100)
	if err != nil {
		t.Fatal(err)
	}
	if traj.ΔV1 <= 0 || traj.ΔV2 <= 0 {
		t.Fatalf("outbound transfer impulses must be positive: Δv1=%f Δv2=%f", traj.ΔV1, traj.ΔV2)
	}
	if !floats.EqualWithinAbs(traj.ΔV1, 11.419155, velocityε) {
		t.Fatalf("incorrect Δv1=%f", traj.ΔV1)
	}
	if !floats.EqualWithinAbs(traj.ΔV2, 2.783389, velocityε) {
		t.Fatalf("incorrect Δv2=%f", traj.ΔV2)
	}
	if !floats.EqualWithinAbs(traj.TOFHours(), 3.3778638, 1e-4) {
		t.Fatalf("incorrect time of flight %s (%f hours)", traj.TOF, traj.TOFHours())
	}
	if len(traj.Points) != 101 {
		t.Fatalf("got %d points, expected 101", len(traj.Points))
	}
	if traj.TransferType != "hohmann" {
		t.Fatalf("incorrect transfer type %q", traj.TransferType)
	}
	if traj.InitialOrbitID != initial.ID() || traj.TargetOrbitID != target.ID() {
		t.Fatal("trajectory does not reference its orbits")
	}
	// Departure at the initial perigee, arrival at the target apogee.
	if !floats.EqualWithinAbs(norm(traj.Points[0].Position), 500, 1e-6) {
		t.Fatalf("departure radius %f", norm(traj.Points[0].Position))
	}
	if !floats.EqualWithinAbs(norm(traj.Points[100].Position), 35786, 1e-6) {
		t.Fatalf("arrival radius %f", norm(traj.Points[100].Position))
	}
}

func TestHohmannCoincident(t *testing.T) {
	o1, _ := NewOrbit(nil, 7000, 7000, 0, 0, 0, 0, Earth)
	o2, _ := NewOrbit(nil, 7000, 7000, 0, 0, 0, 0, Earth)
	traj, err := NewHohmann(nil).Compute(o1, o2, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !traj.IsNoOp() {
		t.Fatalf("coincident orbits must short-circuit: %s", traj)
	}
	if traj.ΔV1 != 0 || traj.ΔV2 != 0 || traj.TOF != 0 || len(traj.Points) != 0 {
		t.Fatalf("expected the zero trajectory, got %s", traj)
	}
	// The short-circuit happens before any sampling, so a nonsensical
	// sample count must not matter here.
	if _, err = NewHohmann(nil).Compute(o1, o2, -1); err != nil {
		t.Fatalf("sample count must be ignored on the short-circuit path: %s", err)
	}
	// Within tolerance is still coincident.
	o3, _ := NewOrbit(nil, 7000+5e-4, 7000, 0, 0, 0, 0, Earth)
	traj, err = NewHohmann(nil).Compute(o1, o3, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !traj.IsNoOp() {
		t.Fatal("orbits within 1e-3 km must short-circuit")
	}
}

func TestHohmannPlaneMismatch(t *testing.T) {
	o1, _ := NewOrbit(nil, 500, 500, 0, 0, 0, 0, Earth)
	o2, _ := NewOrbit(nil, 500, 35786, 45, 0, 0, 0, Earth)
	traj, err := NewHohmann(nil).Compute(o1, o2, 100)
	if err == nil {
		t.Fatal("expected IncompatiblePlaneError")
	}
	var plane IncompatiblePlaneError
	if !errors.As(err, &plane) {
		t.Fatalf("expected IncompatiblePlaneError, got %T", err)
	}
	if plane.InitialInclination != 0 || plane.TargetInclination != 45 {
		t.Fatalf("error does not carry both inclinations: %+v", plane)
	}
	if traj != nil {
		t.Fatal("a failed computation must not return a partial trajectory")
	}
}

func TestHohmannDeorbit(t *testing.T) {
	ids := NewSequentialIDs(1)
	initial, _ := NewOrbit(ids, 500, 500, 0, 0, 0, 0, Earth)
	target, _ := NewOrbit(ids, 100, 500, 0, 0, 0, 0, Earth)
	traj, err := NewHohmann(nil).Compute(initial, target, 100)
	if err != nil {
		t.Fatal(err)
	}
	if sign(traj.ΔV1) != -1 || sign(traj.ΔV2) != -1 {
		t.Fatalf("de-orbit impulses must be negative (retrograde): Δv1=%f Δv2=%f", traj.ΔV1, traj.ΔV2)
	}
	if traj.TOF <= 0 {
		t.Fatalf("incorrect time of flight %s", traj.TOF)
	}
	final := traj.Points[len(traj.Points)-1]
	if !floats.EqualWithinAbs(norm(final.Position), 100, 10) {
		t.Fatalf("final radius %f, expected about 100 km", norm(final.Position))
	}
}

func TestHohmannPreconditions(t *testing.T) {
	o1, _ := NewOrbit(nil, 7000, 7000, 0, 0, 0, 0, Earth)
	o2, _ := NewOrbit(nil, 9000, 9000, 0, 0, 0, 0, Mars)
	var invalid InvalidOrbitError

	if _, err := NewHohmann(nil).Compute(o1, o2, 100); err == nil {
		t.Fatal("orbits around different bodies must be rejected")
	} else if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidOrbitError, got %T", err)
	}
	if _, err := NewHohmann(nil).Compute(nil, o1, 100); err == nil {
		t.Fatal("a missing initial orbit must be rejected")
	} else if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidOrbitError, got %T", err)
	}
	if _, err := NewHohmann(nil).Compute(o1, nil, 100); err == nil {
		t.Fatal("a missing target orbit must be rejected")
	} else if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidOrbitError, got %T", err)
	}
}

func TestHohmannSampleCount(t *testing.T) {
	o1, _ := NewOrbit(nil, 7000, 7000, 0, 0, 0, 0, Earth)
	o2, _ := NewOrbit(nil, 8000, 8000, 0, 0, 0, 0, Earth)
	_, err := NewHohmann(nil).Compute(o1, o2, 0)
	var invalid InvalidSampleCountError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSampleCountError, got %T", err)
	}
	traj, err := NewHohmann(nil).Compute(o1, o2, DefaultSampleCount)
	if err != nil {
		t.Fatal(err)
	}
	if len(traj.Points) != DefaultSampleCount+1 {
		t.Fatalf("got %d points, expected %d", len(traj.Points), DefaultSampleCount+1)
	}
}

func TestHohmannStrategyMetadata(t *testing.T) {
	h := NewHohmann(nil)
	if h.Type() != "hohmann" {
		t.Fatalf("incorrect type %q", h.Type())
	}
	if h.RequiresInclinationChange() {
		t.Fatal("a Hohmann transfer never changes the plane")
	}
	if len(h.Description()) == 0 {
		t.Fatal("empty description")
	}
}

func TestHohmannLogging(t *testing.T) {
	var buf bytes.Buffer
	h := NewHohmann(kitlog.NewLogfmtLogger(&buf))
	o1, _ := NewOrbit(nil, 7000, 7000, 0, 0, 0, 0, Earth)
	o2, _ := NewOrbit(nil, 8000, 8000, 0, 0, 0, 0, Earth)
	if _, err := h.Compute(o1, o2, 10); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "transfer=hohmann") {
		t.Fatalf("missing transfer log line: %q", buf.String())
	}
}

func TestHohmannConcurrent(t *testing.T) {
	// Compute is stateless: concurrent invocations must agree.
	o1, _ := NewOrbit(nil, 500, 500, 0, 0, 0, 0, Earth)
	o2, _ := NewOrbit(nil, 500, 35786, 0, 0, 0, 0, Earth)
	h := NewHohmann(nil)
	ref, err := h.Compute(o1, o2, 50)
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			traj, err := h.Compute(o1, o2, 50)
			if err != nil {
				t.Error(err)
				return
			}
			if traj.ΔV1 != ref.ΔV1 || traj.ΔV2 != ref.ΔV2 || traj.TOF != ref.TOF || len(traj.Points) != len(ref.Points) {
				t.Error("concurrent computations disagree")
			}
		}()
	}
	wg.Wait()
}
