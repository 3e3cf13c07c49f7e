package common

import (
	"math"
	"testing"
)

const angleTol = 1e-5

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func vecClose(a, b Vec3, tol float32) bool {
	return absf(a.X-b.X) < tol && absf(a.Y-b.Y) < tol && absf(a.Z-b.Z) < tol
}

func TestQuatForwardMatchesDirectForward(t *testing.T) {
	yaws := []float32{0, 0.5, -0.5, 1.2, -2.8, 3.1}
	pitches := []float32{0, 0.3, -0.3, 1.0, -1.0}

	for _, yaw := range yaws {
		for _, pitch := range pitches {
			q := QuatFromYawPitch(yaw, pitch)
			got := q.Forward()
			want := ForwardFromYawPitch(yaw, pitch)
			if !vecClose(got, want, angleTol) {
				t.Errorf("yaw=%v pitch=%v: quat forward %+v, direct forward %+v", yaw, pitch, got, want)
			}
		}
	}
}

func TestQuatYawPitchRoundTrip(t *testing.T) {
	cases := []struct{ yaw, pitch float32 }{
		{0, 0},
		{0.7, 0.2},
		{-1.4, -0.6},
		{2.0, 1.1},
		{-2.9, -1.1},
	}
	for _, c := range cases {
		yaw, pitch := QuatFromYawPitch(c.yaw, c.pitch).YawPitch()
		if absf(yaw-c.yaw) > 1e-4 || absf(pitch-c.pitch) > 1e-4 {
			t.Errorf("round trip (%v, %v) -> (%v, %v)", c.yaw, c.pitch, yaw, pitch)
		}
	}
}

func TestQuatIdentityLooksDownNegZ(t *testing.T) {
	f := QuatIdentity().Forward()
	if !vecClose(f, Vec3{Z: -1}, angleTol) {
		t.Errorf("identity forward = %+v, want (0, 0, -1)", f)
	}
}

func TestSlerpEndpoints(t *testing.T) {
	a := QuatFromYawPitch(0.3, 0.1)
	b := QuatFromYawPitch(-1.2, 0.4)

	got := Slerp(a, b, 0)
	if absf(absf(got.Dot(a))-1) > angleTol {
		t.Errorf("slerp t=0 is not a: dot=%v", got.Dot(a))
	}
	got = Slerp(a, b, 1)
	if absf(absf(got.Dot(b))-1) > angleTol {
		t.Errorf("slerp t=1 is not b: dot=%v", got.Dot(b))
	}
}

func TestSlerpTakesShorterArc(t *testing.T) {
	a := QuatFromYawPitch(0, 0)
	// Negated representation of the same rotation as a small yaw turn.
	b := QuatFromYawPitch(0.2, 0)
	b = Quat{-b.W, -b.X, -b.Y, -b.Z}

	mid := Slerp(a, b, 0.5)
	yaw, _ := mid.YawPitch()
	if absf(yaw-0.1) > 1e-3 {
		t.Errorf("midpoint yaw = %v, want 0.1 (shorter arc)", yaw)
	}
}

func TestSlerpIsUnitLength(t *testing.T) {
	a := QuatFromYawPitch(2.5, -0.8)
	b := QuatFromYawPitch(-2.5, 0.8)
	for _, frac := range []float32{0.1, 0.25, 0.5, 0.75, 0.9} {
		q := Slerp(a, b, frac)
		l := float32(math.Sqrt(float64(q.Dot(q))))
		if absf(l-1) > angleTol {
			t.Errorf("slerp t=%v length = %v", frac, l)
		}
	}
}

func TestLookAtQuatFacesTarget(t *testing.T) {
	eye := Vec3{X: 10, Y: 5, Z: -3}
	target := Vec3{X: -20, Y: 12, Z: -40}

	f := LookAtQuat(eye, target).Forward()
	want := target.Sub(eye).Normalize()
	if !vecClose(f, want, 1e-4) {
		t.Errorf("look-at forward %+v, want %+v", f, want)
	}
}

func TestLookAtQuatCoincidentIsIdentity(t *testing.T) {
	p := Vec3{X: 1, Y: 2, Z: 3}
	q := LookAtQuat(p, p)
	if q != QuatIdentity() {
		t.Errorf("coincident look-at = %+v, want identity", q)
	}
}

func TestLookAtQuatIsRollFree(t *testing.T) {
	eye := Vec3{}
	target := Vec3{X: 5, Y: 8, Z: -10}
	q := LookAtQuat(eye, target)

	// A roll-free orientation keeps the rotated right axis horizontal.
	right := q.Rotate(Vec3{X: 1})
	if absf(right.Y) > 1e-4 {
		t.Errorf("right axis has vertical component %v, orientation carries roll", right.Y)
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	if got := (Quat{}).Normalize(); got != QuatIdentity() {
		t.Errorf("zero quat normalized to %+v, want identity", got)
	}
}
