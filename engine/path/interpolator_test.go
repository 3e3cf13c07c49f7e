package path

import (
	"testing"

	"github.com/Carmen-Shannon/flyby/common"
)

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func vecClose(a, b common.Vec3, tol float32) bool {
	return absf(a.X-b.X) < tol && absf(a.Y-b.Y) < tol && absf(a.Z-b.Z) < tol
}

func linearRun(positions ...common.Vec3) *Path {
	wps := make([]Waypoint, len(positions))
	for i, p := range positions {
		wps[i] = Waypoint{Position: p, Orientation: YawPitch(0, 0)}
	}
	return NewPath(wps)
}

func TestSegmentAt(t *testing.T) {
	cases := []struct {
		t         float32
		count     int
		wantIndex int
		wantFrac  float32
	}{
		{0, 5, 0, 0},
		{1, 5, 3, 1},
		{0.5, 3, 1, 0},
		{0.25, 3, 0, 0.5},
		{1.5, 3, 1, 1},  // past the end lands on the last segment
		{-0.5, 3, 0, 0}, // before the start lands on the first
		{0.3, 1, 0, 0},  // degenerate
		{0.3, 0, 0, 0},
	}
	for _, c := range cases {
		index, frac := SegmentAt(c.t, c.count)
		if index != c.wantIndex || absf(frac-c.wantFrac) > 1e-6 {
			t.Errorf("SegmentAt(%v, %d) = (%d, %v), want (%d, %v)",
				c.t, c.count, index, frac, c.wantIndex, c.wantFrac)
		}
	}
}

func TestPoseAtUsesDestinationEasing(t *testing.T) {
	// Segment 0 runs A -> B and must be shaped by B's easing. With inQuad,
	// local fraction 0.5 eases to 0.25.
	p := NewPath([]Waypoint{
		{Position: common.Vec3{}, Orientation: YawPitch(0, 0)},
		{Position: common.Vec3{X: 10}, Orientation: YawPitch(0, 0), Ease: "inQuad"},
		{Position: common.Vec3{X: 20}, Orientation: YawPitch(0, 0)},
	})

	pose := p.PoseAt(0.25) // segment 0, frac 0.5
	if absf(pose.Position.X-2.5) > 1e-5 {
		t.Errorf("position.X = %v, want 2.5 (inQuad on destination)", pose.Position.X)
	}
	if pose.Segment != 0 {
		t.Errorf("segment = %d, want 0", pose.Segment)
	}
}

func TestPoseAtWaypointBoundariesExact(t *testing.T) {
	p := NewPath([]Waypoint{
		{Position: common.Vec3{Y: 5}, Orientation: YawPitch(0.2, 0)},
		{Position: common.Vec3{X: 10, Y: 8}, Orientation: YawPitch(-0.4, 0.1), Ease: "outExpo"},
		{Position: common.Vec3{X: 30, Y: 2}, Orientation: YawPitch(1.1, -0.2), Ease: "inOutCubic"},
	})

	for i := 0; i < p.Len(); i++ {
		pose := p.PoseAt(p.ProgressOf(i))
		if !vecClose(pose.Position, p.At(i).Position, 1e-5) {
			t.Errorf("pose at waypoint %d = %+v, want %+v", i, pose.Position, p.At(i).Position)
		}
	}
}

func TestPoseAtIsDeterministic(t *testing.T) {
	p := NewPath([]Waypoint{
		{Position: common.Vec3{}, Orientation: LookAt(common.Vec3{Z: -10})},
		{Position: common.Vec3{X: 10}, Orientation: YawPitch(0.5, 0.1), Ease: "inOutSine"},
	})
	a := p.PoseAt(0.37)
	b := p.PoseAt(0.37)
	if a != b {
		t.Errorf("same t produced different poses: %+v vs %+v", a, b)
	}
}

func TestPoseAtLookAtSegmentKeepsFraming(t *testing.T) {
	// Both endpoints frame the same target, so every intermediate pose must
	// face it too.
	target := common.Vec3{X: 50, Y: 10, Z: -50}
	p := NewPath([]Waypoint{
		{Position: common.Vec3{Y: 20}, Orientation: LookAt(target)},
		{Position: common.Vec3{X: 40, Y: 30, Z: 10}, Orientation: LookAt(target), Ease: "inOutQuad"},
	})

	for _, frac := range []float32{0.2, 0.5, 0.8} {
		pose := p.PoseAt(frac)
		want := target.Sub(pose.Position).Normalize()
		got := pose.Orientation.Forward()
		if !vecClose(got, want, 1e-4) {
			t.Errorf("t=%v: forward %+v, want %+v", frac, got, want)
		}
	}
}

func TestPoseAtMixedSegmentEndpoints(t *testing.T) {
	// One yaw/pitch endpoint and one look-at endpoint: the boundaries must
	// still reproduce each waypoint's own orientation.
	target := common.Vec3{X: 0, Y: 0, Z: -100}
	p := NewPath([]Waypoint{
		{Position: common.Vec3{}, Orientation: YawPitch(0.3, -0.1)},
		{Position: common.Vec3{X: 20}, Orientation: LookAt(target)},
	})

	start := p.PoseAt(0)
	yaw, pitch := start.Orientation.YawPitch()
	if absf(yaw-0.3) > 1e-4 || absf(pitch+0.1) > 1e-4 {
		t.Errorf("start orientation (%v, %v), want (0.3, -0.1)", yaw, pitch)
	}

	end := p.PoseAt(1)
	want := target.Sub(end.Position).Normalize()
	if !vecClose(end.Orientation.Forward(), want, 1e-4) {
		t.Errorf("end forward %+v, want %+v", end.Orientation.Forward(), want)
	}
}

func TestPoseAtDegeneratePaths(t *testing.T) {
	empty := NewPath(nil, WithDefaultFov(70))
	pose := empty.PoseAt(0.5)
	if pose != (common.Pose{Orientation: common.QuatIdentity(), Fov: 70}) {
		t.Errorf("empty path pose = %+v", pose)
	}

	single := NewPath([]Waypoint{
		{Position: common.Vec3{X: 3}, Orientation: YawPitch(1, 0), Fov: 40},
	})
	for _, frac := range []float32{0, 0.5, 1} {
		got := single.PoseAt(frac)
		if got.Position != (common.Vec3{X: 3}) || got.Fov != 40 {
			t.Errorf("single-waypoint pose at %v = %+v", frac, got)
		}
	}
}

func TestPoseAtFovInheritance(t *testing.T) {
	p := NewPath([]Waypoint{
		{Position: common.Vec3{}, Orientation: YawPitch(0, 0)}, // inherits default
		{Position: common.Vec3{X: 10}, Orientation: YawPitch(0, 0), Fov: 45},
	}, WithDefaultFov(65))

	if got := p.PoseAt(0).Fov; got != 65 {
		t.Errorf("inherited fov = %v, want 65", got)
	}
	if got := p.PoseAt(1).Fov; got != 45 {
		t.Errorf("explicit fov = %v, want 45", got)
	}
	if got := p.PoseAt(0.5).Fov; absf(got-55) > 1e-4 {
		t.Errorf("midpoint fov = %v, want 55", got)
	}
}

func TestIndexOfAndProgressOf(t *testing.T) {
	p := NewPath([]Waypoint{
		{Name: "a", Orientation: YawPitch(0, 0)},
		{Name: "b", Position: common.Vec3{X: 1}, Orientation: YawPitch(0, 0)},
		{Position: common.Vec3{X: 2}, Orientation: YawPitch(0, 0)},
	})

	if got := p.IndexOf("b"); got != 1 {
		t.Errorf("IndexOf(b) = %d", got)
	}
	if got := p.IndexOf("missing"); got != -1 {
		t.Errorf("IndexOf(missing) = %d, want -1", got)
	}
	if got := p.IndexOf(""); got != -1 {
		t.Errorf("IndexOf(empty) = %d, want -1", got)
	}
	if got := p.ProgressOf(1); got != 0.5 {
		t.Errorf("ProgressOf(1) = %v, want 0.5", got)
	}
}

func TestBakeMatchesPoseAt(t *testing.T) {
	p := NewPath([]Waypoint{
		{Position: common.Vec3{}, Orientation: YawPitch(0, 0)},
		{Position: common.Vec3{X: 10, Y: 4}, Orientation: YawPitch(0.5, 0.1), Ease: "inOutCubic"},
		{Position: common.Vec3{X: 25, Y: -2}, Orientation: YawPitch(-0.3, 0), Ease: "outExpo"},
	})

	const samples = 33
	baked := p.Bake(samples, 4)
	if len(baked) != samples {
		t.Fatalf("baked %d samples, want %d", len(baked), samples)
	}
	for i, got := range baked {
		want := p.PoseAt(float32(i) / float32(samples-1))
		if got != want {
			t.Errorf("sample %d: %+v, want %+v", i, got, want)
		}
	}
}

func TestBakeDegenerate(t *testing.T) {
	p := linearRun(common.Vec3{}, common.Vec3{X: 1})
	if got := p.Bake(0, 1); got != nil {
		t.Errorf("Bake(0) = %v, want nil", got)
	}
	if got := p.Bake(1, 1); len(got) != 1 || got[0] != p.PoseAt(0) {
		t.Errorf("Bake(1) = %+v", got)
	}
}
