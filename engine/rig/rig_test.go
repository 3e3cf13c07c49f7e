package rig

import (
	"testing"

	"github.com/Carmen-Shannon/flyby/common"
	"github.com/Carmen-Shannon/flyby/engine/path"
)

func tourPath() *path.Path {
	return path.NewPath([]path.Waypoint{
		{Name: "a", Position: common.Vec3{}, Orientation: path.YawPitch(0, 0)},
		{Name: "b", Position: common.Vec3{X: 50}, Orientation: path.YawPitch(0.4, 0)},
		{Name: "c", Position: common.Vec3{X: 100, Y: 10}, Orientation: path.YawPitch(0.8, 0.1)},
	})
}

func newTestRig() (Rig, path.Controller) {
	c := path.NewController(tourPath())
	return NewRig(c), c
}

// scrollToEnd drives the controller across the completion threshold with
// large forward wheel events interleaved with frame updates.
func scrollToEnd(r Rig) {
	for i := 0; i < 200 && r.Mode() == ModePath; i++ {
		r.ApplyWheel(12000)
		for j := 0; j < 40; j++ {
			r.Update(0.016)
		}
	}
}

func TestStartsInPathMode(t *testing.T) {
	r, c := newTestRig()
	if r.Mode() != ModePath {
		t.Fatalf("initial mode = %v", r.Mode())
	}
	if r.Simulator() != nil {
		t.Error("simulator exists before first free-flight entry")
	}
	if r.Controller() != c {
		t.Error("Controller() returned a different controller")
	}
}

func TestCompletionEntersFreeFlightSeamlessly(t *testing.T) {
	r, c := newTestRig()

	scrollToEnd(r)

	if r.Mode() != ModeFreeFly {
		t.Fatalf("mode after completion = %v, want freeFly", r.Mode())
	}

	// The simulator must take over exactly at the end-of-path pose.
	endPose := c.PoseAtEnd()
	sim := r.Simulator()
	if sim == nil {
		t.Fatal("no simulator after free-flight entry")
	}
	pos := sim.Position()
	if pos.Sub(endPose.Position).Length() > 1e-3 {
		t.Errorf("seeded at %+v, want end pose %+v", pos, endPose.Position)
	}
	if c.Active() {
		t.Error("controller still has motion after handoff")
	}
}

func TestExplicitEnterAndSkip(t *testing.T) {
	r, c := newTestRig()

	r.SetProgress(0.5)
	r.SkipToFreeFlight()
	if r.Mode() != ModeFreeFly {
		t.Fatal("skip did not enter free-flight")
	}
	want := c.Path().PoseAt(0.5).Position
	if got := r.Simulator().Position(); got.Sub(want).Length() > 1e-3 {
		t.Errorf("skip seeded at %+v, want mid-path %+v", got, want)
	}

	// Re-entering is a no-op.
	r.EnterFreeFlight()
	if got := r.Simulator().Position(); got.Sub(want).Length() > 1e-3 {
		t.Error("redundant enter re-seeded the simulator")
	}

	r.ExitFreeFlight()
	r.EnterFreeFlight()
	end := c.PoseAtEnd().Position
	if got := r.Simulator().Position(); got.Sub(end).Length() > 1e-3 {
		t.Errorf("explicit enter seeded at %+v, want end %+v", got, end)
	}
}

func TestExitRestoresProgressBelowThreshold(t *testing.T) {
	r, c := newTestRig()

	scrollToEnd(r)
	if r.Mode() != ModeFreeFly {
		t.Fatal("setup: never entered free-flight")
	}

	r.ExitFreeFlight()
	if r.Mode() != ModePath {
		t.Fatalf("mode after exit = %v", r.Mode())
	}
	threshold := c.Mapping().CompleteThreshold
	if got := c.Progress(); got >= threshold {
		t.Errorf("restored progress %v is not below threshold %v", got, threshold)
	}

	// Completion is re-armed: scrolling forward again re-enters free-flight.
	scrollToEnd(r)
	if r.Mode() != ModeFreeFly {
		t.Error("re-armed completion never re-entered free-flight")
	}
}

func TestBackwardScrollExitsUnlessDragged(t *testing.T) {
	r, _ := newTestRig()

	r.EnterFreeFlight()
	r.ApplyWheel(-120)
	if r.Mode() != ModePath {
		t.Fatal("backward scroll did not exit free-flight")
	}

	// After a drag, scroll exit is locked out; only an explicit exit works.
	r.EnterFreeFlight()
	r.StartDrag(100, 100)
	r.Drag(150, 100)
	r.EndDrag()
	r.ApplyWheel(-120)
	if r.Mode() != ModeFreeFly {
		t.Fatal("backward scroll exited despite a prior drag")
	}
	r.ExitFreeFlight()
	if r.Mode() != ModePath {
		t.Error("explicit exit failed after drag lockout")
	}
}

func TestForwardScrollIgnoredInFreeFlight(t *testing.T) {
	r, c := newTestRig()
	r.EnterFreeFlight()
	before := c.Progress()
	r.ApplyWheel(120)
	if r.Mode() != ModeFreeFly {
		t.Error("forward scroll changed mode")
	}
	if c.Progress() != before {
		t.Error("forward scroll moved the frozen path")
	}
}

func TestFreeFlightPoseCarriesFrozenSegment(t *testing.T) {
	r, _ := newTestRig()

	r.SetProgress(0.75) // segment 1 of the 3-waypoint path
	r.SkipToFreeFlight()
	r.Update(0.016)

	pose := r.Pose()
	if pose.Segment != 1 {
		t.Errorf("free-flight pose segment = %d, want frozen 1", pose.Segment)
	}
}

func TestDragIgnoredInPathMode(t *testing.T) {
	r, c := newTestRig()
	r.StartDrag(10, 10)
	r.Drag(50, 50)
	r.EndDrag()
	if c.Progress() != 0 || r.Mode() != ModePath {
		t.Error("drag in path mode had an effect")
	}
}

func TestUpdateAdvancesAuthoritativeSubsystem(t *testing.T) {
	r, c := newTestRig()

	r.ApplyWheel(120)
	before := c.Progress()
	r.Update(0.1)
	if c.Progress() <= before {
		t.Error("path-mode update did not advance the controller")
	}

	r.SkipToFreeFlight()
	sim := r.Simulator()
	start := sim.Position()
	for i := 0; i < 60; i++ {
		r.Update(0.016)
	}
	if sim.Position().Sub(start).Length() == 0 {
		t.Error("free-flight update did not move the simulator")
	}
}

func TestJumpToWaypointThroughRig(t *testing.T) {
	r, c := newTestRig()
	if !r.JumpToWaypoint(1) {
		t.Fatal("valid jump rejected")
	}
	if got := c.Progress(); got != 0.5 {
		t.Errorf("progress = %v, want 0.5", got)
	}
	if r.JumpToWaypoint(9) {
		t.Error("out-of-range jump accepted")
	}
}

func TestTuningSurface(t *testing.T) {
	r, c := newTestRig()

	if !r.Set("scroll.maxStep", 0.2) {
		t.Error("scroll.maxStep rejected")
	}
	if got := c.Mapping().MaxStep; got != 0.2 {
		t.Errorf("MaxStep = %v after Set", got)
	}

	if !r.Set("anchor.enabled", 0) {
		t.Error("anchor.enabled rejected")
	}
	if c.Anchors().Enabled {
		t.Error("anchor.enabled 0 did not disable snapping")
	}

	if !r.Set("sensitivity.globalScale", 1.5) {
		t.Error("sensitivity.globalScale rejected")
	}
	if got := c.Sensitivity().GlobalScale; got != 1.5 {
		t.Errorf("GlobalScale = %v after Set", got)
	}

	// Flight keys apply to simulators created afterwards.
	if !r.Set("flight.baseSpeed", 50) {
		t.Error("flight.baseSpeed rejected")
	}
	r.EnterFreeFlight()
	if got := r.Simulator().Config().BaseSpeed; got != 50 {
		t.Errorf("BaseSpeed = %v on a fresh simulator", got)
	}

	// And hot-reload the live one.
	if !r.Set("joystick.deadZone", 0.5) {
		t.Error("joystick.deadZone rejected")
	}
	if got := r.Simulator().Config().Joystick.DeadZone; got != 0.5 {
		t.Errorf("live DeadZone = %v after Set", got)
	}

	if r.Set("bogus.key", 1) {
		t.Error("unknown key accepted")
	}
}

func TestModeString(t *testing.T) {
	if ModePath.String() != "path" || ModeFreeFly.String() != "freeFly" {
		t.Errorf("mode names: %q, %q", ModePath.String(), ModeFreeFly.String())
	}
}
