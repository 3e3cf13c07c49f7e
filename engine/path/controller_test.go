package path

import (
	"testing"

	"github.com/Carmen-Shannon/flyby/common"
)

// twoPoint builds the simplest usable path: one segment, no anchors.
func twoPoint() *Path {
	return linearRun(common.Vec3{}, common.Vec3{X: 100})
}

// advanceFor steps the controller in fixed increments for the given duration.
func advanceFor(c Controller, seconds, dt float32) {
	for elapsed := float32(0); elapsed < seconds; elapsed += dt {
		c.Advance(dt)
	}
}

func TestApplyWheelImmediateStep(t *testing.T) {
	c := NewController(twoPoint())

	if !c.ApplyWheel(120) {
		t.Fatal("wheel event rejected")
	}

	// One nominal notch maps to ScaleFactor progress units; the immediate
	// fraction of that lands synchronously, the rest becomes velocity.
	m := DefaultMagnitudeConfig()
	wantImmediate := m.ScaleFactor * m.ImmediateRatio
	if got := c.Progress(); absf(got-wantImmediate) > 1e-6 {
		t.Errorf("progress after one notch = %v, want %v", got, wantImmediate)
	}
	wantVelocity := m.ScaleFactor * (1 - m.ImmediateRatio) * m.ImpulseScale
	if got := c.Velocity(); absf(got-wantVelocity) > 1e-6 {
		t.Errorf("velocity after one notch = %v, want %v", got, wantVelocity)
	}
	if !c.Active() {
		t.Error("controller idle right after an impulse")
	}
}

func TestGlideDecaysToExactlyZero(t *testing.T) {
	c := NewController(twoPoint())
	c.ApplyWheel(120)

	before := c.Progress()
	advanceFor(c, DefaultMagnitudeConfig().DecayDuration+0.5, 0.016)

	if got := c.Velocity(); got != 0 {
		t.Errorf("velocity after decay = %v, want exactly 0", got)
	}
	if c.Progress() <= before {
		t.Error("glide did not move progress forward")
	}
	if c.Active() {
		t.Error("controller still active after full decay")
	}
}

func TestBackwardWheelMovesBackward(t *testing.T) {
	c := NewController(twoPoint(), WithProgress(0.5))
	c.ApplyWheel(-120)
	advanceFor(c, 2, 0.016)
	if c.Progress() >= 0.5 {
		t.Errorf("progress = %v, want below 0.5", c.Progress())
	}
}

func TestWheelMagnitudeMapping(t *testing.T) {
	c := NewController(twoPoint())

	// A huge flick must clamp at MaxStep, a tiny one at MinImpulse.
	c.ApplyWheel(12000)
	m := DefaultMagnitudeConfig()
	if got := c.Progress(); absf(got-m.MaxStep*m.ImmediateRatio) > 1e-6 {
		t.Errorf("flick immediate progress = %v, want %v", got, m.MaxStep*m.ImmediateRatio)
	}

	c.SetProgress(0)
	c.ApplyWheel(1)
	if got := c.Progress(); absf(got-m.MinImpulse*m.ImmediateRatio) > 1e-7 {
		t.Errorf("tiny delta immediate progress = %v, want %v", got, m.MinImpulse*m.ImmediateRatio)
	}
}

func TestSensitivityScalesStep(t *testing.T) {
	c := NewController(twoPoint())
	c.SetSensitivity(SensitivityConfig{GlobalScale: 2})
	c.ApplyWheel(120)

	m := DefaultMagnitudeConfig()
	want := m.ScaleFactor * 2 * m.ImmediateRatio
	if got := c.Progress(); absf(got-want) > 1e-6 {
		t.Errorf("progress with 2x sensitivity = %v, want %v", got, want)
	}
}

func TestSegmentBoost(t *testing.T) {
	c := NewController(linearRun(common.Vec3{}, common.Vec3{X: 10}, common.Vec3{X: 20}))
	c.SetSensitivity(SensitivityConfig{
		GlobalScale:  1,
		SegmentBoost: map[int]float32{0: 100}, // +100% on the first segment
	})
	c.ApplyWheel(120)

	m := DefaultMagnitudeConfig()
	want := m.ScaleFactor * 2 * m.ImmediateRatio
	if got := c.Progress(); absf(got-want) > 1e-6 {
		t.Errorf("boosted progress = %v, want %v", got, want)
	}
}

func TestInputGates(t *testing.T) {
	c := NewController(twoPoint())

	c.SetEnabled(false)
	if c.ApplyWheel(120) {
		t.Error("disabled controller accepted input")
	}
	c.SetEnabled(true)

	c.SetPaused(true)
	if c.ApplyWheel(120) {
		t.Error("paused controller accepted input")
	}
	c.SetPaused(false)

	c.SetLocked(true)
	if c.ApplyWheel(120) {
		t.Error("locked controller accepted input")
	}
	c.SetLocked(false)

	if c.ApplyWheel(0) {
		t.Error("zero delta accepted")
	}
	if c.Progress() != 0 {
		t.Errorf("rejected input moved progress to %v", c.Progress())
	}
}

func TestSetProgressCancelsMotion(t *testing.T) {
	c := NewController(twoPoint())
	c.ApplyWheel(120)

	c.SetProgress(2) // clamps to 1
	if got := c.Progress(); got != 1 {
		t.Errorf("progress = %v, want 1", got)
	}
	if c.Velocity() != 0 {
		t.Errorf("velocity = %v after reposition, want 0", c.Velocity())
	}
	if c.Active() {
		t.Error("controller active after atomic reposition")
	}

	c.SetProgress(-3)
	if got := c.Progress(); got != 0 {
		t.Errorf("progress = %v, want 0", got)
	}
}

func TestBoundaryContactZeroesVelocity(t *testing.T) {
	c := NewController(twoPoint(), WithProgress(0.999))
	// Disable completion interference for this check.
	cfg := c.Mapping()
	cfg.CompleteThreshold = 2
	c.SetMapping(cfg)

	c.ApplyWheel(12000)
	advanceFor(c, 1, 0.016)

	if got := c.Progress(); got != 1 {
		t.Errorf("progress = %v, want clamped 1", got)
	}
	if c.Velocity() != 0 {
		t.Errorf("velocity at boundary = %v, want 0", c.Velocity())
	}
}

func TestJumpToWaypoint(t *testing.T) {
	c := NewController(linearRun(common.Vec3{}, common.Vec3{X: 10}, common.Vec3{X: 20}))

	if !c.JumpToWaypoint(1) {
		t.Fatal("valid jump rejected")
	}
	if got := c.Progress(); got != 0.5 {
		t.Errorf("progress = %v, want 0.5", got)
	}
	if c.JumpToWaypoint(3) {
		t.Error("out-of-range jump accepted")
	}
	if c.JumpToWaypoint(-1) {
		t.Error("negative jump accepted")
	}
	if got := c.Progress(); got != 0.5 {
		t.Errorf("failed jump moved progress to %v", got)
	}
}

func TestCompletionFiresOnceAndRearms(t *testing.T) {
	c := NewController(twoPoint())
	fired := 0
	c.SetOnComplete(func() { fired++ })

	// A direct reposition past the threshold must never fire the callback.
	c.SetProgress(1)
	if fired != 0 {
		t.Fatalf("SetProgress fired completion %d times", fired)
	}

	// Re-arm below the threshold, then scroll across it.
	c.SetProgress(0.97)
	for i := 0; i < 10 && fired == 0; i++ {
		c.ApplyWheel(12000)
		advanceFor(c, 0.5, 0.016)
	}
	if fired != 1 {
		t.Fatalf("completion fired %d times, want 1", fired)
	}

	// Latched: more forward input does not re-fire.
	c.ApplyWheel(12000)
	advanceFor(c, 0.5, 0.016)
	if fired != 1 {
		t.Errorf("latched completion re-fired (%d)", fired)
	}

	// Repositioning below the threshold re-arms it.
	c.SetProgress(0.97)
	for i := 0; i < 10 && fired == 1; i++ {
		c.ApplyWheel(12000)
		advanceFor(c, 0.5, 0.016)
	}
	if fired != 2 {
		t.Errorf("re-armed completion fired %d times total, want 2", fired)
	}
}

func TestBackwardMotionNeverCompletes(t *testing.T) {
	c := NewController(twoPoint(), WithProgress(1))
	fired := 0
	c.SetOnComplete(func() { fired++ })

	c.SetProgress(0.9995) // above threshold, pre-latched
	c.ApplyWheel(-120)
	advanceFor(c, 1, 0.016)
	if fired != 0 {
		t.Errorf("backward motion fired completion %d times", fired)
	}
}

// anchored builds a three-waypoint path whose middle waypoint is an anchor
// sitting at progress 0.5.
func anchored() *Path {
	return NewPath([]Waypoint{
		{Position: common.Vec3{}, Orientation: YawPitch(0, 0)},
		{Position: common.Vec3{X: 10}, Orientation: YawPitch(0, 0), Anchor: true},
		{Position: common.Vec3{X: 20}, Orientation: YawPitch(0, 0)},
	})
}

func TestAnchorSnapAndDwell(t *testing.T) {
	c := NewController(anchored(), WithProgress(0.49))
	a := DefaultAnchorConfig()

	// A tiny impulse creates slow motion inside the snap radius.
	c.ApplyWheel(1)
	advanceFor(c, a.SnapDuration+0.2, 0.016)

	if got := c.Progress(); got != 0.5 {
		t.Fatalf("progress after snap = %v, want exactly 0.5", got)
	}

	// Dwell: progress holds on the anchor.
	c.Advance(a.Dwell / 2)
	if got := c.Progress(); got != 0.5 {
		t.Errorf("progress during dwell = %v, want 0.5", got)
	}
	if !c.Active() {
		t.Error("controller idle during dwell")
	}

	// After dwell plus grace the controller settles without re-trapping.
	advanceFor(c, a.Dwell+a.ReleaseGrace+0.5, 0.016)
	if got := c.Progress(); got != 0.5 {
		t.Errorf("progress after dwell = %v, want 0.5", got)
	}
	if c.Active() {
		t.Error("controller still active after dwell and grace expired")
	}
}

func TestAnchorRequiresMotion(t *testing.T) {
	// Parked inside the snap radius with no motion: the anchor must not
	// attract progress.
	c := NewController(anchored(), WithProgress(0.495))
	advanceFor(c, 2, 0.016)
	if got := c.Progress(); got != 0.495 {
		t.Errorf("idle progress crept to %v", got)
	}
}

func TestAnchorDisabled(t *testing.T) {
	c := NewController(anchored(), WithProgress(0.49))
	cfg := c.Anchors()
	cfg.Enabled = false
	c.SetAnchors(cfg)

	c.ApplyWheel(1)
	advanceFor(c, 3, 0.016)
	if got := c.Progress(); got == 0.5 {
		t.Error("disabled anchoring still snapped onto the anchor")
	}
}

func TestScrollDuringDwellReleases(t *testing.T) {
	c := NewController(anchored(), WithProgress(0.49))
	a := DefaultAnchorConfig()

	c.ApplyWheel(1)
	advanceFor(c, a.SnapDuration+0.2, 0.016)
	if c.Progress() != 0.5 {
		t.Fatalf("setup failed: progress = %v", c.Progress())
	}

	// Scrolling while dwelling releases immediately and moves forward; the
	// grace window keeps the same anchor from re-trapping this input.
	c.ApplyWheel(120)
	advanceFor(c, 2, 0.016)
	if got := c.Progress(); got <= 0.5 {
		t.Errorf("progress after dwell release = %v, want above 0.5", got)
	}
}

func TestHaltClearsEverything(t *testing.T) {
	c := NewController(anchored(), WithProgress(0.49))
	c.ApplyWheel(1)
	c.Advance(0.016)

	before := c.Progress()
	c.Halt()
	if c.Active() {
		t.Error("controller active after Halt")
	}
	if c.Velocity() != 0 {
		t.Errorf("velocity after Halt = %v", c.Velocity())
	}
	if c.Progress() != before {
		t.Errorf("Halt moved progress from %v to %v", before, c.Progress())
	}
}

func TestSegmentReporting(t *testing.T) {
	c := NewController(linearRun(common.Vec3{}, common.Vec3{X: 1}, common.Vec3{X: 2}))
	c.SetProgress(0.25)
	if got := c.Segment(); got != 0 {
		t.Errorf("segment at 0.25 = %d, want 0", got)
	}
	c.SetProgress(0.75)
	if got := c.Segment(); got != 1 {
		t.Errorf("segment at 0.75 = %d, want 1", got)
	}
}

func TestPoseFollowsProgress(t *testing.T) {
	c := NewController(twoPoint())
	c.SetProgress(0.5)
	pose := c.Pose()
	if absf(pose.Position.X-50) > 1e-4 {
		t.Errorf("pose.Position.X = %v, want 50", pose.Position.X)
	}
	end := c.PoseAtEnd()
	if absf(end.Position.X-100) > 1e-4 {
		t.Errorf("end pose X = %v, want 100", end.Position.X)
	}
}
