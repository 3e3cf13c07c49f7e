// Package rig implements the mode coordinator: a two-state machine that
// decides which subsystem — the waypoint path or the free-flight simulator —
// produces the authoritative camera pose each frame, and hands off between
// them without a visible discontinuity.
package rig

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/flyby/common"
	"github.com/Carmen-Shannon/flyby/engine/flight"
	"github.com/Carmen-Shannon/flyby/engine/path"
)

// Mode identifies which subsystem owns the frame's pose.
type Mode uint8

const (
	// ModePath locks the camera to the waypoint path.
	ModePath Mode = iota
	// ModeFreeFly hands the camera to the free-flight simulator.
	ModeFreeFly
)

// String returns the mode name for logging.
func (m Mode) String() string {
	if m == ModeFreeFly {
		return "freeFly"
	}
	return "path"
}

// Rig is the single input and pose surface the host talks to. It routes
// wheel and drag input to whichever subsystem is authoritative, runs the
// per-frame update, and exposes the flat key/value tuning surface.
// All methods are safe for concurrent use.
type Rig interface {
	// ApplyWheel feeds one wheel event. In path mode it drives the path
	// controller; in free-flight a backward scroll exits back to the path,
	// unless the user has dragged since entering (intentional exploration
	// locks out scroll-triggered exit).
	//
	// Parameters:
	//   - delta: raw wheel delta (positive = forward along the path)
	ApplyWheel(delta float32)

	// StartDrag, Drag, and EndDrag route the joystick gesture to the
	// free-flight simulator. No-ops in path mode.
	//
	// Parameters:
	//   - x, y: pointer position in screen-space pixels
	StartDrag(x, y float32)
	Drag(x, y float32)
	EndDrag()

	// SetProgress repositions path progress directly, canceling any glide or
	// snap in flight. Applies in either mode; in free-flight it only moves
	// the frozen path state.
	//
	// Parameters:
	//   - t: new progress (clamped to [0, 1])
	SetProgress(t float32)

	// JumpToWaypoint repositions path progress exactly onto a waypoint.
	//
	// Parameters:
	//   - index: waypoint index
	//
	// Returns:
	//   - bool: false when the index is out of range
	JumpToWaypoint(index int) bool

	// EnterFreeFlight switches to free-flight seeded from the end of the
	// path (progress 1). No-op when already in free-flight.
	EnterFreeFlight()

	// SkipToFreeFlight switches to free-flight seeded from the pose at the
	// current (not necessarily final) progress. No-op when already in
	// free-flight.
	SkipToFreeFlight()

	// ExitFreeFlight returns to path mode, restoring progress just below the
	// completion threshold so entry does not immediately re-trigger. No-op
	// in path mode.
	ExitFreeFlight()

	// Mode returns the currently authoritative mode.
	Mode() Mode

	// Update advances the authoritative subsystem by dt seconds. Call once
	// per frame, after input processing, before Pose.
	//
	// Parameters:
	//   - dt: elapsed frame time in seconds
	Update(dt float32)

	// Pose computes the frame's camera pose from the authoritative
	// subsystem. Pull-based; nothing is cached between frames.
	//
	// Returns:
	//   - common.Pose: the authoritative pose
	Pose() common.Pose

	// Controller returns the underlying path controller.
	Controller() path.Controller

	// Simulator returns the current free-flight simulator, or nil before the
	// first entry into free-flight.
	Simulator() flight.Simulator

	// Set writes one tuning value by its flat key (e.g. "scroll.maxStep",
	// "flight.baseSpeed", "joystick.deadZone"). Unknown keys are rejected.
	//
	// Parameters:
	//   - key: flat configuration key
	//   - value: the new value
	//
	// Returns:
	//   - bool: true if the key was recognized and applied
	Set(key string, value float32) bool
}

// rigImpl is the single implementation of Rig.
type rigImpl struct {
	mu *sync.Mutex

	controller path.Controller
	sim        flight.Simulator

	heightAt  flight.HeightFunc
	flightCfg flight.Config
	// newSimulator builds a fresh simulator on every free-flight entry;
	// replaceable for tests.
	newSimulator func() flight.Simulator

	mode Mode

	// frozenSegment is the path segment reported while free-flight owns the
	// pose, so consumers keying UI off the segment index stay stable.
	frozenSegment int

	// exitBackoff is how far below the completion threshold progress is
	// restored on exit, in progress units.
	exitBackoff float32

	// pendingEnter is set by the controller's completion callback (which
	// runs while Update holds the rig lock) and consumed in the same Update.
	pendingEnter bool
}

var _ Rig = &rigImpl{}

// NewRig creates the mode coordinator over a path controller. Starts in path
// mode at the controller's current progress.
//
// Parameters:
//   - controller: the path controller to coordinate (must not be nil)
//   - options: functional options to configure the rig
//
// Returns:
//   - Rig: the newly created rig
func NewRig(controller path.Controller, options ...RigOption) Rig {
	r := &rigImpl{
		mu:          &sync.Mutex{},
		controller:  controller,
		flightCfg:   flight.DefaultConfig(),
		exitBackoff: 0.005,
	}
	for _, opt := range options {
		opt(r)
	}
	if r.newSimulator == nil {
		r.newSimulator = func() flight.Simulator {
			return flight.NewSimulator(
				flight.WithConfig(r.flightCfg),
				flight.WithHeightFunc(r.heightAt),
			)
		}
	}
	// The callback runs synchronously inside the controller's Advance or
	// ApplyWheel, which this rig only invokes while holding its own lock, so
	// it must not re-lock; it flags the transition for the same call to apply.
	controller.SetOnComplete(func() {
		r.pendingEnter = true
	})
	return r
}

func (r *rigImpl) ApplyWheel(delta float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.mode {
	case ModeFreeFly:
		// Backward scroll exits free-flight, but only before the user has
		// dragged; dragging marks intentional exploration.
		if delta < 0 && r.sim != nil && !r.sim.HasDragged() {
			r.exitFreeFlightLocked()
		}
	default:
		r.controller.ApplyWheel(delta)
		r.consumePendingEnterLocked()
	}
}

func (r *rigImpl) StartDrag(x, y float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == ModeFreeFly && r.sim != nil {
		r.sim.StartDrag(x, y)
	}
}

func (r *rigImpl) Drag(x, y float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == ModeFreeFly && r.sim != nil {
		r.sim.Drag(x, y)
	}
}

func (r *rigImpl) EndDrag() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == ModeFreeFly && r.sim != nil {
		r.sim.EndDrag()
	}
}

func (r *rigImpl) SetProgress(t float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controller.SetProgress(t)
}

func (r *rigImpl) JumpToWaypoint(index int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.controller.JumpToWaypoint(index)
}

func (r *rigImpl) EnterFreeFlight() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == ModeFreeFly {
		return
	}
	r.enterFreeFlightLocked(r.controller.PoseAtEnd())
}

func (r *rigImpl) SkipToFreeFlight() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == ModeFreeFly {
		return
	}
	r.enterFreeFlightLocked(r.controller.Pose())
}

func (r *rigImpl) ExitFreeFlight() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode != ModeFreeFly {
		return
	}
	r.exitFreeFlightLocked()
}

// enterFreeFlightLocked performs the path -> freeFly handoff: the controller
// halts atomically (velocity, tasks, timers all cleared), a fresh simulator
// is seeded from the given pose, and free-flight becomes authoritative.
// Caller must hold the mutex.
func (r *rigImpl) enterFreeFlightLocked(seed common.Pose) {
	r.pendingEnter = false
	r.controller.Halt()
	r.frozenSegment = r.controller.Segment()
	r.sim = r.newSimulator()
	r.sim.SeedFromPose(seed)
	r.mode = ModeFreeFly
	log.Printf("[Rig] mode -> %s (seeded at %.2f, %.2f, %.2f)",
		r.mode, seed.Position.X, seed.Position.Y, seed.Position.Z)
}

// exitFreeFlightLocked performs the freeFly -> path handoff. Progress is
// restored just below the completion threshold so the completion does not
// immediately re-fire; the simulator is retained, frozen, for inspection.
// Caller must hold the mutex.
func (r *rigImpl) exitFreeFlightLocked() {
	threshold := r.controller.Mapping().CompleteThreshold
	r.controller.SetProgress(threshold - r.exitBackoff)
	r.mode = ModePath
	log.Printf("[Rig] mode -> %s (progress %.4f)", r.mode, r.controller.Progress())
}

// consumePendingEnterLocked applies a completion-triggered transition flagged
// by the controller callback. Caller must hold the mutex.
func (r *rigImpl) consumePendingEnterLocked() {
	if !r.pendingEnter {
		return
	}
	r.pendingEnter = false
	if r.mode != ModePath {
		return
	}
	r.enterFreeFlightLocked(r.controller.PoseAtEnd())
}

func (r *rigImpl) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *rigImpl) Update(dt float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.mode {
	case ModeFreeFly:
		if r.sim != nil {
			r.sim.Update(dt)
		}
	default:
		r.controller.Advance(dt)
		r.consumePendingEnterLocked()
	}
}

func (r *rigImpl) Pose() common.Pose {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == ModeFreeFly && r.sim != nil {
		pose := r.sim.Pose()
		pose.Segment = r.frozenSegment
		return pose
	}
	return r.controller.Pose()
}

func (r *rigImpl) Controller() path.Controller {
	return r.controller
}

func (r *rigImpl) Simulator() flight.Simulator {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sim
}
