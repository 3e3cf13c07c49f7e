package path

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/flyby/common"
	"github.com/Carmen-Shannon/flyby/engine/easing"
	"github.com/Carmen-Shannon/flyby/engine/tween"
)

// velocityEpsilon is the settle threshold below which residual glide velocity
// is treated as zero and the controller reports itself idle.
const velocityEpsilon = 1e-4

// SensitivityConfig scales how strongly wheel input moves progress.
type SensitivityConfig struct {
	// GlobalScale multiplies every mapped step.
	GlobalScale float32

	// SegmentBoost adds a per-segment percentage boost on top of the global
	// scale, keyed by segment index. 25 means +25% while that segment is
	// active. Missing segments get no boost.
	SegmentBoost map[int]float32
}

// DefaultSensitivityConfig returns the default sensitivity settings.
func DefaultSensitivityConfig() SensitivityConfig {
	return SensitivityConfig{GlobalScale: 1.0}
}

// MagnitudeConfig maps raw wheel delta magnitudes onto progress steps and
// controls the glide that follows each step. All values are tuning defaults,
// hot-reloadable through the controller's setters.
type MagnitudeConfig struct {
	// BaseStep is the wheel delta corresponding to one nominal step
	// (120 matches conventional wheel notches).
	BaseStep float32

	// ScaleFactor converts normalized steps into progress units.
	ScaleFactor float32

	// Power shapes the magnitude response; values below 1 compress large
	// flick deltas, values above 1 exaggerate them.
	Power float32

	// MinImpulse and MaxStep clamp the mapped step in progress units.
	MinImpulse float32
	MaxStep    float32

	// ImmediateRatio is the fraction of the mapped step applied to progress
	// synchronously; the remainder becomes glide velocity.
	ImmediateRatio float32

	// ImpulseScale converts the residual step fraction into added velocity
	// (progress units/second per progress unit of residual).
	ImpulseScale float32

	// MaxVelocity clamps the glide velocity magnitude (progress units/second).
	MaxVelocity float32

	// DecayDuration is how long a fresh impulse's velocity takes to ease back
	// to exactly zero, in seconds.
	DecayDuration float32

	// GlideScale multiplies velocity during integration. Kept at 1 unless a
	// host wants global slow-motion.
	GlideScale float32

	// CompleteThreshold is the forward progress value at which the controller
	// reports path completion.
	CompleteThreshold float32
}

// DefaultMagnitudeConfig returns the default wheel-to-step mapping.
func DefaultMagnitudeConfig() MagnitudeConfig {
	return MagnitudeConfig{
		BaseStep:          120,
		ScaleFactor:       0.02,
		Power:             0.8,
		MinImpulse:        0.0005,
		MaxStep:           0.09,
		ImmediateRatio:    0.32,
		ImpulseScale:      2.0,
		MaxVelocity:       0.6,
		DecayDuration:     1.1,
		GlideScale:        1.0,
		CompleteThreshold: 0.999,
	}
}

// AnchorConfig controls snapping onto anchor waypoints.
type AnchorConfig struct {
	// Enabled gates the whole feature.
	Enabled bool

	// SnapRadius is how close (in progress units) an anchor ahead of travel
	// must be before it attracts progress.
	SnapRadius float32

	// SnapVelocityThreshold is the residual velocity magnitude below which a
	// snap may begin.
	SnapVelocityThreshold float32

	// SnapDuration is how long the snap tween takes to land exactly on the
	// anchor, in seconds.
	SnapDuration float32

	// Dwell is how long progress holds on the anchor after snapping, in
	// seconds.
	Dwell float32

	// ReleaseGrace is the window after leaving an anchor during which that
	// anchor cannot re-trap progress, in seconds.
	ReleaseGrace float32
}

// DefaultAnchorConfig returns the default snapping behavior (enabled).
func DefaultAnchorConfig() AnchorConfig {
	return AnchorConfig{
		Enabled:               true,
		SnapRadius:            0.02,
		SnapVelocityThreshold: 0.02,
		SnapDuration:          0.45,
		Dwell:                 0.6,
		ReleaseGrace:          0.5,
	}
}

// Controller owns the global progress scalar and turns wheel input into
// motion along the path: an immediate step, a decaying glide, and optional
// anchor snapping with dwell pauses. All methods are safe for concurrent use;
// input callbacks and the tick goroutine race on it by design.
type Controller interface {
	// ApplyWheel feeds one wheel event into the controller. The sign of
	// delta gives direction; the magnitude feeds the step mapping. No-op
	// while disabled, paused, or locked, or when delta is zero.
	//
	// Parameters:
	//   - delta: raw wheel delta (positive = forward along the path)
	//
	// Returns:
	//   - bool: true if the event was accepted and applied
	ApplyWheel(delta float32) bool

	// Advance integrates glide velocity, snap tweens, and dwell timers by dt
	// seconds. Call once per frame before sampling the pose. Idle controllers
	// (no velocity, no active task) return immediately.
	//
	// Parameters:
	//   - dt: elapsed frame time in seconds (callers clamp dt spikes)
	Advance(dt float32)

	// SetProgress repositions progress directly. Any glide, snap, or dwell
	// in flight is atomically canceled; out-of-range values clamp silently.
	//
	// Parameters:
	//   - t: the new progress value (clamped to [0, 1])
	SetProgress(t float32)

	// JumpToWaypoint repositions progress exactly onto a waypoint, canceling
	// in-flight motion like SetProgress.
	//
	// Parameters:
	//   - index: waypoint index
	//
	// Returns:
	//   - bool: false when the index is out of range (progress is unchanged)
	JumpToWaypoint(index int) bool

	// Halt atomically clears velocity, kills any in-flight decay or snap
	// task, and resets dwell and suppression timers, leaving progress where
	// it is. Used on mode handoff.
	Halt()

	// Progress returns the current progress value in [0, 1].
	Progress() float32

	// Velocity returns the current signed glide velocity in progress
	// units/second.
	Velocity() float32

	// Segment returns the index of the currently active segment.
	Segment() int

	// Active reports whether the controller still needs per-frame Advance
	// calls (non-zero velocity, or a decay/snap/dwell/grace task in flight).
	// Idle controllers can be skipped to avoid per-frame work.
	Active() bool

	// Pose samples the path at the current progress.
	Pose() common.Pose

	// PoseAtEnd samples the path at progress 1 (the final waypoint).
	PoseAtEnd() common.Pose

	// Path returns the underlying path.
	Path() *Path

	// SetEnabled, SetPaused, and SetLocked gate whether wheel input is
	// accepted. All three must allow input for ApplyWheel to act.
	SetEnabled(enabled bool)
	SetPaused(paused bool)
	SetLocked(locked bool)

	// Sensitivity and SetSensitivity read and hot-reload the sensitivity
	// configuration.
	Sensitivity() SensitivityConfig
	SetSensitivity(cfg SensitivityConfig)

	// Mapping and SetMapping read and hot-reload the wheel magnitude mapping.
	Mapping() MagnitudeConfig
	SetMapping(cfg MagnitudeConfig)

	// Anchors and SetAnchors read and hot-reload the anchor snapping config.
	Anchors() AnchorConfig
	SetAnchors(cfg AnchorConfig)

	// SetOnComplete registers the function called once when forward progress
	// crosses the completion threshold. The callback fires outside the
	// controller's lock; re-entrant calls are safe. Repositioning below the
	// threshold re-arms it.
	//
	// Parameters:
	//   - callback: function to call on completion (nil to disable)
	SetOnComplete(callback func())
}

// pathControllerImpl is the single implementation of Controller.
//
// Scroll lifecycle per event: Idle -> Stepping (immediate fraction applied
// synchronously) -> Gliding (residual velocity decaying under a tween) ->
// Idle. Anchor snapping interleaves as: Gliding -> Snapping (tween onto the
// anchor) -> Dwelling (hold) -> Grace (anchor suppressed) -> Idle.
type pathControllerImpl struct {
	mu *sync.Mutex

	path *Path

	t        float32
	velocity float32
	// direction is the sign of the last accepted wheel input; glide, snap
	// lookahead, and completion detection all read it.
	direction float32

	enabled bool
	paused  bool
	locked  bool

	sensitivity SensitivityConfig
	mapping     MagnitudeConfig
	anchors     AnchorConfig

	decay *tween.Task // velocity -> 0
	snap  *tween.Task // t -> anchor t

	snapTarget       int // anchor index being snapped to / dwelled on, -1 none
	dwellRemaining   float32
	graceRemaining   float32
	suppressedAnchor int // anchor index suppressed during the grace window, -1 none

	// generation is bumped by every atomic reposition (SetProgress, Jump,
	// Halt). Deferred completion notifications check it so a stale completion
	// from a superseded motion is a no-op.
	generation uint64

	completed  bool
	onComplete func()
}

var _ Controller = &pathControllerImpl{}

// NewController creates a path controller over the given path with default
// sensitivity, magnitude mapping, and anchor settings.
//
// Parameters:
//   - p: the waypoint path to drive (must not be nil)
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller, enabled and at progress 0
func NewController(p *Path, options ...ControllerOption) Controller {
	c := &pathControllerImpl{
		mu:               &sync.Mutex{},
		path:             p,
		enabled:          true,
		direction:        1,
		sensitivity:      DefaultSensitivityConfig(),
		mapping:          DefaultMagnitudeConfig(),
		anchors:          DefaultAnchorConfig(),
		snapTarget:       -1,
		suppressedAnchor: -1,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *pathControllerImpl) ApplyWheel(delta float32) bool {
	c.mu.Lock()
	if !c.enabled || c.paused || c.locked || delta == 0 {
		c.mu.Unlock()
		return false
	}

	dir := float32(1)
	if delta < 0 {
		dir = -1
	}
	c.direction = dir

	// Magnitude-normalized step, scaled by effective sensitivity.
	steps := float64(delta) / float64(c.mapping.BaseStep)
	if steps < 0 {
		steps = -steps
	}
	step := float32(math.Pow(steps, float64(c.mapping.Power))) * c.mapping.ScaleFactor
	seg, _ := SegmentAt(c.t, c.path.Len())
	effective := c.sensitivity.GlobalScale * (1 + c.sensitivity.SegmentBoost[seg]/100)
	step = common.Clamp(step*effective, c.mapping.MinImpulse, c.mapping.MaxStep)

	// Scrolling while dwelling releases the anchor immediately and opens the
	// grace window so it cannot re-trap this same input.
	if c.dwellRemaining > 0 {
		c.dwellRemaining = 0
		c.beginGrace(c.snapTarget)
	}
	if c.snap != nil {
		// Newer intent wins over an in-flight snap.
		c.snap.Cancel()
		c.snap = nil
		c.beginGrace(c.snapTarget)
	}
	c.snapTarget = -1

	// Immediate fraction moves progress synchronously; the residual becomes
	// glide velocity eased back to zero by a refreshed decay task.
	immediate := step * c.mapping.ImmediateRatio
	c.setProgressLocked(c.t + dir*immediate)

	residual := step * (1 - c.mapping.ImmediateRatio)
	c.velocity = common.Clamp(
		c.velocity+dir*residual*c.mapping.ImpulseScale,
		-c.mapping.MaxVelocity, c.mapping.MaxVelocity,
	)
	c.decay = tween.New(c.velocity, 0, c.mapping.DecayDuration, easing.OutQuad)

	notify := c.completionLocked()
	c.mu.Unlock()
	if notify != nil {
		notify()
	}
	return true
}

func (c *pathControllerImpl) Advance(dt float32) {
	if dt <= 0 {
		return
	}
	c.mu.Lock()

	if !c.activeLocked() {
		c.mu.Unlock()
		return
	}

	// Dwell: progress is held on the anchor; nothing else advances. When the
	// hold expires the grace window opens so the anchor cannot immediately
	// re-trap the resting progress value.
	if c.dwellRemaining > 0 {
		c.dwellRemaining -= dt
		if c.dwellRemaining <= 0 {
			c.dwellRemaining = 0
			c.beginGrace(c.snapTarget)
			c.snapTarget = -1
		}
		c.mu.Unlock()
		return
	}

	if c.graceRemaining > 0 {
		c.graceRemaining -= dt
		if c.graceRemaining <= 0 {
			c.graceRemaining = 0
			c.suppressedAnchor = -1
		}
	}

	// An in-flight snap owns progress until it lands exactly on the anchor.
	if c.snap != nil {
		value, done := c.snap.Advance(dt)
		c.t = common.Clamp(value, 0, 1)
		if done {
			c.snap = nil
			c.velocity = 0
			c.decay = nil
			c.dwellRemaining = c.anchors.Dwell
		}
		c.mu.Unlock()
		return
	}

	if c.decay != nil {
		value, done := c.decay.Advance(dt)
		c.velocity = value
		if done {
			c.decay = nil
		}
	}

	if c.velocity != 0 {
		c.setProgressLocked(c.t + c.velocity*c.mapping.GlideScale*dt)
	}

	c.evaluateSnapLocked()

	notify := c.completionLocked()
	c.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// evaluateSnapLocked starts a snap tween when the nearest anchor ahead of
// travel is within the snap radius and residual velocity has decayed below
// the snap threshold. Caller must hold the mutex.
func (c *pathControllerImpl) evaluateSnapLocked() {
	if !c.anchors.Enabled || c.snap != nil || c.dwellRemaining > 0 {
		return
	}
	// Snapping only concludes motion in progress; an idle controller parked
	// near an anchor must not creep onto it.
	moving := c.decay != nil || c.velocity != 0
	if !moving {
		return
	}
	if float32(math.Abs(float64(c.velocity))) >= c.anchors.SnapVelocityThreshold {
		return
	}

	index := c.nearestAnchorAheadLocked()
	if index < 0 {
		return
	}

	c.snapTarget = index
	c.velocity = 0
	c.decay = nil
	c.snap = tween.New(c.t, c.path.ProgressOf(index), c.anchors.SnapDuration, easing.InOutCubic)
}

// nearestAnchorAheadLocked finds the closest anchor waypoint in the travel
// direction within the snap radius, skipping the suppressed anchor. Returns
// -1 when none qualifies. Caller must hold the mutex.
func (c *pathControllerImpl) nearestAnchorAheadLocked() int {
	n := c.path.Len()
	if n < 2 {
		return -1
	}
	best := -1
	bestDist := c.anchors.SnapRadius
	for i := 0; i < n; i++ {
		if !c.path.anchorAt(i) || i == c.suppressedAnchor {
			continue
		}
		at := c.path.ProgressOf(i)
		dist := (at - c.t) * c.direction
		if dist < 0 || dist > bestDist {
			continue
		}
		best = i
		bestDist = dist
	}
	return best
}

// beginGrace opens the release-grace window suppressing the given anchor.
func (c *pathControllerImpl) beginGrace(anchor int) {
	if anchor < 0 {
		return
	}
	c.suppressedAnchor = anchor
	c.graceRemaining = c.anchors.ReleaseGrace
}

// setProgressLocked clamps and stores progress, zeroing velocity on boundary
// contact. Caller must hold the mutex.
func (c *pathControllerImpl) setProgressLocked(t float32) {
	clamped := common.Clamp(t, 0, 1)
	if clamped != t {
		c.velocity = 0
		if c.decay != nil {
			c.decay.Cancel()
			c.decay = nil
		}
	}
	c.t = clamped
}

// completionLocked latches the completion state and returns the callback to
// fire (outside the lock), or nil. The returned closure checks the reposition
// generation so a completion superseded by SetProgress/Jump is a no-op.
// Caller must hold the mutex.
func (c *pathControllerImpl) completionLocked() func() {
	if c.completed || c.onComplete == nil {
		return nil
	}
	if c.direction <= 0 || c.t < c.mapping.CompleteThreshold {
		return nil
	}
	c.completed = true
	gen := c.generation
	cb := c.onComplete
	return func() {
		c.mu.Lock()
		stale := c.generation != gen
		c.mu.Unlock()
		if !stale {
			cb()
		}
	}
}

// cancelMotionLocked implements the atomic cancellation contract: velocity,
// decay, snap, dwell, and suppression all reset together and the generation
// advances so stale completions are dropped. Caller must hold the mutex.
func (c *pathControllerImpl) cancelMotionLocked() {
	c.velocity = 0
	if c.decay != nil {
		c.decay.Cancel()
		c.decay = nil
	}
	if c.snap != nil {
		c.snap.Cancel()
		c.snap = nil
	}
	c.snapTarget = -1
	c.dwellRemaining = 0
	c.graceRemaining = 0
	c.suppressedAnchor = -1
	c.generation++
}

func (c *pathControllerImpl) SetProgress(t float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelMotionLocked()
	c.t = common.Clamp(t, 0, 1)
	// Re-arm (or pre-latch) completion relative to the new position so a
	// direct reposition never fires the callback on its own.
	c.completed = c.t >= c.mapping.CompleteThreshold
}

func (c *pathControllerImpl) JumpToWaypoint(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= c.path.Len() {
		return false
	}
	c.cancelMotionLocked()
	c.t = c.path.ProgressOf(index)
	c.completed = c.t >= c.mapping.CompleteThreshold
	return true
}

func (c *pathControllerImpl) Halt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelMotionLocked()
}

func (c *pathControllerImpl) Progress() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *pathControllerImpl) Velocity() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.velocity
}

func (c *pathControllerImpl) Segment() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	seg, _ := SegmentAt(c.t, c.path.Len())
	return seg
}

// activeLocked reports whether any motion or timer is pending.
// Caller must hold the mutex.
func (c *pathControllerImpl) activeLocked() bool {
	if c.decay != nil || c.snap != nil {
		return true
	}
	if c.dwellRemaining > 0 || c.graceRemaining > 0 {
		return true
	}
	return float32(math.Abs(float64(c.velocity))) > velocityEpsilon
}

func (c *pathControllerImpl) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

func (c *pathControllerImpl) Pose() common.Pose {
	c.mu.Lock()
	t := common.Clamp(c.t, 0, 1)
	c.mu.Unlock()
	return c.path.PoseAt(t)
}

func (c *pathControllerImpl) PoseAtEnd() common.Pose {
	return c.path.PoseAt(1)
}

func (c *pathControllerImpl) Path() *Path {
	return c.path
}

func (c *pathControllerImpl) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

func (c *pathControllerImpl) SetPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = paused
}

func (c *pathControllerImpl) SetLocked(locked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locked = locked
}

func (c *pathControllerImpl) Sensitivity() SensitivityConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sensitivity
}

func (c *pathControllerImpl) SetSensitivity(cfg SensitivityConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sensitivity = cfg
}

func (c *pathControllerImpl) Mapping() MagnitudeConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mapping
}

func (c *pathControllerImpl) SetMapping(cfg MagnitudeConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mapping = cfg
}

func (c *pathControllerImpl) Anchors() AnchorConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anchors
}

func (c *pathControllerImpl) SetAnchors(cfg AnchorConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchors = cfg
}

func (c *pathControllerImpl) SetOnComplete(callback func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onComplete = callback
}
