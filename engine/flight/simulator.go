// Package flight implements the free-flight simulator: a per-frame integrator
// that turns joystick-style drag input into damped yaw/pitch/speed motion
// with terrain-following altitude control.
package flight

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/flyby/common"
)

// HeightFunc is the terrain oracle: the ground height at a horizontal
// position. Implementations must be O(1) and side-effect free; the simulator
// calls it several times per frame for the lookahead scan.
type HeightFunc func(x, z float32) float32

// JoystickConfig maps a screen-space drag vector onto turn and thrust
// commands.
type JoystickConfig struct {
	// Radius is the drag distance, in pixels, that saturates the stick.
	Radius float32

	// DeadZone is the normalized magnitude below which input is treated as
	// centered and the craft holds a small idle forward thrust.
	DeadZone float32

	// MinStrength floors the response so any deflection past the dead zone
	// produces usable authority.
	MinStrength float32

	// StrengthPower shapes the response curve (norm^power).
	StrengthPower float32

	// StrengthScale multiplies the shaped strength.
	StrengthScale float32

	// NeutralBand is the vertical-axis band around zero within which thrust
	// snaps to ForwardBias, so near-centered input still flies forward.
	NeutralBand float32

	// ForwardBias is the thrust substituted inside the neutral band.
	ForwardBias float32

	// IdleThrust is the forward thrust fraction held while the stick is
	// centered or released.
	IdleThrust float32
}

// LookaheadConfig controls the forward terrain height scan.
type LookaheadConfig struct {
	// Samples is the number of points scanned ahead along the horizontal
	// forward direction. Zero disables the scan.
	Samples int

	// Time sizes the scan distance as speed * Time seconds of travel.
	Time float32

	// MinDistance floors the scan distance so slow flight still sees
	// upcoming terrain.
	MinDistance float32

	// Blend interpolates between reacting only to the current ground (0)
	// and fully pre-empting the highest upcoming sample (1).
	Blend float32
}

// Config carries every tuning constant of the simulator. All fields are
// hot-reloadable via SetConfig.
type Config struct {
	// TurnResponse, PitchResponse, SpeedResponse, and AltitudeResponse are
	// exponential damping constants (1/seconds) for the respective axes.
	TurnResponse     float32
	PitchResponse    float32
	SpeedResponse    float32
	AltitudeResponse float32

	// YawRateMax and PitchRateMax clamp the damped turn rates, in radians
	// per second.
	YawRateMax   float32
	PitchRateMax float32

	// PitchMin and PitchMax clamp the integrated pitch, in radians.
	PitchMin float32
	PitchMax float32

	// PitchBias is a pitch value the craft drifts toward (the stylized
	// constant downward look); PitchBiasResponse is its damping constant,
	// 0 disables the drift.
	PitchBias         float32
	PitchBiasResponse float32

	// BaseSpeed is the full-thrust speed in world units per second.
	BaseSpeed float32

	// AltitudeOffset is the height held above the blended terrain sample.
	AltitudeOffset float32

	// MaxDt clamps per-frame delta time before integration so a dt spike
	// (tab backgrounding, debugger pause) cannot blow up the damping.
	MaxDt float32

	Joystick  JoystickConfig
	Lookahead LookaheadConfig
}

// DefaultConfig returns the default flight tuning.
func DefaultConfig() Config {
	return Config{
		TurnResponse:      6.0,
		PitchResponse:     6.0,
		SpeedResponse:     1.8,
		AltitudeResponse:  2.4,
		YawRateMax:        1.4,
		PitchRateMax:      0.9,
		PitchMin:          -1.2,
		PitchMax:          1.2,
		PitchBias:         -0.12,
		PitchBiasResponse: 0.6,
		BaseSpeed:         24,
		AltitudeOffset:    6,
		MaxDt:             0.1,
		Joystick: JoystickConfig{
			Radius:        140,
			DeadZone:      0.06,
			MinStrength:   0.18,
			StrengthPower: 1.6,
			StrengthScale: 1.0,
			NeutralBand:   0.22,
			ForwardBias:   0.6,
			IdleThrust:    0.25,
		},
		Lookahead: LookaheadConfig{
			Samples:     5,
			Time:        1.5,
			MinDistance: 30,
			Blend:       0.65,
		},
	}
}

// Simulator integrates free-flight motion once per frame. All methods are
// safe for concurrent use; pointer callbacks and the tick goroutine race on
// it by design.
type Simulator interface {
	// SeedFromPose initializes position, orientation (decomposed into
	// yaw/pitch), and fov from a path pose so the handoff between modes has
	// no visible discontinuity. Speed, turn rates, and drag state reset.
	//
	// Parameters:
	//   - pose: the pose to continue from
	SeedFromPose(pose common.Pose)

	// StartDrag begins a joystick gesture: the coordinates become the stick
	// origin for subsequent Drag calls.
	//
	// Parameters:
	//   - x, y: pointer position in screen-space pixels
	StartDrag(x, y float32)

	// Drag updates the stick deflection relative to the origin. Ignored when
	// no gesture is active.
	//
	// Parameters:
	//   - x, y: pointer position in screen-space pixels
	Drag(x, y float32)

	// EndDrag releases the stick; the craft eases back to idle cruise.
	EndDrag()

	// Dragging reports whether a gesture is currently active.
	Dragging() bool

	// HasDragged reports whether any gesture occurred since the last seed.
	// The mode coordinator uses this to lock out scroll-triggered exit once
	// the user has started exploring intentionally.
	HasDragged() bool

	// Update advances the simulation by dt seconds: damps turn rates and
	// speed toward their targets, integrates yaw/pitch/position, and follows
	// the terrain with the lookahead altitude controller.
	//
	// Parameters:
	//   - dt: elapsed frame time in seconds (clamped to Config.MaxDt)
	Update(dt float32)

	// Pose returns the current camera pose.
	Pose() common.Pose

	// Position returns the current world-space position.
	Position() common.Vec3

	// Speed returns the current damped speed in world units per second.
	Speed() float32

	// YawPitch returns the current integrated angles in radians.
	YawPitch() (yaw, pitch float32)

	// Config and SetConfig read and hot-reload the full tuning set.
	Config() Config
	SetConfig(cfg Config)
}

// simulatorImpl is the single implementation of Simulator.
type simulatorImpl struct {
	mu *sync.Mutex

	cfg      Config
	heightAt HeightFunc

	position common.Vec3
	yaw      float32
	pitch    float32
	fov      float32

	speed       float32
	speedTarget float32

	// cmdYawRate/cmdPitchRate are the instantaneous targets from input;
	// yawRate/pitchRate are the damped actual rates.
	cmdYawRate   float32
	cmdPitchRate float32
	yawRate      float32
	pitchRate    float32

	dragging   bool
	hasDragged bool
	originX    float32
	originY    float32
	inputX     float32
	inputY     float32
}

var _ Simulator = &simulatorImpl{}

// NewSimulator creates a free-flight simulator with default tuning. Without a
// height function (WithHeightFunc) the altitude controller is disabled and
// the craft flies ballistically along its pitched forward vector.
//
// Parameters:
//   - options: functional options to configure the simulator
//
// Returns:
//   - Simulator: the newly created simulator
func NewSimulator(options ...SimulatorOption) Simulator {
	s := &simulatorImpl{
		mu:  &sync.Mutex{},
		cfg: DefaultConfig(),
		fov: common.DefaultFov,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *simulatorImpl) SeedFromPose(pose common.Pose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = pose.Position
	s.yaw, s.pitch = pose.Orientation.YawPitch()
	s.fov = pose.Fov
	s.speed = 0
	s.speedTarget = 0
	s.cmdYawRate = 0
	s.cmdPitchRate = 0
	s.yawRate = 0
	s.pitchRate = 0
	s.dragging = false
	s.hasDragged = false
	s.inputX = 0
	s.inputY = 0
}

func (s *simulatorImpl) StartDrag(x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = true
	s.hasDragged = true
	s.originX = x
	s.originY = y
	s.inputX = 0
	s.inputY = 0
}

func (s *simulatorImpl) Drag(x, y float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dragging {
		return
	}
	s.inputX = x - s.originX
	s.inputY = y - s.originY
}

func (s *simulatorImpl) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = false
	s.inputX = 0
	s.inputY = 0
}

func (s *simulatorImpl) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

func (s *simulatorImpl) HasDragged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasDragged
}

func (s *simulatorImpl) Update(dt float32) {
	if dt <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if dt > s.cfg.MaxDt {
		dt = s.cfg.MaxDt
	}

	s.applyJoystickLocked()

	// Damp actual rates and speed toward their command targets, clamping
	// before integration so a dt spike can never overshoot the maxima.
	s.yawRate = common.Clamp(
		common.Damp(s.yawRate, s.cmdYawRate, s.cfg.TurnResponse, dt),
		-s.cfg.YawRateMax, s.cfg.YawRateMax,
	)
	s.pitchRate = common.Clamp(
		common.Damp(s.pitchRate, s.cmdPitchRate, s.cfg.PitchResponse, dt),
		-s.cfg.PitchRateMax, s.cfg.PitchRateMax,
	)
	s.speed = common.Damp(s.speed, s.speedTarget, s.cfg.SpeedResponse, dt)

	// Integrate attitude; pitch drifts toward its bias with its own damping.
	s.yaw += s.yawRate * dt
	s.pitch = common.Clamp(s.pitch+s.pitchRate*dt, s.cfg.PitchMin, s.cfg.PitchMax)
	if s.cfg.PitchBiasResponse > 0 {
		s.pitch = common.Clamp(
			common.Damp(s.pitch, s.cfg.PitchBias, s.cfg.PitchBiasResponse, dt),
			s.cfg.PitchMin, s.cfg.PitchMax,
		)
	}

	forward := common.ForwardFromYawPitch(s.yaw, s.pitch)
	s.position = s.position.Add(forward.Scale(s.speed * dt))

	s.followTerrainLocked(dt)
}

// applyJoystickLocked recomputes command targets from the current stick
// deflection. Caller must hold the mutex.
func (s *simulatorImpl) applyJoystickLocked() {
	j := s.cfg.Joystick

	if !s.dragging {
		s.cmdYawRate = 0
		s.speedTarget = s.cfg.BaseSpeed * j.IdleThrust
		return
	}

	dx, dy := s.inputX, s.inputY
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length > j.Radius {
		scale := j.Radius / length
		dx *= scale
		dy *= scale
		length = j.Radius
	}

	norm := float32(0)
	if j.Radius > 0 {
		norm = length / j.Radius
	}
	if norm < j.DeadZone {
		s.cmdYawRate = 0
		s.speedTarget = s.cfg.BaseSpeed * j.IdleThrust
		return
	}

	strength := float32(math.Pow(float64(norm), float64(j.StrengthPower)))
	if strength < j.MinStrength {
		strength = j.MinStrength
	}
	strength *= j.StrengthScale

	unitX, unitY := dx/length, dy/length
	s.cmdYawRate = -s.cfg.YawRateMax * unitX * strength

	// Screen-space up is negative Y, so pulling up thrusts forward. Inside
	// the neutral band the thrust snaps to the forward bias so near-centered
	// input still flies forward.
	thrust := common.Clamp(-unitY, -1, 1)
	if float32(math.Abs(float64(thrust))) < j.NeutralBand {
		thrust = j.ForwardBias
	}
	s.speedTarget = s.cfg.BaseSpeed * strength * thrust
}

// followTerrainLocked damps altitude toward the blended terrain target:
// current ground height blended with the highest height scanned ahead along
// the horizontal forward direction, plus the fixed offset.
// Caller must hold the mutex.
func (s *simulatorImpl) followTerrainLocked(dt float32) {
	if s.heightAt == nil {
		return
	}
	la := s.cfg.Lookahead

	ground := s.heightAt(s.position.X, s.position.Z)
	ahead := ground
	if la.Samples > 0 {
		distance := s.speed * la.Time
		if distance < la.MinDistance {
			distance = la.MinDistance
		}
		forward := common.ForwardFromYawPitch(s.yaw, 0)
		for i := 1; i <= la.Samples; i++ {
			d := distance * float32(i) / float32(la.Samples)
			h := s.heightAt(s.position.X+forward.X*d, s.position.Z+forward.Z*d)
			if h > ahead {
				ahead = h
			}
		}
	}

	target := common.Lerp(ground, ahead, common.Clamp(la.Blend, 0, 1)) + s.cfg.AltitudeOffset
	s.position.Y = common.Damp(s.position.Y, target, s.cfg.AltitudeResponse, dt)
}

func (s *simulatorImpl) Pose() common.Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return common.Pose{
		Position:    s.position,
		Orientation: common.QuatFromYawPitch(s.yaw, s.pitch),
		Fov:         s.fov,
		Segment:     -1,
	}
}

func (s *simulatorImpl) Position() common.Vec3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *simulatorImpl) Speed() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

func (s *simulatorImpl) YawPitch() (yaw, pitch float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.yaw, s.pitch
}

func (s *simulatorImpl) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *simulatorImpl) SetConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}
