// Package path implements the waypoint path: authored keyframes, the pose
// interpolator that maps a progress scalar onto them, the scroll-driven
// controller that owns that scalar, and the procedural arch generator.
package path

import (
	"github.com/Carmen-Shannon/flyby/common"
	"github.com/Carmen-Shannon/flyby/engine/easing"
)

// OrientationKind discriminates the two authoring forms of a waypoint
// orientation.
type OrientationKind uint8

const (
	// OrientYawPitch orients the camera by explicit yaw/pitch angles.
	OrientYawPitch OrientationKind = iota
	// OrientLookAt orients the camera toward a fixed world-space point.
	OrientLookAt
)

// Orientation is the tagged union of the two authoring forms. Authors build
// one with YawPitch or LookAt; the path resolves it into a uniform internal
// representation once at load time so interpolation never branches on the
// authoring form.
type Orientation struct {
	// Kind selects which fields below are meaningful.
	Kind OrientationKind

	// Yaw and Pitch are radians, used when Kind is OrientYawPitch.
	Yaw, Pitch float32

	// Target is a world-space point, used when Kind is OrientLookAt.
	Target common.Vec3
}

// YawPitch builds an orientation from explicit angles.
//
// Parameters:
//   - yaw: horizontal angle in radians (0 = facing -Z)
//   - pitch: vertical angle in radians (positive looks up)
//
// Returns:
//   - Orientation: the yaw/pitch variant
func YawPitch(yaw, pitch float32) Orientation {
	return Orientation{Kind: OrientYawPitch, Yaw: yaw, Pitch: pitch}
}

// LookAt builds an orientation that keeps a world-space point framed.
//
// Parameters:
//   - target: the point to face
//
// Returns:
//   - Orientation: the look-at variant
func LookAt(target common.Vec3) Orientation {
	return Orientation{Kind: OrientLookAt, Target: target}
}

// Waypoint is one immutable authored keyframe along the path. Waypoints form
// an ordered, append-only sequence; the arch generator may append derived
// waypoints at runtime but never mutates existing ones.
type Waypoint struct {
	// Position is the camera position at this keyframe.
	Position common.Vec3

	// Orientation is either explicit yaw/pitch angles or a look-at target.
	Orientation Orientation

	// Fov is the vertical field of view in degrees. Zero inherits the
	// path's default.
	Fov float32

	// Ease names the easing applied over the segment arriving at this
	// waypoint (see easing.Resolve). Empty means linear.
	Ease string

	// Tension is the optional tension parameter for parameterized easings.
	Tension float32

	// Name is a stable identifier used for lookups and logging. Optional.
	Name string

	// Anchor marks the waypoint as a snap-stop for the controller.
	Anchor bool
}

// resolvedWaypoint is the uniform interpolation form computed once at load
// time: a quaternion, a virtual look target, the inherited fov, and the
// resolved easing function. PoseAt only touches these.
type resolvedWaypoint struct {
	quat   common.Quat
	target common.Vec3
	lookAt bool
	fov    float32
	ease   easing.Func
}

// Path holds the ordered waypoint sequence and its resolved interpolation
// data. A Path is plain data: callers that mutate it concurrently with
// sampling must serialize access (the controller and rig do).
type Path struct {
	waypoints  []Waypoint
	resolved   []resolvedWaypoint
	defaultFov float32
}

// PathOption is a functional option for configuring a Path.
type PathOption func(*Path)

// WithDefaultFov sets the field of view inherited by waypoints that do not
// carry one.
//
// Parameters:
//   - fov: vertical field of view in degrees
//
// Returns:
//   - PathOption: option function to apply
func WithDefaultFov(fov float32) PathOption {
	return func(p *Path) {
		p.defaultFov = fov
	}
}

// NewPath creates a Path from an ordered waypoint sequence and resolves every
// orientation into its uniform internal form.
//
// Parameters:
//   - waypoints: ordered keyframes (may be empty; interpolation then yields a neutral pose)
//   - options: functional options to configure the path
//
// Returns:
//   - *Path: the resolved path
func NewPath(waypoints []Waypoint, options ...PathOption) *Path {
	p := &Path{
		waypoints:  append([]Waypoint(nil), waypoints...),
		defaultFov: common.DefaultFov,
	}
	for _, opt := range options {
		opt(p)
	}
	p.resolved = make([]resolvedWaypoint, len(p.waypoints))
	for i, w := range p.waypoints {
		p.resolved[i] = p.resolve(w)
	}
	return p
}

// resolve converts an authored waypoint into its uniform interpolation form.
// Yaw/pitch waypoints get a synthetic look target one unit along their
// forward direction so mixed segments can interpolate targets uniformly.
func (p *Path) resolve(w Waypoint) resolvedWaypoint {
	r := resolvedWaypoint{
		fov:  common.Coalesce(w.Fov, p.defaultFov),
		ease: easing.Resolve(w.Ease, w.Tension),
	}
	switch w.Orientation.Kind {
	case OrientLookAt:
		r.lookAt = true
		r.target = w.Orientation.Target
		r.quat = common.LookAtQuat(w.Position, w.Orientation.Target)
	default:
		r.quat = common.QuatFromYawPitch(w.Orientation.Yaw, w.Orientation.Pitch)
		r.target = w.Position.Add(common.ForwardFromYawPitch(w.Orientation.Yaw, w.Orientation.Pitch))
	}
	return r
}

// Len returns the number of waypoints on the path.
func (p *Path) Len() int {
	return len(p.waypoints)
}

// At returns the waypoint at index i. Panics on out-of-range indices, like a
// slice access; use Len to bound lookups.
func (p *Path) At(i int) Waypoint {
	return p.waypoints[i]
}

// DefaultFov returns the fov inherited by waypoints that do not carry one.
func (p *Path) DefaultFov() float32 {
	return p.defaultFov
}

// IndexOf returns the index of the first waypoint with the given name, or -1
// when no waypoint matches. Callers must tolerate -1 as a valid "no match"
// state; dependent features (snapping, arch regeneration) disable themselves
// rather than fault.
//
// Parameters:
//   - name: the waypoint name to look up
//
// Returns:
//   - int: the waypoint index, or -1 if not found
func (p *Path) IndexOf(name string) int {
	if name == "" {
		return -1
	}
	for i, w := range p.waypoints {
		if w.Name == name {
			return i
		}
	}
	return -1
}

// ProgressOf returns the progress value t at which the given waypoint index
// sits, i.e. index/(N-1). Degenerate paths (fewer than 2 waypoints) map every
// index to 0.
//
// Parameters:
//   - index: waypoint index
//
// Returns:
//   - float32: the waypoint's position in progress space, clamped to [0, 1]
func (p *Path) ProgressOf(index int) float32 {
	if len(p.waypoints) < 2 {
		return 0
	}
	return common.Clamp(float32(index)/float32(len(p.waypoints)-1), 0, 1)
}

// Append adds waypoints to the end of the path, resolving each one.
//
// Parameters:
//   - waypoints: the keyframes to append
func (p *Path) Append(waypoints ...Waypoint) {
	for _, w := range waypoints {
		p.waypoints = append(p.waypoints, w)
		p.resolved = append(p.resolved, p.resolve(w))
	}
}

// truncateAfter drops every waypoint after index, keeping [0, index].
func (p *Path) truncateAfter(index int) {
	if index < 0 || index >= len(p.waypoints)-1 {
		return
	}
	p.waypoints = p.waypoints[:index+1]
	p.resolved = p.resolved[:index+1]
}

// anchorAt reports whether the waypoint at index is a snap anchor.
func (p *Path) anchorAt(index int) bool {
	return index >= 0 && index < len(p.waypoints) && p.waypoints[index].Anchor
}
