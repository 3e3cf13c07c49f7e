package path

import (
	"github.com/Carmen-Shannon/flyby/common"
)

// SegmentAt maps a progress value onto the path's equal-width segments.
// A path of N waypoints has N-1 segments; the returned index is always
// clamped to [0, N-2] and the local fraction to [0, 1], so t values at or
// beyond the boundaries land on the first or last segment.
//
// Parameters:
//   - t: global progress in [0, 1] (values outside are clamped by effect)
//   - count: number of waypoints on the path
//
// Returns:
//   - int: segment index in [0, count-2] (0 when count < 2)
//   - float32: local fraction within the segment in [0, 1]
func SegmentAt(t float32, count int) (int, float32) {
	if count < 2 {
		return 0, 0
	}
	scaled := t * float32(count-1)
	index := int(scaled)
	if index < 0 {
		index = 0
	}
	if index > count-2 {
		index = count - 2
	}
	frac := common.Clamp(scaled-float32(index), 0, 1)
	return index, frac
}

// PoseAt samples the path at progress t.
//
// The active segment's local fraction is shaped by the destination waypoint's
// easing. Position and fov interpolate linearly in the eased fraction. The
// orientation interpolates by slerp when both endpoints were authored as
// yaw/pitch; when either endpoint is a look-at, the look targets interpolate
// linearly instead and a fresh look-at orientation is built from the
// interpolated camera position toward the interpolated target, which keeps
// the framing correct mid-segment.
//
// PoseAt is pure and deterministic: it never clamps t (callers do) and holds
// no mutable state. Degenerate paths return a defined pose: a single waypoint
// is returned unconditionally and an empty path yields the neutral pose.
//
// Parameters:
//   - t: global progress, expected in [0, 1]
//
// Returns:
//   - common.Pose: the interpolated pose
func (p *Path) PoseAt(t float32) common.Pose {
	switch len(p.waypoints) {
	case 0:
		pose := common.NeutralPose()
		pose.Fov = p.defaultFov
		return pose
	case 1:
		r := p.resolved[0]
		return common.Pose{
			Position:    p.waypoints[0].Position,
			Orientation: r.quat,
			Fov:         r.fov,
			Segment:     0,
		}
	}

	index, frac := SegmentAt(t, len(p.waypoints))
	a, b := p.resolved[index], p.resolved[index+1]
	u := b.ease(frac)

	pos := common.Lerp3(p.waypoints[index].Position, p.waypoints[index+1].Position, u)

	var orient common.Quat
	if a.lookAt || b.lookAt {
		target := common.Lerp3(a.target, b.target, u)
		orient = common.LookAtQuat(pos, target)
	} else {
		orient = common.Slerp(a.quat, b.quat, u)
	}

	return common.Pose{
		Position:    pos,
		Orientation: orient,
		Fov:         common.Lerp(a.fov, b.fov, u),
		Segment:     index,
	}
}
