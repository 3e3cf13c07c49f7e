package common

// DefaultFov is the vertical field of view, in degrees, used when neither a
// waypoint nor the path supplies one.
const DefaultFov float32 = 55.0

// Pose is the per-frame output of the motion engine: everything a renderer
// needs to place its camera. Poses are computed on demand and never stored
// beyond one frame.
type Pose struct {
	// Position is the camera position in world space.
	Position Vec3

	// Orientation is the camera orientation as a unit quaternion.
	Orientation Quat

	// Fov is the vertical field of view in degrees.
	Fov float32

	// Segment is the index of the path segment the pose was sampled from.
	// In free-flight the coordinator reports the segment the path was frozen at.
	Segment int
}

// NeutralPose returns a defined, safe pose for degenerate inputs (an empty
// waypoint list): the origin, identity orientation, and the default fov.
func NeutralPose() Pose {
	return Pose{Orientation: QuatIdentity(), Fov: DefaultFov}
}
