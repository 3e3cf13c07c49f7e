package flight

import "github.com/Carmen-Shannon/flyby/common"

// SimulatorOption is a functional option for configuring a Simulator.
// Use the With* functions to create options.
type SimulatorOption func(*simulatorImpl)

// WithHeightFunc sets the terrain oracle consulted by the altitude
// controller. Without one, terrain following is disabled.
//
// Parameters:
//   - heightAt: ground height at a horizontal position (O(1), side-effect free)
//
// Returns:
//   - SimulatorOption: option function to apply
func WithHeightFunc(heightAt HeightFunc) SimulatorOption {
	return func(s *simulatorImpl) {
		s.heightAt = heightAt
	}
}

// WithConfig replaces the full tuning set.
//
// Parameters:
//   - cfg: flight tuning
//
// Returns:
//   - SimulatorOption: option function to apply
func WithConfig(cfg Config) SimulatorOption {
	return func(s *simulatorImpl) {
		s.cfg = cfg
	}
}

// WithStartPose seeds the simulator from a pose at construction time.
//
// Parameters:
//   - pose: the pose to start from
//
// Returns:
//   - SimulatorOption: option function to apply
func WithStartPose(pose common.Pose) SimulatorOption {
	return func(s *simulatorImpl) {
		s.position = pose.Position
		s.yaw, s.pitch = pose.Orientation.YawPitch()
		s.fov = pose.Fov
	}
}
