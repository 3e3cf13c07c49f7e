package path

// ControllerOption is a functional option for configuring a Controller.
// Use the With* functions to create options.
type ControllerOption func(*pathControllerImpl)

// WithProgress sets the initial progress value, clamped to [0, 1].
//
// Parameters:
//   - t: initial progress
//
// Returns:
//   - ControllerOption: option function to apply
func WithProgress(t float32) ControllerOption {
	return func(c *pathControllerImpl) {
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		c.t = t
	}
}

// WithSensitivity sets the initial sensitivity configuration.
//
// Parameters:
//   - cfg: sensitivity settings
//
// Returns:
//   - ControllerOption: option function to apply
func WithSensitivity(cfg SensitivityConfig) ControllerOption {
	return func(c *pathControllerImpl) {
		c.sensitivity = cfg
	}
}

// WithMapping sets the initial wheel magnitude mapping.
//
// Parameters:
//   - cfg: magnitude mapping settings
//
// Returns:
//   - ControllerOption: option function to apply
func WithMapping(cfg MagnitudeConfig) ControllerOption {
	return func(c *pathControllerImpl) {
		c.mapping = cfg
	}
}

// WithAnchors sets the initial anchor snapping configuration.
//
// Parameters:
//   - cfg: anchor settings
//
// Returns:
//   - ControllerOption: option function to apply
func WithAnchors(cfg AnchorConfig) ControllerOption {
	return func(c *pathControllerImpl) {
		c.anchors = cfg
	}
}

// WithEnabled sets whether the controller starts out accepting input.
//
// Parameters:
//   - enabled: initial enabled state
//
// Returns:
//   - ControllerOption: option function to apply
func WithEnabled(enabled bool) ControllerOption {
	return func(c *pathControllerImpl) {
		c.enabled = enabled
	}
}
