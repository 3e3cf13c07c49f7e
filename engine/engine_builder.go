package engine

import (
	"time"

	"github.com/Carmen-Shannon/flyby/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// The rig and callbacks are updated at this rate.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - tps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(tps float64) EngineBuilderOption {
	return func(e *engine) {
		if tps <= 0 {
			tps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(tps)
	}
}

// WithMaxDt caps the delta time passed into the rig on any single tick, in
// seconds. Pass 0 to disable the cap.
//
// Parameters:
//   - maxDt: maximum per-tick delta time in seconds (default 0.1)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaxDt(maxDt float32) EngineBuilderOption {
	return func(e *engine) {
		e.maxDt = maxDt
	}
}

// WithWindow sets a custom configured window for the engine to use. Its
// scroll, drag, and key events are wired into the rig during construction.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}
