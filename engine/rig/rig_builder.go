package rig

import "github.com/Carmen-Shannon/flyby/engine/flight"

// RigOption is a functional option for configuring a Rig.
// Use the With* functions to create options.
type RigOption func(*rigImpl)

// WithHeightFunc sets the terrain oracle handed to every free-flight
// simulator the rig creates.
//
// Parameters:
//   - heightAt: ground height at a horizontal position
//
// Returns:
//   - RigOption: option function to apply
func WithHeightFunc(heightAt flight.HeightFunc) RigOption {
	return func(r *rigImpl) {
		r.heightAt = heightAt
	}
}

// WithFlightConfig sets the tuning used for every free-flight simulator the
// rig creates.
//
// Parameters:
//   - cfg: flight tuning
//
// Returns:
//   - RigOption: option function to apply
func WithFlightConfig(cfg flight.Config) RigOption {
	return func(r *rigImpl) {
		r.flightCfg = cfg
	}
}

// WithExitBackoff sets how far below the completion threshold path progress
// is restored when leaving free-flight, in progress units.
//
// Parameters:
//   - backoff: distance below the completion threshold (must be > 0 to re-arm completion)
//
// Returns:
//   - RigOption: option function to apply
func WithExitBackoff(backoff float32) RigOption {
	return func(r *rigImpl) {
		r.exitBackoff = backoff
	}
}

// WithSimulatorFactory overrides how free-flight simulators are built on
// entry. Mostly useful for tests.
//
// Parameters:
//   - factory: returns a fresh simulator for each free-flight entry
//
// Returns:
//   - RigOption: option function to apply
func WithSimulatorFactory(factory func() flight.Simulator) RigOption {
	return func(r *rigImpl) {
		r.newSimulator = factory
	}
}
