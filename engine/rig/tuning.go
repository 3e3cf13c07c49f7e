package rig

import "log"

// Set implements the flat tuning surface. Keys are grouped by prefix:
// "scroll." for wheel mapping, "anchor." for snap behavior,
// "sensitivity." for scroll sensitivity, "flight." for the simulator,
// "joystick." and "lookahead." for its sub-configs, and "rig." for the
// coordinator itself. Boolean fields treat any nonzero value as true.
func (r *rigImpl) Set(key string, value float32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.setControllerLocked(key, value) || r.setFlightLocked(key, value) || r.setRigLocked(key, value) {
		return true
	}
	log.Printf("[Rig] unknown tuning key %q", key)
	return false
}

func (r *rigImpl) setControllerLocked(key string, value float32) bool {
	switch key {
	case "sensitivity.globalScale":
		cfg := r.controller.Sensitivity()
		cfg.GlobalScale = value
		r.controller.SetSensitivity(cfg)
	case "scroll.baseStep", "scroll.scaleFactor", "scroll.power", "scroll.minImpulse",
		"scroll.maxStep", "scroll.immediateRatio", "scroll.impulseScale", "scroll.maxVelocity",
		"scroll.decayDuration", "scroll.glideScale", "scroll.completeThreshold":
		cfg := r.controller.Mapping()
		switch key {
		case "scroll.baseStep":
			cfg.BaseStep = value
		case "scroll.scaleFactor":
			cfg.ScaleFactor = value
		case "scroll.power":
			cfg.Power = value
		case "scroll.minImpulse":
			cfg.MinImpulse = value
		case "scroll.maxStep":
			cfg.MaxStep = value
		case "scroll.immediateRatio":
			cfg.ImmediateRatio = value
		case "scroll.impulseScale":
			cfg.ImpulseScale = value
		case "scroll.maxVelocity":
			cfg.MaxVelocity = value
		case "scroll.decayDuration":
			cfg.DecayDuration = value
		case "scroll.glideScale":
			cfg.GlideScale = value
		case "scroll.completeThreshold":
			cfg.CompleteThreshold = value
		}
		r.controller.SetMapping(cfg)
	case "anchor.enabled", "anchor.snapRadius", "anchor.snapVelocityThreshold",
		"anchor.snapDuration", "anchor.dwell", "anchor.releaseGrace":
		cfg := r.controller.Anchors()
		switch key {
		case "anchor.enabled":
			cfg.Enabled = value != 0
		case "anchor.snapRadius":
			cfg.SnapRadius = value
		case "anchor.snapVelocityThreshold":
			cfg.SnapVelocityThreshold = value
		case "anchor.snapDuration":
			cfg.SnapDuration = value
		case "anchor.dwell":
			cfg.Dwell = value
		case "anchor.releaseGrace":
			cfg.ReleaseGrace = value
		}
		r.controller.SetAnchors(cfg)
	default:
		return false
	}
	return true
}

func (r *rigImpl) setFlightLocked(key string, value float32) bool {
	cfg := &r.flightCfg
	switch key {
	case "flight.turnResponse":
		cfg.TurnResponse = value
	case "flight.pitchResponse":
		cfg.PitchResponse = value
	case "flight.speedResponse":
		cfg.SpeedResponse = value
	case "flight.altitudeResponse":
		cfg.AltitudeResponse = value
	case "flight.yawRateMax":
		cfg.YawRateMax = value
	case "flight.pitchRateMax":
		cfg.PitchRateMax = value
	case "flight.pitchMin":
		cfg.PitchMin = value
	case "flight.pitchMax":
		cfg.PitchMax = value
	case "flight.pitchBias":
		cfg.PitchBias = value
	case "flight.pitchBiasResponse":
		cfg.PitchBiasResponse = value
	case "flight.baseSpeed":
		cfg.BaseSpeed = value
	case "flight.altitudeOffset":
		cfg.AltitudeOffset = value
	case "flight.maxDt":
		cfg.MaxDt = value
	case "joystick.radius":
		cfg.Joystick.Radius = value
	case "joystick.deadZone":
		cfg.Joystick.DeadZone = value
	case "joystick.minStrength":
		cfg.Joystick.MinStrength = value
	case "joystick.strengthPower":
		cfg.Joystick.StrengthPower = value
	case "joystick.strengthScale":
		cfg.Joystick.StrengthScale = value
	case "joystick.neutralBand":
		cfg.Joystick.NeutralBand = value
	case "joystick.forwardBias":
		cfg.Joystick.ForwardBias = value
	case "joystick.idleThrust":
		cfg.Joystick.IdleThrust = value
	case "lookahead.samples":
		cfg.Lookahead.Samples = int(value)
	case "lookahead.time":
		cfg.Lookahead.Time = value
	case "lookahead.minDistance":
		cfg.Lookahead.MinDistance = value
	case "lookahead.blend":
		cfg.Lookahead.Blend = value
	default:
		return false
	}
	// Live simulator picks the change up immediately.
	if r.sim != nil {
		r.sim.SetConfig(r.flightCfg)
	}
	return true
}

func (r *rigImpl) setRigLocked(key string, value float32) bool {
	switch key {
	case "rig.exitBackoff":
		r.exitBackoff = value
	default:
		return false
	}
	return true
}
