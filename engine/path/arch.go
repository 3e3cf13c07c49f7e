package path

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/flyby/common"
)

// ArchConfig describes the procedurally generated curved tail appended after
// a reference waypoint: a run of waypoints along the reference's yaw
// direction whose height follows a two-piece sine profile and whose pitch
// ramps up to a maximum at the profile's peak.
type ArchConfig struct {
	// Count is the number of waypoints to generate.
	Count int

	// Spacing is the horizontal distance between consecutive waypoints, in
	// world units.
	Spacing float32

	// Height is the peak elevation of the arch above the reference waypoint.
	Height float32

	// MaxUpDeg is the upward pitch, in degrees, reached at the peak.
	MaxUpDeg float32

	// PeakAt is the 1-based index within the generated run where the profile
	// peaks. Values outside [1, Count] are clamped.
	PeakAt int
}

// DefaultArchConfig returns the default arch shape.
func DefaultArchConfig() ArchConfig {
	return ArchConfig{
		Count:    6,
		Spacing:  14,
		Height:   20,
		MaxUpDeg: 22,
		PeakAt:   3,
	}
}

// GenerateArch synthesizes cfg.Count waypoints colinear with the reference
// waypoint's yaw direction. Height follows a split-sine profile rising to
// cfg.Height at cfg.PeakAt and falling back to the reference height at the
// end; pitch follows the same profile from the reference pitch up to
// cfg.MaxUpDeg at the peak and back down.
//
// The generated waypoints inherit the reference's easing and are named
// "<refName>_arch_<i>" when the reference is named.
//
// Parameters:
//   - ref: the reference waypoint the arch extends
//   - cfg: arch shape parameters
//
// Returns:
//   - []Waypoint: the generated tail (nil when cfg.Count <= 0)
func GenerateArch(ref Waypoint, cfg ArchConfig) []Waypoint {
	if cfg.Count <= 0 {
		return nil
	}
	peak := cfg.PeakAt
	if peak < 1 {
		peak = 1
	}
	if peak > cfg.Count {
		peak = cfg.Count
	}

	refYaw, refPitch := referenceAngles(ref)
	maxUp := cfg.MaxUpDeg * math.Pi / 180
	forward := common.ForwardFromYawPitch(refYaw, 0)

	out := make([]Waypoint, 0, cfg.Count)
	for i := 1; i <= cfg.Count; i++ {
		frac := archProfile(i, cfg.Count, peak)
		pos := ref.Position.Add(forward.Scale(cfg.Spacing * float32(i)))
		pos.Y += cfg.Height * frac

		w := Waypoint{
			Position:    pos,
			Orientation: YawPitch(refYaw, common.Lerp(refPitch, maxUp, frac)),
			Ease:        ref.Ease,
			Tension:     ref.Tension,
		}
		if ref.Name != "" {
			w.Name = fmt.Sprintf("%s_arch_%d", ref.Name, i)
		}
		out = append(out, w)
	}
	return out
}

// archProfile evaluates the two-piece sine height profile at position i of a
// count-long run peaking at peak: a quarter-sine rise to 1.0 at the peak and
// a quarter-sine fall back to 0 at the end.
func archProfile(i, count, peak int) float32 {
	if i <= peak {
		return float32(math.Sin(math.Pi / 2 * float64(i) / float64(peak)))
	}
	tail := count - peak
	if tail <= 0 {
		return 1
	}
	return float32(math.Sin(math.Pi / 2 * float64(count-i) / float64(tail)))
}

// referenceAngles extracts the yaw/pitch the arch extends from, deriving them
// from the look-at direction when the reference was authored that way.
func referenceAngles(ref Waypoint) (yaw, pitch float32) {
	if ref.Orientation.Kind == OrientLookAt {
		return common.LookAtQuat(ref.Position, ref.Orientation.Target).YawPitch()
	}
	return ref.Orientation.Yaw, ref.Orientation.Pitch
}

// RegenerateArch replaces the tail after the named reference waypoint with a
// freshly generated arch. Waypoints up to and including the reference are
// never touched. When the name does not match any waypoint the path is left
// unchanged and false is returned; a missing reference disables the feature
// for that call rather than faulting.
//
// Parameters:
//   - refName: name of the reference waypoint
//   - cfg: arch shape parameters
//
// Returns:
//   - bool: true if the tail was regenerated
func (p *Path) RegenerateArch(refName string, cfg ArchConfig) bool {
	index := p.IndexOf(refName)
	if index < 0 {
		return false
	}
	p.truncateAfter(index)
	p.Append(GenerateArch(p.waypoints[index], cfg)...)
	return true
}
