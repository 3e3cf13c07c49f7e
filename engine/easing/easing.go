// Package easing provides the pure progress-shaping functions used by the
// path interpolator and tween tasks. Every function maps a local fraction
// t in [0, 1] to an eased fraction in [0, 1], with f(0) == 0 and f(1) == 1.
//
// Reference curves: https://easings.net/
package easing

import (
	"math"
	"strings"
)

// Func maps a local progress fraction in [0, 1] to an eased fraction.
type Func func(t float32) float32

// Linear applies no easing.
func Linear(t float32) float32 {
	return t
}

// InQuad accelerates from zero velocity.
func InQuad(t float32) float32 {
	return t * t
}

// OutQuad decelerates to zero velocity.
func OutQuad(t float32) float32 {
	return 1 - (1-t)*(1-t)
}

// InOutQuad accelerates until halfway, then decelerates.
func InOutQuad(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// InCubic accelerates from zero velocity, more sharply than InQuad.
func InCubic(t float32) float32 {
	return t * t * t
}

// OutCubic decelerates to zero velocity, more sharply than OutQuad.
func OutCubic(t float32) float32 {
	u := 1 - t
	return 1 - u*u*u
}

// InOutCubic accelerates until halfway, then decelerates.
func InOutCubic(t float32) float32 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// InSine accelerates gently following a quarter sine wave.
func InSine(t float32) float32 {
	return 1 - float32(math.Cos(float64(t)*math.Pi/2))
}

// OutSine decelerates gently following a quarter sine wave.
func OutSine(t float32) float32 {
	return float32(math.Sin(float64(t) * math.Pi / 2))
}

// InOutSine eases with a half sine wave, symmetric around the midpoint.
func InOutSine(t float32) float32 {
	return -(float32(math.Cos(math.Pi*float64(t))) - 1) / 2
}

// OutExpo decelerates exponentially. Exact at the endpoints.
func OutExpo(t float32) float32 {
	if t >= 1 {
		return 1
	}
	return 1 - float32(math.Pow(2, -10*float64(t)))
}

// OutBack overshoots the target slightly before settling, by an amount
// controlled by tension. Tension <= 0 selects the conventional default
// (1.70158, roughly 10% overshoot).
//
// Parameters:
//   - tension: overshoot amount; larger values overshoot further
//
// Returns:
//   - Func: the parameterized easing function
func OutBack(tension float32) Func {
	if tension <= 0 {
		tension = 1.70158
	}
	return func(t float32) float32 {
		u := t - 1
		return 1 + u*u*((tension+1)*u+tension)
	}
}

// Resolve maps an easing name to its function. Names are case-insensitive.
// The tension parameter only affects easings that take one ("outBack");
// others ignore it. Unknown or empty names resolve to Linear so a misspelled
// waypoint never faults interpolation.
//
// Parameters:
//   - name: easing name, e.g. "outCubic", "inOutSine", "outBack"
//   - tension: optional tension for parameterized easings (0 = default)
//
// Returns:
//   - Func: the resolved easing function (never nil)
func Resolve(name string, tension float32) Func {
	switch strings.ToLower(name) {
	case "", "linear":
		return Linear
	case "inquad":
		return InQuad
	case "outquad":
		return OutQuad
	case "inoutquad":
		return InOutQuad
	case "incubic":
		return InCubic
	case "outcubic":
		return OutCubic
	case "inoutcubic":
		return InOutCubic
	case "insine":
		return InSine
	case "outsine":
		return OutSine
	case "inoutsine":
		return InOutSine
	case "outexpo":
		return OutExpo
	case "outback":
		return OutBack(tension)
	default:
		return Linear
	}
}
