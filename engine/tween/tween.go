// Package tween provides the single time-based interpolation primitive shared
// by glide decay, anchor snapping, and dwell timing: ease a scalar from A to B
// over a duration, polled once per frame, cancelable at any time.
//
// Tasks are cooperative. Nothing runs in the background; the owner calls
// Advance from its own frame update and abandons a task by dropping or
// canceling it. A superseded task must always leave the owner's state
// consistent, so Advance is a pure function of elapsed time.
package tween

import "github.com/Carmen-Shannon/flyby/engine/easing"

// Task interpolates a scalar from a start to an end value over a fixed
// duration. Not safe for concurrent use; owners serialize access.
type Task struct {
	from     float32
	to       float32
	duration float32
	elapsed  float32
	fn       easing.Func
	value    float32
	done     bool
}

// New creates a tween task easing from one value to another.
// A non-positive duration produces a task that completes on its first Advance.
// A nil easing function defaults to easing.Linear.
//
// Parameters:
//   - from: start value
//   - to: end value
//   - duration: tween length in seconds
//   - fn: easing function shaping the interpolation (nil = linear)
//
// Returns:
//   - *Task: the new task, positioned at the start value
func New(from, to, duration float32, fn easing.Func) *Task {
	if fn == nil {
		fn = easing.Linear
	}
	return &Task{
		from:     from,
		to:       to,
		duration: duration,
		fn:       fn,
		value:    from,
	}
}

// Advance moves the task forward by dt seconds and returns the current value.
// Once the duration elapses the value is exactly the end value and done
// reports true; further calls are no-ops returning the same result.
//
// Parameters:
//   - dt: elapsed frame time in seconds
//
// Returns:
//   - float32: the interpolated value
//   - bool: true once the task has completed
func (t *Task) Advance(dt float32) (float32, bool) {
	if t.done {
		return t.value, true
	}
	t.elapsed += dt
	if t.elapsed >= t.duration || t.duration <= 0 {
		t.value = t.to
		t.done = true
		return t.value, true
	}
	t.value = t.from + (t.to-t.from)*t.fn(t.elapsed/t.duration)
	return t.value, false
}

// Cancel marks the task complete at its current value. Subsequent Advance
// calls are no-ops, so a stale completion can never fire after cancellation.
func (t *Task) Cancel() {
	t.done = true
}

// Done reports whether the task has completed or been canceled.
func (t *Task) Done() bool {
	return t.done
}

// Value returns the most recently computed value without advancing time.
func (t *Task) Value() float32 {
	return t.value
}

// Target returns the end value the task is easing toward.
func (t *Task) Target() float32 {
	return t.to
}
