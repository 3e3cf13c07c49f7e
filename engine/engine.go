package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/flyby/common"
	"github.com/Carmen-Shannon/flyby/engine/profiler"
	"github.com/Carmen-Shannon/flyby/engine/rig"
	"github.com/Carmen-Shannon/flyby/engine/window"
)

// engine implements the Engine interface.
// Coordinates the camera update loop and the window message loop.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	maxDt          float32

	cameraRig rig.Rig

	tickCallback func(deltaTime float32)
	poseCallback func(pose common.Pose, deltaTime float32)
	keyCallback  func(keyCode uint32)

	dragging bool
}

// Engine is the main entry point. It owns the fixed-rate update loop that
// drives the camera rig and hands the resulting pose to the host each tick,
// and optionally pumps a window's input events into the rig.
type Engine interface {
	// Window returns the underlying window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Rig returns the camera rig the engine drives.
	//
	// Returns:
	//   - rig.Rig: the rig instance
	Rig() rig.Rig

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The rig and callbacks are updated at this rate.
	//
	// Parameters:
	//   - tps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(tps float64)

	// SetTickCallback registers a function called each engine tick, after
	// the rig has been updated. Use this for host-side logic.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetPoseCallback registers the function that receives the authoritative
	// camera pose each tick. This is the engine's output.
	//
	// Parameters:
	//   - callback: function receiving the pose and the delta time in seconds
	SetPoseCallback(callback func(pose common.Pose, deltaTime float32))

	// SetKeyCallback registers a function called for key press events from
	// the window, after the engine's own bindings have run.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyCallback(callback func(keyCode uint32))

	// Run starts the update loop. With a window it blocks pumping the
	// message loop until the window closes; headless it blocks until Quit.
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine driving the given rig.
// When a window is supplied its scroll, drag, and key events are wired into
// the rig automatically.
//
// Parameters:
//   - cameraRig: the rig to drive (must not be nil)
//   - options: functional options for engine configuration (window, tick rate, profiling)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(cameraRig rig.Rig, options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
		maxDt:            0.1,
		cameraRig:        cameraRig,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.wireWindowInput()
	}

	return e
}

// wireWindowInput routes the window's input events into the rig. Drag
// motion is only forwarded between the press and release of the primary
// button, matching the virtual joystick gesture.
func (e *engine) wireWindowInput() {
	e.window.SetScrollCallback(func(delta float32) {
		e.cameraRig.ApplyWheel(delta)
	})
	e.window.SetDragStartCallback(func(x, y int32) {
		e.dragging = true
		e.cameraRig.StartDrag(float32(x), float32(y))
	})
	e.window.SetMouseMoveCallback(func(x, y int32) {
		if e.dragging {
			e.cameraRig.Drag(float32(x), float32(y))
		}
	})
	e.window.SetDragEndCallback(func(x, y int32) {
		e.dragging = false
		e.cameraRig.EndDrag()
	})
	e.window.SetKeyDownCallback(func(keyCode uint32) {
		if e.keyCallback != nil {
			e.keyCallback(keyCode)
		}
	})
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Rig() rig.Rig {
	return e.cameraRig
}

func (e *engine) Run() {
	e.running = true
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// handle launches the tick and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleTick()
	go e.handleQuit()
}

// handleTick runs the fixed-rate update loop in its own goroutine.
// Each tick updates the rig, emits the pose, and fires the tick callback.
// Listens for dynamic rate changes via tickRateChannel and exits when the
// quit channel is closed. Recovers from panics to avoid crashing the process
// and signals quit on recovery.
func (e *engine) handleTick() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("tick goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			// A stall (debugger, suspended laptop) must not become one giant
			// integration step.
			if e.maxDt > 0 && dt > e.maxDt {
				dt = e.maxDt
			}

			e.cameraRig.Update(dt)

			if e.poseCallback != nil {
				e.poseCallback(e.cameraRig.Pose(), dt)
			}
			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(tps float64) {
	if tps <= 0 {
		tps = 60
	}
	newRate := time.Second / time.Duration(tps)

	if e.running {
		// Send to channel for immediate update in running tick loop
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			// Channel has a pending update, drain and send new value
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		// Engine not running, just update the field
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetPoseCallback registers the function receiving the per-tick camera pose.
func (e *engine) SetPoseCallback(callback func(pose common.Pose, deltaTime float32)) {
	e.poseCallback = callback
}

// SetKeyCallback registers the function called for window key presses.
func (e *engine) SetKeyCallback(callback func(keyCode uint32)) {
	e.keyCallback = callback
}
