package path

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/flyby/common"
)

// Bake samples the path at evenly spaced progress values and returns the
// resulting poses, fanning the sampling out over a reusable worker pool.
// PoseAt is pure, so samples are independent and order-preserving. Useful for
// preview polylines, minimaps, and offline export of an authored path.
//
// Parameters:
//   - samples: number of poses to compute (values < 2 sample just the endpoints that exist)
//   - workers: pool size; <= 0 uses NumCPU-1 (minimum 1)
//
// Returns:
//   - []common.Pose: poses at t = i/(samples-1) for i in [0, samples)
func (p *Path) Bake(samples, workers int) []common.Pose {
	if samples <= 0 {
		return nil
	}
	if samples == 1 {
		return []common.Pose{p.PoseAt(0)}
	}
	if workers <= 0 {
		workers = max(runtime.NumCPU()-1, 1)
	}

	out := make([]common.Pose, samples)
	pool := worker.NewDynamicWorkerPool(workers, samples, 1*time.Second)

	// A WaitGroup provides the completion barrier; the pool's own Wait blocks
	// until workers idle-exit, which is unsuitable for a one-shot bake.
	var wg sync.WaitGroup
	for i := 0; i < samples; i++ {
		wg.Add(1)
		idx := i
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				t := float32(idx) / float32(samples-1)
				out[idx] = p.PoseAt(t)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return out
}
