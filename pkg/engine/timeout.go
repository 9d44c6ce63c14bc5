package engine

import (
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the default limit for a single bake.
const EvalTimeout = 5 * time.Second

// bakeResult is the internal type used to pass bake results through channels.
type bakeResult struct {
	samples []float64
	errors  []EvalError
	err     error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds timeout. It uses a generation counter to
// discard stale results from previous evaluations.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan bakeResult,
	timeout time.Duration,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (bakeResult, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return bakeResult{}, fmt.Errorf("engine: evaluation superseded by newer request")
		}
		return res, nil

	case <-timer.C:
		return bakeResult{}, fmt.Errorf("engine: evaluation timed out after %s", timeout)
	}
}
