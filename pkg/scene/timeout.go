package scene

import (
	"fmt"
	"sync"
	"time"
)

// EvalTimeout is the hard limit for a single scene evaluation.
const EvalTimeout = 5 * time.Second

// evalResult passes evaluation results through channels.
type evalResult struct {
	plan   *Plan
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, returning a timeout error if
// the evaluation exceeds EvalTimeout. A generation counter discards stale
// results from superseded evaluations.
//
// On timeout the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*Plan, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.plan, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
