package weather

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Outcome is the terminal state of one branch of a fetch cycle
type Outcome int

const (
	// OutcomeNotRun means the branch never started
	OutcomeNotRun Outcome = iota
	// OutcomeReady means state was replaced and a notification was sent
	OutcomeReady
	// OutcomeSkipped means the branch completed without touching state
	OutcomeSkipped
	// OutcomeFailed means the request or decoding failed; state is unchanged
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotRun:
		return "not-run"
	case OutcomeReady:
		return "ready"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BranchResult records how a branch finished
type BranchResult struct {
	Outcome Outcome
	Err     error
}

// CycleResult collects the branch results of a finished cycle
type CycleResult struct {
	// Skipped is set when no credentials were present and nothing ran
	Skipped    bool
	Current    BranchResult
	Forecast   BranchResult
	AirQuality BranchResult
}

// Cycle is a handle on one fetch cycle. Waiting on it never cancels the
// underlying requests.
type Cycle struct {
	ID   string
	City string

	done   chan struct{}
	mu     sync.Mutex
	result CycleResult
}

func newCycle(city string) *Cycle {
	return &Cycle{
		ID:   uuid.NewString(),
		City: city,
		done: make(chan struct{}),
	}
}

func skippedCycle(city string) *Cycle {
	c := newCycle(city)
	c.result.Skipped = true
	close(c.done)
	return c
}

// Done is closed when every branch, including air quality, has finished
func (c *Cycle) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the cycle finishes or ctx is done
func (c *Cycle) Wait(ctx context.Context) (CycleResult, error) {
	select {
	case <-c.done:
		return c.Result(), nil
	case <-ctx.Done():
		return CycleResult{}, ctx.Err()
	}
}

// Result returns the branch results recorded so far
func (c *Cycle) Result() CycleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Cycle) record(update func(r *CycleResult)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	update(&c.result)
}
