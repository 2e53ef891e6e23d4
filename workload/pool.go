package workload

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of jobs of one kind that run at the same time. Jobs
// run on the calling goroutine once a slot is acquired, so a saturated pool
// makes callers wait instead of piling up work on the scheduler.
type Pool struct {
	name string
	size int
	sem  *semaphore.Weighted
}

// NewPool returns a Pool that runs at most size jobs at once. A size lower
// than 1 is treated as 1.
func NewPool(name string, size int) *Pool {
	size = max(size, 1)
	return &Pool{name: name, size: size, sem: semaphore.NewWeighted(int64(size))}
}

// Do waits for a free slot and runs fn in it. If ctx is done before a slot is
// free, fn is not run and the context error is returned.
func (p *Pool) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("failed acquiring %s worker: %w", p.name, err)
	}
	defer p.sem.Release(1)

	return fn(ctx)
}

// Name returns the name of the pool.
func (p *Pool) Name() string {
	return p.name
}

// Size returns the maximum number of concurrent jobs.
func (p *Pool) Size() int {
	return p.size
}
