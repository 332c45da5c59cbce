package dispatch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bethropolis/prism/internal/logger"
)

// DefaultWorkers is the background pool size used when none is configured.
const DefaultWorkers = 2

// Pool is the multi-goroutine background context used for file I/O and other
// long-running work. Tasks start in FIFO order but may finish in any order.
type Pool struct {
	q        *queue
	workers  int
	stop     chan struct{}
	stopOnce sync.Once
}

// NewPool creates a pool with the given number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pool{
		q:       newQueue(),
		workers: workers,
		stop:    make(chan struct{}),
	}
}

// Post enqueues a background task.
func (p *Pool) Post(task Task) {
	if task == nil {
		return
	}
	p.q.push(task)
}

// InContext is always false: background workers are interchangeable and no
// caller should rely on already being on one.
func (p *Pool) InContext() bool { return false }

// Run starts the workers and blocks until ctx is done or Stop is called.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		id := i
		g.Go(func() error { return p.work(ctx, id) })
	}
	logger.Debugf("Dispatch[background]: %d workers started", p.workers)
	return g.Wait()
}

// Stop makes every worker return after its current task.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

func (p *Pool) work(ctx context.Context, id int) error {
	for {
		if task, ok := p.q.pop(); ok {
			_ = runTask("background", task)
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.stop:
			logger.Debugf("Dispatch[background]: worker %d stopped", id)
			return ErrStopped
		case <-p.q.wake:
		}
	}
}
