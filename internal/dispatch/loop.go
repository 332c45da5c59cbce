package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bethropolis/prism/internal/logger"
)

// Loop is a single goroutine execution context that runs posted tasks in FIFO order.
// The GUI context is a Loop.
type Loop struct {
	name     string
	q        *queue
	gid      atomic.Uint64 // goroutine running Run, 0 when idle
	stop     chan struct{}
	stopOnce sync.Once
}

// NewLoop creates a loop; name appears in fault-boundary log lines.
func NewLoop(name string) *Loop {
	return &Loop{
		name: name,
		q:    newQueue(),
		stop: make(chan struct{}),
	}
}

// Name returns the loop name.
func (l *Loop) Name() string { return l.name }

// Post enqueues a task. It never blocks; tasks posted before Run is called
// wait in the queue.
func (l *Loop) Post(task Task) {
	if task == nil {
		return
	}
	l.q.push(task)
}

// InContext reports whether the caller is the goroutine running this loop.
func (l *Loop) InContext() bool {
	gid := l.gid.Load()
	return gid != 0 && gid == goroutineID()
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int { return l.q.len() }

// Run drains the queue on the calling goroutine until ctx is done or Stop is called.
// Tasks run one at a time; a failing task is logged and the loop continues.
func (l *Loop) Run(ctx context.Context) error {
	l.gid.Store(goroutineID())
	defer l.gid.Store(0)
	logger.Debugf("Dispatch[%s]: loop started", l.name)

	for {
		for {
			task, ok := l.q.pop()
			if !ok {
				break
			}
			_ = runTask(l.name, task)
			select {
			case <-l.stop:
				return ErrStopped
			default:
			}
		}

		select {
		case <-ctx.Done():
			logger.Debugf("Dispatch[%s]: loop exiting: %v", l.name, ctx.Err())
			return ctx.Err()
		case <-l.stop:
			logger.Debugf("Dispatch[%s]: loop stopped", l.name)
			return ErrStopped
		case <-l.q.wake:
		}
	}
}

// Stop makes Run return after the task currently running, if any.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Sync blocks until every task posted before the call has run, or ctx is done.
// Calling Sync from the loop itself would deadlock, so it returns immediately there.
func (l *Loop) Sync(ctx context.Context) error {
	if l.InContext() {
		return nil
	}
	return syncOn(ctx, l)
}

// syncOn posts a marker task to c and waits for it to run.
func syncOn(ctx context.Context, c Context) error {
	done := make(chan struct{})
	c.Post(func() error {
		close(done)
		return nil
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
