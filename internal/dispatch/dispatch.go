// Package dispatch provides the execution contexts the editor runs on: a single
// goroutine GUI loop, a per-frame engine loop and a background worker pool.
//
// Work crosses contexts only by posting a Task. Tasks posted to the same
// context run in FIFO order; nothing is promised across contexts.
package dispatch

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/bethropolis/prism/internal/logger"
)

// Task is a unit of work run on an execution context.
// A returned error is reported by the context's fault boundary.
type Task func() error

// Context is a single execution context tasks can be posted to.
type Context interface {
	// Post enqueues task and returns without waiting for it.
	Post(task Task)
	// InContext reports whether the caller is already running on this context.
	InContext() bool
}

// Dispatcher posts work onto the three named contexts.
type Dispatcher interface {
	RunOnGUI(task Task)
	RunOnEngine(task Task)
	RunOnBackground(task Task)
}

var (
	// ErrStopped is returned by Run when the context was stopped explicitly.
	ErrStopped = errors.New("dispatch: context stopped")
	// ErrStaleStamp is returned by AsyncUnlock for a stamp that does not own the lock.
	ErrStaleStamp = errors.New("dispatch: stale async lock stamp")
)

// PanicError wraps a value recovered from a panicking task.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// runTask runs one task behind the fault boundary of the named context.
// Errors and panics are logged; the caller keeps draining its queue.
func runTask(name string, task Task) (err error) {
	if task == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
		if err != nil {
			var pe *PanicError
			if errors.As(err, &pe) {
				logger.Errorf("Dispatch[%s]: %v\n%s", name, pe, pe.Stack)
			} else {
				logger.Errorf("Dispatch[%s]: task failed: %v", name, err)
			}
		}
	}()
	return task()
}
