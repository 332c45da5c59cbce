package dispatch

import (
	"context"
	"errors"
	"sync"

	"github.com/bethropolis/prism/internal/logger"
)

// Locker is the engine's coarse async lock, taken around work that must not
// observe a half-updated frame (e.g. saving the scene).
type Locker interface {
	AsyncLock() Stamp
	AsyncUnlock(Stamp) error
}

// Executor bundles the GUI, engine and background contexts.
type Executor struct {
	GUI    *Loop
	Engine *Engine
	Pool   *Pool

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

var _ Dispatcher = (*Executor)(nil)

// NewExecutor creates the three contexts. Nothing runs until Start and GUI.Run.
func NewExecutor(frameRate, workers int) *Executor {
	return &Executor{
		GUI:    NewLoop("gui"),
		Engine: NewEngine(frameRate),
		Pool:   NewPool(workers),
	}
}

// Start runs the engine and background contexts on their own goroutines.
// The GUI loop is left to the caller, who runs it with GUI.Run.
func (x *Executor) Start(ctx context.Context) {
	ctx, x.cancel = context.WithCancel(ctx)
	x.wg.Add(2)
	go func() {
		defer x.wg.Done()
		if err := x.Engine.Run(ctx); err != nil && !isShutdown(err) {
			logger.Errorf("Executor: engine exited: %v", err)
		}
	}()
	go func() {
		defer x.wg.Done()
		if err := x.Pool.Run(ctx); err != nil && !isShutdown(err) {
			logger.Errorf("Executor: background pool exited: %v", err)
		}
	}()
}

// Stop stops all three contexts and waits for the engine and pool goroutines.
// GUI tasks still queued are dropped and reported.
func (x *Executor) Stop() {
	x.GUI.Stop()
	x.Engine.Stop()
	x.Pool.Stop()
	if x.cancel != nil {
		x.cancel()
	}
	x.wg.Wait()
	if n := x.GUI.Pending(); n > 0 {
		logger.Warnf("Executor: %s loop stopped with %d tasks queued", x.GUI.Name(), n)
	}
}

// RunOnGUI posts task to the GUI loop.
func (x *Executor) RunOnGUI(task Task) { x.GUI.Post(task) }

// RunOnEngine posts task to the next engine frame.
func (x *Executor) RunOnEngine(task Task) { x.Engine.Post(task) }

// RunOnBackground posts task to the background pool.
func (x *Executor) RunOnBackground(task Task) { x.Pool.Post(task) }

// AsyncLock takes the engine's async lock.
func (x *Executor) AsyncLock() Stamp { return x.Engine.AsyncLock() }

// AsyncUnlock releases the engine's async lock.
func (x *Executor) AsyncUnlock(s Stamp) error { return x.Engine.AsyncUnlock(s) }

func isShutdown(err error) bool {
	return errors.Is(err, ErrStopped) || errors.Is(err, context.Canceled)
}
