package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bethropolis/prism/internal/logger"
)

// DefaultFrameRate is the engine update rate used when none is configured.
const DefaultFrameRate = 60

// UpdateFunc is called once per frame with the time since the previous frame.
type UpdateFunc func(tpf time.Duration)

// Stamp identifies one acquisition of the engine's async lock.
type Stamp uint64

// Engine is the per-frame execution context that owns live scene-graph state.
// Each frame it drains the tasks posted so far, then runs the update functions,
// all while holding the async lock.
type Engine struct {
	q        *queue
	interval time.Duration
	gid      atomic.Uint64

	lock  sync.Mutex
	stamp atomic.Uint64

	updMu   sync.Mutex
	updates []UpdateFunc

	frames   atomic.Uint64
	stop     chan struct{}
	stopOnce sync.Once
}

// NewEngine creates an engine context running at frameRate frames per second.
func NewEngine(frameRate int) *Engine {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &Engine{
		q:        newQueue(),
		interval: time.Second / time.Duration(frameRate),
		stop:     make(chan struct{}),
	}
}

// Post enqueues a task for the next frame.
func (e *Engine) Post(task Task) {
	if task == nil {
		return
	}
	e.q.push(task)
}

// InContext reports whether the caller is the engine goroutine.
func (e *Engine) InContext() bool {
	gid := e.gid.Load()
	return gid != 0 && gid == goroutineID()
}

// OnUpdate registers fn to run every frame after the frame's tasks.
func (e *Engine) OnUpdate(fn UpdateFunc) {
	if fn == nil {
		return
	}
	e.updMu.Lock()
	e.updates = append(e.updates, fn)
	e.updMu.Unlock()
}

// Frames returns the number of frames run so far.
func (e *Engine) Frames() uint64 { return e.frames.Load() }

// AsyncLock blocks until no frame is running and keeps frames from starting
// until AsyncUnlock is called with the returned stamp.
func (e *Engine) AsyncLock() Stamp {
	e.lock.Lock()
	return Stamp(e.stamp.Add(1))
}

// AsyncUnlock releases the lock taken by AsyncLock. A stamp that is not the
// current owner's is rejected with ErrStaleStamp and the lock is left alone.
func (e *Engine) AsyncUnlock(stamp Stamp) error {
	if Stamp(e.stamp.Load()) != stamp {
		return ErrStaleStamp
	}
	// Bump so a second unlock with the same stamp is rejected too.
	e.stamp.Add(1)
	e.lock.Unlock()
	return nil
}

// Run drives frames on the calling goroutine until ctx is done or Stop is called.
func (e *Engine) Run(ctx context.Context) error {
	e.gid.Store(goroutineID())
	defer e.gid.Store(0)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	last := time.Now()
	logger.Debugf("Dispatch[engine]: frame loop started at %v per frame", e.interval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.stop:
			return ErrStopped
		case now := <-ticker.C:
			e.frame(now.Sub(last))
			last = now
		}
	}
}

// Stop ends Run after the current frame.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// Sync blocks until every task posted before the call has run, or ctx is done.
func (e *Engine) Sync(ctx context.Context) error {
	if e.InContext() {
		return nil
	}
	return syncOn(ctx, e)
}

// frame runs one update step. Tasks posted while the frame runs wait for the next one.
func (e *Engine) frame(tpf time.Duration) {
	stamp := e.AsyncLock()
	defer func() {
		if err := e.AsyncUnlock(stamp); err != nil {
			logger.Errorf("Dispatch[engine]: frame unlock: %v", err)
		}
	}()

	for _, task := range e.q.drain() {
		_ = runTask("engine", task)
	}

	e.updMu.Lock()
	updates := make([]UpdateFunc, len(e.updates))
	copy(updates, e.updates)
	e.updMu.Unlock()

	for _, fn := range updates {
		fn := fn
		_ = runTask("engine", func() error {
			fn(tpf)
			return nil
		})
	}
	e.frames.Add(1)
}
