package dispatch

import "sync"

// Immediate runs every task inline on the caller's goroutine, for every context.
// It serves tests and headless batch runs where the whole editor is driven
// from one goroutine.
type Immediate struct {
	lock  sync.Mutex
	stamp Stamp
}

var (
	_ Dispatcher = (*Immediate)(nil)
	_ Context    = (*Immediate)(nil)
	_ Locker     = (*Immediate)(nil)
)

// NewImmediate creates an inline dispatcher.
func NewImmediate() *Immediate { return &Immediate{} }

// Post runs task now behind the usual fault boundary.
func (d *Immediate) Post(task Task) { _ = runTask("immediate", task) }

// InContext is always true.
func (d *Immediate) InContext() bool { return true }

// RunOnGUI runs task now.
func (d *Immediate) RunOnGUI(task Task) { d.Post(task) }

// RunOnEngine runs task now.
func (d *Immediate) RunOnEngine(task Task) { d.Post(task) }

// RunOnBackground runs task now.
func (d *Immediate) RunOnBackground(task Task) { d.Post(task) }

// AsyncLock takes a plain mutex.
func (d *Immediate) AsyncLock() Stamp {
	d.lock.Lock()
	d.stamp++
	return d.stamp
}

// AsyncUnlock releases the mutex if s is the current stamp.
func (d *Immediate) AsyncUnlock(s Stamp) error {
	if s != d.stamp {
		return ErrStaleStamp
	}
	d.stamp++
	d.lock.Unlock()
	return nil
}
