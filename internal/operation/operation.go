// Package operation holds the reversible scene edits.
//
// Every operation that touches the scene follows the same two hops: the
// mutation is posted to the engine context, and once it has been applied the
// engine task posts the view notification to the GUI context. Redo and Undo
// return as soon as the first hop is posted, so the history may record an
// operation whose effect is not visible yet.
package operation

import (
	"sync/atomic"

	"github.com/bethropolis/prism/internal/change"
	"github.com/bethropolis/prism/internal/undo"
)

// ModelEditor is what node edits are applied against.
type ModelEditor interface {
	undo.Editor
	change.ModelConsumer
}

// SceneEditor is what scene-level edits are applied against.
type SceneEditor interface {
	undo.Editor
	change.SceneConsumer
}

// Stage is how far the latest hop of an operation has got.
type Stage int32

const (
	Pending Stage = iota
	EngineApplied
	Notified
)

func (s Stage) String() string {
	switch s {
	case Pending:
		return "pending"
	case EngineApplied:
		return "engine-applied"
	case Notified:
		return "notified"
	}
	return "unknown"
}

// hops runs the engine then GUI sequence and tracks its stage. The stage is
// bookkeeping only; the payload of an operation never changes.
type hops struct {
	stage atomic.Int32
}

// Stage reports the progress of the most recent Redo or Undo.
func (h *hops) Stage() Stage { return Stage(h.stage.Load()) }

func (h *hops) run(d change.Dispatcher, mutate func() error, notify func()) {
	h.stage.Store(int32(Pending))
	d.RunOnEngine(func() error {
		if err := mutate(); err != nil {
			return err
		}
		h.stage.Store(int32(EngineApplied))
		d.RunOnGUI(func() error {
			notify()
			h.stage.Store(int32(Notified))
			return nil
		})
		return nil
	})
}
