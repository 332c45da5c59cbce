package editor

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bethropolis/prism/internal/event"
	"github.com/bethropolis/prism/internal/logger"
	"github.com/bethropolis/prism/internal/sceneio"
)

// Save writes the scene to its file on the background pool. callback, if
// set, runs on the GUI context once the save finished, with its error.
//
// The scene is encoded into a temp file next to the target while the engine's
// async lock is held, then renamed over the target.
func (e *SceneEditor) Save(callback func(error)) error {
	return e.onGUI(func() error { return e.save(callback) })
}

// SaveAs saves to path and makes it the scene's file.
func (e *SceneEditor) SaveAs(path string, callback func(error)) error {
	return e.onGUI(func() error {
		if e.saving {
			return ErrSaving
		}
		e.path = path
		return e.save(callback)
	})
}

func (e *SceneEditor) save(callback func(error)) error {
	if e.saving {
		logger.DebugTagf(logTag, "Editor: save ignored, already saving")
		return ErrSaving
	}
	if e.path == "" {
		return ErrNoPath
	}
	path := e.path
	e.saving = true
	e.saveCallback = callback
	e.savingChanges = e.changes.Changes()
	e.events.Dispatch(event.TypeSavingStarted, event.SavingData{FilePath: path})

	e.rt.RunOnBackground(func() error {
		sum, err := e.writeScene(path)
		if err != nil {
			logger.Warnf("Editor: saving %s failed: %v", path, err)
			e.rt.RunOnGUI(func() error {
				e.notifyFinishSaving(path, err)
				return nil
			})
			return nil
		}
		e.rt.RunOnGUI(func() error {
			e.postSave(path, sum)
			e.notifyFinishSaving(path, nil)
			return nil
		})
		return nil
	})
	return nil
}

// writeScene runs on the background pool. The hash reaches the GUI context
// before the rename so the watcher's report of it is known as ours.
func (e *SceneEditor) writeScene(path string) (sum [sha256.Size]byte, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return sum, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	h := sha256.New()
	if err = e.encodeLocked(io.MultiWriter(tmp, h)); err != nil {
		return sum, err
	}
	if err = tmp.Sync(); err != nil {
		return sum, fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return sum, fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	copy(sum[:], h.Sum(nil))
	written := sum
	e.rt.RunOnGUI(func() error {
		e.writingSum = written
		return nil
	})
	if err = os.Rename(tmp.Name(), path); err != nil {
		return sum, fmt.Errorf("replace %s: %w", path, err)
	}
	return sum, nil
}

func (e *SceneEditor) encodeLocked(w io.Writer) error {
	stamp := e.rt.AsyncLock()
	defer e.unlock(stamp)
	return sceneio.Encode(w, e.scene)
}

// postSave runs on the GUI context after a successful write. Edits executed
// after the save started are not in the file and keep the scene dirty.
func (e *SceneEditor) postSave(path string, sum [sha256.Size]byte) {
	e.savedSum = sum
	e.changes.Discount(e.savingChanges)
	e.savingChanges = 0
	e.updateDirty()
	logger.Infof("Editor: saved %s", path)
	e.events.Dispatch(event.TypeSceneSaved, event.SceneData{FilePath: path})
}

// notifyFinishSaving runs on the GUI context after every save, failed or not.
func (e *SceneEditor) notifyFinishSaving(path string, err error) {
	e.saving = false
	e.writingSum = [sha256.Size]byte{}
	cb := e.saveCallback
	e.saveCallback = nil
	e.events.Dispatch(event.TypeSavingFinished, event.SavingData{FilePath: path, Err: err})
	if cb != nil {
		cb(err)
	}
}

// Revert reloads the scene from its file, dropping unsaved changes and the
// history. The file is read on the background pool and swapped in on the
// engine context.
func (e *SceneEditor) Revert() error {
	return e.onGUI(func() error {
		if e.path == "" {
			return ErrNoPath
		}
		path := e.path
		e.rt.RunOnBackground(func() error {
			s, sum, err := loadFile(path)
			if err != nil {
				return fmt.Errorf("revert %s: %w", path, err)
			}
			e.rt.RunOnEngine(func() error {
				e.scene = s
				e.rt.RunOnGUI(func() error {
					e.reverted(path, sum)
					return nil
				})
				return nil
			})
			return nil
		})
		return nil
	})
}

func (e *SceneEditor) reverted(path string, sum [sha256.Size]byte) {
	e.savedSum = sum
	e.history.Clear()
	e.changes.ResetChanges()
	e.setDirty(false)
	logger.Infof("Editor: reloaded %s", path)
	e.events.Dispatch(event.TypeSceneLoaded, event.SceneData{FilePath: path})
}
