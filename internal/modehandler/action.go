package modehandler

import (
	"github.com/bethropolis/prism/internal/input"
	"github.com/bethropolis/prism/internal/logger"
	"github.com/bethropolis/prism/internal/scene"
)

// nudgeStep is how far one arrow press moves the selected node.
const nudgeStep = 0.5

var addKinds = map[input.Action]scene.Kind{
	input.ActionAddNode:     scene.KindNode,
	input.ActionAddGeometry: scene.KindGeometry,
	input.ActionAddLight:    scene.KindLight,
	input.ActionAddEmitter:  scene.KindEmitter,
	input.ActionAddAudio:    scene.KindAudio,
}

// handleActionNormal runs a normal-mode action and reports whether a redraw
// is needed.
func (mh *ModeHandler) handleActionNormal(actionEvent input.ActionEvent) bool {
	action := actionEvent.Action
	actionProcessed := true
	var err error

	if kind, ok := addKinds[action]; ok {
		err = mh.api.AddNode(kind, "")
		mh.report("Add", err)
		mh.forceQuitPending = false
		return true
	}

	switch action {
	case input.ActionEnterCommandMode:
		mh.currentMode = ModeCommand
		mh.cmdBuffer = mh.cmdBuffer[:0]
		mh.statusBar.SetCommandLine("")
		logger.DebugTagf("command", "ModeHandler: Entering Command Mode")

	case input.ActionQuit:
		if mh.api.IsSceneDirty() && !mh.forceQuitPending {
			mh.statusBar.SetTemporaryMessage("Unsaved changes! Press ESC again or Ctrl+Q to force quit.")
			mh.forceQuitPending = true
			return true
		}
		force := mh.forceQuitPending
		mh.forceQuitPending = false
		mh.api.RequestQuit(force)
		return false
	case input.ActionForceQuit:
		mh.api.RequestQuit(true)
		return false

	case input.ActionSave:
		err = mh.api.Save("")
		mh.report("Save", err)

	case input.ActionMoveUp:
		mh.tree.MoveSelection(-1)
	case input.ActionMoveDown:
		mh.tree.MoveSelection(1)
	case input.ActionMovePageUp:
		mh.tree.MoveSelection(-mh.pageSize())
	case input.ActionMovePageDown:
		mh.tree.MoveSelection(mh.pageSize())
	case input.ActionMoveHome:
		mh.tree.MoveSelection(-mh.tree.Len())
	case input.ActionMoveEnd:
		mh.tree.MoveSelection(mh.tree.Len())
	case input.ActionToggleCollapse:
		mh.api.ViewScene(func(*scene.Scene) { mh.tree.Toggle() })

	case input.ActionDelete:
		mh.report("Delete", mh.api.DeleteSelected())
	case input.ActionMoveNodeUp:
		mh.report("Move", mh.api.MoveSelected(-1))
	case input.ActionMoveNodeDown:
		mh.report("Move", mh.api.MoveSelected(1))
	case input.ActionToggleVisible:
		mh.report("Visibility", mh.api.ToggleSelectedVisible())
	case input.ActionNudgeLeft:
		mh.report("Nudge", mh.api.NudgeSelected(-nudgeStep, 0, 0))
	case input.ActionNudgeRight:
		mh.report("Nudge", mh.api.NudgeSelected(nudgeStep, 0, 0))
	case input.ActionNudgeUp:
		mh.report("Nudge", mh.api.NudgeSelected(0, nudgeStep, 0))
	case input.ActionNudgeDown:
		mh.report("Nudge", mh.api.NudgeSelected(0, -nudgeStep, 0))
	case input.ActionCopy:
		mh.report("Copy", mh.api.Copy())
	case input.ActionPaste:
		mh.report("Paste", mh.api.Paste())
	case input.ActionUndo:
		mh.report("Undo", mh.api.Undo())
	case input.ActionRedo:
		mh.report("Redo", mh.api.Redo())

	default:
		actionProcessed = false
	}

	if actionProcessed {
		mh.forceQuitPending = false
	}
	return actionProcessed
}

// report shows a failed action on the status bar.
func (mh *ModeHandler) report(what string, err error) {
	if err == nil {
		return
	}
	logger.DebugTagf("action", "ModeHandler: %s failed: %v", what, err)
	mh.statusBar.SetTemporaryMessage("%s failed: %v", what, err)
}
