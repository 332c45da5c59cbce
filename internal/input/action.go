// internal/input/action.go
package input

// Action is an editor command decoded from a key.
type Action int

const (
	ActionUnknown Action = iota
	ActionQuit
	ActionForceQuit // quit without checking the dirty flag
	ActionSave

	// Tree navigation
	ActionMoveUp
	ActionMoveDown
	ActionMovePageUp
	ActionMovePageDown
	ActionMoveHome
	ActionMoveEnd
	ActionToggleCollapse

	// Scene edits
	ActionAddNode
	ActionAddGeometry
	ActionAddLight
	ActionAddEmitter
	ActionAddAudio
	ActionDelete
	ActionMoveNodeUp   // reorder among siblings
	ActionMoveNodeDown // reorder among siblings
	ActionToggleVisible
	ActionNudgeLeft
	ActionNudgeRight
	ActionNudgeUp
	ActionNudgeDown
	ActionCopy
	ActionPaste
	ActionUndo
	ActionRedo

	// Command line
	ActionEnterCommandMode
	ActionInsertRune
	ActionInsertNewLine
	ActionDeleteCharBackward
)

// ActionEvent is a decoded key. Rune is set for ActionInsertRune.
type ActionEvent struct {
	Action Action
	Rune   rune
}
