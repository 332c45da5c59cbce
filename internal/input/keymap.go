// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps special keys to actions.
type Keymap map[tcell.Key]Action

// RuneKeymap maps plain runes to actions in normal mode.
type RuneKeymap map[rune]Action

// ModKeymap maps keys combined with modifiers.
type ModKeymap map[tcell.ModMask]Keymap

// InputProcessor translates tcell key events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
}

// NewInputProcessor creates a processor with the default bindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

func (p *InputProcessor) loadDefaultBindings() {
	p.keymap[tcell.KeyUp] = ActionMoveUp
	p.keymap[tcell.KeyDown] = ActionMoveDown
	p.keymap[tcell.KeyPgUp] = ActionMovePageUp
	p.keymap[tcell.KeyPgDn] = ActionMovePageDown
	p.keymap[tcell.KeyHome] = ActionMoveHome
	p.keymap[tcell.KeyEnd] = ActionMoveEnd
	p.keymap[tcell.KeyLeft] = ActionNudgeLeft
	p.keymap[tcell.KeyRight] = ActionNudgeRight
	p.keymap[tcell.KeyEnter] = ActionInsertNewLine
	p.keymap[tcell.KeyBackspace] = ActionDeleteCharBackward
	p.keymap[tcell.KeyBackspace2] = ActionDeleteCharBackward
	p.keymap[tcell.KeyDelete] = ActionDelete
	p.keymap[tcell.KeyEscape] = ActionQuit
	p.keymap[tcell.KeyCtrlC] = ActionQuit

	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlS] = ActionSave
	ctrlMap[tcell.KeyCtrlQ] = ActionForceQuit
	ctrlMap[tcell.KeyCtrlZ] = ActionUndo
	ctrlMap[tcell.KeyCtrlY] = ActionRedo
	ctrlMap[tcell.KeyCtrlC] = ActionQuit
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	shiftMap := make(Keymap)
	shiftMap[tcell.KeyUp] = ActionMoveNodeUp
	shiftMap[tcell.KeyDown] = ActionMoveNodeDown
	shiftMap[tcell.KeyLeft] = ActionNudgeDown
	shiftMap[tcell.KeyRight] = ActionNudgeUp
	p.modKeymap[tcell.ModShift] = shiftMap

	p.runeKeymap[':'] = ActionEnterCommandMode
	p.runeKeymap[' '] = ActionToggleCollapse
	p.runeKeymap['n'] = ActionAddNode
	p.runeKeymap['g'] = ActionAddGeometry
	p.runeKeymap['l'] = ActionAddLight
	p.runeKeymap['e'] = ActionAddEmitter
	p.runeKeymap['a'] = ActionAddAudio
	p.runeKeymap['d'] = ActionDelete
	p.runeKeymap['K'] = ActionMoveNodeUp
	p.runeKeymap['J'] = ActionMoveNodeDown
	p.runeKeymap['k'] = ActionMoveUp
	p.runeKeymap['j'] = ActionMoveDown
	p.runeKeymap['v'] = ActionToggleVisible
	p.runeKeymap['y'] = ActionCopy
	p.runeKeymap['p'] = ActionPaste
	p.runeKeymap['u'] = ActionUndo
	p.runeKeymap['r'] = ActionRedo
}

// ProcessEvent decodes ev without regard to the input mode; the mode
// handler decides what a rune means.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	runeVal := ev.Rune()

	if modKeyMap, ok := p.modKeymap[mod]; ok {
		if action, ok := modKeyMap[key]; ok {
			return ActionEvent{Action: action}
		}
	}
	// KeyCtrlS and friends already imply Ctrl
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		mod &^= tcell.ModCtrl
	}

	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	if key == tcell.KeyRune && (mod == tcell.ModNone || mod == tcell.ModShift) {
		if action, ok := p.runeKeymap[runeVal]; ok {
			return ActionEvent{Action: action, Rune: runeVal}
		}
		return ActionEvent{Action: ActionInsertRune, Rune: runeVal}
	}

	return ActionEvent{Action: ActionUnknown}
}
