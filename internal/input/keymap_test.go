package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestProcessEvent(t *testing.T) {
	p := NewInputProcessor()
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want ActionEvent
	}{
		{"arrow", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), ActionEvent{Action: ActionMoveDown}},
		{"shift arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), ActionEvent{Action: ActionMoveNodeUp}},
		{"ctrl s", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), ActionEvent{Action: ActionSave}},
		{"ctrl z", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), ActionEvent{Action: ActionUndo}},
		{"ctrl q without mod", tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModNone), ActionEvent{Action: ActionUnknown}},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionEvent{Action: ActionQuit}},
		{"colon", tcell.NewEventKey(tcell.KeyRune, ':', tcell.ModNone), ActionEvent{Action: ActionEnterCommandMode, Rune: ':'}},
		{"bound rune", tcell.NewEventKey(tcell.KeyRune, 'l', tcell.ModNone), ActionEvent{Action: ActionAddLight, Rune: 'l'}},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'J', tcell.ModShift), ActionEvent{Action: ActionMoveNodeDown, Rune: 'J'}},
		{"free rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), ActionEvent{Action: ActionInsertRune, Rune: 'x'}},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), ActionEvent{Action: ActionUnknown}},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), ActionEvent{Action: ActionInsertNewLine}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ProcessEvent(tt.ev))
		})
	}
}
