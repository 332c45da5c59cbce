package modehandler

import (
	"strings"

	"github.com/bethropolis/prism/internal/input"
	"github.com/bethropolis/prism/internal/logger"
)

// handleActionCommand edits and runs the command line.
func (mh *ModeHandler) handleActionCommand(actionEvent input.ActionEvent) bool {
	// every rune is text here, including the ones bound in normal mode
	if actionEvent.Rune != 0 {
		mh.cmdBuffer = append(mh.cmdBuffer, actionEvent.Rune)
		mh.statusBar.SetCommandLine(string(mh.cmdBuffer))
		return true
	}

	switch actionEvent.Action {
	case input.ActionDeleteCharBackward:
		if len(mh.cmdBuffer) == 0 {
			mh.leaveCommandMode()
			logger.DebugTagf("command", "ModeHandler: Exiting Command Mode via Backspace")
			return true
		}
		mh.cmdBuffer = mh.cmdBuffer[:len(mh.cmdBuffer)-1]

	case input.ActionInsertNewLine:
		cmd := string(mh.cmdBuffer)
		mh.leaveCommandMode()
		mh.executeCommand(cmd)
		return true

	case input.ActionQuit:
		mh.leaveCommandMode()
		logger.DebugTagf("command", "ModeHandler: Canceled Command Mode via Escape")
		return true

	default:
		return false
	}

	mh.statusBar.SetCommandLine(string(mh.cmdBuffer))
	return true
}

func (mh *ModeHandler) leaveCommandMode() {
	mh.currentMode = ModeNormal
	mh.cmdBuffer = mh.cmdBuffer[:0]
	mh.statusBar.ResetTemporaryMessage()
}

// ExecuteCommand runs a command line such as "add light Sun".
func (mh *ModeHandler) ExecuteCommand(cmdStr string) {
	mh.executeCommand(cmdStr)
}

func (mh *ModeHandler) executeCommand(cmdStr string) {
	parts := strings.Fields(cmdStr)
	if len(parts) == 0 {
		return
	}
	cmdName, args := parts[0], parts[1:]

	cmdFunc, exists := mh.commands[cmdName]
	if !exists {
		mh.statusBar.SetTemporaryMessage("Unknown command: %s", cmdName)
		return
	}
	logger.DebugTagf("command", "ModeHandler: Executing command ':%s' with args %v", cmdName, args)
	if err := cmdFunc(args); err != nil {
		mh.statusBar.SetTemporaryMessage("Error executing command '%s': %v", cmdName, err)
	}
}
