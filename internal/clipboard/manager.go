// Package clipboard keeps the node copied for paste and mirrors its path to
// the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"

	"github.com/bethropolis/prism/internal/logger"
	"github.com/bethropolis/prism/internal/scene"
)

// Manager holds one copied subtree. GUI context only.
type Manager struct {
	content *scene.Node
	system  bool

	readAll  func() (string, error)
	writeAll func(string) error
}

// NewManager creates a clipboard; with system set, copies are mirrored to the
// OS clipboard when one is available.
func NewManager(system bool) *Manager {
	return &Manager{
		system:   system && !clipboard.Unsupported,
		readAll:  clipboard.ReadAll,
		writeAll: clipboard.WriteAll,
	}
}

// Copy stores a detached deep copy of node. The caller must be allowed to
// read node, i.e. hold the engine's async lock.
func (m *Manager) Copy(node *scene.Node) {
	if node == nil {
		return
	}
	m.content = node.Clone()
	logger.Debugf("ClipboardManager: Copied %s", node.Path())

	if !m.system {
		return
	}
	if err := m.writeAll(node.Path()); err != nil {
		logger.Warnf("ClipboardManager: system clipboard: %v", err)
	}
}

// Content returns the copied subtree. Paste it with operation.NewPaste, which
// clones it again so the clipboard can be pasted any number of times.
func (m *Manager) Content() (*scene.Node, bool) {
	return m.content, m.content != nil
}

// Clear drops the copied subtree.
func (m *Manager) Clear() { m.content = nil }

// SystemPath returns the node path currently on the system clipboard, if any.
// It lets a path copied in another editor window be resolved in this scene.
func (m *Manager) SystemPath() (string, bool) {
	if !m.system {
		return "", false
	}
	text, err := m.readAll()
	if err != nil || text == "" {
		return "", false
	}
	return text, true
}
