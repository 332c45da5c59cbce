// Package treeview keeps the flattened, scrollable node list the tree pane
// draws, and splices it incrementally from scene change notifications.
//
// Methods that take nodes read the scene, so callers hold the engine's async
// lock (editor.View) while calling them. Tree itself is GUI state.
package treeview

import "github.com/bethropolis/prism/internal/scene"

// DefaultScrollOff is the number of rows kept visible around the selection.
const DefaultScrollOff = 2

// Row is one visible node.
type Row struct {
	Node  *scene.Node
	Depth int
}

// Tree is the flattened view of a node tree.
type Tree struct {
	root      *scene.Node
	rows      []Row
	selected  int
	collapsed map[*scene.Node]bool

	offset     int // first visible row
	viewHeight int
	ScrollOff  int
}

// New creates an empty tree view.
func New() *Tree {
	return &Tree{
		collapsed: make(map[*scene.Node]bool),
		ScrollOff: DefaultScrollOff,
	}
}

// Rebuild flattens root from scratch and keeps the selection on the same
// node when it is still visible.
func (t *Tree) Rebuild(root *scene.Node) {
	prev := t.Selected()
	t.root = root
	t.rows = t.rows[:0]
	if root != nil {
		t.rows = t.flatten(t.rows, root, 0)
	}
	for n := range t.collapsed {
		if root == nil || !isUnder(n, root) {
			delete(t.collapsed, n)
		}
	}
	t.selected = 0
	if prev != nil {
		if i := t.rowIndex(prev); i >= 0 {
			t.selected = i
		}
	}
	t.clampSelection()
}

func (t *Tree) flatten(rows []Row, n *scene.Node, depth int) []Row {
	rows = append(rows, Row{Node: n, Depth: depth})
	if t.collapsed[n] {
		return rows
	}
	for _, c := range n.Children() {
		rows = t.flatten(rows, c, depth+1)
	}
	return rows
}

// Rows returns a copy of the visible rows.
func (t *Tree) Rows() []Row { return append([]Row(nil), t.rows...) }

// Len returns the number of visible rows.
func (t *Tree) Len() int { return len(t.rows) }

// Selected returns the selected node, or nil for an empty tree.
func (t *Tree) Selected() *scene.Node {
	if t.selected < 0 || t.selected >= len(t.rows) {
		return nil
	}
	return t.rows[t.selected].Node
}

// SelectedIndex returns the selected row.
func (t *Tree) SelectedIndex() int { return t.selected }

// Select moves the selection to node if it is visible.
func (t *Tree) Select(node *scene.Node) bool {
	i := t.rowIndex(node)
	if i < 0 {
		return false
	}
	t.selected = i
	t.scrollToSelection()
	return true
}

// MoveSelection moves the selection by delta rows, stopping at the ends.
func (t *Tree) MoveSelection(delta int) {
	t.selected += delta
	t.clampSelection()
}

// Collapsed reports whether node's children are hidden.
func (t *Tree) Collapsed(node *scene.Node) bool { return t.collapsed[node] }

// Toggle collapses or expands the selected node.
func (t *Tree) Toggle() {
	i := t.selected
	if i < 0 || i >= len(t.rows) {
		return
	}
	row := t.rows[i]
	end := t.subtreeEnd(i)
	if t.collapsed[row.Node] {
		delete(t.collapsed, row.Node)
	} else if row.Node.ChildCount() > 0 {
		t.collapsed[row.Node] = true
	} else {
		return
	}
	sub := t.flatten(nil, row.Node, row.Depth)
	t.splice(i, end, sub)
}

// Added inserts the rows for child, now the index-th child of parent.
func (t *Tree) Added(parent, child *scene.Node, index int, needSelect bool) {
	pi := t.rowIndex(parent)
	if pi < 0 || t.collapsed[parent] {
		return
	}
	if t.rowIndex(child) >= 0 {
		// Already present, e.g. a rebuild raced ahead of the notification.
		return
	}
	pos := pi + 1
	for k := 0; k < index && pos < len(t.rows) && t.rows[pos].Depth > t.rows[pi].Depth; k++ {
		pos = t.subtreeEnd(pos)
	}
	sub := t.flatten(nil, child, t.rows[pi].Depth+1)
	t.splice(pos, pos, sub)
	if needSelect {
		t.selected = pos
		t.scrollToSelection()
	}
}

// Removed drops child and its subtree.
func (t *Tree) Removed(_, child *scene.Node) {
	i := t.rowIndex(child)
	if i < 0 {
		return
	}
	t.splice(i, t.subtreeEnd(i), nil)
	delete(t.collapsed, child)
}

// Moved relocates node from prevParent to newParent at index.
func (t *Tree) Moved(prevParent, newParent, node *scene.Node, index int, needSelect bool) {
	collapsed := t.collapsed[node]
	t.Removed(prevParent, node)
	if collapsed {
		t.collapsed[node] = true
	}
	t.Added(newParent, node, index, needSelect)
}

// splice replaces rows[from:to] with repl and keeps the selection on the
// same row where it still exists.
func (t *Tree) splice(from, to int, repl []Row) {
	tail := append([]Row(nil), t.rows[to:]...)
	t.rows = append(append(t.rows[:from], repl...), tail...)

	switch {
	case t.selected >= to:
		t.selected += len(repl) - (to - from)
	case t.selected >= from && len(repl) == 0:
		t.selected = from - 1
		if t.selected < 0 {
			t.selected = 0
		}
	}
	t.clampSelection()
}

// subtreeEnd returns the first row after the subtree starting at row i.
func (t *Tree) subtreeEnd(i int) int {
	depth := t.rows[i].Depth
	j := i + 1
	for j < len(t.rows) && t.rows[j].Depth > depth {
		j++
	}
	return j
}

func (t *Tree) rowIndex(node *scene.Node) int {
	if node == nil {
		return -1
	}
	for i, r := range t.rows {
		if r.Node == node {
			return i
		}
	}
	return -1
}

func (t *Tree) clampSelection() {
	if t.selected >= len(t.rows) {
		t.selected = len(t.rows) - 1
	}
	if t.selected < 0 {
		t.selected = 0
	}
	t.scrollToSelection()
}

// SetViewHeight sets the number of rows the pane can show.
func (t *Tree) SetViewHeight(h int) {
	t.viewHeight = h
	t.scrollToSelection()
}

// ViewHeight returns the number of rows the viewport shows.
func (t *Tree) ViewHeight() int { return t.viewHeight }

// Offset returns the first visible row.
func (t *Tree) Offset() int { return t.offset }

// Visible returns the rows inside the viewport.
func (t *Tree) Visible() []Row {
	if t.viewHeight <= 0 || t.offset >= len(t.rows) {
		return nil
	}
	end := t.offset + t.viewHeight
	if end > len(t.rows) {
		end = len(t.rows)
	}
	return t.rows[t.offset:end]
}

func (t *Tree) scrollToSelection() {
	if t.viewHeight <= 0 {
		return
	}
	off := t.ScrollOff
	if half := (t.viewHeight - 1) / 2; off > half {
		off = half
	}
	if t.selected-off < t.offset {
		t.offset = t.selected - off
	}
	if t.selected+off >= t.offset+t.viewHeight {
		t.offset = t.selected + off - t.viewHeight + 1
	}
	if limit := len(t.rows) - t.viewHeight; t.offset > limit {
		t.offset = limit
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

func isUnder(n, root *scene.Node) bool {
	for p := n; p != nil; p = p.Parent() {
		if p == root {
			return true
		}
	}
	return false
}
