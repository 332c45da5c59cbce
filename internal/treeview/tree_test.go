package treeview

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/prism/internal/scene"
)

func names(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = fmt.Sprintf("%d:%s", r.Depth, r.Node.Name)
	}
	return out
}

func sample(t *testing.T) (root, lights, sun, crate *scene.Node) {
	t.Helper()
	root = scene.NewNode("Scene", scene.KindNode)
	lights = scene.NewNode("Lights", scene.KindNode)
	sun = scene.NewNode("Sun", scene.KindLight)
	crate = scene.NewNode("Crate", scene.KindGeometry)
	require.NoError(t, root.Attach(lights))
	require.NoError(t, lights.Attach(sun))
	require.NoError(t, root.Attach(crate))
	return
}

func TestRebuild(t *testing.T) {
	root, _, _, _ := sample(t)
	tr := New()
	tr.Rebuild(root)
	assert.Equal(t, []string{"0:Scene", "1:Lights", "2:Sun", "1:Crate"}, names(tr.Rows()))
	assert.Same(t, root, tr.Selected())
}

func TestAddedSplicesAtIndex(t *testing.T) {
	root, lights, _, _ := sample(t)
	tr := New()
	tr.Rebuild(root)

	lamp := scene.NewNode("Lamp", scene.KindLight)
	require.NoError(t, root.AttachAt(lamp, 1))
	tr.Added(root, lamp, 1, true)
	assert.Equal(t, []string{"0:Scene", "1:Lights", "2:Sun", "1:Lamp", "1:Crate"}, names(tr.Rows()))
	assert.Same(t, lamp, tr.Selected())

	moon := scene.NewNode("Moon", scene.KindLight)
	require.NoError(t, lights.AttachAt(moon, 0))
	tr.Added(lights, moon, 0, false)
	assert.Equal(t, []string{"0:Scene", "1:Lights", "2:Moon", "2:Sun", "1:Lamp", "1:Crate"}, names(tr.Rows()))
	assert.Same(t, lamp, tr.Selected(), "selection follows the row it was on")
}

func TestRemovedDropsSubtree(t *testing.T) {
	root, lights, sun, _ := sample(t)
	tr := New()
	tr.Rebuild(root)
	require.True(t, tr.Select(sun))

	_, err := root.Detach(lights)
	require.NoError(t, err)
	tr.Removed(root, lights)
	assert.Equal(t, []string{"0:Scene", "1:Crate"}, names(tr.Rows()))
	assert.Same(t, root, tr.Selected())
}

func TestToggle(t *testing.T) {
	root, lights, _, _ := sample(t)
	tr := New()
	tr.Rebuild(root)
	require.True(t, tr.Select(lights))

	tr.Toggle()
	assert.True(t, tr.Collapsed(lights))
	assert.Equal(t, []string{"0:Scene", "1:Lights", "1:Crate"}, names(tr.Rows()))

	// Children added under a collapsed node stay hidden.
	lamp := scene.NewNode("Lamp", scene.KindLight)
	require.NoError(t, lights.Attach(lamp))
	tr.Added(lights, lamp, 1, true)
	assert.Equal(t, 3, tr.Len())

	tr.Toggle()
	assert.Equal(t, []string{"0:Scene", "1:Lights", "2:Sun", "2:Lamp", "1:Crate"}, names(tr.Rows()))
}

func TestMovedKeepsCollapsedState(t *testing.T) {
	root, lights, _, crate := sample(t)
	tr := New()
	tr.Rebuild(root)
	require.True(t, tr.Select(lights))
	tr.Toggle()

	require.NoError(t, crate.Attach(lights))
	tr.Moved(root, crate, lights, 0, true)
	assert.Equal(t, []string{"0:Scene", "1:Crate", "2:Lights"}, names(tr.Rows()))
	assert.True(t, tr.Collapsed(lights))
	assert.Same(t, lights, tr.Selected())
}

// Whatever sequence of edits is applied, the spliced rows match a rebuild.
func TestIncrementalMatchesRebuild(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	root := scene.NewNode("Scene", scene.KindNode)
	tr := New()
	tr.Rebuild(root)
	nodes := []*scene.Node{root}

	for step := 0; step < 300; step++ {
		switch rng.Intn(3) {
		case 0:
			parent := nodes[rng.Intn(len(nodes))]
			child := scene.NewNode(fmt.Sprintf("n%d", step), scene.KindNode)
			index := rng.Intn(parent.ChildCount() + 1)
			require.NoError(t, parent.AttachAt(child, index))
			tr.Added(parent, child, index, rng.Intn(2) == 0)
			nodes = append(nodes, child)
		case 1:
			if len(nodes) < 2 {
				continue
			}
			node := nodes[1+rng.Intn(len(nodes)-1)]
			parent := node.Parent()
			if parent == nil {
				continue
			}
			_, err := parent.Detach(node)
			require.NoError(t, err)
			tr.Removed(parent, node)
			nodes = reachable(root)
		case 2:
			if len(nodes) < 2 {
				continue
			}
			node := nodes[1+rng.Intn(len(nodes)-1)]
			target := nodes[rng.Intn(len(nodes))]
			prev := node.Parent()
			if err := target.AttachAt(node, rng.Intn(target.ChildCount()+1)); err != nil {
				continue // cycle
			}
			tr.Moved(prev, target, node, target.IndexOf(node), false)
		}

		want := New()
		want.Rebuild(root)
		require.Equal(t, names(want.Rows()), names(tr.Rows()), "step %d", step)
		require.NotNil(t, tr.Selected())
	}
}

func reachable(root *scene.Node) []*scene.Node {
	var out []*scene.Node
	root.Walk(func(n *scene.Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

func TestScrolling(t *testing.T) {
	root := scene.NewNode("Scene", scene.KindNode)
	for i := 0; i < 20; i++ {
		require.NoError(t, root.Attach(scene.NewNode(fmt.Sprintf("n%02d", i), scene.KindNode)))
	}
	tr := New()
	tr.Rebuild(root)
	tr.SetViewHeight(5)

	assert.Equal(t, 0, tr.Offset())
	tr.MoveSelection(10)
	assert.Equal(t, 10, tr.SelectedIndex())
	assert.Equal(t, 8, tr.Offset(), "two rows of context below the selection")
	assert.Len(t, tr.Visible(), 5)

	tr.MoveSelection(100)
	assert.Equal(t, 20, tr.SelectedIndex())
	assert.Equal(t, 16, tr.Offset())

	tr.MoveSelection(-100)
	assert.Equal(t, 0, tr.SelectedIndex())
	assert.Equal(t, 0, tr.Offset())
}
