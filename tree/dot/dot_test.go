package dot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uab-projects/decision-trees/tree"
)

func sampleTree() *tree.Tree {
	root := tree.NewBranch(0, true, 1.5, 3)
	root.Add(tree.Below, tree.NewLeaf(0, 2))
	root.Add(tree.AtOrAbove, tree.NewLeaf(1, 1))
	root.Children[0].Condition = "humidity < 1.5"
	return tree.New(root, 1, "c45")
}

func TestRenderDOT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(sampleTree(), "dot", &buf))
	out := buf.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "humidity < 1.5")
	assert.Contains(t, out, "box")
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(sampleTree(), "svg", &buf))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	assert.Error(t, Render(sampleTree(), "gif", &bytes.Buffer{}))
	assert.Error(t, Render(&tree.Tree{}, "dot", &bytes.Buffer{}))
}

func TestLabels(t *testing.T) {
	tr := sampleTree()
	assert.Equal(t, "f0 < 1.5\n(3)", label(tr.Root))
	assert.Equal(t, "1\n(1)", label(tr.Root.Children[1]))
	assert.Equal(t, "humidity < 1.5", condition(tr.Root.Children[0]))
	assert.Equal(t, "1", condition(tr.Root.Children[1]))
}
