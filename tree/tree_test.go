package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uab-projects/decision-trees/feature"
)

// sampleTree branches on discrete feature 0 (x:3 samples, y:1 sample) and,
// under x, on continuous feature 1 at 2.5.
func sampleTree() *Tree {
	root := NewBranch(0, false, 0, 4)
	below := NewBranch(1, true, 2.5, 3)
	below.Add(Below, NewLeaf(0, 2))
	below.Add(AtOrAbove, NewLeaf(1, 1))
	root.Add(0, below)
	root.Add(1, NewLeaf(1, 1))
	t := New(root, 2, "c45")
	t.Number()
	return t
}

func TestRoute(t *testing.T) {
	tr := sampleTree()
	x, ok := tr.Root.Route(0)
	assert.True(t, ok)
	assert.Same(t, tr.Root.Children[0], x)

	y, ok := tr.Root.Route(1)
	assert.True(t, ok)
	assert.Same(t, tr.Root.Children[1], y)

	above, ok := x.Route(2.5)
	assert.True(t, ok)
	assert.Equal(t, 1.0, above.Class)
	below, ok := x.Route(-7)
	assert.True(t, ok)
	assert.Equal(t, 0.0, below.Class)
}

func TestRouteFallsBackToMajorityChild(t *testing.T) {
	tr := sampleTree()
	child, ok := tr.Root.Route(2)
	assert.False(t, ok)
	assert.Same(t, tr.Root.Children[0], child, "unseen values go to the child with most samples")
}

func TestMajorityTieKeepsDomainOrder(t *testing.T) {
	n := NewBranch(0, false, 0, 4)
	n.Add(0, NewLeaf(0, 2))
	n.Add(1, NewLeaf(1, 2))
	assert.Same(t, n.Children[0], n.Majority())
	assert.Nil(t, NewLeaf(0, 1).Majority())
}

func TestTreeShape(t *testing.T) {
	tr := sampleTree()
	assert.Equal(t, 2, tr.Depth())
	assert.Equal(t, 5, tr.Len())
	assert.Len(t, tr.Leaves(), 3)
	assert.Equal(t, "1", tr.Root.ID)
	assert.Equal(t, "2", tr.Root.Children[0].ID)
	assert.Equal(t, "5", tr.Root.Children[1].ID)
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, 0, New(NewLeaf(0, 0), 0, "id3").Depth())
}

func TestTraverseOrder(t *testing.T) {
	tr := sampleTree()
	var topdown, bottomup []string
	require.NoError(t, tr.Traverse(context.Background(), false, func(_ context.Context, n *Node) error {
		topdown = append(topdown, n.ID)
		return nil
	}))
	require.NoError(t, tr.Traverse(context.Background(), true, func(_ context.Context, n *Node) error {
		bottomup = append(bottomup, n.ID)
		return nil
	}))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, topdown)
	assert.Equal(t, []string{"3", "4", "2", "5", "1"}, bottomup)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tr.Traverse(ctx, false, func(context.Context, *Node) error { return nil }), context.Canceled)
}

func TestTranslate(t *testing.T) {
	c, err := feature.NewCatalog(
		feature.NewDiscreteFeature("A", []string{"x", "y"}),
		feature.NewContinuousFeature("T"),
		feature.NewDiscreteFeature("C", []string{"p", "q"}),
	)
	require.NoError(t, err)
	require.NoError(t, c.SetMeaning("T", "temperature"))

	tr := sampleTree()
	Translate(tr, c)

	assert.Equal(t, "A", tr.Root.Meaning)
	assert.Equal(t, "A is x", tr.Root.Children[0].Condition)
	assert.Equal(t, "temperature", tr.Root.Children[0].Meaning)
	assert.Equal(t, "temperature < 2.5", tr.Root.Children[0].Children[0].Condition)
	assert.Equal(t, "p", tr.Root.Children[0].Children[0].Meaning)
	assert.Equal(t, "temperature >= 2.5", tr.Root.Children[0].Children[1].Condition)
	assert.Equal(t, "q", tr.Root.Children[1].Meaning)
	assert.Equal(t, 2.5, tr.Root.Children[0].Threshold, "translation leaves the payload alone")

	s := tr.String()
	assert.Contains(t, s, "{ A is y }")
	assert.Contains(t, s, "=> q")
}
