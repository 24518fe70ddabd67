package tree

import (
	"context"
	"math"

	"github.com/uab-projects/decision-trees/feature"
)

/*
Translate sets the display fields of every node of the tree using the
meanings in the catalog: Meaning describes the feature a branch tests or the
class a leaf predicts, Condition describes the branch value that leads to
the node. Only display fields are written.
*/
func Translate(t *Tree, c *feature.Catalog) {
	t.Traverse(context.Background(), false, func(_ context.Context, n *Node) error {
		if n.IsLeaf() {
			n.Meaning = c.ValueMeaning(t.Target, n.Class)
		} else {
			n.Meaning = c.Meaning(n.Feature)
		}
		for _, child := range n.Children {
			child.Condition = feature.Describe(Criterion(n, child.Discriminant), c)
		}
		return nil
	})
}

/*
Criterion returns the criterion satisfied by the samples a branch routes
through the given discriminant.
*/
func Criterion(branch *Node, discriminant float64) feature.Criterion {
	if !branch.Continuous {
		return feature.NewDiscreteCriterion(branch.Feature, discriminant)
	}
	if discriminant == Below {
		return feature.NewContinuousCriterion(branch.Feature, math.Inf(-1), branch.Threshold)
	}
	return feature.NewContinuousCriterion(branch.Feature, branch.Threshold, math.Inf(1))
}
