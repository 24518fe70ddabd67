package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Tree represents a classification tree: its root node, the column of
// the target feature it predicts and the name of the algorithm that
// grew it.
type Tree struct {
	ID        string
	Target    int
	Algorithm string
	Root      *Node
}

// New takes the root Node, the target column and the name of the algorithm
// that grew the tree and returns a tree with a fresh ID.
func New(root *Node, target int, algorithm string) *Tree {
	return &Tree{NewID(), target, algorithm, root}
}

// NewID returns a new random tree ID.
func NewID() string {
	return uuid.NewString()
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an
// error, the traversing is aborted and the error is returned.
// Otherwise, when the traversing is over, nil is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	if t.Root == nil {
		return nil
	}
	return traverse(ctx, t.Root, bottomup, f)
}

func traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		if err = f(ctx, n); err != nil {
			return err
		}
	}
	for _, sn := range n.Children {
		if err = traverse(ctx, sn, bottomup, f); err != nil {
			return err
		}
	}
	if bottomup {
		return f(ctx, n)
	}
	return nil
}

// Depth returns the number of branches on the longest path from the root
// to a leaf.
func (t *Tree) Depth() int {
	if t.Root == nil {
		return 0
	}
	return depth(t.Root)
}

func depth(n *Node) int {
	var d int
	for _, c := range n.Children {
		if cd := depth(c) + 1; cd > d {
			d = cd
		}
	}
	return d
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	var count int
	t.Traverse(context.Background(), false, func(context.Context, *Node) error {
		count++
		return nil
	})
	return count
}

// Leaves returns the leaves of the tree from left to right.
func (t *Tree) Leaves() []*Node {
	var leaves []*Node
	t.Traverse(context.Background(), false, func(_ context.Context, n *Node) error {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
		return nil
	})
	return leaves
}

// Number assigns sequential IDs to the nodes of the tree in pre-order,
// starting with "1" for the root.
func (t *Tree) Number() {
	var next int
	t.Traverse(context.Background(), false, func(_ context.Context, n *Node) error {
		next++
		n.ID = fmt.Sprintf("%d", next)
		return nil
	})
}

func (t *Tree) String() string {
	if t.Root == nil {
		return ""
	}
	return subtreeString(t.Root)
}

func subtreeString(n *Node) string {
	result := fmt.Sprintf("[%s] (%d)\n", n.ID, n.Samples)
	if n.Condition != "" {
		result = fmt.Sprintf("%s{ %s }\n", result, n.Condition)
	}
	result = fmt.Sprintf("%s%s\n", result, describe(n))
	if len(n.Children) > 0 {
		result = fmt.Sprintf("%s|\n", result)
	}
	for i, child := range n.Children {
		for j, line := range strings.Split(subtreeString(child), "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				result = fmt.Sprintf("%s|__%s\n", result, line)
			case i == len(n.Children)-1:
				result = fmt.Sprintf("%s   %s\n", result, line)
			default:
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}

func describe(n *Node) string {
	if n.Meaning != "" {
		if n.IsLeaf() {
			return fmt.Sprintf("=> %s", n.Meaning)
		}
		return fmt.Sprintf("? %s", n.Meaning)
	}
	if n.IsLeaf() {
		return fmt.Sprintf("=> %g", n.Class)
	}
	if n.Continuous {
		return fmt.Sprintf("? f%d < %g", n.Feature, n.Threshold)
	}
	return fmt.Sprintf("? f%d", n.Feature)
}
