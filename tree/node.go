package tree

import "math"

// Kind tells leaves and branches apart.
type Kind int

const (
	// Leaf nodes predict a class.
	Leaf Kind = iota
	// Branch nodes route samples to their children according to a feature.
	Branch
)

// Discriminants of the children of a branch on a continuous feature.
const (
	Below     = 0.0
	AtOrAbove = 1.0
)

/*
Node is a node of the tree
*/
type Node struct {
	// An ID to identify the node within its tree
	ID string
	// Kind of node
	Kind Kind
	// The branch value of the parent that routes samples to this node:
	// a value code when the parent branches on a discrete feature, Below
	// or AtOrAbove when it branches on a continuous one. Unused on the root.
	Discriminant float64
	// Number of training samples that reached the node
	Samples int
	// The class predicted by a leaf
	Class float64
	// The feature a branch routes samples on
	Feature int
	// Whether the feature of a branch is continuous
	Continuous bool
	// The threshold of a branch on a continuous feature
	Threshold float64
	// The subtrees of a branch, in the order of the feature domain
	Children []*Node
	// Human readable description of what the node tests or predicts.
	// Display only, set by Translate.
	Meaning string
	// Human readable description of the discriminant.
	// Display only, set by Translate.
	Condition string
}

// NewLeaf returns a leaf predicting class reached by the given number of samples.
func NewLeaf(class float64, samples int) *Node {
	return &Node{Kind: Leaf, Class: class, Samples: samples}
}

/*
NewBranch returns a branch node without children routing on the given
feature. The threshold is only meaningful for continuous features.
*/
func NewBranch(feature int, continuous bool, threshold float64, samples int) *Node {
	if !continuous {
		threshold = 0
	}
	return &Node{Kind: Branch, Feature: feature, Continuous: continuous, Threshold: threshold, Samples: samples}
}

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Kind == Leaf
}

// Add appends a child reached through the given discriminant.
func (n *Node) Add(discriminant float64, child *Node) {
	child.Discriminant = discriminant
	n.Children = append(n.Children, child)
}

/*
Key returns the discriminant a sample value is routed through on the
branch: the value itself for discrete features, Below or AtOrAbove for
continuous ones. NaN values are returned as they are and match no child.
*/
func (n *Node) Key(value float64) float64 {
	if !n.Continuous || math.IsNaN(value) {
		return value
	}
	if value < n.Threshold {
		return Below
	}
	return AtOrAbove
}

// Child returns the child reached through the given discriminant, or nil.
func (n *Node) Child(discriminant float64) *Node {
	for _, c := range n.Children {
		if c.Discriminant == discriminant {
			return c
		}
	}
	return nil
}

/*
Majority returns the child reached by most training samples, the first one
in domain order when several tie, or nil if the node has no children.
*/
func (n *Node) Majority() *Node {
	var result *Node
	for _, c := range n.Children {
		if result == nil || c.Samples > result.Samples {
			result = c
		}
	}
	return result
}

/*
Route returns the child a sample value leads to and true, or the majority
child and false when no child was grown for the value.
*/
func (n *Node) Route(value float64) (*Node, bool) {
	if c := n.Child(n.Key(value)); c != nil {
		return c, true
	}
	return n.Majority(), false
}
