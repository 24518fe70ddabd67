package dtree

import (
	"context"
	"fmt"

	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/tree"
)

/*
Classify takes a tree and a sample and returns the class the tree predicts
for the sample.

At every branch the sample value for the branch feature selects the child
to descend into. When no child was grown for the value, such as a value
never seen while growing the node or a missing value, Classify descends into
the child reached by most training samples.

An error is returned if the tree has no root or the sample cannot provide a
value for a branch feature.
*/
func Classify(t *tree.Tree, s dataset.Sample) (float64, error) {
	n := t.Root
	if n == nil {
		return 0, fmt.Errorf("cannot classify with a tree without root")
	}
	for !n.IsLeaf() {
		v, err := s.ValueFor(n.Feature)
		if err != nil {
			return 0, fmt.Errorf("reading feature %d of sample: %w", n.Feature, err)
		}
		next, _ := n.Route(v)
		if next == nil {
			return 0, fmt.Errorf("branch %s has no children", n.ID)
		}
		n = next
	}
	return n.Class, nil
}

// Accuracy holds the result of validating a tree
type Accuracy struct {
	Hits  int
	Total int
}

// Ratio returns the fraction of hits, 0 when nothing was validated.
func (a Accuracy) Ratio() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Hits) / float64(a.Total)
}

func (a Accuracy) String() string {
	return fmt.Sprintf("%d/%d (%.4f)", a.Hits, a.Total, a.Ratio())
}

/*
Validate classifies every sample of the matrix with the tree and counts
the samples whose target column holds the predicted class.
It returns ErrEmptyValidationSet if the matrix has no samples.
*/
func Validate(t *tree.Tree, m *dataset.Matrix, target int) (Accuracy, error) {
	return ValidateMasked(t, m, dataset.Full(m.Rows()), target)
}

/*
ValidateMasked is like Validate but only classifies the samples of the
matrix in the mask. It returns ErrMaskMismatch if the mask does not have an
entry per sample and ErrSampleMismatch if the matrix lacks the target
column or a feature the tree branches on.
*/
func ValidateMasked(t *tree.Tree, m *dataset.Matrix, mask dataset.Mask, target int) (Accuracy, error) {
	var result Accuracy
	if len(mask) != m.Rows() {
		return result, fmt.Errorf("mask of %d entries for %d samples: %w", len(mask), m.Rows(), ErrMaskMismatch)
	}
	if mask.Count() == 0 {
		return result, ErrEmptyValidationSet
	}
	if target < 0 || target >= m.Cols() {
		return result, fmt.Errorf("target %d out of %d columns: %w", target, m.Cols(), ErrSampleMismatch)
	}
	for _, n := range branches(t) {
		if n.Feature >= m.Cols() {
			return result, fmt.Errorf("tree branches on feature %d of %d columns: %w", n.Feature, m.Cols(), ErrSampleMismatch)
		}
	}
	for _, i := range mask.Indices() {
		class, err := Classify(t, dataset.Row(m.RowView(i)))
		if err != nil {
			return result, fmt.Errorf("classifying sample %d: %w", i, err)
		}
		result.Total++
		if class == m.At(i, target) {
			result.Hits++
		}
	}
	return result, nil
}

func branches(t *tree.Tree) []*tree.Node {
	var result []*tree.Node
	t.Traverse(context.Background(), false, func(_ context.Context, n *tree.Node) error {
		if !n.IsLeaf() {
			result = append(result, n)
		}
		return nil
	})
	return result
}
