package dataset

import "github.com/uab-projects/decision-trees/feature"

/*
Mask is a membership vector over the samples of a Matrix: entry i tells
whether sample i belongs to the subset. Masks are values: every operation
returns a new mask and leaves its receiver untouched, so a mask handed to a
sibling branch never observes the filtering done by another.
*/
type Mask []bool

// Full returns a mask including all n samples.
func Full(n int) Mask {
	m := make(Mask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// Count returns the number of samples in the mask.
func (m Mask) Count() int {
	var n int
	for _, in := range m {
		if in {
			n++
		}
	}
	return n
}

// Indices returns the positions of the samples in the mask in ascending order.
func (m Mask) Indices() []int {
	result := make([]int, 0, len(m))
	for i, in := range m {
		if in {
			result = append(result, i)
		}
	}
	return result
}

// Not returns the complement of the mask.
func (m Mask) Not() Mask {
	result := make(Mask, len(m))
	for i, in := range m {
		result[i] = !in
	}
	return result
}

/*
And returns a new mask with the samples of m for which the predicate,
called with the sample position, returns true.
*/
func (m Mask) And(predicate func(i int) bool) Mask {
	result := make(Mask, len(m))
	for i, in := range m {
		result[i] = in && predicate(i)
	}
	return result
}

/*
Where returns a new mask with the samples of mask in the matrix that satisfy
the given criterion.
*/
func Where(mx *Matrix, mask Mask, c feature.Criterion) Mask {
	return mask.And(func(i int) bool {
		return c.SatisfiedBy(mx.RowView(i))
	})
}
