package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/uab-projects/decision-trees/feature"
)

/*
ClassCounts takes a matrix, a mask, the column of a discrete feature and the
number of values of the feature, and returns how many masked samples take
each value. It returns an error if a masked sample holds a value outside the
domain.
*/
func ClassCounts(mx *Matrix, mask Mask, col, size int) ([]int, error) {
	counts := make([]int, size)
	for i, in := range mask {
		if !in {
			continue
		}
		v := mx.At(i, col)
		c := int(v)
		if float64(c) != v || c < 0 || c >= size {
			return nil, fmt.Errorf("sample %d: value %v of feature %d is outside its domain of %d values", i, v, col, size)
		}
		counts[c]++
	}
	return counts, nil
}

/*
Distinct returns the distinct values of a column among the masked samples,
sorted in ascending order.
*/
func Distinct(mx *Matrix, mask Mask, col int) []float64 {
	seen := make(map[float64]bool)
	var result []float64
	for i, in := range mask {
		if !in {
			continue
		}
		v := mx.At(i, col)
		if math.IsNaN(v) || seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	sort.Float64s(result)
	return result
}

/*
Check verifies that the matrix has a column per cataloged feature and that
every value is valid for the feature of its column. NaN values are accepted
as undefined when allowUndefined is true.
*/
func Check(mx *Matrix, c *feature.Catalog, allowUndefined bool) error {
	if mx.Cols() != c.Len() {
		return fmt.Errorf("matrix has %d columns for %d features", mx.Cols(), c.Len())
	}
	for i := 0; i < mx.Rows(); i++ {
		for j := 0; j < mx.Cols(); j++ {
			v := mx.At(i, j)
			if allowUndefined && math.IsNaN(v) {
				continue
			}
			if ok, err := c.Feature(j).Valid(v); !ok {
				return fmt.Errorf("sample %d: %w", i, err)
			}
		}
	}
	return nil
}
