package dataset

import (
	"fmt"
	"math"
)

/*
Sample represents an item to classify.

Its ValueFor method returns the encoded value of the sample for the feature
at the given catalog position, or an error if the value cannot be obtained.
A NaN value means the sample has no value for the feature.
*/
type Sample interface {
	ValueFor(feature int) (float64, error)
}

/*
Row is a Sample backed by an encoded row, with one value per cataloged
feature in catalog order.
*/
type Row []float64

// ValueFor returns the value of the row in the given column.
func (r Row) ValueFor(feature int) (float64, error) {
	if feature < 0 || feature >= len(r) {
		return math.NaN(), fmt.Errorf("row of %d values has no feature %d", len(r), feature)
	}
	return r[feature], nil
}

func (r Row) String() string {
	return fmt.Sprintf("%v", []float64(r))
}
