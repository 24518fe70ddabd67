package dataset

import (
	"fmt"
	"math"
	"math/rand"
)

/*
Holdout takes a number of samples, the ratio of them to hold out for
validation and a source of randomness, and returns two disjoint masks
covering all samples: the training mask and the validation mask. The
validation mask holds round(n * ratio) samples chosen at random.
*/
func Holdout(n int, ratio float64, rng *rand.Rand) (Mask, Mask, error) {
	if ratio < 0 || ratio > 1 || math.IsNaN(ratio) {
		return nil, nil, fmt.Errorf("holdout ratio must be between 0 and 1, got %v", ratio)
	}
	validation := make(Mask, n)
	held := int(math.Round(float64(n) * ratio))
	for _, i := range rng.Perm(n)[:held] {
		validation[i] = true
	}
	return validation.Not(), validation, nil
}
