package dtree

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

/*
Entropy takes the number of samples of each class and returns the Shannon
entropy of the distribution in bits. Empty buckets contribute nothing, so
empty distributions and distributions with a single nonempty bucket have
entropy 0.
*/
func Entropy(counts []int) float64 {
	var total, nonzero int
	for _, c := range counts {
		total += c
		if c > 0 {
			nonzero++
		}
	}
	if nonzero <= 1 {
		return 0
	}
	p := make([]float64, len(counts))
	for i, c := range counts {
		p[i] = float64(c) / float64(total)
	}
	return stat.Entropy(p) / math.Ln2
}

/*
InformationGain takes the entropy of a set of samples, the entropy of each
part of a partition of the set and the fraction of samples in each part,
and returns the entropy reduction achieved by the partition.
The entropies and weights must have the same length.
*/
func InformationGain(general float64, entropies, weights []float64) float64 {
	return general - floats.Dot(entropies, weights)
}

// SplitInformation returns the entropy in bits of the sizes of the parts of
// a partition given as the fraction of samples in each part.
func SplitInformation(weights []float64) float64 {
	return stat.Entropy(weights) / math.Ln2
}

// GainRatio returns gain divided by splitInfo, or 0 when splitInfo is 0.
func GainRatio(gain, splitInfo float64) float64 {
	if splitInfo == 0 {
		return 0
	}
	return gain / splitInfo
}
