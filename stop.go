package dtree

/*
StopCriterion is an interface wrapping the Stop method, used to decide
whether a node must become a leaf instead of being branched.

Stop takes the target class counts of the samples reaching the node and the
features still available to branch on, and returns true to make the node a
leaf.
*/
type StopCriterion interface {
	Stop(counts []int, candidates []int) bool
}

/*
StopFunc wraps a function with the Stop method signature to implement
the StopCriterion interface
*/
type StopFunc func(counts []int, candidates []int) bool

// Stop calls the StopFunc with the given parameters.
func (sf StopFunc) Stop(counts []int, candidates []int) bool {
	return sf(counts, candidates)
}

/*
PureOrExhausted returns the default StopCriterion: it stops when there are
no features left to branch on or all samples belong to the same class.
*/
func PureOrExhausted() StopCriterion {
	return StopFunc(func(counts []int, candidates []int) bool {
		if len(candidates) == 0 {
			return true
		}
		var nonzero int
		for _, c := range counts {
			if c > 0 {
				nonzero++
			}
		}
		return nonzero <= 1
	})
}

/*
MinimumEntropy takes an entropy value and returns a StopCriterion that stops
where PureOrExhausted does and also when the entropy of the class counts is
equal or below the given value.
*/
func MinimumEntropy(e float64) StopCriterion {
	poe := PureOrExhausted()
	return StopFunc(func(counts []int, candidates []int) bool {
		return poe.Stop(counts, candidates) || Entropy(counts) <= e
	})
}
