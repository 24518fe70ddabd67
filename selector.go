package dtree

import (
	"fmt"
	"math"

	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/feature"
	"github.com/uab-projects/decision-trees/tree"
)

/*
Problem holds what stays fixed while growing a tree: the training samples,
the catalog describing their columns and the column of the target feature.
*/
type Problem struct {
	Matrix  *dataset.Matrix
	Catalog *feature.Catalog
	Target  int
}

/*
Split describes the partition of the samples of a node chosen to branch it.
*/
type Split struct {
	// Feature is the column the samples are partitioned on
	Feature int
	// Continuous tells whether Feature is continuous
	Continuous bool
	// Threshold separating the tree.Below and tree.AtOrAbove parts, only
	// meaningful for continuous features
	Threshold float64
	// Values are the discriminants of the parts in the order children are
	// grown: value codes for discrete features, tree.Below and
	// tree.AtOrAbove for continuous ones
	Values []float64
	// Column holds the discriminant of every sample of the matrix: the raw
	// feature column, or the binary column derived from the threshold
	Column []float64
	// Gain is the information gain of the partition
	Gain float64
	// GainRatio is the gain divided by the split information
	GainRatio float64
}

// Branch returns a branch node without children for the split.
func (s *Split) Branch(samples int) *tree.Node {
	return tree.NewBranch(s.Feature, s.Continuous, s.Threshold, samples)
}

/*
SplitSelector is an interface for the strategies that choose the feature
to branch a node on.

SelectSplit takes the problem, the mask of samples reaching the node and the
candidate features, and returns the chosen split. Candidates are never
modified. Name returns the name of the strategy.
*/
type SplitSelector interface {
	Name() string
	SelectSplit(p *Problem, mask dataset.Mask, candidates []int) (*Split, error)
}

type id3 struct{}
type c45 struct{}

/*
ID3 returns a SplitSelector choosing the candidate with the largest
information gain, the first one in candidate order on ties. Every feature is
partitioned by its values: discrete features by their domain, continuous
features by the distinct values observed among the masked samples.
*/
func ID3() SplitSelector {
	return id3{}
}

/*
C45 returns a SplitSelector choosing the candidate with the largest gain
ratio, the first one in candidate order on ties. Discrete features are
partitioned by their domain and continuous features in two at the
threshold that minimises the entropy of the partition.
*/
func C45() SplitSelector {
	return c45{}
}

func (id3) Name() string {
	return "id3"
}

func (c45) Name() string {
	return "c45"
}

func (id3) SelectSplit(p *Problem, mask dataset.Mask, candidates []int) (*Split, error) {
	return selectSplit(p, mask, candidates, func(f int, general float64) *Split {
		var values []float64
		if p.Catalog.Continuous(f) {
			values = dataset.Distinct(p.Matrix, mask, f)
		} else {
			values = p.Catalog.Domain(f)
		}
		s := &Split{Feature: f, Continuous: false, Values: values, Column: p.Matrix.Column(f)}
		s.score(p, mask, general)
		return s
	}, func(s *Split) float64 {
		return s.Gain
	})
}

func (c45) SelectSplit(p *Problem, mask dataset.Mask, candidates []int) (*Split, error) {
	return selectSplit(p, mask, candidates, func(f int, general float64) *Split {
		var s *Split
		if p.Catalog.Continuous(f) {
			threshold := bestThreshold(p, mask, f)
			s = &Split{
				Feature:    f,
				Continuous: true,
				Threshold:  threshold,
				Values:     []float64{tree.Below, tree.AtOrAbove},
				Column:     binaryColumn(p.Matrix.Column(f), threshold),
			}
		} else {
			s = &Split{Feature: f, Values: p.Catalog.Domain(f), Column: p.Matrix.Column(f)}
		}
		s.score(p, mask, general)
		return s
	}, func(s *Split) float64 {
		return s.GainRatio
	})
}

func selectSplit(p *Problem, mask dataset.Mask, candidates []int, split func(int, float64) *Split, measure func(*Split) float64) (*Split, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidate features to split on")
	}
	counts, err := dataset.ClassCounts(p.Matrix, mask, p.Target, p.Catalog.DomainSize(p.Target))
	if err != nil {
		return nil, err
	}
	general := Entropy(counts)
	var result *Split
	for _, f := range candidates {
		if f == p.Target {
			continue
		}
		s := split(f, general)
		if result == nil || measure(s) > measure(result) {
			result = s
		}
	}
	if result == nil {
		return nil, fmt.Errorf("no candidate features to split on other than the target")
	}
	return result, nil
}

/*
score sets the gain and gain ratio of the split for the masked samples,
given the entropy of their target distribution. Samples whose column value
is not among the split values are left out of every part.
*/
func (s *Split) score(p *Problem, mask dataset.Mask, general float64) {
	parts := partitionCounts(p, mask, s.Column, s.Values)
	var total int
	sizes := make([]int, len(parts))
	for i, counts := range parts {
		for _, c := range counts {
			sizes[i] += c
		}
		total += sizes[i]
	}
	if total == 0 {
		return
	}
	entropies := make([]float64, len(parts))
	weights := make([]float64, len(parts))
	for i, counts := range parts {
		entropies[i] = Entropy(counts)
		weights[i] = float64(sizes[i]) / float64(total)
	}
	s.Gain = InformationGain(general, entropies, weights)
	s.GainRatio = GainRatio(s.Gain, SplitInformation(weights))
}

/*
partitionCounts returns, for each of the given values, the target class
counts of the masked samples whose column value equals it.
*/
func partitionCounts(p *Problem, mask dataset.Mask, column, values []float64) [][]int {
	size := p.Catalog.DomainSize(p.Target)
	index := make(map[float64]int, len(values))
	parts := make([][]int, len(values))
	for i, v := range values {
		index[v] = i
		parts[i] = make([]int, size)
	}
	for _, i := range mask.Indices() {
		part, ok := index[column[i]]
		if !ok {
			continue
		}
		class := int(p.Matrix.At(i, p.Target))
		if class < 0 || class >= size {
			continue
		}
		parts[part][class]++
	}
	return parts
}

/*
bestThreshold returns the midpoint between consecutive distinct values of a
continuous feature among the masked samples that minimises the weighted
entropy of the two-way partition, the lowest one on ties. With fewer than two
distinct values the only value is returned, or 0 if there is none.

The masked samples are counted once per distinct value and the partitions
are swept from the lowest threshold up.
*/
func bestThreshold(p *Problem, mask dataset.Mask, f int) float64 {
	distinct := dataset.Distinct(p.Matrix, mask, f)
	switch len(distinct) {
	case 0:
		return 0
	case 1:
		return distinct[0]
	}
	size := p.Catalog.DomainSize(p.Target)
	index := make(map[float64]int, len(distinct))
	byValue := make([][]int, len(distinct))
	for i, v := range distinct {
		index[v] = i
		byValue[i] = make([]int, size)
	}
	below, above := make([]int, size), make([]int, size)
	var nBelow, nAbove int
	for _, i := range mask.Indices() {
		j, ok := index[p.Matrix.At(i, f)]
		if !ok {
			continue
		}
		class := int(p.Matrix.At(i, p.Target))
		if class < 0 || class >= size {
			continue
		}
		byValue[j][class]++
		above[class]++
		nAbove++
	}
	result, best := 0.0, math.Inf(1)
	for i := range distinct[1:] {
		for class, c := range byValue[i] {
			below[class] += c
			above[class] -= c
			nBelow += c
			nAbove -= c
		}
		threshold := (distinct[i] + distinct[i+1]) / 2
		e := (float64(nBelow)*Entropy(below) + float64(nAbove)*Entropy(above)) / float64(nBelow+nAbove)
		if e < best {
			result, best = threshold, e
		}
	}
	return result
}

// binaryColumn maps every value of a column to tree.Below or tree.AtOrAbove
// the threshold. NaN values stay NaN.
func binaryColumn(column []float64, threshold float64) []float64 {
	result := make([]float64, len(column))
	for i, v := range column {
		switch {
		case math.IsNaN(v):
			result[i] = v
		case v < threshold:
			result[i] = tree.Below
		default:
			result[i] = tree.AtOrAbove
		}
	}
	return result
}
