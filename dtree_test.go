package dtree

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/feature"
	"github.com/uab-projects/decision-trees/tree"
)

func catalog(t *testing.T, fs ...feature.Feature) *feature.Catalog {
	c, err := feature.NewCatalog(fs...)
	require.NoError(t, err)
	return c
}

func matrix(t *testing.T, cols int, rows ...[]float64) *dataset.Matrix {
	m, err := dataset.NewMatrix(cols, rows)
	require.NoError(t, err)
	return m
}

// abc is the two categorical features A, B and target C dataset where A
// alone decides C.
func abc(t *testing.T) (*feature.Catalog, *dataset.Matrix) {
	c := catalog(t,
		feature.NewDiscreteFeature("A", []string{"x", "y"}),
		feature.NewDiscreteFeature("B", []string{"0", "1"}),
		feature.NewDiscreteFeature("C", []string{"p", "q"}),
	)
	return c, matrix(t, 3,
		[]float64{0, 0, 0},
		[]float64{0, 1, 0},
		[]float64{1, 0, 1},
		[]float64{1, 1, 1},
	)
}

// tennis is the classic play tennis dataset: outlook, temperature,
// humidity, wind and play.
func tennis(t *testing.T) (*feature.Catalog, *dataset.Matrix) {
	c := catalog(t,
		feature.NewDiscreteFeature("outlook", []string{"sunny", "overcast", "rain"}),
		feature.NewDiscreteFeature("temperature", []string{"hot", "mild", "cool"}),
		feature.NewDiscreteFeature("humidity", []string{"high", "normal"}),
		feature.NewDiscreteFeature("wind", []string{"weak", "strong"}),
		feature.NewDiscreteFeature("play", []string{"no", "yes"}),
	)
	return c, matrix(t, 5,
		[]float64{0, 0, 0, 0, 0},
		[]float64{0, 0, 0, 1, 0},
		[]float64{1, 0, 0, 0, 1},
		[]float64{2, 1, 0, 0, 1},
		[]float64{2, 2, 1, 0, 1},
		[]float64{2, 2, 1, 1, 0},
		[]float64{1, 2, 1, 1, 1},
		[]float64{0, 1, 0, 0, 0},
		[]float64{0, 2, 1, 0, 1},
		[]float64{2, 1, 1, 0, 1},
		[]float64{0, 1, 1, 1, 1},
		[]float64{1, 1, 0, 1, 1},
		[]float64{1, 0, 1, 0, 1},
		[]float64{2, 1, 0, 1, 0},
	)
}

// thresholds is a single continuous feature T deciding the target C at 2.5.
func thresholds(t *testing.T) (*feature.Catalog, *dataset.Matrix) {
	c := catalog(t,
		feature.NewContinuousFeature("T"),
		feature.NewDiscreteFeature("C", []string{"p", "q"}),
	)
	return c, matrix(t, 2,
		[]float64{3, 1},
		[]float64{1, 0},
		[]float64{4, 1},
		[]float64{2, 0},
	)
}

func TestEntropy(t *testing.T) {
	assert.Equal(t, 0.0, Entropy(nil))
	assert.Equal(t, 0.0, Entropy([]int{}))
	assert.Equal(t, 0.0, Entropy([]int{7}))
	assert.Equal(t, 0.0, Entropy([]int{0, 7, 0}))
	assert.InDelta(t, 1.0, Entropy([]int{3, 3}), 1e-12)
	assert.InDelta(t, 2.0, Entropy([]int{1, 1, 1, 1}), 1e-12)
	assert.InDelta(t, 0.940286, Entropy([]int{5, 9}), 1e-6)
}

func TestSplitInformationAndGainRatio(t *testing.T) {
	assert.InDelta(t, 1.0, SplitInformation([]float64{0.5, 0.5}), 1e-12)
	assert.Equal(t, 0.0, SplitInformation([]float64{1, 0}))
	for _, g := range []float64{0, 0.5, 1, 42, -1} {
		assert.Equal(t, 0.0, GainRatio(g, 0))
	}
	assert.InDelta(t, 0.5, GainRatio(0.5, 1), 1e-12)
	assert.InDelta(t, 0.25, InformationGain(1, []float64{0.5, 1}, []float64{0.5, 0.25}), 1e-12)
}

func TestInformationGainOfTargetAgainstItself(t *testing.T) {
	c, m := tennis(t)
	p := &Problem{Matrix: m, Catalog: c, Target: 4}
	mask := dataset.Full(m.Rows())
	counts, err := dataset.ClassCounts(m, mask, 4, 2)
	require.NoError(t, err)
	general := Entropy(counts)

	s := &Split{Feature: 4, Values: c.Domain(4), Column: m.Column(4)}
	s.score(p, mask, general)
	assert.InDelta(t, general, s.Gain, 1e-12)
}

func TestSelectorsChooseDecisiveFeature(t *testing.T) {
	c, m := abc(t)
	p := &Problem{Matrix: m, Catalog: c, Target: 2}
	candidates := []int{0, 1}
	for _, sel := range []SplitSelector{ID3(), C45()} {
		t.Run(sel.Name(), func(t *testing.T) {
			s, err := sel.SelectSplit(p, dataset.Full(4), candidates)
			require.NoError(t, err)
			assert.Equal(t, 0, s.Feature)
			assert.False(t, s.Continuous)
			assert.Equal(t, []float64{0, 1}, s.Values)
			assert.InDelta(t, 1.0, s.Gain, 1e-12)
			assert.InDelta(t, 1.0, s.GainRatio, 1e-12)
			assert.Equal(t, []int{0, 1}, candidates)
		})
	}
}

func TestSelectorTiesKeepCandidateOrder(t *testing.T) {
	c, m := abc(t)
	p := &Problem{Matrix: m, Catalog: c, Target: 2}
	// Both features score 0 among the x samples.
	mask := dataset.Mask{true, true, false, false}
	s, err := ID3().SelectSplit(p, mask, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Feature)
	s, err = C45().SelectSplit(p, mask, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Feature)
}

func TestOneSidedSplitScoresZero(t *testing.T) {
	c, m := abc(t)
	p := &Problem{Matrix: m, Catalog: c, Target: 2}
	// Both samples have B=0.
	s, err := C45().SelectSplit(p, dataset.Mask{true, false, true, false}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Feature)
	assert.Equal(t, 0.0, s.Gain)
	assert.Equal(t, 0.0, s.GainRatio)
}

func TestSelectSplitWithoutCandidates(t *testing.T) {
	c, m := abc(t)
	p := &Problem{Matrix: m, Catalog: c, Target: 2}
	_, err := ID3().SelectSplit(p, dataset.Full(4), nil)
	assert.Error(t, err)
	_, err = C45().SelectSplit(p, dataset.Full(4), []int{2})
	assert.Error(t, err)
}

func TestThresholdSearch(t *testing.T) {
	c, m := thresholds(t)
	p := &Problem{Matrix: m, Catalog: c, Target: 1}
	s, err := C45().SelectSplit(p, dataset.Full(4), []int{0})
	require.NoError(t, err)
	assert.True(t, s.Continuous)
	assert.Equal(t, 2.5, s.Threshold)
	assert.Equal(t, []float64{tree.Below, tree.AtOrAbove}, s.Values)
	assert.Equal(t, []float64{tree.AtOrAbove, tree.Below, tree.AtOrAbove, tree.Below}, s.Column)
	assert.InDelta(t, 1.0, s.Gain, 1e-12)
}

func TestThresholdSearchDegenerateValues(t *testing.T) {
	c, m := thresholds(t)
	p := &Problem{Matrix: m, Catalog: c, Target: 1}
	assert.Equal(t, 3.0, bestThreshold(p, dataset.Mask{true, false, false, false}, 0))
	assert.Equal(t, 0.0, bestThreshold(p, dataset.Mask{false, false, false, false}, 0))

	// 1.5 and 2.5 leave the same weighted entropy: the lowest one wins.
	c, m = catalog(t, feature.NewContinuousFeature("T"), feature.NewDiscreteFeature("C", []string{"p", "q"})), matrix(t, 2,
		[]float64{1, 0},
		[]float64{2, 1},
		[]float64{3, 0},
	)
	p = &Problem{Matrix: m, Catalog: c, Target: 1}
	assert.Equal(t, 1.5, bestThreshold(p, dataset.Full(3), 0))
}

func TestThresholdSearchOnlyCountsMaskedSamples(t *testing.T) {
	c := catalog(t, feature.NewContinuousFeature("T"), feature.NewDiscreteFeature("C", []string{"p", "q"}))
	m := matrix(t, 2,
		[]float64{1, 0},
		[]float64{2, 0},
		[]float64{3, 1},
		[]float64{4, 1},
		[]float64{5, 0},
		[]float64{6, 0},
		[]float64{math.NaN(), 1},
	)
	p := &Problem{Matrix: m, Catalog: c, Target: 1}
	assert.Equal(t, 2.5, bestThreshold(p, dataset.Full(7), 0))
	assert.Equal(t, 4.5, bestThreshold(p, dataset.Mask{false, false, true, true, true, true, true}, 0))
	assert.Equal(t, 2.5, bestThreshold(p, dataset.Mask{true, true, true, true, false, false, false}, 0))
}

func TestBuildEndToEnd(t *testing.T) {
	c, m := abc(t)
	for _, sel := range []SplitSelector{ID3(), C45()} {
		t.Run(sel.Name(), func(t *testing.T) {
			tr, err := NewBuilder(c, 2, sel).Build(context.Background(), m)
			require.NoError(t, err)
			assert.Equal(t, sel.Name(), tr.Algorithm)
			assert.Equal(t, 2, tr.Target)
			assert.Equal(t, 1, tr.Depth())
			require.Len(t, tr.Leaves(), 2)
			assert.Equal(t, 0, tr.Root.Feature)
			assert.Equal(t, 0.0, tr.Root.Children[0].Class)
			assert.Equal(t, 1.0, tr.Root.Children[1].Class)
			assert.Equal(t, "1", tr.Root.ID)

			acc, err := Validate(tr, m, 2)
			require.NoError(t, err)
			assert.Equal(t, Accuracy{Hits: 4, Total: 4}, acc)
			assert.Equal(t, 1.0, acc.Ratio())
		})
	}
}

func TestBuildContinuous(t *testing.T) {
	c, m := thresholds(t)
	tr, err := NewBuilder(c, 1, C45()).Build(context.Background(), m)
	require.NoError(t, err)
	require.True(t, tr.Root.Continuous)
	assert.Equal(t, 2.5, tr.Root.Threshold)
	assert.Len(t, tr.Leaves(), 2)

	for v, class := range map[float64]float64{-3: 0, 2.4: 0, 2.5: 1, 100: 1} {
		got, err := Classify(tr, dataset.Row{v, math.NaN()})
		require.NoError(t, err)
		assert.Equal(t, class, got, "value %v", v)
	}
}

func TestID3PartitionsContinuousByValue(t *testing.T) {
	c, m := thresholds(t)
	tr, err := NewBuilder(c, 1, ID3()).Build(context.Background(), m)
	require.NoError(t, err)
	assert.False(t, tr.Root.Continuous)
	require.Len(t, tr.Root.Children, 4)
	assert.Equal(t, 1.0, tr.Root.Children[0].Discriminant)

	got, err := Classify(tr, dataset.Row{4, 0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
	// 2.5 was never seen: every child has one sample, the first one wins.
	got, err = Classify(tr, dataset.Row{2.5, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestUnseenValueFallsBackToMajorityChild(t *testing.T) {
	c := catalog(t,
		feature.NewDiscreteFeature("A", []string{"x", "y", "z"}),
		feature.NewDiscreteFeature("C", []string{"p", "q"}),
	)
	m := matrix(t, 2,
		[]float64{0, 0},
		[]float64{0, 0},
		[]float64{0, 0},
		[]float64{1, 1},
	)
	tr, err := NewBuilder(c, 1, ID3()).Build(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, tr.Root.Children, 2, "z has no support")
	assert.Equal(t, 3, tr.Root.Children[0].Samples)
	assert.Equal(t, 1, tr.Root.Children[1].Samples)

	got, err := Classify(tr, dataset.Row{2, math.NaN()})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
	got, err = Classify(tr, dataset.Row{math.NaN(), math.NaN()})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestBuildTennis(t *testing.T) {
	c, m := tennis(t)
	for _, sel := range []SplitSelector{ID3(), C45()} {
		t.Run(sel.Name(), func(t *testing.T) {
			b := NewBuilder(c, 4, sel)
			tr, err := b.Build(context.Background(), m)
			require.NoError(t, err)

			assert.Equal(t, 0, tr.Root.Feature, "outlook at the root")
			assert.Equal(t, 2, tr.Depth())
			assert.Equal(t, 8, tr.Len())
			assert.Equal(t, 2, tr.Root.Children[0].Feature, "humidity when sunny")
			assert.True(t, tr.Root.Children[1].IsLeaf(), "overcast is pure")
			assert.Equal(t, 3, tr.Root.Children[2].Feature, "wind when raining")
			assert.LessOrEqual(t, tr.Depth(), c.Len()-1)

			require.NoError(t, tr.Traverse(context.Background(), false, func(_ context.Context, n *tree.Node) error {
				if n.IsLeaf() {
					return nil
				}
				var sum int
				for _, st := range n.Children {
					sum += st.Samples
				}
				assert.Equal(t, n.Samples, sum, "node %s", n.ID)
				return nil
			}))

			again, err := b.Build(context.Background(), m)
			require.NoError(t, err)
			assert.Equal(t, tr.String(), again.String())

			acc, err := Validate(tr, m, 4)
			require.NoError(t, err)
			assert.Equal(t, 1.0, acc.Ratio())
		})
	}
}

func TestBuildMasked(t *testing.T) {
	c, m := tennis(t)
	// Only the sunny days.
	mask := dataset.Where(m, dataset.Full(m.Rows()), feature.NewDiscreteCriterion(0, 0))
	tr, err := NewBuilder(c, 4, ID3()).BuildMasked(context.Background(), m, mask)
	require.NoError(t, err)
	assert.Equal(t, 5, tr.Root.Samples)
	assert.Equal(t, 2, tr.Root.Feature)

	acc, err := ValidateMasked(tr, m, mask, 4)
	require.NoError(t, err)
	assert.Equal(t, Accuracy{Hits: 5, Total: 5}, acc)
}

func TestMinimumEntropy(t *testing.T) {
	c, m := tennis(t)
	tr, err := NewBuilder(c, 4, ID3(), WithStop(MinimumEntropy(1))).Build(context.Background(), m)
	require.NoError(t, err)
	require.True(t, tr.Root.IsLeaf())
	assert.Equal(t, 1.0, tr.Root.Class)
	assert.Equal(t, 14, tr.Root.Samples)
}

func TestMajorityKeepsLowestClassOnTies(t *testing.T) {
	assert.Equal(t, 0.0, majority([]int{2, 2}))
	assert.Equal(t, 1.0, majority([]int{1, 3, 3}))
	assert.Equal(t, 0.0, majority(nil))
}

func TestBuildFailsFast(t *testing.T) {
	c, m := abc(t)
	ctx := context.Background()

	for _, target := range []int{-1, 3} {
		_, err := NewBuilder(c, target, ID3()).Build(ctx, m)
		assert.ErrorIs(t, err, ErrInvalidTarget)
	}
	_, tm := thresholds(t)
	_, err := NewBuilder(catalog(t, feature.NewDiscreteFeature("C", []string{"p"}), feature.NewContinuousFeature("T")), 1, C45()).Build(ctx, tm)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = NewBuilder(c, 2, ID3()).BuildMasked(ctx, m, dataset.Full(3))
	assert.ErrorIs(t, err, ErrMaskMismatch)
	_, err = NewBuilder(c, 2, ID3()).BuildMasked(ctx, m, make(dataset.Mask, 4))
	assert.ErrorIs(t, err, ErrEmptyTrainingSet)
	_, err = NewBuilder(c, 2, ID3()).Build(ctx, tm)
	assert.ErrorIs(t, err, ErrSampleMismatch)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewBuilder(c, 2, ID3()).Build(cancelled, m)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildIsNotReentrant(t *testing.T) {
	c, m := abc(t)
	var b *Builder
	var inner error
	b = NewBuilder(c, 2, ID3(), WithStop(StopFunc(func(counts, candidates []int) bool {
		if inner == nil {
			_, inner = b.Build(context.Background(), m)
		}
		return true
	})))
	tr, err := b.Build(context.Background(), m)
	require.NoError(t, err)
	assert.True(t, tr.Root.IsLeaf())
	assert.ErrorIs(t, inner, ErrAlreadyRunning)

	_, err = b.Build(context.Background(), m)
	assert.NoError(t, err, "the guard is released after a run")
}

func TestBuilderLogsSplits(t *testing.T) {
	c, m := abc(t)
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := NewBuilder(c, 2, C45(), WithLogger(l)).Build(context.Background(), m)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "split selected")
	assert.Contains(t, buf.String(), "feature=A")
}

func TestValidateEmptySet(t *testing.T) {
	c, m := abc(t)
	tr, err := NewBuilder(c, 2, ID3()).Build(context.Background(), m)
	require.NoError(t, err)

	_, err = Validate(tr, matrix(t, 3), 2)
	assert.ErrorIs(t, err, ErrEmptyValidationSet)
	_, err = ValidateMasked(tr, m, make(dataset.Mask, 4), 2)
	assert.ErrorIs(t, err, ErrEmptyValidationSet)
	_, err = ValidateMasked(tr, m, dataset.Full(2), 2)
	assert.ErrorIs(t, err, ErrMaskMismatch)
	_, err = Validate(tr, m, 5)
	assert.ErrorIs(t, err, ErrSampleMismatch)
	assert.Equal(t, 0.0, Accuracy{}.Ratio())
}

func TestClassifyErrors(t *testing.T) {
	c, m := abc(t)
	tr, err := NewBuilder(c, 2, ID3()).Build(context.Background(), m)
	require.NoError(t, err)
	_, err = Classify(tr, dataset.Row{})
	assert.Error(t, err)
	_, err = Classify(&tree.Tree{}, dataset.Row{0})
	assert.Error(t, err)
}
