package dataset

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uab-projects/decision-trees/feature"
)

func testCatalog(t *testing.T) *feature.Catalog {
	t.Helper()
	c, err := feature.NewCatalog(
		feature.NewDiscreteFeature("A", []string{"x", "y"}),
		feature.NewContinuousFeature("T"),
		feature.NewDiscreteFeature("C", []string{"p", "q"}),
	)
	require.NoError(t, err)
	return c
}

func testMatrix(t *testing.T) *Matrix {
	t.Helper()
	m, err := NewMatrix(3, [][]float64{
		{0, 1.5, 0},
		{0, 2.5, 0},
		{1, 2.5, 1},
		{1, 4, 1},
	})
	require.NoError(t, err)
	return m
}

func TestMatrix(t *testing.T) {
	m := testMatrix(t)
	assert.Equal(t, 4, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 2.5, m.At(2, 1))
	assert.Equal(t, []float64{1, 4, 1}, m.Row(3))
	assert.Equal(t, []float64{1.5, 2.5, 2.5, 4}, m.Column(1))

	row := m.Row(0)
	row[0] = 42
	assert.Equal(t, 0.0, m.At(0, 0), "rows are copies")

	_, err := NewMatrix(3, [][]float64{{1, 2}})
	assert.Error(t, err)

	empty, err := NewMatrix(3, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Rows())
	assert.Equal(t, 3, empty.Cols())
	assert.Empty(t, empty.Column(0))
}

func TestMatrixSelect(t *testing.T) {
	m := testMatrix(t)
	s, err := m.Select(Mask{false, true, false, true})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Rows())
	assert.Equal(t, []float64{0, 2.5, 0}, s.Row(0))
	assert.Equal(t, []float64{1, 4, 1}, s.Row(1))

	_, err = m.Select(Mask{true})
	assert.Error(t, err)
}

func TestMaskDerivationLeavesParentUntouched(t *testing.T) {
	m := testMatrix(t)
	parent := Full(m.Rows())

	left := Where(m, parent, feature.NewDiscreteCriterion(0, 0))
	right := Where(m, parent, feature.NewDiscreteCriterion(0, 1))

	assert.Equal(t, Mask{true, true, true, true}, parent)
	assert.Equal(t, []int{0, 1}, left.Indices())
	assert.Equal(t, []int{2, 3}, right.Indices())
	assert.Equal(t, parent.Count(), left.Count()+right.Count())

	above := Where(m, right, feature.NewContinuousCriterion(1, 3, math.Inf(1)))
	assert.Equal(t, []int{3}, above.Indices())
	assert.Equal(t, []int{2, 3}, right.Indices())
	assert.Equal(t, Mask{true, true, false, false}, right.Not())
}

func TestClassCounts(t *testing.T) {
	m := testMatrix(t)
	counts, err := ClassCounts(m, Full(4), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, counts)

	counts, err = ClassCounts(m, Mask{true, false, false, false}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, counts)

	_, err = ClassCounts(m, Full(4), 1, 2)
	assert.Error(t, err, "continuous values are not class codes")
}

func TestDistinct(t *testing.T) {
	m := testMatrix(t)
	assert.Equal(t, []float64{1.5, 2.5, 4}, Distinct(m, Full(4), 1))
	assert.Equal(t, []float64{2.5, 4}, Distinct(m, Mask{false, true, true, true}, 1))
	assert.Nil(t, Distinct(m, make(Mask, 4), 1))
}

func TestCheck(t *testing.T) {
	c := testCatalog(t)
	assert.NoError(t, Check(testMatrix(t), c, false))

	bad, err := NewMatrix(3, [][]float64{{2, 1, 0}})
	require.NoError(t, err)
	assert.Error(t, Check(bad, c, false))
	assert.Error(t, Check(bad, c, true))

	narrow, err := NewMatrix(2, [][]float64{{0, 1}})
	require.NoError(t, err)
	assert.Error(t, Check(narrow, c, false))

	undefined, err := NewMatrix(3, [][]float64{{math.NaN(), 1.5, 0}, {1, math.NaN(), 1}})
	require.NoError(t, err)
	assert.Error(t, Check(undefined, c, false))
	assert.NoError(t, Check(undefined, c, true))
}

func TestHoldout(t *testing.T) {
	train, validation, err := Holdout(10, 0.3, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 3, validation.Count())
	assert.Equal(t, 7, train.Count())
	for i := range train {
		assert.NotEqual(t, train[i], validation[i], "sample %d must be in exactly one mask", i)
	}

	_, _, err = Holdout(10, 1.5, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestEncoder(t *testing.T) {
	c := testCatalog(t)
	e, err := NewEncoder(c, []string{"C", "T", "A"}, false)
	require.NoError(t, err)

	sample, err := e.Encode([]string{"q", "3.5", "x"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3.5, 1}, sample)

	_, err = e.Encode([]string{"r", "3.5", "x"})
	assert.Error(t, err)
	_, err = e.Encode([]string{"q", "warm", "x"})
	assert.Error(t, err)
	_, err = e.Encode([]string{"q", Undefined, "x"})
	assert.Error(t, err)

	record, err := Decode(c, sample)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "3.5", "q"}, record)
}

func TestEncoderHeaders(t *testing.T) {
	c := testCatalog(t)
	_, err := NewEncoder(c, []string{"A", "T"}, false)
	assert.Error(t, err, "missing target")
	_, err = NewEncoder(c, []string{"A", "T", "C", "D"}, false)
	assert.Error(t, err, "unknown feature")
	_, err = NewEncoder(c, []string{"A", "A", "T", "C"}, false)
	assert.Error(t, err, "duplicated feature")

	e, err := NewEncoder(c, []string{"T", "A"}, true)
	require.NoError(t, err)
	sample, err := e.Encode([]string{Undefined, "y"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, sample[0])
	assert.True(t, math.IsNaN(sample[1]))
	assert.True(t, math.IsNaN(sample[2]))

	record, err := Decode(c, sample)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", Undefined, Undefined}, record)
}
