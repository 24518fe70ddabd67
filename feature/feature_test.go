package feature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscreteFeatureEncoding(t *testing.T) {
	f := NewDiscreteFeature("outlook", []string{"sunny", "overcast", "rain"})

	code, err := f.Encode("rain")
	require.NoError(t, err)
	assert.Equal(t, 2.0, code)

	_, err = f.Encode("snow")
	assert.Error(t, err)

	value, err := f.Decode(1)
	require.NoError(t, err)
	assert.Equal(t, "overcast", value)

	for _, bad := range []float64{-1, 3, 0.5, math.NaN()} {
		ok, err := f.Valid(bad)
		assert.False(t, ok, "value %v", bad)
		assert.Error(t, err, "value %v", bad)
	}
}

func TestContinuousFeatureValid(t *testing.T) {
	f := NewContinuousFeature("temperature")
	ok, err := f.Valid(-3.25)
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, _ = f.Valid(math.Inf(1))
	assert.False(t, ok)
	ok, _ = f.Valid(math.NaN())
	assert.False(t, ok)
}

func TestCatalog(t *testing.T) {
	c, err := NewCatalog(
		NewDiscreteFeature("A", []string{"x", "y"}),
		NewContinuousFeature("T"),
		NewDiscreteFeature("C", []string{"p", "q", "r"}),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	i, ok := c.Index("C")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = c.Index("missing")
	assert.False(t, ok)

	assert.Equal(t, []float64{0, 1}, c.Domain(0))
	assert.Nil(t, c.Domain(1))
	assert.Equal(t, 3, c.DomainSize(2))
	assert.Equal(t, 0, c.DomainSize(1))

	_, err = NewCatalog(NewContinuousFeature("A"), NewContinuousFeature("A"))
	assert.Error(t, err)
}

func TestCriteria(t *testing.T) {
	sample := []float64{1, 2.5, 0}

	assert.True(t, NewDiscreteCriterion(0, 1).SatisfiedBy(sample))
	assert.False(t, NewDiscreteCriterion(0, 0).SatisfiedBy(sample))
	assert.False(t, NewDiscreteCriterion(5, 0).SatisfiedBy(sample))

	below := NewContinuousCriterion(1, math.Inf(-1), 2.5)
	above := NewContinuousCriterion(1, 2.5, math.Inf(1))
	assert.False(t, below.SatisfiedBy(sample))
	assert.True(t, above.SatisfiedBy(sample))
	assert.False(t, above.SatisfiedBy([]float64{0, math.NaN()}))
	assert.False(t, below.SatisfiedBy([]float64{0, math.NaN()}))
}

func TestDescribe(t *testing.T) {
	c, err := NewCatalog(
		NewDiscreteFeature("A", []string{"x", "y"}),
		NewContinuousFeature("T"),
	)
	require.NoError(t, err)
	require.NoError(t, c.SetMeaning("T", "temperature"))
	require.NoError(t, c.SetValueMeaning("A", "y", "yes"))

	assert.Equal(t, "A is yes", Describe(NewDiscreteCriterion(0, 1), c))
	assert.Equal(t, "A is x", Describe(NewDiscreteCriterion(0, 0), c))
	assert.Equal(t, "temperature < 2.5", Describe(NewContinuousCriterion(1, math.Inf(-1), 2.5), c))
	assert.Equal(t, "temperature >= 2.5", Describe(NewContinuousCriterion(1, 2.5, math.Inf(1)), c))
}
