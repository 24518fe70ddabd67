package feature

import (
	"fmt"
	"math"
)

/*
Criterion represents a constraint on a feature of an encoded sample.

Its Feature method returns the column of the feature on which the criterion
is applied.

Its SatisfiedBy method takes an encoded sample and returns a boolean
indicating if the sample satisfies the criterion.
*/
type Criterion interface {
	Feature() int
	SatisfiedBy(sample []float64) bool
}

/*
ContinuousCriterion represents a constraint on a continuous feature, a
range that delimits which values it may take. The interval can be open on one end,
thus representing -Infinity or +Infinity

Its Interval method returns the start and end of the interval to which the
feature is constrained as a pair of float64 values.
*/
type ContinuousCriterion interface {
	Criterion
	Interval() (float64, float64)
}

/*
DiscreteCriterion represents a constraint on a discrete feature, a
value it may take.

Its Value method returns the code of the value to which the feature is
constrained.
*/
type DiscreteCriterion interface {
	Criterion
	Value() float64
}

type continuousCriterion struct {
	feature int
	a, b    float64
}

type discreteCriterion struct {
	feature int
	value   float64
}

/*
NewContinuousCriterion takes the column of a continuous feature and a pair of
float64 values indicating the start and the end of an interval and returns a
ContinuousCriterion with the feature and interval. The interval can be
open on any end by providing -Inf and/or +Inf.
*/
func NewContinuousCriterion(feature int, a float64, b float64) ContinuousCriterion {
	return &continuousCriterion{feature, a, b}
}

/*
NewDiscreteCriterion takes the column of a discrete feature and a value code
and returns a DiscreteCriterion satisfied by samples taking that value.
*/
func NewDiscreteCriterion(feature int, value float64) DiscreteCriterion {
	return &discreteCriterion{feature, value}
}

func (cfc *continuousCriterion) Feature() int {
	return cfc.feature
}

/*
SatisfiedBy returns true if the sample value for the feature is in the range
[a, b) defined by the criterion. NaN values never satisfy it.
*/
func (cfc *continuousCriterion) SatisfiedBy(sample []float64) bool {
	if cfc.feature >= len(sample) {
		return false
	}
	v := sample[cfc.feature]
	return (math.IsInf(cfc.a, -1) || cfc.a <= v) && (math.IsInf(cfc.b, 1) || v < cfc.b)
}

func (cfc *continuousCriterion) Interval() (float64, float64) {
	return cfc.a, cfc.b
}

func (cfc *continuousCriterion) String() string {
	return cfc.Describe(fmt.Sprintf("f%d", cfc.feature))
}

// Describe renders the criterion using the given name for its feature.
func (cfc *continuousCriterion) Describe(name string) string {
	if math.IsInf(cfc.a, 0) {
		return fmt.Sprintf("%s < %g", name, cfc.b)
	}
	if math.IsInf(cfc.b, 0) {
		return fmt.Sprintf("%s >= %g", name, cfc.a)
	}
	return fmt.Sprintf("%g <= %s < %g", cfc.a, name, cfc.b)
}

func (dfc *discreteCriterion) Feature() int {
	return dfc.feature
}

/*
SatisfiedBy returns true if the sample value for the feature equals the
value on the criterion.
*/
func (dfc *discreteCriterion) SatisfiedBy(sample []float64) bool {
	return dfc.feature < len(sample) && sample[dfc.feature] == dfc.value
}

func (dfc *discreteCriterion) Value() float64 {
	return dfc.value
}

func (dfc *discreteCriterion) String() string {
	return fmt.Sprintf("f%d is %g", dfc.feature, dfc.value)
}

/*
Describe takes a criterion and a catalog and returns a human-readable
description of the criterion using the meanings in the catalog.
*/
func Describe(c Criterion, cat *Catalog) string {
	name := cat.Meaning(c.Feature())
	switch c := c.(type) {
	case *continuousCriterion:
		return c.Describe(name)
	case DiscreteCriterion:
		return fmt.Sprintf("%s is %s", name, cat.ValueMeaning(c.Feature(), c.Value()))
	}
	return fmt.Sprintf("%v", c)
}
