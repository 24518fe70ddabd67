package feature

import (
	"fmt"
	"math"
)

/*
Feature represents a property that can be observed on a sample.

Samples are numerically encoded: the value of a discrete feature is the
index of the value in the feature's list of available values, the value of
a continuous feature is the observed number itself.
*/
type Feature interface {
	Name() string
	Continuous() bool
	Valid(float64) (bool, error)
}

/*
DiscreteFeature represents a property that can be observed and that can only
take a value among a finite, ordered set.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
}

/*
ContinuousFeature represents a property that can be observed and that can take
a numeric value
*/
type ContinuousFeature struct {
	name string
}

/*
NewDiscreteFeature takes a name string and a slice of available value strings
and returns a discrete feature with the given names and available values.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

/*
NewContinuousFeature takes a name string and returns a continuous feature with
the given name.
*/
func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

// Continuous returns false.
func (df *DiscreteFeature) Continuous() bool {
	return false
}

/*
Valid receives an encoded value and returns a boolean and an error. When the
value is the index of one of the available values of the feature, the method
returns true and nil. Otherwise it returns false and an error describing the
reason.
*/
func (df *DiscreteFeature) Valid(value float64) (bool, error) {
	if value != math.Trunc(value) || value < 0 || int(value) >= len(df.availableValues) {
		return false, fmt.Errorf("discrete feature %s got unknown value code %v", df.name, value)
	}
	return true, nil
}

/*
AvailableValues returns a string slice with the values available for the feature
*/
func (df *DiscreteFeature) AvailableValues() []string {
	return df.availableValues
}

/*
Encode takes one of the available values of the feature and returns its
numeric code, or an error if the value is not available for the feature.
*/
func (df *DiscreteFeature) Encode(value string) (float64, error) {
	for i, av := range df.availableValues {
		if av == value {
			return float64(i), nil
		}
	}
	return 0, fmt.Errorf("discrete feature %s got unknown value %s", df.name, value)
}

/*
Decode takes a numeric code and returns the available value it stands for,
or an error if the code is not valid for the feature.
*/
func (df *DiscreteFeature) Decode(code float64) (string, error) {
	if _, err := df.Valid(code); err != nil {
		return "", err
	}
	return df.availableValues[int(code)], nil
}

func (df *DiscreteFeature) String() string {
	return df.name
}

/*
Name returns a string with the name of the feature
*/
func (cf *ContinuousFeature) Name() string {
	return cf.name
}

// Continuous returns true.
func (cf *ContinuousFeature) Continuous() bool {
	return true
}

/*
Valid receives a value and returns true and nil when it is a finite number,
otherwise it returns false and an error describing the reason.
*/
func (cf *ContinuousFeature) Valid(value float64) (bool, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false, fmt.Errorf("continuous feature %s expects a finite value, got %v", cf.name, value)
	}
	return true, nil
}

func (cf *ContinuousFeature) String() string {
	return cf.name
}
