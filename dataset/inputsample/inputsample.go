/*
Package inputsample provides an implementation of dataset.Sample whose values
are read from an io.Reader as they are needed.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/feature"
)

type readSample struct {
	obtainedValues        map[int]float64
	undefinedValue        string
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	catalog               *feature.Catalog
}

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, string) error
}

/*
New takes an io.Reader, a catalog, a FeatureValueRequester and an
undefinedValue coding string and returns a Sample.

The returned Sample ValueFor method reads feature values first
requesting them with the given FeatureValueRequester and
then parsing the values from the reader. Each value is read once:
later calls for the same feature return the value already read.

Values are expected one per line. A line with the undefinedValue
string is interpreted as an undefined value and encoded as NaN.

For a continuous feature, lines are read until one containing a valid
number is found. For a discrete feature, lines are read until one with
an available value of the feature is found. Non accepted lines are
rejected with the FeatureValueRequester's RejectValueFor method.
*/
func New(r io.Reader, c *feature.Catalog, featureValueRequester FeatureValueRequester, undefinedValue string) dataset.Sample {
	scanner := bufio.NewScanner(r)
	return &readSample{make(map[int]float64), undefinedValue, scanner, featureValueRequester, c}
}

func (rs *readSample) ValueFor(i int) (float64, error) {
	value, ok := rs.obtainedValues[i]
	if ok {
		return value, nil
	}
	if i < 0 || i >= rs.catalog.Len() {
		return math.NaN(), fmt.Errorf("have no information about feature %d, do not know how to read its value", i)
	}
	f := rs.catalog.Feature(i)
	err := rs.featureValueRequester.RequestValueFor(f)
	if err != nil {
		return math.NaN(), err
	}
	value, err = rs.read(f)
	if err != nil {
		return math.NaN(), err
	}
	rs.obtainedValues[i] = value
	return value, nil
}

func (rs *readSample) read(f feature.Feature) (float64, error) {
	var err error
	for rs.scanner.Scan() {
		line := strings.TrimSpace(rs.scanner.Text())
		if line == rs.undefinedValue {
			return math.NaN(), nil
		}
		value, ok := parse(f, line)
		if ok {
			return value, nil
		}
		err = rs.featureValueRequester.RejectValueFor(f, line)
		if err != nil {
			return math.NaN(), err
		}
	}
	err = rs.scanner.Err()
	if err != nil {
		return math.NaN(), err
	}
	return math.NaN(), fmt.Errorf("EOF when requesting value for %s", f.Name())
}

func parse(f feature.Feature, line string) (float64, bool) {
	if df, ok := f.(*feature.DiscreteFeature); ok {
		value, err := df.Encode(line)
		return value, err == nil
	}
	value, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, false
	}
	if ok, _ := f.Valid(value); !ok {
		return 0, false
	}
	return value, true
}
