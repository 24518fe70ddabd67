package dataset

import (
	"fmt"
	"math"
	"strconv"

	"github.com/uab-projects/decision-trees/feature"
)

// Undefined is the textual value for a feature a sample does not define.
const Undefined = "?"

/*
Encoder turns textual records whose fields follow a header of feature names
into encoded samples in catalog column order, and back.
*/
type Encoder struct {
	catalog        *feature.Catalog
	positions      []int
	allowUndefined bool
}

/*
NewEncoder takes a catalog, a header with feature names and whether samples
may leave features undefined, and returns an Encoder for records following
the header. The header may list the features in any order. It returns an
error if the header names an unknown feature or names one twice, or if it
lacks a feature and undefined values are not allowed.

Undefined values are encoded as NaN, which satisfies no branch criterion.
*/
func NewEncoder(c *feature.Catalog, header []string, allowUndefined bool) (*Encoder, error) {
	positions := make([]int, c.Len())
	for i := range positions {
		positions[i] = -1
	}
	for p, name := range header {
		i, ok := c.Index(name)
		if !ok {
			return nil, fmt.Errorf("parsing header: reference to unknown feature %s", name)
		}
		if positions[i] != -1 {
			return nil, fmt.Errorf("parsing header: feature %s appears twice", name)
		}
		positions[i] = p
	}
	if !allowUndefined {
		for i, p := range positions {
			if p == -1 {
				return nil, fmt.Errorf("parsing header: missing feature %s", c.Feature(i).Name())
			}
		}
	}
	return &Encoder{c, positions, allowUndefined}, nil
}

// Catalog returns the catalog of the encoder.
func (e *Encoder) Catalog() *feature.Catalog {
	return e.catalog
}

/*
Encode takes a record following the encoder header and returns the encoded
sample, or an error if a value is not valid for its feature.
*/
func (e *Encoder) Encode(record []string) ([]float64, error) {
	sample := make([]float64, e.catalog.Len())
	for i, p := range e.positions {
		if p == -1 {
			sample[i] = math.NaN()
			continue
		}
		if p >= len(record) {
			return nil, fmt.Errorf("record has %d fields, expected at least %d", len(record), p+1)
		}
		v, err := e.encodeValue(i, record[p])
		if err != nil {
			return nil, err
		}
		sample[i] = v
	}
	return sample, nil
}

func (e *Encoder) encodeValue(i int, v string) (float64, error) {
	f := e.catalog.Feature(i)
	if v == Undefined {
		if !e.allowUndefined {
			return 0, fmt.Errorf("feature %s has no value", f.Name())
		}
		return math.NaN(), nil
	}
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		return f.Encode(v)
	case *feature.ContinuousFeature:
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("converting %s to float64: %w", v, err)
		}
		if ok, err := f.Valid(value); !ok {
			return 0, err
		}
		return value, nil
	}
	return 0, fmt.Errorf("unknown feature type %T for feature %s", f, f.Name())
}

/*
Decode takes an encoded sample in catalog column order and returns its
textual values in the same order. NaN values are decoded as Undefined.
*/
func Decode(c *feature.Catalog, sample []float64) ([]string, error) {
	if len(sample) != c.Len() {
		return nil, fmt.Errorf("sample has %d values for %d features", len(sample), c.Len())
	}
	record := make([]string, len(sample))
	for i, v := range sample {
		if math.IsNaN(v) {
			record[i] = Undefined
			continue
		}
		switch f := c.Feature(i).(type) {
		case *feature.DiscreteFeature:
			value, err := f.Decode(v)
			if err != nil {
				return nil, err
			}
			record[i] = value
		default:
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	return record, nil
}
