package feature

import (
	"fmt"
	"strconv"
)

/*
Catalog describes the columns of a sample matrix: one feature per column,
in column order, along with optional human-readable meanings for features
and for the values of discrete features.
*/
type Catalog struct {
	features      []Feature
	byName        map[string]int
	meanings      map[int]string
	valueMeanings map[int]map[string]string
}

/*
NewCatalog takes the features describing each column of a sample matrix
and returns a catalog for them, or an error if two features share a name.
*/
func NewCatalog(features ...Feature) (*Catalog, error) {
	c := &Catalog{
		features:      make([]Feature, 0, len(features)),
		byName:        make(map[string]int, len(features)),
		meanings:      make(map[int]string),
		valueMeanings: make(map[int]map[string]string),
	}
	for i, f := range features {
		if f == nil {
			return nil, fmt.Errorf("feature %d is nil", i)
		}
		if _, ok := c.byName[f.Name()]; ok {
			return nil, fmt.Errorf("feature %s is defined more than once", f.Name())
		}
		c.byName[f.Name()] = i
		c.features = append(c.features, f)
	}
	return c, nil
}

// Len returns the number of features in the catalog.
func (c *Catalog) Len() int {
	return len(c.features)
}

// Feature returns the feature describing column i.
func (c *Catalog) Feature(i int) Feature {
	return c.features[i]
}

// Features returns a copy of the features in column order.
func (c *Catalog) Features() []Feature {
	return append([]Feature(nil), c.features...)
}

// Index returns the column of the feature with the given name.
func (c *Catalog) Index(name string) (int, bool) {
	i, ok := c.byName[name]
	return i, ok
}

// Continuous reports whether column i holds a continuous feature.
func (c *Catalog) Continuous(i int) bool {
	return c.features[i].Continuous()
}

/*
Domain returns the ordered codes a discrete feature may take, or nil for a
continuous feature, whose candidate values depend on the observed samples.
*/
func (c *Catalog) Domain(i int) []float64 {
	df, ok := c.features[i].(*DiscreteFeature)
	if !ok {
		return nil
	}
	domain := make([]float64, len(df.availableValues))
	for j := range domain {
		domain[j] = float64(j)
	}
	return domain
}

// DomainSize returns the number of values of a discrete feature, 0 otherwise.
func (c *Catalog) DomainSize(i int) int {
	if df, ok := c.features[i].(*DiscreteFeature); ok {
		return len(df.availableValues)
	}
	return 0
}

// SetMeaning sets the human-readable meaning of the named feature.
func (c *Catalog) SetMeaning(name, meaning string) error {
	i, ok := c.byName[name]
	if !ok {
		return fmt.Errorf("unknown feature %s", name)
	}
	c.meanings[i] = meaning
	return nil
}

/*
SetValueMeaning sets the human-readable meaning of one of the values of the
named discrete feature.
*/
func (c *Catalog) SetValueMeaning(name, value, meaning string) error {
	i, ok := c.byName[name]
	if !ok {
		return fmt.Errorf("unknown feature %s", name)
	}
	df, ok := c.features[i].(*DiscreteFeature)
	if !ok {
		return fmt.Errorf("feature %s is continuous and has no value meanings", name)
	}
	if _, err := df.Encode(value); err != nil {
		return err
	}
	if c.valueMeanings[i] == nil {
		c.valueMeanings[i] = make(map[string]string)
	}
	c.valueMeanings[i][value] = meaning
	return nil
}

// Meaning returns the meaning of feature i, or its name if it has none.
func (c *Catalog) Meaning(i int) string {
	if m, ok := c.meanings[i]; ok {
		return m
	}
	return c.features[i].Name()
}

/*
ValueMeaning returns the text for the encoded value v of feature i: the
meaning set for the value if any, the decoded value otherwise. Continuous
values are formatted as numbers.
*/
func (c *Catalog) ValueMeaning(i int, v float64) string {
	df, ok := c.features[i].(*DiscreteFeature)
	if !ok {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	value, err := df.Decode(v)
	if err != nil {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if m, ok := c.valueMeanings[i][value]; ok {
		return m
	}
	return value
}
