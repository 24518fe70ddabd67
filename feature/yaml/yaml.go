/*
Package yaml provides methods to parse feature catalogs, also known as
metadata, and the human-readable meanings of features from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"github.com/uab-projects/decision-trees/feature"
	yaml "gopkg.in/yaml.v2"
)

/*
ReadCatalog takes a slice of bytes with a feature specification in YML and
returns a catalog parsed from it or an error.
The YML is expected to be an object containing a features property. The value for this
should be an object with a property for each feature with its name and either a
string value of 'continuous' for continuous features or a list of valid values
for discrete features. Features are cataloged in the order they are declared,
which is the column order of encoded samples.
*/
func ReadCatalog(md []byte) (*feature.Catalog, error) {
	metadata := struct {
		Features yaml.MapSlice `yaml:"features"`
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %w", err)
	}
	if len(metadata.Features) == 0 {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	features := make([]feature.Feature, 0, len(metadata.Features))
	for _, item := range metadata.Features {
		fn := fmt.Sprintf("%v", item.Key)
		switch values := item.Value.(type) {
		case string:
			if values != "continuous" {
				return nil, fmt.Errorf("invalid declaration %q for feature %s", values, fn)
			}
			features = append(features, feature.NewContinuousFeature(fn))
		case []interface{}:
			if len(values) == 0 {
				return nil, fmt.Errorf("discrete feature %s declares no values", fn)
			}
			stringVs := make([]string, 0, len(values))
			for _, v := range values {
				stringVs = append(stringVs, fmt.Sprintf("%v", v))
			}
			features = append(features, feature.NewDiscreteFeature(fn, stringVs))
		default:
			return nil, fmt.Errorf("invalid feature declaration of type %T for feature %s", item.Value, fn)
		}
	}
	return feature.NewCatalog(features...)
}

/*
ReadCatalogFromFile takes a filepath string, reads its contents and uses
ReadCatalog to parse it and return the catalog or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadCatalogFromFile(filepath string) (*feature.Catalog, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %w", filepath, err)
	}
	c, err := ReadCatalog(md)
	if err != nil {
		return nil, fmt.Errorf("parsing features yml file %s: %w", filepath, err)
	}
	return c, nil
}

type meaning struct {
	Meaning string            `yaml:"meaning"`
	Values  map[string]string `yaml:"values"`
}

/*
ReadMeanings takes a slice of bytes with feature meanings in YML and sets
them on the given catalog. The YML is expected to be an object with a
meanings property holding an object with a property per feature name, whose
value has an optional meaning string and an optional values object mapping
the feature's values to their meaning:

	meanings:
	  outlook:
	    meaning: Weather outlook
	    values:
	      sunny: Sunny day

Meanings for unknown features or values are reported as errors.
*/
func ReadMeanings(md []byte, c *feature.Catalog) error {
	doc := struct {
		Meanings map[string]meaning `yaml:"meanings"`
	}{}
	err := yaml.Unmarshal(md, &doc)
	if err != nil {
		return fmt.Errorf("parsing yml meanings: %w", err)
	}
	for name, m := range doc.Meanings {
		if m.Meaning != "" {
			if err = c.SetMeaning(name, m.Meaning); err != nil {
				return err
			}
		}
		for value, vm := range m.Values {
			if err = c.SetValueMeaning(name, value, vm); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadMeaningsFromFile reads the file at filepath and applies it with ReadMeanings.
func ReadMeaningsFromFile(filepath string, c *feature.Catalog) error {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("reading meanings yml file %s: %w", filepath, err)
	}
	if err = ReadMeanings(md, c); err != nil {
		return fmt.Errorf("parsing meanings yml file %s: %w", filepath, err)
	}
	return nil
}
