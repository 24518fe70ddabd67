package sqldataset

import (
	"context"
	"fmt"
	"math"

	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/feature"
)

type columns struct {
	names      []string
	discrete   []string
	continuous []string
}

func featureColumns(a Adapter, c *feature.Catalog) (*columns, error) {
	cols := &columns{names: make([]string, c.Len())}
	for i, f := range c.Features() {
		name, err := a.ColumnName(f.Name())
		if err != nil {
			return nil, err
		}
		cols.names[i] = name
		if f.Continuous() {
			cols.continuous = append(cols.continuous, name)
		} else {
			cols.discrete = append(cols.discrete, name)
		}
	}
	return cols, nil
}

/*
Write takes a context, an adapter, a matrix, a mask on it and the catalog
describing its columns and stores the masked samples in the adapter
database, creating its tables if needed. It returns the number of samples
stored and an error if not all of them could be.
*/
func Write(ctx context.Context, a Adapter, m *dataset.Matrix, mask dataset.Mask, c *feature.Catalog) (int, error) {
	cols, err := featureColumns(a, c)
	if err != nil {
		return 0, err
	}
	if err = a.CreateDiscreteValuesTable(ctx); err != nil {
		return 0, err
	}
	if err = a.CreateSampleTable(ctx, cols.discrete, cols.continuous); err != nil {
		return 0, err
	}
	ids, err := ensureDiscreteValues(ctx, a, c)
	if err != nil {
		return 0, err
	}
	rawSamples := make([]map[string]interface{}, 0, mask.Count())
	for _, i := range mask.Indices() {
		rawSample := make(map[string]interface{})
		for j, f := range c.Features() {
			v := m.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			df, ok := f.(*feature.DiscreteFeature)
			if !ok {
				rawSample[cols.names[j]] = v
				continue
			}
			value, err := df.Decode(v)
			if err != nil {
				return 0, fmt.Errorf("sample %d: %w", i, err)
			}
			rawSample[cols.names[j]] = ids[value]
		}
		rawSamples = append(rawSamples, rawSample)
	}
	return a.AddSamples(ctx, rawSamples, cols.discrete, cols.continuous)
}

// ensureDiscreteValues adds the values of the discrete features missing
// from the database and returns the ID of every value.
func ensureDiscreteValues(ctx context.Context, a Adapter, c *feature.Catalog) (map[string]int, error) {
	stored, err := a.ListDiscreteValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing discrete values: %v", err)
	}
	ids := invert(stored)
	var missing []string
	for _, f := range c.Features() {
		df, ok := f.(*feature.DiscreteFeature)
		if !ok {
			continue
		}
		for _, v := range df.AvailableValues() {
			if _, ok := ids[v]; !ok {
				ids[v] = -1
				missing = append(missing, v)
			}
		}
	}
	if len(missing) == 0 {
		return ids, nil
	}
	if _, err = a.AddDiscreteValues(ctx, missing); err != nil {
		return nil, err
	}
	stored, err = a.ListDiscreteValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing discrete values: %v", err)
	}
	return invert(stored), nil
}

func invert(values map[int]string) map[string]int {
	result := make(map[string]int, len(values))
	for id, v := range values {
		result[v] = id
	}
	return result
}

/*
ReadMatrix takes a context, an adapter and a catalog and returns the samples
stored in the adapter database as a matrix. Undefined values are read as NaN
if allowUndefined is true and are an error otherwise.
*/
func ReadMatrix(ctx context.Context, a Adapter, c *feature.Catalog, allowUndefined bool) (*dataset.Matrix, error) {
	cols, err := featureColumns(a, c)
	if err != nil {
		return nil, err
	}
	values, err := a.ListDiscreteValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing discrete values: %v", err)
	}
	var rows [][]float64
	err = a.IterateOnSamples(ctx, cols.discrete, cols.continuous, func(i int, rawSample map[string]interface{}) (bool, error) {
		row := make([]float64, c.Len())
		for j, f := range c.Features() {
			raw, ok := rawSample[cols.names[j]]
			if !ok {
				if !allowUndefined {
					return false, fmt.Errorf("sample %d: feature %s has no value", i, f.Name())
				}
				row[j] = math.NaN()
				continue
			}
			switch f := f.(type) {
			case *feature.DiscreteFeature:
				value, ok := values[raw.(int)]
				if !ok {
					return false, fmt.Errorf("sample %d: unknown discrete value id %v", i, raw)
				}
				code, err := f.Encode(value)
				if err != nil {
					return false, fmt.Errorf("sample %d: %w", i, err)
				}
				row[j] = code
			default:
				row[j] = raw.(float64)
			}
		}
		rows = append(rows, row)
		return ctx.Err() == nil, ctx.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}
	return dataset.NewMatrix(c.Len(), rows)
}
