package npy

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/feature"
)

func catalog(t *testing.T) *feature.Catalog {
	c, err := feature.NewCatalog(
		feature.NewContinuousFeature("T"),
		feature.NewDiscreteFeature("C", []string{"p", "q"}),
	)
	require.NoError(t, err)
	return c
}

func TestRoundTrip(t *testing.T) {
	c := catalog(t)
	m, err := dataset.NewMatrix(2, [][]float64{{1.5, 0}, {2, 1}, {3, 1}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, m, dataset.Mask{true, false, true}))

	path := filepath.Join(t.TempDir(), "samples.npy")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	back, err := ReadMatrixFromFilePath(path, c, false)
	require.NoError(t, err)
	assert.Equal(t, 2, back.Rows())
	assert.Equal(t, []float64{1.5, 0}, back.Row(0))
	assert.Equal(t, []float64{3, 1}, back.Row(1))
}

func TestReadMatrixChecksCatalog(t *testing.T) {
	m, err := dataset.NewMatrix(2, [][]float64{{1, 2}})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, m, dataset.Full(1)))
	_, err = ReadMatrix(&buf, catalog(t), false)
	assert.Error(t, err, "2 is not a code of C")
}

func TestReadMatrixUndefinedValues(t *testing.T) {
	m, err := dataset.NewMatrix(2, [][]float64{{math.NaN(), 0}, {2, math.NaN()}})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, m, dataset.Full(2)))
	raw := buf.Bytes()

	_, err = ReadMatrix(bytes.NewReader(raw), catalog(t), false)
	assert.Error(t, err)

	back, err := ReadMatrix(bytes.NewReader(raw), catalog(t), true)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(back.At(0, 0)))
	assert.Equal(t, 0.0, back.At(0, 1))
	assert.Equal(t, 2.0, back.At(1, 0))
	assert.True(t, math.IsNaN(back.At(1, 1)))
}

func TestWriteEmpty(t *testing.T) {
	m, err := dataset.NewMatrix(2, [][]float64{{1, 0}})
	require.NoError(t, err)
	assert.Error(t, WriteMatrix(&bytes.Buffer{}, m, dataset.Mask{false}))
}
