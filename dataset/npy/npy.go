/*
Package npy reads and writes encoded samples as NumPy .npy files holding a
2-D float64 array with one row per sample and one column per feature of a
catalog, in catalog order.
*/
package npy

import (
	"fmt"
	"io"
	"os"

	"github.com/sbinet/npyio"
	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/feature"
	"gonum.org/v1/gonum/mat"
)

/*
ReadMatrix takes an io.Reader with a .npy stream, a catalog and whether
undefined values are accepted, and returns the matrix it holds. Undefined
values are stored as NaN. It returns an error if the stream cannot be
decoded as a 2-D float64 array or its values are not valid for the catalog
features.
*/
func ReadMatrix(r io.Reader, c *feature.Catalog, allowUndefined bool) (*dataset.Matrix, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading npy header: %v", err)
	}
	dense := &mat.Dense{}
	if err = nr.Read(dense); err != nil {
		return nil, fmt.Errorf("reading npy array: %v", err)
	}
	m := dataset.FromDense(dense)
	if err = dataset.Check(m, c, allowUndefined); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadMatrixFromFilePath opens the file at filepath and reads a matrix from it with ReadMatrix.
func ReadMatrixFromFilePath(filepath string, c *feature.Catalog, allowUndefined bool) (*dataset.Matrix, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %v", err)
	}
	defer f.Close()
	m, err := ReadMatrix(f, c, allowUndefined)
	if err != nil {
		return nil, fmt.Errorf("parsing npy file %s: %w", filepath, err)
	}
	return m, nil
}

/*
WriteMatrix writes the samples of the matrix in the mask as a .npy stream
on w. It returns an error if the mask selects no samples.
*/
func WriteMatrix(w io.Writer, m *dataset.Matrix, mask dataset.Mask) error {
	selected, err := m.Select(mask)
	if err != nil {
		return err
	}
	dense := selected.Dense()
	if dense == nil {
		return fmt.Errorf("cannot write a matrix without samples as npy")
	}
	return npyio.Write(w, dense)
}
