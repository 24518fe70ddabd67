/*
Package csv reads and writes encoded samples as CSV streams whose first row
holds the names of the features of a catalog.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/feature"
)

/*
Writer is an interface for a CSV stream to which samples
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given samples
	// and will return the actually written
	// number of samples and an error (if not all samples
	// could be written)
	Write(context.Context, [][]float64) (int, error)
	// Count returns the total number of samples written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count   int
	catalog *feature.Catalog
	w       *csv.Writer
}

/*
ReadMatrix takes an io.Reader for a CSV stream, a catalog and whether
undefined values are accepted, and returns a dataset.Matrix with the samples
parsed from the reader or an error.

The header or first row of the CSV content is expected to consist of the names
of the features in the catalog, in any order. The rest of the rows should
consist of valid values for all features and, if allowed, the '?' string to
indicate an undefined value.
*/
func ReadMatrix(reader io.Reader, c *feature.Catalog, allowUndefined bool) (*dataset.Matrix, error) {
	var rows [][]float64
	err := ReadMatrixBySample(reader, c, allowUndefined, func(_ int, s []float64) (bool, error) {
		rows = append(rows, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dataset.NewMatrix(c.Len(), rows)
}

/*
ReadMatrixBySample takes an io.Reader for a CSV stream, a catalog, whether
undefined values are accepted and a lambda function on an integer and an
encoded sample that returns a boolean value.
It parses the samples from the reader and for each it calls the lambda function
with the sample and its index as parameters. If the lambda function returns true,
it will continue processing the next sample, otherwise it will stop. An error is
returned if something goes wrong when reading the file or parsing a sample.
*/
func ReadMatrixBySample(reader io.Reader, c *feature.Catalog, allowUndefined bool, lambda func(int, []float64) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	enc, err := dataset.NewEncoder(c, header, allowUndefined)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		sample, err := enc.Encode(row)
		if err != nil {
			return fmt.Errorf("parsing line %d: %w", l, err)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadMatrixFromFilePath takes a filepath string, a catalog and whether
undefined values are accepted, opens the file to which the filepath points to
and uses ReadMatrix to return the dataset.Matrix read from it or an error.
If the filepath is "" os.Stdin is read instead.
*/
func ReadMatrixFromFilePath(filepath string, c *feature.Catalog, allowUndefined bool) (*dataset.Matrix, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	m, err := ReadMatrix(f, c, allowUndefined)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %w", filepath, err)
	}
	return m, err
}

/*
NewWriter takes an io.Writer and a catalog and returns a Writer that will
write encoded samples on the io.Writer, after a header with the names of the
features of the catalog.
*/
func NewWriter(writer io.Writer, c *feature.Catalog) (Writer, error) {
	w := csv.NewWriter(writer)
	record := make([]string, c.Len())
	for i, f := range c.Features() {
		record[i] = f.Name()
	}
	err := w.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{catalog: c, w: w}, nil
}

/*
WriteMatrix takes a context, a writer, a matrix, a mask on it and a catalog
and dumps to the writer the masked samples in CSV format. It returns an error
if something went wrong when writing to the writer or decoding the samples.
*/
func WriteMatrix(ctx context.Context, writer io.Writer, m *dataset.Matrix, mask dataset.Mask, c *feature.Catalog) error {
	cw, err := NewWriter(writer, c)
	if err != nil {
		return err
	}
	samples := make([][]float64, 0, mask.Count())
	for _, i := range mask.Indices() {
		samples = append(samples, m.RowView(i))
	}
	_, err = cw.Write(ctx, samples)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, samples [][]float64) (int, error) {
	for n, s := range samples {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := cw.writeSample(s); err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) writeSample(sample []float64) error {
	record, err := dataset.Decode(cw.catalog, sample)
	if err != nil {
		return fmt.Errorf("decoding sample %d: %v", cw.count+1, err)
	}
	err = cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
