/*
Package sqldataset stores encoded samples in SQL databases and reads them
back as matrices.

The dataset uses 2 database tables:
  - discreteValues, storing the text of discrete values
  - samples, with a column per feature

Samples are stored on the samples table, with
their discrete values as references to values in the
discreteValues table and their continuous values as
floating point numbers. Undefined values are NULL.
*/
package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const (
	/*
		MaxDiscreteValueInsertionsPerStatement is the maximum number
		of discrete values that are allowed to be added with a single
		insert command with the AddDiscreteValues method of the adapter.
		Trying to add more will result in making more insertion commands
	*/
	MaxDiscreteValueInsertionsPerStatement = 10
	/*
		MaxSampleInsertionsPerStatement is the maximum number
		of samples that are allowed to be added with a single
		insert command with the AddSamples method of the adapter.
		Trying to add more will result in making more insertion commands
	*/
	MaxSampleInsertionsPerStatement = 10
)

/*
Adapter is an interface providing the methods
needed to keep samples in a database backend.

Raw samples map column names to discrete value IDs
(int) or continuous values (float64); missing columns
are undefined values.
*/
type Adapter interface {
	ColumnName(string) (string, error)

	CreateDiscreteValuesTable(ctx context.Context) error
	CreateSampleTable(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string) error

	AddDiscreteValues(ctx context.Context, values []string) (int, error)
	ListDiscreteValues(ctx context.Context) (map[int]string, error)

	AddSamples(ctx context.Context, rawSamples []map[string]interface{}, discreteFeatureColumns, continuousFeatureColumns []string) (int, error)
	IterateOnSamples(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error

	Close() error
}

/*
Dialect holds what changes in the SQL understood by each database engine.
*/
type Dialect struct {
	// SerialKey is the column type of autoincremented integer primary keys
	SerialKey string
	// Real is the column type of double precision floating point numbers
	Real string
	// Placeholder returns the placeholder for the nth (1-based) statement parameter
	Placeholder func(n int) string
}

type adapter struct {
	db *sql.DB
	d  Dialect
}

// New returns an Adapter working on the given database with the given Dialect.
func New(db *sql.DB, d Dialect) Adapter {
	return &adapter{db, d}
}

func (a *adapter) ColumnName(featureName string) (string, error) {
	if featureName == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as feature name`, featureName)
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, featureName)
	}
	return featureName, nil
}

func (a *adapter) CreateDiscreteValuesTable(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS discreteValues (
		id %s,
		value TEXT UNIQUE NOT NULL)`, a.d.SerialKey)
	_, err := a.db.ExecContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("running discreteValues creation statement: %v", err)
	}
	return nil
}

func (a *adapter) CreateSampleTable(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string) error {
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString("CREATE TABLE IF NOT EXISTS samples(")
	for _, c := range discreteFeatureColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" INTEGER NULL REFERENCES discreteValues(id), `, c))
	}
	for _, c := range continuousFeatureColumns {
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" %s NULL, `, c, a.d.Real))
	}
	createStmtBuf.WriteString(fmt.Sprintf(`"id" %s)`, a.d.SerialKey))
	_, err := a.db.ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("ensuring samples table exists: %v", err)
	}
	return nil
}

func (a *adapter) AddDiscreteValues(ctx context.Context, values []string) (int, error) {
	var added int
	for start := 0; start < len(values); start += MaxDiscreteValueInsertionsPerStatement {
		end := start + MaxDiscreteValueInsertionsPerStatement
		if end > len(values) {
			end = len(values)
		}
		var insertStmtBuffer bytes.Buffer
		insertStmtBuffer.WriteString("INSERT INTO discreteValues (value) VALUES ")
		args := make([]interface{}, 0, end-start)
		for i, v := range values[start:end] {
			if i > 0 {
				insertStmtBuffer.WriteString(", ")
			}
			insertStmtBuffer.WriteString(fmt.Sprintf("(%s)", a.d.Placeholder(i+1)))
			args = append(args, v)
		}
		_, err := a.db.ExecContext(ctx, insertStmtBuffer.String(), args...)
		if err != nil {
			return added, fmt.Errorf("inserting %d values: %v", end-start, err)
		}
		added = end
	}
	return added, nil
}

func (a *adapter) ListDiscreteValues(ctx context.Context) (map[int]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id, value FROM discreteValues`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make(map[int]string)
	for rows.Next() {
		var id int
		var value string
		err = rows.Scan(&id, &value)
		if err != nil {
			return nil, err
		}
		result[id] = value
	}
	return result, rows.Err()
}

func (a *adapter) AddSamples(ctx context.Context, rawSamples []map[string]interface{}, discreteFeatureColumns, continuousFeatureColumns []string) (int, error) {
	columns := append(append([]string{}, discreteFeatureColumns...), continuousFeatureColumns...)
	if len(rawSamples) == 0 {
		return 0, nil
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("no features to store")
	}
	insertStmtStart := fmt.Sprintf(`INSERT INTO samples ("%s") VALUES `, strings.Join(columns, `", "`))
	var added int
	for start := 0; start < len(rawSamples); start += MaxSampleInsertionsPerStatement {
		end := start + MaxSampleInsertionsPerStatement
		if end > len(rawSamples) {
			end = len(rawSamples)
		}
		var insertStmtBuffer bytes.Buffer
		insertStmtBuffer.WriteString(insertStmtStart)
		args := make([]interface{}, 0, (end-start)*len(columns))
		for i, rs := range rawSamples[start:end] {
			if i > 0 {
				insertStmtBuffer.WriteString(", ")
			}
			insertStmtBuffer.WriteString("(")
			for j, c := range columns {
				if j > 0 {
					insertStmtBuffer.WriteString(", ")
				}
				insertStmtBuffer.WriteString(a.d.Placeholder(i*len(columns) + j + 1))
				args = append(args, rs[c])
			}
			insertStmtBuffer.WriteString(")")
		}
		_, err := a.db.ExecContext(ctx, insertStmtBuffer.String(), args...)
		if err != nil {
			return added, fmt.Errorf("inserting samples %d to %d: %v", start+1, end, err)
		}
		added = end
	}
	return added, nil
}

func (a *adapter) IterateOnSamples(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	columns := append(append([]string{}, discreteFeatureColumns...), continuousFeatureColumns...)
	query := fmt.Sprintf(`SELECT "%s" FROM samples ORDER BY "id"`, strings.Join(columns, `", "`))
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for j := 0; rows.Next(); j++ {
		rawSample := make(map[string]interface{})
		discreteValues := make([]sql.NullInt64, len(discreteFeatureColumns))
		continuousValues := make([]sql.NullFloat64, len(continuousFeatureColumns))
		values := make([]interface{}, 0, len(columns))
		for i := range discreteValues {
			values = append(values, &discreteValues[i])
		}
		for i := range continuousValues {
			values = append(values, &continuousValues[i])
		}
		err = rows.Scan(values...)
		if err != nil {
			return err
		}
		for i, c := range discreteFeatureColumns {
			if discreteValues[i].Valid {
				rawSample[c] = int(discreteValues[i].Int64)
			}
		}
		for i, c := range continuousFeatureColumns {
			if continuousValues[i].Valid {
				rawSample[c] = continuousValues[i].Float64
			}
		}
		ok, err := lambda(j, rawSample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

func (a *adapter) Close() error {
	return a.db.Close()
}
