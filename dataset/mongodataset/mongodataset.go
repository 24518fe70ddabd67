/*
Package mongodataset stores encoded samples in a MongoDB database, one
document per sample in the samples collection, and reads them back.

Discrete values are stored as their text and continuous values as numbers.
Undefined values are left out of the documents.
*/
package mongodataset

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	samplesCollectionName = "samples"
)

/*
Dataset gives access to the samples stored in the default database of a
MongoDB session for the features of a catalog.
*/
type Dataset struct {
	session *mgo.Session
	catalog *feature.Catalog
}

/*
Open takes a MongoDB database session and a catalog and returns a Dataset
that works on the default database for that session, or an error if the
feature names cannot be used as document fields or their indexes cannot be
ensured.
*/
func Open(session *mgo.Session, c *feature.Catalog) (*Dataset, error) {
	mds := &Dataset{session, c}
	err := mds.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return mds, nil
}

/*
Dial takes a MongoDB URL whose path names the database and a catalog and
returns a Dataset on it.
*/
func Dial(url string, c *feature.Catalog) (*Dataset, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %v", url, err)
	}
	mds, err := Open(session, c)
	if err != nil {
		session.Close()
		return nil, err
	}
	return mds, nil
}

// Close closes the session of the dataset.
func (mds *Dataset) Close() {
	mds.session.Close()
}

// Write stores the masked samples of the matrix and returns how many were stored.
func (mds *Dataset) Write(ctx context.Context, m *dataset.Matrix, mask dataset.Mask) (int, error) {
	docs := make([]interface{}, 0, mask.Count())
	for _, i := range mask.Indices() {
		doc, err := encodeDoc(mds.catalog, m.RowView(i))
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	err := mds.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

/*
Read returns a channel with the samples satisfying all the given criteria,
encoded in catalog order, and a channel that gets an error if the samples
cannot be read. Both channels are closed once all samples are sent.
*/
func (mds *Dataset) Read(ctx context.Context, allowUndefined bool, criteria ...feature.Criterion) (<-chan []float64, <-chan error) {
	samples := make(chan []float64)
	errs := make(chan error, 1)
	go func() {
		defer close(samples)
		defer close(errs)
		q, err := Query(mds.catalog, criteria...)
		if err != nil {
			errs <- err
			return
		}
		iter := mds.samplesCollection().Find(q).Iter()
		defer iter.Close()
		var doc bson.M
		for iter.Next(&doc) {
			s, err := decodeDoc(mds.catalog, doc, allowUndefined)
			if err != nil {
				errs <- err
				return
			}
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case samples <- s:
			}
			doc = nil
		}
		if err = iter.Err(); err != nil {
			errs <- err
		}
	}()
	return samples, errs
}

// ReadMatrix reads all the samples satisfying the given criteria into a matrix.
func (mds *Dataset) ReadMatrix(ctx context.Context, allowUndefined bool, criteria ...feature.Criterion) (*dataset.Matrix, error) {
	var rows [][]float64
	samples, errs := mds.Read(ctx, allowUndefined, criteria...)
	for s := range samples {
		rows = append(rows, s)
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	return dataset.NewMatrix(mds.catalog.Len(), rows)
}

func (mds *Dataset) ensureIndexes() error {
	for _, f := range mds.catalog.Features() {
		fName := f.Name()
		if err := validFieldName(fName); err != nil {
			return err
		}
		index := mgo.Index{
			Key:        []string{fName},
			Background: true,
			Sparse:     true,
		}
		err := mds.samplesCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (mds *Dataset) samplesCollection() *mgo.Collection {
	return mds.session.DB("").C(samplesCollectionName)
}

func validFieldName(fName string) error {
	if fName == "_id" {
		return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
	}
	if strings.ContainsAny(fName, ".$") {
		return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
	}
	return nil
}

/*
Query returns the MongoDB query for the documents of the samples satisfying
all the given criteria. Intervals on the same feature are intersected.
*/
func Query(c *feature.Catalog, criteria ...feature.Criterion) (bson.M, error) {
	mongoQuery := make(bson.M)
	for _, fc := range criteria {
		if fc.Feature() < 0 || fc.Feature() >= c.Len() {
			return nil, fmt.Errorf("criterion on unknown feature %d", fc.Feature())
		}
		fName := c.Feature(fc.Feature()).Name()
		switch qfc := fc.(type) {
		case feature.DiscreteCriterion:
			df, ok := c.Feature(fc.Feature()).(*feature.DiscreteFeature)
			if !ok {
				mongoQuery[fName] = qfc.Value()
				continue
			}
			value, err := df.Decode(qfc.Value())
			if err != nil {
				return nil, err
			}
			mongoQuery[fName] = value
		case feature.ContinuousCriterion:
			a, b := qfc.Interval()
			rangeValue, _ := mongoQuery[fName].(bson.M)
			if rangeValue == nil {
				rangeValue = make(bson.M)
			}
			if !math.IsInf(a, 0) {
				v, ok := rangeValue["$gte"].(float64)
				if !ok || v < a {
					rangeValue["$gte"] = a
				}
			}
			if !math.IsInf(b, 0) {
				v, ok := rangeValue["$lt"].(float64)
				if !ok || v > b {
					rangeValue["$lt"] = b
				}
			}
			mongoQuery[fName] = rangeValue
		}
	}
	return mongoQuery, nil
}

func encodeDoc(c *feature.Catalog, sample []float64) (bson.M, error) {
	if len(sample) != c.Len() {
		return nil, fmt.Errorf("sample has %d values for %d features", len(sample), c.Len())
	}
	doc := make(bson.M)
	for i, f := range c.Features() {
		v := sample[i]
		if math.IsNaN(v) {
			continue
		}
		df, ok := f.(*feature.DiscreteFeature)
		if !ok {
			doc[f.Name()] = v
			continue
		}
		value, err := df.Decode(v)
		if err != nil {
			return nil, err
		}
		doc[f.Name()] = value
	}
	return doc, nil
}

func decodeDoc(c *feature.Catalog, doc bson.M, allowUndefined bool) ([]float64, error) {
	sample := make([]float64, c.Len())
	for i, f := range c.Features() {
		raw, ok := doc[f.Name()]
		if !ok || raw == nil {
			if !allowUndefined {
				return nil, fmt.Errorf("document %v: feature %s has no value", doc["_id"], f.Name())
			}
			sample[i] = math.NaN()
			continue
		}
		var err error
		switch f := f.(type) {
		case *feature.DiscreteFeature:
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("document %v: feature %s holds a %T instead of a string", doc["_id"], f.Name(), raw)
			}
			sample[i], err = f.Encode(s)
		default:
			sample[i], err = number(raw)
			if err == nil {
				_, err = f.Valid(sample[i])
			}
		}
		if err != nil {
			return nil, fmt.Errorf("document %v: %w", doc["_id"], err)
		}
	}
	return sample, nil
}

func number(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%v is a %T instead of a number", raw, raw)
}
