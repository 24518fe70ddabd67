package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/dataset/csv"
	"github.com/uab-projects/decision-trees/dataset/mongodataset"
	"github.com/uab-projects/decision-trees/dataset/npy"
	"github.com/uab-projects/decision-trees/dataset/sqldataset"
	"github.com/uab-projects/decision-trees/dataset/sqldataset/pgadapter"
	"github.com/uab-projects/decision-trees/dataset/sqldataset/sqlite3adapter"
	"github.com/uab-projects/decision-trees/feature"
	"github.com/uab-projects/decision-trees/feature/yaml"
	"github.com/uab-projects/decision-trees/tree"
	"github.com/uab-projects/decision-trees/tree/badgerstore"
	"github.com/uab-projects/decision-trees/tree/json"
	"github.com/uab-projects/decision-trees/tree/redisstore"
)

const (
	datasetLocations = "a CSV (.csv), NumPy (.npy) or SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) URL"
	cachePrefix      = "dtree"
)

var validate = validator.New()

type metadataConfig struct {
	Metadata string `validate:"required"`
	Meanings string
}

func (mc *metadataConfig) bindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&(mc.Metadata), "metadata", "m", "", "path to a YML file with metadata describing the features available on the input (required)")
	cmd.PersistentFlags().StringVar(&(mc.Meanings), "meanings", "", "path to a YML file with the human-readable meanings of features and their values")
}

func (tc *treeConfig) bindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&(tc.Tree), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON (required unless tree-id is set)")
	cmd.PersistentFlags().StringVar(&(tc.TreeID), "tree-id", "", "ID of the tree to load from the cache")
	cmd.PersistentFlags().StringVar(&(tc.Cache), "cache", "", "tree cache to load the tree from: redis://HOST:PORT/DB or badger:DIR")
}

/*
catalog reads the catalog from the metadata file and, when given, the
meanings of features and values from the meanings file.
*/
func (mc *metadataConfig) catalog() (*feature.Catalog, error) {
	c, err := yaml.ReadCatalogFromFile(mc.Metadata)
	if err != nil {
		return nil, err
	}
	if mc.Meanings != "" {
		err = yaml.ReadMeaningsFromFile(mc.Meanings, c)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

func isPostgreSQL(location string) bool {
	return strings.HasPrefix(location, "postgresql://") || strings.HasPrefix(location, "postgres://")
}

func isMongoDB(location string) bool {
	return strings.HasPrefix(location, "mongodb://")
}

/*
readMatrix reads the samples at the given location, which may be any of
datasetLocations or "" for CSV on STDIN.
*/
func readMatrix(ctx context.Context, location string, c *feature.Catalog, allowUndefined bool) (*dataset.Matrix, error) {
	switch {
	case isPostgreSQL(location):
		a, err := pgadapter.New(location)
		if err != nil {
			return nil, err
		}
		defer a.Close()
		return sqldataset.ReadMatrix(ctx, a, c, allowUndefined)
	case isMongoDB(location):
		mds, err := mongodataset.Dial(location, c)
		if err != nil {
			return nil, err
		}
		defer mds.Close()
		return mds.ReadMatrix(ctx, allowUndefined)
	case strings.HasSuffix(location, ".db"):
		a, err := sqlite3adapter.New(location)
		if err != nil {
			return nil, err
		}
		defer a.Close()
		return sqldataset.ReadMatrix(ctx, a, c, allowUndefined)
	case strings.HasSuffix(location, ".npy"):
		return npy.ReadMatrixFromFilePath(location, c, allowUndefined)
	}
	return csv.ReadMatrixFromFilePath(location, c, allowUndefined)
}

/*
writeMatrix writes the masked samples to the given location, which may be
any of datasetLocations or "" for CSV on STDOUT.
*/
func writeMatrix(ctx context.Context, location string, m *dataset.Matrix, mask dataset.Mask, c *feature.Catalog) error {
	switch {
	case isPostgreSQL(location):
		a, err := pgadapter.New(location)
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = sqldataset.Write(ctx, a, m, mask, c)
		return err
	case isMongoDB(location):
		mds, err := mongodataset.Dial(location, c)
		if err != nil {
			return err
		}
		defer mds.Close()
		_, err = mds.Write(ctx, m, mask)
		return err
	case strings.HasSuffix(location, ".db"):
		a, err := sqlite3adapter.New(location)
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = sqldataset.Write(ctx, a, m, mask, c)
		return err
	}
	f := os.Stdout
	if location != "" {
		var err error
		f, err = os.Create(location)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	if strings.HasSuffix(location, ".npy") {
		return npy.WriteMatrix(f, m, mask)
	}
	return csv.WriteMatrix(ctx, f, m, mask, c)
}

/*
openStore opens the tree cache at the given location: a Redis URL
(redis://) or badger:DIR for a Badger database in directory DIR.
*/
func openStore(location string) (tree.Store, error) {
	switch {
	case strings.HasPrefix(location, "redis://"):
		return redisstore.Open(location, cachePrefix)
	case strings.HasPrefix(location, "badger:"):
		return badgerstore.Open(strings.TrimPrefix(location, "badger:"))
	}
	return nil, fmt.Errorf("unknown tree cache %q: expected redis://... or badger:DIR", location)
}

/*
treeConfig describes where to load a tree from: a JSON file or the ID of a
tree in a cache.
*/
type treeConfig struct {
	Tree   string `validate:"required_without=TreeID"`
	TreeID string `validate:"required_with=Cache"`
	Cache  string `validate:"required_with=TreeID"`
}

func (tc *treeConfig) load(ctx context.Context) (*tree.Tree, error) {
	if tc.TreeID != "" {
		s, err := openStore(tc.Cache)
		if err != nil {
			return nil, err
		}
		defer s.Close(ctx)
		t, err := s.Load(ctx, tc.TreeID)
		if err != nil {
			return nil, fmt.Errorf("loading tree %s from %s: %w", tc.TreeID, tc.Cache, err)
		}
		return t, nil
	}
	return loadTree(ctx, tc.Tree)
}

func loadTree(ctx context.Context, filepath string) (*tree.Tree, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", filepath, err)
	}
	defer f.Close()
	t, err := json.ReadJSONTree(ctx, f)
	if err != nil {
		err = fmt.Errorf("parsing tree in JSON from %s: %v", filepath, err)
	}
	return t, err
}

func outputTree(ctx context.Context, outputPath string, t *tree.Tree) error {
	f := os.Stdout
	if outputPath != "" {
		var err error
		f, err = os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	return json.WriteJSONTree(ctx, t, f)
}

/*
checkCatalog returns an error if the tree uses features the catalog lacks or
splits a discrete feature at a threshold. Continuous features may be split
by value, as ID3 does.
*/
func checkCatalog(t *tree.Tree, c *feature.Catalog) error {
	if t.Target < 0 || t.Target >= c.Len() {
		return fmt.Errorf("tree predicts feature %d but the metadata describes %d features", t.Target, c.Len())
	}
	return t.Traverse(context.Background(), false, func(_ context.Context, n *tree.Node) error {
		if n.IsLeaf() {
			return nil
		}
		if n.Feature < 0 || n.Feature >= c.Len() {
			return fmt.Errorf("tree branches on feature %d but the metadata describes %d features", n.Feature, c.Len())
		}
		if n.Continuous && !c.Continuous(n.Feature) {
			return fmt.Errorf("tree splits discrete feature %s at a threshold", c.Feature(n.Feature).Name())
		}
		return nil
	})
}
