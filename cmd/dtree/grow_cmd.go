package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	dtree "github.com/uab-projects/decision-trees"
	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/tree"
)

type growCmdConfig struct {
	*rootCmdConfig
	metadataConfig
	Input        string
	Output       string
	ClassFeature string  `validate:"required"`
	Algorithm    string  `validate:"oneof=id3 c45"`
	Holdout      int     `validate:"min=0,max=99"`
	MinEntropy   float64 `validate:"min=0"`
	Seed         int64
	Cache        string `validate:"omitempty,startswith=redis://|startswith=badger:"`
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a tree from a set of data to predict a certain feature.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fail(1, err)
			}
			ctx, cancel := commandContext()
			defer cancel()
			c, err := config.catalog()
			if err != nil {
				fail(2, err)
			}
			target, ok := c.Index(config.ClassFeature)
			if !ok {
				fail(3, fmt.Errorf("class feature '%s' is not defined", config.ClassFeature))
			}
			config.Logf("Reading training set from %s...", describeLocation(config.Input))
			m, err := readMatrix(ctx, config.Input, c, false)
			if err != nil {
				fail(4, err)
			}
			training, validation, err := config.masks(m.Rows())
			if err != nil {
				fail(5, err)
			}
			selector, err := selectorFor(config.Algorithm)
			if err != nil {
				fail(5, err)
			}
			b := dtree.NewBuilder(c, target, selector, dtree.WithLogger(config.Logger()), dtree.WithStop(stopFor(config.MinEntropy)))
			config.Logf("Growing tree from a set with %d samples and %d features to predict %s ...", training.Count(), c.Len()-1, config.ClassFeature)
			t, err := b.BuildMasked(ctx, m, training)
			if err != nil {
				fail(6, fmt.Errorf("growing the tree: %w", err))
			}
			tree.Translate(t, c)
			config.Logf("Done")
			config.Logf("%v", t)
			if config.Holdout > 0 {
				err = reportAccuracy(os.Stderr, t, m, validation)
				if err != nil {
					fail(7, err)
				}
			}
			err = outputTree(ctx, config.Output, t)
			if err != nil {
				fail(8, err)
			}
			if config.Cache != "" {
				err = cacheTree(ctx, config.Cache, t)
				if err != nil {
					fail(9, err)
				}
				fmt.Fprintf(os.Stderr, "tree cached with ID %s\n", t.ID)
			}
		},
	}
	config.metadataConfig.bindFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.Input), "input", "i", "", "path to "+datasetLocations+" with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.Output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.ClassFeature), "class-feature", "c", "", "name of the feature the generated tree should predict (required)")
	cmd.PersistentFlags().StringVarP(&(config.Algorithm), "algorithm", "a", "c45", "algorithm used to choose splits: id3 or c45")
	cmd.PersistentFlags().IntVar(&(config.Holdout), "holdout", 0, "percent of the samples held out of training to validate the tree")
	cmd.PersistentFlags().Float64Var(&(config.MinEntropy), "min-entropy", 0, "stop growing nodes whose samples have at most this target entropy")
	cmd.PersistentFlags().Int64Var(&(config.Seed), "seed", 0, "seed for the holdout split (defaults to 0: seeded with the current time)")
	cmd.PersistentFlags().StringVar(&(config.Cache), "cache", "", "tree cache to store the tree in: redis://HOST:PORT/DB or badger:DIR")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	return validate.Struct(gcc)
}

// masks returns the training and validation masks for n samples.
func (gcc *growCmdConfig) masks(n int) (dataset.Mask, dataset.Mask, error) {
	if gcc.Holdout == 0 {
		return dataset.Full(n), make(dataset.Mask, n), nil
	}
	return dataset.Holdout(n, float64(gcc.Holdout)/100, newRand(gcc.Seed))
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func selectorFor(algorithm string) (dtree.SplitSelector, error) {
	switch algorithm {
	case "id3":
		return dtree.ID3(), nil
	case "c45":
		return dtree.C45(), nil
	}
	return nil, fmt.Errorf("unknown algorithm %s", algorithm)
}

func stopFor(minEntropy float64) dtree.StopCriterion {
	if minEntropy > 0 {
		return dtree.MinimumEntropy(minEntropy)
	}
	return dtree.PureOrExhausted()
}

// reportAccuracy writes the accuracy of the tree on the masked samples.
func reportAccuracy(w io.Writer, t *tree.Tree, m *dataset.Matrix, mask dataset.Mask) error {
	a, err := dtree.ValidateMasked(t, m, mask, t.Target)
	if errors.Is(err, dtree.ErrEmptyValidationSet) {
		fmt.Fprintln(w, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("validating tree: %w", err)
	}
	fmt.Fprintf(w, "%s accuracy: %v\n", t.Algorithm, a)
	return nil
}

func cacheTree(ctx context.Context, location string, t *tree.Tree) error {
	s, err := openStore(location)
	if err != nil {
		return err
	}
	defer s.Close(ctx)
	return s.Save(ctx, t)
}

func describeLocation(location string) string {
	if location == "" {
		return "STDIN"
	}
	return location
}
