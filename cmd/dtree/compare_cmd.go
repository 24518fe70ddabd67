package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	dtree "github.com/uab-projects/decision-trees"
	"github.com/uab-projects/decision-trees/dataset"
	"golang.org/x/sync/errgroup"
)

type compareCmdConfig struct {
	*rootCmdConfig
	metadataConfig
	Input        string
	ClassFeature string  `validate:"required"`
	Holdout      int     `validate:"min=1,max=99"`
	MinEntropy   float64 `validate:"min=0"`
	Seed         int64
}

type comparison struct {
	algorithm string
	depth     int
	nodes     int
	accuracy  dtree.Accuracy
}

func compareCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &compareCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare ID3 and C4.5 on a set of data",
		Long:  `Grow an ID3 and a C4.5 tree on the same training samples and report their accuracy on the same held out samples`,
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
			m, err := readMatrix(ctx, config.Input, c, false)
			if err != nil {
				fail(4, err)
			}
			training, validation, err := dataset.Holdout(m.Rows(), float64(config.Holdout)/100, newRand(config.Seed))
			if err != nil {
				fail(5, err)
			}
			config.Logf("Growing trees from %d samples, validating on %d...", training.Count(), validation.Count())
			algorithms := []string{"id3", "c45"}
			results := make([]comparison, len(algorithms))
			g, gctx := errgroup.WithContext(ctx)
			for i, algorithm := range algorithms {
				g.Go(func() error {
					selector, err := selectorFor(algorithm)
					if err != nil {
						return err
					}
					b := dtree.NewBuilder(c, target, selector, dtree.WithLogger(config.Logger()), dtree.WithStop(stopFor(config.MinEntropy)))
					t, err := b.BuildMasked(gctx, m, training)
					if err != nil {
						return fmt.Errorf("growing %s tree: %w", algorithm, err)
					}
					a, err := dtree.ValidateMasked(t, m, validation, target)
					if err != nil {
						return fmt.Errorf("validating %s tree: %w", algorithm, err)
					}
					results[i] = comparison{algorithm, t.Depth(), t.Len(), a}
					return nil
				})
			}
			if err = g.Wait(); err != nil {
				fail(6, err)
			}
			writeComparison(cmd.OutOrStdout(), results)
		},
	}
	config.metadataConfig.bindFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.Input), "input", "i", "", "path to "+datasetLocations+" with data to grow and validate the trees (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.ClassFeature), "class-feature", "c", "", "name of the feature the trees should predict (required)")
	cmd.PersistentFlags().IntVar(&(config.Holdout), "holdout", 20, "percent of the samples held out of training to validate the trees")
	cmd.PersistentFlags().Float64Var(&(config.MinEntropy), "min-entropy", 0, "stop growing nodes whose samples have at most this target entropy")
	cmd.PersistentFlags().Int64Var(&(config.Seed), "seed", 0, "seed for the holdout split (defaults to 0: seeded with the current time)")
	return cmd
}

func (ccc *compareCmdConfig) Validate() error {
	return validate.Struct(ccc)
}

func writeComparison(w io.Writer, results []comparison) {
	for _, r := range results {
		fmt.Fprintf(w, "%s\tdepth %d\t%d nodes\taccuracy %v\n", r.algorithm, r.depth, r.nodes, r.accuracy)
	}
}
