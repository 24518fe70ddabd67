package main

import (
	"github.com/spf13/cobra"
	"github.com/uab-projects/decision-trees/dataset"
)

type splitCmdConfig struct {
	*rootCmdConfig
	metadataConfig
	Input            string
	Output           string
	SplitOutput      string `validate:"required"`
	SplitProbability int    `validate:"min=1,max=100"`
	Seed             int64
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &splitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a set at random into an output set and a split set, as for holding samples out for validation`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fail(1, err)
			}
			ctx, cancel := commandContext()
			defer cancel()
			config.Logf("Reading features from metadata at %s...", config.Metadata)
			c, err := config.catalog()
			if err != nil {
				fail(2, err)
			}
			config.Logf("Reading input set from %s...", describeLocation(config.Input))
			m, err := readMatrix(ctx, config.Input, c, true)
			if err != nil {
				fail(3, err)
			}
			rest, split, err := dataset.Holdout(m.Rows(), float64(config.SplitProbability)/100, newRand(config.Seed))
			if err != nil {
				fail(4, err)
			}
			config.Logf("Writing output set to %s...", describeLocation(config.Output))
			err = writeMatrix(ctx, config.Output, m, rest, c)
			if err != nil {
				fail(5, err)
			}
			config.Logf("Writing split set to %s...", config.SplitOutput)
			err = writeMatrix(ctx, config.SplitOutput, m, split, c)
			if err != nil {
				fail(6, err)
			}
			config.Logf("Done")
			config.Logf("Input set with %d samples was split into sets with %d and %d samples", m.Rows(), rest.Count(), split.Count())
		},
	}
	config.metadataConfig.bindFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.Input), "input", "i", "", "path to "+datasetLocations+" with the set to split (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.Output), "output", "o", "", "path to "+datasetLocations+" to dump the output set (defaults to STDOUT in CSV)")
	cmd.PersistentFlags().IntVarP(&(config.SplitProbability), "split-probability", "p", 20, "percent of the samples of the set assigned to the split set")
	cmd.PersistentFlags().StringVarP(&(config.SplitOutput), "split-output", "s", "", "path to "+datasetLocations+" to dump the split set (required)")
	cmd.PersistentFlags().Int64Var(&(config.Seed), "seed", 0, "seed for the split (defaults to 0: seeded with the current time)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	return validate.Struct(scc)
}
