package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	dtree "github.com/uab-projects/decision-trees"
)

type testCmdConfig struct {
	*rootCmdConfig
	metadataConfig
	treeConfig
	Input string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
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
			t, err := config.load(ctx)
			if err != nil {
				fail(3, err)
			}
			if err = checkCatalog(t, c); err != nil {
				fail(3, err)
			}
			config.Logf("Reading testing set from %s...", describeLocation(config.Input))
			m, err := readMatrix(ctx, config.Input, c, true)
			if err != nil {
				fail(4, err)
			}
			config.Logf("Testing tree against testset with %d samples...", m.Rows())
			a, err := dtree.Validate(t, m, t.Target)
			if errors.Is(err, dtree.ErrEmptyValidationSet) {
				fmt.Fprintln(cmd.OutOrStdout(), err)
				return
			}
			if err != nil {
				fail(5, fmt.Errorf("testing tree: %w", err))
			}
			config.Logf("Done")
			fmt.Fprintf(cmd.OutOrStdout(), "%f success rate, %d of %d samples classified correctly\n", a.Ratio(), a.Hits, a.Total)
		},
	}
	config.metadataConfig.bindFlags(cmd)
	config.treeConfig.bindFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.Input), "input", "i", "", "path to "+datasetLocations+" with data to test the tree against (defaults to STDIN, interpreted as CSV)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	return validate.Struct(tcc)
}
