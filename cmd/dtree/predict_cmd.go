package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	dtree "github.com/uab-projects/decision-trees"
	"github.com/uab-projects/decision-trees/dataset"
	"github.com/uab-projects/decision-trees/dataset/inputsample"
	"github.com/uab-projects/decision-trees/feature"
	"github.com/uab-projects/decision-trees/tree"
)

type predictCmdConfig struct {
	*rootCmdConfig
	metadataConfig
	treeConfig
	Input          string
	Interactive    bool
	UndefinedValue string `validate:"required"`
}

type stdoutFeatureValueRequester string

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the class of samples",
		Long:  `Use the loaded tree to predict the class of every sample of a data set, or of a single sample answering a reduced set of questions about its features`,
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
			if config.Interactive {
				sample := inputsample.New(os.Stdin, c, stdoutFeatureValueRequester(config.UndefinedValue), config.UndefinedValue)
				class, err := predict(t, c, sample)
				if err != nil {
					fail(4, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Predicted %s is %s\n", c.Feature(t.Target).Name(), class)
				return
			}
			m, err := readMatrix(ctx, config.Input, c, true)
			if err != nil {
				fail(4, err)
			}
			err = predictAll(cmd.OutOrStdout(), t, c, m)
			if err != nil {
				fail(5, err)
			}
		},
	}
	config.metadataConfig.bindFlags(cmd)
	config.treeConfig.bindFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.Input), "input", "i", "", "path to "+datasetLocations+" with the samples to classify, which may lack the class feature (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().BoolVar(&(config.Interactive), "interactive", false, "classify a single sample asking for the values of its features on STDIN")
	cmd.PersistentFlags().StringVarP(&(config.UndefinedValue), "undefined-value", "u", dataset.Undefined, "value to input to define a sample's value for a feature as undefined")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	return validate.Struct(pcc)
}

func predict(t *tree.Tree, c *feature.Catalog, s dataset.Sample) (string, error) {
	class, err := dtree.Classify(t, s)
	if err != nil {
		return "", err
	}
	return c.ValueMeaning(t.Target, class), nil
}

// predictAll writes the predicted class of every sample, one per line.
func predictAll(w io.Writer, t *tree.Tree, c *feature.Catalog, m *dataset.Matrix) error {
	for i := 0; i < m.Rows(); i++ {
		class, err := predict(t, c, dataset.Row(m.RowView(i)))
		if err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
		fmt.Fprintln(w, class)
	}
	return nil
}

func (sfvr stdoutFeatureValueRequester) RequestValueFor(f feature.Feature) error {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		fmt.Printf("Please provide the sample's %s:\n(valid values are %v or %s if undefined)\n", f.Name(), f.AvailableValues(), string(sfvr))
	case *feature.ContinuousFeature:
		fmt.Printf("Please provide the sample's %s:\n(valid values are real numbers or %s if undefined)\n", f.Name(), string(sfvr))
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}

func (sfvr stdoutFeatureValueRequester) RejectValueFor(f feature.Feature, value string) error {
	switch f := f.(type) {
	case *feature.DiscreteFeature:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide one of %v or %s if undefined.\n", value, f.Name(), f.AvailableValues(), string(sfvr))
	case *feature.ContinuousFeature:
		fmt.Printf("%v is not a valid value for the sample's %s. Please provide a real number or %s if undefined.\n", value, f.Name(), string(sfvr))
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}
