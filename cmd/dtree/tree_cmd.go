package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uab-projects/decision-trees/tree"
	"github.com/uab-projects/decision-trees/tree/dot"
)

type treeCmdConfig struct {
	*rootCmdConfig
	metadataConfig
	treeConfig
	Format string `validate:"oneof=text dot svg png jpg"`
	Output string
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show a classification tree",
		Long:  `Show a classification tree as text or render it as a graph using the meanings of its features`,
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
			config.Logf("Features from metadata read")
			t, err := config.load(ctx)
			if err != nil {
				fail(3, err)
			}
			if err = checkCatalog(t, c); err != nil {
				fail(3, err)
			}
			tree.Translate(t, c)
			if config.Format == "text" {
				fmt.Fprintln(cmd.OutOrStdout(), t)
				return
			}
			f := os.Stdout
			if config.Output != "" {
				f, err = os.Create(config.Output)
				if err != nil {
					fail(4, err)
				}
				defer f.Close()
			}
			err = dot.Render(t, config.Format, f)
			if err != nil {
				fail(5, err)
			}
		},
	}
	config.metadataConfig.bindFlags(cmd)
	config.treeConfig.bindFlags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.Format), "format", "f", "text", "output format: text, dot, svg, png or jpg")
	cmd.PersistentFlags().StringVarP(&(config.Output), "output", "o", "", "path to a file to write the rendered graph to (defaults to STDOUT)")
	return cmd
}

func (tcc *treeCmdConfig) Validate() error {
	return validate.Struct(tcc)
}
