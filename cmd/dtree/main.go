package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dtree",
		Short: "dtree is a tool to grow classification trees",
		Long:  `A tool to grow ID3 and C4.5 classification trees from your data, test them, and use them to classify samples`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.AddCommand(
		versionCmd(),
		growCmd(config),
		testCmd(config),
		predictCmd(config),
		splitCmd(config),
		compareCmd(config),
		treeCmd(config),
	)
	return rootCmd
}

// commandContext returns a context cancelled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
