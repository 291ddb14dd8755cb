package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose      bool
	defaultsPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "driftwood",
		Short:         "Driftwood reconciles a declared desired state on one remote resource",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.defaultsPath, "defaults", "", "Path to a TOML defaults file")

	cmd.AddCommand(newBootCmd(flags))
	cmd.AddCommand(newPipCmd(flags))
	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
