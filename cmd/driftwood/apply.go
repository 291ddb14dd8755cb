package main

import (
	"github.com/spf13/cobra"

	"github.com/driftwood-io/driftwood/internal/config"
)

func newApplyCmd(root *rootFlags) *cobra.Command {
	var specPath string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile a desired-state spec from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := config.ParseSpec(specPath)
			if err != nil {
				return err
			}

			a, err := newApp(root)
			if err != nil {
				return err
			}

			return a.runSpec(cmd.Context(), spec)
		},
	}

	cmd.Flags().StringVarP(&specPath, "file", "f", "", "Path to the spec file")
	cmd.MarkFlagRequired("file") //nolint:errcheck

	return cmd
}
