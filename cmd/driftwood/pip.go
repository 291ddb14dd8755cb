package main

import (
	"github.com/spf13/cobra"

	"github.com/driftwood-io/driftwood/internal/config"
)

type pipOptions struct {
	name         string
	version      string
	requirements string
	virtualenv   string
	state        string
}

func newPipCmd(root *rootFlags) *cobra.Command {
	opts := pipOptions{}

	cmd := &cobra.Command{
		Use:   "pip",
		Short: "Reconcile a Python package's install state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root)
			if err != nil {
				return err
			}

			return a.runSpec(cmd.Context(), buildPipSpec(opts))
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Package name (mutually exclusive with --requirements)")
	cmd.Flags().StringVar(&opts.version, "version", "", "Exact version to pin")
	cmd.Flags().StringVar(&opts.requirements, "requirements", "", "Path to a requirements manifest")
	cmd.Flags().StringVar(&opts.virtualenv, "virtualenv", "", "Virtualenv to install into, created when missing")
	cmd.Flags().StringVar(&opts.state, "state", config.StatePresent, "Desired state: present, absent, or latest")

	return cmd
}

func buildPipSpec(opts pipOptions) *config.Spec {
	return &config.Spec{
		Type: config.TypePip,
		Pip: &config.PipSpec{
			Name:         opts.name,
			Version:      opts.version,
			Requirements: opts.requirements,
			Virtualenv:   opts.virtualenv,
			State:        opts.state,
		},
	}
}
