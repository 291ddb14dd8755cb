package main

import (
	"github.com/spf13/cobra"

	"github.com/driftwood-io/driftwood/internal/config"
)

type bootOptions struct {
	host     string
	login    string
	password string
	match    string
	media    string
	image    string
	state    string
	force    bool

	loginSet    bool
	passwordSet bool
}

func newBootCmd(root *rootFlags) *cobra.Command {
	opts := bootOptions{}

	cmd := &cobra.Command{
		Use:   "boot",
		Short: "Reconcile boot media and power state through an iLO-style controller",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.loginSet = cmd.Flags().Changed("login")
			opts.passwordSet = cmd.Flags().Changed("password")

			defaults, err := loadDefaults(root.defaultsPath)
			if err != nil {
				return err
			}

			a, err := newApp(root)
			if err != nil {
				return err
			}

			return a.runSpec(cmd.Context(), buildBootSpec(opts, defaults))
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "Management controller hostname or address")
	cmd.MarkFlagRequired("host") //nolint:errcheck
	cmd.Flags().StringVar(&opts.login, "login", config.DefaultLogin, "Controller login name")
	cmd.Flags().StringVar(&opts.password, "password", config.DefaultPassword, "Controller password")
	cmd.Flags().StringVar(&opts.match, "match", "", "Require the probed server identity to start with this prefix")
	cmd.Flags().StringVar(&opts.media, "media", "", "Boot media: cdrom, floppy, hdd, network, normal, or usb")
	cmd.Flags().StringVar(&opts.image, "image", "", "Virtual media image URL")
	cmd.Flags().StringVar(&opts.state, "state", config.StateBootOnce, "Boot state: boot_always, boot_once, connect, disconnect, or no_boot")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Warm-reboot a server that is already powered on")

	return cmd
}

// buildBootSpec turns the flag surface into a spec. Credentials fall back to
// the defaults file only when the operator did not pass them explicitly.
func buildBootSpec(opts bootOptions, defaults *config.Defaults) *config.Spec {
	login := opts.login
	if !opts.loginSet && defaults.ILO.Login != "" {
		login = defaults.ILO.Login
	}
	password := opts.password
	if !opts.passwordSet && defaults.ILO.Password != "" {
		password = defaults.ILO.Password
	}

	return &config.Spec{
		Type: config.TypeBootMedia,
		BootMedia: &config.BootMediaSpec{
			Host:     opts.host,
			Login:    login,
			Password: password,
			Match:    opts.match,
			Media:    opts.media,
			Image:    opts.image,
			State:    opts.state,
			Force:    opts.force,
		},
	}
}
