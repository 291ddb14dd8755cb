package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/driftwood-io/driftwood/internal/config"
)

func TestBuildBootSpecUsesFlagValues(t *testing.T) {
	t.Parallel()

	opts := bootOptions{
		host:     "ilo1.example.com",
		login:    config.DefaultLogin,
		password: config.DefaultPassword,
		media:    "cdrom",
		image:    "http://h/boot.iso",
		state:    config.StateBootOnce,
		force:    true,
	}

	spec := buildBootSpec(opts, &config.Defaults{})
	require.Equal(t, config.TypeBootMedia, spec.Type)
	require.NoError(t, config.ValidateSpec(spec))
	require.Equal(t, "ilo1.example.com", spec.BootMedia.Host)
	require.Equal(t, "cdrom", spec.BootMedia.Media)
	require.True(t, spec.BootMedia.Force)
}

func TestBuildBootSpecDefaultsFileFillsCredentials(t *testing.T) {
	t.Parallel()

	defaults := &config.Defaults{}
	defaults.ILO.Login = "operator"
	defaults.ILO.Password = "hunter2"

	opts := bootOptions{
		host:     "ilo1.example.com",
		login:    config.DefaultLogin,
		password: config.DefaultPassword,
		state:    config.StateBootOnce,
	}

	spec := buildBootSpec(opts, defaults)
	require.Equal(t, "operator", spec.BootMedia.Login)
	require.Equal(t, "hunter2", spec.BootMedia.Password)
}

func TestBuildBootSpecExplicitFlagsBeatDefaultsFile(t *testing.T) {
	t.Parallel()

	defaults := &config.Defaults{}
	defaults.ILO.Login = "operator"
	defaults.ILO.Password = "hunter2"

	opts := bootOptions{
		host:        "ilo1.example.com",
		login:       "root",
		password:    "secret",
		state:       config.StateBootOnce,
		loginSet:    true,
		passwordSet: true,
	}

	spec := buildBootSpec(opts, defaults)
	require.Equal(t, "root", spec.BootMedia.Login)
	require.Equal(t, "secret", spec.BootMedia.Password)
}
