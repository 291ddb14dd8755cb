package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	driftwooderrors "github.com/driftwood-io/driftwood/pkg/errors"
)

func validBootSpec() *Spec {
	boot := &BootMediaSpec{Host: "ilo1.example.com", Media: "cdrom"}
	boot.applyDefaults()
	return &Spec{Type: TypeBootMedia, BootMedia: boot}
}

func validPipSpec() *Spec {
	pip := &PipSpec{Name: "flask"}
	pip.applyDefaults()
	return &Spec{Type: TypePip, Pip: pip}
}

func requireValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var valErr *driftwooderrors.ValidationError
	require.True(t, errors.As(err, &valErr), "expected validation error, got %T: %v", err, err)
}

func TestValidateSpecAcceptsBootMedia(t *testing.T) {
	t.Parallel()
	require.NoError(t, ValidateSpec(validBootSpec()))
}

func TestValidateSpecAcceptsPip(t *testing.T) {
	t.Parallel()
	require.NoError(t, ValidateSpec(validPipSpec()))
}

func TestValidateSpecRejectsMissingHost(t *testing.T) {
	t.Parallel()

	spec := validBootSpec()
	spec.BootMedia.Host = ""
	requireValidationError(t, ValidateSpec(spec))
}

func TestValidateSpecRejectsBadMedia(t *testing.T) {
	t.Parallel()

	spec := validBootSpec()
	spec.BootMedia.Media = "tape"
	requireValidationError(t, ValidateSpec(spec))
}

func TestValidateSpecRejectsBadBootState(t *testing.T) {
	t.Parallel()

	spec := validBootSpec()
	spec.BootMedia.State = "reboot"
	requireValidationError(t, ValidateSpec(spec))
}

func TestValidateSpecRejectsBadImageURL(t *testing.T) {
	t.Parallel()

	spec := validBootSpec()
	spec.BootMedia.Image = "not-a-url"
	requireValidationError(t, ValidateSpec(spec))
}

func TestPipRejectsNameAndRequirementsTogether(t *testing.T) {
	t.Parallel()

	spec := validPipSpec()
	spec.Pip.Requirements = "/tmp/requirements.txt"
	requireValidationError(t, ValidateSpec(spec))
}

func TestPipRejectsNeitherNameNorRequirements(t *testing.T) {
	t.Parallel()

	spec := validPipSpec()
	spec.Pip.Name = ""
	requireValidationError(t, ValidateSpec(spec))
}

func TestPipRejectsLatestWithVersion(t *testing.T) {
	t.Parallel()

	spec := validPipSpec()
	spec.Pip.State = StateLatest
	spec.Pip.Version = "1.0"
	requireValidationError(t, ValidateSpec(spec))
}

func TestPipRejectsLatestWithRequirements(t *testing.T) {
	t.Parallel()

	spec := validPipSpec()
	spec.Pip.Name = ""
	spec.Pip.Requirements = "/tmp/requirements.txt"
	spec.Pip.State = StateLatest
	requireValidationError(t, ValidateSpec(spec))
}

func TestPipRejectsInlineVersionInName(t *testing.T) {
	t.Parallel()

	spec := validPipSpec()
	spec.Pip.Name = "flask==0.8"
	requireValidationError(t, ValidateSpec(spec))
}

func TestPipAllowsLatestWithBareName(t *testing.T) {
	t.Parallel()

	spec := validPipSpec()
	spec.Pip.State = StateLatest
	require.NoError(t, ValidateSpec(spec))
}
