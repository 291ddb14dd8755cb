package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	driftwooderrors "github.com/driftwood-io/driftwood/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})

	return validateInst
}

// ValidateSpec performs schema and cross-field validation on a desired-state
// spec. Every failure here is fatal and happens before any remote call.
func ValidateSpec(spec *Spec) error {
	if spec == nil {
		return driftwooderrors.NewValidationError("spec", "spec is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(spec); err != nil {
		return convertValidationError(err)
	}

	switch spec.Type {
	case TypeBootMedia:
		if spec.BootMedia == nil {
			return driftwooderrors.NewValidationError("boot_media", "boot_media configuration is required", nil)
		}
		if err := v.Struct(spec.BootMedia); err != nil {
			return convertValidationError(err)
		}
	case TypePip:
		if spec.Pip == nil {
			return driftwooderrors.NewValidationError("pip", "pip configuration is required", nil)
		}
		if err := v.Struct(spec.Pip); err != nil {
			return convertValidationError(err)
		}
		if err := spec.Pip.Validate(); err != nil {
			return err
		}
	default:
		return driftwooderrors.NewValidationError("type", fmt.Sprintf("unknown target type %q", spec.Type), nil)
	}

	return nil
}

// Validate enforces the pip field combination rules: exactly one of name or
// requirements, no version pin or manifest together with state=latest, and no
// inline version qualifier in name.
func (p *PipSpec) Validate() error {
	if (p.Name == "") == (p.Requirements == "") {
		return driftwooderrors.NewValidationError("name", "exactly one of name or requirements is required", nil)
	}

	if p.State == StateLatest {
		if p.Version != "" {
			return driftwooderrors.NewValidationError("version", "cannot be combined with state=latest", nil)
		}
		if p.Requirements != "" {
			return driftwooderrors.NewValidationError("requirements", "cannot be combined with state=latest", nil)
		}
	}

	if strings.Contains(p.Name, "=") {
		return driftwooderrors.NewValidationError("name", "must not embed a version qualifier; use the version field", nil)
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return driftwooderrors.NewValidationError(field, msg, err)
	}

	return driftwooderrors.NewValidationError("spec", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	parts := strings.Split(ns, ".")
	var lowered []string
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}
