package config

import (
	"gopkg.in/yaml.v3"
)

// Spec target types.
const (
	TypeBootMedia = "boot_media"
	TypePip       = "pip"
)

// Boot states accepted by the boot-media target.
const (
	StateNoBoot     = "no_boot"
	StateBootOnce   = "boot_once"
	StateBootAlways = "boot_always"
	StateConnect    = "connect"
	StateDisconnect = "disconnect"
)

// Package states accepted by the pip target.
const (
	StatePresent = "present"
	StateAbsent  = "absent"
	StateLatest  = "latest"
)

// Defaults for optional fields.
const (
	DefaultLogin    = "Administrator"
	DefaultPassword = "admin"
)

// Spec is the declared desired state for exactly one remote resource. The
// type field selects the variant; the matching variant struct holds the
// target-specific fields inline.
type Spec struct {
	Type string `yaml:"type" validate:"required,oneof=boot_media pip"`

	BootMedia *BootMediaSpec `yaml:",inline,omitempty"`
	Pip       *PipSpec       `yaml:",inline,omitempty"`
}

// UnmarshalYAML customises spec decoding to populate the variant selected by
// the type field.
func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	type baseSpec struct {
		Type string `yaml:"type"`
	}

	var base baseSpec
	if err := value.Decode(&base); err != nil {
		return err
	}

	s.Type = base.Type
	s.BootMedia = nil
	s.Pip = nil

	switch base.Type {
	case TypeBootMedia:
		var boot BootMediaSpec
		if err := value.Decode(&boot); err != nil {
			return err
		}
		boot.applyDefaults()
		s.BootMedia = &boot
	case TypePip:
		var pip PipSpec
		if err := value.Decode(&pip); err != nil {
			return err
		}
		pip.applyDefaults()
		s.Pip = &pip
	}

	return nil
}

// BootMediaSpec declares the desired boot device, virtual media, and power
// state of a server behind an iLO-style management controller.
type BootMediaSpec struct {
	Host     string `yaml:"host" validate:"required"`
	Login    string `yaml:"login,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Match aborts the run unless the probed server identity starts with
	// this prefix (case-insensitive). Empty disables the gate.
	Match string `yaml:"match,omitempty"`

	Media string `yaml:"media,omitempty" validate:"omitempty,oneof=cdrom floppy hdd network normal usb"`
	Image string `yaml:"image,omitempty" validate:"omitempty,url"`
	State string `yaml:"state,omitempty" validate:"omitempty,oneof=boot_always boot_once connect disconnect no_boot"`
	Force bool   `yaml:"force,omitempty"`
}

func (b *BootMediaSpec) applyDefaults() {
	if b.Login == "" {
		b.Login = DefaultLogin
	}
	if b.Password == "" {
		b.Password = DefaultPassword
	}
	if b.State == "" {
		b.State = StateBootOnce
	}
}

// PipSpec declares the desired install state of a Python package, or of a
// whole requirements manifest, optionally inside a virtualenv.
type PipSpec struct {
	Name         string `yaml:"name,omitempty"`
	Version      string `yaml:"version,omitempty"`
	Requirements string `yaml:"requirements,omitempty"`
	Virtualenv   string `yaml:"virtualenv,omitempty"`
	State        string `yaml:"state,omitempty" validate:"omitempty,oneof=present absent latest"`
}

func (p *PipSpec) applyDefaults() {
	if p.State == "" {
		p.State = StatePresent
	}
}
