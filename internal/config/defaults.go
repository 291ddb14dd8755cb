package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Defaults supplies fallback values for CLI invocations, primarily to keep
// controller credentials out of shell history. Loaded from a TOML file.
type Defaults struct {
	ILO ILODefaults `toml:"ilo"`
}

// ILODefaults carries fallback management-controller credentials.
type ILODefaults struct {
	Login    string `toml:"login"`
	Password string `toml:"password"`
}

// DefaultsPath returns the implicit defaults file location.
func DefaultsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "driftwood", "defaults.toml"), nil
}

// LoadDefaults reads a defaults file. The caller decides whether a missing
// file is an error; for the implicit path it is not.
func LoadDefaults(path string) (*Defaults, error) {
	var d Defaults
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
