package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".calcsh"

// Paths holds resolved filesystem paths for calcsh data.
type Paths struct {
	Base    string // ~/.calcsh
	Config  string // ~/.calcsh/config.yaml
	Plugins string // ~/.calcsh/plugins
	Data    string // ~/.calcsh/data
}

// ResolvePaths computes all standard paths from the home directory. If
// CALCSH_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("CALCSH_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:    base,
		Config:  filepath.Join(base, "config.yaml"),
		Plugins: filepath.Join(base, "plugins"),
		Data:    filepath.Join(base, "data"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Plugins, p.Data} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}
