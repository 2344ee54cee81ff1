// Package plugin provides plugin discovery, loading and lifecycle
// management for the calculator.
package plugin

import (
	"github.com/calcsh/calcsh/internal/command"
)

// Plugin is a bundle of commands with identifying metadata. All calculator
// plugins, compiled-in or loaded from disk, satisfy this interface.
type Plugin interface {
	// Name returns the human-readable plugin name.
	Name() string

	// Version returns the plugin version string.
	Version() string

	// Description returns a short plugin description.
	Description() string

	// Commands returns the commands this plugin contributes. Only valid
	// while the plugin is loaded.
	Commands() []command.Command
}

// Initializer is an optional capability: plugins that need setup before
// their commands are registered implement it. A returned error aborts the
// load. Plugins without it initialize trivially.
type Initializer interface {
	Init() error
}

// Cleaner is an optional capability: plugins holding resources implement
// it to release them on unload. Plugins without it clean up trivially.
type Cleaner interface {
	Cleanup() error
}

// Factory is the registration entry point for compiled-in plugins.
type Factory func() Plugin

// Source identifies where a plugin came from.
type Source string

const (
	// SourceBuiltin marks a compiled-in plugin.
	SourceBuiltin Source = "builtin"
	// SourceLua marks a plugin loaded from a Lua script.
	SourceLua Source = "lua"
)

// Info is a metadata snapshot taken when a plugin is loaded.
type Info struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Path        string `json:"path,omitempty"`
	Source      Source `json:"source"`
}

// Candidate is a filesystem entry discovered as a potential plugin source,
// prior to any load attempt.
type Candidate struct {
	// Name is the candidate key: the file name minus the .lua suffix, or
	// the directory name.
	Name string

	// Path is the plugin source: a .lua file or a directory containing
	// init.lua.
	Path string

	// Dir reports whether the candidate is the directory form.
	Dir bool
}
