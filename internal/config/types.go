package config

// Config is the root configuration for calcsh.
type Config struct {
	// Prompt is the string printed before each input line.
	Prompt string `yaml:"prompt,omitempty"`

	History HistoryConfig `yaml:"history,omitempty"`
	Plugins PluginsConfig `yaml:"plugins,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// HistoryConfig controls the history tracker.
type HistoryConfig struct {
	// Store selects the backend: "memory" (default, session-only) or
	// "sqlite".
	Store string `yaml:"store,omitempty"`

	// Path is the SQLite database location when store is "sqlite".
	// Defaults to <base>/data/history.db; ":memory:" is accepted.
	Path string `yaml:"path,omitempty"`

	// Tail is how many entries the history display shows.
	Tail int `yaml:"tail,omitempty"`
}

// PluginsConfig controls plugin discovery.
type PluginsConfig struct {
	// Dirs are extra plugin directories searched before the default
	// <base>/plugins directory.
	Dirs []string `yaml:"dirs,omitempty"`

	// Disabled turns off plugin discovery entirely. Compiled-in plugins
	// still load.
	Disabled bool `yaml:"disabled,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error, silent.
	Level string `yaml:"level,omitempty"`
}
