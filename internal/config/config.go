// Package config loads the calcsh YAML configuration and resolves the
// standard filesystem paths.
package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// DefaultTail is how many history entries the display shows by default.
const DefaultTail = 10

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Prompt: "calc> ",
		History: HistoryConfig{
			Store: "memory",
			Tail:  DefaultTail,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
