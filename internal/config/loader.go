package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads the config file at path, applying defaults for everything
// the file leaves unset. A missing file is not an error: defaults are
// returned unchanged.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	data = []byte(expandEnvVars(string(data)))

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}

	if err := validate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// expandEnvVars replaces ${VAR} patterns with environment variable
// values. Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

func validate(cfg *Config) error {
	switch cfg.History.Store {
	case "", "memory", "sqlite":
	default:
		return &ConfigError{Message: fmt.Sprintf("unknown history store %q (want memory or sqlite)", cfg.History.Store)}
	}
	if cfg.History.Tail < 0 {
		return &ConfigError{Message: "history tail must not be negative"}
	}
	if cfg.History.Tail == 0 {
		cfg.History.Tail = DefaultTail
	}
	if cfg.Prompt == "" {
		cfg.Prompt = Defaults().Prompt
	}
	return nil
}
