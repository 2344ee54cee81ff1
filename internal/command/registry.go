package command

import (
	"strings"
	"sync"
)

// Registry is the authoritative name-to-command mapping consulted by the
// dispatch loop. Keys are lower-cased command names; registering a command
// under an existing name overwrites it (last writer wins).
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	order    []string // insertion order for deterministic listings
}

// NewRegistry creates a registry seeded with the built-in commands.
func NewRegistry() *Registry {
	r := &Registry{commands: make(map[string]Command)}

	r.Register(newArithmetic("add", func(a, b float64) (float64, error) { return a + b, nil }))
	r.Register(newArithmetic("subtract", func(a, b float64) (float64, error) { return a - b, nil }))
	r.Register(newArithmetic("multiply", func(a, b float64) (float64, error) { return a * b, nil }))
	r.Register(newArithmetic("divide", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, Usagef("division by zero is not allowed")
		}
		return a / b, nil
	}))
	r.Register(&helpCommand{registry: r})

	exit := &exitCommand{}
	r.Register(exit)
	r.RegisterAlias("quit", exit)

	return r
}

// Register adds a command keyed by its own lower-cased name.
func (r *Registry) Register(cmd Command) {
	r.RegisterAlias(cmd.Name(), cmd)
}

// RegisterAlias adds a command under an explicit name.
func (r *Registry) RegisterAlias(name string, cmd Command) {
	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[key]; !exists {
		r.order = append(r.order, key)
	}
	r.commands[key] = cmd
}

// Get looks up a command by name, case-insensitively.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// Names returns all registered command names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered names (aliases included).
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}
