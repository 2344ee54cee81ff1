package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/calcsh/calcsh/internal/command"
	"github.com/calcsh/calcsh/internal/logging"
	"github.com/calcsh/calcsh/internal/plugin/lua"
)

// ErrNotLoaded is returned when unloading a plugin that is not loaded.
var ErrNotLoaded = errors.New("plugin not loaded")

// Manager owns all plugin state: which plugins are loaded, the union of
// the commands they contribute, and their metadata snapshots. Handed-out
// views are defensive copies.
type Manager struct {
	mu   sync.RWMutex
	dirs []string
	log  *logging.Logger

	loaded      map[string]Plugin
	order       []string
	commands    map[string]command.Command
	contributed map[string][]string
	info        map[string]Info
}

// Option configures a Manager.
type Option func(*Manager)

// WithDirs sets the plugin search directories, replacing the defaults.
func WithDirs(dirs ...string) Option {
	return func(m *Manager) {
		m.dirs = dirs
	}
}

// NewManager creates a plugin manager. Without options it searches the
// default user plugin directory.
func NewManager(log *logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		log:         log.Sub("plugins"),
		dirs:        DefaultPluginDirs(),
		loaded:      make(map[string]Plugin),
		commands:    make(map[string]command.Command),
		contributed: make(map[string][]string),
		info:        make(map[string]Info),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultPluginDirs returns the built-in plugin search paths.
func DefaultPluginDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, ".calcsh", "plugins")}
}

// Dirs returns the configured search directories.
func (m *Manager) Dirs() []string {
	out := make([]string, len(m.dirs))
	copy(out, m.dirs)
	return out
}

// Discover enumerates plugin candidates in the search directories:
// immediate *.lua files (except init.lua) and immediate subdirectories
// containing init.lua. Missing directories are silently skipped.
// Candidates follow os.ReadDir's lexical order within each directory,
// directories in configured order; duplicate names across directories are
// kept, so a later load overwrites an earlier one.
func (m *Manager) Discover() []Candidate {
	var out []Candidate
	for _, dir := range m.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if !e.IsDir() {
				if filepath.Ext(name) == ".lua" && name != lua.EntryFile {
					out = append(out, Candidate{
						Name: strings.TrimSuffix(name, ".lua"),
						Path: filepath.Join(dir, name),
					})
				}
				continue
			}
			if _, err := os.Stat(filepath.Join(dir, name, lua.EntryFile)); err == nil {
				out = append(out, Candidate{
					Name: name,
					Path: filepath.Join(dir, name),
					Dir:  true,
				})
			}
		}
	}
	return out
}

// Load loads the Lua plugin at path under the given candidate name. The
// failure of one plugin never affects others: any error is logged and
// returned for this candidate only.
func (m *Manager) Load(name, path string) error {
	p, err := lua.Open(path)
	if err != nil {
		m.log.Error().Err(err).Str("candidate", name).Str("path", path).Msg("plugin load failed")
		return fmt.Errorf("loading plugin %s: %w", name, err)
	}
	return m.adopt(name, path, SourceLua, p)
}

// LoadBuiltin registers a compiled-in plugin through the same lifecycle
// as a discovered one.
func (m *Manager) LoadBuiltin(name string, factory Factory) error {
	return m.adopt(name, "", SourceBuiltin, factory())
}

// LoadAll discovers and loads every candidate. It always completes, even
// if every plugin fails; the returned map holds the per-candidate outcome
// (nil means loaded).
func (m *Manager) LoadAll() map[string]error {
	results := make(map[string]error)
	for _, c := range m.Discover() {
		results[c.Name] = m.Load(c.Name, c.Path)
	}
	return results
}

// adopt runs the optional init hook and merges the plugin into the
// manager tables. Commands are keyed by their own lower-cased name; a
// name already present is overwritten (last writer wins, no collision
// detection).
func (m *Manager) adopt(name, path string, source Source, p Plugin) error {
	if init, ok := p.(Initializer); ok {
		if err := init.Init(); err != nil {
			if c, ok := p.(Cleaner); ok {
				_ = c.Cleanup()
			}
			m.log.Error().Err(err).Str("candidate", name).Msg("plugin init failed")
			return fmt.Errorf("initializing plugin %s: %w", name, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.loaded[name]; !exists {
		m.order = append(m.order, name)
	}
	m.loaded[name] = p
	m.info[name] = Info{
		Name:        p.Name(),
		Version:     p.Version(),
		Description: p.Description(),
		Path:        path,
		Source:      source,
	}

	names := make([]string, 0)
	for _, c := range p.Commands() {
		key := strings.ToLower(c.Name())
		m.commands[key] = c
		names = append(names, key)
	}
	m.contributed[name] = names

	m.log.Info().
		Str("candidate", name).
		Str("name", p.Name()).
		Str("version", p.Version()).
		Int("commands", len(names)).
		Msg("plugin loaded")
	return nil
}

// Unload removes a loaded plugin: its cleanup hook runs first (a failure
// is reported but teardown still completes), then every command it
// contributed is removed by name. If a later-loaded plugin overwrote one
// of those names, the current occupant is removed regardless of origin;
// that is the accepted collision behavior.
func (m *Manager) Unload(name string) error {
	m.mu.Lock()
	p, ok := m.loaded[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	m.mu.Unlock()

	var cleanupErr error
	if c, ok := p.(Cleaner); ok {
		cleanupErr = c.Cleanup()
	}

	m.mu.Lock()
	for _, key := range m.contributed[name] {
		delete(m.commands, key)
	}
	delete(m.loaded, name)
	delete(m.contributed, name)
	delete(m.info, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	if cleanupErr != nil {
		m.log.Error().Err(cleanupErr).Str("candidate", name).Msg("plugin cleanup failed")
		return fmt.Errorf("cleaning up plugin %s: %w", name, cleanupErr)
	}

	m.log.Info().Str("candidate", name).Msg("plugin unloaded")
	return nil
}

// Commands returns a copy of the command mapping contributed by all
// loaded plugins.
func (m *Manager) Commands() map[string]command.Command {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]command.Command, len(m.commands))
	for k, v := range m.commands {
		out[k] = v
	}
	return out
}

// PluginInfo returns a copy of the metadata snapshots of all loaded
// plugins, keyed by candidate name.
func (m *Manager) PluginInfo() map[string]Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Info, len(m.info))
	for k, v := range m.info {
		out[k] = v
	}
	return out
}

// Loaded returns the candidate names of loaded plugins in load order.
func (m *Manager) Loaded() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Count returns the number of loaded plugins.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.loaded)
}
