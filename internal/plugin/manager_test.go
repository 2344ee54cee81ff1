package plugin

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calcsh/calcsh/internal/command"
	"github.com/calcsh/calcsh/internal/logging"
)

const mean2Script = `
plugin = {
  name = "Extra Stats",
  version = "1.0.0",
  description = "A second mean implementation",
  commands = {
    { name = "mean2", help = "mean2 <number1> [number2 ...] - Calculate mean", exec = function(args)
        if #args < 1 then
          error("mean2 requires at least 1 argument")
        end
        local sum = 0
        for _, a in ipairs(args) do
          local n = tonumber(a)
          if n == nil then
            error("invalid number format: " .. a)
          end
          sum = sum + n
        end
        return sum / #args
      end },
  },
}
`

func writePlugin(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newTestManager(t *testing.T, dirs ...string) *Manager {
	t.Helper()
	return NewManager(logging.Nop(), WithDirs(dirs...))
}

// stubPlugin is a minimal in-process plugin for manager tests.
type stubPlugin struct {
	name     string
	version  string
	commands []command.Command
	initErr  error
	cleanErr error
	cleaned  int
}

func (p *stubPlugin) Name() string                { return p.name }
func (p *stubPlugin) Version() string             { return p.version }
func (p *stubPlugin) Description() string         { return "stub" }
func (p *stubPlugin) Commands() []command.Command { return p.commands }
func (p *stubPlugin) Init() error                 { return p.initErr }
func (p *stubPlugin) Cleanup() error              { p.cleaned++; return p.cleanErr }

type stubCommand struct{ name string }

func (c *stubCommand) Name() string { return c.name }
func (c *stubCommand) Help() string { return c.name + " - stub" }
func (c *stubCommand) Execute(args []string) (command.Result, error) {
	return command.TextResult(c.name), nil
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	writePlugin(t, dir, "alpha.lua", mean2Script)
	writePlugin(t, dir, "notes.txt", "not a plugin")
	writePlugin(t, dir, "init.lua", "-- excluded package-init file")

	pkgDir := filepath.Join(dir, "bravo")
	require.NoError(t, os.Mkdir(pkgDir, 0o700))
	writePlugin(t, pkgDir, "init.lua", mean2Script)

	emptyDir := filepath.Join(dir, "charlie")
	require.NoError(t, os.Mkdir(emptyDir, 0o700))

	m := newTestManager(t, dir, filepath.Join(dir, "does-not-exist"))
	candidates := m.Discover()

	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"alpha", "bravo"}, names)

	for _, c := range candidates {
		if c.Name == "bravo" {
			assert.True(t, c.Dir)
		} else {
			assert.False(t, c.Dir)
		}
	}
}

func TestLoadAll_SingleFilePlugin(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "extra_stats.lua", mean2Script)

	m := newTestManager(t, dir)
	results := m.LoadAll()

	require.Len(t, results, 1)
	require.NoError(t, results["extra_stats"])

	cmds := m.Commands()
	cmd, ok := cmds["mean2"]
	require.True(t, ok, "mean2 should be registered after LoadAll")

	res, err := cmd.Execute([]string{"1", "2", "3", "4", "5"})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, res.Number, 1e-12)

	info := m.PluginInfo()
	require.Contains(t, info, "extra_stats")
	assert.Equal(t, "Extra Stats", info["extra_stats"].Name)
	assert.Equal(t, SourceLua, info["extra_stats"].Source)
}

func TestLoadAll_BadPluginIsIsolated(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "broken.lua", `plugin = {`)
	writePlugin(t, dir, "good.lua", mean2Script)

	m := newTestManager(t, dir)
	results := m.LoadAll()

	require.Len(t, results, 2)
	assert.Error(t, results["broken"])
	assert.NoError(t, results["good"])
	assert.Equal(t, 1, m.Count())
}

func TestLoad_Reload_IsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writePlugin(t, dir, "extra_stats.lua", mean2Script)

	m := newTestManager(t, dir)
	require.NoError(t, m.Load("extra_stats", path))

	before := commandNames(m)
	require.NoError(t, m.Load("extra_stats", path))
	after := commandNames(m)

	assert.Equal(t, before, after)
	assert.Equal(t, 1, m.Count())
}

func TestLoadBuiltin(t *testing.T) {
	m := newTestManager(t)
	p := &stubPlugin{name: "Stub", version: "0.1.0",
		commands: []command.Command{&stubCommand{name: "Frob"}}}

	require.NoError(t, m.LoadBuiltin("stub", func() Plugin { return p }))

	cmds := m.Commands()
	_, ok := cmds["frob"] // registry keys are lower-cased
	assert.True(t, ok)

	info := m.PluginInfo()
	assert.Equal(t, SourceBuiltin, info["stub"].Source)
}

func TestLoad_InitFailureAbortsLoad(t *testing.T) {
	m := newTestManager(t)
	p := &stubPlugin{name: "Bad", version: "1",
		commands: []command.Command{&stubCommand{name: "never"}},
		initErr:  assert.AnError}

	err := m.LoadBuiltin("bad", func() Plugin { return p })
	require.Error(t, err)
	assert.Equal(t, 0, m.Count())
	assert.Empty(t, m.Commands())
	assert.Equal(t, 1, p.cleaned, "failed init must release plugin resources")
}

func TestUnload(t *testing.T) {
	m := newTestManager(t)
	p := &stubPlugin{name: "Stub", version: "1",
		commands: []command.Command{&stubCommand{name: "frob"}}}
	require.NoError(t, m.LoadBuiltin("stub", func() Plugin { return p }))

	require.NoError(t, m.Unload("stub"))
	assert.Equal(t, 1, p.cleaned)
	assert.Empty(t, m.Commands())
	assert.Empty(t, m.PluginInfo())
	assert.Empty(t, m.Loaded())
}

func TestUnload_NeverLoaded(t *testing.T) {
	m := newTestManager(t)
	p := &stubPlugin{name: "Stub", version: "1",
		commands: []command.Command{&stubCommand{name: "frob"}}}
	require.NoError(t, m.LoadBuiltin("stub", func() Plugin { return p }))

	err := m.Unload("ghost")
	require.ErrorIs(t, err, ErrNotLoaded)

	// No state was mutated.
	assert.Equal(t, 1, m.Count())
	assert.Len(t, m.Commands(), 1)
}

func TestUnload_CleanupFailureStillRemoves(t *testing.T) {
	m := newTestManager(t)
	p := &stubPlugin{name: "Stub", version: "1",
		commands: []command.Command{&stubCommand{name: "frob"}},
		cleanErr: assert.AnError}
	require.NoError(t, m.LoadBuiltin("stub", func() Plugin { return p }))

	err := m.Unload("stub")
	require.Error(t, err)
	assert.Empty(t, m.Commands())
	assert.Equal(t, 0, m.Count())
}

func TestCommandCollision_LastWinsAndUnloadRemovesOccupant(t *testing.T) {
	m := newTestManager(t)
	first := &stubPlugin{name: "First", version: "1",
		commands: []command.Command{&stubCommand{name: "clash"}}}
	second := &stubPlugin{name: "Second", version: "1",
		commands: []command.Command{&stubCommand{name: "clash"}}}

	require.NoError(t, m.LoadBuiltin("first", func() Plugin { return first }))
	require.NoError(t, m.LoadBuiltin("second", func() Plugin { return second }))

	// Last writer wins.
	cmd := m.Commands()["clash"]
	require.NotNil(t, cmd)
	assert.Same(t, second.commands[0], cmd)

	// Unloading the first plugin removes the current occupant, whatever
	// its origin.
	require.NoError(t, m.Unload("first"))
	_, ok := m.Commands()["clash"]
	assert.False(t, ok)
}

func TestQueries_AreDefensiveCopies(t *testing.T) {
	m := newTestManager(t)
	p := &stubPlugin{name: "Stub", version: "1",
		commands: []command.Command{&stubCommand{name: "frob"}}}
	require.NoError(t, m.LoadBuiltin("stub", func() Plugin { return p }))

	cmds := m.Commands()
	delete(cmds, "frob")
	assert.Len(t, m.Commands(), 1)

	info := m.PluginInfo()
	delete(info, "stub")
	assert.Len(t, m.PluginInfo(), 1)
}

func commandNames(m *Manager) []string {
	names := make([]string, 0)
	for name := range m.Commands() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
