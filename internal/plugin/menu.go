package plugin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/calcsh/calcsh/internal/command"
)

// coreMenuNames is the fixed list of core entries shown by the menu.
// Only names actually present in the registry are rendered.
var coreMenuNames = []string{"add", "subtract", "multiply", "divide", "help", "history", "exit", "quit"}

// MenuCommand renders an overview of core commands and loaded plugins.
// It is read-only: a pure formatting operation over the manager and the
// registry.
type MenuCommand struct {
	manager  *Manager
	registry *command.Registry
}

// NewMenuCommand creates the menu command over a manager and a registry.
func NewMenuCommand(m *Manager, reg *command.Registry) *MenuCommand {
	return &MenuCommand{manager: m, registry: reg}
}

func (c *MenuCommand) Name() string { return "menu" }

func (c *MenuCommand) Help() string {
	return "menu - Display all available commands and plugins"
}

func (c *MenuCommand) Execute(args []string) (command.Result, error) {
	sep := strings.Repeat("=", 60)
	lines := []string{sep, "CALCULATOR MENU", sep, "", "CORE COMMANDS:"}

	for _, name := range coreMenuNames {
		if cmd, ok := c.registry.Get(name); ok {
			lines = append(lines, "  "+cmd.Help())
		}
	}

	loaded := c.manager.Loaded()
	info := c.manager.PluginInfo()
	if len(loaded) == 0 {
		lines = append(lines, "", "PLUGINS: no plugins loaded")
	} else {
		lines = append(lines, "", fmt.Sprintf("LOADED PLUGINS (%d):", len(loaded)))

		// The full plugin-command set is repeated under every plugin
		// heading rather than scoped per plugin, matching the menu's
		// historical behavior.
		pluginCommands := c.manager.Commands()
		names := make([]string, 0, len(pluginCommands))
		for name := range pluginCommands {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, candidate := range loaded {
			pi := info[candidate]
			lines = append(lines, fmt.Sprintf("  %s v%s", pi.Name, pi.Version))
			lines = append(lines, "     "+pi.Description)
			for _, name := range names {
				lines = append(lines, "     "+pluginCommands[name].Help())
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, sep, "Type 'help <command>' for detailed help on any command")
	return command.TextResult(strings.Join(lines, "\n")), nil
}
