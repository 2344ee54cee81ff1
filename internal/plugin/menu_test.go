package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calcsh/calcsh/internal/command"
	"github.com/calcsh/calcsh/internal/logging"
)

func TestMenu_NoPlugins(t *testing.T) {
	m := NewManager(logging.Nop(), WithDirs())
	reg := command.NewRegistry()
	menu := NewMenuCommand(m, reg)

	res, err := menu.Execute(nil)
	require.NoError(t, err)
	assert.Equal(t, command.KindText, res.Kind)
	assert.Contains(t, res.Text, "CALCULATOR MENU")
	assert.Contains(t, res.Text, "CORE COMMANDS:")
	assert.Contains(t, res.Text, "add <number1> <number2>")
	assert.Contains(t, res.Text, "PLUGINS: no plugins loaded")
}

func TestMenu_WithPlugins(t *testing.T) {
	m := NewManager(logging.Nop(), WithDirs())
	reg := command.NewRegistry()

	p := &stubPlugin{name: "Stub Plugin", version: "2.0.0",
		commands: []command.Command{&stubCommand{name: "frob"}}}
	require.NoError(t, m.LoadBuiltin("stub", func() Plugin { return p }))

	res, err := NewMenuCommand(m, reg).Execute(nil)
	require.NoError(t, err)
	assert.Contains(t, res.Text, "LOADED PLUGINS (1):")
	assert.Contains(t, res.Text, "Stub Plugin v2.0.0")
	assert.Contains(t, res.Text, "frob - stub")
}
