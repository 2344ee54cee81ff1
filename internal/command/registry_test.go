package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommand struct {
	name string
	help string
	run  func(args []string) (Result, error)
}

func (c *fakeCommand) Name() string { return c.name }
func (c *fakeCommand) Help() string { return c.help }
func (c *fakeCommand) Execute(args []string) (Result, error) {
	if c.run != nil {
		return c.run(args)
	}
	return TextResult("ok"), nil
}

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"add", "subtract", "multiply", "divide", "help", "exit", "quit"} {
		_, ok := r.Get(name)
		assert.True(t, ok, "missing built-in %q", name)
	}
}

func TestRegistry_CaseInsensitiveLookup(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeCommand{name: "Shout"})

	cmd, ok := r.Get("SHOUT")
	require.True(t, ok)
	assert.Equal(t, "Shout", cmd.Name())
}

func TestRegistry_LastRegisteredWins(t *testing.T) {
	r := NewRegistry()
	first := &fakeCommand{name: "dup", help: "first"}
	second := &fakeCommand{name: "dup", help: "second"}

	r.Register(first)
	r.Register(second)

	cmd, ok := r.Get("dup")
	require.True(t, ok)
	assert.Equal(t, "second", cmd.Help())

	// Overwriting must not duplicate the listing entry.
	seen := 0
	for _, name := range r.Names() {
		if name == "dup" {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
}

func TestRegistry_QuitAliasesExit(t *testing.T) {
	r := NewRegistry()

	exit, ok := r.Get("exit")
	require.True(t, ok)
	quit, ok := r.Get("quit")
	require.True(t, ok)
	assert.Same(t, exit, quit)
}

func TestArithmetic(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		args []string
		want float64
	}{
		{"add", []string{"2", "3"}, 5},
		{"subtract", []string{"10", "4"}, 6},
		{"multiply", []string{"6", "7"}, 42},
		{"divide", []string{"10", "4"}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := r.Get(tt.name)
			require.True(t, ok)

			res, err := cmd.Execute(tt.args)
			require.NoError(t, err)
			assert.Equal(t, KindNumber, res.Kind)
			assert.InDelta(t, tt.want, res.Number, 1e-12)
		})
	}
}

func TestArithmetic_DivideByZero(t *testing.T) {
	r := NewRegistry()
	cmd, ok := r.Get("divide")
	require.True(t, ok)

	_, err := cmd.Execute([]string{"10", "0"})
	require.Error(t, err)
	assert.True(t, IsUsage(err))
	assert.Contains(t, err.Error(), "division by zero")
}

func TestArithmetic_BadArguments(t *testing.T) {
	r := NewRegistry()
	cmd, ok := r.Get("add")
	require.True(t, ok)

	_, err := cmd.Execute([]string{"2"})
	require.Error(t, err)
	assert.True(t, IsUsage(err))
	assert.Contains(t, err.Error(), "exactly 2 arguments")

	_, err = cmd.Execute([]string{"two", "3"})
	require.Error(t, err)
	assert.True(t, IsUsage(err))
	assert.Contains(t, err.Error(), "invalid number format")
}

func TestHelpCommand(t *testing.T) {
	r := NewRegistry()
	cmd, ok := r.Get("help")
	require.True(t, ok)

	res, err := cmd.Execute(nil)
	require.NoError(t, err)
	assert.Equal(t, KindText, res.Kind)
	assert.Contains(t, res.Text, "add <number1> <number2>")
	assert.Contains(t, res.Text, "history - Show calculation history")

	res, err = cmd.Execute([]string{"DIVIDE"})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "divide <number1> <number2>")

	res, err = cmd.Execute([]string{"nope"})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Unknown command: nope")
}

func TestExitCommand(t *testing.T) {
	r := NewRegistry()
	cmd, ok := r.Get("quit")
	require.True(t, ok)

	res, err := cmd.Execute(nil)
	require.NoError(t, err)
	assert.Equal(t, KindExit, res.Kind)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "5.0", FormatNumber(5))
	assert.Equal(t, "-3.0", FormatNumber(-3))
	assert.Equal(t, "2.5", FormatNumber(2.5))
	assert.Equal(t, "0.0", FormatNumber(0))
}
