package command

import (
	"fmt"
	"strings"
)

// arithmeticCommand is a two-operand arithmetic operation.
type arithmeticCommand struct {
	name string
	fn   func(a, b float64) (float64, error)
}

func newArithmetic(name string, fn func(a, b float64) (float64, error)) Command {
	return &arithmeticCommand{name: name, fn: fn}
}

func (c *arithmeticCommand) Name() string { return c.name }

func (c *arithmeticCommand) Help() string {
	return fmt.Sprintf("%s <number1> <number2> - Perform %s", c.name, c.name)
}

func (c *arithmeticCommand) Execute(args []string) (Result, error) {
	if len(args) != 2 {
		return Result{}, Usagef("%s requires exactly 2 arguments", c.name)
	}
	a, err := ParseFloat(args[0])
	if err != nil {
		return Result{}, err
	}
	b, err := ParseFloat(args[1])
	if err != nil {
		return Result{}, err
	}
	v, err := c.fn(a, b)
	if err != nil {
		return Result{}, err
	}
	return NumberResult(v), nil
}

// helpCommand lists help for every registered command, or for one command
// when given an argument.
type helpCommand struct {
	registry *Registry
}

func (c *helpCommand) Name() string { return "help" }

func (c *helpCommand) Help() string { return "help [command] - Show help information" }

func (c *helpCommand) Execute(args []string) (Result, error) {
	if len(args) > 0 {
		name := strings.ToLower(args[0])
		cmd, ok := c.registry.Get(name)
		if !ok {
			return TextResult(fmt.Sprintf("Unknown command: %s", name)), nil
		}
		return TextResult(cmd.Help()), nil
	}

	lines := []string{"Available commands:"}
	for _, name := range c.registry.Names() {
		cmd, ok := c.registry.Get(name)
		if !ok {
			continue
		}
		// Skip alias entries so each command is listed once.
		if name != strings.ToLower(cmd.Name()) {
			continue
		}
		lines = append(lines, "  "+cmd.Help())
	}
	lines = append(lines, "  history - Show calculation history")
	return TextResult(strings.Join(lines, "\n")), nil
}

// exitCommand signals session termination.
type exitCommand struct{}

func (c *exitCommand) Name() string { return "exit" }

func (c *exitCommand) Help() string { return "exit/quit - Exit the calculator" }

func (c *exitCommand) Execute(args []string) (Result, error) {
	return ExitResult(), nil
}
