// Package builtin holds the compiled-in calculator plugins. They go
// through the same manager lifecycle as plugins loaded from disk,
// registered via plugin.Factory entry points.
package builtin

import (
	"fmt"
	"math"

	"github.com/calcsh/calcsh/internal/command"
	"github.com/calcsh/calcsh/internal/plugin"
)

// NewScientific creates the scientific functions plugin.
func NewScientific() plugin.Plugin { return &scientificPlugin{} }

type scientificPlugin struct{}

func (p *scientificPlugin) Name() string    { return "Scientific Plugin" }
func (p *scientificPlugin) Version() string { return "1.0.0" }

func (p *scientificPlugin) Description() string {
	return "Provides scientific mathematical functions (sqrt, power, log, trig)"
}

func (p *scientificPlugin) Commands() []command.Command {
	return []command.Command{
		newUnary("sqrt", func(x float64) (float64, error) {
			if x < 0 {
				return 0, command.Usagef("math error: square root of a negative number")
			}
			return math.Sqrt(x), nil
		}),
		newBinary("power", func(x, y float64) (float64, error) {
			return math.Pow(x, y), nil
		}),
		newUnary("log", func(x float64) (float64, error) {
			if x <= 0 {
				return 0, command.Usagef("math error: logarithm of a non-positive number")
			}
			return math.Log10(x), nil
		}),
		newUnary("ln", func(x float64) (float64, error) {
			if x <= 0 {
				return 0, command.Usagef("math error: logarithm of a non-positive number")
			}
			return math.Log(x), nil
		}),
		newUnary("sin", func(x float64) (float64, error) { return math.Sin(x), nil }),
		newUnary("cos", func(x float64) (float64, error) { return math.Cos(x), nil }),
		newUnary("tan", func(x float64) (float64, error) { return math.Tan(x), nil }),
	}
}

// unaryCommand applies a function of one number.
type unaryCommand struct {
	name string
	fn   func(x float64) (float64, error)
}

func newUnary(name string, fn func(x float64) (float64, error)) command.Command {
	return &unaryCommand{name: name, fn: fn}
}

func (c *unaryCommand) Name() string { return c.name }

func (c *unaryCommand) Help() string {
	return fmt.Sprintf("%s <number1> - Calculate %s", c.name, c.name)
}

func (c *unaryCommand) Execute(args []string) (command.Result, error) {
	if len(args) != 1 {
		return command.Result{}, command.Usagef("%s requires exactly 1 argument", c.name)
	}
	x, err := command.ParseFloat(args[0])
	if err != nil {
		return command.Result{}, err
	}
	v, err := c.fn(x)
	if err != nil {
		return command.Result{}, err
	}
	return finite(v)
}

// binaryCommand applies a function of two numbers.
type binaryCommand struct {
	name string
	fn   func(x, y float64) (float64, error)
}

func newBinary(name string, fn func(x, y float64) (float64, error)) command.Command {
	return &binaryCommand{name: name, fn: fn}
}

func (c *binaryCommand) Name() string { return c.name }

func (c *binaryCommand) Help() string {
	return fmt.Sprintf("%s <number1> <number2> - Calculate %s", c.name, c.name)
}

func (c *binaryCommand) Execute(args []string) (command.Result, error) {
	if len(args) != 2 {
		return command.Result{}, command.Usagef("%s requires exactly 2 arguments", c.name)
	}
	nums, err := command.ParseFloats(args)
	if err != nil {
		return command.Result{}, err
	}
	v, err := c.fn(nums[0], nums[1])
	if err != nil {
		return command.Result{}, err
	}
	return finite(v)
}

// finite rejects NaN and infinite results as computation errors.
func finite(v float64) (command.Result, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return command.Result{}, command.Usagef("math error: result is not a finite number")
	}
	return command.NumberResult(v), nil
}
