package builtin

import (
	"fmt"
	"math"
	"sort"

	"github.com/calcsh/calcsh/internal/command"
	"github.com/calcsh/calcsh/internal/plugin"
)

// NewStatistics creates the statistics functions plugin.
func NewStatistics() plugin.Plugin { return &statisticsPlugin{} }

type statisticsPlugin struct{}

func (p *statisticsPlugin) Name() string    { return "Statistics Plugin" }
func (p *statisticsPlugin) Version() string { return "1.0.0" }

func (p *statisticsPlugin) Description() string {
	return "Provides statistical calculation functions (mean, median, mode, standard deviation, variance)"
}

func (p *statisticsPlugin) Commands() []command.Command {
	return []command.Command{
		newStat("mean", 1, mean),
		newStat("median", 1, median),
		newStat("mode", 1, mode),
		newStat("standard_deviation", 2, func(nums []float64) (float64, error) {
			v, err := sampleVariance(nums)
			if err != nil {
				return 0, err
			}
			return math.Sqrt(v), nil
		}),
		newStat("variance", 2, sampleVariance),
	}
}

// statCommand applies a function over a variadic list of numbers.
type statCommand struct {
	name    string
	minArgs int
	fn      func(nums []float64) (float64, error)
}

func newStat(name string, minArgs int, fn func(nums []float64) (float64, error)) command.Command {
	return &statCommand{name: name, minArgs: minArgs, fn: fn}
}

func (c *statCommand) Name() string { return c.name }

func (c *statCommand) Help() string {
	return fmt.Sprintf("%s <number1> [number2 ...] - Calculate %s", c.name, c.name)
}

func (c *statCommand) Execute(args []string) (command.Result, error) {
	if len(args) < c.minArgs {
		return command.Result{}, command.Usagef("%s requires at least %d argument(s)", c.name, c.minArgs)
	}
	nums, err := command.ParseFloats(args)
	if err != nil {
		return command.Result{}, err
	}
	v, err := c.fn(nums)
	if err != nil {
		return command.Result{}, err
	}
	return finite(v)
}

func mean(nums []float64) (float64, error) {
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums)), nil
}

func median(nums []float64) (float64, error) {
	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

// mode returns the most frequent value; on ties the value seen first in
// the input wins.
func mode(nums []float64) (float64, error) {
	counts := make(map[float64]int, len(nums))
	best := nums[0]
	bestCount := 0
	for _, n := range nums {
		counts[n]++
		if counts[n] > bestCount {
			best = n
			bestCount = counts[n]
		}
	}
	return best, nil
}

// sampleVariance computes the n-1 weighted variance.
func sampleVariance(nums []float64) (float64, error) {
	if len(nums) < 2 {
		return 0, command.Usagef("variance requires at least 2 data points")
	}
	m, _ := mean(nums)
	sum := 0.0
	for _, n := range nums {
		d := n - m
		sum += d * d
	}
	return sum / float64(len(nums)-1), nil
}
