// Package repl drives the interactive read-dispatch-print loop.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/calcsh/calcsh/internal/command"
	"github.com/calcsh/calcsh/internal/config"
	"github.com/calcsh/calcsh/internal/history"
	"github.com/calcsh/calcsh/internal/logging"
)

// Engine runs the interactive session. All mutable state is touched only
// from the Run goroutine; a separate reader goroutine feeds input lines
// over a channel so interrupts can be handled while a read is pending.
type Engine struct {
	registry *command.Registry
	history  history.Tracker
	log      *logging.Logger

	in     io.Reader
	out    io.Writer
	prompt string
	tail   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithIO sets the input and output streams. Defaults are stdin/stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(e *Engine) {
		e.in = in
		e.out = out
	}
}

// WithPrompt sets the prompt string.
func WithPrompt(prompt string) Option {
	return func(e *Engine) {
		e.prompt = prompt
	}
}

// WithTail sets how many entries the history display shows.
func WithTail(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.tail = n
		}
	}
}

// New creates an engine over a registry and a history tracker.
func New(reg *command.Registry, hist history.Tracker, log *logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		history:  hist,
		log:      log.Sub("repl"),
		in:       os.Stdin,
		out:      os.Stdout,
		prompt:   "calc> ",
		tail:     config.DefaultTail,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the loop until the exit command, end of input, or context
// cancellation. An interrupt signal only prints a reminder.
func (e *Engine) Run(ctx context.Context) error {
	e.printBanner()

	lines := make(chan string)
	go e.readLines(lines)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	for {
		fmt.Fprint(e.out, e.prompt)

		select {
		case <-ctx.Done():
			fmt.Fprintln(e.out, "\nGoodbye!")
			return nil

		case <-sig:
			fmt.Fprintln(e.out, "\nUse 'exit' or 'quit' to leave the calculator.")

		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(e.out, "\nGoodbye!")
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.EqualFold(line, "history") {
				e.showHistory()
				continue
			}
			if stop := e.dispatch(line); stop {
				return nil
			}
		}
	}
}

func (e *Engine) readLines(lines chan<- string) {
	scanner := bufio.NewScanner(e.in)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
	close(lines)
}

func (e *Engine) printBanner() {
	sep := strings.Repeat("=", 50)
	fmt.Fprintln(e.out, sep)
	fmt.Fprintln(e.out, "  calcsh - plugin calculator")
	fmt.Fprintln(e.out, "  Type 'help' for available commands")
	fmt.Fprintln(e.out, "  Type 'exit' or 'quit' to leave")
	fmt.Fprintln(e.out, sep)
}

// dispatch runs one command line and reports whether the session should
// stop.
func (e *Engine) dispatch(input string) bool {
	parts := strings.Fields(input)
	name := strings.ToLower(parts[0])
	args := parts[1:]

	cmd, ok := e.registry.Get(name)
	if !ok {
		msg := fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", name)
		fmt.Fprintln(e.out, msg)
		e.record(name, args, msg, false)
		return false
	}

	res, err := cmd.Execute(args)
	if err != nil {
		msg := "Error: " + err.Error()
		fmt.Fprintln(e.out, msg)
		if command.IsUsage(err) {
			e.log.Debug().Err(err).Str("command", name).Msg("command rejected input")
		} else {
			e.log.Error().Err(err).Str("command", name).Msg("command failed")
		}
		e.record(name, args, msg, false)
		return false
	}

	switch res.Kind {
	case command.KindExit:
		fmt.Fprintln(e.out, "Goodbye!")
		return true
	case command.KindNumber:
		fmt.Fprintf(e.out, "Result: %s\n", command.FormatNumber(res.Number))
	default:
		fmt.Fprintln(e.out, res.Text)
	}

	e.record(name, args, res.String(), true)
	return false
}

func (e *Engine) record(name string, args []string, result string, success bool) {
	if err := e.history.Add(name, args, result, success); err != nil {
		e.log.Error().Err(err).Msg("recording history entry")
	}
}

func (e *Engine) showHistory() {
	entries, err := e.history.All()
	if err != nil {
		e.log.Error().Err(err).Msg("reading history")
		fmt.Fprintln(e.out, "Error: could not read history")
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(e.out, "No history available.")
		return
	}

	sep := strings.Repeat("-", 60)
	fmt.Fprintln(e.out, "\nCalculation History:")
	fmt.Fprintln(e.out, sep)

	tail := entries
	if len(tail) > e.tail {
		tail = tail[len(tail)-e.tail:]
	}
	for i, entry := range tail {
		status := "✓"
		if !entry.Success {
			status = "✗"
		}
		cmdStr := strings.TrimSpace(entry.Command + " " + strings.Join(entry.Args, " "))
		fmt.Fprintf(e.out, "%2d. [%s] %s | %s\n",
			i+1, status, entry.Timestamp.Format("2006-01-02 15:04:05"), cmdStr)
		fmt.Fprintf(e.out, "     %s\n", entry.Result)
	}
	if extra := len(entries) - e.tail; extra > 0 {
		fmt.Fprintf(e.out, "... (%d more entries)\n", extra)
	}
	fmt.Fprintln(e.out, sep)
}
