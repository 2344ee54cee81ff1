// Package command defines the command contract and the registry consulted
// by the dispatch loop.
package command

import (
	"math"
	"strconv"
)

// Command is a named, invocable unit of work. Name is the stable registry
// key (normalized to lower case by the registry), Help is a one-line usage
// string, and Execute runs the command against already-split arguments.
type Command interface {
	Name() string
	Help() string
	Execute(args []string) (Result, error)
}

// ResultKind discriminates the three possible command outcomes.
type ResultKind int

const (
	// KindNumber is a numeric result.
	KindNumber ResultKind = iota
	// KindText is a plain text result.
	KindText
	// KindExit signals the session should terminate.
	KindExit
)

// Result is the value produced by a successful Execute.
type Result struct {
	Kind   ResultKind
	Number float64
	Text   string
}

// NumberResult wraps a numeric value.
func NumberResult(v float64) Result { return Result{Kind: KindNumber, Number: v} }

// TextResult wraps a text value.
func TextResult(s string) Result { return Result{Kind: KindText, Text: s} }

// ExitResult is the terminate sentinel.
func ExitResult() Result { return Result{Kind: KindExit} }

// String renders the result payload for history entries and display.
func (r Result) String() string {
	switch r.Kind {
	case KindNumber:
		return FormatNumber(r.Number)
	case KindExit:
		return "exit"
	default:
		return r.Text
	}
}

// FormatNumber renders a float the way results are shown to the user.
// Integral values keep one decimal place ("5.0") so numeric results are
// visually distinct from text.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseFloat parses a single numeric argument, converting failures into
// usage errors.
func ParseFloat(arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, Usagef("invalid number format: %q", arg)
	}
	return v, nil
}

// ParseFloats parses every argument as a float.
func ParseFloats(args []string) ([]float64, error) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := ParseFloat(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
