// Package main is the entry point for the calcsh calculator.
package main

import (
	"fmt"
	"os"

	"github.com/calcsh/calcsh/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
