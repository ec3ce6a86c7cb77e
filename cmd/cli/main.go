// Package main is the entry point for the solar-capex CLI.
package main

import (
	"os"

	"solar-capex/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
