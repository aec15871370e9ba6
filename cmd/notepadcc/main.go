// Package main is the entry point for the notepadcc CLI.
package main

import (
	"os"

	"github.com/runger/notepadcc/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
