// Package main is the entry point for the shelfsearch CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/shelfsearch/cmd/shelfsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
