// Package main provides the corrmin CLI.
//
// Usage:
//
//	corrmin [flags] <command> [args]
//
// Commands:
//
//	generate - build the matrix catalog for a bound
//	search   - find the best correspondence matrices for a run file
//	show     - print archived search records
//	version  - print the version
package main

import (
	"fmt"
	"os"

	"github.com/hupe1980/corrmin/cmd/corrmin/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
