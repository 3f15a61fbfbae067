// Package main is the entry point for the docsync demo binary.
package main

import (
	"fmt"
	"os"

	"github.com/dshills/docsync/cmd/docsync-demo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
