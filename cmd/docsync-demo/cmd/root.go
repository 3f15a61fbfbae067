package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
)

// NewApp builds the docsync-demo command tree.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:  "docsync-demo",
		Usage: "Demonstrates the docsync engine against in-memory editor and CRDT stand-ins",
		Description: `docsync-demo wires an in-memory editor buffer and an in-memory CRDT text
together through the sync engine and walks through its convergence
behavior: a remote insert, an echoed local re-report that must not be
forwarded, and an out-of-band drift reconciled back to the CRDT's text.

Examples:
  docsync-demo run
  docsync-demo run --text "hello\nworld" --log-level debug
  docsync-demo version`,
		Commands: []*cli.Command{
			runCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application.
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
