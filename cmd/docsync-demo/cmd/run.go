package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/dshills/docsync/internal/applog"
	"github.com/dshills/docsync/internal/crdttext"
	"github.com/dshills/docsync/internal/docsync"
	"github.com/dshills/docsync/internal/editorhost"
	"github.com/dshills/docsync/internal/syncconfig"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Walk a bound editor/CRDT pair through a convergence scenario",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a docsync TOML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "text",
				Usage: "Initial document content",
				Value: "hello\nworld",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			level, err := logrus.ParseLevel(cmd.String("log-level"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid log level %q", cmd.String("log-level")), 1)
			}
			log := applog.New(applog.Config{Level: level, Component: "docsync-demo"})
			applog.SetDefault(log)

			cfg, err := syncconfig.Load(cmd.String("config"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("failed to load config: %v", err), 1)
			}

			initial := strings.ReplaceAll(cmd.String("text"), `\n`, "\n")
			editor := editorhost.NewMemEditor(initial)
			crdt := crdttext.NewMemTextFromString(initial)

			eng := docsync.New(editor, crdt, docsync.WithConfig(cfg), docsync.WithLogger(log))
			defer eng.Close()

			fmt.Printf("initial:  editor=%q crdt=%q\n", editor.Text(), crdt.ToString())

			if err := crdt.SimulateRemote(func() error {
				return crdt.Insert(len([]rune(initial)), "!")
			}); err != nil {
				return cli.Exit(fmt.Sprintf("remote insert failed: %v", err), 1)
			}
			fmt.Printf("remote insert applied: editor=%q crdt=%q state=%s\n", editor.Text(), crdt.ToString(), eng.State())

			// The editor re-reported the very insert the engine applied on
			// its behalf through its OnChange hook, while the engine was
			// applying it; that echo must not have round-tripped back to the
			// CRDT as a second insert.
			fmt.Printf("echoed edit suppressed: crdt unchanged=%v\n", crdt.ToString() == initial+"!")

			// Simulate out-of-band drift: a CRDT write this process makes
			// without routing through SimulateRemote is treated as local and
			// never reaches the editor, so the two diverge until Reconcile runs.
			if err := crdt.Insert(0, ">> "); err != nil {
				return cli.Exit(fmt.Sprintf("drift insert failed: %v", err), 1)
			}
			fmt.Printf("drift introduced: editor=%q crdt=%q\n", editor.Text(), crdt.ToString())

			eng.Reconcile()
			fmt.Printf("reconciled: editor=%q crdt=%q state=%s\n", editor.Text(), crdt.ToString(), eng.State())

			return nil
		},
	}
}
