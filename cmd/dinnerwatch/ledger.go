package main

import (
	"fmt"
	"slices"

	"github.com/urfave/cli/v2"

	"dinnerwatch/internal/config"
	"dinnerwatch/internal/ledger"
)

func newLedgerCommand() *cli.Command {
	return &cli.Command{
		Name:  "ledger",
		Usage: "list the match ids recorded in the ledger",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "count",
				Usage: "print only the number of recorded matches",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, _, err := loadConfig(c)
			if err != nil {
				return err
			}
			return printLedger(c, cfg)
		},
	}
}

func printLedger(c *cli.Context, cfg *config.Config) error {
	store, kind, err := ledger.Open(c.Context, cfg.Ledger.URL, cfg.Ledger.AuthToken)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	ids, err := store.Load(c.Context)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	if c.Bool("count") {
		fmt.Fprintf(c.App.Writer, "%d\n", len(ids))
		return nil
	}

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	slices.Sort(sorted)

	fmt.Fprintf(c.App.Writer, "%s ledger: %d matches\n", kind, len(sorted))
	for _, id := range sorted {
		fmt.Fprintln(c.App.Writer, id)
	}
	return nil
}
