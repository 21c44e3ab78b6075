package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"dinnerwatch/internal/watcher"
)

func newResolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "resolve player names to account ids",
		ArgsUsage: "[name...]",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.PUBG.APIKey == "" {
				return fmt.Errorf("PUBG_API_KEY not set")
			}

			names := c.Args().Slice()
			if len(names) == 0 {
				names = cfg.PUBG.Players
			}
			if len(names) == 0 {
				return fmt.Errorf("no player names given and none configured")
			}

			client, err := newPUBGClient(cfg)
			if err != nil {
				return err
			}

			roster, err := watcher.NewResolver(client, cfg.PUBG.ResolveDelay, logger).Resolve(c.Context, names)
			if err != nil {
				return err
			}
			printRoster(c, roster)
			return nil
		},
	}
}

func printRoster(c *cli.Context, roster watcher.Roster) {
	for _, p := range roster.Players() {
		fmt.Fprintf(c.App.Writer, "%-20s %s\n", p.Name, p.Identity)
	}
}
