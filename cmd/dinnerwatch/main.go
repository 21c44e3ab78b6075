// Command dinnerwatch watches a roster of PUBG players and posts to Discord
// whenever one of them wins a match.
package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"dinnerwatch/internal/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("dinnerwatch failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "dinnerwatch",
		Usage: "post PUBG chicken dinners to Discord",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "dinnerwatch.yaml",
				Usage:   "path to the YAML config file (optional)",
				EnvVars: []string{"DINNERWATCH_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			newRunCommand(),
			newResolveCommand(),
			newLedgerCommand(),
		},
		DefaultCommand: "run",
	}
}

// loadConfig loads .env files and the config file named by --config, and
// installs the configured logger as the default.
func loadConfig(c *cli.Context) (*config.Config, *slog.Logger, error) {
	envPath := config.LoadEnvFiles(config.DefaultEnvPaths...)

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	if envPath != "" {
		logger.Debug("loaded .env", "path", envPath)
	} else {
		logger.Debug("no .env file found, using environment variables")
	}
	return cfg, logger, nil
}
