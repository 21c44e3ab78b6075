package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"dinnerwatch/internal/config"
	"dinnerwatch/internal/discord"
	"dinnerwatch/internal/ledger"
	"dinnerwatch/internal/metrics"
	"dinnerwatch/internal/pubg"
	"dinnerwatch/internal/watcher"
)

func newRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "resolve the roster and poll for wins until interrupted",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "once",
				Usage: "run a single cycle and exit",
			},
			&cli.BoolFlag{
				Name:  "skip-key-check",
				Usage: "do not validate the API key at startup",
			},
		},
		Action: runWatcher,
	}
}

func runWatcher(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	webhook := discord.NewWebhookClient(cfg.Discord.WebhookURL)

	client, err := newPUBGClient(cfg)
	if err != nil {
		return err
	}

	if !c.Bool("skip-key-check") {
		if err := checkAPIKey(c.Context, client, cfg, webhook, logger); err != nil {
			return err
		}
	}

	store, kind, err := ledger.Open(c.Context, cfg.Ledger.URL, cfg.Ledger.AuthToken)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("error closing ledger", "error", err)
		}
	}()
	logger.Info("ledger opened", "backend", kind)

	notifier := discord.NewNotifier(webhook,
		discord.WithAssetPath(cfg.Discord.AssetPath),
		discord.WithLocation(loc),
		discord.WithMapNames(pubg.MapDisplayName),
		discord.WithKillsChart(cfg.Discord.Chart),
		discord.WithNotifierLogger(logger),
	)

	opts := []watcher.Option{watcher.WithLogger(logger)}
	if cfg.Observability.MetricsAddress != "" {
		rec := metrics.NewRecorder()
		opts = append(opts, watcher.WithObserver(rec))

		srv := metrics.NewServer(cfg.Observability.MetricsAddress,
			metrics.NewRouter(rec, 3*cfg.Watcher.PollInterval, nil), logger)
		srv.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("metrics shutdown error", "error", err)
			}
		}()
	}

	scheduler := watcher.NewScheduler(
		watcher.Config{
			PollInterval: cfg.Watcher.PollInterval,
			MatchLimit:   cfg.Watcher.MatchLimit,
			Location:     loc,
		},
		cfg.PUBG.Players,
		watcher.NewResolver(client, cfg.PUBG.ResolveDelay, logger),
		client,
		store,
		notifier,
		opts...,
	)

	runCtx, stop := context.WithCancel(c.Context)
	defer stop()
	ctx := SetupSignalHandler(runCtx, logger, nil)

	if c.Bool("once") {
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		if res := scheduler.RunCycle(ctx); res.Err != nil {
			return res.Err
		}
		return nil
	}

	err = scheduler.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("watcher stopped")
		return nil
	}
	return err
}

// checkAPIKey fails startup when the API rejects the key. Network errors
// only warn, since the key may still be fine.
func checkAPIKey(ctx context.Context, client *pubg.Client, cfg *config.Config, webhook *discord.WebhookClient, logger *slog.Logger) error {
	valid, err := client.ValidateKey(ctx)
	if err != nil {
		logger.Warn("could not validate API key, continuing", "error", err)
		return nil
	}
	if valid {
		logger.Info("API key validated")
		return nil
	}

	if err := webhook.SendKeyRejectedNotification(ctx, cfg.PUBG.APIKey, cfg.PUBG.Shard); err != nil {
		logger.Warn("failed to send key rejected notification", "error", err)
	}
	return errors.New("PUBG API key rejected")
}

func newPUBGClient(cfg *config.Config) (*pubg.Client, error) {
	opts := []pubg.ClientOption{pubg.WithShard(cfg.PUBG.Shard)}
	if cfg.PUBG.BaseURL != "" {
		opts = append(opts, pubg.WithBaseURL(cfg.PUBG.BaseURL))
	}
	return pubg.NewClient(cfg.PUBG.APIKey, opts...)
}
