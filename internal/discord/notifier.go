package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dinnerwatch/internal/watcher"
)

// DefaultAssetPath is the image posted ahead of every winner message.
const DefaultAssetPath = "battlegrounds.jpg"

// Notifier posts winning matches to a Discord webhook. It implements
// watcher.Notifier.
type Notifier struct {
	client    *WebhookClient
	assetPath string
	location  *time.Location
	mapName   func(string) string
	chart     bool
	logger    *slog.Logger
}

// NotifierOption configures a Notifier
type NotifierOption func(*Notifier)

// WithAssetPath sets the image uploaded before the message. An empty path
// disables the upload.
func WithAssetPath(path string) NotifierOption {
	return func(n *Notifier) { n.assetPath = path }
}

// WithLocation sets the zone the match date is shown in
func WithLocation(loc *time.Location) NotifierOption {
	return func(n *Notifier) {
		if loc != nil {
			n.location = loc
		}
	}
}

// WithMapNames translates map ids to display names
func WithMapNames(fn func(string) string) NotifierOption {
	return func(n *Notifier) { n.mapName = fn }
}

// WithKillsChart enables the kills bar chart upload
func WithKillsChart(enabled bool) NotifierOption {
	return func(n *Notifier) { n.chart = enabled }
}

// WithNotifierLogger sets the logger
func WithNotifierLogger(l *slog.Logger) NotifierOption {
	return func(n *Notifier) { n.logger = l }
}

// NewNotifier creates a Notifier posting through client
func NewNotifier(client *WebhookClient, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		client:    client,
		assetPath: DefaultAssetPath,
		location:  time.UTC,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.With("component", "discord")
	return n
}

// Notify uploads the asset, then posts the winner message, then the chart
// when enabled. Each step is attempted even if an earlier one failed; all
// failures are returned joined.
func (n *Notifier) Notify(ctx context.Context, summary watcher.MatchSummary, board []watcher.LeaderboardRow) error {
	var errs []error

	if n.assetPath != "" {
		if err := n.sendAsset(ctx); err != nil {
			errs = append(errs, fmt.Errorf("asset upload: %w", err))
		}
	}

	content := WinnerMessage(summary, board, n.location, n.mapName)
	if err := n.client.SendContent(ctx, content); err != nil {
		errs = append(errs, fmt.Errorf("message: %w", err))
	}

	if n.chart && len(board) > 0 {
		if err := n.sendChart(ctx, summary.ID, board); err != nil {
			errs = append(errs, fmt.Errorf("chart: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	n.logger.Info("winner posted", "match_id", summary.ID, "players", len(board))
	return nil
}

func (n *Notifier) sendAsset(ctx context.Context) error {
	data, err := os.ReadFile(n.assetPath)
	if err != nil {
		return err
	}
	return n.client.SendFile(ctx, filepath.Base(n.assetPath), data)
}

func (n *Notifier) sendChart(ctx context.Context, matchID string, board []watcher.LeaderboardRow) error {
	png, err := RenderKillsChart(board)
	if err != nil {
		return err
	}
	return n.client.SendFile(ctx, "kills-"+matchID+".png", png)
}
