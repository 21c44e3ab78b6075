package discord

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
)

// TestNotifier_Notify_Integration posts a real winner message to Discord
func TestNotifier_Notify_Integration(t *testing.T) {
	godotenv.Load("../../.env")

	webhookURL := os.Getenv("DISCORD_WEBHOOK_URL")
	if webhookURL == "" {
		t.Skip("DISCORD_WEBHOOK_URL not set, skipping integration test")
	}

	n := NewNotifier(NewWebhookClient(webhookURL),
		WithAssetPath(""),
		WithKillsChart(true),
		WithNotifierLogger(quietLogger()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := n.Notify(ctx, testSummary(), testBoard()); err != nil {
		t.Fatalf("Failed to send winner notification: %v", err)
	}

	t.Log("Successfully sent winner notification to Discord")
}
