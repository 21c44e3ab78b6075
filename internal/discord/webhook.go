package discord

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

const (
	// Colors for Discord embeds
	colorRed = 15158332 // 0xE74C3C - for errors/expiration

	// Default timeout for webhook requests
	defaultWebhookTimeout = 10 * time.Second

	// Max retries for rate limiting
	maxRetries = 3
)

// WebhookPayload represents a Discord webhook message
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed represents a Discord embed
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField represents a field in a Discord embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter represents the footer of a Discord embed
type EmbedFooter struct {
	Text string `json:"text"`
}

// NewKeyRejectedPayload creates a payload for a PUBG API key the API refused
func NewKeyRejectedPayload(apiKey string, shard string) WebhookPayload {
	return WebhookPayload{
		Content: "@here PUBG API key rejected",
		Embeds: []Embed{
			{
				Title: "🔑 API Key Rejected",
				Color: colorRed,
				Fields: []EmbedField{
					{
						Name:   "Key",
						Value:  maskAPIKey(apiKey),
						Inline: true,
					},
					{
						Name:   "Shard",
						Value:  shard,
						Inline: true,
					},
				},
				Footer: &EmbedFooter{
					Text: "Set a new PUBG_API_KEY and restart the watcher",
				},
			},
		},
	}
}

// WebhookClient sends messages and files to a Discord webhook
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient creates a new WebhookClient
func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: defaultWebhookTimeout,
		},
	}
}

// SendContent posts a plain text message
func (c *WebhookClient) SendContent(ctx context.Context, content string) error {
	return c.SendPayload(ctx, WebhookPayload{Content: content})
}

// SendKeyRejectedNotification alerts the channel that the API key was refused
func (c *WebhookClient) SendKeyRejectedNotification(ctx context.Context, apiKey string, shard string) error {
	return c.SendPayload(ctx, NewKeyRejectedPayload(apiKey, shard))
}

// SendPayload sends a JSON webhook payload
func (c *WebhookClient) SendPayload(ctx context.Context, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return c.send(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}

// SendFile uploads a file as a multipart "file" attachment
func (c *WebhookClient) SendFile(ctx context.Context, filename string, content []byte) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}
	data := body.Bytes()
	contentType := mw.FormDataContentType()

	return c.send(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
}

// send performs the request built by newReq, retrying on rate limiting
func (c *WebhookClient) send(ctx context.Context, newReq func() (*http.Request, error)) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := newReq()
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		// Discord returns 204 for JSON posts and 200 for uploads
		if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
			return nil
		}

		// Rate limited - wait and retry
		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfter(resp.Header.Get("Retry-After"))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return fmt.Errorf("webhook request failed after %d retries", maxRetries)
}

// retryAfter parses a Retry-After header, which Discord may send with a
// fractional part. Missing or bad values wait one second.
func retryAfter(header string) time.Duration {
	if header == "" {
		return time.Second
	}
	seconds, err := strconv.ParseFloat(header, 64)
	if err != nil || seconds < 0 {
		return time.Second
	}
	return time.Duration(seconds * float64(time.Second))
}

// maskAPIKey masks an API key for display (e.g., "eyJhbGciOi...xyz" -> "eyJhb...wxyz")
func maskAPIKey(key string) string {
	if len(key) <= 10 {
		return "****"
	}
	return key[:5] + "..." + key[len(key)-4:]
}
