// Package slack sends messages through Slack incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/korben-sh/korben/internal/domain/config"
	"github.com/korben-sh/korben/internal/domain/plugin"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Plugin returns the slack plugin descriptor.
func Plugin() plugin.Descriptor {
	return plugin.Descriptor{
		Name:    "slack",
		Version: "v1.0.0",
		Tasks: func(b *plugin.Binder) error {
			b.Register("send_slack_hook", sendSlackHook)
			return nil
		},
	}
}

// sendSlackHook posts a message to a named webhook. Webhook URLs come from
// the plugin config (variables.webhooks), falling back to SLACK_WEBHOOK_URL.
func sendSlackHook(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("slack")
	if err != nil {
		return "", err
	}
	merged := cfg.Merge(params)

	message := merged["message"]
	if message == "" {
		return "", fmt.Errorf("no message specified, provide --param message=TEXT")
	}

	hookName := merged["hook_name"]
	if hookName == "" {
		hookName = "default"
	}

	webhookURL := cfg.StringMap("webhooks")[hookName]
	if webhookURL == "" {
		webhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	}
	if webhookURL == "" {
		return "", fmt.Errorf("no webhook URL for %q, configure variables.webhooks or set SLACK_WEBHOOK_URL", hookName)
	}

	if err := Post(ctx, webhookURL, message); err != nil {
		return "", err
	}
	return fmt.Sprintf("Message sent to Slack webhook %q", hookName), nil
}

// Post sends a message to a webhook URL. Flows in other plugins compose on
// top of this.
func Post(ctx context.Context, webhookURL, message string) error {
	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
