// Package email sends mail through the Postmark API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "https://api.postmarkapp.com"

// Client is a minimal Postmark API client.
type Client struct {
	BaseURL    string
	Token      string
	From       string
	HTTPClient *http.Client
}

// NewClient creates a client configured from the environment
// (POSTMARK_API_KEY, POSTMARK_FROM_EMAIL).
func NewClient() *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		Token:      os.Getenv("POSTMARK_API_KEY"),
		From:       os.Getenv("POSTMARK_FROM_EMAIL"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Send delivers an HTML email using a client configured from the
// environment. Flows in other plugins compose on top of this.
func Send(ctx context.Context, recipient, subject, content string) error {
	return NewClient().Send(ctx, recipient, subject, content)
}

type sendRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
}

// Send delivers an HTML email to recipient.
func (c *Client) Send(ctx context.Context, recipient, subject, content string) error {
	if c.Token == "" {
		return fmt.Errorf("no Postmark token, set POSTMARK_API_KEY")
	}
	if c.From == "" {
		return fmt.Errorf("no sender address, set POSTMARK_FROM_EMAIL")
	}

	body, err := json.Marshal(sendRequest{
		From:     c.From,
		To:       recipient,
		Subject:  subject,
		HTMLBody: content,
	})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("postmark returned %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
