package email

import (
	"context"
	"fmt"
	"os"

	"github.com/korben-sh/korben/internal/domain/config"
	"github.com/korben-sh/korben/internal/domain/plugin"
)

// Plugin returns the email plugin descriptor.
func Plugin() plugin.Descriptor {
	return plugin.Descriptor{
		Name:    "email",
		Version: "v1.0.0",
		Tasks: func(b *plugin.Binder) error {
			b.Register("send_email", sendEmail)
			return nil
		},
	}
}

// sendEmail sends an HTML email. The recipient falls back to the plugin
// config, then to PERSONAL_EMAIL.
func sendEmail(ctx context.Context, params map[string]string) (string, error) {
	cfg, err := config.LoadPlugin("email")
	if err != nil {
		return "", err
	}
	merged := cfg.Merge(params)

	recipient := merged["recipient"]
	if recipient == "" {
		recipient = os.Getenv("PERSONAL_EMAIL")
	}
	if recipient == "" {
		return "", fmt.Errorf("no recipient specified, provide --param recipient=ADDR or set PERSONAL_EMAIL")
	}

	subject := merged["subject"]
	if subject == "" {
		return "", fmt.Errorf("no subject specified, provide --param subject=TEXT")
	}
	content := merged["content"]
	if content == "" {
		return "", fmt.Errorf("no content specified, provide --param content=HTML")
	}

	if err := NewClient().Send(ctx, recipient, subject, content); err != nil {
		return "", err
	}
	return fmt.Sprintf("Email sent to %s: %s", recipient, subject), nil
}
