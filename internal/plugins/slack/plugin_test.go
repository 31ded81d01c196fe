package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := Post(context.Background(), srv.URL, "deploy finished")
	require.NoError(t, err)
	assert.Equal(t, "deploy finished", payload["text"])
}

func TestPost_WebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := Post(context.Background(), srv.URL, "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestSendSlackHook_NamedWebhookFromConfig(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir := t.TempDir()
	t.Setenv("KORBEN_CONFIG_DIR", dir)
	cfg := "variables:\n  webhooks:\n    alerts: " + srv.URL + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slack.yml"), []byte(cfg), 0o644))

	out, err := sendSlackHook(context.Background(), map[string]string{
		"message":   "disk almost full",
		"hook_name": "alerts",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
	assert.Contains(t, out, `"alerts"`)
}

func TestSendSlackHook_MissingMessage(t *testing.T) {
	t.Setenv("KORBEN_CONFIG_DIR", t.TempDir())

	_, err := sendSlackHook(context.Background(), nil)
	assert.ErrorContains(t, err, "message")
}

func TestSendSlackHook_NoWebhookConfigured(t *testing.T) {
	t.Setenv("KORBEN_CONFIG_DIR", t.TempDir())
	t.Setenv("SLACK_WEBHOOK_URL", "")

	_, err := sendSlackHook(context.Background(), map[string]string{"message": "hi"})
	assert.ErrorContains(t, err, "SLACK_WEBHOOK_URL")
}
