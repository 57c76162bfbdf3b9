package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.WebhookEvent("stripe", "checkout.session.completed", "evt_123")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "webhook_event", entry["msg"])
	assert.Equal(t, "stripe", entry["provider"])
	assert.Equal(t, "evt_123", entry["event_id"])
}

func TestWithContextAddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "user_2abc")
	log.WithContext(ctx).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "user_2abc", entry["user_id"])
}

func TestWebhookRejectedIncludesError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.WebhookRejected("clerk", "signature", errors.New("no matching signature"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "no matching signature", entry["error"])
}
