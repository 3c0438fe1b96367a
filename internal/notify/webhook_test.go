// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc/signcore/internal/config"
	"github.com/veridoc/signcore/internal/logger"
)

func TestWebhookSender_PostsEvent(t *testing.T) {
	received := make(chan event, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var e event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&e))
		received <- e

		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender := NewWebhookSender(config.Notify{WebhookURL: srv.URL, Timeout: 2 * time.Second}, logger.Nop())
	sender.Notify(context.Background(), 42, ChannelCorrectionRequested, map[string]string{"reason": "wrong date"})

	select {
	case e := <-received:
		assert.Equal(t, int64(42), e.SignerID)
		assert.Equal(t, ChannelCorrectionRequested, e.Channel)
		assert.Equal(t, "wrong date", e.Vars["reason"])
		assert.False(t, e.SentAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("webhook was not called")
	}
}

func TestWebhookSender_ServerErrorIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sender := NewWebhookSender(config.Notify{WebhookURL: srv.URL}, logger.Nop())

	// must not panic or return anything; failures are logged only
	sender.Notify(context.Background(), 1, ChannelResignReady, nil)
}

func TestWebhookSender_EmptyURLDisablesDelivery(t *testing.T) {
	sender := NewWebhookSender(config.Notify{}, logger.Nop())
	assert.IsType(t, &nopSender{}, sender)

	sender.Notify(context.Background(), 1, ChannelSigningCompleted, nil)
}
