// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package notify

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/veridoc/signcore/internal/config"
	"github.com/veridoc/signcore/internal/logger"
)

// event is the JSON body posted to the webhook endpoint.
type event struct {
	SignerID int64             `json:"signer_id"`
	Channel  Channel           `json:"channel"`
	Vars     map[string]string `json:"vars,omitempty"`
	SentAt   time.Time         `json:"sent_at"`
}

type webhookSender struct {
	client *resty.Client

	logger *logger.Logger
}

// NewWebhookSender constructs a [Sender] that POSTs events to the configured
// webhook URL. An empty URL yields a sender that drops every event, so
// notification wiring is always safe to call.
func NewWebhookSender(cfg config.Notify, logger *logger.Logger) Sender {
	if cfg.WebhookURL == "" {
		logger.Warn().Msg("no webhook url configured, notifications disabled")
		return &nopSender{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	cli := resty.New().
		SetBaseURL(cfg.WebhookURL).
		SetTimeout(timeout)

	return &webhookSender{client: cli, logger: logger}
}

func (w *webhookSender) Notify(ctx context.Context, signerID int64, channel Channel, vars map[string]string) {
	log := logger.FromContext(ctx)

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event{SignerID: signerID, Channel: channel, Vars: vars, SentAt: time.Now()}).
		Post("")
	if err != nil {
		log.Err(err).Int64("signer_id", signerID).Str("channel", string(channel)).Msg("notification delivery failed")
		return
	}
	if resp.IsError() {
		log.Error().Int64("signer_id", signerID).Str("channel", string(channel)).
			Int("status", resp.StatusCode()).Msg("notification rejected by webhook")
		return
	}

	log.Debug().Int64("signer_id", signerID).Str("channel", string(channel)).Msg("notification delivered")
}

type nopSender struct{}

func (*nopSender) Notify(context.Context, int64, Channel, map[string]string) {}
