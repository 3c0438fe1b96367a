// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package notify delivers signer-facing notification events to the caller
// domain. The engine does not talk to signers directly: it emits events
// (signing link issued, correction requested, corrected document ready) and
// the caller domain turns them into e-mails or messenger pushes.
package notify

import "context"

// Channel names the notification event being emitted.
type Channel string

const (
	// ChannelSigningRequested: a signing link/token was issued for the signer.
	ChannelSigningRequested Channel = "signing_requested"

	// ChannelCorrectionRequested: an operator flagged fields for re-collection.
	ChannelCorrectionRequested Channel = "correction_requested"

	// ChannelResignReady: the corrected document was re-rendered and a fresh
	// access token was issued.
	ChannelResignReady Channel = "resign_ready"

	// ChannelSigningCompleted: the signer finished all their documents.
	ChannelSigningCompleted Channel = "signing_completed"
)

// Sender emits one notification event. Delivery is fire-and-forget: failures
// are logged by the implementation and never propagated, so a broken webhook
// cannot fail a signing transaction.
type Sender interface {
	Notify(ctx context.Context, signerID int64, channel Channel, vars map[string]string)
}
