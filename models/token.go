// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two access-grant lifetimes handed to external
// signers. The kinds differ only in TTL and revocation cadence.
type TokenKind string

const (
	// TokenKindShortLived is a one-visit grant (e.g. a link in a
	// notification message).
	TokenKindShortLived TokenKind = "SHORT_LIVED"

	// TokenKindLongLived is the standing grant a signer keeps across a
	// signing or correction session. At most one long-lived token per
	// signer is active at any time.
	TokenKindLongLived TokenKind = "LONG_LIVED"
)

// AccessToken is the persisted record of one issued bearer token.
//
// Rows are soft-invalidated (Active=false), never deleted: validation
// requires both cryptographic validity of TokenValue and Active=true, so a
// persisted flag flip revokes a grant across restarts and instances without
// any in-process revocation cache.
type AccessToken struct {
	// ID is the unique identifier of the record in the database.
	ID int64 `json:"id"`

	// SignerID scopes the token to exactly one signer.
	SignerID int64 `json:"signer_id"`

	// TokenValue is the compact signed JWT handed to the signer.
	TokenValue string `json:"token_value"`

	// Kind is the token's lifetime class.
	Kind TokenKind `json:"kind"`

	// ExpiresAt is the cryptographic expiry baked into TokenValue.
	ExpiresAt time.Time `json:"expires_at"`

	// Active is the persisted revocation flag. Inactive tokens are
	// rejected even before ExpiresAt.
	Active bool `json:"active"`

	// CreatedAt is the timestamp when the record was created.
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// SignerClaims is the claim set embedded in every issued signer token.
// Subject carries the signer ID; Kind rides along so validation can verify
// the persisted row matches the presented credential.
type SignerClaims struct {
	jwt.RegisteredClaims

	// Kind is the token's lifetime class as issued.
	Kind TokenKind `json:"knd"`
}
