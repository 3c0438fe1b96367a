// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware. Callers can match
// against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the signer auth middleware
	// when the incoming request carries no "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrMissingAPIKey is returned by the operator auth middleware when the
	// API key header is absent or does not match the configured key.
	ErrMissingAPIKey = errors.New("missing or invalid API key")
)
