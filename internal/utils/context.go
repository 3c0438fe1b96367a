// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys,
// HTTP response writing, JWT token generation and validation,
// serial-number generation, and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// SignerIDCtxKey is the key used to store the authenticated signer's
// identifier in the context. Used together with GetSignerIDFromContext for
// type-safe retrieval of the signer ID from context.Context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.SignerIDCtxKey, int64(42))
var SignerIDCtxKey = contextKey("signerID")

// GetSignerIDFromContext retrieves the signer identifier from the context.
//
// Returns the signer ID of type int64 and an ok flag:
//   - ok == true  — value is found and has the correct int64 type
//   - ok == false — value is missing or has an unexpected type
func GetSignerIDFromContext(ctx context.Context) (int64, bool) {
	signerID, ok := ctx.Value(SignerIDCtxKey).(int64)
	return signerID, ok
}
