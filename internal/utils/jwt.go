// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/veridoc/signcore/models"
)

// GenerateSignerToken creates a signed HMAC-SHA256 JWT scoped to one signer.
//
// The token carries the standard claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the signer ID encoded as a string
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus ttl
//
// plus the private "knd" claim holding the token's lifetime class, so that
// validation can cross-check the presented credential against the persisted
// token row.
//
// All parameters are required; an error is returned if any are empty or zero.
func GenerateSignerToken(issuer string, signerID int64, kind models.TokenKind, ttl time.Duration, signKey string) (string, time.Time, error) {
	if issuer == "" || ttl == 0 || signKey == "" || kind == "" {
		return "", time.Time{}, errors.New("invalid params for generating signer token")
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &models.SignerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(signerID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Kind: kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error occurred during signing signer token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ParseSignerToken validates the given token string and extracts its claims.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided issuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence and conversion to an int64 signer ID
//
// Returns the signer ID and the token's lifetime class, or an error if
// validation fails or the claims are malformed.
func ParseSignerToken(tokenString, signKey, issuer string) (int64, models.TokenKind, error) {
	claims := &models.SignerClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return 0, "", fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return 0, "", fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if subject == "" {
		return 0, "", errors.New("empty subject error")
	}

	signerID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("error occurred during converting subject to signer ID: %w", err)
	}

	return signerID, claims.Kind, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
