// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/models"
)

// tokenRepository is the PostgreSQL-backed implementation of
// [TokenRepository].
type tokenRepository struct {
	*DB
	logger *logger.Logger
}

// NewTokenRepository constructs a [TokenRepository] backed by the provided
// database connection and logger.
func NewTokenRepository(db *DB, log *logger.Logger) TokenRepository {
	log.Debug().Msg("creating token repository")
	return &tokenRepository{DB: db, logger: log}
}

func scanToken(row rowScanner) (models.AccessToken, error) {
	var t models.AccessToken
	err := row.Scan(&t.ID, &t.SignerID, &t.TokenValue, &t.Kind, &t.ExpiresAt, &t.Active, &t.CreatedAt)
	return t, err
}

// CreateToken inserts a new active token. A long-lived token deactivates
// every prior long-lived token of the same signer in the same transaction,
// so at most one valid long-lived grant is ever observable.
func (r *tokenRepository) CreateToken(ctx context.Context, token models.AccessToken) (models.AccessToken, error) {
	log := logger.FromContext(ctx)

	if token.Kind != models.TokenKindLongLived {
		created, err := scanToken(r.DB.QueryRowContext(ctx, createToken, token.SignerID, token.TokenValue, token.Kind, token.ExpiresAt))
		if err != nil {
			log.Err(err).Str("func", "tokenRepository.CreateToken").Int64("signer_id", token.SignerID).Msg("error saving token")
			return models.AccessToken{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return created, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "tokenRepository.CreateToken").Msg("error during opening transaction")
		return models.AccessToken{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, deactivateLongLivedTokens, token.SignerID); err != nil {
		log.Err(err).Str("func", "tokenRepository.CreateToken").Int64("signer_id", token.SignerID).Msg("error deactivating prior long-lived tokens")
		return models.AccessToken{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	created, err := scanToken(tx.QueryRowContext(ctx, createToken, token.SignerID, token.TokenValue, token.Kind, token.ExpiresAt))
	if err != nil {
		log.Err(err).Str("func", "tokenRepository.CreateToken").Int64("signer_id", token.SignerID).Msg("error saving rotated token")
		return models.AccessToken{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "tokenRepository.CreateToken").Msg("error committing transaction")
		return models.AccessToken{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return created, nil
}

// GetActiveTokenByValue resolves a presented token value to its active
// record.
func (r *tokenRepository) GetActiveTokenByValue(ctx context.Context, tokenValue string) (models.AccessToken, error) {
	log := logger.FromContext(ctx)

	token, err := scanToken(r.DB.QueryRowContext(ctx, getActiveTokenByValue, tokenValue))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AccessToken{}, ErrTokenNotFound
		}
		log.Err(err).Str("func", "tokenRepository.GetActiveTokenByValue").Msg("error scanning token row")
		return models.AccessToken{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return token, nil
}
