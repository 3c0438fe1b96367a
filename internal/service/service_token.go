package service

import (
	"context"
	"fmt"
	"time"

	"github.com/veridoc/signcore/internal/config"
	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/store"
	"github.com/veridoc/signcore/internal/utils"
	"github.com/veridoc/signcore/models"
)

// tokenService is the concrete implementation of TokenService.
// Every issued token exists twice: as a signed JWT handed to the signer and
// as a persisted row with an active flag. Validation requires both, so a
// flipped flag revokes a grant without any in-process revocation cache.
type tokenService struct {
	tokens store.TokenRepository

	// signKey is the HMAC secret used to sign and verify signer tokens.
	signKey string

	// issuer is the "iss" claim embedded in every issued token.
	issuer string

	// shortTTL and longTTL are the lifetimes per token kind.
	shortTTL time.Duration
	longTTL  time.Duration

	logger *logger.Logger
}

func NewTokenService(tokens store.TokenRepository, cfg config.App, logger *logger.Logger) TokenService {
	return &tokenService{
		tokens:   tokens,
		signKey:  cfg.TokenSignKey,
		issuer:   cfg.TokenIssuer,
		shortTTL: cfg.ShortLivedTokenTTL,
		longTTL:  cfg.LongLivedTokenTTL,
		logger:   logger,
	}
}

func (t *tokenService) IssueToken(ctx context.Context, signerID int64, kind models.TokenKind) (models.AccessToken, error) {
	log := logger.FromContext(ctx)

	var ttl time.Duration
	switch kind {
	case models.TokenKindShortLived:
		ttl = t.shortTTL
	case models.TokenKindLongLived:
		ttl = t.longTTL
	default:
		return models.AccessToken{}, fmt.Errorf("%w: unknown token kind %q", ErrInvalidDataProvided, kind)
	}

	value, expiresAt, err := utils.GenerateSignerToken(t.issuer, signerID, kind, ttl, t.signKey)
	if err != nil {
		log.Err(err).Int64("signer_id", signerID).Msg("token signing failed")
		return models.AccessToken{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	created, err := t.tokens.CreateToken(ctx, models.AccessToken{
		SignerID:   signerID,
		TokenValue: value,
		Kind:       kind,
		ExpiresAt:  expiresAt,
	})
	if err != nil {
		return models.AccessToken{}, fmt.Errorf("token persistence failed: %w", err)
	}

	log.Info().Int64("signer_id", signerID).Str("kind", string(kind)).Msg("access token issued")

	return created, nil
}

func (t *tokenService) ValidateToken(ctx context.Context, tokenValue string) (int64, error) {
	log := logger.FromContext(ctx)

	signerID, kind, err := utils.ParseSignerToken(tokenValue, t.signKey, t.issuer)
	if err != nil {
		log.Debug().Err(err).Msg("token signature rejected")
		return 0, ErrTokenInvalid
	}

	record, err := t.tokens.GetActiveTokenByValue(ctx, tokenValue)
	if err != nil {
		log.Debug().Int64("signer_id", signerID).Err(err).Msg("token not active")
		return 0, ErrTokenInvalid
	}

	if record.SignerID != signerID || record.Kind != kind {
		log.Error().Int64("signer_id", signerID).Int64("record_signer_id", record.SignerID).Msg("token claims do not match record")
		return 0, ErrTokenInvalid
	}

	return signerID, nil
}
