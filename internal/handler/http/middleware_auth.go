package http

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/utils"
)

const apiKeyHeader = "X-Api-Key"

// operatorAuth guards the service-to-service surface with the static API key
// from configuration. The comparison is constant-time.
func (h *Handler) operatorAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		presented := r.Header.Get(apiKeyHeader)
		if h.operatorAPIKey == "" ||
			subtle.ConstantTimeCompare([]byte(presented), []byte(h.operatorAPIKey)) != 1 {
			log.Err(ErrMissingAPIKey).Str("uri", r.RequestURI).Send()
			http.Error(w, ErrMissingAPIKey.Error(), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// signerAuth enforces bearer-token authentication on the external signer
// surface.
//
// It extracts the bearer token from the "Authorization" header, validates it
// via [service.TokenService.ValidateToken] (signature, expiry, and the
// persisted active flag), and on success stores the signer's ID in the
// request context under [utils.SignerIDCtxKey] before delegating to the next
// handler. Any failure is rejected with HTTP 401 Unauthorized.
func (h *Handler) signerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		signerID, err := h.services.Tokens.ValidateToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("access token rejected")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		// downstream handlers read the signer ID from the context instead
		// of re-parsing the token
		ctx = context.WithValue(ctx, utils.SignerIDCtxKey, signerID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
