package http

import (
	"encoding/json"
	"net/http"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/utils"
	"github.com/veridoc/signcore/models"
)

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	signerID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid signer id", http.StatusBadRequest)
		return
	}

	var req models.IssueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.Tokens.IssueToken(ctx, signerID, req.Kind)
	if err != nil {
		log.Err(err).Int64("signer_id", signerID).Msg("token issuance failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	response := models.TokenResponse{
		Token:     token.TokenValue,
		Kind:      token.Kind,
		ExpiresAt: token.ExpiresAt,
	}
	if _, err = utils.WriteJSON(w, response, http.StatusCreated); err != nil {
		log.Err(err).Msg("error writing token response")
	}
}
