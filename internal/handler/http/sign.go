package http

import (
	"encoding/json"
	"net/http"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/utils"
	"github.com/veridoc/signcore/models"
)

func (h *Handler) submitFieldValue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	fieldID, ok := pathID(r, "fieldID")
	if !ok {
		http.Error(w, "invalid field id", http.StatusBadRequest)
		return
	}

	signerID, ok := utils.GetSignerIDFromContext(ctx)
	if !ok {
		log.Error().Msg("signer id missing from authenticated request")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.SubmitFieldValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	field, err := h.services.Signing.SubmitFieldValue(ctx, signerID, fieldID, req.Value)
	if err != nil {
		log.Err(err).Int64("field_id", fieldID).Msg("field submission failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	if _, err = utils.WriteJSON(w, field, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing field response")
	}
}

func (h *Handler) listSignerDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	signerID, ok := utils.GetSignerIDFromContext(ctx)
	if !ok {
		log.Error().Msg("signer id missing from authenticated request")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	statuses, err := h.services.Signing.ListSignerDocuments(ctx, signerID)
	if err != nil {
		log.Err(err).Int64("signer_id", signerID).Msg("document listing failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	if _, err = utils.WriteJSON(w, statuses, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing documents response")
	}
}
