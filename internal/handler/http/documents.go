package http

import (
	"encoding/json"
	"net/http"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/utils"
	"github.com/veridoc/signcore/models"
)

func (h *Handler) renderDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid document id", http.StatusBadRequest)
		return
	}

	doc, err := h.services.Render.RenderDocument(ctx, id)
	if err != nil {
		log.Err(err).Int64("document_instance_id", id).Msg("document render failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	if _, err = utils.WriteJSON(w, models.RenderResponse{DocumentID: doc.CurrentDocumentID()}, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing render response")
	}
}

func (h *Handler) renderBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.BatchRenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	results, err := h.services.Render.RenderBatch(ctx, req.DocumentInstanceIDs)
	if err != nil {
		log.Err(err).Int("batch_size", len(req.DocumentInstanceIDs)).Msg("batch render failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	if _, err = utils.WriteJSON(w, models.BatchRenderResponse{Results: results}, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing batch render response")
	}
}

func (h *Handler) requestCorrection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid document id", http.StatusBadRequest)
		return
	}

	var req models.CorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	doc, err := h.services.Correction.RequestCorrection(ctx, id, req.FieldIDs, req.Reason)
	if err != nil {
		log.Err(err).Int64("document_instance_id", id).Msg("correction request failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	if _, err = utils.WriteJSON(w, doc, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing correction response")
	}
}

func (h *Handler) completeCorrections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid document id", http.StatusBadRequest)
		return
	}

	doc, err := h.services.Correction.CompleteCorrections(ctx, id)
	if err != nil {
		log.Err(err).Int64("document_instance_id", id).Msg("correction completion failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	if _, err = utils.WriteJSON(w, doc, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing correction completion response")
	}
}
