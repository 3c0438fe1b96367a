package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/utils"
	"github.com/veridoc/signcore/models"
)

// pathID parses the named chi URL parameter as an int64 identifier.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) propagateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	templateDocID, ok := pathID(r, "templateDocID")
	if !ok {
		http.Error(w, "invalid template document id", http.StatusBadRequest)
		return
	}

	var req models.PropagateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	fields, err := h.services.Propagation.PropagateTemplate(ctx, templateDocID, req.SignerID, req.DocumentInstanceID)
	if err != nil {
		log.Err(err).Int64("template_document_id", templateDocID).Msg("template propagation failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	if _, err = utils.WriteJSON(w, models.PropagateResponse{Fields: fields}, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing propagation response")
	}
}
