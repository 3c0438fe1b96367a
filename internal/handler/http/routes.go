package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// operator API: service-to-service calls from the contract domain
	router.Group(func(r chi.Router) {
		r.Use(h.operatorAuth)
		r.Post("/api/templates/{templateDocID}/propagate", h.propagateTemplate)
		r.Post("/api/documents/{id}/render", h.renderDocument)
		r.Post("/api/documents/render-batch", h.renderBatch)
		r.Post("/api/documents/{id}/corrections", h.requestCorrection)
		r.Post("/api/documents/{id}/corrections/complete", h.completeCorrections)
		r.Post("/api/signers/{id}/tokens", h.issueToken)
	})

	// signer API: external parties holding an access token
	router.Group(func(r chi.Router) {
		r.Use(h.signerAuth)
		r.Post("/api/sign/fields/{fieldID}", h.submitFieldValue)
		r.Get("/api/sign/documents", h.listSignerDocuments)
	})

	return router
}
