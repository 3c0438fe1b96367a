package service

import (
	"context"

	"github.com/veridoc/signcore/models"
)

// PropagationService copies template field layouts onto signer document
// instances.
type PropagationService interface {
	// PropagateTemplate instantiates every template field of the given
	// template document for one (signer, document instance) pair. A pair
	// that already has instance fields is left untouched and the existing
	// fields are returned.
	PropagateTemplate(ctx context.Context, templateDocumentID, signerID, documentInstanceID int64) ([]models.Field, error)
}

// SigningService accepts signer field submissions and drives the document
// state machine that hangs off them.
type SigningService interface {
	// SubmitFieldValue validates and stores one field value on behalf of
	// the authenticated signer; writing another signer's field is refused.
	// Filling the last required field of an instance triggers the
	// CREATED→SIGNED transition (render plus aggregate recomputation);
	// re-submitting a flagged field advances the correction countdown.
	SubmitFieldValue(ctx context.Context, signerID, fieldID int64, value string) (models.Field, error)

	// ListSignerDocuments reports the state of every document instance
	// belonging to one signer.
	ListSignerDocuments(ctx context.Context, signerID int64) ([]models.DocumentStatusResponse, error)
}

// CorrectionService runs the operator-driven correction cycle over signed
// documents.
type CorrectionService interface {
	// RequestCorrection flags the named fields of a signed instance for
	// re-collection. An empty field list is rejected without any state
	// change.
	RequestCorrection(ctx context.Context, documentInstanceID int64, fieldIDs []int64, reason string) (models.DocumentInstance, error)

	// CompleteCorrections re-renders a fully corrected instance, moves it
	// to RESIGNED and rotates the signer's long-lived token. Calling it
	// again with no intervening changes returns the existing resigned
	// document without re-rendering.
	CompleteCorrections(ctx context.Context, documentInstanceID int64) (models.DocumentInstance, error)
}

// RenderService assembles filled documents into final binaries.
type RenderService interface {
	// RenderDocument re-renders a signed instance and stores the fresh
	// output under a new blob ID.
	RenderDocument(ctx context.Context, documentInstanceID int64) (models.DocumentInstance, error)

	// RenderBatch renders many instances through the bounded assembly
	// pool, reporting one outcome per input ID in input order. An empty
	// batch is rejected.
	RenderBatch(ctx context.Context, documentInstanceIDs []int64) ([]models.BatchRenderResult, error)
}

// TokenService issues and validates signer access tokens.
type TokenService interface {
	// IssueToken creates a signed token of the given kind. Long-lived
	// issuance deactivates every prior long-lived token of the signer.
	IssueToken(ctx context.Context, signerID int64, kind models.TokenKind) (models.AccessToken, error)

	// ValidateToken resolves a presented token value to its signer.
	// Both the signature/expiry and the persisted active flag must hold;
	// any failure is normalised to ErrTokenInvalid.
	ValidateToken(ctx context.Context, tokenValue string) (int64, error)
}
