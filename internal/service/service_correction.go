package service

import (
	"context"
	"fmt"
	"time"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/notify"
	"github.com/veridoc/signcore/internal/store"
	"github.com/veridoc/signcore/models"
)

// correctionService runs the operator-driven correction cycle: flag fields
// on a signed instance, collect the re-submissions (signingService's job),
// then re-render and hand the signer a fresh long-lived token.
type correctionService struct {
	fields    store.FieldRepository
	documents store.DocumentRepository

	assembler documentAssembler
	tokens    TokenService
	sender    notify.Sender

	logger *logger.Logger
}

func NewCorrectionService(
	repos *store.Repositories,
	assembler documentAssembler,
	tokens TokenService,
	sender notify.Sender,
	logger *logger.Logger,
) CorrectionService {
	return &correctionService{
		fields:    repos.Fields,
		documents: repos.Documents,
		assembler: assembler,
		tokens:    tokens,
		sender:    sender,
		logger:    logger,
	}
}

func (c *correctionService) RequestCorrection(ctx context.Context, documentInstanceID int64, fieldIDs []int64, reason string) (models.DocumentInstance, error) {
	log := logger.FromContext(ctx)

	if len(fieldIDs) == 0 {
		log.Error().Int64("document_instance_id", documentInstanceID).Msg("correction request without fields rejected")
		return models.DocumentInstance{}, ErrCorrectionRequestEmpty
	}

	doc, err := c.documents.GetDocumentByID(ctx, documentInstanceID)
	if err != nil {
		return models.DocumentInstance{}, fmt.Errorf("document lookup failed: %w", err)
	}

	if !doc.State.CanTransition(models.DocumentCorrectionRequested) {
		log.Error().Int64("document_instance_id", doc.ID).Str("state", string(doc.State)).Msg("correction request in illegal state")
		return models.DocumentInstance{}, ErrIllegalTransition
	}

	now := time.Now()
	flagged, err := c.fields.FlagForCorrection(ctx, doc.ID, fieldIDs, reason, now)
	if err != nil {
		return models.DocumentInstance{}, fmt.Errorf("field flagging failed: %w", err)
	}
	if flagged == 0 {
		return models.DocumentInstance{}, fmt.Errorf("%w: no fields of instance %d matched", store.ErrFieldNotFound, doc.ID)
	}

	state := models.DocumentCorrectionRequested
	needsResign := true
	updated, err := c.documents.UpdateDocument(ctx, models.DocumentUpdate{
		ID:                doc.ID,
		State:             &state,
		NeedsResign:       &needsResign,
		ResignRequestedAt: &now,
	})
	if err != nil {
		return models.DocumentInstance{}, fmt.Errorf("document update failed: %w", err)
	}

	log.Info().Int64("document_instance_id", doc.ID).Int64("fields_flagged", flagged).Msg("correction requested")

	c.sender.Notify(ctx, doc.SignerID, notify.ChannelCorrectionRequested, map[string]string{"reason": reason})

	return updated, nil
}

func (c *correctionService) CompleteCorrections(ctx context.Context, documentInstanceID int64) (models.DocumentInstance, error) {
	log := logger.FromContext(ctx)

	doc, err := c.documents.GetDocumentByID(ctx, documentInstanceID)
	if err != nil {
		return models.DocumentInstance{}, fmt.Errorf("document lookup failed: %w", err)
	}

	// completing an already-completed cycle re-uses the existing output
	if doc.State == models.DocumentResigned && !doc.NeedsResign {
		return doc, nil
	}

	if !doc.State.CanTransition(models.DocumentResigned) {
		log.Error().Int64("document_instance_id", doc.ID).Str("state", string(doc.State)).Msg("correction completion in illegal state")
		return models.DocumentInstance{}, ErrIllegalTransition
	}

	remaining, err := c.fields.CountFlagged(ctx, doc.ID)
	if err != nil {
		return models.DocumentInstance{}, fmt.Errorf("flagged field count failed: %w", err)
	}
	if remaining > 0 {
		return models.DocumentInstance{}, fmt.Errorf("%w: %d of instance %d", ErrCorrectionOutstanding, remaining, doc.ID)
	}

	blobID, err := c.assembler.assemble(ctx, doc)
	if err != nil {
		return models.DocumentInstance{}, err
	}

	// issued before the state flips to RESIGNED: if rotation fails here the
	// document stays retryable instead of landing in the completed branch
	// above with no active token
	token, err := c.tokens.IssueToken(ctx, doc.SignerID, models.TokenKindLongLived)
	if err != nil {
		return models.DocumentInstance{}, err
	}

	state := models.DocumentResigned
	needsResign := false
	updated, err := c.documents.UpdateDocument(ctx, models.DocumentUpdate{
		ID:                     doc.ID,
		State:                  &state,
		ResignedDocumentID:     &blobID,
		NeedsResign:            &needsResign,
		ClearResignRequestedAt: true,
	})
	if err != nil {
		return models.DocumentInstance{}, fmt.Errorf("document update failed: %w", err)
	}

	log.Info().Int64("document_instance_id", doc.ID).Str("blob_id", blobID).Msg("corrections completed")

	c.sender.Notify(ctx, doc.SignerID, notify.ChannelResignReady, map[string]string{"token": token.TokenValue})

	return updated, nil
}
