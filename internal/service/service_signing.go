package service

import (
	"context"
	"fmt"
	"time"

	"github.com/veridoc/signcore/internal/crypto"
	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/notify"
	"github.com/veridoc/signcore/internal/store"
	"github.com/veridoc/signcore/internal/validators"
	"github.com/veridoc/signcore/models"
)

// signingService accepts signer field submissions and drives the per-instance
// state machine: filling the last required field flips CREATED→SIGNED (render
// plus transactional aggregate recomputation), re-submitting a flagged field
// advances the correction countdown.
type signingService struct {
	fields    store.FieldRepository
	documents store.DocumentRepository
	signers   store.SignerRepository

	assembler documentAssembler
	validator validators.Validator
	cipher    crypto.FieldCipher
	sender    notify.Sender

	logger *logger.Logger
}

func NewSigningService(
	repos *store.Repositories,
	assembler documentAssembler,
	validator validators.Validator,
	cipher crypto.FieldCipher,
	sender notify.Sender,
	logger *logger.Logger,
) SigningService {
	return &signingService{
		fields:    repos.Fields,
		documents: repos.Documents,
		signers:   repos.Signers,
		assembler: assembler,
		validator: validator,
		cipher:    cipher,
		sender:    sender,
		logger:    logger,
	}
}

func (s *signingService) SubmitFieldValue(ctx context.Context, signerID, fieldID int64, value string) (models.Field, error) {
	log := logger.FromContext(ctx)

	field, err := s.fields.GetFieldByID(ctx, fieldID)
	if err != nil {
		return models.Field{}, fmt.Errorf("field lookup failed: %w", err)
	}

	if field.SignerID == nil || *field.SignerID != signerID {
		log.Error().Int64("field_id", fieldID).Int64("signer_id", signerID).Msg("field ownership check failed")
		return models.Field{}, ErrFieldOwnership
	}

	// validation runs on the plaintext candidate; ciphertext cannot be
	// type-checked
	candidate := field
	candidate.Value = &value
	if err = s.validator.Validate(ctx, candidate); err != nil {
		log.Error().Int64("field_id", fieldID).Err(err).Msg("field value rejected")
		return models.Field{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if field.DocumentInstanceID == nil {
		return models.Field{}, fmt.Errorf("%w: field %d has no document instance", ErrInvalidDataProvided, fieldID)
	}

	doc, err := s.documents.GetDocumentByID(ctx, *field.DocumentInstanceID)
	if err != nil {
		return models.Field{}, fmt.Errorf("document lookup failed: %w", err)
	}

	// a signed document only accepts re-submissions of flagged fields
	if doc.Signed() && !field.NeedsCorrection {
		log.Error().Int64("field_id", fieldID).Str("state", string(doc.State)).Msg("submission to signed document rejected")
		return models.Field{}, ErrIllegalTransition
	}

	stored := value
	if field.Sensitive() {
		if stored, err = s.cipher.Encrypt(value); err != nil {
			return models.Field{}, fmt.Errorf("field value encryption failed: %w", err)
		}
	}

	updated, err := s.fields.UpdateField(ctx, models.FieldUpdate{
		ID:              field.ID,
		Value:           &stored,
		ClearCorrection: field.NeedsCorrection,
	})
	if err != nil {
		return models.Field{}, fmt.Errorf("field update failed: %w", err)
	}

	if err = s.advanceDocument(ctx, doc, field.NeedsCorrection); err != nil {
		// the value itself is committed; the caller can retry the
		// transition without resubmitting
		return updated, err
	}

	return updated, nil
}

// advanceDocument applies the state consequence of a stored submission.
func (s *signingService) advanceDocument(ctx context.Context, doc models.DocumentInstance, wasFlagged bool) error {
	switch doc.State {
	case models.DocumentCreated:
		return s.completeWhenFilled(ctx, doc)

	case models.DocumentCorrectionRequested:
		if !wasFlagged {
			return nil
		}
		remaining, err := s.fields.CountFlagged(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("flagged field count failed: %w", err)
		}
		if remaining == 0 {
			// every flagged field is back; the instance waits for
			// the operator's CompleteCorrections
			return nil
		}

		state := models.DocumentCorrectionInProgress
		if _, err = s.documents.UpdateDocument(ctx, models.DocumentUpdate{ID: doc.ID, State: &state}); err != nil {
			return fmt.Errorf("document update failed: %w", err)
		}
		return nil

	default:
		return nil
	}
}

// completeWhenFilled flips a CREATED instance to SIGNED once every field
// holds a value: render the output, record the transition, then recompute
// the signer and contract aggregates in one transaction.
func (s *signingService) completeWhenFilled(ctx context.Context, doc models.DocumentInstance) error {
	log := logger.FromContext(ctx)

	fields, err := s.fields.GetInstanceFields(ctx, doc.SignerID, doc.ID)
	if err != nil {
		return fmt.Errorf("instance fields lookup failed: %w", err)
	}
	for _, f := range fields {
		if !f.Filled() {
			return nil
		}
	}

	blobID, err := s.assembler.assemble(ctx, doc)
	if err != nil {
		return err
	}

	state := models.DocumentSigned
	signedAt := time.Now()
	if _, err = s.documents.UpdateDocument(ctx, models.DocumentUpdate{
		ID:                 doc.ID,
		State:              &state,
		RenderedDocumentID: &blobID,
		SignedAt:           &signedAt,
	}); err != nil {
		return fmt.Errorf("document update failed: %w", err)
	}

	signer, contract, err := s.signers.RecomputeAggregates(ctx, doc.SignerID)
	if err != nil {
		return fmt.Errorf("aggregate recomputation failed: %w", err)
	}

	log.Info().Int64("document_instance_id", doc.ID).Int64("signer_id", signer.ID).
		Int("progress_rate", contract.ProgressRate).Msg("document signed")

	if signer.Signed {
		s.sender.Notify(ctx, signer.ID, notify.ChannelSigningCompleted, nil)
	}

	return nil
}

func (s *signingService) ListSignerDocuments(ctx context.Context, signerID int64) ([]models.DocumentStatusResponse, error) {
	docs, err := s.documents.GetSignerDocuments(ctx, signerID)
	if err != nil {
		return nil, fmt.Errorf("signer documents lookup failed: %w", err)
	}

	statuses := make([]models.DocumentStatusResponse, 0, len(docs))
	for _, doc := range docs {
		statuses = append(statuses, models.DocumentStatusResponse{
			DocumentInstanceID: doc.ID,
			TemplateDocumentID: doc.TemplateDocumentID,
			State:              doc.State,
			NeedsResign:        doc.NeedsResign,
			SignedAt:           doc.SignedAt,
		})
	}

	return statuses, nil
}
