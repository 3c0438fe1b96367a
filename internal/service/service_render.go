package service

import (
	"context"
	"fmt"
	"time"

	"github.com/veridoc/signcore/internal/crypto"
	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/pdfstamp"
	"github.com/veridoc/signcore/internal/store"
	"github.com/veridoc/signcore/internal/utils"
	"github.com/veridoc/signcore/internal/workers"
	"github.com/veridoc/signcore/models"
)

// IDGenerator produces opaque blob IDs for rendered outputs.
type IDGenerator interface {
	Generate() string
}

// documentAssembler is the package-internal seam between the state-driving
// services and the render pipeline: signing and correction trigger renders
// without knowing about stamping, sealing or blob storage.
type documentAssembler interface {
	assemble(ctx context.Context, doc models.DocumentInstance) (string, error)
}

// renderService assembles a document instance's filled fields into a final
// binary: load the blank set, stamp every value, append the completion
// footer, optionally seal the result under the instance's stored protection
// secret, and persist it under a fresh blob ID.
type renderService struct {
	fields    store.FieldRepository
	documents store.DocumentRepository
	blobs     store.BlobStore

	stamper   *pdfstamp.Stamper
	cipher    crypto.FieldCipher
	protector crypto.Protector
	ids       IDGenerator
	pool      *workers.AssemblyPool

	logger *logger.Logger
}

func NewRenderService(
	repos *store.Repositories,
	stamper *pdfstamp.Stamper,
	cipher crypto.FieldCipher,
	protector crypto.Protector,
	ids IDGenerator,
	assemblyConcurrency int,
	logger *logger.Logger,
) RenderService {
	r := &renderService{
		fields:    repos.Fields,
		documents: repos.Documents,
		blobs:     repos.Blobs,
		stamper:   stamper,
		cipher:    cipher,
		protector: protector,
		ids:       ids,
		logger:    logger,
	}
	r.pool = workers.NewAssemblyPool(r, assemblyConcurrency, logger)
	return r
}

func (r *renderService) RenderDocument(ctx context.Context, documentInstanceID int64) (models.DocumentInstance, error) {
	log := logger.FromContext(ctx)

	doc, err := r.documents.GetDocumentByID(ctx, documentInstanceID)
	if err != nil {
		return models.DocumentInstance{}, fmt.Errorf("document lookup failed: %w", err)
	}

	if !doc.Signed() {
		log.Error().Int64("document_instance_id", doc.ID).Str("state", string(doc.State)).Msg("render requested for unsigned document")
		return models.DocumentInstance{}, fmt.Errorf("%w: document %d is not signed", ErrInvalidDataProvided, doc.ID)
	}

	blobID, err := r.assemble(ctx, doc)
	if err != nil {
		return models.DocumentInstance{}, err
	}

	// a completed correction cycle owns the resigned slot; everything else
	// refreshes the original rendered output
	update := models.DocumentUpdate{ID: doc.ID}
	if doc.ResignedDocumentID != nil {
		update.ResignedDocumentID = &blobID
	} else {
		update.RenderedDocumentID = &blobID
	}

	updated, err := r.documents.UpdateDocument(ctx, update)
	if err != nil {
		return models.DocumentInstance{}, fmt.Errorf("document update failed: %w", err)
	}

	return updated, nil
}

func (r *renderService) RenderBatch(ctx context.Context, documentInstanceIDs []int64) ([]models.BatchRenderResult, error) {
	if len(documentInstanceIDs) == 0 {
		return nil, fmt.Errorf("%w: empty render batch", ErrInvalidDataProvided)
	}

	outcomes := r.pool.RenderAll(ctx, documentInstanceIDs)

	results := make([]models.BatchRenderResult, 0, len(outcomes))
	for _, outcome := range outcomes {
		result := models.BatchRenderResult{DocumentInstanceID: outcome.DocumentInstanceID}
		if outcome.Err != nil {
			result.Error = outcome.Err.Error()
		} else {
			result.DocumentID = outcome.Document.CurrentDocumentID()
		}
		results = append(results, result)
	}

	return results, nil
}

func (r *renderService) assemble(ctx context.Context, doc models.DocumentInstance) (string, error) {
	log := logger.FromContext(ctx)

	fields, err := r.fields.GetInstanceFields(ctx, doc.SignerID, doc.ID)
	if err != nil {
		return "", fmt.Errorf("instance fields lookup failed: %w", err)
	}

	raw, err := r.blobs.Load(ctx, doc.RawDocumentID)
	if err != nil {
		return "", fmt.Errorf("raw document load failed: %w", err)
	}

	now := time.Now()
	opts := pdfstamp.StampOptions{
		Footer: &pdfstamp.Footer{
			CompletedAt: now,
			Serial:      utils.SerialNumber(doc.ID, doc.SignerID, now),
		},
		Decrypt: r.cipher.Decrypt,
	}

	out, report, err := r.stamper.Stamp(raw, fields, opts)
	if err != nil {
		log.Err(err).Int64("document_instance_id", doc.ID).Msg("document stamping failed")
		return "", fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	for _, skipped := range report.Skipped {
		log.Warn().Int64("document_instance_id", doc.ID).
			Str("field_key", skipped.FieldKey).Err(skipped.Err).Msg("field skipped during render")
	}

	if doc.ProtectionSecretRef != nil {
		if out, err = r.protect(ctx, out, *doc.ProtectionSecretRef); err != nil {
			log.Err(err).Int64("document_instance_id", doc.ID).Msg("output protection failed")
			return "", fmt.Errorf("%w: %w", ErrRenderFailed, err)
		}
	}

	blobID := r.ids.Generate()
	if err = r.blobs.Save(ctx, blobID, out); err != nil {
		return "", fmt.Errorf("rendered document save failed: %w", err)
	}

	log.Info().Int64("document_instance_id", doc.ID).Str("blob_id", blobID).
		Int("fields_stamped", len(report.Stamped)).Int("fields_skipped", len(report.Skipped)).
		Msg("document assembled")

	return blobID, nil
}

// protect seals the rendered blob under the stored access password. The
// password lives ciphered behind the secret reference, so a re-render always
// re-uses the exact secret of the original render.
func (r *renderService) protect(ctx context.Context, blob []byte, secretRef string) ([]byte, error) {
	ciphered, err := r.blobs.Load(ctx, secretRef)
	if err != nil {
		return nil, fmt.Errorf("protection secret load failed: %w", err)
	}

	password, err := r.cipher.Decrypt(string(ciphered))
	if err != nil {
		return nil, fmt.Errorf("protection secret decrypt failed: %w", err)
	}

	return r.protector.Seal(blob, password)
}
