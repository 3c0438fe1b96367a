package service

import (
	"context"
	"fmt"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/store"
	"github.com/veridoc/signcore/models"
)

// propagationService copies template field layouts onto signer document
// instances. Propagation is the only way instance fields come into
// existence, so the lineage back-reference is always populated.
type propagationService struct {
	fields    store.FieldRepository
	documents store.DocumentRepository

	logger *logger.Logger
}

func NewPropagationService(repos *store.Repositories, logger *logger.Logger) PropagationService {
	return &propagationService{
		fields:    repos.Fields,
		documents: repos.Documents,
		logger:    logger,
	}
}

func (p *propagationService) PropagateTemplate(ctx context.Context, templateDocumentID, signerID, documentInstanceID int64) ([]models.Field, error) {
	log := logger.FromContext(ctx)

	doc, err := p.documents.GetDocumentByID(ctx, documentInstanceID)
	if err != nil {
		return nil, fmt.Errorf("document lookup failed: %w", err)
	}
	if doc.SignerID != signerID || doc.TemplateDocumentID != templateDocumentID {
		log.Error().Int64("document_instance_id", documentInstanceID).
			Int64("signer_id", signerID).Int64("template_document_id", templateDocumentID).
			Msg("propagation target mismatch")
		return nil, fmt.Errorf("%w: instance %d does not belong to signer %d and template %d",
			ErrInvalidDataProvided, documentInstanceID, signerID, templateDocumentID)
	}

	existing, err := p.fields.GetInstanceFields(ctx, signerID, documentInstanceID)
	if err != nil {
		return nil, fmt.Errorf("instance fields lookup failed: %w", err)
	}
	if len(existing) > 0 {
		log.Debug().Int64("document_instance_id", documentInstanceID).
			Int("fields", len(existing)).Msg("instance already propagated")
		return existing, nil
	}

	templates, err := p.fields.GetTemplateFields(ctx, templateDocumentID)
	if err != nil {
		return nil, fmt.Errorf("template fields lookup failed: %w", err)
	}
	if len(templates) == 0 {
		return nil, nil
	}

	instances := make([]models.Field, 0, len(templates))
	for _, template := range templates {
		instances = append(instances, template.Instantiate(signerID, documentInstanceID))
	}

	created, err := p.fields.CreateFields(ctx, instances)
	if err != nil {
		return nil, fmt.Errorf("instance fields creation failed: %w", err)
	}

	log.Info().Int64("document_instance_id", documentInstanceID).
		Int("fields", len(created)).Msg("template propagated")

	return created, nil
}
