// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/models"
)

// documentRepository is the PostgreSQL-backed implementation of
// [DocumentRepository].
type documentRepository struct {
	*DB
	logger *logger.Logger
}

// NewDocumentRepository constructs a [DocumentRepository] backed by the
// provided database connection and logger.
func NewDocumentRepository(db *DB, log *logger.Logger) DocumentRepository {
	log.Debug().Msg("creating document repository")
	return &documentRepository{DB: db, logger: log}
}

func scanDocument(row rowScanner) (models.DocumentInstance, error) {
	var d models.DocumentInstance
	err := row.Scan(
		&d.ID, &d.SignerID, &d.TemplateDocumentID, &d.RawDocumentID,
		&d.RenderedDocumentID, &d.ResignedDocumentID, &d.State, &d.SignedAt,
		&d.NeedsResign, &d.ResignRequestedAt, &d.ProtectionSecretRef,
		&d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func (r *documentRepository) GetDocumentByID(ctx context.Context, id int64) (models.DocumentInstance, error) {
	log := logger.FromContext(ctx)

	document, err := scanDocument(r.DB.QueryRowContext(ctx, getDocumentByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DocumentInstance{}, ErrDocumentNotFound
		}
		log.Err(err).Str("func", "documentRepository.GetDocumentByID").Int64("document_id", id).Msg("error scanning document row")
		return models.DocumentInstance{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return document, nil
}

func (r *documentRepository) GetSignerDocuments(ctx context.Context, signerID int64) ([]models.DocumentInstance, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, getSignerDocuments, signerID)
	if err != nil {
		log.Err(err).Str("func", "documentRepository.GetSignerDocuments").Int64("signer_id", signerID).Msg("failed to execute documents query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var documents []models.DocumentInstance
	for rows.Next() {
		document, scanErr := scanDocument(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "documentRepository.GetSignerDocuments").Int64("signer_id", signerID).Msg("failed to scan document row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		documents = append(documents, document)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "documentRepository.GetSignerDocuments").Int64("signer_id", signerID).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, rowsErr)
	}

	return documents, nil
}

// UpdateDocument applies a partial update built from the populated members
// of update and returns the canonical updated row.
func (r *documentRepository) UpdateDocument(ctx context.Context, update models.DocumentUpdate) (models.DocumentInstance, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateDocumentQuery(update)
	if err != nil {
		log.Err(err).Str("func", "documentRepository.UpdateDocument").Int64("document_id", update.ID).Msg("failed to build update query")
		return models.DocumentInstance{}, err
	}

	document, err := scanDocument(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DocumentInstance{}, ErrDocumentNotFound
		}
		log.Err(err).Str("func", "documentRepository.UpdateDocument").Int64("document_id", update.ID).Msg("error executing document update")
		return models.DocumentInstance{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return document, nil
}
