// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/models"
)

// fieldRepository is the PostgreSQL-backed implementation of
// [FieldRepository]. All methods obtain a context-scoped logger via
// [logger.FromContext] for request-level tracing of database interactions.
type fieldRepository struct {
	*DB
	logger *logger.Logger
}

// NewFieldRepository constructs a [FieldRepository] backed by the provided
// database connection and logger.
func NewFieldRepository(db *DB, log *logger.Logger) FieldRepository {
	log.Debug().Msg("creating field repository")
	return &fieldRepository{DB: db, logger: log}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanField(row rowScanner) (models.Field, error) {
	var f models.Field
	err := row.Scan(
		&f.ID, &f.Role, &f.TemplateDocumentID, &f.FieldKey, &f.Type,
		&f.RelX, &f.RelY, &f.RelWidth, &f.RelHeight, &f.Page,
		&f.SensitivityTag, &f.StaticConfirmText, &f.LayoutID, &f.SignerID, &f.DocumentInstanceID,
		&f.Value, &f.NeedsCorrection, &f.CorrectionComment, &f.CorrectionRequestedAt,
		&f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

func fieldInsertArgs(f models.Field) []any {
	return []any{
		f.Role, f.TemplateDocumentID, f.FieldKey, f.Type,
		f.RelX, f.RelY, f.RelWidth, f.RelHeight, f.Page,
		f.SensitivityTag, f.StaticConfirmText, f.LayoutID, f.SignerID, f.DocumentInstanceID,
	}
}

// CreateFields inserts the given fields and returns them with
// server-assigned IDs and timestamps. A single field goes straight through;
// batches run in one transaction so template propagation is all-or-nothing.
func (r *fieldRepository) CreateFields(ctx context.Context, fields []models.Field) ([]models.Field, error) {
	log := logger.FromContext(ctx)

	if len(fields) == 0 {
		return nil, nil
	}

	if len(fields) == 1 {
		created, err := scanField(r.DB.QueryRowContext(ctx, createField, fieldInsertArgs(fields[0])...))
		if err != nil {
			log.Err(err).Str("func", "fieldRepository.CreateFields").Msg("error saving field")
			return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		return []models.Field{created}, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "fieldRepository.CreateFields").Msg("error during opening transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, createField)
	if err != nil {
		log.Err(err).Str("func", "fieldRepository.CreateFields").Msg("error preparing statement")
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	defer stmt.Close()

	created := make([]models.Field, 0, len(fields))
	for i, field := range fields {
		saved, scanErr := scanField(stmt.QueryRowContext(ctx, fieldInsertArgs(field)...))
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "fieldRepository.CreateFields").
				Int("index", i).
				Str("field_key", field.FieldKey).
				Msg("error saving field in batch")
			return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, scanErr)
		}
		created = append(created, saved)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "fieldRepository.CreateFields").Msg("error committing transaction")
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return created, nil
}

func (r *fieldRepository) GetFieldByID(ctx context.Context, id int64) (models.Field, error) {
	log := logger.FromContext(ctx)

	field, err := scanField(r.DB.QueryRowContext(ctx, getFieldByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Field{}, ErrFieldNotFound
		}
		log.Err(err).Str("func", "fieldRepository.GetFieldByID").Int64("field_id", id).Msg("error scanning field row")
		return models.Field{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return field, nil
}

func (r *fieldRepository) GetTemplateFields(ctx context.Context, templateDocumentID int64) ([]models.Field, error) {
	return r.queryFields(ctx, "fieldRepository.GetTemplateFields", getTemplateFields, templateDocumentID)
}

func (r *fieldRepository) GetInstanceFields(ctx context.Context, signerID, documentInstanceID int64) ([]models.Field, error) {
	return r.queryFields(ctx, "fieldRepository.GetInstanceFields", getInstanceFields, signerID, documentInstanceID)
}

func (r *fieldRepository) queryFields(ctx context.Context, caller, query string, args ...any) ([]models.Field, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", caller).Msg("failed to execute fields query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var fields []models.Field
	for rows.Next() {
		field, scanErr := scanField(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", caller).Msg("failed to scan field row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		fields = append(fields, field)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", caller).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, rowsErr)
	}

	return fields, nil
}

// UpdateField applies a partial update built from the populated members of
// update and returns the canonical updated row.
func (r *fieldRepository) UpdateField(ctx context.Context, update models.FieldUpdate) (models.Field, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateFieldQuery(update)
	if err != nil {
		log.Err(err).Str("func", "fieldRepository.UpdateField").Int64("field_id", update.ID).Msg("failed to build update query")
		return models.Field{}, err
	}

	field, err := scanField(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Field{}, ErrFieldNotFound
		}
		log.Err(err).Str("func", "fieldRepository.UpdateField").Int64("field_id", update.ID).Msg("error executing field update")
		return models.Field{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return field, nil
}

// FlagForCorrection marks the given fields of one instance for correction
// and returns the number of rows actually flagged. IDs not belonging to the
// instance are silently ignored by the WHERE clause.
func (r *fieldRepository) FlagForCorrection(ctx context.Context, documentInstanceID int64, fieldIDs []int64, comment string, at time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFlagFieldsQuery(documentInstanceID, fieldIDs, comment, at)
	if err != nil {
		log.Err(err).Str("func", "fieldRepository.FlagForCorrection").Msg("failed to build flag query")
		return 0, err
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "fieldRepository.FlagForCorrection").
			Int64("document_instance_id", documentInstanceID).
			Int("field_ids_count", len(fieldIDs)).
			Msg("error flagging fields for correction")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, _ := result.RowsAffected()
	return affected, nil
}

func (r *fieldRepository) CountFlagged(ctx context.Context, documentInstanceID int64) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	if err := r.DB.QueryRowContext(ctx, countFlaggedFields, documentInstanceID).Scan(&count); err != nil {
		log.Err(err).Str("func", "fieldRepository.CountFlagged").Int64("document_instance_id", documentInstanceID).Msg("error counting flagged fields")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}
