// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/veridoc/signcore/models"
)

// psql is the shared builder for dynamically composed statements; static
// statements stay plain constants below.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const fieldColumns = `id, role, template_document_id, field_key, type,
		rel_x, rel_y, rel_width, rel_height, page,
		sensitivity_tag, static_confirm_text, layout_id, signer_id, document_instance_id,
		value, needs_correction, correction_comment, correction_requested_at,
		created_at, updated_at`

const documentColumns = `id, signer_id, template_document_id, raw_document_id,
		rendered_document_id, resigned_document_id, state, signed_at,
		needs_resign, resign_requested_at, protection_secret_ref,
		created_at, updated_at`

const signerColumns = `id, contract_id, name, email, phone, signed, signed_at, created_at`

const tokenColumns = `id, signer_id, token_value, kind, expires_at, active, created_at`

const (
	createField = `INSERT INTO fields (
			role, template_document_id, field_key, type,
			rel_x, rel_y, rel_width, rel_height, page,
			sensitivity_tag, static_confirm_text, layout_id, signer_id, document_instance_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + fieldColumns + `;`

	getFieldByID = `SELECT ` + fieldColumns + `
		FROM fields
		WHERE id = $1;`

	getTemplateFields = `SELECT ` + fieldColumns + `
		FROM fields
		WHERE template_document_id = $1 AND role = 'TEMPLATE'
		ORDER BY id;`

	getInstanceFields = `SELECT ` + fieldColumns + `
		FROM fields
		WHERE signer_id = $1 AND document_instance_id = $2
		ORDER BY id;`

	countFlaggedFields = `SELECT COUNT(*)
		FROM fields
		WHERE document_instance_id = $1 AND needs_correction;`

	getDocumentByID = `SELECT ` + documentColumns + `
		FROM document_instances
		WHERE id = $1;`

	getSignerDocuments = `SELECT ` + documentColumns + `
		FROM document_instances
		WHERE signer_id = $1
		ORDER BY id;`

	getSignerByID = `SELECT ` + signerColumns + `
		FROM signers
		WHERE id = $1;`

	// getSignerByIDForUpdate serializes aggregate recomputations per signer:
	// a second recompute for the same signer blocks here until the first
	// commits.
	getSignerByIDForUpdate = `SELECT ` + signerColumns + `
		FROM signers
		WHERE id = $1
		FOR UPDATE;`

	// lockContract is taken before counting contract signers so concurrent
	// recomputes of different signers of one contract cannot both count a
	// stale signer set and overwrite each other's progress rate.
	lockContract = `SELECT id
		FROM contracts
		WHERE id = $1
		FOR UPDATE;`

	countSignerInstances = `SELECT COUNT(*), COUNT(*) FILTER (WHERE state <> 'CREATED')
		FROM document_instances
		WHERE signer_id = $1;`

	markSignerSigned = `UPDATE signers
		SET signed = TRUE, signed_at = COALESCE(signed_at, NOW())
		WHERE id = $1
		RETURNING ` + signerColumns + `;`

	countContractSigners = `SELECT COUNT(*), COUNT(*) FILTER (WHERE signed)
		FROM signers
		WHERE contract_id = $1;`

	updateContractProgress = `UPDATE contracts
		SET progress_rate = $1
		WHERE id = $2
		RETURNING id, title, progress_rate, created_at;`

	createToken = `INSERT INTO access_tokens (signer_id, token_value, kind, expires_at, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING ` + tokenColumns + `;`

	deactivateLongLivedTokens = `UPDATE access_tokens
		SET active = FALSE
		WHERE signer_id = $1 AND kind = 'LONG_LIVED' AND active;`

	getActiveTokenByValue = `SELECT ` + tokenColumns + `
		FROM access_tokens
		WHERE token_value = $1 AND active;`
)

// buildUpdateFieldQuery dynamically builds the partial field UPDATE from the
// populated members of update.
func buildUpdateFieldQuery(update models.FieldUpdate) (string, []any, error) {
	builder := psql.Update("fields").Set("updated_at", sq.Expr("NOW()"))

	if update.Value != nil {
		builder = builder.Set("value", *update.Value)
	}
	if update.ClearCorrection {
		builder = builder.
			Set("needs_correction", false).
			Set("correction_comment", nil).
			Set("correction_requested_at", nil)
	}

	query, args, err := builder.
		Where(sq.Eq{"id": update.ID}).
		Suffix("RETURNING " + fieldColumns).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildFlagFieldsQuery builds the UPDATE flagging the given fields of one
// instance for correction.
func buildFlagFieldsQuery(documentInstanceID int64, fieldIDs []int64, comment string, at time.Time) (string, []any, error) {
	query, args, err := psql.Update("fields").
		Set("needs_correction", true).
		Set("correction_comment", comment).
		Set("correction_requested_at", at).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"document_instance_id": documentInstanceID, "id": fieldIDs}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateDocumentQuery dynamically builds the partial document-instance
// UPDATE from the populated members of update.
func buildUpdateDocumentQuery(update models.DocumentUpdate) (string, []any, error) {
	builder := psql.Update("document_instances").Set("updated_at", sq.Expr("NOW()"))

	if update.State != nil {
		builder = builder.Set("state", string(*update.State))
	}
	if update.RenderedDocumentID != nil {
		builder = builder.Set("rendered_document_id", *update.RenderedDocumentID)
	}
	if update.ResignedDocumentID != nil {
		builder = builder.Set("resigned_document_id", *update.ResignedDocumentID)
	}
	if update.SignedAt != nil {
		builder = builder.Set("signed_at", *update.SignedAt)
	}
	if update.NeedsResign != nil {
		builder = builder.Set("needs_resign", *update.NeedsResign)
	}
	if update.ResignRequestedAt != nil {
		builder = builder.Set("resign_requested_at", *update.ResignRequestedAt)
	} else if update.ClearResignRequestedAt {
		builder = builder.Set("resign_requested_at", nil)
	}

	query, args, err := builder.
		Where(sq.Eq{"id": update.ID}).
		Suffix("RETURNING " + documentColumns).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
