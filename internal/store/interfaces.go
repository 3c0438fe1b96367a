// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/veridoc/signcore/models"
)

// FieldRepository persists template and signer-instance fields.
type FieldRepository interface {
	// CreateFields inserts the given fields in one transaction and returns
	// them with server-assigned IDs and timestamps.
	CreateFields(ctx context.Context, fields []models.Field) ([]models.Field, error)

	GetFieldByID(ctx context.Context, id int64) (models.Field, error)

	// GetTemplateFields lists the template-role fields of one template
	// document, ordered by ID.
	GetTemplateFields(ctx context.Context, templateDocumentID int64) ([]models.Field, error)

	// GetInstanceFields lists a signer's fields for one document instance,
	// ordered by ID.
	GetInstanceFields(ctx context.Context, signerID, documentInstanceID int64) ([]models.Field, error)

	// UpdateField applies a partial update and returns the updated row.
	UpdateField(ctx context.Context, update models.FieldUpdate) (models.Field, error)

	// FlagForCorrection marks the given fields of one instance as needing
	// correction and returns the number of rows flagged.
	FlagForCorrection(ctx context.Context, documentInstanceID int64, fieldIDs []int64, comment string, at time.Time) (int64, error)

	// CountFlagged counts the instance's fields still marked for correction.
	CountFlagged(ctx context.Context, documentInstanceID int64) (int, error)
}

// DocumentRepository persists per-signer document instances.
type DocumentRepository interface {
	GetDocumentByID(ctx context.Context, id int64) (models.DocumentInstance, error)

	// GetSignerDocuments lists all of a signer's instances, ordered by ID.
	GetSignerDocuments(ctx context.Context, signerID int64) ([]models.DocumentInstance, error)

	// UpdateDocument applies a partial update and returns the updated row.
	UpdateDocument(ctx context.Context, update models.DocumentUpdate) (models.DocumentInstance, error)
}

// SignerRepository persists signers and their contract rollups.
type SignerRepository interface {
	GetSignerByID(ctx context.Context, id int64) (models.Signer, error)

	// RecomputeAggregates re-derives the signer's signed flag and the owning
	// contract's progress rate in one transaction. Safe to retry: it only
	// rewrites derived columns.
	RecomputeAggregates(ctx context.Context, signerID int64) (models.Signer, models.Contract, error)
}

// TokenRepository persists signer access tokens. Tokens are soft-invalidated
// via the active flag, never deleted.
type TokenRepository interface {
	// CreateToken inserts a new active token. Long-lived tokens deactivate
	// every prior long-lived token of the same signer in the same
	// transaction.
	CreateToken(ctx context.Context, token models.AccessToken) (models.AccessToken, error)

	// GetActiveTokenByValue resolves a presented token value to its active
	// record. Inactive or unknown values return [ErrTokenNotFound].
	GetActiveTokenByValue(ctx context.Context, tokenValue string) (models.AccessToken, error)
}

// BlobStore keeps opaque document binaries (blank sets, rendered outputs)
// addressed by content-opaque IDs.
type BlobStore interface {
	Save(ctx context.Context, id string, data []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}
