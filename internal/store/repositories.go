// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"github.com/veridoc/signcore/internal/logger"
)

// Repositories bundles every persistence dependency the service layer
// needs.
type Repositories struct {
	Fields    FieldRepository
	Documents DocumentRepository
	Signers   SignerRepository
	Tokens    TokenRepository
	Blobs     BlobStore
}

// NewRepositories wires all SQL repositories over one shared connection and
// the filesystem blob store rooted at blobDir.
func NewRepositories(db *DB, blobDir string, log *logger.Logger) (*Repositories, error) {
	blobs, err := NewFileBlobStore(blobDir, log)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Fields:    NewFieldRepository(db, log),
		Documents: NewDocumentRepository(db, log),
		Signers:   NewSignerRepository(db, log),
		Tokens:    NewTokenRepository(db, log),
		Blobs:     blobs,
	}, nil
}
