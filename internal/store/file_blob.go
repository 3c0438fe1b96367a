// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/veridoc/signcore/internal/logger"
)

// fileBlobStore is the filesystem implementation of [BlobStore]. Blob IDs
// are opaque names (UUIDs in practice) stored as flat files under a single
// configured directory. Writes go through a temp file and rename so a
// crashed render never leaves a partial blob behind.
type fileBlobStore struct {
	dir    string
	logger *logger.Logger
}

// NewFileBlobStore constructs a [BlobStore] rooted at dir, creating the
// directory when missing.
func NewFileBlobStore(dir string, log *logger.Logger) (BlobStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.Err(err).Str("func", "NewFileBlobStore").Str("dir", dir).Msg("error creating blob directory")
		return nil, fmt.Errorf("error creating blob directory: %w", err)
	}
	log.Debug().Str("dir", dir).Msg("creating file blob store")
	return &fileBlobStore{dir: dir, logger: log}, nil
}

// path validates the ID and resolves it inside the store directory. IDs with
// path separators or traversal elements are rejected outright.
func (s *fileBlobStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid blob id %q", id)
	}
	return filepath.Join(s.dir, id), nil
}

func (s *fileBlobStore) Save(ctx context.Context, id string, data []byte) error {
	log := logger.FromContext(ctx)

	target, err := s.path(id)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+id+".*")
	if err != nil {
		log.Err(err).Str("func", "fileBlobStore.Save").Str("blob_id", id).Msg("error creating temp blob file")
		return fmt.Errorf("error creating temp blob file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		log.Err(err).Str("func", "fileBlobStore.Save").Str("blob_id", id).Msg("error writing blob data")
		return fmt.Errorf("error writing blob data: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing temp blob file: %w", err)
	}

	if err = os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		log.Err(err).Str("func", "fileBlobStore.Save").Str("blob_id", id).Msg("error publishing blob file")
		return fmt.Errorf("error publishing blob file: %w", err)
	}

	return nil
}

func (s *fileBlobStore) Load(ctx context.Context, id string) ([]byte, error) {
	log := logger.FromContext(ctx)

	target, err := s.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		log.Err(err).Str("func", "fileBlobStore.Load").Str("blob_id", id).Msg("error reading blob file")
		return nil, fmt.Errorf("error reading blob file: %w", err)
	}

	return data, nil
}

func (s *fileBlobStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	target, err := s.path(id)
	if err != nil {
		return err
	}

	if err = os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrBlobNotFound
		}
		log.Err(err).Str("func", "fileBlobStore.Delete").Str("blob_id", id).Msg("error removing blob file")
		return fmt.Errorf("error removing blob file: %w", err)
	}

	return nil
}
