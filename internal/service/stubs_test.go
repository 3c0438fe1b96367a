// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"strings"
	"time"

	"github.com/veridoc/signcore/internal/notify"
	"github.com/veridoc/signcore/internal/store"
	"github.com/veridoc/signcore/models"
)

// Hand-rolled stubs for the store interfaces: each method delegates to an
// optional closure so a test only wires the calls it cares about.

type stubFieldRepo struct {
	getByID      func(id int64) (models.Field, error)
	getTemplate  func(templateDocumentID int64) ([]models.Field, error)
	getInstance  func(signerID, documentInstanceID int64) ([]models.Field, error)
	create       func(fields []models.Field) ([]models.Field, error)
	update       func(update models.FieldUpdate) (models.Field, error)
	flag         func(documentInstanceID int64, fieldIDs []int64, comment string, at time.Time) (int64, error)
	countFlagged func(documentInstanceID int64) (int, error)
}

func (s *stubFieldRepo) GetFieldByID(_ context.Context, id int64) (models.Field, error) {
	return s.getByID(id)
}

func (s *stubFieldRepo) GetTemplateFields(_ context.Context, templateDocumentID int64) ([]models.Field, error) {
	return s.getTemplate(templateDocumentID)
}

func (s *stubFieldRepo) GetInstanceFields(_ context.Context, signerID, documentInstanceID int64) ([]models.Field, error) {
	return s.getInstance(signerID, documentInstanceID)
}

func (s *stubFieldRepo) CreateFields(_ context.Context, fields []models.Field) ([]models.Field, error) {
	return s.create(fields)
}

func (s *stubFieldRepo) UpdateField(_ context.Context, update models.FieldUpdate) (models.Field, error) {
	return s.update(update)
}

func (s *stubFieldRepo) FlagForCorrection(_ context.Context, documentInstanceID int64, fieldIDs []int64, comment string, at time.Time) (int64, error) {
	return s.flag(documentInstanceID, fieldIDs, comment, at)
}

func (s *stubFieldRepo) CountFlagged(_ context.Context, documentInstanceID int64) (int, error) {
	return s.countFlagged(documentInstanceID)
}

type stubDocumentRepo struct {
	getByID    func(id int64) (models.DocumentInstance, error)
	getBySign  func(signerID int64) ([]models.DocumentInstance, error)
	update     func(update models.DocumentUpdate) (models.DocumentInstance, error)
	updates    []models.DocumentUpdate
}

func (s *stubDocumentRepo) GetDocumentByID(_ context.Context, id int64) (models.DocumentInstance, error) {
	return s.getByID(id)
}

func (s *stubDocumentRepo) GetSignerDocuments(_ context.Context, signerID int64) ([]models.DocumentInstance, error) {
	return s.getBySign(signerID)
}

func (s *stubDocumentRepo) UpdateDocument(_ context.Context, update models.DocumentUpdate) (models.DocumentInstance, error) {
	s.updates = append(s.updates, update)
	if s.update != nil {
		return s.update(update)
	}
	return models.DocumentInstance{ID: update.ID}, nil
}

type stubSignerRepo struct {
	getByID   func(id int64) (models.Signer, error)
	recompute func(signerID int64) (models.Signer, models.Contract, error)
}

func (s *stubSignerRepo) GetSignerByID(_ context.Context, id int64) (models.Signer, error) {
	return s.getByID(id)
}

func (s *stubSignerRepo) RecomputeAggregates(_ context.Context, signerID int64) (models.Signer, models.Contract, error) {
	return s.recompute(signerID)
}

type stubTokenRepo struct {
	create func(token models.AccessToken) (models.AccessToken, error)
	getter func(tokenValue string) (models.AccessToken, error)
}

func (s *stubTokenRepo) CreateToken(_ context.Context, token models.AccessToken) (models.AccessToken, error) {
	return s.create(token)
}

func (s *stubTokenRepo) GetActiveTokenByValue(_ context.Context, tokenValue string) (models.AccessToken, error) {
	return s.getter(tokenValue)
}

// stubBlobStore is a map-backed in-memory BlobStore.
type stubBlobStore struct {
	blobs map[string][]byte
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{blobs: make(map[string][]byte)}
}

func (s *stubBlobStore) Save(_ context.Context, id string, data []byte) error {
	s.blobs[id] = data
	return nil
}

func (s *stubBlobStore) Load(_ context.Context, id string) ([]byte, error) {
	data, ok := s.blobs[id]
	if !ok {
		return nil, store.ErrBlobNotFound
	}
	return data, nil
}

func (s *stubBlobStore) Delete(_ context.Context, id string) error {
	delete(s.blobs, id)
	return nil
}

// stubAssembler records render triggers instead of stamping anything.
type stubAssembler struct {
	blobID string
	err    error
	calls  int
}

func (s *stubAssembler) assemble(context.Context, models.DocumentInstance) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.blobID, nil
}

// stubSender records notification events.
type stubSender struct {
	events []notifiedEvent
}

type notifiedEvent struct {
	signerID int64
	channel  notify.Channel
	vars     map[string]string
}

func (s *stubSender) Notify(_ context.Context, signerID int64, channel notify.Channel, vars map[string]string) {
	s.events = append(s.events, notifiedEvent{signerID: signerID, channel: channel, vars: vars})
}

// stubCipher marks ciphertext with a prefix so tests can assert what was
// stored without real cryptography.
type stubCipher struct{}

func (stubCipher) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (stubCipher) Decrypt(ciphertext string) (string, error) {
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

// stubIDs hands out a fixed sequence of blob IDs.
type stubIDs struct {
	next int
	ids  []string
}

func (s *stubIDs) Generate() string {
	id := s.ids[s.next%len(s.ids)]
	s.next++
	return id
}
