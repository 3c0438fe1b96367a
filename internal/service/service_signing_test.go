// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/notify"
	"github.com/veridoc/signcore/internal/store"
	"github.com/veridoc/signcore/internal/validators"
	"github.com/veridoc/signcore/models"
)

func int64Ptr(v int64) *int64 { return &v }

func instanceField(id int64, value *string) models.Field {
	return models.Field{
		ID:                 id,
		Role:               models.FieldRoleSignerInstance,
		Type:               models.FieldTypeText,
		FieldKey:           "f",
		SignerID:           int64Ptr(5),
		DocumentInstanceID: int64Ptr(7),
		Value:              value,
	}
}

type signingFixture struct {
	fields    *stubFieldRepo
	documents *stubDocumentRepo
	signers   *stubSignerRepo
	assembler *stubAssembler
	sender    *stubSender
	svc       SigningService
}

func newSigningFixture(fields *stubFieldRepo, documents *stubDocumentRepo, signers *stubSignerRepo) *signingFixture {
	f := &signingFixture{
		fields:    fields,
		documents: documents,
		signers:   signers,
		assembler: &stubAssembler{blobID: "rendered-blob"},
		sender:    &stubSender{},
	}
	repos := &store.Repositories{Fields: fields, Documents: documents, Signers: signers}
	f.svc = NewSigningService(repos, f.assembler, validators.NewFieldValueValidator(), stubCipher{}, f.sender, logger.Nop())
	return f
}

func TestSubmitFieldValue_StoresValueWithoutSigning(t *testing.T) {
	var storedUpdate models.FieldUpdate
	fields := &stubFieldRepo{
		getByID: func(id int64) (models.Field, error) { return instanceField(id, nil), nil },
		update: func(update models.FieldUpdate) (models.Field, error) {
			storedUpdate = update
			f := instanceField(update.ID, update.Value)
			return f, nil
		},
		getInstance: func(int64, int64) ([]models.Field, error) {
			// a second field is still empty
			return []models.Field{instanceField(1, strPtr("v")), instanceField(2, nil)}, nil
		},
	}
	documents := &stubDocumentRepo{
		getByID: func(id int64) (models.DocumentInstance, error) {
			return models.DocumentInstance{ID: id, SignerID: 5, State: models.DocumentCreated}, nil
		},
	}

	f := newSigningFixture(fields, documents, &stubSignerRepo{})

	updated, err := f.svc.SubmitFieldValue(context.Background(), 5, 1,"Kim Minseo")
	require.NoError(t, err)

	require.NotNil(t, storedUpdate.Value)
	assert.Equal(t, "Kim Minseo", *storedUpdate.Value)
	assert.False(t, storedUpdate.ClearCorrection)
	assert.Equal(t, "Kim Minseo", *updated.Value)

	assert.Zero(t, f.assembler.calls, "an incomplete instance must not render")
	assert.Empty(t, f.documents.updates)
}

func TestSubmitFieldValue_LastFieldSignsDocument(t *testing.T) {
	fields := &stubFieldRepo{
		getByID: func(id int64) (models.Field, error) { return instanceField(id, nil), nil },
		update: func(update models.FieldUpdate) (models.Field, error) {
			return instanceField(update.ID, update.Value), nil
		},
		getInstance: func(int64, int64) ([]models.Field, error) {
			return []models.Field{instanceField(1, strPtr("done")), instanceField(2, strPtr("done"))}, nil
		},
	}
	documents := &stubDocumentRepo{
		getByID: func(id int64) (models.DocumentInstance, error) {
			return models.DocumentInstance{ID: 7, SignerID: 5, State: models.DocumentCreated}, nil
		},
	}
	signers := &stubSignerRepo{
		recompute: func(signerID int64) (models.Signer, models.Contract, error) {
			return models.Signer{ID: signerID, Signed: true}, models.Contract{ID: 3, ProgressRate: 100}, nil
		},
	}

	f := newSigningFixture(fields, documents, signers)

	_, err := f.svc.SubmitFieldValue(context.Background(), 5, 1,"done")
	require.NoError(t, err)

	assert.Equal(t, 1, f.assembler.calls)

	require.Len(t, f.documents.updates, 1)
	update := f.documents.updates[0]
	require.NotNil(t, update.State)
	assert.Equal(t, models.DocumentSigned, *update.State)
	require.NotNil(t, update.RenderedDocumentID)
	assert.Equal(t, "rendered-blob", *update.RenderedDocumentID)
	assert.NotNil(t, update.SignedAt)

	require.Len(t, f.sender.events, 1)
	assert.Equal(t, notify.ChannelSigningCompleted, f.sender.events[0].channel)
	assert.Equal(t, int64(5), f.sender.events[0].signerID)
}

func TestSubmitFieldValue_PartialSignerSkipsCompletionNotice(t *testing.T) {
	fields := &stubFieldRepo{
		getByID: func(id int64) (models.Field, error) { return instanceField(id, nil), nil },
		update: func(update models.FieldUpdate) (models.Field, error) {
			return instanceField(update.ID, update.Value), nil
		},
		getInstance: func(int64, int64) ([]models.Field, error) {
			return []models.Field{instanceField(1, strPtr("done"))}, nil
		},
	}
	documents := &stubDocumentRepo{
		getByID: func(id int64) (models.DocumentInstance, error) {
			return models.DocumentInstance{ID: 7, SignerID: 5, State: models.DocumentCreated}, nil
		},
	}
	signers := &stubSignerRepo{
		recompute: func(signerID int64) (models.Signer, models.Contract, error) {
			// another instance of this signer is still unsigned
			return models.Signer{ID: signerID, Signed: false}, models.Contract{ID: 3, ProgressRate: 0}, nil
		},
	}

	f := newSigningFixture(fields, documents, signers)

	_, err := f.svc.SubmitFieldValue(context.Background(), 5, 1,"done")
	require.NoError(t, err)

	assert.Empty(t, f.sender.events)
}

func TestSubmitFieldValue_SensitiveValueStoredCiphered(t *testing.T) {
	var storedUpdate models.FieldUpdate
	fields := &stubFieldRepo{
		getByID: func(id int64) (models.Field, error) {
			field := instanceField(id, nil)
			field.SensitivityTag = strPtr("pii")
			return field, nil
		},
		update: func(update models.FieldUpdate) (models.Field, error) {
			storedUpdate = update
			return instanceField(update.ID, update.Value), nil
		},
		getInstance: func(int64, int64) ([]models.Field, error) {
			return []models.Field{instanceField(1, strPtr("x")), instanceField(2, nil)}, nil
		},
	}
	documents := &stubDocumentRepo{
		getByID: func(id int64) (models.DocumentInstance, error) {
			return models.DocumentInstance{ID: id, SignerID: 5, State: models.DocumentCreated}, nil
		},
	}

	f := newSigningFixture(fields, documents, &stubSignerRepo{})

	_, err := f.svc.SubmitFieldValue(context.Background(), 5, 1,"900101-1234567")
	require.NoError(t, err)

	require.NotNil(t, storedUpdate.Value)
	assert.Equal(t, "enc:900101-1234567", *storedUpdate.Value)
}

func TestSubmitFieldValue_InvalidValueRejected(t *testing.T) {
	fields := &stubFieldRepo{
		getByID: func(id int64) (models.Field, error) {
			field := instanceField(id, nil)
			field.Type = models.FieldTypeCheckbox
			return field, nil
		},
		update: func(models.FieldUpdate) (models.Field, error) {
			t.Fatal("an invalid value must not be stored")
			return models.Field{}, nil
		},
	}

	f := newSigningFixture(fields, &stubDocumentRepo{}, &stubSignerRepo{})

	_, err := f.svc.SubmitFieldValue(context.Background(), 5, 1,"definitely")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.ErrorIs(t, err, validators.ErrInvalidCheckboxValue)
}

func TestSubmitFieldValue_ForeignFieldRejected(t *testing.T) {
	fields := &stubFieldRepo{
		getByID: func(id int64) (models.Field, error) { return instanceField(id, nil), nil },
		update: func(models.FieldUpdate) (models.Field, error) {
			t.Fatal("a foreign field must not be stored")
			return models.Field{}, nil
		},
	}

	f := newSigningFixture(fields, &stubDocumentRepo{}, &stubSignerRepo{})

	_, err := f.svc.SubmitFieldValue(context.Background(), 99, 1, "Kim Minseo")
	assert.ErrorIs(t, err, ErrFieldOwnership)
}

func TestSubmitFieldValue_SignedDocumentRejectsUnflaggedField(t *testing.T) {
	fields := &stubFieldRepo{
		getByID: func(id int64) (models.Field, error) { return instanceField(id, strPtr("old")), nil },
	}
	documents := &stubDocumentRepo{
		getByID: func(id int64) (models.DocumentInstance, error) {
			return models.DocumentInstance{ID: id, SignerID: 5, State: models.DocumentSigned}, nil
		},
	}

	f := newSigningFixture(fields, documents, &stubSignerRepo{})

	_, err := f.svc.SubmitFieldValue(context.Background(), 5, 1,"new")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestSubmitFieldValue_FlaggedResubmissionStartsCountdown(t *testing.T) {
	var storedUpdate models.FieldUpdate
	fields := &stubFieldRepo{
		getByID: func(id int64) (models.Field, error) {
			field := instanceField(id, strPtr("old"))
			field.NeedsCorrection = true
			return field, nil
		},
		update: func(update models.FieldUpdate) (models.Field, error) {
			storedUpdate = update
			return instanceField(update.ID, update.Value), nil
		},
		countFlagged: func(int64) (int, error) { return 1, nil },
	}
	documents := &stubDocumentRepo{
		getByID: func(id int64) (models.DocumentInstance, error) {
			return models.DocumentInstance{ID: 7, SignerID: 5, State: models.DocumentCorrectionRequested}, nil
		},
	}

	f := newSigningFixture(fields, documents, &stubSignerRepo{})

	_, err := f.svc.SubmitFieldValue(context.Background(), 5, 1,"corrected")
	require.NoError(t, err)

	assert.True(t, storedUpdate.ClearCorrection)

	require.Len(t, f.documents.updates, 1)
	require.NotNil(t, f.documents.updates[0].State)
	assert.Equal(t, models.DocumentCorrectionInProgress, *f.documents.updates[0].State)
}

func TestSubmitFieldValue_LastFlaggedFieldLeavesStateForOperator(t *testing.T) {
	fields := &stubFieldRepo{
		getByID: func(id int64) (models.Field, error) {
			field := instanceField(id, strPtr("old"))
			field.NeedsCorrection = true
			return field, nil
		},
		update: func(update models.FieldUpdate) (models.Field, error) {
			return instanceField(update.ID, update.Value), nil
		},
		countFlagged: func(int64) (int, error) { return 0, nil },
	}
	documents := &stubDocumentRepo{
		getByID: func(id int64) (models.DocumentInstance, error) {
			return models.DocumentInstance{ID: 7, SignerID: 5, State: models.DocumentCorrectionRequested}, nil
		},
	}

	f := newSigningFixture(fields, documents, &stubSignerRepo{})

	_, err := f.svc.SubmitFieldValue(context.Background(), 5, 1,"corrected")
	require.NoError(t, err)

	assert.Empty(t, f.documents.updates, "the RESIGNED transition belongs to CompleteCorrections")
	assert.Zero(t, f.assembler.calls)
}

func TestListSignerDocuments(t *testing.T) {
	documents := &stubDocumentRepo{
		getBySign: func(signerID int64) ([]models.DocumentInstance, error) {
			require.Equal(t, int64(5), signerID)
			return []models.DocumentInstance{
				{ID: 7, TemplateDocumentID: 1, State: models.DocumentSigned},
				{ID: 8, TemplateDocumentID: 2, State: models.DocumentCorrectionRequested, NeedsResign: true},
			}, nil
		},
	}

	f := newSigningFixture(&stubFieldRepo{}, documents, &stubSignerRepo{})

	statuses, err := f.svc.ListSignerDocuments(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.Equal(t, models.DocumentSigned, statuses[0].State)
	assert.True(t, statuses[1].NeedsResign)
	assert.Equal(t, int64(2), statuses[1].TemplateDocumentID)
}
