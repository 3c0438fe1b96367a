// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc/signcore/internal/logger"
)

var signerTestColumns = []string{"id", "contract_id", "name", "email", "phone", "signed", "signed_at", "created_at"}

func signerRow(rows *sqlmock.Rows, id int64, signed bool) *sqlmock.Rows {
	var signedAt any
	if signed {
		signedAt = time.Now()
	}
	return rows.AddRow(id, int64(3), "Kim Minji", "enc-email", "enc-phone", signed, signedAt, time.Now())
}

func contractRow(progressRate int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "progress_rate", "created_at"}).
		AddRow(int64(3), "Lease agreement", progressRate, time.Now())
}

func TestGetSignerByID_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewSignerRepository(db, logger.Nop())

	mock.ExpectQuery("FROM signers").WithArgs(int64(7)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetSignerByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrSignerNotFound)
}

func TestRecomputeAggregates_MarksSignerSignedAndUpdatesProgress(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewSignerRepository(db, logger.Nop())

	mock.ExpectBegin()
	// current signer row, not yet signed
	mock.ExpectQuery("FROM signers").WithArgs(int64(7)).
		WillReturnRows(signerRow(sqlmock.NewRows(signerTestColumns), 7, false))
	// all 2 instances have left CREATED
	mock.ExpectQuery("FROM document_instances").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "signed"}).AddRow(2, 2))
	mock.ExpectQuery("UPDATE signers").WithArgs(int64(7)).
		WillReturnRows(signerRow(sqlmock.NewRows(signerTestColumns), 7, true))
	mock.ExpectQuery("FROM contracts").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	// 1 of 2 contract signers signed -> 50%
	mock.ExpectQuery("FROM signers").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "signed"}).AddRow(2, 1))
	mock.ExpectQuery("UPDATE contracts").WithArgs(50, int64(3)).
		WillReturnRows(contractRow(50))
	mock.ExpectCommit()

	signer, contract, err := repo.RecomputeAggregates(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, signer.Signed)
	assert.Equal(t, 50, contract.ProgressRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeAggregates_PartiallySignedLeavesSignerUnsigned(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewSignerRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery("FROM signers").WithArgs(int64(7)).
		WillReturnRows(signerRow(sqlmock.NewRows(signerTestColumns), 7, false))
	// only 1 of 2 instances signed: no signer UPDATE must run
	mock.ExpectQuery("FROM document_instances").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "signed"}).AddRow(2, 1))
	mock.ExpectQuery("FROM contracts").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery("FROM signers").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "signed"}).AddRow(2, 0))
	mock.ExpectQuery("UPDATE contracts").WithArgs(0, int64(3)).
		WillReturnRows(contractRow(0))
	mock.ExpectCommit()

	signer, contract, err := repo.RecomputeAggregates(context.Background(), 7)
	require.NoError(t, err)

	assert.False(t, signer.Signed)
	assert.Equal(t, 0, contract.ProgressRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeAggregates_AlreadySignedIsNotRemarked(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewSignerRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery("FROM signers").WithArgs(int64(7)).
		WillReturnRows(signerRow(sqlmock.NewRows(signerTestColumns), 7, true))
	mock.ExpectQuery("FROM document_instances").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "signed"}).AddRow(2, 2))
	mock.ExpectQuery("FROM contracts").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery("FROM signers").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "signed"}).AddRow(2, 2))
	mock.ExpectQuery("UPDATE contracts").WithArgs(100, int64(3)).
		WillReturnRows(contractRow(100))
	mock.ExpectCommit()

	signer, contract, err := repo.RecomputeAggregates(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, signer.Signed)
	assert.Equal(t, 100, contract.ProgressRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeAggregates_RetriesAfterSerializationFailure(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewSignerRepository(db, logger.Nop())

	// first attempt loses the lock race on the signer row and rolls back
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(7)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
	mock.ExpectRollback()

	// second attempt runs the full recomputation
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WithArgs(int64(7)).
		WillReturnRows(signerRow(sqlmock.NewRows(signerTestColumns), 7, false))
	mock.ExpectQuery("FROM document_instances").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "signed"}).AddRow(2, 2))
	mock.ExpectQuery("UPDATE signers").WithArgs(int64(7)).
		WillReturnRows(signerRow(sqlmock.NewRows(signerTestColumns), 7, true))
	mock.ExpectQuery("FROM contracts").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery("FROM signers").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "signed"}).AddRow(2, 2))
	mock.ExpectQuery("UPDATE contracts").WithArgs(100, int64(3)).
		WillReturnRows(contractRow(100))
	mock.ExpectCommit()

	signer, contract, err := repo.RecomputeAggregates(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, signer.Signed)
	assert.Equal(t, 100, contract.ProgressRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeAggregates_ConstraintViolationIsNotRetried(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewSignerRepository(db, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectQuery("FROM signers").WithArgs(int64(7)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
	mock.ExpectRollback()

	_, _, err := repo.RecomputeAggregates(context.Background(), 7)
	assert.ErrorIs(t, err, ErrScanningRow)
	assert.NoError(t, mock.ExpectationsWereMet())
}
