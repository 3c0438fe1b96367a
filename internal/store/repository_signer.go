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

// signerRepository is the PostgreSQL-backed implementation of
// [SignerRepository]. Besides plain lookups it owns the transactional
// recomputation of the two derived columns in the data model: the signer's
// signed flag and the contract's progress rate.
type signerRepository struct {
	*DB
	logger *logger.Logger
}

// NewSignerRepository constructs a [SignerRepository] backed by the provided
// database connection and logger.
func NewSignerRepository(db *DB, log *logger.Logger) SignerRepository {
	log.Debug().Msg("creating signer repository")
	return &signerRepository{DB: db, logger: log}
}

func scanSigner(row rowScanner) (models.Signer, error) {
	var s models.Signer
	err := row.Scan(&s.ID, &s.ContractID, &s.Name, &s.Email, &s.Phone, &s.Signed, &s.SignedAt, &s.CreatedAt)
	return s, err
}

func (r *signerRepository) GetSignerByID(ctx context.Context, id int64) (models.Signer, error) {
	log := logger.FromContext(ctx)

	signer, err := scanSigner(r.DB.QueryRowContext(ctx, getSignerByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Signer{}, ErrSignerNotFound
		}
		log.Err(err).Str("func", "signerRepository.GetSignerByID").Int64("signer_id", id).Msg("error scanning signer row")
		return models.Signer{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return signer, nil
}

// recomputeAttempts bounds how often a recompute that lost a lock or
// serialization race is rerun before the error is surfaced.
const recomputeAttempts = 3

// RecomputeAggregates re-derives the signer's signed flag and the owning
// contract's progress rate inside one transaction.
//
// A signer counts as signed once every document instance has left CREATED;
// the flag is never taken back, so an accepted correction does not reduce
// contract progress. The signer row is read FOR UPDATE and the contract row
// is locked before its signers are counted, so concurrent recomputes cannot
// overwrite each other's progress rate with a stale count. The operation
// only rewrites derived columns; failures the classifier deems retryable
// (deadlock rollbacks, serialization failures, connection loss) are rerun.
func (r *signerRepository) RecomputeAggregates(ctx context.Context, signerID int64) (models.Signer, models.Contract, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 1; attempt <= recomputeAttempts; attempt++ {
		signer, contract, err := r.recomputeOnce(ctx, signerID)
		if err == nil {
			return signer, contract, nil
		}
		if r.DB.errorClassifier.Classify(err) != Retryable {
			return models.Signer{}, models.Contract{}, err
		}

		log.Warn().Err(err).Str("func", "signerRepository.RecomputeAggregates").
			Int64("signer_id", signerID).Int("attempt", attempt).Msg("retrying aggregate recomputation")
		lastErr = err
	}

	return models.Signer{}, models.Contract{}, lastErr
}

func (r *signerRepository) recomputeOnce(ctx context.Context, signerID int64) (models.Signer, models.Contract, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "signerRepository.RecomputeAggregates").Msg("error during opening transaction")
		return models.Signer{}, models.Contract{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	signer, err := scanSigner(tx.QueryRowContext(ctx, getSignerByIDForUpdate, signerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Signer{}, models.Contract{}, ErrSignerNotFound
		}
		log.Err(err).Str("func", "signerRepository.RecomputeAggregates").Int64("signer_id", signerID).Msg("error scanning signer row")
		return models.Signer{}, models.Contract{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	var total, signed int
	if err = tx.QueryRowContext(ctx, countSignerInstances, signerID).Scan(&total, &signed); err != nil {
		log.Err(err).Str("func", "signerRepository.RecomputeAggregates").Int64("signer_id", signerID).Msg("error counting signer instances")
		return models.Signer{}, models.Contract{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if !signer.Signed && total > 0 && signed == total {
		signer, err = scanSigner(tx.QueryRowContext(ctx, markSignerSigned, signerID))
		if err != nil {
			log.Err(err).Str("func", "signerRepository.RecomputeAggregates").Int64("signer_id", signerID).Msg("error marking signer signed")
			return models.Signer{}, models.Contract{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	var contractID int64
	if err = tx.QueryRowContext(ctx, lockContract, signer.ContractID).Scan(&contractID); err != nil {
		log.Err(err).Str("func", "signerRepository.RecomputeAggregates").Int64("contract_id", signer.ContractID).Msg("error locking contract row")
		return models.Signer{}, models.Contract{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var totalSigners, signedSigners int
	if err = tx.QueryRowContext(ctx, countContractSigners, signer.ContractID).Scan(&totalSigners, &signedSigners); err != nil {
		log.Err(err).Str("func", "signerRepository.RecomputeAggregates").Int64("contract_id", signer.ContractID).Msg("error counting contract signers")
		return models.Signer{}, models.Contract{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	rate := models.ProgressRate(signedSigners, totalSigners)

	var contract models.Contract
	row := tx.QueryRowContext(ctx, updateContractProgress, rate, signer.ContractID)
	if err = row.Scan(&contract.ID, &contract.Title, &contract.ProgressRate, &contract.CreatedAt); err != nil {
		log.Err(err).Str("func", "signerRepository.RecomputeAggregates").Int64("contract_id", signer.ContractID).Msg("error updating contract progress")
		return models.Signer{}, models.Contract{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "signerRepository.RecomputeAggregates").Msg("error committing transaction")
		return models.Signer{}, models.Contract{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return signer, contract, nil
}
