// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrFieldNotFound is returned when a query or update targets a field
	// row that does not exist.
	ErrFieldNotFound = errors.New("field was not found")

	// ErrDocumentNotFound is returned when a query or update targets a
	// document instance that does not exist.
	ErrDocumentNotFound = errors.New("document instance was not found")

	// ErrSignerNotFound is returned when a query targets a signer that does
	// not exist.
	ErrSignerNotFound = errors.New("signer was not found")

	// ErrTokenNotFound is returned when no active access token matches the
	// presented value.
	ErrTokenNotFound = errors.New("access token was not found")

	// ErrNothingSaved is returned when an INSERT or UPDATE completes without
	// error but affects zero rows, meaning nothing was actually persisted.
	ErrNothingSaved = errors.New("no rows were saved")

	// ErrBlobNotFound is returned when a blob ID does not resolve to a
	// stored object.
	ErrBlobNotFound = errors.New("blob was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when a result row cannot be scanned into
	// its destination model.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")
)
