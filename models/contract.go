// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"math"
	"time"
)

// Contract is the aggregate root owned by the caller domain. The engine only
// maintains its signing progress; everything else about a contract lives
// outside this service.
type Contract struct {
	// ID is the unique identifier of the record in the database.
	ID int64 `json:"id"`

	// Title is a human-readable label supplied by the caller domain.
	Title string `json:"title"`

	// ProgressRate is round(100 * signed signers / total signers),
	// recomputed whenever any signer's aggregate Signed flag changes.
	// 100 iff every signer has signed. Progress counts ever-signed
	// signers, so a correction cycle never reduces it.
	ProgressRate int `json:"progress_rate"`

	// CreatedAt is the timestamp when the record was created.
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ProgressRate computes the contract progress percentage for the given
// signer counts. Zero total signers yields zero progress.
func ProgressRate(signedSigners, totalSigners int) int {
	if totalSigners <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(signedSigners) / float64(totalSigners)))
}
