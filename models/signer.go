// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// CipheredValue is a string alias representing encrypted content.
// The actual structure and meaning of the data are unknown to the database.
type CipheredValue string

// Signer is one party of a contract who must complete one or more document
// instances. Contact details are stored encrypted; the aggregate Signed flag
// is derived from the signer's document instances and recomputed inside the
// same transaction that flips an instance to SIGNED.
type Signer struct {
	// ID is the unique identifier of the record in the database.
	ID int64 `json:"id"`

	// ContractID is the contract this signer belongs to.
	ContractID int64 `json:"contract_id"`

	// Name is the signer's display name.
	Name string `json:"name"`

	// Email is the signer's e-mail address, stored encrypted.
	Email CipheredValue `json:"-"`

	// Phone is the signer's phone number, stored encrypted.
	Phone CipheredValue `json:"-"`

	// Signed is true iff every document instance of this signer is signed.
	Signed bool `json:"signed"`

	// SignedAt records when the last outstanding instance was signed.
	SignedAt *time.Time `json:"signed_at,omitempty"`

	// CreatedAt is the timestamp when the record was created.
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
