// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// FieldUpdate describes a partial update of one signer field. Nil pointers
// leave the column untouched; the repository builds the UPDATE dynamically
// from the populated members.
type FieldUpdate struct {
	// ID identifies the field row to update.
	ID int64

	// Value replaces the stored (possibly encrypted) value when non-nil.
	Value *string

	// ClearCorrection resets the correction flag, comment and timestamp.
	// Used when a signer resubmits a field that was flagged for correction.
	ClearCorrection bool
}

// DocumentUpdate describes a partial update of one document instance. Nil
// pointers leave the column untouched.
type DocumentUpdate struct {
	// ID identifies the document instance row to update.
	ID int64

	// State moves the instance to a new signing state when non-nil. Legality
	// of the transition is the service layer's concern.
	State *DocumentState

	// RenderedDocumentID records the blob produced by the first render.
	RenderedDocumentID *string

	// ResignedDocumentID records the blob produced by a correction re-render.
	ResignedDocumentID *string

	// SignedAt records the first signing timestamp.
	SignedAt *time.Time

	// NeedsResign sets or clears the pending-correction marker.
	NeedsResign *bool

	// ResignRequestedAt records when the pending correction was requested.
	ResignRequestedAt *time.Time

	// ClearResignRequestedAt nulls the request timestamp when a correction
	// cycle completes.
	ClearResignRequestedAt bool
}
