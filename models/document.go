// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// DocumentState is the explicit per-instance signing state.
//
// It replaces the boolean-flag combination (signed + needsResign +
// needsCorrection) the layout authoring side historically used, so that
// states like "resigned but still flagged for correction" are
// unrepresentable.
type DocumentState string

const (
	// DocumentCreated: instance exists, not all required fields are filled.
	DocumentCreated DocumentState = "CREATED"

	// DocumentSigned: all required fields filled, rendered output produced.
	DocumentSigned DocumentState = "SIGNED"

	// DocumentCorrectionRequested: a correction named one or more fields;
	// none of them has been re-submitted yet.
	DocumentCorrectionRequested DocumentState = "CORRECTION_REQUESTED"

	// DocumentCorrectionInProgress: at least one but not all flagged fields
	// have been re-submitted.
	DocumentCorrectionInProgress DocumentState = "CORRECTION_IN_PROGRESS"

	// DocumentResigned: every flagged field was re-submitted and the
	// corrected output was rendered.
	DocumentResigned DocumentState = "RESIGNED"
)

// legalTransitions is the closed set of allowed state changes.
var legalTransitions = map[DocumentState][]DocumentState{
	DocumentCreated:              {DocumentSigned},
	DocumentSigned:               {DocumentCorrectionRequested},
	DocumentCorrectionRequested:  {DocumentCorrectionInProgress, DocumentResigned},
	DocumentCorrectionInProgress: {DocumentResigned},
	DocumentResigned:             {DocumentCorrectionRequested},
}

// CanTransition reports whether moving from s to next is a legal step of the
// signing state machine.
func (s DocumentState) CanTransition(next DocumentState) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Signed reports whether the instance has ever been signed. Correction
// cycles do not un-sign an instance: contract progress counts ever-signed
// signers, not currently-valid ones.
func (s DocumentState) Signed() bool {
	return s != DocumentCreated
}

// DocumentInstance is one signer's copy of one template document, tracked
// through the signing and correction workflow. One instance exists per
// (signer, template document) pair.
type DocumentInstance struct {
	// ID is the unique identifier of the record in the database.
	ID int64 `json:"id"`

	// SignerID is the signer this copy belongs to.
	SignerID int64 `json:"signer_id"`

	// TemplateDocumentID names the template-level document this instance
	// renders.
	TemplateDocumentID int64 `json:"template_document_id"`

	// RawDocumentID points at the blank/unfilled binary in blob storage.
	RawDocumentID string `json:"raw_document_id"`

	// RenderedDocumentID points at the filled/signed binary. Nil until the
	// instance reaches SIGNED.
	RenderedDocumentID *string `json:"rendered_document_id,omitempty"`

	// ResignedDocumentID points at the re-rendered binary produced by a
	// completed correction cycle. Nil until the first RESIGNED transition.
	ResignedDocumentID *string `json:"resigned_document_id,omitempty"`

	// State is the explicit signing state of the instance.
	State DocumentState `json:"state"`

	// SignedAt records the first CREATED→SIGNED transition.
	SignedAt *time.Time `json:"signed_at,omitempty"`

	// NeedsResign is set while an accepted correction request awaits its
	// re-render.
	NeedsResign bool `json:"needs_resign"`

	// ResignRequestedAt records when the pending correction was requested.
	ResignRequestedAt *time.Time `json:"resign_requested_at,omitempty"`

	// ProtectionSecretRef is an opaque reference to the stored, encrypted
	// access password protecting the rendered output. Nil when the
	// document is not password protected. A re-render re-uses the exact
	// secret behind this reference.
	ProtectionSecretRef *string `json:"protection_secret_ref,omitempty"`

	// CreatedAt is the timestamp when the record was created.
	CreatedAt *time.Time `json:"created_at,omitempty"`

	// UpdatedAt is the timestamp of the last modification.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Signed reports whether the instance has ever been signed.
func (d DocumentInstance) Signed() bool {
	return d.State.Signed()
}

// CurrentDocumentID returns the blob ID of the most recent rendered output:
// the resigned binary when a correction cycle completed, otherwise the
// original rendered binary. Empty string while the instance is unsigned.
func (d DocumentInstance) CurrentDocumentID() string {
	if d.ResignedDocumentID != nil {
		return *d.ResignedDocumentID
	}
	if d.RenderedDocumentID != nil {
		return *d.RenderedDocumentID
	}
	return ""
}
