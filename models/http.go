// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SubmitFieldValueRequest is the body of a signer's field submission.
type SubmitFieldValueRequest struct {
	// Value is the submitted content in the field type's wire form:
	// plain text, "true"/"false", or base64 image bytes.
	Value string `json:"value"`
}

// PropagateRequest targets one (signer, document instance) pair for template
// field propagation.
type PropagateRequest struct {
	SignerID           int64 `json:"signer_id"`
	DocumentInstanceID int64 `json:"document_instance_id"`
}

// PropagateResponse reports how many fields exist on the instance after
// propagation.
type PropagateResponse struct {
	Fields []Field `json:"fields"`
}

// CorrectionRequest names the fields of a signed document instance that must
// be re-collected, with the operator's reason.
type CorrectionRequest struct {
	// FieldIDs are the signer-instance field IDs to flag. Must be
	// non-empty; an empty list is rejected without any state change.
	FieldIDs []int64 `json:"field_ids"`

	// Reason is the operator's comment shown to the signer.
	Reason string `json:"reason"`
}

// BatchRenderRequest names the signed document instances to re-render in one
// contract-wide pass.
type BatchRenderRequest struct {
	DocumentInstanceIDs []int64 `json:"document_instance_ids"`
}

// BatchRenderResult is the per-instance outcome of a batch render. A failed
// instance carries its error text; the rest of the batch is unaffected.
type BatchRenderResult struct {
	DocumentInstanceID int64  `json:"document_instance_id"`
	DocumentID         string `json:"document_id,omitempty"`
	Error              string `json:"error,omitempty"`
}

// BatchRenderResponse lists batch outcomes in request order.
type BatchRenderResponse struct {
	Results []BatchRenderResult `json:"results"`
}

// RenderResponse reports the blob ID of a produced binary.
type RenderResponse struct {
	DocumentID string `json:"document_id"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	Token     string    `json:"token"`
	Kind      TokenKind `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueTokenRequest selects the lifetime class of the token to issue.
type IssueTokenRequest struct {
	Kind TokenKind `json:"kind"`
}

// DocumentStatusResponse is one entry of a signer's document listing.
type DocumentStatusResponse struct {
	DocumentInstanceID int64         `json:"document_instance_id"`
	TemplateDocumentID int64         `json:"template_document_id"`
	State              DocumentState `json:"state"`
	NeedsResign        bool          `json:"needs_resign"`
	SignedAt           *time.Time    `json:"signed_at,omitempty"`
}
