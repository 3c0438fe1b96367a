// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// FieldRole discriminates the two lifecycles a Field record can have.
//
// A single tagged-variant Field type replaces the template-field /
// signer-field / correction-view struct triplet: the geometry and typing
// columns are shared, the role decides which of the remaining columns are
// meaningful.
type FieldRole string

const (
	// FieldRoleTemplate marks a field that belongs to a template document.
	// Template fields carry layout only; they are immutable once any
	// document instance has been produced from their template.
	FieldRoleTemplate FieldRole = "TEMPLATE"

	// FieldRoleSignerInstance marks a per-signer copy of a template field.
	// Instance fields carry the signer's submitted value and the
	// correction bookkeeping columns.
	FieldRoleSignerInstance FieldRole = "SIGNER_INSTANCE"
)

// FieldType defines how a field's value is interpreted and drawn.
type FieldType string

const (
	// FieldTypeText is free-form text placed into the field's box.
	FieldTypeText FieldType = "text"

	// FieldTypeConfirmText is text the signer must re-type to confirm;
	// StaticConfirmText holds the reference string to compare against.
	FieldTypeConfirmText FieldType = "confirm_text"

	// FieldTypeSignatureImage is an embedded raster image (PNG or JPEG)
	// holding the signer's drawn signature or stamp.
	FieldTypeSignatureImage FieldType = "signature_image"

	// FieldTypeCheckbox is a boolean mark; "true" renders a checkmark
	// glyph, anything else renders nothing.
	FieldTypeCheckbox FieldType = "checkbox"
)

// Field is one positioned value slot on a document page.
//
// Geometry is normalized: RelX/RelY/RelWidth/RelHeight are fractions of the
// reference page size in [0,1], measured from the top-left corner. Page is
// 1-based. The renderer converts to absolute page coordinates at stamp time.
type Field struct {
	// ID is the unique identifier of the record in the database.
	ID int64 `json:"id"`

	// Role tags the record as a template layout or a signer instance.
	Role FieldRole `json:"role"`

	// TemplateDocumentID is the template-level document this field (or its
	// lineage ancestor) belongs to.
	TemplateDocumentID int64 `json:"template_document_id"`

	// FieldKey is the designer-assigned key naming the slot (e.g.
	// "lessee_name"). Keys are unique within one template document.
	FieldKey string `json:"field_key"`

	// Type defines how Value is interpreted and drawn.
	Type FieldType `json:"type"`

	// RelX and RelY locate the box's top-left corner as fractions of the
	// reference page width/height.
	RelX float64 `json:"rel_x"`
	RelY float64 `json:"rel_y"`

	// RelWidth and RelHeight size the box as fractions of the reference
	// page width/height.
	RelWidth  float64 `json:"rel_width"`
	RelHeight float64 `json:"rel_height"`

	// Page is the 1-based page index the field is placed on.
	Page int `json:"page"`

	// SensitivityTag, when set, marks the value as personally identifying.
	// Tagged values are stored ciphertext and decrypted only at render time.
	SensitivityTag *string `json:"sensitivity_tag,omitempty"`

	// StaticConfirmText is the reference text for confirm_text fields.
	StaticConfirmText *string `json:"static_confirm_text,omitempty"`

	// LayoutID is the lineage back-reference from a signer instance to the
	// template field it was propagated from. Nil for template fields.
	LayoutID *int64 `json:"layout_id,omitempty"`

	// SignerID is the owning signer. Nil for template fields.
	SignerID *int64 `json:"signer_id,omitempty"`

	// DocumentInstanceID is the owning document instance. Nil for template
	// fields.
	DocumentInstanceID *int64 `json:"document_instance_id,omitempty"`

	// Value is the submitted content: plain text, "true"/"false" for
	// checkboxes, base64 raster bytes for signature images. Stored
	// ciphertext when SensitivityTag is set. Nil until filled.
	Value *string `json:"value,omitempty"`

	// NeedsCorrection flags the field for re-collection during a
	// correction cycle.
	NeedsCorrection bool `json:"needs_correction"`

	// CorrectionComment is the reason supplied with the correction request.
	CorrectionComment *string `json:"correction_comment,omitempty"`

	// CorrectionRequestedAt records when the field was flagged.
	CorrectionRequestedAt *time.Time `json:"correction_requested_at,omitempty"`

	// CreatedAt is the timestamp when the record was created.
	CreatedAt *time.Time `json:"created_at,omitempty"`

	// UpdatedAt is the timestamp of the last modification.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// IsTemplate reports whether the field is a template layout record.
func (f Field) IsTemplate() bool {
	return f.Role == FieldRoleTemplate
}

// Sensitive reports whether the field's value must pass through the field
// cipher on write and read.
func (f Field) Sensitive() bool {
	return f.SensitivityTag != nil && *f.SensitivityTag != ""
}

// Filled reports whether the field holds a non-empty value.
func (f Field) Filled() bool {
	return f.Value != nil && *f.Value != ""
}

// Instantiate projects a template field into a fresh signer-instance field
// for the given (signer, document instance) pair. Geometry, type, sensitivity
// tag and static confirm text are copied; value and correction state start
// empty. The template's ID is preserved as the lineage back-reference.
func (f Field) Instantiate(signerID, documentInstanceID int64) Field {
	layoutID := f.ID
	return Field{
		Role:               FieldRoleSignerInstance,
		TemplateDocumentID: f.TemplateDocumentID,
		FieldKey:           f.FieldKey,
		Type:               f.Type,
		RelX:               f.RelX,
		RelY:               f.RelY,
		RelWidth:           f.RelWidth,
		RelHeight:          f.RelHeight,
		Page:               f.Page,
		SensitivityTag:     f.SensitivityTag,
		StaticConfirmText:  f.StaticConfirmText,
		LayoutID:           &layoutID,
		SignerID:           &signerID,
		DocumentInstanceID: &documentInstanceID,
	}
}
