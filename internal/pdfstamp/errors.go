// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pdfstamp

import "errors"

var (
	// ErrDocumentLoad reports that the source document could not be parsed.
	// Nothing has been written when it is returned.
	ErrDocumentLoad = errors.New("document load failed")

	// ErrDocumentSave reports a failure while assembling the output bytes.
	// The output is returned whole or not at all.
	ErrDocumentSave = errors.New("document save failed")

	// ErrRenderDecode reports that a signature image value could not be
	// decoded. The field is skipped, the rest of the document still renders.
	ErrRenderDecode = errors.New("image decode failed")

	// ErrInvalidFieldPage reports a field placed on a page the document does
	// not have.
	ErrInvalidFieldPage = errors.New("field page out of range")
)
