// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators enforces the submission rules of the signing domain:
// which fields may be written at all, and whether a submitted value is
// acceptable for its field type.
//
// The Validator interface stays generic so services can inject alternative
// rule sets; [NewFieldValueValidator] is the production implementation.
package validators

import "context"

// Validator validates an arbitrary input value. The optional scope names
// restrict which rule groups run; with no scopes, every rule applies.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
