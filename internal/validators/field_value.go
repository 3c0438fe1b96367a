// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"strconv"

	_ "image/jpeg"
	_ "image/png"

	"github.com/veridoc/signcore/models"
)

// Field name constants used to specify which fields should be validated.
// Passed to Validate to restrict validation to a subset of checks.
const (
	// FieldRole targets the template/signer-instance role check.
	FieldRole = "role"

	// FieldValue targets the submitted value against the field's type.
	FieldValue = "value"
)

// FieldValueValidator implements the Validator interface for signer field
// submissions: a [models.Field] whose Value carries the candidate content in
// wire form (plain text, "true"/"false", or base64 raster bytes).
//
// Sensitive values must be validated before encryption; ciphertext cannot be
// type-checked.
type FieldValueValidator struct {
}

// NewFieldValueValidator constructs a new FieldValueValidator
// and returns it as the Validator interface.
func NewFieldValueValidator() Validator {
	return &FieldValueValidator{}
}

// Validate dispatches validation to the appropriate type-specific method.
func (v *FieldValueValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Field:
		return v.validateField(ctx, value, fields...)
	case *models.Field:
		return v.validateField(ctx, *value, fields...)

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

func (v *FieldValueValidator) validateField(_ context.Context, field models.Field, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRole, FieldValue}
	}

	for _, name := range fields {
		switch name {
		case FieldRole:
			if field.IsTemplate() {
				return ErrTemplateFieldImmutable
			}
		case FieldValue:
			if err := v.validateValue(field); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}

	return nil
}

func (v *FieldValueValidator) validateValue(field models.Field) error {
	if !field.Filled() {
		return ErrEmptyValue
	}
	value := *field.Value

	switch field.Type {
	case models.FieldTypeText:
		return nil

	case models.FieldTypeConfirmText:
		if field.StaticConfirmText == nil || value != *field.StaticConfirmText {
			return ErrConfirmTextMismatch
		}
		return nil

	case models.FieldTypeCheckbox:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidCheckboxValue, value)
		}
		return nil

	case models.FieldTypeSignatureImage:
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidImageValue, err)
		}
		if _, _, err = image.DecodeConfig(bytes.NewReader(raw)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidImageValue, err)
		}
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownFieldType, field.Type)
	}
}
