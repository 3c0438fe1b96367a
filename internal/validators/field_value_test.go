// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc/signcore/models"
)

func strPtr(s string) *string { return &s }

func instanceField(fieldType models.FieldType, value string) models.Field {
	return models.Field{
		Role:  models.FieldRoleSignerInstance,
		Type:  fieldType,
		Value: strPtr(value),
	}
}

func pngBase64(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.Black)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestValidate_TextField(t *testing.T) {
	v := NewFieldValueValidator()

	assert.NoError(t, v.Validate(context.Background(), instanceField(models.FieldTypeText, "Kim Minseo")))
}

func TestValidate_EmptyValueRejected(t *testing.T) {
	v := NewFieldValueValidator()

	field := instanceField(models.FieldTypeText, "")
	assert.ErrorIs(t, v.Validate(context.Background(), field), ErrEmptyValue)

	field.Value = nil
	assert.ErrorIs(t, v.Validate(context.Background(), field), ErrEmptyValue)
}

func TestValidate_TemplateFieldRejected(t *testing.T) {
	v := NewFieldValueValidator()

	field := models.Field{Role: models.FieldRoleTemplate, Type: models.FieldTypeText, Value: strPtr("x")}
	assert.ErrorIs(t, v.Validate(context.Background(), field), ErrTemplateFieldImmutable)

	// scoped to value only, the role check is skipped
	assert.NoError(t, v.Validate(context.Background(), field, FieldValue))
}

func TestValidate_ConfirmText(t *testing.T) {
	v := NewFieldValueValidator()

	field := instanceField(models.FieldTypeConfirmText, "I agree to the terms")
	field.StaticConfirmText = strPtr("I agree to the terms")
	assert.NoError(t, v.Validate(context.Background(), field))

	field.Value = strPtr("I agree")
	assert.ErrorIs(t, v.Validate(context.Background(), field), ErrConfirmTextMismatch)

	field.StaticConfirmText = nil
	assert.ErrorIs(t, v.Validate(context.Background(), field), ErrConfirmTextMismatch)
}

func TestValidate_Checkbox(t *testing.T) {
	v := NewFieldValueValidator()

	for _, ok := range []string{"true", "false", "1", "0"} {
		assert.NoError(t, v.Validate(context.Background(), instanceField(models.FieldTypeCheckbox, ok)), ok)
	}

	err := v.Validate(context.Background(), instanceField(models.FieldTypeCheckbox, "yes please"))
	assert.ErrorIs(t, err, ErrInvalidCheckboxValue)
}

func TestValidate_SignatureImage(t *testing.T) {
	v := NewFieldValueValidator()

	assert.NoError(t, v.Validate(context.Background(), instanceField(models.FieldTypeSignatureImage, pngBase64(t))))

	err := v.Validate(context.Background(), instanceField(models.FieldTypeSignatureImage, "not-base64!!"))
	assert.ErrorIs(t, err, ErrInvalidImageValue)

	garbage := base64.StdEncoding.EncodeToString([]byte("not an image"))
	err = v.Validate(context.Background(), instanceField(models.FieldTypeSignatureImage, garbage))
	assert.ErrorIs(t, err, ErrInvalidImageValue)
}

func TestValidate_UnsupportedType(t *testing.T) {
	v := NewFieldValueValidator()

	assert.ErrorIs(t, v.Validate(context.Background(), "a string"), ErrUnsupportedType)
}

func TestValidate_PointerReceiverAccepted(t *testing.T) {
	v := NewFieldValueValidator()

	field := instanceField(models.FieldTypeText, "ok")
	assert.NoError(t, v.Validate(context.Background(), &field))
}
