package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrTemplateFieldImmutable = errors.New("template fields do not accept values")
	ErrEmptyValue             = errors.New("value is required")
	ErrInvalidCheckboxValue   = errors.New("checkbox value must be a boolean string")
	ErrInvalidImageValue      = errors.New("signature image must be base64 PNG or JPEG")
	ErrConfirmTextMismatch    = errors.New("confirmation text does not match")
	ErrUnknownFieldType       = errors.New("unknown field type")
)
