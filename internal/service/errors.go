package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrFieldOwnership      = errors.New("field belongs to another signer")

	ErrIllegalTransition      = errors.New("illegal document state transition")
	ErrCorrectionRequestEmpty = errors.New("correction request names no fields")
	ErrCorrectionOutstanding  = errors.New("flagged fields are still outstanding")

	ErrTokenInvalid        = errors.New("token is invalid or revoked")
	ErrTokenCreationFailed = errors.New("token creation failed")

	ErrRenderFailed = errors.New("document render failed")
)
