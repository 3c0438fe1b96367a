package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty database DSN or blob directory).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a missing token sign key or a malformed cipher key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidRenderConfigs indicates invalid render settings
	// (for example, a minimum font size above the maximum).
	ErrInvalidRenderConfigs = errors.New("invalid render configuration")
)
