// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/hex"
	"fmt"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants the application depends on at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}

	if cfg.Storage.Files.BlobDir == "" {
		return fmt.Errorf("%w: blob directory is required", ErrInvalidStorageConfigs)
	}

	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}

	if _, err := cfg.App.CipherKeyBytes(); err != nil {
		return err
	}

	if cfg.Render.MinFontSize <= 0 || cfg.Render.MinFontSize > cfg.Render.MaxFontSize {
		return fmt.Errorf("%w: font size bounds %v..%v", ErrInvalidRenderConfigs,
			cfg.Render.MinFontSize, cfg.Render.MaxFontSize)
	}

	return nil
}

// CipherKeyBytes decodes the hex-encoded field cipher key into the 32 raw
// bytes the AES-256 field cipher expects.
func (a App) CipherKeyBytes() ([]byte, error) {
	key, err := hex.DecodeString(a.FieldCipherKey)
	if err != nil {
		return nil, fmt.Errorf("%w: field cipher key is not valid hex", ErrInvalidAppConfigs)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: field cipher key must be 32 bytes, got %d", ErrInvalidAppConfigs, len(key))
	}
	return key, nil
}
