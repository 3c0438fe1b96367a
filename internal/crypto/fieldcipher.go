// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the engine's two encryption concerns: the field
// value cipher that keeps PII ciphertext at rest, and the password envelope
// protecting rendered document blobs.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrDecryptFailed is returned when a stored ciphertext cannot be opened
// (wrong key, corrupted record, or a value written before key rotation).
// Callers must treat the value as unreadable: the engine fails closed and
// never falls back to displaying the stored bytes.
var ErrDecryptFailed = errors.New("field value decryption failed")

// fieldCipher is the AES-256-GCM implementation of [FieldCipher]. The random
// nonce is prepended to the ciphertext so decryption can locate it:
// blob = nonce ‖ ciphertext, then base64 for column storage.
type fieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher constructs a [FieldCipher] from a 32-byte key.
func NewFieldCipher(key []byte) (FieldCipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("field cipher key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &fieldCipher{aead: aead}, nil
}

// Encrypt implements [FieldCipher].
func (f *fieldCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, f.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := f.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(append(nonce, sealed...)), nil
}

// Decrypt implements [FieldCipher].
func (f *fieldCipher) Decrypt(ciphertext string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptFailed, err)
	}

	nonceSize := f.aead.NonceSize()
	if len(blob) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext shorter than nonce", ErrDecryptFailed)
	}

	plaintext, err := f.aead.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptFailed, err)
	}

	return string(plaintext), nil
}
