// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// ErrOpenEnvelope is returned when a sealed blob cannot be opened with the
// supplied password.
var ErrOpenEnvelope = errors.New("protection envelope open failed")

// envelope is the password-based implementation of [Protector]. The key is
// derived from the access password with Argon2id; the sealed layout is
// salt(16) ‖ nonce(12) ‖ ciphertext.
type envelope struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewProtector constructs a [Protector] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewProtector() Protector {
	return &envelope{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

func (e *envelope) deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(password),
		salt,
		e.argonTime,
		e.argonMemory,
		e.argonThreads,
		e.argonKeyLen,
	)
}

// Seal implements [Protector].
func (e *envelope) Seal(blob []byte, password string) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	aead, err := e.aead(password, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := append(salt, nonce...)
	return append(out, aead.Seal(nil, nonce, blob, nil)...), nil
}

// Open implements [Protector].
func (e *envelope) Open(sealed []byte, password string) ([]byte, error) {
	if len(sealed) < 16 {
		return nil, fmt.Errorf("%w: blob shorter than salt", ErrOpenEnvelope)
	}
	salt, rest := sealed[:16], sealed[16:]

	aead, err := e.aead(password, salt)
	if err != nil {
		return nil, err
	}

	nonceSize := aead.NonceSize()
	if len(rest) < nonceSize {
		return nil, fmt.Errorf("%w: blob shorter than nonce", ErrOpenEnvelope)
	}

	blob, err := aead.Open(nil, rest[:nonceSize], rest[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenEnvelope, err)
	}

	return blob, nil
}

func (e *envelope) aead(password string, salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.deriveKey(password, salt))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
