// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

// FieldCipher encrypts and decrypts sensitive field values (PII such as
// resident registration numbers, addresses, contact details) before they
// touch the database. Values are stored ciphertext and decrypted only
// immediately before rendering; the engine never persists a decrypted form.
type FieldCipher interface {
	// Encrypt seals plaintext and returns a ciphertext safe to persist.
	Encrypt(plaintext string) (string, error)

	// Decrypt opens a ciphertext previously produced by Encrypt.
	// Failure is surfaced as ErrDecryptFailed: callers fail closed and
	// must never display or render the raw stored value.
	Decrypt(ciphertext string) (string, error)
}

// Protector seals and opens rendered document blobs under an access
// password. The same stored secret protects the original render and every
// re-render of a document instance.
type Protector interface {
	// Seal envelopes blob under the given access password.
	Seal(blob []byte, password string) ([]byte, error)

	// Open reverses Seal given the same password.
	Open(sealed []byte, password string) ([]byte, error)
}
