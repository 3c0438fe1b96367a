// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// SerialNumber generates the human-traceable fingerprint stamped into a
// rendered document's footer.
//
// The value combines 4 random bytes with a SHA-256 content hash of
// (documentInstanceID, signerID, timestamp), hex-encoded and hyphen-grouped
// for readability (4-4-4-4 characters). It is practically unique but carries
// no cryptographic meaning: its only purpose is letting a human trace a
// printed page back to one render event.
func SerialNumber(documentInstanceID, signerID int64, at time.Time) string {
	entropy := make([]byte, 4)
	_, _ = rand.Read(entropy)

	h := sha256.New()
	_ = binary.Write(h, binary.BigEndian, documentInstanceID)
	_ = binary.Write(h, binary.BigEndian, signerID)
	_ = binary.Write(h, binary.BigEndian, at.UnixNano())
	digest := h.Sum(nil)

	raw := hex.EncodeToString(entropy) + hex.EncodeToString(digest[:4])
	raw = strings.ToUpper(raw)

	groups := make([]string, 0, 4)
	for i := 0; i < len(raw); i += 4 {
		groups = append(groups, raw[i:i+4])
	}
	return strings.Join(groups, "-")
}

// FooterLine formats the page footer text: completion timestamp plus serial.
func FooterLine(completedAt time.Time, serial string) string {
	return fmt.Sprintf("Completed %s / No. %s",
		completedAt.Format("2006-01-02 15:04:05 MST"), serial)
}
