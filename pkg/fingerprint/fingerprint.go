// Package fingerprint defines the 32-byte evidence fingerprint that proves a
// submission's supporting evidence. Fingerprints are required to be unique
// across all submissions, so the type is comparable and map-key friendly.
package fingerprint

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Size is the exact length of an evidence fingerprint in bytes.
const Size = 32

// Fingerprint is a content hash over a submission's supporting evidence.
type Fingerprint [Size]byte

// FromEvidence derives a fingerprint from raw evidence bytes using
// BLAKE2b-256.
func FromEvidence(evidence []byte) Fingerprint {
	return blake2b.Sum256(evidence)
}

// Parse validates and converts a raw byte slice into a Fingerprint.
// The slice must be exactly Size bytes.
func Parse(b []byte) (Fingerprint, error) {
	if len(b) != Size {
		return Fingerprint{}, fmt.Errorf("fingerprint must be %d bytes, got %d", Size, len(b))
	}
	var fp Fingerprint
	copy(fp[:], b)
	return fp, nil
}

// String returns the lowercase hex encoding of the fingerprint.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Bytes returns a copy of the fingerprint as a byte slice.
func (f Fingerprint) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, f[:])
	return b
}
