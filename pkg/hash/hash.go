// Package hash computes the SHA-256 digests stored alongside every archive
// entry and compares them without leaking timing information.
package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Size is the digest length in bytes.
const Size = sha256.Size

// Digest returns the SHA-256 of data. A nil slice hashes as the empty string.
func Digest(data []byte) [Size]byte {
	return sha256.Sum256(data)
}

// Sum is Digest returning a freshly allocated slice.
func Sum(data []byte) []byte {
	d := sha256.Sum256(data)
	return d[:]
}

// EqualCT compares two digests in constant time. Slices of different length
// compare unequal immediately; length is not secret.
func EqualCT(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Hex renders a digest as lowercase hex for listings and reports.
func Hex(digest []byte) string {
	return hex.EncodeToString(digest)
}
