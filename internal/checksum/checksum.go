// Package checksum provides content digests for stored artifacts.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Verify reports whether data matches the given hex digest.
// An empty digest verifies trivially (legacy rows without one).
func Verify(data []byte, digest string) bool {
	if digest == "" {
		return true
	}
	return Sum(data) == digest
}
