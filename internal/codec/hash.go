package codec

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Checksum computes the hex-encoded BLAKE3-256 hash of raw bytes.
// This is the integrity checksum stored on every entry and the basis
// for dedup-aware overwrite detection.
func Checksum(raw []byte) string {
	sum := blake3.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum reports whether raw hashes to the expected checksum.
func VerifyChecksum(raw []byte, expected string) bool {
	return Checksum(raw) == expected
}
