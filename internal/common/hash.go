package common

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const defaultHashLength = 16

// SHA256Hex returns the full hex digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ShortHash hashes the parts joined by "|" and truncates the digest to
// length hex characters. Out-of-range lengths fall back to 16.
func ShortHash(length int, parts ...string) string {
	if length <= 0 || length > 64 {
		length = defaultHashLength
	}
	return SHA256Hex([]byte(strings.Join(parts, "|")))[:length]
}
