package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a hex SHA-256 digest used for session lookups and log-safe identifiers.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
