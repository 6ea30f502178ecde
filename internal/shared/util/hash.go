package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashText returns the hex SHA-256 of s. Used to correlate prompts in logs without logging their text.
func HashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
