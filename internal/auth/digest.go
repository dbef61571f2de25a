// Package auth provides the credential digest, JWT session tokens, and the
// access-control middleware for the tastebud API.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest turns a plaintext password into the hex digest stored in the users
// table. SHA-256 over the UTF-8 bytes, no salt — the scheme is deliberately
// deterministic: login matches accounts by digest equality in SQL, so
// identical passwords must produce identical stored values.
//
// Total function: any string input yields a 64-character lowercase hex
// string.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
