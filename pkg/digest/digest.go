// Package digest holds the ledger's hash primitives. Every ID, chain link
// and merkle root in the system is a SHA-512 hex digest.
package digest

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// HexLen is the length of a hex-encoded digest.
const HexLen = sha512.Size * 2

// GenesisRoot is the prev_root of the first sealed block.
var GenesisRoot = strings.Repeat("0", HexLen)

// Hex returns the SHA-512 digest of b as a lowercase hex string.
func Hex(b []byte) string {
	sum := sha512.Sum512(b)
	return hex.EncodeToString(sum[:])
}

// HexString is a convenience wrapper for string input.
func HexString(s string) string {
	return Hex([]byte(s))
}
