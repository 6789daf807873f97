// Package base58 provides raw (non-checksummed) base58 encoding, a thin
// wrapper over the mr-tron/base58 implementation.
package base58

import "github.com/mr-tron/base58"

// Encode renders b as a base58 string.
func Encode(b []byte) string {
	return base58.Encode(b)
}

// Decode parses a base58 string back into bytes.
func Decode(s string) ([]byte, error) {
	return base58.Decode(s)
}
