// Package hash provides the digest primitives used throughout the protocol:
// SHA-256, double SHA-256, RIPEMD-160, the SHA256-then-RIPEMD160 script-hash
// combinator, and the 4-byte checksum appended to base58check addresses.
package hash

import (
	"crypto/sha256"

	"github.com/n3core/neogo/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // only available RIPEMD-160 implementation
)

// Sha256 computes the SHA-256 digest of b.
func Sha256(b []byte) util.Uint256 {
	digest := sha256.Sum256(b)
	hash, _ := util.Uint256DecodeBytesBE(digest[:])
	return hash
}

// DoubleSha256 computes SHA-256 twice over b, the digest used for block and
// transaction hashes.
func DoubleSha256(b []byte) util.Uint256 {
	h1 := Sha256(b)
	return Sha256(h1.BytesBE())
}

// RipeMD160 computes the RIPEMD-160 digest of b.
func RipeMD160(b []byte) util.Uint160 {
	hasher := ripemd160.New()
	_, _ = hasher.Write(b)
	hash, _ := util.Uint160DecodeBytesBE(hasher.Sum(nil))
	return hash
}

// Hash160 computes RIPEMD160(SHA256(b)), the script-hash combinator used for
// contract and account addresses.
func Hash160(b []byte) util.Uint160 {
	sha := Sha256(b)
	return RipeMD160(sha.BytesBE())
}

// Checksum returns the first 4 bytes of the double SHA-256 digest of b, as
// used by base58check encoding.
func Checksum(b []byte) []byte {
	hash := DoubleSha256(b)
	return hash.BytesBE()[:4]
}
