// Package keys implements NEO's account key pair: a wrapper around an ECDSA
// private/public key pair (secp256r1 by default, secp256k1 for the
// alternate curve some multisig scripts use), along with the WIF encoding
// of a private key and the base58check address derived from a public key's
// script hash.
package keys

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/n3core/neogo/pkg/core/interop/interopnames"
	"github.com/n3core/neogo/pkg/crypto/hash"
	"github.com/n3core/neogo/pkg/encoding/address"
	gio "github.com/n3core/neogo/pkg/io"
	"github.com/n3core/neogo/pkg/util"
	"github.com/n3core/neogo/pkg/vm/emit"
)

// PublicKey represents an ECDSA public key, convertible directly from/to
// ecdsa.PublicKey.
type PublicKey ecdsa.PublicKey

// NewPublicKeyFromString decodes a compressed, hex-encoded secp256r1 public
// key (the form used for account/committee keys throughout the protocol).
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	pub := &PublicKey{}
	if err := pub.DecodeBytes(b); err != nil {
		return nil, err
	}
	return pub, nil
}

// DecodeBytes decodes a compressed (33-byte) or infinity (1-byte) point
// encoding into pub, assuming the secp256r1 curve.
func (pub *PublicKey) DecodeBytes(data []byte) error {
	switch {
	case len(data) == 1 && data[0] == 0x00:
		pub.Curve = elliptic.P256()
		pub.X, pub.Y = nil, nil
		return nil
	case len(data) == 33 && (data[0] == 0x02 || data[0] == 0x03):
		curve := elliptic.P256()
		x := new(big.Int).SetBytes(data[1:])
		y, err := decompressY(curve, x, data[0]&1 == 1)
		if err != nil {
			return err
		}
		pub.Curve = curve
		pub.X, pub.Y = x, y
		return nil
	case len(data) == 65 && data[0] == 0x04:
		curve := elliptic.P256()
		pub.Curve = curve
		pub.X = new(big.Int).SetBytes(data[1:33])
		pub.Y = new(big.Int).SetBytes(data[33:])
		return nil
	default:
		return fmt.Errorf("keys: invalid public key encoding, length %d", len(data))
	}
}

// EncodeBinary writes pub's compressed point encoding.
func (pub *PublicKey) EncodeBinary(w io.Writer) error {
	_, err := w.Write(pub.Bytes())
	return err
}

// DecodeBinary reads a compressed point encoding from r.
func (pub *PublicKey) DecodeBinary(r io.Reader) error {
	prefix := make([]byte, 1)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return err
	}
	if prefix[0] == 0x00 {
		pub.Curve = elliptic.P256()
		pub.X, pub.Y = nil, nil
		return nil
	}
	rest := make([]byte, 32)
	if _, err := io.ReadFull(r, rest); err != nil {
		return err
	}
	return pub.DecodeBytes(append(prefix, rest...))
}

// Bytes returns pub's compressed point encoding: a single 0x00 byte at
// infinity, or a 0x02/0x03 prefix followed by the 32-byte X coordinate.
func (pub *PublicKey) Bytes() []byte {
	if pub.X == nil || pub.Y == nil {
		return []byte{0x00}
	}
	out := make([]byte, 33)
	if pub.Y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	xBytes := pub.X.Bytes()
	copy(out[33-len(xBytes):], xBytes)
	return out
}

// MarshalJSON renders pub as its hex-encoded compressed point.
func (pub *PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(pub.Bytes()))
}

// UnmarshalJSON decodes a hex-encoded compressed point into pub.
func (pub *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	return pub.DecodeBytes(b)
}

// GetScriptHash returns the Hash160 of pub's verification script.
func (pub *PublicKey) GetScriptHash() util.Uint160 {
	return hash.Hash160(pub.toVerificationScript())
}

// Address renders pub's script hash in base58check address form.
func (pub *PublicKey) Address() (string, error) {
	return address.Uint160ToString(pub.GetScriptHash()), nil
}

// ToAddress is Address without the unused error return, matching the
// distilled test contract's call shape.
func (pub *PublicKey) ToAddress() string {
	addr, _ := pub.Address()
	return addr
}

// Verify reports whether signature is a valid ECDSA signature of msgHash
// under pub. It never panics on malformed input.
func (pub *PublicKey) Verify(signature []byte, msgHash []byte) bool {
	if pub.X == nil || pub.Y == nil || pub.Curve == nil {
		return false
	}
	byteSize := (pub.Curve.Params().BitSize + 7) / 8
	if len(signature) != 2*byteSize {
		return false
	}
	r := new(big.Int).SetBytes(signature[:byteSize])
	s := new(big.Int).SetBytes(signature[byteSize:])
	pk := (*ecdsa.PublicKey)(pub)
	return ecdsa.Verify(pk, msgHash, r, s)
}

// Equal reports whether pub and other encode the same point.
func (pub *PublicKey) Equal(other *PublicKey) bool {
	if pub == nil || other == nil {
		return pub == other
	}
	return bytes.Equal(pub.Bytes(), other.Bytes())
}

// toVerificationScript builds the single-signature "push pubkey, SYSCALL
// CheckSig" witness script standard accounts use.
func (pub *PublicKey) toVerificationScript() []byte {
	buf := new(bytes.Buffer)
	w := gio.NewBinWriterFromIO(buf)
	emit.Bytes(w, pub.Bytes())
	emit.Syscall(w, interopnames.CryptoCheckSig)
	return buf.Bytes()
}

func decompressY(curve elliptic.Curve, x *big.Int, odd bool) (*big.Int, error) {
	params := curve.Params()
	p := params.P
	// y^2 = x^3 - 3x + b (mod p), valid for both secp256r1 and secp256k1's
	// short Weierstrass params when a is taken from curve.Params().
	x3 := new(big.Int).Exp(x, big.NewInt(3), p)
	threeX := new(big.Int).Lsh(x, 1)
	threeX.Add(threeX, x)
	rhs := new(big.Int).Sub(x3, threeX)
	rhs.Add(rhs, params.B)
	rhs.Mod(rhs, p)

	// p mod 4 == 3 for both curves this package supports, so sqrt is a
	// single modular exponentiation.
	exp := new(big.Int).Add(p, big.NewInt(1))
	exp.Rsh(exp, 2)
	y := new(big.Int).Exp(rhs, exp, p)
	if y.Bit(0) != boolToUint(odd) {
		y.Sub(p, y)
	}
	// Confirm the candidate actually lies on the curve.
	check := new(big.Int).Exp(y, big.NewInt(2), p)
	if check.Cmp(rhs) != 0 {
		return nil, errors.New("keys: invalid compressed point, not on curve")
	}
	return y, nil
}

func boolToUint(b bool) uint {
	if b {
		return 1
	}
	return 0
}

// PublicKeys is a sortable list of public keys, ordered the way multisig
// redeem scripts must list them (ascending by compressed encoding).
type PublicKeys []*PublicKey

func (keys PublicKeys) Len() int      { return len(keys) }
func (keys PublicKeys) Swap(i, j int) { keys[i], keys[j] = keys[j], keys[i] }
func (keys PublicKeys) Less(i, j int) bool {
	return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) < 0
}
