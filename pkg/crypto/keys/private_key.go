package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/n3core/neogo/pkg/crypto/hash"
	"github.com/n3core/neogo/pkg/util"
	"github.com/nspcc-dev/rfc6979"
)

// WIFVersion is the version byte prepended to a WIF-encoded private key.
const WIFVersion = 0x80

// PrivateKey is an account's secp256r1 (or, for multisig scripts on the
// alternate curve, secp256k1) ECDSA key pair.
type PrivateKey struct {
	ecdsa.PrivateKey
}

// NewPrivateKey generates a new secp256r1 private key.
func NewPrivateKey() (*PrivateKey, error) {
	return newPrivateKey(elliptic.P256())
}

// NewSecp256k1PrivateKey generates a new secp256k1 private key.
func NewSecp256k1PrivateKey() (*PrivateKey, error) {
	return newPrivateKey(secp256k1.S256())
}

func newPrivateKey(curve elliptic.Curve) (*PrivateKey, error) {
	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{PrivateKey: *priv}, nil
}

// NewPrivateKeyFromHex decodes a hex-encoded 32-byte secp256r1 scalar.
func NewPrivateKeyFromHex(str string) (*PrivateKey, error) {
	b, err := hex.DecodeString(str)
	if err != nil {
		return nil, err
	}
	return NewPrivateKeyFromBytes(b)
}

// NewPrivateKeyFromBytes builds a secp256r1 private key from a 32-byte
// big-endian scalar.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, errors.New("keys: invalid private key length")
	}
	curve := elliptic.P256()
	d := new(big.Int).SetBytes(b)
	x, y := curve.ScalarBaseMult(b)
	return &PrivateKey{
		PrivateKey: ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{Curve: curve, X: x, Y: y},
			D:         d,
		},
	}, nil
}

// NewPrivateKeyFromWIF decodes a WIF string into a private key, assuming
// the standard WIF version byte.
func NewPrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	w, err := WIFDecode(wif, WIFVersion)
	if err != nil {
		return nil, err
	}
	return w.PrivateKey, nil
}

// PublicKey returns priv's corresponding public key.
func (priv *PrivateKey) PublicKey() *PublicKey {
	pub := PublicKey(priv.PrivateKey.PublicKey)
	return &pub
}

// Sign hashes data with SHA-256 and returns its deterministic (RFC 6979)
// ECDSA signature as the concatenation of r and s, each padded to the
// curve's coordinate size.
func (priv *PrivateKey) Sign(data []byte) []byte {
	return priv.SignHash(hash.Sha256(data))
}

// SignHash signs a pre-computed digest.
func (priv *PrivateKey) SignHash(digest util.Uint256) []byte {
	r, s := priv.signHashBytes(digest.BytesBE())
	byteSize := (priv.Curve.Params().BitSize + 7) / 8
	sig := make([]byte, 2*byteSize)
	r.FillBytes(sig[:byteSize])
	s.FillBytes(sig[byteSize:])
	return sig
}

func (priv *PrivateKey) signHashBytes(digest []byte) (*big.Int, *big.Int) {
	return rfc6979.SignECDSA(&priv.PrivateKey, digest, sha256.New)
}

// Address renders priv's public key's script hash as a base58check address.
func (priv *PrivateKey) Address() string {
	addr, _ := priv.PublicKey().Address()
	return addr
}

// WIF renders priv as a compressed, standard-version WIF string.
func (priv *PrivateKey) WIF() string {
	s, _ := WIFEncode(priv.Bytes(), WIFVersion, true)
	return s
}

// Bytes returns priv's scalar as a 32-byte big-endian value.
func (priv *PrivateKey) Bytes() []byte {
	b := make([]byte, 32)
	priv.D.FillBytes(b)
	return b
}

// String renders priv's scalar as lowercase hex.
func (priv *PrivateKey) String() string {
	return hex.EncodeToString(priv.Bytes())
}

// Destroy zeroes priv's scalar, so it no longer round-trips to the original
// key material.
func (priv *PrivateKey) Destroy() {
	if priv.D != nil {
		priv.D.SetInt64(0)
	}
}
