package util

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/n3core/neogo/pkg/io"
)

// Uint256Size is the size of Uint256 in bytes.
const Uint256Size = 32

// Uint256 is a 32 byte long unsigned integer, used to store hashes of
// blocks, transactions and consensus payloads.
type Uint256 [Uint256Size]uint8

// Uint256DecodeString decodes a (optionally 0x-prefixed) big-endian hex
// string into a Uint256.
func Uint256DecodeString(s string) (u Uint256, err error) {
	if len(s) == 2+2*Uint256Size && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s) != 2*Uint256Size {
		return u, fmt.Errorf("expected string size of %d got %d", 2*Uint256Size, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint256DecodeBytesBE(b)
}

// Uint256DecodeStringLE decodes a (optionally 0x-prefixed) little-endian hex
// string into a Uint256.
func Uint256DecodeStringLE(s string) (u Uint256, err error) {
	if len(s) == 2+2*Uint256Size && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s) != 2*Uint256Size {
		return u, fmt.Errorf("expected string size of %d got %d", 2*Uint256Size, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint256DecodeBytesLE(b)
}

// Uint256DecodeBytes decodes a big-endian byte slice.
func Uint256DecodeBytes(b []byte) (u Uint256, err error) {
	return Uint256DecodeBytesBE(b)
}

// Uint256DecodeBytesBE decodes a big-endian byte slice into a Uint256.
func Uint256DecodeBytesBE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected []byte of size %d got %d", Uint256Size, len(b))
	}
	for i, v := range b {
		u[Uint256Size-i-1] = v
	}
	return u, nil
}

// Uint256DecodeBytesLE decodes a little-endian byte slice into a Uint256.
func Uint256DecodeBytesLE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected []byte of size %d got %d", Uint256Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// BytesBE returns the big-endian byte representation of u.
func (u Uint256) BytesBE() []byte {
	out := make([]byte, Uint256Size)
	for i, v := range u {
		out[Uint256Size-i-1] = v
	}
	return out
}

// BytesLE returns the little-endian byte representation of u.
func (u Uint256) BytesLE() []byte {
	out := make([]byte, Uint256Size)
	copy(out, u[:])
	return out
}

// Equals returns true if u and other are the same value.
func (u Uint256) Equals(other Uint256) bool {
	return u == other
}

// EncodeBinary implements the io.Serializable interface.
func (u *Uint256) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(u.BytesLE())
}

// DecodeBinary implements the io.Serializable interface.
func (u *Uint256) DecodeBinary(r *io.BinReader) {
	b := make([]byte, Uint256Size)
	r.ReadBytes(b)
	if r.Err != nil {
		return
	}
	decoded, err := Uint256DecodeBytesLE(b)
	if err != nil {
		r.Err = err
		return
	}
	*u = decoded
}

// String renders the big-endian hex form, no 0x prefix.
func (u Uint256) String() string {
	return hex.EncodeToString(u.BytesBE())
}

// StringLE renders the conventional 0x-prefixed display form.
func (u Uint256) StringLE() string {
	return "0x" + u.String()
}

// IsZero reports whether u is the zero value.
func (u Uint256) IsZero() bool {
	return u == Uint256{}
}

// MarshalJSON renders u as a 0x-prefixed hex string.
func (u Uint256) MarshalJSON() ([]byte, error) {
	return json.Marshal("0x" + u.String())
}

// UnmarshalJSON decodes a hex string (with or without 0x prefix) into u.
func (u *Uint256) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if len(s) == 0 {
		return errors.New("empty uint256 value")
	}
	decoded, err := Uint256DecodeString(s)
	if err != nil {
		return err
	}
	*u = decoded
	return nil
}
