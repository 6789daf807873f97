// Package base58 implements base58check: base58 with an appended 4-byte
// double-SHA256 checksum, the encoding WIF and account addresses use.
package base58

import (
	"errors"

	"github.com/mr-tron/base58"
	"github.com/n3core/neogo/pkg/crypto/hash"
)

// CheckEncode base58-encodes b with a trailing 4-byte checksum.
func CheckEncode(b []byte) string {
	csum := hash.Checksum(b)
	buf := make([]byte, len(b)+len(csum))
	copy(buf, b)
	copy(buf[len(b):], csum)
	return base58.Encode(buf)
}

// CheckDecode decodes a base58check string, verifying and stripping its
// trailing checksum.
func CheckDecode(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) < 5 {
		return nil, errors.New("base58: invalid checksummed data, too short")
	}
	body, csum := b[:len(b)-4], b[len(b)-4:]
	expected := hash.Checksum(body)
	for i := range expected {
		if expected[i] != csum[i] {
			return nil, errors.New("base58: checksum mismatch")
		}
	}
	return body, nil
}
