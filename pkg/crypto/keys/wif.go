package keys

import (
	"errors"

	"github.com/n3core/neogo/pkg/encoding/base58"
)

// WIF holds the decoded parts of a WIF-encoded private key.
type WIF struct {
	Version    byte
	Compressed bool
	PrivateKey *PrivateKey
}

// WIFEncode encodes a 32-byte private key scalar in WIF form.
func WIFEncode(priv []byte, version byte, compressed bool) (string, error) {
	if len(priv) != 32 {
		return "", errors.New("keys: invalid private key length for WIF encoding")
	}
	buf := make([]byte, 0, 34)
	buf = append(buf, version)
	buf = append(buf, priv...)
	if compressed {
		buf = append(buf, 0x01)
	}
	return base58.CheckEncode(buf), nil
}

// WIFDecode decodes a WIF string. A version of 0 means "use the standard
// WIFVersion".
func WIFDecode(wif string, version byte) (*WIF, error) {
	if version == 0 {
		version = WIFVersion
	}
	b, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, err
	}
	if len(b) != 33 && len(b) != 34 {
		return nil, errors.New("keys: invalid WIF length")
	}
	if b[0] != version {
		return nil, errors.New("keys: invalid WIF version")
	}

	compressed := len(b) == 34
	if compressed && b[33] != 0x01 {
		return nil, errors.New("keys: invalid WIF compression flag")
	}

	priv, err := NewPrivateKeyFromBytes(b[1:33])
	if err != nil {
		return nil, err
	}

	return &WIF{
		Version:    b[0],
		Compressed: compressed,
		PrivateKey: priv,
	}, nil
}
