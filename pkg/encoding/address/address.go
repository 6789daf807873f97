// Package address converts between a Uint160 script hash and its
// base58check account address string.
package address

import (
	"errors"

	"github.com/n3core/neogo/pkg/encoding/base58"
	"github.com/n3core/neogo/pkg/util"
)

// NEOVersion is the address version byte N3 mainnet/testnet accounts use,
// producing the conventional 'N'-prefixed address string.
const NEOVersion = 0x35

// Uint160ToString renders u as a base58check address string.
func Uint160ToString(u util.Uint160) string {
	b := append([]byte{NEOVersion}, u.BytesBE()...)
	return base58.CheckEncode(b)
}

// StringToUint160 parses a base58check address string back into its script
// hash, rejecting strings with the wrong version byte or length.
func StringToUint160(s string) (u util.Uint160, err error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return u, err
	}
	if len(b) != util.Uint160Size+1 {
		return u, errors.New("address: invalid decoded length")
	}
	if b[0] != NEOVersion {
		return u, errors.New("address: invalid address version")
	}
	return util.Uint160DecodeBytesBE(b[1:])
}
