// Package smartcontract holds the pieces of the contract ABI and script
// surface the core needs without depending on the full compiler toolchain:
// standard redeem-script construction today, contract manifest/parameter
// types as the native-contracts component grows to need them.
package smartcontract

import (
	"errors"
	"sort"

	"github.com/n3core/neogo/pkg/core/interop/interopnames"
	"github.com/n3core/neogo/pkg/crypto/keys"
	"github.com/n3core/neogo/pkg/io"
	"github.com/n3core/neogo/pkg/vm/emit"
)

// MaxMultisigKeys is the maximum number of public keys a multisig redeem
// script may list (the committee-size ceiling the protocol enforces).
const MaxMultisigKeys = 1024

// CreateMultiSigRedeemScript builds the standard m-of-n multisig witness
// script: PUSH(m), one PUSHDATA per sorted public key, PUSH(n), SYSCALL
// System.Crypto.CheckMultisig.
func CreateMultiSigRedeemScript(m int, pubs keys.PublicKeys) ([]byte, error) {
	n := len(pubs)
	if m <= 0 || m > n {
		return nil, errors.New("smartcontract: invalid m for m-of-n multisig")
	}
	if n > MaxMultisigKeys {
		return nil, errors.New("smartcontract: too many keys for multisig")
	}

	sorted := make(keys.PublicKeys, n)
	copy(sorted, pubs)
	sort.Sort(sorted)

	w := io.NewBufBinWriter()
	emit.Int(w.BinWriter, int64(m))
	for _, pub := range sorted {
		emit.Bytes(w.BinWriter, pub.Bytes())
	}
	emit.Int(w.BinWriter, int64(n))
	emit.Syscall(w.BinWriter, interopnames.CryptoCheckMultisig)

	if w.BinWriter.Err != nil {
		return nil, w.BinWriter.Err
	}
	return w.Bytes(), nil
}
