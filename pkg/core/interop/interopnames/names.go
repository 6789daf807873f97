// Package interopnames holds the canonical method names of every syscall
// interop service, and the 4-byte ID (the little-endian prefix of its
// SHA-256 digest) SYSCALL actually encodes on the wire.
package interopnames

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
)

// Interop service method names, grouped by the native facility they expose.
const (
	ContractCall                    = "System.Contract.Call"
	ContractCallNative               = "System.Contract.CallNative"
	ContractGetCallFlags            = "System.Contract.GetCallFlags"
	ContractCreateStandardAccount   = "System.Contract.CreateStandardAccount"
	ContractCreateMultisigAccount   = "System.Contract.CreateMultisigAccount"
	ContractNativeOnPersist         = "System.Contract.NativeOnPersist"
	ContractNativePostPersist       = "System.Contract.NativePostPersist"

	CryptoCheckSig        = "System.Crypto.CheckSig"
	CryptoCheckMultisig   = "System.Crypto.CheckMultisig"

	IteratorNext  = "System.Iterator.Next"
	IteratorValue = "System.Iterator.Value"

	RuntimePlatform               = "System.Runtime.Platform"
	RuntimeGetTrigger             = "System.Runtime.GetTrigger"
	RuntimeGetTime                = "System.Runtime.GetTime"
	RuntimeGetScriptContainer     = "System.Runtime.GetScriptContainer"
	RuntimeGetExecutingScriptHash = "System.Runtime.GetExecutingScriptHash"
	RuntimeGetCallingScriptHash   = "System.Runtime.GetCallingScriptHash"
	RuntimeGetEntryScriptHash     = "System.Runtime.GetEntryScriptHash"
	RuntimeCheckWitness           = "System.Runtime.CheckWitness"
	RuntimeGetInvocationCounter   = "System.Runtime.GetInvocationCounter"
	RuntimeLog                    = "System.Runtime.Log"
	RuntimeNotify                 = "System.Runtime.Notify"
	RuntimeGetNotifications       = "System.Runtime.GetNotifications"
	RuntimeGasLeft                = "System.Runtime.GasLeft"
	RuntimeBurnGas                = "System.Runtime.BurnGas"
	RuntimeCurrentSigners         = "System.Runtime.CurrentSigners"
	RuntimeGetNetwork             = "System.Runtime.GetNetwork"
	RuntimeGetRandom              = "System.Runtime.GetRandom"
	RuntimeLoadScript             = "System.Runtime.LoadScript"

	StorageGetContext         = "System.Storage.GetContext"
	StorageGetReadOnlyContext = "System.Storage.GetReadOnlyContext"
	StorageAsReadOnly         = "System.Storage.AsReadOnly"
	StorageGet                = "System.Storage.Get"
	StorageFind               = "System.Storage.Find"
	StoragePut                = "System.Storage.Put"
	StorageDelete             = "System.Storage.Delete"

	SystemBinarySerialize     = "System.Binary.Serialize"
	SystemBinaryDeserialize   = "System.Binary.Deserialize"
	SystemBinaryBase64Encode  = "System.Binary.Base64Encode"
	SystemBinaryBase64Decode  = "System.Binary.Base64Decode"
	SystemBinaryBase58Encode  = "System.Binary.Base58Encode"
	SystemBinaryBase58Decode  = "System.Binary.Base58Decode"
	SystemBinaryItoa          = "System.Binary.Itoa"
	SystemBinaryAtoi          = "System.Binary.Atoi"
)

// names lists every known interop method, used to validate FromID lookups
// without keeping a second, hand-maintained reverse map.
var names = []string{
	ContractCall, ContractCallNative, ContractGetCallFlags,
	ContractCreateStandardAccount, ContractCreateMultisigAccount,
	ContractNativeOnPersist, ContractNativePostPersist,
	CryptoCheckSig, CryptoCheckMultisig,
	IteratorNext, IteratorValue,
	RuntimePlatform, RuntimeGetTrigger, RuntimeGetTime, RuntimeGetScriptContainer,
	RuntimeGetExecutingScriptHash, RuntimeGetCallingScriptHash, RuntimeGetEntryScriptHash,
	RuntimeCheckWitness, RuntimeGetInvocationCounter, RuntimeLog, RuntimeNotify,
	RuntimeGetNotifications, RuntimeGasLeft, RuntimeBurnGas, RuntimeCurrentSigners,
	RuntimeGetNetwork, RuntimeGetRandom, RuntimeLoadScript,
	StorageGetContext, StorageGetReadOnlyContext, StorageAsReadOnly,
	StorageGet, StorageFind, StoragePut, StorageDelete,
	SystemBinarySerialize, SystemBinaryDeserialize,
	SystemBinaryBase64Encode, SystemBinaryBase64Decode,
	SystemBinaryBase58Encode, SystemBinaryBase58Decode,
	SystemBinaryItoa, SystemBinaryAtoi,
}

var errNotFound = errors.New("interopnames: unknown interop ID")

// ToID hashes name's method name into the 4-byte ID SYSCALL encodes.
func ToID(name []byte) uint32 {
	h := sha256.Sum256(name)
	return binary.LittleEndian.Uint32(h[:4])
}

// FromID reverses ToID against the known method list, for diagnostics
// (debug dumps, error messages) where only the ID is on hand.
func FromID(id uint32) (string, error) {
	for _, n := range names {
		if ToID([]byte(n)) == id {
			return n, nil
		}
	}
	return "", errNotFound
}
