package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/n3core/neogo/pkg/crypto/hash"
	"github.com/n3core/neogo/pkg/io"
	"github.com/n3core/neogo/pkg/util"
)

// Size and count bounds enforced while decoding a transaction off the wire.
const (
	// MaxTransactionSize is the upper bound on a transaction's full
	// (signed) wire encoding.
	MaxTransactionSize = 102400
	// MaxAttributes bounds how many attributes a transaction may carry.
	MaxAttributes = 16
	// MaxSigners bounds how many signers a transaction may carry; the
	// same cap the VM enforces on the number of distinct witness scopes
	// it is willing to evaluate per call.
	MaxSigners = 16
)

// ErrInvalidVersion is returned for a transaction version other than 0.
var ErrInvalidVersion = errors.New("transaction: invalid version")

// ErrNoSigners is returned for a transaction with an empty signer list.
var ErrNoSigners = errors.New("transaction: no signers")

// ErrTooManySigners is returned when a transaction names more signers than MaxSigners.
var ErrTooManySigners = errors.New("transaction: too many signers")

// ErrDuplicateSigner is returned for a transaction naming the same account twice.
var ErrDuplicateSigner = errors.New("transaction: duplicate signer")

// ErrTooManyAttributes is returned when a transaction names more attributes than MaxAttributes.
var ErrTooManyAttributes = errors.New("transaction: too many attributes")

// ErrDuplicateAttribute is returned when an attribute type other than
// Conflicts is repeated.
var ErrDuplicateAttribute = errors.New("transaction: duplicate attribute")

// ErrWitnessCountMismatch is returned when the number of witnesses does not
// equal the number of signers.
var ErrWitnessCountMismatch = errors.New("transaction: witness count does not match signer count")

// ErrTooLarge is returned when a transaction's encoded size exceeds MaxTransactionSize.
var ErrTooLarge = errors.New("transaction: size exceeds the maximum allowed")

// Transaction is a request to change the state of the system, carried from
// a sender to the chain via the mempool and ultimately a block. Everything
// up to and including Script forms the unsigned (hashed) portion; Scripts
// holds the witnesses proving each Signer authorized it.
type Transaction struct {
	// Version is the transaction format version, currently always 0.
	Version byte

	// Nonce is a random number to avoid hash collisions between otherwise
	// identical transactions.
	Nonce uint32

	// SystemFee is the maximum amount of GAS the transaction's script is
	// allowed to consume during execution, in minimal GAS units.
	SystemFee int64

	// NetworkFee is the fee paid to the network for including and
	// propagating the transaction, in minimal GAS units.
	NetworkFee int64

	// ValidUntilBlock is the height past which the transaction can no
	// longer be accepted.
	ValidUntilBlock uint32

	// Signers lists the accounts that authorize this transaction and the
	// scope under which each one's witness is trusted. The first signer
	// pays SystemFee and NetworkFee and is the entry scope's "calling
	// contract".
	Signers []Signer

	// Attributes carries the transaction's extra markers (HighPriority,
	// OracleResponse, NotValidBefore, Conflicts, NotaryAssisted).
	Attributes []Attribute

	// Script is the VM bytecode executed when the transaction is
	// included in a block.
	Script []byte

	// Scripts holds one Witness per Signer, in the same order, proving
	// that signer authorized the transaction.
	Scripts []Witness

	hash      util.Uint256
	hashValid bool
	size      int
}

// New creates a transaction with the given script and system fee, ready to
// have signers, attributes and a network fee attached before signing.
func New(script []byte, systemFee int64) *Transaction {
	return &Transaction{
		Version:   0,
		Script:    script,
		SystemFee: systemFee,
	}
}

// NewTrimmedTX returns a Transaction with only its hash set, the form used
// for reconstructing a block's transaction list from a trimmed on-disk
// record: the full bodies live under their own hash-keyed storage entries,
// so only the hash is needed to look them up.
func NewTrimmedTX(hash util.Uint256) *Transaction {
	return &Transaction{
		hash:      hash,
		hashValid: true,
	}
}

// NewTransactionFromBytes decodes a full (signed) transaction from b,
// rejecting any trailing garbage after the encoded fields.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	if len(b) > MaxTransactionSize {
		return nil, ErrTooLarge
	}
	tx := &Transaction{}
	r := io.NewBinReaderFromBuf(b)
	tx.DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	tx.size = len(b)
	return tx, nil
}

// Hash returns the transaction's hash, the hash of its unsigned fields.
// It is cached after the first call or a successful DecodeBinary; Signers,
// Attributes or Script must not be mutated afterwards without re-encoding.
func (t *Transaction) Hash() util.Uint256 {
	if !t.hashValid {
		t.createHash()
	}
	return t.hash
}

func (t *Transaction) createHash() {
	buf := io.NewBufBinWriter()
	t.encodeUnsigned(buf.BinWriter)
	t.hash = hash.Sha256(buf.Bytes())
	t.hashValid = true
}

// Size returns the transaction's full (signed) wire encoding size.
func (t *Transaction) Size() int {
	if t.size == 0 {
		t.size = len(t.Bytes())
	}
	return t.size
}

// Bytes returns the full (signed) wire encoding of the transaction.
func (t *Transaction) Bytes() []byte {
	buf := io.NewBufBinWriter()
	t.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		return nil
	}
	return buf.Bytes()
}

func (t *Transaction) encodeUnsigned(bw *io.BinWriter) {
	bw.WriteB(t.Version)
	bw.WriteU32LE(t.Nonce)
	bw.WriteU64LE(uint64(t.SystemFee))
	bw.WriteU64LE(uint64(t.NetworkFee))
	bw.WriteU32LE(t.ValidUntilBlock)

	bw.WriteVarUint(uint64(len(t.Signers)))
	for i := range t.Signers {
		t.Signers[i].EncodeBinary(bw)
	}

	bw.WriteVarUint(uint64(len(t.Attributes)))
	for i := range t.Attributes {
		t.Attributes[i].EncodeBinary(bw)
	}

	bw.WriteVarBytes(t.Script)
}

// EncodeBinary implements the io.Serializable interface.
func (t *Transaction) EncodeBinary(bw *io.BinWriter) {
	t.encodeUnsigned(bw)
	bw.WriteVarUint(uint64(len(t.Scripts)))
	for i := range t.Scripts {
		t.Scripts[i].EncodeBinary(bw)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (t *Transaction) DecodeBinary(br *io.BinReader) {
	t.Version = br.ReadB()
	t.Nonce = br.ReadU32LE()
	t.SystemFee = int64(br.ReadU64LE())
	t.NetworkFee = int64(br.ReadU64LE())
	t.ValidUntilBlock = br.ReadU32LE()
	if br.Err != nil {
		return
	}
	if t.Version != 0 {
		br.Err = ErrInvalidVersion
		return
	}

	signerCount := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if signerCount == 0 {
		br.Err = ErrNoSigners
		return
	}
	if signerCount > MaxSigners {
		br.Err = ErrTooManySigners
		return
	}
	signers := make([]Signer, signerCount)
	seenAccounts := make(map[util.Uint160]bool, signerCount)
	for i := range signers {
		signers[i].DecodeBinary(br)
		if br.Err != nil {
			return
		}
		if seenAccounts[signers[i].Account] {
			br.Err = ErrDuplicateSigner
			return
		}
		seenAccounts[signers[i].Account] = true
	}
	t.Signers = signers

	attrCount := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if attrCount > MaxAttributes {
		br.Err = ErrTooManyAttributes
		return
	}
	attrs := make([]Attribute, attrCount)
	seenTypes := make(map[AttrType]int, attrCount)
	for i := range attrs {
		attrs[i].DecodeBinary(br)
		if br.Err != nil {
			return
		}
		seenTypes[attrs[i].Type]++
		if attrs[i].Type != ConflictsT && seenTypes[attrs[i].Type] > 1 {
			br.Err = ErrDuplicateAttribute
			return
		}
	}
	t.Attributes = attrs

	t.Script = br.ReadVarBytes(MaxTransactionSize)
	if br.Err != nil {
		return
	}
	if len(t.Script) == 0 {
		br.Err = errors.New("transaction: empty script")
		return
	}

	scriptCount := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if scriptCount != signerCount {
		br.Err = ErrWitnessCountMismatch
		return
	}
	scripts := make([]Witness, scriptCount)
	for i := range scripts {
		scripts[i].DecodeBinary(br)
		if br.Err != nil {
			return
		}
	}
	t.Scripts = scripts

	t.createHash()
}

type transactionAux struct {
	Hash            util.Uint256 `json:"hash"`
	Size            int          `json:"size"`
	Version         byte         `json:"version"`
	Nonce           uint32       `json:"nonce"`
	Sender          util.Uint160 `json:"sender"`
	SystemFee       string       `json:"sysfee"`
	NetworkFee      string       `json:"netfee"`
	ValidUntilBlock uint32       `json:"validuntilblock"`
	Signers         []Signer     `json:"signers"`
	Attributes      []Attribute  `json:"attributes"`
	Script          []byte       `json:"script"`
	Scripts         []Witness    `json:"witnesses"`
}

// MarshalJSON implements the json.Marshaler interface.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	var sender util.Uint160
	if len(t.Signers) > 0 {
		sender = t.Signers[0].Account
	}
	return json.Marshal(transactionAux{
		Hash:            t.Hash(),
		Size:            t.Size(),
		Version:         t.Version,
		Nonce:           t.Nonce,
		Sender:          sender,
		SystemFee:       fmt.Sprintf("%d", t.SystemFee),
		NetworkFee:      fmt.Sprintf("%d", t.NetworkFee),
		ValidUntilBlock: t.ValidUntilBlock,
		Signers:         t.Signers,
		Attributes:      t.Attributes,
		Script:          t.Script,
		Scripts:         t.Scripts,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var aux transactionAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var sysFee, netFee int64
	if _, err := fmt.Sscanf(aux.SystemFee, "%d", &sysFee); err != nil {
		return fmt.Errorf("transaction: invalid sysfee: %w", err)
	}
	if _, err := fmt.Sscanf(aux.NetworkFee, "%d", &netFee); err != nil {
		return fmt.Errorf("transaction: invalid netfee: %w", err)
	}
	t.Version = aux.Version
	t.Nonce = aux.Nonce
	t.SystemFee = sysFee
	t.NetworkFee = netFee
	t.ValidUntilBlock = aux.ValidUntilBlock
	t.Signers = aux.Signers
	t.Attributes = aux.Attributes
	t.Script = aux.Script
	t.Scripts = aux.Scripts
	t.hashValid = false
	if !aux.Hash.Equals(util.Uint256{}) && !aux.Hash.Equals(t.Hash()) {
		return errors.New("transaction: json 'hash' doesn't match computed hash")
	}
	return nil
}

// Copy returns a duplicate of t with independently-owned slice fields.
func (t *Transaction) Copy() *Transaction {
	cp := &Transaction{
		Version:         t.Version,
		Nonce:           t.Nonce,
		SystemFee:       t.SystemFee,
		NetworkFee:      t.NetworkFee,
		ValidUntilBlock: t.ValidUntilBlock,
		Script:          append([]byte(nil), t.Script...),
		hash:            t.hash,
		hashValid:       t.hashValid,
		size:            t.size,
	}
	cp.Signers = append([]Signer(nil), t.Signers...)
	cp.Attributes = append([]Attribute(nil), t.Attributes...)
	for _, w := range t.Scripts {
		cp.Scripts = append(cp.Scripts, w.Copy())
	}
	return cp
}

// HasAttribute reports whether t carries at least one attribute of type typ.
func (t *Transaction) HasAttribute(typ AttrType) bool {
	for i := range t.Attributes {
		if t.Attributes[i].Type == typ {
			return true
		}
	}
	return false
}

// GetAttributes returns every attribute of type typ, in order. Used to walk
// repeatable attribute kinds like Conflicts.
func (t *Transaction) GetAttributes(typ AttrType) []Attribute {
	var res []Attribute
	for i := range t.Attributes {
		if t.Attributes[i].Type == typ {
			res = append(res, t.Attributes[i])
		}
	}
	return res
}
