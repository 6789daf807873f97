package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/n3core/neogo/pkg/io"
	"github.com/n3core/neogo/pkg/util"
)

// AttrType tags the variant of a transaction Attribute.
type AttrType byte

// Attribute type values. The reserved range lets experimental attribute
// kinds round-trip without the node rejecting the transaction outright.
const (
	HighPriority    AttrType = 0x01
	OracleResponseT AttrType = 0x11
	NotValidBeforeT AttrType = 0x20
	ConflictsT      AttrType = 0x21
	NotaryAssistedT AttrType = 0x22

	ReservedLowerBound AttrType = 0xe0
	ReservedUpperBound AttrType = 0xff
)

func (t AttrType) String() string {
	switch t {
	case HighPriority:
		return "HighPriority"
	case OracleResponseT:
		return "OracleResponse"
	case NotValidBeforeT:
		return "NotValidBefore"
	case ConflictsT:
		return "Conflicts"
	case NotaryAssistedT:
		return "NotaryAssisted"
	default:
		if t >= ReservedLowerBound {
			return fmt.Sprintf("Reserved%d", t)
		}
		return fmt.Sprintf("AttrType(%d)", byte(t))
	}
}

func attrTypeFromString(s string) (AttrType, error) {
	switch s {
	case "HighPriority":
		return HighPriority, nil
	case "OracleResponse":
		return OracleResponseT, nil
	case "NotValidBefore":
		return NotValidBeforeT, nil
	case "Conflicts":
		return ConflictsT, nil
	case "NotaryAssisted":
		return NotaryAssistedT, nil
	default:
		return 0, fmt.Errorf("transaction: unknown attribute type %q", s)
	}
}

// AttributeValue is the type-specific payload an Attribute carries; it is
// nil for types (like HighPriority) that carry no payload.
type AttributeValue interface {
	EncodeBinary(w *io.BinWriter)
	DecodeBinary(r *io.BinReader)
}

// Attribute is one extra marker a transaction's sender attaches, read by
// the mempool and native contracts during verification.
type Attribute struct {
	Type  AttrType
	Value AttributeValue
}

func isKnownAttrType(t AttrType) bool {
	switch t {
	case HighPriority, OracleResponseT, NotValidBeforeT, ConflictsT, NotaryAssistedT:
		return true
	}
	return t >= ReservedLowerBound && t <= ReservedUpperBound
}

// EncodeBinary implements the io.Serializable interface.
func (a *Attribute) EncodeBinary(w *io.BinWriter) {
	if !isKnownAttrType(a.Type) {
		w.Err = fmt.Errorf("transaction: unknown attribute type %d", a.Type)
		return
	}
	w.WriteB(byte(a.Type))
	if a.Value != nil {
		a.Value.EncodeBinary(w)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (a *Attribute) DecodeBinary(r *io.BinReader) {
	typ := AttrType(r.ReadB())
	if r.Err != nil {
		return
	}
	if !isKnownAttrType(typ) {
		r.Err = fmt.Errorf("transaction: unknown attribute type %d", typ)
		return
	}
	a.Type = typ
	switch {
	case typ == HighPriority:
		a.Value = nil
	case typ == OracleResponseT:
		v := &OracleResponse{}
		v.DecodeBinary(r)
		a.Value = v
	case typ == NotValidBeforeT:
		v := &NotValidBefore{}
		v.DecodeBinary(r)
		a.Value = v
	case typ == ConflictsT:
		v := &Conflicts{}
		v.DecodeBinary(r)
		a.Value = v
	case typ == NotaryAssistedT:
		v := &NotaryAssisted{}
		v.DecodeBinary(r)
		a.Value = v
	default:
		v := &Reserved{}
		v.DecodeBinary(r)
		a.Value = v
	}
}

type attributeAux struct {
	Type   string              `json:"type"`
	ID     *uint64             `json:"id,omitempty"`
	Code   *OracleResponseCode `json:"code,omitempty"`
	Result []byte              `json:"result,omitempty"`
	Height *uint32             `json:"height,omitempty"`
	Hash   *util.Uint256       `json:"hash,omitempty"`
	NKeys  *byte               `json:"nkeys,omitempty"`
	Value  []byte              `json:"value,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (a *Attribute) MarshalJSON() ([]byte, error) {
	aux := attributeAux{Type: a.Type.String()}
	switch v := a.Value.(type) {
	case *OracleResponse:
		aux.ID = &v.ID
		aux.Code = &v.Code
		aux.Result = v.Result
	case *NotValidBefore:
		aux.Height = &v.Height
	case *Conflicts:
		aux.Hash = &v.Hash
	case *NotaryAssisted:
		aux.NKeys = &v.NKeys
	case *Reserved:
		aux.Value = v.Value
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var aux attributeAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	typ, err := attrTypeFromString(aux.Type)
	if err != nil {
		return err
	}
	a.Type = typ
	switch typ {
	case HighPriority:
		a.Value = nil
	case OracleResponseT:
		if aux.ID == nil || aux.Code == nil {
			return errors.New("transaction: OracleResponse attribute missing fields")
		}
		a.Value = &OracleResponse{ID: *aux.ID, Code: *aux.Code, Result: aux.Result}
	case NotValidBeforeT:
		if aux.Height == nil {
			return errors.New("transaction: NotValidBefore attribute missing height")
		}
		a.Value = &NotValidBefore{Height: *aux.Height}
	case ConflictsT:
		if aux.Hash == nil {
			return errors.New("transaction: Conflicts attribute missing hash")
		}
		a.Value = &Conflicts{Hash: *aux.Hash}
	case NotaryAssistedT:
		if aux.NKeys == nil {
			return errors.New("transaction: NotaryAssisted attribute missing nkeys")
		}
		a.Value = &NotaryAssisted{NKeys: *aux.NKeys}
	default:
		a.Value = &Reserved{Value: aux.Value}
	}
	return nil
}

// OracleResponseCode is the status an oracle service returns alongside its
// response payload.
type OracleResponseCode byte

// Oracle response code values.
const (
	Success              OracleResponseCode = 0x00
	ProtocolNotSupported OracleResponseCode = 0x10
	ConsensusUnreachable OracleResponseCode = 0x12
	NotFound             OracleResponseCode = 0x14
	Timeout              OracleResponseCode = 0x16
	Forbidden            OracleResponseCode = 0x18
	ResponseTooLarge     OracleResponseCode = 0x1a
	InsufficientFunds    OracleResponseCode = 0x1c
	Error                OracleResponseCode = 0xff
)

var oracleResponseCodeNames = map[OracleResponseCode]string{
	Success:              "Success",
	ProtocolNotSupported: "ProtocolNotSupported",
	ConsensusUnreachable: "ConsensusUnreachable",
	NotFound:             "NotFound",
	Timeout:              "Timeout",
	Forbidden:            "Forbidden",
	ResponseTooLarge:     "ResponseTooLarge",
	InsufficientFunds:    "InsufficientFunds",
	Error:                "Error",
}

func (c OracleResponseCode) String() string {
	if n, ok := oracleResponseCodeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("OracleResponseCode(%d)", byte(c))
}

// MarshalJSON implements the json.Marshaler interface.
func (c OracleResponseCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *OracleResponseCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for code, name := range oracleResponseCodeNames {
		if name == s {
			*c = code
			return nil
		}
	}
	return fmt.Errorf("transaction: unknown oracle response code %q", s)
}

const maxOracleResultSize = 0xffff

// ErrInvalidResponseCode is returned when an OracleResponse carries a code
// outside the known OracleResponseCode set.
var ErrInvalidResponseCode = errors.New("transaction: invalid oracle response code")

// ErrInvalidResult is returned when an OracleResponse with a non-Success
// code carries a non-empty result.
var ErrInvalidResult = errors.New("transaction: oracle response result must be empty for a non-success code")

// OracleResponse carries the result a designated oracle node returns for a
// previously requested OracleRequest, keyed by request ID.
type OracleResponse struct {
	ID     uint64
	Code   OracleResponseCode
	Result []byte
}

// EncodeBinary implements the AttributeValue interface.
func (o *OracleResponse) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(o.ID)
	w.WriteB(byte(o.Code))
	w.WriteVarBytes(o.Result)
}

// DecodeBinary implements the AttributeValue interface.
func (o *OracleResponse) DecodeBinary(r *io.BinReader) {
	o.ID = r.ReadU64LE()
	o.Code = OracleResponseCode(r.ReadB())
	o.Result = r.ReadVarBytes(maxOracleResultSize)
	if r.Err != nil {
		return
	}
	if _, ok := oracleResponseCodeNames[o.Code]; !ok {
		r.Err = ErrInvalidResponseCode
		return
	}
	if o.Code != Success && len(o.Result) != 0 {
		r.Err = ErrInvalidResult
		return
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (o *OracleResponse) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, 3)
	o.toJSONMap(m)
	return json.Marshal(m)
}

func (o *OracleResponse) toJSONMap(m map[string]interface{}) {
	m["id"] = o.ID
	m["code"] = o.Code.String()
	m["result"] = o.Result
}

// NotValidBefore rejects a transaction from the mempool/chain until the
// chain reaches the given height.
type NotValidBefore struct {
	Height uint32
}

// EncodeBinary implements the AttributeValue interface.
func (n *NotValidBefore) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(n.Height)
}

// DecodeBinary implements the AttributeValue interface.
func (n *NotValidBefore) DecodeBinary(r *io.BinReader) {
	n.Height = r.ReadU32LE()
}

// Conflicts names another transaction hash that must not also be accepted;
// including the conflicting transaction bumps priority over it.
type Conflicts struct {
	Hash util.Uint256
}

// EncodeBinary implements the AttributeValue interface.
func (c *Conflicts) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(c.Hash.BytesBE())
}

// DecodeBinary implements the AttributeValue interface.
func (c *Conflicts) DecodeBinary(r *io.BinReader) {
	b := make([]byte, util.Uint256Size)
	r.ReadBytes(b)
	if r.Err != nil {
		return
	}
	u, err := util.Uint256DecodeBytesBE(b)
	if err != nil {
		r.Err = err
		return
	}
	c.Hash = u
}

// NotaryAssisted records how many extra signatures the Notary native
// contract must collect on this transaction's behalf.
type NotaryAssisted struct {
	NKeys byte
}

// EncodeBinary implements the AttributeValue interface.
func (n *NotaryAssisted) EncodeBinary(w *io.BinWriter) {
	w.WriteB(n.NKeys)
}

// DecodeBinary implements the AttributeValue interface.
func (n *NotaryAssisted) DecodeBinary(r *io.BinReader) {
	n.NKeys = r.ReadB()
}

// Reserved holds the opaque payload of an attribute type in the reserved
// range, preserved verbatim for forward compatibility.
type Reserved struct {
	Value []byte
}

const maxReservedValueSize = 0xffff

// EncodeBinary implements the AttributeValue interface.
func (r *Reserved) EncodeBinary(w *io.BinWriter) {
	w.WriteVarBytes(r.Value)
}

// DecodeBinary implements the AttributeValue interface.
func (r *Reserved) DecodeBinary(br *io.BinReader) {
	r.Value = br.ReadVarBytes(maxReservedValueSize)
}
