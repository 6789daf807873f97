package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/n3core/neogo/pkg/crypto/keys"
	"github.com/n3core/neogo/pkg/io"
	"github.com/n3core/neogo/pkg/util"
)

// maxSubitems bounds the number of operands an And/Or condition may carry;
// maxConditionNestingDepth bounds how many levels of Not/And/Or may nest
// inside one another. Both guard against a witness rule crafted to blow
// the verification stack.
const (
	maxSubitems              = 16
	maxConditionNestingDepth = 2
)

// WitnessConditionType tags the variant of a WitnessCondition.
type WitnessConditionType byte

// Witness condition type values, matching the NeoVM WitnessConditionType enum.
const (
	BooleanConditionT          WitnessConditionType = 0x00
	NotConditionT              WitnessConditionType = 0x01
	AndConditionT              WitnessConditionType = 0x02
	OrConditionT               WitnessConditionType = 0x03
	ScriptHashConditionT       WitnessConditionType = 0x18
	GroupConditionT            WitnessConditionType = 0x19
	CalledByEntryConditionT    WitnessConditionType = 0x20
	CalledByContractConditionT WitnessConditionType = 0x28
	CalledByGroupConditionT    WitnessConditionType = 0x29
)

var conditionTypeNames = map[WitnessConditionType]string{
	BooleanConditionT:          "Boolean",
	NotConditionT:              "Not",
	AndConditionT:              "And",
	OrConditionT:               "Or",
	ScriptHashConditionT:       "ScriptHash",
	GroupConditionT:            "Group",
	CalledByEntryConditionT:    "CalledByEntry",
	CalledByContractConditionT: "CalledByContract",
	CalledByGroupConditionT:    "CalledByGroup",
}

// String renders the type's canonical name.
func (t WitnessConditionType) String() string {
	if n, ok := conditionTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", byte(t))
}

// MatchContext is the subset of ApplicationEngine call-stack state a
// WitnessCondition needs to evaluate itself against.
type MatchContext interface {
	GetCallingScriptHash() util.Uint160
	GetCurrentScriptHash() util.Uint160
	GetEntryScriptHash() util.Uint160
	CallingScriptHasGroup(k *keys.PublicKey) (bool, error)
	CurrentScriptHasGroup(k *keys.PublicKey) (bool, error)
}

// WitnessCondition is a single node of the boolean expression tree attached
// to a WitnessRule.
type WitnessCondition interface {
	Type() WitnessConditionType
	Match(ctx MatchContext) (bool, error)
	EncodeBinary(w *io.BinWriter)
	DecodeBinarySpecific(r *io.BinReader, maxDepth int)
	MarshalJSON() ([]byte, error)
}

func newConditionByType(t WitnessConditionType) WitnessCondition {
	switch t {
	case BooleanConditionT:
		var b bool
		return (*ConditionBoolean)(&b)
	case NotConditionT:
		return &ConditionNot{}
	case AndConditionT:
		return &ConditionAnd{}
	case OrConditionT:
		return &ConditionOr{}
	case ScriptHashConditionT:
		return &ConditionScriptHash{}
	case GroupConditionT:
		return &ConditionGroup{}
	case CalledByEntryConditionT:
		return ConditionCalledByEntry{}
	case CalledByContractConditionT:
		return &ConditionCalledByContract{}
	case CalledByGroupConditionT:
		return &ConditionCalledByGroup{}
	default:
		return nil
	}
}

// DecodeBinaryCondition reads one WitnessCondition tree from r, enforcing
// maxConditionNestingDepth. It returns nil and sets r.Err on any failure.
func DecodeBinaryCondition(r *io.BinReader) WitnessCondition {
	return decodeBinaryCondition(r, maxConditionNestingDepth)
}

func decodeBinaryCondition(r *io.BinReader, maxDepth int) WitnessCondition {
	if r.Err != nil {
		return nil
	}
	if maxDepth < 0 {
		r.Err = errors.New("transaction: witness condition nested too deep")
		return nil
	}
	typ := WitnessConditionType(r.ReadU8())
	if r.Err != nil {
		return nil
	}
	c := newConditionByType(typ)
	if c == nil {
		r.Err = fmt.Errorf("transaction: unknown witness condition type %d", typ)
		return nil
	}
	c.DecodeBinarySpecific(r, maxDepth)
	if r.Err != nil {
		return nil
	}
	return c
}

// conditionAux is the JSON wire shape shared by every condition variant;
// only the fields relevant to a given Type are populated.
type conditionAux struct {
	Type        string            `json:"type"`
	Expression  json.RawMessage   `json:"expression,omitempty"`
	Expressions []json.RawMessage `json:"expressions,omitempty"`
	Hash        *util.Uint160     `json:"hash,omitempty"`
	Group       *keys.PublicKey   `json:"group,omitempty"`
}

// UnmarshalConditionJSON parses data into the concrete WitnessCondition its
// "type" field names.
func UnmarshalConditionJSON(data []byte) (WitnessCondition, error) {
	var aux conditionAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, err
	}
	switch aux.Type {
	case "Boolean":
		if len(aux.Expression) == 0 {
			return nil, errors.New("transaction: Boolean condition missing expression")
		}
		var b bool
		if err := json.Unmarshal(aux.Expression, &b); err != nil {
			return nil, err
		}
		return (*ConditionBoolean)(&b), nil
	case "Not":
		if len(aux.Expression) == 0 {
			return nil, errors.New("transaction: Not condition missing expression")
		}
		inner, err := UnmarshalConditionJSON(aux.Expression)
		if err != nil {
			return nil, err
		}
		return &ConditionNot{inner}, nil
	case "And", "Or":
		if aux.Expressions == nil {
			return nil, fmt.Errorf("transaction: %s condition missing expressions", aux.Type)
		}
		if len(aux.Expressions) == 0 || len(aux.Expressions) > maxSubitems {
			return nil, fmt.Errorf("transaction: %s condition has %d expressions", aux.Type, len(aux.Expressions))
		}
		conds := make([]WitnessCondition, len(aux.Expressions))
		for i, raw := range aux.Expressions {
			c, err := UnmarshalConditionJSON(raw)
			if err != nil {
				return nil, err
			}
			conds[i] = c
		}
		if aux.Type == "And" {
			r := ConditionAnd(conds)
			return &r, nil
		}
		r := ConditionOr(conds)
		return &r, nil
	case "ScriptHash":
		if aux.Hash == nil {
			return nil, errors.New("transaction: ScriptHash condition missing hash")
		}
		return (*ConditionScriptHash)(aux.Hash), nil
	case "Group":
		if aux.Group == nil {
			return nil, errors.New("transaction: Group condition missing group")
		}
		return (*ConditionGroup)(aux.Group), nil
	case "CalledByEntry":
		return ConditionCalledByEntry{}, nil
	case "CalledByContract":
		if aux.Hash == nil {
			return nil, errors.New("transaction: CalledByContract condition missing hash")
		}
		return (*ConditionCalledByContract)(aux.Hash), nil
	case "CalledByGroup":
		if aux.Group == nil {
			return nil, errors.New("transaction: CalledByGroup condition missing group")
		}
		return (*ConditionCalledByGroup)(aux.Group), nil
	default:
		return nil, fmt.Errorf("transaction: unknown witness condition type %q", aux.Type)
	}
}

// ConditionBoolean is a constant true/false leaf, used mostly in tests and
// as the trivial building block of composite conditions.
type ConditionBoolean bool

// Type implements WitnessCondition.
func (c *ConditionBoolean) Type() WitnessConditionType { return BooleanConditionT }

// Match implements WitnessCondition.
func (c *ConditionBoolean) Match(MatchContext) (bool, error) { return bool(*c), nil }

// EncodeBinary implements WitnessCondition.
func (c *ConditionBoolean) EncodeBinary(w *io.BinWriter) {
	w.WriteU8(byte(c.Type()))
	w.WriteBool(bool(*c))
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionBoolean) DecodeBinarySpecific(r *io.BinReader, _ int) {
	*c = ConditionBoolean(r.ReadBool())
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionBoolean) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionAux{Type: c.Type().String(), Expression: mustRaw(bool(*c))})
}

// ConditionNot negates its single operand.
type ConditionNot struct {
	Condition WitnessCondition
}

// Type implements WitnessCondition.
func (c *ConditionNot) Type() WitnessConditionType { return NotConditionT }

// Match implements WitnessCondition.
func (c *ConditionNot) Match(ctx MatchContext) (bool, error) {
	res, err := c.Condition.Match(ctx)
	if err != nil {
		return false, err
	}
	return !res, nil
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionNot) EncodeBinary(w *io.BinWriter) {
	w.WriteU8(byte(c.Type()))
	c.Condition.EncodeBinary(w)
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionNot) DecodeBinarySpecific(r *io.BinReader, maxDepth int) {
	c.Condition = decodeBinaryCondition(r, maxDepth-1)
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionNot) MarshalJSON() ([]byte, error) {
	inner, err := c.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionAux{Type: c.Type().String(), Expression: inner})
}

// ConditionAnd requires all of its operands to match.
type ConditionAnd []WitnessCondition

// Type implements WitnessCondition.
func (c *ConditionAnd) Type() WitnessConditionType { return AndConditionT }

// Match implements WitnessCondition.
func (c *ConditionAnd) Match(ctx MatchContext) (bool, error) {
	for _, sub := range *c {
		res, err := sub.Match(ctx)
		if err != nil {
			return false, err
		}
		if !res {
			return false, nil
		}
	}
	return true, nil
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionAnd) EncodeBinary(w *io.BinWriter) {
	w.WriteU8(byte(c.Type()))
	w.WriteVarUint(uint64(len(*c)))
	for _, sub := range *c {
		sub.EncodeBinary(w)
	}
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionAnd) DecodeBinarySpecific(r *io.BinReader, maxDepth int) {
	decodeConditionList((*[]WitnessCondition)(c), r, maxDepth)
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionAnd) MarshalJSON() ([]byte, error) {
	raw, err := marshalConditionList(*c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionAux{Type: c.Type().String(), Expressions: raw})
}

// ConditionOr requires at least one of its operands to match.
type ConditionOr []WitnessCondition

// Type implements WitnessCondition.
func (c *ConditionOr) Type() WitnessConditionType { return OrConditionT }

// Match implements WitnessCondition.
func (c *ConditionOr) Match(ctx MatchContext) (bool, error) {
	for _, sub := range *c {
		res, err := sub.Match(ctx)
		if err != nil {
			return false, err
		}
		if res {
			return true, nil
		}
	}
	return false, nil
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionOr) EncodeBinary(w *io.BinWriter) {
	w.WriteU8(byte(c.Type()))
	w.WriteVarUint(uint64(len(*c)))
	for _, sub := range *c {
		sub.EncodeBinary(w)
	}
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionOr) DecodeBinarySpecific(r *io.BinReader, maxDepth int) {
	decodeConditionList((*[]WitnessCondition)(c), r, maxDepth)
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionOr) MarshalJSON() ([]byte, error) {
	raw, err := marshalConditionList(*c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionAux{Type: c.Type().String(), Expressions: raw})
}

func decodeConditionList(dst *[]WitnessCondition, r *io.BinReader, maxDepth int) {
	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if n == 0 || n > maxSubitems {
		r.Err = fmt.Errorf("transaction: invalid witness condition subitem count %d", n)
		return
	}
	items := make([]WitnessCondition, n)
	for i := range items {
		items[i] = decodeBinaryCondition(r, maxDepth-1)
		if r.Err != nil {
			return
		}
	}
	*dst = items
}

func marshalConditionList(items []WitnessCondition) ([]json.RawMessage, error) {
	raw := make([]json.RawMessage, len(items))
	for i, it := range items {
		b, err := it.MarshalJSON()
		if err != nil {
			return nil, err
		}
		raw[i] = b
	}
	return raw, nil
}

// ConditionScriptHash matches when the current executing script is hash.
type ConditionScriptHash util.Uint160

// Type implements WitnessCondition.
func (c *ConditionScriptHash) Type() WitnessConditionType { return ScriptHashConditionT }

// Match implements WitnessCondition.
func (c *ConditionScriptHash) Match(ctx MatchContext) (bool, error) {
	return ctx.GetCurrentScriptHash().Equals(util.Uint160(*c)), nil
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionScriptHash) EncodeBinary(w *io.BinWriter) {
	w.WriteU8(byte(c.Type()))
	w.WriteBytes(util.Uint160(*c).BytesBE())
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionScriptHash) DecodeBinarySpecific(r *io.BinReader, _ int) {
	b := make([]byte, util.Uint160Size)
	r.ReadBytes(b)
	if r.Err != nil {
		return
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		r.Err = err
		return
	}
	*c = ConditionScriptHash(u)
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionScriptHash) MarshalJSON() ([]byte, error) {
	h := util.Uint160(*c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Hash: &h})
}

// ConditionGroup matches when the currently executing contract belongs to
// the given group (public key).
type ConditionGroup keys.PublicKey

// Type implements WitnessCondition.
func (c *ConditionGroup) Type() WitnessConditionType { return GroupConditionT }

// Match implements WitnessCondition.
func (c *ConditionGroup) Match(ctx MatchContext) (bool, error) {
	return ctx.CurrentScriptHasGroup((*keys.PublicKey)(c))
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteU8(byte(c.Type()))
	w.WriteBytes((*keys.PublicKey)(c).Bytes())
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionGroup) DecodeBinarySpecific(r *io.BinReader, _ int) {
	b := make([]byte, 33)
	r.ReadBytes(b)
	if r.Err != nil {
		return
	}
	var pub keys.PublicKey
	if err := pub.DecodeBytes(b); err != nil {
		r.Err = err
		return
	}
	*c = ConditionGroup(pub)
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionGroup) MarshalJSON() ([]byte, error) {
	pub := (*keys.PublicKey)(c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Group: pub})
}

// ConditionCalledByEntry matches when the entry script is the direct or
// sole caller of the current context.
type ConditionCalledByEntry struct{}

// Type implements WitnessCondition.
func (c ConditionCalledByEntry) Type() WitnessConditionType { return CalledByEntryConditionT }

// Match implements WitnessCondition.
func (c ConditionCalledByEntry) Match(ctx MatchContext) (bool, error) {
	calling := ctx.GetCallingScriptHash()
	if calling.IsZero() {
		return ctx.GetCurrentScriptHash().Equals(ctx.GetEntryScriptHash()), nil
	}
	return calling.Equals(ctx.GetEntryScriptHash()), nil
}

// EncodeBinary implements WitnessCondition.
func (c ConditionCalledByEntry) EncodeBinary(w *io.BinWriter) {
	w.WriteU8(byte(c.Type()))
}

// DecodeBinarySpecific implements WitnessCondition.
func (c ConditionCalledByEntry) DecodeBinarySpecific(*io.BinReader, int) {}

// MarshalJSON implements WitnessCondition.
func (c ConditionCalledByEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionAux{Type: c.Type().String()})
}

// ConditionCalledByContract matches when hash is the direct caller of the
// current context.
type ConditionCalledByContract util.Uint160

// Type implements WitnessCondition.
func (c *ConditionCalledByContract) Type() WitnessConditionType { return CalledByContractConditionT }

// Match implements WitnessCondition.
func (c *ConditionCalledByContract) Match(ctx MatchContext) (bool, error) {
	return ctx.GetCallingScriptHash().Equals(util.Uint160(*c)), nil
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionCalledByContract) EncodeBinary(w *io.BinWriter) {
	w.WriteU8(byte(c.Type()))
	w.WriteBytes(util.Uint160(*c).BytesBE())
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionCalledByContract) DecodeBinarySpecific(r *io.BinReader, _ int) {
	b := make([]byte, util.Uint160Size)
	r.ReadBytes(b)
	if r.Err != nil {
		return
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		r.Err = err
		return
	}
	*c = ConditionCalledByContract(u)
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionCalledByContract) MarshalJSON() ([]byte, error) {
	h := util.Uint160(*c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Hash: &h})
}

// ConditionCalledByGroup matches when the direct caller of the current
// context belongs to the given group.
type ConditionCalledByGroup keys.PublicKey

// Type implements WitnessCondition.
func (c *ConditionCalledByGroup) Type() WitnessConditionType { return CalledByGroupConditionT }

// Match implements WitnessCondition.
func (c *ConditionCalledByGroup) Match(ctx MatchContext) (bool, error) {
	return ctx.CallingScriptHasGroup((*keys.PublicKey)(c))
}

// EncodeBinary implements WitnessCondition.
func (c *ConditionCalledByGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteU8(byte(c.Type()))
	w.WriteBytes((*keys.PublicKey)(c).Bytes())
}

// DecodeBinarySpecific implements WitnessCondition.
func (c *ConditionCalledByGroup) DecodeBinarySpecific(r *io.BinReader, _ int) {
	b := make([]byte, 33)
	r.ReadBytes(b)
	if r.Err != nil {
		return
	}
	var pub keys.PublicKey
	if err := pub.DecodeBytes(b); err != nil {
		r.Err = err
		return
	}
	*c = ConditionCalledByGroup(pub)
}

// MarshalJSON implements WitnessCondition.
func (c *ConditionCalledByGroup) MarshalJSON() ([]byte, error) {
	pub := (*keys.PublicKey)(c)
	return json.Marshal(conditionAux{Type: c.Type().String(), Group: pub})
}

func mustRaw(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
