package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/n3core/neogo/pkg/crypto/keys"
	"github.com/n3core/neogo/pkg/io"
	"github.com/n3core/neogo/pkg/vm/stackitem"
)

// WitnessAction is the verdict a WitnessRule applies once its Condition
// matches.
type WitnessAction byte

// Witness action values.
const (
	WitnessDeny  WitnessAction = 0
	WitnessAllow WitnessAction = 1
)

// Stack item type bytes used to tag a WitnessCondition's ToStackItem array,
// one per WitnessConditionType.
const (
	WitnessBoolean          = byte(BooleanConditionT)
	WitnessNot              = byte(NotConditionT)
	WitnessAnd              = byte(AndConditionT)
	WitnessOr               = byte(OrConditionT)
	WitnessScriptHash       = byte(ScriptHashConditionT)
	WitnessGroup            = byte(GroupConditionT)
	WitnessCalledByEntry    = byte(CalledByEntryConditionT)
	WitnessCalledByContract = byte(CalledByContractConditionT)
	WitnessCalledByGroup    = byte(CalledByGroupConditionT)
)

func (a WitnessAction) String() string {
	switch a {
	case WitnessDeny:
		return "Deny"
	case WitnessAllow:
		return "Allow"
	default:
		return fmt.Sprintf("WitnessAction(%d)", byte(a))
	}
}

func witnessActionFromString(s string) (WitnessAction, error) {
	switch s {
	case "Deny":
		return WitnessDeny, nil
	case "Allow":
		return WitnessAllow, nil
	default:
		return 0, fmt.Errorf("transaction: unknown witness action %q", s)
	}
}

// WitnessRule pairs a boolean condition with the action (Allow/Deny) to
// apply when it matches; a Signer's Rules scope carries a list of these.
type WitnessRule struct {
	Action    WitnessAction
	Condition WitnessCondition
}

// EncodeBinary implements the io.Serializable interface.
func (r *WitnessRule) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(r.Action))
	r.Condition.EncodeBinary(w)
}

// DecodeBinary implements the io.Serializable interface.
func (r *WitnessRule) DecodeBinary(br *io.BinReader) {
	action := WitnessAction(br.ReadB())
	if br.Err != nil {
		return
	}
	if action != WitnessDeny && action != WitnessAllow {
		br.Err = fmt.Errorf("transaction: unknown witness action %d", action)
		return
	}
	r.Action = action
	r.Condition = DecodeBinaryCondition(br)
}

type witnessRuleAux struct {
	Action    string          `json:"action"`
	Condition json.RawMessage `json:"condition"`
}

// MarshalJSON implements the json.Marshaler interface.
func (r *WitnessRule) MarshalJSON() ([]byte, error) {
	cond, err := r.Condition.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(witnessRuleAux{Action: r.Action.String(), Condition: cond})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *WitnessRule) UnmarshalJSON(data []byte) error {
	var aux witnessRuleAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	action, err := witnessActionFromString(aux.Action)
	if err != nil {
		return err
	}
	if len(aux.Condition) == 0 {
		return errors.New("transaction: witness rule missing condition")
	}
	cond, err := UnmarshalConditionJSON(aux.Condition)
	if err != nil {
		return err
	}
	r.Action = action
	r.Condition = cond
	return nil
}

// ToStackItem renders r as the [action, condition] array a contract sees
// through the Policy/Ledger native's CheckWitness helpers.
func (r *WitnessRule) ToStackItem() stackitem.Item {
	return stackitem.NewArray([]stackitem.Item{
		stackitem.Make(int64(r.Action)),
		conditionToStackItem(r.Condition),
	})
}

// Copy returns a duplicate of r with an independently-owned Condition tree.
func (r *WitnessRule) Copy() *WitnessRule {
	return &WitnessRule{
		Action:    r.Action,
		Condition: copyCondition(r.Condition),
	}
}

func copyCondition(c WitnessCondition) WitnessCondition {
	switch t := c.(type) {
	case *ConditionBoolean:
		b := *t
		return &b
	case *ConditionNot:
		return &ConditionNot{copyCondition(t.Condition)}
	case *ConditionAnd:
		cp := make(ConditionAnd, len(*t))
		for i, sub := range *t {
			cp[i] = copyCondition(sub)
		}
		return &cp
	case *ConditionOr:
		cp := make(ConditionOr, len(*t))
		for i, sub := range *t {
			cp[i] = copyCondition(sub)
		}
		return &cp
	case *ConditionScriptHash:
		h := *t
		return &h
	case *ConditionGroup:
		g := *t
		return &g
	case ConditionCalledByEntry:
		return t
	case *ConditionCalledByContract:
		h := *t
		return &h
	case *ConditionCalledByGroup:
		g := *t
		return &g
	default:
		return c
	}
}

func conditionToStackItem(c WitnessCondition) stackitem.Item {
	switch t := c.(type) {
	case *ConditionBoolean:
		return stackitem.NewArray([]stackitem.Item{
			stackitem.Make(WitnessBoolean),
			stackitem.Make(bool(*t)),
		})
	case *ConditionNot:
		return stackitem.NewArray([]stackitem.Item{
			stackitem.Make(WitnessNot),
			conditionToStackItem(t.Condition),
		})
	case *ConditionAnd:
		return stackitem.NewArray([]stackitem.Item{
			stackitem.Make(WitnessAnd),
			stackitem.Make(subConditionItems(*t)),
		})
	case *ConditionOr:
		return stackitem.NewArray([]stackitem.Item{
			stackitem.Make(WitnessOr),
			stackitem.Make(subConditionItems(*t)),
		})
	case *ConditionScriptHash:
		return stackitem.NewArray([]stackitem.Item{
			stackitem.Make(WitnessScriptHash),
			stackitem.Make(t[:]),
		})
	case *ConditionGroup:
		return stackitem.NewArray([]stackitem.Item{
			stackitem.Make(WitnessGroup),
			stackitem.Make((*keys.PublicKey)(t).Bytes()),
		})
	case ConditionCalledByEntry:
		return stackitem.NewArray([]stackitem.Item{
			stackitem.Make(WitnessCalledByEntry),
		})
	case *ConditionCalledByContract:
		return stackitem.NewArray([]stackitem.Item{
			stackitem.Make(WitnessCalledByContract),
			stackitem.Make(t[:]),
		})
	case *ConditionCalledByGroup:
		return stackitem.NewArray([]stackitem.Item{
			stackitem.Make(WitnessCalledByGroup),
			stackitem.Make((*keys.PublicKey)(t).Bytes()),
		})
	default:
		panic(fmt.Sprintf("transaction: %T has no stack item representation", c))
	}
}

func subConditionItems(conds []WitnessCondition) []stackitem.Item {
	items := make([]stackitem.Item, len(conds))
	for i, c := range conds {
		items[i] = conditionToStackItem(c)
	}
	return items
}
