package transaction

import (
	"encoding/json"
	"errors"

	"github.com/n3core/neogo/pkg/crypto/keys"
	"github.com/n3core/neogo/pkg/io"
	"github.com/n3core/neogo/pkg/util"
)

// MaxAttributesExceeded and friends bound the variable-length lists a
// Signer may carry; enforced on deserialization to keep a verification
// script's cost computable ahead of time.
const (
	MaxAllowedContracts = 16
	MaxAllowedGroups    = 16
	MaxWitnessRules     = 16
)

// Signer names one account that must provide a Witness for a transaction
// to be valid, and the scope within which that witness is trusted.
type Signer struct {
	Account          util.Uint160
	Scopes           WitnessScope
	AllowedContracts []util.Uint160
	AllowedGroups    []*keys.PublicKey
	Rules            []WitnessRule
}

// EncodeBinary implements the io.Serializable interface.
func (s *Signer) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(s.Account.BytesBE())
	w.WriteB(byte(s.Scopes))
	if s.Scopes&CustomContracts != 0 {
		w.WriteVarUint(uint64(len(s.AllowedContracts)))
		for _, c := range s.AllowedContracts {
			w.WriteBytes(c.BytesBE())
		}
	}
	if s.Scopes&CustomGroups != 0 {
		w.WriteVarUint(uint64(len(s.AllowedGroups)))
		for _, g := range s.AllowedGroups {
			w.WriteBytes(g.Bytes())
		}
	}
	if s.Scopes&Rules != 0 {
		w.WriteVarUint(uint64(len(s.Rules)))
		for i := range s.Rules {
			s.Rules[i].EncodeBinary(w)
		}
	}
}

// DecodeBinary implements the io.Serializable interface.
func (s *Signer) DecodeBinary(r *io.BinReader) {
	accB := make([]byte, util.Uint160Size)
	r.ReadBytes(accB)
	if r.Err != nil {
		return
	}
	acc, err := util.Uint160DecodeBytesBE(accB)
	if err != nil {
		r.Err = err
		return
	}
	s.Account = acc

	scopes, err := ScopesFromByte(r.ReadB())
	if r.Err != nil {
		return
	}
	if err != nil {
		r.Err = err
		return
	}
	s.Scopes = scopes

	if scopes&CustomContracts != 0 {
		n := r.ReadVarUint()
		if r.Err != nil {
			return
		}
		if n > MaxAllowedContracts {
			r.Err = errors.New("transaction: too many allowed contracts")
			return
		}
		s.AllowedContracts = make([]util.Uint160, n)
		for i := range s.AllowedContracts {
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
			s.AllowedContracts[i] = u
		}
	}
	if scopes&CustomGroups != 0 {
		n := r.ReadVarUint()
		if r.Err != nil {
			return
		}
		if n > MaxAllowedGroups {
			r.Err = errors.New("transaction: too many allowed groups")
			return
		}
		s.AllowedGroups = make([]*keys.PublicKey, n)
		for i := range s.AllowedGroups {
			b := make([]byte, 33)
			r.ReadBytes(b)
			if r.Err != nil {
				return
			}
			pub := &keys.PublicKey{}
			if err := pub.DecodeBytes(b); err != nil {
				r.Err = err
				return
			}
			s.AllowedGroups[i] = pub
		}
	}
	if scopes&Rules != 0 {
		n := r.ReadVarUint()
		if r.Err != nil {
			return
		}
		if n > MaxWitnessRules {
			r.Err = errors.New("transaction: too many witness rules")
			return
		}
		s.Rules = make([]WitnessRule, n)
		for i := range s.Rules {
			s.Rules[i].DecodeBinary(r)
			if r.Err != nil {
				return
			}
		}
	}
}

type signerAux struct {
	Account          util.Uint160    `json:"account"`
	Scopes           WitnessScope    `json:"scopes"`
	AllowedContracts []util.Uint160  `json:"allowedcontracts,omitempty"`
	AllowedGroups    []*keys.PublicKey `json:"allowedgroups,omitempty"`
	Rules            []WitnessRule   `json:"rules,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (s *Signer) MarshalJSON() ([]byte, error) {
	return json.Marshal(signerAux{
		Account:          s.Account,
		Scopes:           s.Scopes,
		AllowedContracts: s.AllowedContracts,
		AllowedGroups:    s.AllowedGroups,
		Rules:            s.Rules,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *Signer) UnmarshalJSON(data []byte) error {
	var aux signerAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Account = aux.Account
	s.Scopes = aux.Scopes
	s.AllowedContracts = aux.AllowedContracts
	s.AllowedGroups = aux.AllowedGroups
	s.Rules = aux.Rules
	return nil
}
