package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// WitnessScope limits where a signer's witness is considered valid during
// script execution; CheckWitness consults it against the current call
// context (entry script, called contracts, groups, rules).
type WitnessScope byte

// Witness scope values. Global cannot be combined with any other scope.
const (
	None            WitnessScope = 0
	CalledByEntry   WitnessScope = 0x01
	CustomContracts WitnessScope = 0x10
	CustomGroups    WitnessScope = 0x20
	Rules           WitnessScope = 0x40
	Global          WitnessScope = 0x80
)

var scopeNames = []struct {
	s WitnessScope
	n string
}{
	{Global, "Global"},
	{CalledByEntry, "CalledByEntry"},
	{CustomContracts, "CustomContracts"},
	{CustomGroups, "CustomGroups"},
	{Rules, "WitnessRules"},
}

// String renders s as a comma-separated list of its component names.
func (s WitnessScope) String() string {
	if s == None {
		return "None"
	}
	var parts []string
	for _, sn := range scopeNames {
		if s&sn.s != 0 {
			parts = append(parts, sn.n)
		}
	}
	return strings.Join(parts, ", ")
}

// ScopesFromByte parses the wire-format byte into a WitnessScope, rejecting
// unknown bits and Global combined with anything else.
func ScopesFromByte(b byte) (WitnessScope, error) {
	s := WitnessScope(b)
	var known WitnessScope
	for _, sn := range scopeNames {
		known |= sn.s
	}
	if s&^known != 0 {
		return 0, fmt.Errorf("transaction: unknown witness scope byte %d", b)
	}
	if s&Global != 0 && s != Global {
		return 0, errors.New("transaction: Global scope can't be combined with other scopes")
	}
	return s, nil
}

// ScopesFromString parses a comma-separated scope name list (as used in
// JSON and CLI input), rejecting unknown names, duplicates across
// combination rules, and Global mixed with any other scope.
func ScopesFromString(s string) (WitnessScope, error) {
	if len(s) == 0 {
		return 0, errors.New("transaction: empty scope string")
	}
	var result WitnessScope
	var sawGlobal bool
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		found := false
		for _, sn := range scopeNames {
			matchName := sn.n
			if sn.s == Rules {
				matchName = "WitnessRules"
			}
			if name == matchName || (sn.s == Rules && name == "Rules") {
				result |= sn.s
				found = true
				if sn.s == Global {
					sawGlobal = true
				}
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("transaction: unknown witness scope %q", name)
		}
	}
	if sawGlobal && result != Global {
		return 0, errors.New("transaction: Global scope can't be combined with other scopes")
	}
	return result, nil
}

// MarshalJSON implements the json.Marshaler interface.
func (s WitnessScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *WitnessScope) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	scopes, err := ScopesFromString(strings.ReplaceAll(str, ", ", ","))
	if err != nil {
		return err
	}
	*s = scopes
	return nil
}
