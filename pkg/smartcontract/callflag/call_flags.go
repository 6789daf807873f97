// Package callflag defines the bitmask of capabilities a contract
// invocation carries (ReadStates, WriteStates, AllowCall, AllowNotify),
// checked by ApplicationEngine and native contracts before touching
// storage, calling out, or emitting a notification.
package callflag

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// CallFlag limits what a context invoked with it may do.
type CallFlag byte

const (
	ReadStates CallFlag = 1 << iota
	WriteStates
	AllowCall
	AllowNotify

	States      = ReadStates | WriteStates
	ReadOnly    = ReadStates | AllowCall
	All         = States | AllowCall | AllowNotify
	NoneFlag    = CallFlag(0)
)

// namedFlags is consulted in order, widest combination first, so that a
// composite like ReadStates|WriteStates renders as "States" instead of
// "ReadStates, WriteStates".
var namedFlags = []struct {
	flag CallFlag
	name string
}{
	{All, "All"},
	{ReadOnly, "ReadOnly"},
	{States, "States"},
	{ReadStates, "ReadStates"},
	{WriteStates, "WriteStates"},
	{AllowCall, "AllowCall"},
	{AllowNotify, "AllowNotify"},
}

// Has reports whether f carries every bit in sub.
func (f CallFlag) Has(sub CallFlag) bool {
	return f&sub == sub
}

// String renders the flag set as a comma-joined list, "None" if empty.
func (f CallFlag) String() string {
	if f == 0 {
		return "None"
	}
	remaining := f
	var parts []string
	for _, nf := range namedFlags {
		if nf.flag != 0 && remaining.Has(nf.flag) {
			parts = append(parts, nf.name)
			remaining &^= nf.flag
		}
	}
	return strings.Join(parts, ", ")
}

// FromString parses the comma-separated representation produced by String
// back into a CallFlag. "All" and "None" are only recognized as the whole
// string; composite names (States, ReadOnly) are accepted alongside the
// individual bit names within a comma-separated list.
func FromString(s string) (CallFlag, error) {
	if s == "None" {
		return NoneFlag, nil
	}
	if s == "All" {
		return All, nil
	}
	var f CallFlag
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		switch part {
		case "ReadStates":
			f |= ReadStates
		case "WriteStates":
			f |= WriteStates
		case "AllowCall":
			f |= AllowCall
		case "AllowNotify":
			f |= AllowNotify
		case "States":
			f |= States
		case "ReadOnly":
			f |= ReadOnly
		default:
			return 0, fmt.Errorf("callflag: unknown flag name %q in %q", part, s)
		}
	}
	return f, nil
}

// FromByte validates and converts a raw NEF/manifest flag byte.
func FromByte(b byte) (CallFlag, error) {
	f := CallFlag(b)
	if f&^All != 0 {
		return 0, fmt.Errorf("callflag: invalid call flag %d", b)
	}
	return f, nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f CallFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *CallFlag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (f CallFlag) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (f *CallFlag) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
