// Package vmstate defines the VM's top-level execution state.
package vmstate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// State represents a bit-flag VM execution state; it can combine Halt/Fault
// with Break (a breakpoint can be hit after a HALT/FAULT has been latched
// by a nested context, in which case both flags are reported).
type State byte

const (
	// None is the state before execution has produced a result.
	None State = 0
	// Halt marks successful completion.
	Halt State = 1 << 0
	// Fault marks an unhandled exception or resource exhaustion.
	Fault State = 1 << 1
	// Break marks a suspended, debugger-visible pause.
	Break State = 1 << 2
)

var names = []struct {
	s State
	n string
}{
	{Halt, "HALT"},
	{Fault, "FAULT"},
	{Break, "BREAK"},
}

// HasFlag reports whether flag is set in s.
func (s State) HasFlag(flag State) bool {
	return s&flag == flag
}

// String renders s as a comma-separated list of flag names, or "NONE" when
// no flags are set.
func (s State) String() string {
	if s == None {
		return "NONE"
	}
	var parts []string
	for _, nm := range names {
		if s.HasFlag(nm.s) {
			parts = append(parts, nm.n)
		}
	}
	return strings.Join(parts, ", ")
}

// FromString parses a comma-separated list of flag names (as produced by
// String) back into a State.
func FromString(s string) (State, error) {
	if s == "NONE" {
		return None, nil
	}
	var res State
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		found := false
		for _, nm := range names {
			if nm.n == part {
				res |= nm.s
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("vmstate: unknown state flag %q", part)
		}
	}
	return res, nil
}

// MarshalJSON renders s using String.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses s using FromString.
func (s *State) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v, err := FromString(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
