// Package vmstate defines the VM's execution state flags.
package vmstate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// State is a bitfield describing where the VM currently stands. Values
// match the upstream Neo VM's VMState enumeration byte-for-byte so fault
// and halt codes stay interchangeable with the rest of the protocol.
type State byte

// Possible execution states.
const (
	None State = 0
	Halt State = 1 << iota >> 1
	Fault
	Break
)

var names = map[State]string{
	Halt:  "HALT",
	Fault: "FAULT",
	Break: "BREAK",
}

// HasFlag reports whether s has every bit set in fs.
func (s State) HasFlag(fs State) bool {
	return s&fs == fs
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s == None {
		return "NONE"
	}
	var parts []string
	for _, f := range []State{Halt, Fault, Break} {
		if s.HasFlag(f) {
			parts = append(parts, names[f])
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
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		found := false
		for f, n := range names {
			if n == p {
				res |= f
				found = true
				break
			}
		}
		if !found {
			return None, fmt.Errorf("unknown VM state: %q", p)
		}
	}
	return res, nil
}

// MarshalJSON implements json.Marshaler.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
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
