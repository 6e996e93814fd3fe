// Package callflag defines the permission bits a contract call site
// declares for what its callee is allowed to do (read/write storage,
// make further calls, raise notifications).
package callflag

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// CallFlag is a bitmask of permissions granted to a contract call.
type CallFlag byte

// Flag values and their composites.
const (
	NoneFlag    CallFlag = 0
	ReadStates  CallFlag = 1 << 0
	WriteStates CallFlag = 1 << 1
	AllowCall   CallFlag = 1 << 2
	AllowNotify CallFlag = 1 << 3

	States   = ReadStates | WriteStates
	ReadOnly = ReadStates | AllowCall
	All      = States | AllowCall | AllowNotify
)

var orderedNames = []struct {
	Flag CallFlag
	Name string
}{
	{All, "All"},
	{ReadOnly, "ReadOnly"},
	{States, "States"},
	{ReadStates, "ReadStates"},
	{WriteStates, "WriteStates"},
	{AllowCall, "AllowCall"},
	{AllowNotify, "AllowNotify"},
}

var namesToFlag = map[string]CallFlag{
	"None":        NoneFlag,
	"All":         All,
	"ReadStates":  ReadStates,
	"WriteStates": WriteStates,
	"States":      States,
	"ReadOnly":    ReadOnly,
	"AllowCall":   AllowCall,
	"AllowNotify": AllowNotify,
}

// Has reports whether f carries every bit set in fs.
func (f CallFlag) Has(fs CallFlag) bool {
	return f&fs == fs
}

// String implements the stringer interface, rendering f as the most
// specific comma-separated list of composite and individual flag names
// that reconstructs it.
func (f CallFlag) String() string {
	if f == NoneFlag {
		return "None"
	}
	var parts []string
	remaining := f
	for _, e := range orderedNames {
		if e.Flag != 0 && remaining.Has(e.Flag) {
			parts = append(parts, e.Name)
			remaining &^= e.Flag
		}
	}
	return strings.Join(parts, ", ")
}

// FromString parses the form produced by String.
func FromString(s string) (CallFlag, error) {
	if s == "None" {
		return NoneFlag, nil
	}
	if s == "All" {
		return All, nil
	}
	var res CallFlag
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimPrefix(part, " ")
		if part == "None" || part == "All" {
			return 0, fmt.Errorf("%q can't be combined with other flags", part)
		}
		flag, ok := namesToFlag[part]
		if !ok {
			return 0, fmt.Errorf("unknown call flag: %q", part)
		}
		res |= flag
	}
	return res, nil
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
	flag, err := FromString(s)
	if err != nil {
		return err
	}
	*f = flag
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
	flag, err := FromString(s)
	if err != nil {
		return err
	}
	*f = flag
	return nil
}
