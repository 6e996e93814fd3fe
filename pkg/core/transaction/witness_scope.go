package transaction

import (
	"fmt"
	"strings"
)

// WitnessScope represents a set of conditions under which a signer's
// witness is considered valid for a particular invocation. Scopes are
// combined as bit flags except for Global, which must stand alone.
type WitnessScope byte

// Variations of witness scopes.
const (
	// None specifies that no contract was witnessed. Only sign the
	// transaction itself and not the executing contracts.
	None WitnessScope = 0
	// CalledByEntry means that this condition must hold: EntryScriptHash
	// == CallingScriptHash. The witness/permission/signature given on
	// first invocation will automatically expire if entering deeper
	// internal invokes. It can be default safe choice for native NEO/GAS.
	CalledByEntry WitnessScope = 0x01
	// CustomContracts define the allowed contracts hashes to be called.
	CustomContracts WitnessScope = 0x10
	// CustomGroups define the allowed groups of pubkeys to be called.
	CustomGroups WitnessScope = 0x20
	// Rules is a set of conditions with boolean operators.
	Rules WitnessScope = 0x40
	// Global allows this witness in all contexts (default Neo2 behavior).
	// This cannot be combined with other flags.
	Global WitnessScope = 0x80
)

// scopeNames lists every individual scope flag in a deterministic order,
// used both for string rendering and for validating allowed combinations.
var scopeNames = []struct {
	s WitnessScope
	n string
}{
	{CalledByEntry, "CalledByEntry"},
	{CustomContracts, "CustomContracts"},
	{CustomGroups, "CustomGroups"},
	{Rules, "Rules"},
	{Global, "Global"},
}

// ScopesFromByte converts byte to a set of scopes and fails if the byte
// contains any unknown bits or an invalid combination (Global mixed with
// anything else).
func ScopesFromByte(b byte) (WitnessScope, error) {
	var allBits byte
	for _, sn := range scopeNames {
		allBits |= byte(sn.s)
	}
	if b&^allBits != 0 {
		return 0, fmt.Errorf("invalid scope %d", b)
	}
	scope := WitnessScope(b)
	if scope == None {
		return scope, nil
	}
	if scope&Global != 0 && scope != Global {
		return 0, fmt.Errorf("Global scope can not be combined with other scopes")
	}
	return scope, nil
}

// ScopesFromString converts a comma-separated list of scope names
// (e.g. "CalledByEntry, CustomGroups") into a WitnessScope bitmask.
func ScopesFromString(s string) (WitnessScope, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("empty scope")
	}
	var result WitnessScope
	parts := strings.Split(s, ",")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		found := false
		for _, sn := range scopeNames {
			if sn.n == p {
				found = true
				if sn.s == Global && result != 0 && result != Global {
					return 0, fmt.Errorf("Global scope can not be combined with other scopes")
				}
				if result&Global != 0 && sn.s != Global {
					return 0, fmt.Errorf("Global scope can not be combined with other scopes")
				}
				result |= sn.s
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("invalid scope: %s", p)
		}
	}
	return result, nil
}

// ScopesToString converts a witness scope bitmask into its canonical
// comma-separated string representation.
func ScopesToString(s WitnessScope) string {
	if s == None {
		return "None"
	}
	var parts []string
	for _, sn := range scopeNames {
		if s&sn.s != 0 {
			parts = append(parts, sn.n)
		}
	}
	return strings.Join(parts, ",")
}

// String implements the stringer interface.
func (s WitnessScope) String() string {
	return ScopesToString(s)
}
