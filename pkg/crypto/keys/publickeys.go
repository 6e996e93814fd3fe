package keys

import (
	"bytes"
	"encoding/hex"
	"sort"

	"gopkg.in/yaml.v3"
)

// PublicKeys is a slice of public keys, sorted by their binary encoding for
// use as a committee/validator list or a role designation.
type PublicKeys []*PublicKey

func (keys PublicKeys) Len() int      { return len(keys) }
func (keys PublicKeys) Swap(i, j int) { keys[i], keys[j] = keys[j], keys[i] }
func (keys PublicKeys) Less(i, j int) bool {
	return bytes.Compare(keys[i].Bytes(), keys[j].Bytes()) < 0
}

// Sort sorts the set in place, matching the committee/validator ordering
// rule (ascending binary encoding).
func (keys PublicKeys) Sort() { sort.Sort(keys) }

// Contains reports whether p is present in the set.
func (keys PublicKeys) Contains(p *PublicKey) bool {
	for _, k := range keys {
		if k.Bytes() != nil && p.Bytes() != nil && bytes.Equal(k.Bytes(), p.Bytes()) {
			return true
		}
	}
	return false
}

// MarshalYAML implements the yaml.Marshaler interface, encoding each key as
// a hex string.
func (keys PublicKeys) MarshalYAML() (any, error) {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = hex.EncodeToString(k.Bytes())
	}
	return out, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (keys *PublicKeys) UnmarshalYAML(node *yaml.Node) error {
	var raw []string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	res := make(PublicKeys, len(raw))
	for i, s := range raw {
		k, err := NewPublicKeyFromString(s)
		if err != nil {
			return err
		}
		res[i] = k
	}
	*keys = res
	return nil
}
