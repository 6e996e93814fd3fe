package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/neocorex/neogo/pkg/crypto/keys"
	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/util"
)

// Signer contains the scope rules for one transaction signer: which
// account signed, and under what conditions its witness is considered
// applicable to a given invocation.
type Signer struct {
	Account          util.Uint160
	Scopes           WitnessScope
	AllowedContracts []util.Uint160
	AllowedGroups    []*keys.PublicKey
	Rules            []WitnessRule
}

// EncodeBinary implements the io.Serializable interface.
func (c *Signer) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(c.Account[:])
	w.WriteB(byte(c.Scopes))
	if c.Scopes&CustomContracts != 0 {
		w.WriteVarUint(uint64(len(c.AllowedContracts)))
		for _, h := range c.AllowedContracts {
			w.WriteBytes(h[:])
		}
	}
	if c.Scopes&CustomGroups != 0 {
		w.WriteVarUint(uint64(len(c.AllowedGroups)))
		for _, g := range c.AllowedGroups {
			g.EncodeBinary(w)
		}
	}
	if c.Scopes&Rules != 0 {
		w.WriteVarUint(uint64(len(c.Rules)))
		for i := range c.Rules {
			c.Rules[i].EncodeBinary(w)
		}
	}
}

// DecodeBinary implements the io.Serializable interface.
func (c *Signer) DecodeBinary(br *io.BinReader) {
	br.ReadBytes(c.Account[:])
	scopes := br.ReadB()
	if br.Err != nil {
		return
	}
	sc, err := ScopesFromByte(scopes)
	if err != nil {
		br.Err = err
		return
	}
	c.Scopes = sc
	if c.Scopes&CustomContracts != 0 {
		ln := br.ReadVarUint()
		if br.Err != nil {
			return
		}
		if ln > maxSubitems {
			br.Err = fmt.Errorf("too many allowed contracts: %d", ln)
			return
		}
		c.AllowedContracts = make([]util.Uint160, ln)
		for i := range c.AllowedContracts {
			br.ReadBytes(c.AllowedContracts[i][:])
		}
	}
	if br.Err != nil {
		return
	}
	if c.Scopes&CustomGroups != 0 {
		ln := br.ReadVarUint()
		if br.Err != nil {
			return
		}
		if ln > maxSubitems {
			br.Err = fmt.Errorf("too many allowed groups: %d", ln)
			return
		}
		c.AllowedGroups = make([]*keys.PublicKey, ln)
		for i := range c.AllowedGroups {
			c.AllowedGroups[i] = &keys.PublicKey{}
			c.AllowedGroups[i].DecodeBinary(br)
		}
	}
	if br.Err != nil {
		return
	}
	if c.Scopes&Rules != 0 {
		ln := br.ReadVarUint()
		if br.Err != nil {
			return
		}
		if ln > maxSubitems {
			br.Err = fmt.Errorf("too many witness rules: %d", ln)
			return
		}
		c.Rules = make([]WitnessRule, ln)
		for i := range c.Rules {
			c.Rules[i].DecodeBinary(br)
			if br.Err != nil {
				return
			}
		}
	}
}

type signerAux struct {
	Account          util.Uint160      `json:"account"`
	Scopes           string            `json:"scopes"`
	AllowedContracts []util.Uint160    `json:"allowedcontracts,omitempty"`
	AllowedGroups    []*keys.PublicKey `json:"allowedgroups,omitempty"`
	Rules            []WitnessRule     `json:"rules,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (c *Signer) MarshalJSON() ([]byte, error) {
	return json.Marshal(signerAux{
		Account:          c.Account,
		Scopes:           ScopesToString(c.Scopes),
		AllowedContracts: c.AllowedContracts,
		AllowedGroups:    c.AllowedGroups,
		Rules:            c.Rules,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *Signer) UnmarshalJSON(data []byte) error {
	aux := new(signerAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	scopes, err := ScopesFromString(aux.Scopes)
	if err != nil {
		return err
	}
	c.Account = aux.Account
	c.Scopes = scopes
	c.AllowedContracts = aux.AllowedContracts
	c.AllowedGroups = aux.AllowedGroups
	c.Rules = aux.Rules
	return nil
}

// Copy creates a deep copy of the Signer.
func (c *Signer) Copy() *Signer {
	if c == nil {
		return nil
	}
	cp := *c
	if c.AllowedContracts != nil {
		cp.AllowedContracts = make([]util.Uint160, len(c.AllowedContracts))
		copy(cp.AllowedContracts, c.AllowedContracts)
	}
	if c.AllowedGroups != nil {
		cp.AllowedGroups = make([]*keys.PublicKey, len(c.AllowedGroups))
		copy(cp.AllowedGroups, c.AllowedGroups)
	}
	if c.Rules != nil {
		cp.Rules = make([]WitnessRule, len(c.Rules))
		for i := range c.Rules {
			cp.Rules[i] = *c.Rules[i].Copy()
		}
	}
	return &cp
}
