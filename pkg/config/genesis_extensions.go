package config

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/neocorex/neogo/pkg/core/native/noderoles"
	"github.com/neocorex/neogo/pkg/crypto/keys"
	"gopkg.in/yaml.v3"
)

// Genesis represents a set of genesis block settings including the extensions
// enabled in the genesis block or during native contracts initialization.
type Genesis struct {
	// MaxTraceableBlocks is the length of the chain tail accessible to smart
	// contracts. It differs from the protocol-level configuration in that
	// this value is used to initialize the native Policy contract's
	// MaxTraceableBlocks value once the corresponding hardfork is active.
	MaxTraceableBlocks uint32
	// MaxValidUntilBlockIncrement mirrors ProtocolConfiguration's field but
	// is used to seed the native Policy contract once the corresponding
	// hardfork is active.
	MaxValidUntilBlockIncrement uint32
	MaxVerificationGas          int64
	// Roles contains the set of roles that should be designated during the
	// native RoleManagement contract's initialization. This is an extension
	// and must be left empty on the public Neo N3 networks.
	Roles map[noderoles.Role]keys.PublicKeys
	// TimePerBlock mirrors ProtocolConfiguration's field but is used to seed
	// the native Policy contract once the corresponding hardfork is active.
	TimePerBlock time.Duration
	// Transaction contains a transaction script that should be deployed in
	// the genesis block. This is an extension and must be left nil on the
	// public Neo N3 networks.
	Transaction *GenesisTransaction
}

// GenesisTransaction is a placeholder for a script that should be included
// in the genesis block as a transaction with the given system fee. The fee
// is taken from the standby committee's account, added to the list of
// signers as a sender with the CalledByEntry scope.
type GenesisTransaction struct {
	Script    []byte
	SystemFee int64
}

type (
	genesisAux struct {
		MaxTraceableBlocks          uint32                     `yaml:"MaxTraceableBlocks"`
		MaxValidUntilBlockIncrement uint32                     `yaml:"MaxValidUntilBlockIncrement"`
		Roles                       map[string]keys.PublicKeys `yaml:"Roles"`
		TimePerBlock                time.Duration              `yaml:"TimePerBlock"`
		Transaction                 *genesisTransactionAux     `yaml:"Transaction"`
	}
	genesisTransactionAux struct {
		Script    string `yaml:"Script"`
		SystemFee int64  `yaml:"SystemFee"`
	}
)

// MarshalYAML implements the yaml.Marshaler interface.
func (e Genesis) MarshalYAML() (any, error) {
	var aux genesisAux
	aux.Roles = make(map[string]keys.PublicKeys, len(e.Roles))
	for r, ks := range e.Roles {
		aux.Roles[r.String()] = ks
	}
	if e.Transaction != nil {
		aux.Transaction = &genesisTransactionAux{
			Script:    base64.StdEncoding.EncodeToString(e.Transaction.Script),
			SystemFee: e.Transaction.SystemFee,
		}
	}
	aux.MaxValidUntilBlockIncrement = e.MaxValidUntilBlockIncrement
	aux.TimePerBlock = e.TimePerBlock
	aux.MaxTraceableBlocks = e.MaxTraceableBlocks
	return aux, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (e *Genesis) UnmarshalYAML(node *yaml.Node) error {
	var aux genesisAux
	if err := node.Decode(&aux); err != nil {
		return err
	}

	e.Roles = make(map[noderoles.Role]keys.PublicKeys)
	for s, ks := range aux.Roles {
		r, ok := noderoles.FromString(s)
		if !ok {
			return fmt.Errorf("unknown node role: %s", s)
		}
		e.Roles[r] = ks
	}

	if aux.Transaction != nil {
		script, err := base64.StdEncoding.DecodeString(aux.Transaction.Script)
		if err != nil {
			return fmt.Errorf("failed to decode script of genesis transaction: %w", err)
		}
		e.Transaction = &GenesisTransaction{
			Script:    script,
			SystemFee: aux.Transaction.SystemFee,
		}
	}

	e.MaxValidUntilBlockIncrement = aux.MaxValidUntilBlockIncrement
	e.TimePerBlock = aux.TimePerBlock
	e.MaxTraceableBlocks = aux.MaxTraceableBlocks

	return nil
}
