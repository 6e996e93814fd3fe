package native

import (
	"github.com/neocorex/neogo/pkg/config"
	"github.com/neocorex/neogo/pkg/util"
)

// Contracts holds every native contract wired into the chain, plus
// direct-typed accessors for the ones other natives or the VM interop
// layer need to reach without a name lookup.
type Contracts struct {
	Contracts []Contract

	Management *Management
	Ledger     *Ledger
	NEO        *Neo
	GAS        *Gas
	Policy     *Policy
	Designate  *Designate
	Std        *Std
	Crypto     *Crypto
}

// NewContracts builds the full set of native contracts for cfg's
// network. Construction order matters only for cross-references
// (Management needs Policy to check the deploy blocklist); activation
// order for a given block is the caller's (ApplicationEngine's)
// responsibility.
func NewContracts(cfg config.ProtocolConfiguration) *Contracts {
	mgmt := NewManagement()
	policy := newPolicy()
	mgmt.Policy = policy

	cs := &Contracts{
		Management: mgmt,
		Ledger:     NewLedger(),
		NEO:        NewNeo(),
		GAS:        NewGas(),
		Policy:     policy,
		Designate:  NewDesignate(),
		Std:        NewStd(),
		Crypto:     NewCrypto(),
	}
	cs.Contracts = []Contract{
		cs.Management,
		cs.Ledger,
		cs.NEO,
		cs.GAS,
		cs.Policy,
		cs.Designate,
		cs.Std,
		cs.Crypto,
	}
	return cs
}

// ByHash returns the native contract deployed at h, if any.
func (cs *Contracts) ByHash(h util.Uint160) (Contract, bool) {
	for _, c := range cs.Contracts {
		if c.Metadata().Hash == h {
			return c, true
		}
	}
	return nil, false
}

// ByID returns the native contract with the given (negative) ID, if any.
func (cs *Contracts) ByID(id int32) (Contract, bool) {
	for _, c := range cs.Contracts {
		if c.Metadata().ID == id {
			return c, true
		}
	}
	return nil, false
}
