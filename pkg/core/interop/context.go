// Package interop carries the per-invocation state native contracts and
// VM syscalls read and write: the snapshot they operate on, the block or
// transaction that triggered them, and which hardforks/interop functions
// are active at the current height.
package interop

import (
	"github.com/neocorex/neogo/pkg/config"
	"github.com/neocorex/neogo/pkg/core/block"
	"github.com/neocorex/neogo/pkg/core/dao"
	"github.com/neocorex/neogo/pkg/core/transaction"
	"github.com/neocorex/neogo/pkg/smartcontract/trigger"
	"github.com/neocorex/neogo/pkg/vm"
)

// Function describes an interop function gated behind a hardfork: it
// only exists in the syscall table once the chain reaches ActiveFrom.
type Function struct {
	ID         uint32
	Name       string
	ActiveFrom config.Hardfork
}

// Context is threaded through every native-contract method call and VM
// syscall invoked while processing one trigger (a block's OnPersist, a
// transaction's Application run, and so on).
type Context struct {
	DAO     dao.DAO
	VM      *vm.VM
	Trigger trigger.Type
	Block   *block.Block
	Tx      *transaction.Transaction

	// Network is the magic number of the chain being processed, exposed
	// to contracts via System.Runtime.GetNetwork.
	Network uint32

	// Hardforks maps a hardfork's name (config.Hardfork.String()) to the
	// block index it activates at. A hardfork absent from the map is
	// treated as always active (height 0), matching a node that was
	// never configured to gate it.
	Hardforks map[string]uint32

	// Functions lists every hardfork-gated interop function this chain
	// knows about, used by GetFunction to build the active syscall set
	// for the current height.
	Functions []Function
}

// IsHardforkEnabled reports whether hf is active at ic.Block's height.
func (ic *Context) IsHardforkEnabled(hf config.Hardfork) bool {
	height, ok := ic.Hardforks[hf.String()]
	if !ok {
		return true
	}
	return ic.Block.Index >= height
}

// GetFunction returns the Function registered under id, provided its
// gating hardfork (if any) is active at the current height. It returns
// nil for an unknown id or one not yet activated.
func (ic *Context) GetFunction(id uint32) *Function {
	for i := range ic.Functions {
		if ic.Functions[i].ID != id {
			continue
		}
		f := ic.Functions[i]
		if f.ActiveFrom != config.HFDefault && !ic.IsHardforkEnabled(f.ActiveFrom) {
			return nil
		}
		return &f
	}
	return nil
}
