package native

import (
	"github.com/neocorex/neogo/pkg/core/interop"
	"github.com/neocorex/neogo/pkg/core/native/nativenames"
	"github.com/neocorex/neogo/pkg/smartcontract"
	"github.com/neocorex/neogo/pkg/smartcontract/callflag"
	"github.com/neocorex/neogo/pkg/smartcontract/manifest"
	"github.com/neocorex/neogo/pkg/util"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// LedgerID is the Ledger contract's fixed native contract ID.
const LedgerID = -4

// Ledger exposes read-only access to persisted blocks and transactions.
// It stores nothing of its own: every answer comes straight out of the
// DAO's block/transaction key space.
type Ledger struct {
	ContractMD
}

// NewLedger builds Ledger's metadata and method table.
func NewLedger() *Ledger {
	l := &Ledger{ContractMD: *NewContractMD(nativenames.Ledger, LedgerID)}
	l.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name:       "currentIndex",
			Parameters: []manifest.Parameter{},
			ReturnType: smartcontract.IntegerType,
			Safe:       true,
		},
		Flags: callflag.ReadStates,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			h, err := ic.DAO.GetCurrentBlockHeight()
			if err != nil {
				return stackitem.Make(0)
			}
			return stackitem.Make(int64(h))
		},
	})
	l.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name:       "getBlock",
			Parameters: []manifest.Parameter{{Name: "indexOrHash", Type: smartcontract.ByteArrayType}},
			ReturnType: smartcontract.ArrayType,
			Safe:       true,
		},
		Flags: callflag.ReadStates,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			h, err := util.Uint256DecodeBytesBE(args[0].Bytes())
			if err != nil {
				return stackitem.NewNull()
			}
			b, err := ic.DAO.GetBlock(h)
			if err != nil {
				return stackitem.NewNull()
			}
			return stackitem.NewByteArray(b.Hash().BytesBE())
		},
	})
	return l
}

// Metadata implements Contract.
func (l *Ledger) Metadata() *ContractMD { return &l.ContractMD }

// Initialize implements Contract; Ledger has no deployment-time state.
func (l *Ledger) Initialize(ic *interop.Context) error { return nil }

// OnPersist implements Contract; the actual block/tx persistence happens
// in the DAO's StoreAsBlock/StoreAsTransaction, driven by the ledger
// import pipeline rather than this hook.
func (l *Ledger) OnPersist(ic *interop.Context) error { return nil }

// PostPersist implements Contract; Ledger has no post-block work.
func (l *Ledger) PostPersist(ic *interop.Context) error { return nil }

// GetBlock returns the block stored under hash.
func (l *Ledger) GetBlock(ic *interop.Context, hash util.Uint256) (interface{}, error) {
	return ic.DAO.GetBlock(hash)
}
