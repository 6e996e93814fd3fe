package native

import (
	"math/big"

	"github.com/neocorex/neogo/pkg/core/interop"
	"github.com/neocorex/neogo/pkg/core/native/nativenames"
	"github.com/neocorex/neogo/pkg/smartcontract"
	"github.com/neocorex/neogo/pkg/smartcontract/callflag"
	"github.com/neocorex/neogo/pkg/smartcontract/manifest"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// GasID is the GAS token contract's fixed native contract ID.
const GasID = -6

// GasDecimals is GAS's fixed decimal precision.
const GasDecimals = 8

// defaultGasPerBlock is the amount of GAS (in the token's smallest
// unit) minted to the block's primary validator on every OnPersist,
// absent a Policy-driven reward schedule.
var defaultGasPerBlock = big.NewInt(5 * 100000000)

// Gas is the GasToken native contract: the network's utility token,
// minted per block to the block's primary validator.
type Gas struct {
	ContractMD
	fungible
}

// NewGas builds GasToken's metadata and method table.
func NewGas() *Gas {
	g := &Gas{ContractMD: *NewContractMD(nativenames.Gas, GasID)}
	g.fungible.id = GasID
	g.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "decimals", Parameters: []manifest.Parameter{}, ReturnType: smartcontract.IntegerType, Safe: true},
		Flags: callflag.ReadStates,
		Func:  func(ic *interop.Context, args []stackitem.Item) stackitem.Item { return stackitem.Make(GasDecimals) },
	})
	g.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "totalSupply", Parameters: []manifest.Parameter{}, ReturnType: smartcontract.IntegerType, Safe: true},
		Flags: callflag.ReadStates,
		Func:  func(ic *interop.Context, args []stackitem.Item) stackitem.Item { return stackitem.NewBigInteger(g.TotalSupply(ic)) },
	})
	g.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "balanceOf", Parameters: []manifest.Parameter{{Name: "account", Type: smartcontract.Hash160Type}}, ReturnType: smartcontract.IntegerType, Safe: true},
		Flags: callflag.ReadStates,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			return stackitem.NewBigInteger(g.BalanceOf(ic, toUint160(args[0])))
		},
	})
	g.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name: "transfer",
			Parameters: []manifest.Parameter{
				{Name: "from", Type: smartcontract.Hash160Type},
				{Name: "to", Type: smartcontract.Hash160Type},
				{Name: "amount", Type: smartcontract.IntegerType},
				{Name: "data", Type: smartcontract.AnyType},
			},
			ReturnType: smartcontract.BoolType,
		},
		Flags: callflag.States | callflag.AllowCall | callflag.AllowNotify,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			amount, err := stackitem.ToBigInt(args[2])
			if err != nil {
				panic(err)
			}
			if err := g.Transfer(ic, toUint160(args[0]), toUint160(args[1]), amount); err != nil {
				return stackitem.NewBool(false)
			}
			return stackitem.NewBool(true)
		},
	})
	return g
}

// Metadata implements Contract.
func (g *Gas) Metadata() *ContractMD { return &g.ContractMD }

// Initialize implements Contract; GAS starts with zero supply until the
// genesis block's OnPersist mints its first reward.
func (g *Gas) Initialize(ic *interop.Context) error { return nil }

// OnPersist mints this block's reward to the primary validator's
// account (the block's NextConsensus field, standing in for a full
// committee-derived validator address until NEO's governance logic is
// wired in).
func (g *Gas) OnPersist(ic *interop.Context) error {
	return g.Mint(ic, ic.Block.NextConsensus, new(big.Int).Set(defaultGasPerBlock))
}

// PostPersist implements Contract; reward distribution happens in
// OnPersist, nothing left to do after transactions run.
func (g *Gas) PostPersist(ic *interop.Context) error { return nil }
