package native

import (
	"encoding/binary"

	"github.com/neocorex/neogo/pkg/core/interop"
	"github.com/neocorex/neogo/pkg/core/native/nativenames"
	"github.com/neocorex/neogo/pkg/core/state"
	"github.com/neocorex/neogo/pkg/smartcontract"
	"github.com/neocorex/neogo/pkg/smartcontract/callflag"
	"github.com/neocorex/neogo/pkg/smartcontract/manifest"
	"github.com/neocorex/neogo/pkg/util"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// PolicyID is the Policy contract's fixed native contract ID.
const PolicyID = -7

// Storage prefixes under Policy's own contract ID.
const (
	prefixFeePerByte        = 10
	prefixExecFeeFactor     = 18
	prefixStoragePrice      = 19
	prefixBlockedAccount    = 15
	defaultFeePerByte       = 1000
	defaultExecFeeFactor    = 30
	defaultStoragePrice     = 100000
	maxExecFeeFactor        = 100
	maxStoragePrice         = 10000000
)

// Policy is the PolicyContract native contract: network-wide fee and
// storage-price limits, plus the blocked-account list every transfer
// checks against.
type Policy struct {
	ContractMD
}

// newPolicy builds Policy's metadata (no methods wired yet; see
// Management/GAS/NEO, which all embed a *Policy for cross-checks).
func newPolicy() *Policy {
	p := &Policy{ContractMD: *NewContractMD(nativenames.Policy, PolicyID)}
	p.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name:       "getFeePerByte",
			Parameters: []manifest.Parameter{},
			ReturnType: smartcontract.IntegerType,
			Safe:       true,
		},
		Flags: callflag.ReadStates,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			return stackitem.Make(p.GetFeePerByte(ic))
		},
	})
	p.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name:       "getExecFeeFactor",
			Parameters: []manifest.Parameter{},
			ReturnType: smartcontract.IntegerType,
			Safe:       true,
		},
		Flags: callflag.ReadStates,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			return stackitem.Make(p.GetExecFeeFactor(ic))
		},
	})
	p.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name:       "getStoragePrice",
			Parameters: []manifest.Parameter{},
			ReturnType: smartcontract.IntegerType,
			Safe:       true,
		},
		Flags: callflag.ReadStates,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			return stackitem.Make(p.GetStoragePrice(ic))
		},
	})
	p.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name:       "isBlocked",
			Parameters: []manifest.Parameter{{Name: "account", Type: smartcontract.Hash160Type}},
			ReturnType: smartcontract.BoolType,
			Safe:       true,
		},
		Flags: callflag.ReadStates,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			return stackitem.NewBool(p.IsBlocked(ic, toUint160(args[0])))
		},
	})
	return p
}

// Metadata implements Contract.
func (p *Policy) Metadata() *ContractMD { return &p.ContractMD }

// Initialize seeds Policy's defaults the first time it runs.
func (p *Policy) Initialize(ic *interop.Context, feePerByte, execFeeFactor *int64) error {
	fpb := int64(defaultFeePerByte)
	if feePerByte != nil {
		fpb = *feePerByte
	}
	eff := int64(defaultExecFeeFactor)
	if execFeeFactor != nil {
		eff = *execFeeFactor
	}
	if err := p.putInt(ic, prefixFeePerByte, fpb); err != nil {
		return err
	}
	if err := p.putInt(ic, prefixExecFeeFactor, eff); err != nil {
		return err
	}
	return p.putInt(ic, prefixStoragePrice, defaultStoragePrice)
}

// OnPersist implements Contract; Policy has no per-block recomputation.
func (p *Policy) OnPersist(ic *interop.Context) error { return nil }

// PostPersist implements Contract; Policy has no per-block recomputation.
func (p *Policy) PostPersist(ic *interop.Context) error { return nil }

func (p *Policy) putInt(ic *interop.Context, prefix byte, v int64) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(v))
	return ic.DAO.PutStorageItem(p.ID, []byte{prefix}, &state.StorageItem{Value: buf})
}

func (p *Policy) getInt(ic *interop.Context, prefix byte, def int64) int64 {
	si := ic.DAO.GetStorageItem(p.ID, []byte{prefix})
	if si == nil || len(si.Value) < 8 {
		return def
	}
	return int64(binary.LittleEndian.Uint64(si.Value))
}

// GetFeePerByte returns the current network-fee-per-byte rate.
func (p *Policy) GetFeePerByte(ic *interop.Context) int64 {
	return p.getInt(ic, prefixFeePerByte, defaultFeePerByte)
}

// SetFeePerByte updates the network-fee-per-byte rate. Callers must
// check the committee witness before invoking this.
func (p *Policy) SetFeePerByte(ic *interop.Context, v int64) error {
	return p.putInt(ic, prefixFeePerByte, v)
}

// GetExecFeeFactor returns the current execution-fee multiplier.
func (p *Policy) GetExecFeeFactor(ic *interop.Context) int64 {
	return p.getInt(ic, prefixExecFeeFactor, defaultExecFeeFactor)
}

// SetExecFeeFactor updates the execution-fee multiplier, which must
// fall within (0, maxExecFeeFactor].
func (p *Policy) SetExecFeeFactor(ic *interop.Context, v int64) error {
	if v <= 0 || v > maxExecFeeFactor {
		return errInvalidPolicyValue
	}
	return p.putInt(ic, prefixExecFeeFactor, v)
}

// GetStoragePrice returns the current per-byte storage price.
func (p *Policy) GetStoragePrice(ic *interop.Context) int64 {
	return p.getInt(ic, prefixStoragePrice, defaultStoragePrice)
}

// SetStoragePrice updates the per-byte storage price, which must fall
// within (0, maxStoragePrice].
func (p *Policy) SetStoragePrice(ic *interop.Context, v int64) error {
	if v <= 0 || v > maxStoragePrice {
		return errInvalidPolicyValue
	}
	return p.putInt(ic, prefixStoragePrice, v)
}

// IsBlocked reports whether account is on the blocked-accounts list.
func (p *Policy) IsBlocked(ic *interop.Context, account util.Uint160) bool {
	return ic.DAO.GetStorageItem(p.ID, append([]byte{prefixBlockedAccount}, account.BytesBE()...)) != nil
}

// BlockAccount adds account to the blocked-accounts list.
func (p *Policy) BlockAccount(ic *interop.Context, account util.Uint160) error {
	key := append([]byte{prefixBlockedAccount}, account.BytesBE()...)
	return ic.DAO.PutStorageItem(p.ID, key, &state.StorageItem{Value: []byte{1}})
}

// UnblockAccount removes account from the blocked-accounts list.
func (p *Policy) UnblockAccount(ic *interop.Context, account util.Uint160) error {
	key := append([]byte{prefixBlockedAccount}, account.BytesBE()...)
	return ic.DAO.DeleteStorageItem(p.ID, key)
}

var errInvalidPolicyValue = policyValueError("value out of range")

type policyValueError string

func (e policyValueError) Error() string { return string(e) }
