package native

import (
	"errors"
	"math/big"

	"github.com/neocorex/neogo/pkg/core/interop"
	"github.com/neocorex/neogo/pkg/core/state"
	"github.com/neocorex/neogo/pkg/encoding/bigint"
	"github.com/neocorex/neogo/pkg/util"
)

// Storage prefixes shared by NEO and GAS for their balance ledgers.
const (
	prefixAccount     = 20
	prefixTotalSupply = 11
)

// ErrInsufficientFunds is returned by Transfer/Burn when an account
// doesn't hold enough balance to cover the requested amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// fungible implements the balance bookkeeping NEO and GAS both need: a
// per-account big-integer balance and a running total supply, stored
// under the owning contract's own native ID.
type fungible struct {
	id int32
}

func accountKey(account util.Uint160) []byte {
	key := make([]byte, 1+util.Uint160Size)
	key[0] = prefixAccount
	copy(key[1:], account.BytesBE())
	return key
}

// BalanceOf returns account's current balance, zero if it has never
// held any.
func (f *fungible) BalanceOf(ic *interop.Context, account util.Uint160) *big.Int {
	si := ic.DAO.GetStorageItem(f.id, accountKey(account))
	if si == nil {
		return big.NewInt(0)
	}
	return bigint.FromBytes(si.Value)
}

func (f *fungible) putBalance(ic *interop.Context, account util.Uint160, v *big.Int) error {
	if v.Sign() == 0 {
		return ic.DAO.DeleteStorageItem(f.id, accountKey(account))
	}
	return ic.DAO.PutStorageItem(f.id, accountKey(account), &state.StorageItem{Value: bigint.ToBytes(v)})
}

// TotalSupply returns the current total supply.
func (f *fungible) TotalSupply(ic *interop.Context) *big.Int {
	si := ic.DAO.GetStorageItem(f.id, []byte{prefixTotalSupply})
	if si == nil {
		return big.NewInt(0)
	}
	return bigint.FromBytes(si.Value)
}

func (f *fungible) putTotalSupply(ic *interop.Context, v *big.Int) error {
	return ic.DAO.PutStorageItem(f.id, []byte{prefixTotalSupply}, &state.StorageItem{Value: bigint.ToBytes(v)})
}

// Mint credits account with amount, increasing total supply.
func (f *fungible) Mint(ic *interop.Context, account util.Uint160, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	bal := f.BalanceOf(ic, account)
	bal.Add(bal, amount)
	if err := f.putBalance(ic, account, bal); err != nil {
		return err
	}
	supply := f.TotalSupply(ic)
	supply.Add(supply, amount)
	return f.putTotalSupply(ic, supply)
}

// Burn debits account by amount, decreasing total supply. It fails if
// account doesn't hold enough balance.
func (f *fungible) Burn(ic *interop.Context, account util.Uint160, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	bal := f.BalanceOf(ic, account)
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	bal.Sub(bal, amount)
	if err := f.putBalance(ic, account, bal); err != nil {
		return err
	}
	supply := f.TotalSupply(ic)
	supply.Sub(supply, amount)
	return f.putTotalSupply(ic, supply)
}

// Transfer moves amount from from to to, failing if from doesn't hold
// enough balance. A from == to transfer is a no-op validity check only
// (matches NEP-17 self-transfer semantics).
func (f *fungible) Transfer(ic *interop.Context, from, to util.Uint160, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative transfer amount")
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	fromBal := f.BalanceOf(ic, from)
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	fromBal.Sub(fromBal, amount)
	if err := f.putBalance(ic, from, fromBal); err != nil {
		return err
	}
	toBal := f.BalanceOf(ic, to)
	toBal.Add(toBal, amount)
	return f.putBalance(ic, to, toBal)
}
