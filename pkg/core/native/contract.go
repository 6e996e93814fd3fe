// Package native implements the built-in contracts every Neo N3 chain
// ships with: contract deployment (Management), read-only block/
// transaction access (Ledger), the two system tokens (NEO, GAS),
// network-wide policy limits, node role designation and a handful of
// standard-library/crypto helpers contracts can call into without
// shipping their own implementation.
package native

import (
	"fmt"
	"sort"

	"github.com/neocorex/neogo/pkg/core/interop"
	"github.com/neocorex/neogo/pkg/crypto/hash"
	"github.com/neocorex/neogo/pkg/smartcontract/callflag"
	"github.com/neocorex/neogo/pkg/smartcontract/manifest"
	"github.com/neocorex/neogo/pkg/util"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// MethodAndPrice couples a manifest method entry with the VM resources
// invoking it costs and the call flags it requires of its caller.
type MethodAndPrice struct {
	MD       manifest.Method
	CPUPrice int64
	Flags    callflag.CallFlag
	Func     func(ic *interop.Context, args []stackitem.Item) stackitem.Item
}

// ContractMD is the fixed identity and method table shared by every
// native contract: its script hash, negative contract ID and the
// methods it exposes through the manifest.
type ContractMD struct {
	Name     string
	ID       int32
	Hash     util.Uint160
	Methods  []MethodAndPrice
	Manifest manifest.Manifest
}

// NewContractMD builds the metadata shell for a native contract; id must
// be negative, matching the convention that distinguishes native
// contracts from user-deployed ones.
func NewContractMD(name string, id int32) *ContractMD {
	m := ContractMD{
		Name: name,
		ID:   id,
	}
	mf := manifest.NewManifest(name)
	m.Manifest = *mf
	// Native contract hashes aren't deployment-derived like user
	// contracts' (no sender, no NEF): each is simply the Hash160 of its
	// own fixed name, stable across every chain that carries it.
	m.Hash = hash.Hash160([]byte(name))
	return &m
}

// AddMethod registers md under the contract, deriving its manifest
// entry and keeping the method table sorted by (name, paramcount) the
// way GetMethod expects to binary-search it.
func (c *ContractMD) AddMethod(md *MethodAndPrice) {
	c.Methods = append(c.Methods, *md)
	c.Manifest.ABI.Methods = append(c.Manifest.ABI.Methods, md.MD)
	sort.Slice(c.Methods, func(i, j int) bool {
		if c.Methods[i].MD.Name != c.Methods[j].MD.Name {
			return c.Methods[i].MD.Name < c.Methods[j].MD.Name
		}
		return len(c.Methods[i].MD.Parameters) < len(c.Methods[j].MD.Parameters)
	})
	sort.Slice(c.Manifest.ABI.Methods, func(i, j int) bool {
		mi, mj := c.Manifest.ABI.Methods[i], c.Manifest.ABI.Methods[j]
		if mi.Name != mj.Name {
			return mi.Name < mj.Name
		}
		return len(mi.Parameters) < len(mj.Parameters)
	})
}

// AddEvent registers an event this contract may notify with.
func (c *ContractMD) AddEvent(name string, params ...manifest.Parameter) {
	c.Manifest.ABI.Events = append(c.Manifest.ABI.Events, manifest.Event{
		Name:       name,
		Parameters: params,
	})
}

// GetMethod looks up the method named name taking exactly paramCount
// parameters.
func (c *ContractMD) GetMethod(name string, paramCount int) (*MethodAndPrice, bool) {
	for i := range c.Methods {
		if c.Methods[i].MD.Name == name && (paramCount < 0 || len(c.Methods[i].MD.Parameters) == paramCount) {
			return &c.Methods[i], true
		}
	}
	return nil, false
}

// Contract is implemented by every native contract: Management and
// Ledger deal with deployment and block/tx lookups the others depend
// on, so they run OnPersist before everything else (see Contracts'
// fixed ordering below).
type Contract interface {
	Metadata() *ContractMD
	Initialize(ic *interop.Context) error
	OnPersist(ic *interop.Context) error
	PostPersist(ic *interop.Context) error
}

// Invoke dispatches a call into c's method table, enforcing the
// argument count and call-flag permissions the manifest declares.
func Invoke(ic *interop.Context, c Contract, method string, args []stackitem.Item, flags callflag.CallFlag) (stackitem.Item, error) {
	md, ok := c.Metadata().GetMethod(method, len(args))
	if !ok {
		return nil, fmt.Errorf("method %s/%d not found in %s", method, len(args), c.Metadata().Name)
	}
	if md.Flags&flags != md.Flags {
		return nil, fmt.Errorf("missing call flags for %s.%s", c.Metadata().Name, method)
	}
	return md.Func(ic, args), nil
}

func toUint160(item stackitem.Item) util.Uint160 {
	h, err := util.Uint160DecodeBytesBE(item.Bytes())
	if err != nil {
		panic(err)
	}
	return h
}

func toBigInt(item stackitem.Item) int64 {
	n, err := stackitem.ToBigInt(item)
	if err != nil {
		panic(err)
	}
	return n.Int64()
}

func toString(item stackitem.Item) string {
	return string(item.Bytes())
}
