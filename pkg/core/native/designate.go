package native

import (
	"encoding/binary"
	"sort"

	"github.com/neocorex/neogo/pkg/core/interop"
	"github.com/neocorex/neogo/pkg/core/native/nativenames"
	"github.com/neocorex/neogo/pkg/core/native/noderoles"
	"github.com/neocorex/neogo/pkg/core/state"
	"github.com/neocorex/neogo/pkg/crypto/keys"
	"github.com/neocorex/neogo/pkg/smartcontract"
	"github.com/neocorex/neogo/pkg/smartcontract/callflag"
	"github.com/neocorex/neogo/pkg/smartcontract/manifest"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// DesignateID is the RoleManagement contract's fixed native contract ID.
const DesignateID = -8

// Designate is the RoleManagement native contract: it records, per
// role and per block height, the set of public keys designated to
// perform that role (oracle nodes, state validators, and so on).
type Designate struct {
	ContractMD
}

// NewDesignate builds RoleManagement's metadata and method table.
func NewDesignate() *Designate {
	d := &Designate{ContractMD: *NewContractMD(nativenames.Designate, DesignateID)}
	d.AddEvent("Designation",
		manifest.Parameter{Name: "Role", Type: smartcontract.IntegerType},
		manifest.Parameter{Name: "BlockIndex", Type: smartcontract.IntegerType})
	d.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name: "getDesignatedByRole",
			Parameters: []manifest.Parameter{
				{Name: "role", Type: smartcontract.IntegerType},
				{Name: "index", Type: smartcontract.IntegerType},
			},
			ReturnType: smartcontract.ArrayType,
			Safe:       true,
		},
		Flags: callflag.ReadStates,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			role := noderoles.Role(toBigInt(args[0]))
			index := uint32(toBigInt(args[1]))
			pubs := d.GetDesignatedByRole(ic, role, index)
			items := make([]stackitem.Item, len(pubs))
			for i, pk := range pubs {
				items[i] = stackitem.NewByteArray(pk.Bytes())
			}
			return stackitem.NewArray(items)
		},
	})
	return d
}

// Metadata implements Contract.
func (d *Designate) Metadata() *ContractMD { return &d.ContractMD }

// Initialize implements Contract; RoleManagement starts with no
// designations at all.
func (d *Designate) Initialize(ic *interop.Context) error { return nil }

// OnPersist implements Contract; designations only change through
// DesignateAsRole, never automatically.
func (d *Designate) OnPersist(ic *interop.Context) error { return nil }

// PostPersist implements Contract; RoleManagement has no per-block work.
func (d *Designate) PostPersist(ic *interop.Context) error { return nil }

func roleKey(role noderoles.Role, index uint32) []byte {
	key := make([]byte, 5)
	key[0] = byte(role)
	binary.BigEndian.PutUint32(key[1:], index)
	return key
}

// DesignateAsRole overwrites the designated key set for role, effective
// from index onward. Callers must check the committee witness before
// invoking this.
func (d *Designate) DesignateAsRole(ic *interop.Context, role noderoles.Role, pubs keys.PublicKeys) error {
	sort.Sort(pubs)
	buf := make([]byte, 0, len(pubs)*33)
	for _, pk := range pubs {
		buf = append(buf, pk.Bytes()...)
	}
	return ic.DAO.PutStorageItem(d.ID, roleKey(role, ic.Block.Index), &state.StorageItem{Value: buf})
}

// GetDesignatedByRole returns the key set designated for role as of
// the most recent DesignateAsRole call at or before index. A real
// deployment would index this by range-scanning storage keys directly,
// but the DataCache layer here doesn't expose a prefix-scan yet (see
// DESIGN.md), so heights are walked one at a time.
func (d *Designate) GetDesignatedByRole(ic *interop.Context, role noderoles.Role, index uint32) keys.PublicKeys {
	var best []byte
	var bestIndex uint32
	found := false
	for i := uint32(0); i <= index; i++ {
		si := ic.DAO.GetStorageItem(d.ID, roleKey(role, i))
		if si == nil {
			continue
		}
		if !found || i >= bestIndex {
			best = si.Value
			bestIndex = i
			found = true
		}
	}
	if !found {
		return nil
	}
	pubs := make(keys.PublicKeys, 0, len(best)/33)
	for i := 0; i+33 <= len(best); i += 33 {
		pk, err := keys.NewPublicKeyFromBytes(best[i:i+33], keys.Secp256r1)
		if err != nil {
			continue
		}
		pubs = append(pubs, pk)
	}
	return pubs
}
