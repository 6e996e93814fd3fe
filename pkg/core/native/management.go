package native

import (
	"encoding/binary"
	"errors"

	"github.com/neocorex/neogo/pkg/core/interop"
	"github.com/neocorex/neogo/pkg/core/native/nativenames"
	"github.com/neocorex/neogo/pkg/core/state"
	"github.com/neocorex/neogo/pkg/smartcontract"
	"github.com/neocorex/neogo/pkg/smartcontract/callflag"
	"github.com/neocorex/neogo/pkg/smartcontract/manifest"
	"github.com/neocorex/neogo/pkg/smartcontract/nef"
	"github.com/neocorex/neogo/pkg/util"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// ManagementID is ContractManagement's fixed native contract ID.
const ManagementID = -1

const prefixNextAvailableID = 15

// Errors Deploy/Update/Destroy can return.
var (
	ErrAlreadyDeployed  = errors.New("contract already deployed")
	ErrContractNotFound = errors.New("contract not found")
	errSenderBlocked    = errors.New("sender account is blocked")
)

// Management is the ContractManagement native contract: it assigns each
// newly deployed contract a monotonically increasing ID and stores its
// NEF/manifest under its deployment-derived hash.
type Management struct {
	ContractMD

	// Policy is consulted for the blocked-accounts list during deploy
	// (a blocked sender may not deploy new contracts).
	Policy *Policy
}

// NewManagement builds ContractManagement's metadata and method table.
func NewManagement() *Management {
	m := &Management{ContractMD: *NewContractMD(nativenames.Management, ManagementID)}
	m.AddEvent("Deploy", manifest.Parameter{Name: "Hash", Type: smartcontract.Hash160Type})
	m.AddEvent("Update", manifest.Parameter{Name: "Hash", Type: smartcontract.Hash160Type})
	m.AddEvent("Destroy", manifest.Parameter{Name: "Hash", Type: smartcontract.Hash160Type})

	m.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name:       "getContract",
			Parameters: []manifest.Parameter{{Name: "hash", Type: smartcontract.Hash160Type}},
			ReturnType: smartcontract.ArrayType,
			Safe:       true,
		},
		Flags: callflag.ReadStates,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			cs, err := m.GetContract(ic, toUint160(args[0]))
			if err != nil {
				return stackitem.NewNull()
			}
			item, err := cs.ToStackItem()
			if err != nil {
				return stackitem.NewNull()
			}
			return item
		},
	})
	return m
}

// Metadata implements Contract.
func (m *Management) Metadata() *ContractMD { return &m.ContractMD }

// Initialize seeds the next-available-ID counter the first time this
// contract runs.
func (m *Management) Initialize(ic *interop.Context) error {
	return m.putNextAvailableID(ic, 1)
}

// OnPersist implements Contract; ContractManagement has no per-block work.
func (m *Management) OnPersist(ic *interop.Context) error { return nil }

// PostPersist implements Contract; ContractManagement has no per-block work.
func (m *Management) PostPersist(ic *interop.Context) error { return nil }

func (m *Management) getNextAvailableID(ic *interop.Context) int32 {
	si := ic.DAO.GetStorageItem(m.ID, []byte{prefixNextAvailableID})
	if si == nil {
		return 1
	}
	return int32(binary.LittleEndian.Uint32(si.Value))
}

func (m *Management) putNextAvailableID(ic *interop.Context, id int32) error {
	v := make([]byte, 4)
	binary.LittleEndian.PutUint32(v, uint32(id))
	return ic.DAO.PutStorageItem(m.ID, []byte{prefixNextAvailableID}, &state.StorageItem{Value: v})
}

// Deploy registers a new contract deployed by sender, running ne/manif
// through their own validation and assigning it the next available ID.
func (m *Management) Deploy(ic *interop.Context, sender util.Uint160, ne *nef.File, manif *manifest.Manifest) (*state.Contract, error) {
	if m.Policy != nil && m.Policy.IsBlocked(ic, sender) {
		return nil, errSenderBlocked
	}
	h := state.CreateContractHash(sender, ne.Script)
	if _, err := ic.DAO.GetContractState(h); err == nil {
		return nil, ErrAlreadyDeployed
	}
	id := m.getNextAvailableID(ic)
	cs := &state.Contract{
		ID:            id,
		UpdateCounter: 0,
		Hash:          h,
		NEF:           *ne,
		Manifest:      *manif,
	}
	if err := ic.DAO.PutContractState(cs); err != nil {
		return nil, err
	}
	if err := m.putNextAvailableID(ic, id+1); err != nil {
		return nil, err
	}
	return cs, nil
}

// Update replaces an already-deployed contract's NEF/manifest in place,
// bumping its UpdateCounter. A nil ne or manif leaves that half
// unchanged, matching the real contract's "update just the manifest"
// and "update just the script" call forms.
func (m *Management) Update(ic *interop.Context, hash util.Uint160, ne *nef.File, manif *manifest.Manifest) (*state.Contract, error) {
	cs, err := ic.DAO.GetContractState(hash)
	if err != nil {
		return nil, ErrContractNotFound
	}
	if ne != nil {
		cs.NEF = *ne
	}
	if manif != nil {
		cs.Manifest = *manif
	}
	cs.UpdateCounter++
	if err := ic.DAO.PutContractState(cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// Destroy removes a deployed contract's state entirely.
func (m *Management) Destroy(ic *interop.Context, hash util.Uint160) error {
	if _, err := ic.DAO.GetContractState(hash); err != nil {
		return ErrContractNotFound
	}
	return ic.DAO.DeleteContractState(hash)
}

// GetContract returns the contract deployed under hash.
func (m *Management) GetContract(ic *interop.Context, hash util.Uint160) (*state.Contract, error) {
	return ic.DAO.GetContractState(hash)
}
