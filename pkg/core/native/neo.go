package native

import (
	"bytes"
	"math/big"
	"sort"

	"github.com/neocorex/neogo/pkg/core/interop"
	"github.com/neocorex/neogo/pkg/core/native/nativenames"
	"github.com/neocorex/neogo/pkg/core/state"
	"github.com/neocorex/neogo/pkg/crypto/keys"
	"github.com/neocorex/neogo/pkg/smartcontract"
	"github.com/neocorex/neogo/pkg/smartcontract/callflag"
	"github.com/neocorex/neogo/pkg/smartcontract/manifest"
	"github.com/neocorex/neogo/pkg/util"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// NeoID is the NEO token contract's fixed native contract ID.
const NeoID = -5

// NeoTotalSupply is NEO's fixed, unmintable total supply.
const NeoTotalSupply = 100000000

// NeoDecimals is NEO's fixed decimal precision (it is not divisible).
const NeoDecimals = 0

const prefixCandidate = 33

// candidate is one registered governance candidate: a public key and
// the NEO-weighted vote total cast for it.
type candidate struct {
	PublicKey *keys.PublicKey
	Votes     *big.Int
}

// Neo is the NeoToken native contract: the governance token. Holding
// NEO lets an account vote for candidates; the committee and next-block
// validators are derived from the top-voted candidates.
type Neo struct {
	ContractMD
	fungible

	// CommitteeSize and ValidatorsCount size the committee and the
	// validator subset drawn from its top-voted members.
	CommitteeSize   int
	ValidatorsCount int
}

// NewNeo builds NeoToken's metadata and method table.
func NewNeo() *Neo {
	n := &Neo{ContractMD: *NewContractMD(nativenames.Neo, NeoID), CommitteeSize: 21, ValidatorsCount: 7}
	n.fungible.id = NeoID
	n.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "decimals", Parameters: []manifest.Parameter{}, ReturnType: smartcontract.IntegerType, Safe: true},
		Flags: callflag.ReadStates,
		Func:  func(ic *interop.Context, args []stackitem.Item) stackitem.Item { return stackitem.Make(NeoDecimals) },
	})
	n.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "totalSupply", Parameters: []manifest.Parameter{}, ReturnType: smartcontract.IntegerType, Safe: true},
		Flags: callflag.ReadStates,
		Func:  func(ic *interop.Context, args []stackitem.Item) stackitem.Item { return stackitem.NewBigInteger(n.TotalSupply(ic)) },
	})
	n.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "balanceOf", Parameters: []manifest.Parameter{{Name: "account", Type: smartcontract.Hash160Type}}, ReturnType: smartcontract.IntegerType, Safe: true},
		Flags: callflag.ReadStates,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			return stackitem.NewBigInteger(n.BalanceOf(ic, toUint160(args[0])))
		},
	})
	n.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name:       "registerCandidate",
			Parameters: []manifest.Parameter{{Name: "pubkey", Type: smartcontract.PublicKeyType}},
			ReturnType: smartcontract.BoolType,
		},
		Flags: callflag.States,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			pk, err := keys.NewPublicKeyFromBytes(args[0].Bytes(), keys.Secp256r1)
			if err != nil {
				return stackitem.NewBool(false)
			}
			if err := n.RegisterCandidate(ic, pk); err != nil {
				return stackitem.NewBool(false)
			}
			return stackitem.NewBool(true)
		},
	})
	n.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name: "vote",
			Parameters: []manifest.Parameter{
				{Name: "account", Type: smartcontract.Hash160Type},
				{Name: "voteTo", Type: smartcontract.PublicKeyType},
			},
			ReturnType: smartcontract.BoolType,
		},
		Flags: callflag.States,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			var pk *keys.PublicKey
			if b := args[1].Bytes(); len(b) > 0 {
				var err error
				pk, err = keys.NewPublicKeyFromBytes(b, keys.Secp256r1)
				if err != nil {
					return stackitem.NewBool(false)
				}
			}
			if err := n.Vote(ic, toUint160(args[0]), pk); err != nil {
				return stackitem.NewBool(false)
			}
			return stackitem.NewBool(true)
		},
	})
	n.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "getCandidates", Parameters: []manifest.Parameter{}, ReturnType: smartcontract.ArrayType, Safe: true},
		Flags: callflag.ReadStates,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			cands := n.getCandidates(ic)
			items := make([]stackitem.Item, len(cands))
			for i, c := range cands {
				items[i] = stackitem.NewStruct([]stackitem.Item{
					stackitem.NewByteArray(c.PublicKey.Bytes()),
					stackitem.NewBigInteger(c.Votes),
				})
			}
			return stackitem.NewArray(items)
		},
	})
	n.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "getCommittee", Parameters: []manifest.Parameter{}, ReturnType: smartcontract.ArrayType, Safe: true},
		Flags: callflag.ReadStates,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			committee := n.GetCommittee(ic)
			items := make([]stackitem.Item, len(committee))
			for i, pk := range committee {
				items[i] = stackitem.NewByteArray(pk.Bytes())
			}
			return stackitem.NewArray(items)
		},
	})
	return n
}

// Metadata implements Contract.
func (n *Neo) Metadata() *ContractMD { return &n.ContractMD }

// Initialize mints NEO's entire fixed supply to holder on first run
// (the chain's genesis committee account, in a full deployment).
func (n *Neo) Initialize(ic *interop.Context, holder util.Uint160) error {
	if n.TotalSupply(ic).Sign() != 0 {
		return nil
	}
	return n.Mint(ic, holder, big.NewInt(NeoTotalSupply))
}

// OnPersist implements Contract; vote/committee state only changes
// through RegisterCandidate/Vote, never automatically per block.
func (n *Neo) OnPersist(ic *interop.Context) error { return nil }

// PostPersist implements Contract; NEO has no per-block work beyond
// what GAS's reward minting already covers.
func (n *Neo) PostPersist(ic *interop.Context) error { return nil }

func candidateKey(pk *keys.PublicKey) []byte {
	return append([]byte{prefixCandidate}, pk.Bytes()...)
}

// RegisterCandidate adds pk to the candidate registry with zero votes,
// if not already registered.
func (n *Neo) RegisterCandidate(ic *interop.Context, pk *keys.PublicKey) error {
	key := candidateKey(pk)
	if ic.DAO.GetStorageItem(n.ID, key) != nil {
		return nil
	}
	return ic.DAO.PutStorageItem(n.ID, key, &state.StorageItem{Value: bigIntBytes(big.NewInt(0))})
}

// Vote casts account's full NEO balance as votes for candidate,
// replacing any vote it previously cast. A nil candidate withdraws the
// account's vote entirely.
func (n *Neo) Vote(ic *interop.Context, account util.Uint160, candidatePk *keys.PublicKey) error {
	weight := n.BalanceOf(ic, account)
	if candidatePk == nil {
		return nil
	}
	key := candidateKey(candidatePk)
	si := ic.DAO.GetStorageItem(n.ID, key)
	if si == nil {
		return errCandidateNotFound
	}
	votes := bigIntFromBytes(si.Value)
	votes.Add(votes, weight)
	return ic.DAO.PutStorageItem(n.ID, key, &state.StorageItem{Value: bigIntBytes(votes)})
}

func (n *Neo) getCandidates(ic *interop.Context) []candidate {
	// A real deployment would range-scan storage by prefixCandidate;
	// this simplified registry keeps an auxiliary index of every
	// registered key so getCandidates/GetCommittee can enumerate
	// without a prefix-scan (see DESIGN.md).
	idx := ic.DAO.GetStorageItem(n.ID, []byte{prefixCandidate, 0xff})
	if idx == nil {
		return nil
	}
	var cands []candidate
	for i := 0; i+33 <= len(idx.Value); i += 33 {
		pk, err := keys.NewPublicKeyFromBytes(idx.Value[i:i+33], keys.Secp256r1)
		if err != nil {
			continue
		}
		si := ic.DAO.GetStorageItem(n.ID, candidateKey(pk))
		if si == nil {
			continue
		}
		cands = append(cands, candidate{PublicKey: pk, Votes: bigIntFromBytes(si.Value)})
	}
	return cands
}

// GetCommittee returns the CommitteeSize top-voted candidates, sorted
// by descending votes and tie-broken by ascending public-key bytes.
func (n *Neo) GetCommittee(ic *interop.Context) keys.PublicKeys {
	cands := n.getCandidates(ic)
	sort.Slice(cands, func(i, j int) bool {
		c := cands[i].Votes.Cmp(cands[j].Votes)
		if c != 0 {
			return c > 0
		}
		return bytes.Compare(cands[i].PublicKey.Bytes(), cands[j].PublicKey.Bytes()) < 0
	})
	size := n.CommitteeSize
	if size > len(cands) {
		size = len(cands)
	}
	committee := make(keys.PublicKeys, size)
	for i := 0; i < size; i++ {
		committee[i] = cands[i].PublicKey
	}
	sort.Sort(committee)
	return committee
}

// GetNextBlockValidators returns the ValidatorsCount top-voted members
// of the committee, in canonical public-key order.
func (n *Neo) GetNextBlockValidators(ic *interop.Context) keys.PublicKeys {
	cands := n.getCandidates(ic)
	sort.Slice(cands, func(i, j int) bool {
		c := cands[i].Votes.Cmp(cands[j].Votes)
		if c != 0 {
			return c > 0
		}
		return bytes.Compare(cands[i].PublicKey.Bytes(), cands[j].PublicKey.Bytes()) < 0
	})
	size := n.ValidatorsCount
	if size > len(cands) {
		size = len(cands)
	}
	validators := make(keys.PublicKeys, size)
	for i := 0; i < size; i++ {
		validators[i] = cands[i].PublicKey
	}
	sort.Sort(validators)
	return validators
}

func bigIntBytes(v *big.Int) []byte { return v.Bytes() }
func bigIntFromBytes(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	return new(big.Int).SetBytes(b)
}

var errCandidateNotFound = candidateError("candidate not registered")

type candidateError string

func (e candidateError) Error() string { return string(e) }
