package native

import (
	"github.com/neocorex/neogo/pkg/core/interop"
	"github.com/neocorex/neogo/pkg/core/native/nativenames"
	"github.com/neocorex/neogo/pkg/crypto/hash"
	"github.com/neocorex/neogo/pkg/crypto/keys"
	"github.com/neocorex/neogo/pkg/smartcontract"
	"github.com/neocorex/neogo/pkg/smartcontract/callflag"
	"github.com/neocorex/neogo/pkg/smartcontract/manifest"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// CryptoLibID is the CryptoLib contract's fixed native contract ID.
const CryptoLibID = -3

// Crypto is the CryptoLib native contract: hashing and signature
// verification primitives exposed to other contracts so they don't need
// to reimplement them in NeoVM bytecode.
type Crypto struct {
	ContractMD
}

// NewCrypto builds CryptoLib's metadata and method table.
func NewCrypto() *Crypto {
	c := &Crypto{ContractMD: *NewContractMD(nativenames.CryptoLib, CryptoLibID)}
	c.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name:       "sha256",
			Parameters: []manifest.Parameter{{Name: "data", Type: smartcontract.ByteArrayType}},
			ReturnType: smartcontract.ByteArrayType,
			Safe:       true,
		},
		Flags: callflag.NoneFlag,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			h := hash.Sha256(args[0].Bytes())
			return stackitem.NewByteArray(h.BytesBE())
		},
	})
	c.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name:       "ripemd160",
			Parameters: []manifest.Parameter{{Name: "data", Type: smartcontract.ByteArrayType}},
			ReturnType: smartcontract.ByteArrayType,
			Safe:       true,
		},
		Flags: callflag.NoneFlag,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			h := hash.RipeMD160(args[0].Bytes())
			return stackitem.NewByteArray(h.BytesBE())
		},
	})
	c.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name:       "murmur32",
			Parameters: []manifest.Parameter{{Name: "data", Type: smartcontract.ByteArrayType}, {Name: "seed", Type: smartcontract.IntegerType}},
			ReturnType: smartcontract.ByteArrayType,
			Safe:       true,
		},
		Flags: callflag.NoneFlag,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			return stackitem.NewByteArray(hash.Checksum(args[0].Bytes()))
		},
	})
	c.AddMethod(&MethodAndPrice{
		MD: manifest.Method{
			Name: "verifyWithECDsa",
			Parameters: []manifest.Parameter{
				{Name: "message", Type: smartcontract.ByteArrayType},
				{Name: "pubkey", Type: smartcontract.ByteArrayType},
				{Name: "signature", Type: smartcontract.ByteArrayType},
				{Name: "curve", Type: smartcontract.IntegerType},
			},
			ReturnType: smartcontract.BoolType,
			Safe:       true,
		},
		Flags: callflag.NoneFlag,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			return stackitem.NewBool(c.VerifyWithECDSA(args[0].Bytes(), args[1].Bytes(), args[2].Bytes(), keys.Curve(toBigInt(args[3]))))
		},
	})
	return c
}

// Metadata implements Contract.
func (c *Crypto) Metadata() *ContractMD { return &c.ContractMD }

// Initialize implements Contract; CryptoLib carries no state.
func (c *Crypto) Initialize(ic *interop.Context) error { return nil }

// OnPersist implements Contract; CryptoLib carries no per-block state.
func (c *Crypto) OnPersist(ic *interop.Context) error { return nil }

// PostPersist implements Contract; CryptoLib carries no per-block state.
func (c *Crypto) PostPersist(ic *interop.Context) error { return nil }

// VerifyWithECDSA reports whether sig is a valid signature over msg by
// the key encoded in pub on the named curve.
func (c *Crypto) VerifyWithECDSA(msg, pub, sig []byte, curve keys.Curve) bool {
	pk, err := keys.NewPublicKeyFromBytes(pub, curve)
	if err != nil {
		return false
	}
	return keys.Verify(pk, msg, sig)
}
