package native

import (
	"encoding/base64"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/neocorex/neogo/pkg/core/interop"
	"github.com/neocorex/neogo/pkg/core/native/nativenames"
	"github.com/neocorex/neogo/pkg/encoding/base58"
	"github.com/neocorex/neogo/pkg/smartcontract"
	"github.com/neocorex/neogo/pkg/smartcontract/callflag"
	"github.com/neocorex/neogo/pkg/smartcontract/manifest"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// StdLibID is the StdLib contract's fixed native contract ID.
const StdLibID = -2

// Std is the StdLib native contract: string/number conversions and
// encodings a contract would otherwise have to implement from scratch
// in bytecode.
type Std struct {
	ContractMD
}

// NewStd builds StdLib's metadata and method table.
func NewStd() *Std {
	s := &Std{ContractMD: *NewContractMD(nativenames.StdLib, StdLibID)}
	byteParam := func(name string) manifest.Parameter {
		return manifest.Parameter{Name: name, Type: smartcontract.ByteArrayType}
	}
	s.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "base64Encode", Parameters: []manifest.Parameter{byteParam("data")}, ReturnType: smartcontract.StringType, Safe: true},
		Flags: callflag.NoneFlag,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			return stackitem.Make(base64.StdEncoding.EncodeToString(args[0].Bytes()))
		},
	})
	s.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "base64Decode", Parameters: []manifest.Parameter{{Name: "s", Type: smartcontract.StringType}}, ReturnType: smartcontract.ByteArrayType, Safe: true},
		Flags: callflag.NoneFlag,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			b, err := base64.StdEncoding.DecodeString(toString(args[0]))
			if err != nil {
				panic(err)
			}
			return stackitem.NewByteArray(b)
		},
	})
	s.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "base58Encode", Parameters: []manifest.Parameter{byteParam("data")}, ReturnType: smartcontract.StringType, Safe: true},
		Flags: callflag.NoneFlag,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			return stackitem.Make(base58.CheckEncode(args[0].Bytes()))
		},
	})
	s.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "base58Decode", Parameters: []manifest.Parameter{{Name: "s", Type: smartcontract.StringType}}, ReturnType: smartcontract.ByteArrayType, Safe: true},
		Flags: callflag.NoneFlag,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			b, err := base58.CheckDecode(toString(args[0]))
			if err != nil {
				panic(err)
			}
			return stackitem.NewByteArray(b)
		},
	})
	s.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "itoa", Parameters: []manifest.Parameter{{Name: "value", Type: smartcontract.IntegerType}}, ReturnType: smartcontract.StringType, Safe: true},
		Flags: callflag.NoneFlag,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			n, err := stackitem.ToBigInt(args[0])
			if err != nil {
				panic(err)
			}
			return stackitem.Make(n.String())
		},
	})
	s.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "atoi", Parameters: []manifest.Parameter{{Name: "value", Type: smartcontract.StringType}}, ReturnType: smartcontract.IntegerType, Safe: true},
		Flags: callflag.NoneFlag,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			n, ok := new(big.Int).SetString(strings.TrimSpace(toString(args[0])), 10)
			if !ok {
				panic("invalid integer string")
			}
			return stackitem.NewBigInteger(n)
		},
	})
	s.AddMethod(&MethodAndPrice{
		MD:    manifest.Method{Name: "jsonSerialize", Parameters: []manifest.Parameter{{Name: "item", Type: smartcontract.AnyType}}, ReturnType: smartcontract.ByteArrayType, Safe: true},
		Flags: callflag.NoneFlag,
		Func: func(ic *interop.Context, args []stackitem.Item) stackitem.Item {
			b, err := json.Marshal(args[0].Value())
			if err != nil {
				panic(err)
			}
			return stackitem.NewByteArray(b)
		},
	})
	return s
}

// Metadata implements Contract.
func (s *Std) Metadata() *ContractMD { return &s.ContractMD }

// Initialize implements Contract; StdLib carries no state.
func (s *Std) Initialize(ic *interop.Context) error { return nil }

// OnPersist implements Contract; StdLib carries no per-block state.
func (s *Std) OnPersist(ic *interop.Context) error { return nil }

// PostPersist implements Contract; StdLib carries no per-block state.
func (s *Std) PostPersist(ic *interop.Context) error { return nil }
