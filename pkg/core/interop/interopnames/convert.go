// Package interopnames lists the names of the interop (syscall) functions
// the VM can invoke and converts between a name and the 4-byte ID the
// bytecode actually references (computed the same way contract method
// hashes are: first 4 bytes of the name's SHA-256, not a hand-assigned
// table, so a new interop only needs a name added to this list).
package interopnames

import (
	"encoding/binary"
	"errors"

	"github.com/neocorex/neogo/pkg/crypto/hash"
)

// Names of every interop function native contracts and the VM's System.*
// syscalls may reference.
const (
	SystemContractCall                 = "System.Contract.Call"
	SystemContractCallNative           = "System.Contract.CallNative"
	SystemContractGetCallFlags         = "System.Contract.GetCallFlags"
	SystemContractCreateStandardAccount = "System.Contract.CreateStandardAccount"
	SystemContractCreateMultisigAccount = "System.Contract.CreateMultisigAccount"
	SystemContractNativeOnPersist      = "System.Contract.NativeOnPersist"
	SystemContractNativePostPersist    = "System.Contract.NativePostPersist"
	SystemCryptoCheckSig               = "System.Crypto.CheckSig"
	SystemCryptoCheckMultisig          = "System.Crypto.CheckMultisig"
	SystemIteratorNext                 = "System.Iterator.Next"
	SystemIteratorValue                = "System.Iterator.Value"
	SystemRuntimeBurnGas                = "System.Runtime.BurnGas"
	SystemRuntimeCheckWitness           = "System.Runtime.CheckWitness"
	SystemRuntimeGasLeft                = "System.Runtime.GasLeft"
	SystemRuntimeGetInvocationCounter   = "System.Runtime.GetInvocationCounter"
	SystemRuntimeGetNetwork             = "System.Runtime.GetNetwork"
	SystemRuntimeGetNotifications       = "System.Runtime.GetNotifications"
	SystemRuntimeGetRandom              = "System.Runtime.GetRandom"
	SystemRuntimeGetScriptContainer     = "System.Runtime.GetScriptContainer"
	SystemRuntimeGetTrigger             = "System.Runtime.GetTrigger"
	SystemRuntimeLoadScript             = "System.Runtime.LoadScript"
	SystemRuntimeLog                    = "System.Runtime.Log"
	SystemRuntimeNotify                 = "System.Runtime.Notify"
	SystemRuntimePlatform               = "System.Runtime.Platform"
	SystemStorageDelete                 = "System.Storage.Delete"
	SystemStorageFind                   = "System.Storage.Find"
	SystemStorageGet                    = "System.Storage.Get"
	SystemStorageGetContext             = "System.Storage.GetContext"
	SystemStorageGetReadOnlyContext     = "System.Storage.GetReadOnlyContext"
	SystemStorageLocalGet               = "System.Storage.LocalGet"
	SystemStoragePut                    = "System.Storage.Put"
	SystemStorageAsReadOnly             = "System.Storage.AsReadOnly"
)

var names = []string{
	SystemContractCall,
	SystemContractCallNative,
	SystemContractGetCallFlags,
	SystemContractCreateStandardAccount,
	SystemContractCreateMultisigAccount,
	SystemContractNativeOnPersist,
	SystemContractNativePostPersist,
	SystemCryptoCheckSig,
	SystemCryptoCheckMultisig,
	SystemIteratorNext,
	SystemIteratorValue,
	SystemRuntimeBurnGas,
	SystemRuntimeCheckWitness,
	SystemRuntimeGasLeft,
	SystemRuntimeGetInvocationCounter,
	SystemRuntimeGetNetwork,
	SystemRuntimeGetNotifications,
	SystemRuntimeGetRandom,
	SystemRuntimeGetScriptContainer,
	SystemRuntimeGetTrigger,
	SystemRuntimeLoadScript,
	SystemRuntimeLog,
	SystemRuntimeNotify,
	SystemRuntimePlatform,
	SystemStorageDelete,
	SystemStorageFind,
	SystemStorageGet,
	SystemStorageGetContext,
	SystemStorageGetReadOnlyContext,
	SystemStorageLocalGet,
	SystemStoragePut,
	SystemStorageAsReadOnly,
}

var errNotFound = errors.New("interop not found")

// ToID returns the 4-byte little-endian ID a CALLT/SYSCALL instruction
// actually references for the named interop.
func ToID(name []byte) uint32 {
	h := hash.Sha256(name)
	return binary.LittleEndian.Uint32(h[:4])
}

// FromID reverses ToID, returning the name of a known interop whose ID
// matches, or errNotFound if none does.
func FromID(id uint32) (string, error) {
	for _, n := range names {
		if ToID([]byte(n)) == id {
			return n, nil
		}
	}
	return "", errNotFound
}
