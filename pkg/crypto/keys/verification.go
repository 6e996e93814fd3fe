package keys

import (
	"github.com/neocorex/neogo/pkg/crypto/hash"
	"github.com/neocorex/neogo/pkg/encoding/address"
	"github.com/neocorex/neogo/pkg/util"
)

// Opcode values duplicated from pkg/vm/opcode to avoid an import cycle
// (the VM package depends on keys for witness verification helpers).
const (
	opPushData1 = 0x0C
	opSysCall   = 0x41
)

// syscallHash returns the first 4 bytes (little-endian) of Sha256(name),
// the interop dispatch key used in SYSCALL operands.
func syscallHash(name string) [4]byte {
	h := hash.Sha256([]byte(name))
	var out [4]byte
	copy(out[:], h[:4])
	return out
}

// VerificationScript returns the canonical single-signature verification
// script for this public key: PUSHDATA1 <pubkey> SYSCALL CheckSig.
func (p *PublicKey) VerificationScript() []byte {
	b := p.Bytes()
	script := make([]byte, 0, 2+len(b)+5)
	script = append(script, opPushData1, byte(len(b)))
	script = append(script, b...)
	script = append(script, opSysCall)
	h := syscallHash("System.Crypto.CheckSig")
	script = append(script, h[:]...)
	return script
}

func scriptHashToAddress(u util.Uint160) (string, error) {
	return address.Uint160ToString(u), nil
}
