package vm

import (
	"errors"

	"github.com/neocorex/neogo/pkg/vm/opcode"
)

// ErrInvalidJump is returned when a jump target falls outside the script or
// lands in the middle of an instruction.
var ErrInvalidJump = errors.New("invalid jump target")

// ErrInvalidInstruction marks an opcode byte with no defined meaning, or an
// operand that runs past the end of the script.
var ErrInvalidInstruction = errors.New("invalid instruction")

// CallFlags restricts what an invocation is permitted to do; contexts
// inherit a subset of their caller's flags across CALL, and narrower
// subsets across contract-to-contract calls.
type CallFlags byte

// Call flag bits, narrowest to widest.
const (
	ReadStates CallFlags = 1 << iota
	WriteStates
	AllowCall
	AllowNotify

	States       = ReadStates | WriteStates
	ReadOnly     = ReadStates | AllowCall | AllowNotify
	All          = States | AllowCall | AllowNotify
	NoneFlags    = CallFlags(0)
)

// Has reports whether all bits in required are set in f.
func (f CallFlags) Has(required CallFlags) bool { return f&required == required }

// Script is an immutable bytecode buffer paired with a validated bitmap of
// instruction-start offsets, so jump targets can be range/alignment checked
// in O(1) without re-walking the decode on every JMP.
type Script struct {
	raw      []byte
	starts   []bool
	hasCode  bool
}

// NewScript parses raw into a Script, pre-validating every instruction
// boundary and all immediate operand lengths without otherwise
// interpreting the bytecode.
func NewScript(raw []byte) (*Script, error) {
	s := &Script{raw: raw, starts: make([]bool, len(raw)+1)}
	ip := 0
	for ip < len(raw) {
		s.starts[ip] = true
		op := opcode.Opcode(raw[ip])
		size, hasOperand, err := instrSize(op, raw, ip)
		if err != nil {
			return nil, err
		}
		_ = hasOperand
		ip += size
		s.hasCode = true
	}
	if ip != len(raw) {
		return nil, ErrInvalidInstruction
	}
	s.starts[len(raw)] = true
	return s, nil
}

// Len returns the script length in bytes.
func (s *Script) Len() int { return len(s.raw) }

// Bytes returns the raw script bytes (not a copy; callers must not mutate).
func (s *Script) Bytes() []byte { return s.raw }

// IsValidOffset reports whether ip is either a valid instruction start or
// exactly the end-of-script position (valid for RET's implicit fallthrough).
func (s *Script) IsValidOffset(ip int) bool {
	return ip >= 0 && ip < len(s.starts) && s.starts[ip]
}

// instrSize returns the total encoded length (opcode + operand) of the
// instruction at raw[ip], validating that any operand bytes are present.
func instrSize(op opcode.Opcode, raw []byte, ip int) (int, bool, error) {
	fixed, ok := fixedOperandSizes[op]
	if ok {
		if ip+1+fixed > len(raw) {
			return 0, false, ErrInvalidInstruction
		}
		return 1 + fixed, fixed > 0, nil
	}
	switch op {
	case opcode.PUSHDATA1:
		if ip+2 > len(raw) {
			return 0, false, ErrInvalidInstruction
		}
		n := int(raw[ip+1])
		if ip+2+n > len(raw) {
			return 0, false, ErrInvalidInstruction
		}
		return 2 + n, true, nil
	case opcode.PUSHDATA2:
		if ip+3 > len(raw) {
			return 0, false, ErrInvalidInstruction
		}
		n := int(raw[ip+1]) | int(raw[ip+2])<<8
		if ip+3+n > len(raw) {
			return 0, false, ErrInvalidInstruction
		}
		return 3 + n, true, nil
	case opcode.PUSHDATA4:
		if ip+5 > len(raw) {
			return 0, false, ErrInvalidInstruction
		}
		n := int(raw[ip+1]) | int(raw[ip+2])<<8 | int(raw[ip+3])<<16 | int(raw[ip+4])<<24
		if n < 0 || ip+5+n > len(raw) {
			return 0, false, ErrInvalidInstruction
		}
		return 5 + n, true, nil
	}
	return 0, false, ErrInvalidInstruction
}

// fixedOperandSizes gives the operand byte-count for every opcode whose
// operand isn't length-prefixed data.
var fixedOperandSizes = map[opcode.Opcode]int{
	opcode.PUSHINT8: 1, opcode.PUSHINT16: 2, opcode.PUSHINT32: 4,
	opcode.PUSHINT64: 8, opcode.PUSHINT128: 16, opcode.PUSHINT256: 32,
	opcode.PUSHT: 0, opcode.PUSHF: 0, opcode.PUSHA: 4, opcode.PUSHNULL: 0,
	opcode.PUSHM1: 0,
	opcode.PUSH0: 0, opcode.PUSH1: 0, opcode.PUSH2: 0, opcode.PUSH3: 0,
	opcode.PUSH4: 0, opcode.PUSH5: 0, opcode.PUSH6: 0, opcode.PUSH7: 0,
	opcode.PUSH8: 0, opcode.PUSH9: 0, opcode.PUSH10: 0, opcode.PUSH11: 0,
	opcode.PUSH12: 0, opcode.PUSH13: 0, opcode.PUSH14: 0, opcode.PUSH15: 0,
	opcode.PUSH16: 0,
	opcode.NOP: 0, opcode.JMP: 1, opcode.JMPL: 4, opcode.JMPIF: 1, opcode.JMPIFL: 4,
	opcode.JMPIFNOT: 1, opcode.JMPIFNOTL: 4, opcode.JMPEQ: 1, opcode.JMPEQL: 4,
	opcode.JMPNE: 1, opcode.JMPNEL: 4, opcode.JMPGT: 1, opcode.JMPGTL: 4,
	opcode.JMPGE: 1, opcode.JMPGEL: 4, opcode.JMPLT: 1, opcode.JMPLTL: 4,
	opcode.JMPLE: 1, opcode.JMPLEL: 4,
	opcode.CALL: 1, opcode.CALLL: 4, opcode.CALLA: 0, opcode.CALLT: 2,
	opcode.ABORT: 0, opcode.ASSERT: 0, opcode.THROW: 0,
	opcode.TRY: 2, opcode.TRYL: 8, opcode.ENDTRY: 1, opcode.ENDTRYL: 4,
	opcode.ENDFINALLY: 0, opcode.RET: 0, opcode.SYSCALL: 4,
	opcode.DEPTH: 0, opcode.DROP: 0, opcode.NIP: 0, opcode.XDROP: 0, opcode.CLEAR: 0,
	opcode.DUP: 0, opcode.OVER: 0, opcode.PICK: 0, opcode.TUCK: 0, opcode.SWAP: 0,
	opcode.ROT: 0, opcode.ROLL: 0, opcode.REVERSE3: 0, opcode.REVERSE4: 0,
	opcode.REVERSEN: 0,
	opcode.INITSSLOT: 1, opcode.INITSLOT: 2,
	opcode.LDSFLD0: 0, opcode.LDSFLD: 1, opcode.STSFLD0: 0, opcode.STSFLD: 1,
	opcode.LDLOC0: 0, opcode.LDLOC: 1, opcode.STLOC0: 0, opcode.STLOC: 1,
	opcode.LDARG0: 0, opcode.LDARG: 1, opcode.STARG0: 0, opcode.STARG: 1,
	opcode.NEWBUFFER: 0, opcode.MEMCPY: 0, opcode.CAT: 0, opcode.SUBSTR: 0,
	opcode.LEFT: 0, opcode.RIGHT: 0,
	opcode.INVERT: 0, opcode.AND: 0, opcode.OR: 0, opcode.XOR: 0,
	opcode.EQUAL: 0, opcode.NOTEQUAL: 0,
	opcode.SIGN: 0, opcode.ABS: 0, opcode.NEGATE: 0, opcode.INC: 0, opcode.DEC: 0,
	opcode.ADD: 0, opcode.SUB: 0, opcode.MUL: 0, opcode.DIV: 0, opcode.MOD: 0,
	opcode.POW: 0, opcode.SQRT: 0, opcode.MODMUL: 0, opcode.MODPOW: 0,
	opcode.SHL: 0, opcode.SHR: 0, opcode.NOT: 0, opcode.BOOLAND: 0, opcode.BOOLOR: 0,
	opcode.NUMEQUAL: 0, opcode.NUMNOTEQUAL: 0,
	opcode.LT: 0, opcode.LE: 0, opcode.GT: 0, opcode.GE: 0,
	opcode.MIN: 0, opcode.MAX: 0, opcode.WITHIN: 0,
	opcode.PACKMAP: 0, opcode.PACKSTRUCT: 0, opcode.PACK: 0, opcode.UNPACK: 0,
	opcode.NEWARRAY0: 0, opcode.NEWARRAY: 0, opcode.NEWARRAYT: 1,
	opcode.NEWSTRUCT0: 0, opcode.NEWSTRUCT: 0, opcode.NEWMAP: 0,
	opcode.SIZE: 0, opcode.HASKEY: 0, opcode.KEYS: 0, opcode.VALUES: 0,
	opcode.PICKITEM: 0, opcode.APPEND: 0, opcode.SETITEM: 0,
	opcode.REVERSEITEMS: 0, opcode.REMOVE: 0, opcode.CLEARITEMS: 0,
	opcode.POPITEM: 0,
	opcode.ISNULL: 0, opcode.ISTYPE: 1, opcode.CONVERT: 1,
	opcode.ABORTMSG: 0, opcode.ASSERTMSG: 0,
}
