package vm

import "github.com/neocorex/neogo/pkg/vm/opcode"

// gasFactor is the fixed-point scale applied to every base price below: a
// price of 1 costs 1*gasFactor "datoshi" of execution gas, matching the
// GAS token's 8-decimal denomination used for all ledger-wide fee
// accounting.
const gasFactor = 1 << 12

// opcodePrice returns the fixed gas cost of executing op, before any
// data-dependent surcharge (see dataGasPrice). Tiers follow the reference
// VM's grouping: trivial stack/flow ops are cheapest, hashing-adjacent and
// allocation-heavy ops cost more, SYSCALL's own price is looked up
// separately from the interop table.
func opcodePrice(op opcode.Opcode) int64 {
	switch {
	case op <= opcode.PUSH16:
		return 1 * gasFactor
	case op == opcode.SYSCALL:
		return 0
	case op == opcode.CALL || op == opcode.CALLL || op == opcode.CALLA || op == opcode.CALLT:
		return 512 * gasFactor
	case op == opcode.NEWARRAY0 || op == opcode.NEWSTRUCT0 || op == opcode.NEWMAP:
		return 16 * gasFactor
	case op == opcode.NEWARRAY || op == opcode.NEWARRAYT || op == opcode.NEWSTRUCT:
		return 512 * gasFactor
	case op == opcode.PACK || op == opcode.UNPACK || op == opcode.PACKMAP || op == opcode.PACKSTRUCT:
		return 2048 * gasFactor
	case op == opcode.NEWBUFFER:
		return 256 * gasFactor
	case op == opcode.MEMCPY || op == opcode.CAT || op == opcode.SUBSTR || op == opcode.LEFT || op == opcode.RIGHT:
		return 2048 * gasFactor
	case op >= opcode.SIGN && op <= opcode.WITHIN:
		return 8 * gasFactor
	case op == opcode.MODMUL || op == opcode.MODPOW || op == opcode.POW || op == opcode.SQRT:
		return 64 * gasFactor
	case op == opcode.INVERT || op == opcode.AND || op == opcode.OR || op == opcode.XOR:
		return 8 * gasFactor
	case op == opcode.EQUAL || op == opcode.NOTEQUAL:
		return 32 * gasFactor
	case op >= opcode.TRY && op <= opcode.ENDFINALLY:
		return 4 * gasFactor
	default:
		return 1 * gasFactor
	}
}

// dataGasPrice returns the extra cost proportional to a data-dependent
// operand or popped byte length, charged in addition to opcodePrice.
func dataGasPrice(n int) int64 {
	return int64(n) * gasFactor / 4
}
