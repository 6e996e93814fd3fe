package vm

import (
	"encoding/binary"
	"math/big"

	"github.com/neocorex/neogo/pkg/vm/opcode"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// execute dispatches a single decoded instruction. ctx.ip already points
// past the instruction by the time this runs, so jump opcodes compute
// their target relative to the instruction's own start, which the caller
// does not retain -- each jump opcode recomputes it from the operand and
// the (already advanced) ip minus the instruction length it knows it has.
func (v *VM) execute(ctx *ExecutionContext, op opcode.Opcode, operand []byte) error {
	switch {
	case op <= opcode.PUSHINT256:
		v.estack.Push(stackitem.NewBigInteger(fromLE(operand)))
		return nil
	case op == opcode.PUSHT:
		v.estack.Push(stackitem.NewBool(true))
		return nil
	case op == opcode.PUSHF:
		v.estack.Push(stackitem.NewBool(false))
		return nil
	case op == opcode.PUSHNULL:
		v.estack.Push(stackitem.NewNull())
		return nil
	case op == opcode.PUSHA:
		offset := ctx.ip + int(int32(binary.LittleEndian.Uint32(operand))) - len(operand) - 1
		if !ctx.script.IsValidOffset(offset) {
			return ErrInvalidJump
		}
		v.estack.Push(stackitem.NewPointer(offset, ctx.script.Bytes()))
		return nil
	case op == opcode.PUSHDATA1 || op == opcode.PUSHDATA2 || op == opcode.PUSHDATA4:
		v.estack.Push(stackitem.NewByteArray(append([]byte(nil), operand...)))
		return nil
	case op == opcode.PUSHM1:
		v.estack.Push(stackitem.NewBigInteger(big.NewInt(-1)))
		return nil
	case op >= opcode.PUSH0 && op <= opcode.PUSH16:
		v.estack.Push(stackitem.NewBigInteger(big.NewInt(int64(op - opcode.PUSH0))))
		return nil
	}

	switch op {
	case opcode.NOP:
		return nil
	case opcode.JMP, opcode.JMPL:
		return v.jumpIf(ctx, op, operand, true)
	case opcode.JMPIF, opcode.JMPIFL:
		return v.jumpIf(ctx, op, operand, popBool(v))
	case opcode.JMPIFNOT, opcode.JMPIFNOTL:
		return v.jumpIf(ctx, op, operand, !popBool(v))
	case opcode.JMPEQ, opcode.JMPEQL, opcode.JMPNE, opcode.JMPNEL,
		opcode.JMPGT, opcode.JMPGTL, opcode.JMPGE, opcode.JMPGEL,
		opcode.JMPLT, opcode.JMPLTL, opcode.JMPLE, opcode.JMPLEL:
		return v.jumpCompare(ctx, op, operand)
	case opcode.CALL, opcode.CALLL:
		return v.call(ctx, op, operand)
	case opcode.CALLA:
		return v.callA(ctx)
	case opcode.CALLT:
		if v.CallToken == nil {
			return ErrInvalidInstruction
		}
		return v.CallToken(v, binary.LittleEndian.Uint16(operand))
	case opcode.ABORT:
		return errAbort
	case opcode.ASSERT:
		if !popBool(v) {
			return errAssertFailed
		}
		return nil
	case opcode.ABORTMSG:
		msg := v.estack.Pop()
		return &abortError{msg: string(msg.Bytes())}
	case opcode.ASSERTMSG:
		msg := v.estack.Pop()
		if !popBool(v) {
			return &assertError{msg: string(msg.Bytes())}
		}
		return nil
	case opcode.THROW:
		item := v.estack.Pop()
		if v.handleException(item) {
			return nil
		}
		v.uncaught = item
		return ErrUncaughtException
	case opcode.TRY, opcode.TRYL:
		return v.execTry(ctx, op, operand)
	case opcode.ENDTRY, opcode.ENDTRYL:
		return v.endTry(ctx, op, operand)
	case opcode.ENDFINALLY:
		return v.endFinally(ctx)
	case opcode.RET:
		ctx.ip = ctx.script.Len()
		return v.execReturn()
	case opcode.SYSCALL:
		return v.syscall(operand)

	case opcode.DEPTH:
		v.estack.Push(stackitem.NewBigInteger(big.NewInt(int64(v.estack.Len()))))
	case opcode.DROP:
		v.estack.Pop()
	case opcode.NIP:
		v.estack.Remove(1)
	case opcode.XDROP:
		n := mustInt(popInt(v))
		v.estack.Remove(n)
	case opcode.CLEAR:
		v.estack.Clear()
	case opcode.DUP:
		v.estack.Push(v.estack.Peek(0).Dup())
	case opcode.OVER:
		v.estack.Push(v.estack.Peek(1).Dup())
	case opcode.PICK:
		n := mustInt(popInt(v))
		v.estack.Push(v.estack.Peek(n).Dup())
	case opcode.TUCK:
		v.estack.Insert(2, v.estack.Peek(0).Dup())
	case opcode.SWAP:
		top, second := v.estack.Pop(), v.estack.Pop()
		v.estack.Push(top)
		v.estack.Push(second)
	case opcode.ROT:
		a := v.estack.Remove(2)
		v.estack.Push(a)
	case opcode.ROLL:
		n := mustInt(popInt(v))
		if n > 0 {
			a := v.estack.Remove(n)
			v.estack.Push(a)
		}
	case opcode.REVERSE3:
		reverseTop(v.estack, 3)
	case opcode.REVERSE4:
		reverseTop(v.estack, 4)
	case opcode.REVERSEN:
		n := mustInt(popInt(v))
		reverseTop(v.estack, n)

	case opcode.INITSSLOT:
		ctx.InitStatic(int(operand[0]), v.refs)
	case opcode.INITSLOT:
		ctx.InitLocals(int(operand[0]), int(operand[1]), v.refs)
	case opcode.LDSFLD0, opcode.LDSFLD:
		v.estack.Push(ctx.static.Get(slotIndex(op, opcode.LDSFLD0, operand)).Dup())
	case opcode.STSFLD0, opcode.STSFLD:
		ctx.static.Set(slotIndex(op, opcode.STSFLD0, operand), v.estack.Pop())
	case opcode.LDLOC0, opcode.LDLOC:
		v.estack.Push(ctx.local.Get(slotIndex(op, opcode.LDLOC0, operand)).Dup())
	case opcode.STLOC0, opcode.STLOC:
		ctx.local.Set(slotIndex(op, opcode.STLOC0, operand), v.estack.Pop())
	case opcode.LDARG0, opcode.LDARG:
		v.estack.Push(ctx.args.Get(slotIndex(op, opcode.LDARG0, operand)).Dup())
	case opcode.STARG0, opcode.STARG:
		ctx.args.Set(slotIndex(op, opcode.STARG0, operand), v.estack.Pop())

	case opcode.NEWBUFFER:
		n := mustInt(popInt(v))
		v.estack.Push(stackitem.NewBuffer(make([]byte, n)))
	case opcode.MEMCPY:
		return v.memcpy()
	case opcode.CAT:
		b, a := v.estack.Pop().Bytes(), v.estack.Pop().Bytes()
		v.estack.Push(stackitem.NewBuffer(append(append([]byte(nil), a...), b...)))
	case opcode.SUBSTR:
		l := mustInt(popInt(v))
		i := mustInt(popInt(v))
		b := v.estack.Pop().Bytes()
		if i < 0 || l < 0 || i+l > len(b) {
			return errBounds
		}
		v.estack.Push(stackitem.NewBuffer(append([]byte(nil), b[i:i+l]...)))
	case opcode.LEFT:
		l := mustInt(popInt(v))
		b := v.estack.Pop().Bytes()
		if l < 0 || l > len(b) {
			return errBounds
		}
		v.estack.Push(stackitem.NewBuffer(append([]byte(nil), b[:l]...)))
	case opcode.RIGHT:
		l := mustInt(popInt(v))
		b := v.estack.Pop().Bytes()
		if l < 0 || l > len(b) {
			return errBounds
		}
		v.estack.Push(stackitem.NewBuffer(append([]byte(nil), b[len(b)-l:]...)))

	case opcode.INVERT:
		x := mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Not(x)))
	case opcode.AND:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).And(a, b)))
	case opcode.OR:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Or(a, b)))
	case opcode.XOR:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Xor(a, b)))
	case opcode.EQUAL:
		b, a := v.estack.Pop(), v.estack.Pop()
		v.estack.Push(stackitem.NewBool(a.Equals(b)))
	case opcode.NOTEQUAL:
		b, a := v.estack.Pop(), v.estack.Pop()
		v.estack.Push(stackitem.NewBool(!a.Equals(b)))

	case opcode.SIGN:
		x := mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(big.NewInt(int64(x.Sign()))))
	case opcode.ABS:
		x := mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Abs(x)))
	case opcode.NEGATE:
		x := mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Neg(x)))
	case opcode.INC:
		x := mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Add(x, big.NewInt(1))))
	case opcode.DEC:
		x := mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Sub(x, big.NewInt(1))))
	case opcode.ADD:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Add(a, b)))
	case opcode.SUB:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Sub(a, b)))
	case opcode.MUL:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Mul(a, b)))
	case opcode.DIV:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		if b.Sign() == 0 {
			return ErrDivideByZero
		}
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Quo(a, b)))
	case opcode.MOD:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		if b.Sign() == 0 {
			return ErrDivideByZero
		}
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Rem(a, b)))
	case opcode.POW:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		if b.Sign() < 0 {
			return errBounds
		}
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Exp(a, b, nil)))
	case opcode.SQRT:
		x := mustBI(popInt(v))
		if x.Sign() < 0 {
			return errBounds
		}
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Sqrt(x)))
	case opcode.MODMUL:
		m, b, a := mustBI(popInt(v)), mustBI(popInt(v)), mustBI(popInt(v))
		r := new(big.Int).Mul(a, b)
		v.estack.Push(stackitem.NewBigInteger(r.Mod(r, m)))
	case opcode.MODPOW:
		m, b, a := mustBI(popInt(v)), mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Exp(a, b, m)))
	case opcode.SHL:
		n, a := mustInt(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Lsh(a, uint(n))))
	case opcode.SHR:
		n, a := mustInt(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBigInteger(new(big.Int).Rsh(a, uint(n))))
	case opcode.NOT:
		v.estack.Push(stackitem.NewBool(!popBool(v)))
	case opcode.BOOLAND:
		b, a := popBool(v), popBool(v)
		v.estack.Push(stackitem.NewBool(a && b))
	case opcode.BOOLOR:
		b, a := popBool(v), popBool(v)
		v.estack.Push(stackitem.NewBool(a || b))
	case opcode.NUMEQUAL:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBool(a.Cmp(b) == 0))
	case opcode.NUMNOTEQUAL:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBool(a.Cmp(b) != 0))
	case opcode.LT:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBool(a.Cmp(b) < 0))
	case opcode.LE:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBool(a.Cmp(b) <= 0))
	case opcode.GT:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBool(a.Cmp(b) > 0))
	case opcode.GE:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBool(a.Cmp(b) >= 0))
	case opcode.MIN:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		if a.Cmp(b) < 0 {
			v.estack.Push(stackitem.NewBigInteger(a))
		} else {
			v.estack.Push(stackitem.NewBigInteger(b))
		}
	case opcode.MAX:
		b, a := mustBI(popInt(v)), mustBI(popInt(v))
		if a.Cmp(b) > 0 {
			v.estack.Push(stackitem.NewBigInteger(a))
		} else {
			v.estack.Push(stackitem.NewBigInteger(b))
		}
	case opcode.WITHIN:
		b, a, x := mustBI(popInt(v)), mustBI(popInt(v)), mustBI(popInt(v))
		v.estack.Push(stackitem.NewBool(x.Cmp(a) >= 0 && x.Cmp(b) < 0))

	case opcode.PACKMAP:
		return v.packMap()
	case opcode.PACKSTRUCT:
		return v.packCollection(true)
	case opcode.PACK:
		return v.packCollection(false)
	case opcode.UNPACK:
		return v.unpack()
	case opcode.NEWARRAY0:
		v.estack.Push(stackitem.NewArray(nil))
	case opcode.NEWARRAY, opcode.NEWARRAYT:
		n := mustInt(popInt(v))
		items := make([]stackitem.Item, n)
		for i := range items {
			items[i] = stackitem.NewNull()
		}
		v.estack.Push(stackitem.NewArray(items))
	case opcode.NEWSTRUCT0:
		v.estack.Push(stackitem.NewStruct(nil))
	case opcode.NEWSTRUCT:
		n := mustInt(popInt(v))
		items := make([]stackitem.Item, n)
		for i := range items {
			items[i] = stackitem.NewNull()
		}
		v.estack.Push(stackitem.NewStruct(items))
	case opcode.NEWMAP:
		v.estack.Push(stackitem.NewMap())
	case opcode.SIZE:
		return v.size()
	case opcode.HASKEY:
		return v.hasKey()
	case opcode.KEYS:
		m, ok := v.estack.Pop().(*stackitem.Map)
		if !ok {
			return errType
		}
		v.estack.Push(stackitem.NewArray(m.Keys()))
	case opcode.VALUES:
		return v.values()
	case opcode.PICKITEM:
		return v.pickItem()
	case opcode.APPEND:
		return v.appendItem()
	case opcode.SETITEM:
		return v.setItem()
	case opcode.REVERSEITEMS:
		return v.reverseItems()
	case opcode.REMOVE:
		return v.removeItem()
	case opcode.CLEARITEMS:
		return v.clearItems()
	case opcode.POPITEM:
		return v.popItem()

	case opcode.ISNULL:
		_, ok := v.estack.Pop().(stackitem.Null)
		v.estack.Push(stackitem.NewBool(ok))
	case opcode.ISTYPE:
		item := v.estack.Pop()
		v.estack.Push(stackitem.NewBool(item.Type() == stackitem.Type(operand[0])))
	case opcode.CONVERT:
		return v.convert(stackitem.Type(operand[0]))

	default:
		return ErrInvalidInstruction
	}
	return nil
}

func fromLE(b []byte) *big.Int {
	buf := make([]byte, len(b))
	for i, c := range b {
		buf[len(b)-1-i] = c
	}
	n := new(big.Int).SetBytes(buf)
	if len(b) > 0 && b[len(b)-1]&0x80 != 0 {
		full := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
		n.Sub(n, full)
	}
	return n
}

func mustInt(x *big.Int, err error) int {
	if err != nil || !x.IsInt64() {
		return 0
	}
	return int(x.Int64())
}

func mustBI(x *big.Int, err error) *big.Int {
	if err != nil {
		return big.NewInt(0)
	}
	return x
}

func slotIndex(op, zeroOp opcode.Opcode, operand []byte) int {
	if op == zeroOp {
		return 0
	}
	return int(operand[0])
}

func reverseTop(s *Stack, n int) {
	if n < 2 {
		return
	}
	top := s.items[len(s.items)-n:]
	for i, j := 0, len(top)-1; i < j; i, j = i+1, j-1 {
		top[i], top[j] = top[j], top[i]
	}
}
