package vm

import (
	"encoding/binary"

	"github.com/neocorex/neogo/pkg/vm/opcode"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// instrStart recovers the offset the currently-decoding instruction began
// at, given that ctx.ip has already been advanced past it.
func instrStart(ctx *ExecutionContext, operand []byte) int {
	return ctx.ip - 1 - len(operand)
}

func readJumpOffset(operand []byte) int {
	if len(operand) == 1 {
		return int(int8(operand[0]))
	}
	return int(int32(binary.LittleEndian.Uint32(operand)))
}

func (v *VM) jumpIf(ctx *ExecutionContext, op opcode.Opcode, operand []byte, cond bool) error {
	if !cond {
		return nil
	}
	target := instrStart(ctx, operand) + readJumpOffset(operand)
	return ctx.Jump(target)
}

func (v *VM) jumpCompare(ctx *ExecutionContext, op opcode.Opcode, operand []byte) error {
	b, err := popInt(v)
	if err != nil {
		return err
	}
	a, err := popInt(v)
	if err != nil {
		return err
	}
	cmp := a.Cmp(b)
	var cond bool
	switch op {
	case opcode.JMPEQ, opcode.JMPEQL:
		cond = cmp == 0
	case opcode.JMPNE, opcode.JMPNEL:
		cond = cmp != 0
	case opcode.JMPGT, opcode.JMPGTL:
		cond = cmp > 0
	case opcode.JMPGE, opcode.JMPGEL:
		cond = cmp >= 0
	case opcode.JMPLT, opcode.JMPLTL:
		cond = cmp < 0
	case opcode.JMPLE, opcode.JMPLEL:
		cond = cmp <= 0
	}
	return v.jumpIf(ctx, op, operand, cond)
}

// call pushes a fresh context cloned from ctx (sharing statics, CALL being
// an intra-script jump to another function) and starts it at the target
// offset.
func (v *VM) call(ctx *ExecutionContext, op opcode.Opcode, operand []byte) error {
	target := instrStart(ctx, operand) + readJumpOffset(operand)
	if !ctx.script.IsValidOffset(target) {
		return ErrInvalidJump
	}
	clone := ctx.Clone()
	clone.ip = target
	return v.LoadContext(clone)
}

// callA calls through a Pointer item produced by PUSHA.
func (v *VM) callA(ctx *ExecutionContext) error {
	item := v.estack.Pop()
	p, ok := item.(*stackitem.Pointer)
	if !ok {
		return errType
	}
	script, err := NewScript(p.Script)
	if err != nil {
		return err
	}
	clone := &ExecutionContext{
		script:     script,
		static:     ctx.static,
		callFlags:  ctx.callFlags,
		scriptHash: ctx.scriptHash,
		ip:         p.Position,
		rvcount:    -1,
	}
	return v.LoadContext(clone)
}

// execTry pushes a new exception frame; TRY's operand encodes the catch
// and finally offsets (1 or 4 bytes each depending on opcode width), 0
// meaning "not present" by convention matching JMP's own zero-offset-is-
// invalid rule (a handler can never legitimately target itself).
func (v *VM) execTry(ctx *ExecutionContext, op opcode.Opcode, operand []byte) error {
	start := instrStart(ctx, operand)
	var catchRel, finallyRel int
	if op == opcode.TRY {
		catchRel, finallyRel = int(int8(operand[0])), int(int8(operand[1]))
	} else {
		catchRel = int(int32(binary.LittleEndian.Uint32(operand[0:4])))
		finallyRel = int(int32(binary.LittleEndian.Uint32(operand[4:8])))
	}
	h := &ExceptionHandler{CatchOffset: noOffset, FinallyOffset: noOffset, State: ExceptionTry}
	if catchRel != 0 {
		h.CatchOffset = start + catchRel
	}
	if finallyRel != 0 {
		h.FinallyOffset = start + finallyRel
	}
	ctx.PushTry(h)
	return nil
}

// endTry closes the try/catch portion of a frame: if a finally block is
// declared, control passes there first (and the frame's end is recorded so
// ENDFINALLY knows where to resume), otherwise it jumps straight past the
// whole construct.
func (v *VM) endTry(ctx *ExecutionContext, op opcode.Opcode, operand []byte) error {
	h := ctx.CurrentTry()
	if h == nil {
		return errType
	}
	endTarget := instrStart(ctx, operand) + readJumpOffset(operand)
	if h.HasFinally() && h.State != ExceptionFinally {
		h.EndOffset = endTarget
		h.State = ExceptionFinally
		return ctx.Jump(h.FinallyOffset)
	}
	ctx.PopTry()
	return ctx.Jump(endTarget)
}

// endFinally resumes wherever ENDTRY was headed, or re-raises a pending
// exception that routed through this finally block on its way out.
func (v *VM) endFinally(ctx *ExecutionContext) error {
	h := ctx.PopTry()
	if v.pendingThrow != nil {
		item := v.pendingThrow
		v.pendingThrow = nil
		if v.handleException(item) {
			return nil
		}
		v.uncaught = item
		return ErrUncaughtException
	}
	return ctx.Jump(h.EndOffset)
}

func (v *VM) syscall(operand []byte) error {
	hash := binary.LittleEndian.Uint32(operand)
	s, ok := v.Syscalls[hash]
	if !ok {
		return ErrSyscallNotFound
	}
	ctx := v.Context()
	if !ctx.callFlags.Has(s.RequiredFlags) {
		return ErrCallFlagsViolation
	}
	if err := v.chargeGas(s.Price); err != nil {
		return err
	}
	return s.Func(v)
}
