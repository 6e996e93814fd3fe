package vm

import "github.com/neocorex/neogo/pkg/vm/stackitem"

// handleException looks for a catch (or, failing that, a finally) frame
// able to handle item, unwinding contexts without one entirely. It
// returns true if execution was redirected into a handler, false if the
// exception must propagate to the VM's caller as an uncaught fault.
func (v *VM) handleException(item stackitem.Item) bool {
	for len(v.istack) > 0 {
		ctx := v.istack[len(v.istack)-1]
		for len(ctx.tryStack) > 0 {
			h := ctx.tryStack[len(ctx.tryStack)-1]
			switch h.State {
			case ExceptionTry:
				if h.HasCatch() {
					h.State = ExceptionCatch
					v.estack.Push(item)
					ctx.ip = h.CatchOffset
					return true
				}
				if h.HasFinally() {
					h.State = ExceptionFinally
					ctx.ip = h.FinallyOffset
					// re-raise is deferred to ENDFINALLY via pendingThrow
					v.pendingThrow = item
					return true
				}
				ctx.PopTry()
			case ExceptionCatch:
				if h.HasFinally() {
					h.State = ExceptionFinally
					ctx.ip = h.FinallyOffset
					v.pendingThrow = item
					return true
				}
				ctx.PopTry()
			default:
				ctx.PopTry()
			}
		}
		v.istack = v.istack[:len(v.istack)-1]
	}
	return false
}
