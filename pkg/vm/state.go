package vm

import "github.com/neocorex/neogo/pkg/vm/vmstate"

// State is an alias of vmstate.State for callers that only need the VM's
// execution state without importing the vmstate subpackage directly.
type State = vmstate.State

// Convenience aliases for vmstate's execution state constants.
const (
	NoneState  = vmstate.None
	HaltState  = vmstate.Halt
	FaultState = vmstate.Fault
	BreakState = vmstate.Break
)
