package state

import (
	"encoding/json"

	"github.com/neocorex/neogo/pkg/io"
	"github.com/neocorex/neogo/pkg/smartcontract/trigger"
	"github.com/neocorex/neogo/pkg/vm/stackitem"
	"github.com/neocorex/neogo/pkg/vm/vmstate"
)

// Execution represents the result of a single trigger's worth of script
// execution: the VM's end state, its gas bill, the values left on the
// stack and any notifications it raised.
type Execution struct {
	Trigger        trigger.Type
	VMState        vmstate.State
	GasConsumed    int64
	Stack          []stackitem.Item
	Events         []NotificationEvent
	FaultException string
}

// EncodeBinary implements the io.Serializable interface.
func (e *Execution) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(e.Trigger))
	w.WriteB(byte(e.VMState))
	w.WriteU64LE(uint64(e.GasConsumed))
	if e.VMState.HasFlag(vmstate.Fault) {
		w.WriteString(e.FaultException)
	}
	w.WriteVarUint(uint64(len(e.Stack)))
	for _, item := range e.Stack {
		stackitem.EncodeBinaryStackItem(item, w)
	}
	w.WriteVarUint(uint64(len(e.Events)))
	for i := range e.Events {
		e.Events[i].EncodeBinary(w)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (e *Execution) DecodeBinary(r *io.BinReader) {
	e.Trigger = trigger.Type(r.ReadB())
	e.VMState = vmstate.State(r.ReadB())
	e.GasConsumed = int64(r.ReadU64LE())
	if r.Err != nil {
		return
	}
	if e.VMState.HasFlag(vmstate.Fault) {
		e.FaultException = r.ReadString()
		if r.Err != nil {
			return
		}
	}
	nStack := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	e.Stack = make([]stackitem.Item, nStack)
	for i := range e.Stack {
		e.Stack[i] = stackitem.DecodeBinaryStackItem(r)
		if r.Err != nil {
			return
		}
	}
	nEvents := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	e.Events = make([]NotificationEvent, nEvents)
	for i := range e.Events {
		e.Events[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}
}

type executionAux struct {
	Trigger        string               `json:"trigger"`
	VMState        vmstate.State        `json:"vmstate"`
	GasConsumed    string               `json:"gasconsumed"`
	Stack          []json.RawMessage    `json:"stack"`
	FaultException *string              `json:"exception,omitempty"`
	Events         []NotificationEvent  `json:"notifications"`
}

func (e *Execution) toAux() executionAux {
	stack := make([]json.RawMessage, len(e.Stack))
	for i, item := range e.Stack {
		stack[i] = stackitem.ToJSONSafe(item)
	}
	var exc *string
	if e.VMState.HasFlag(vmstate.Fault) {
		exc = &e.FaultException
	}
	events := e.Events
	if events == nil {
		events = []NotificationEvent{}
	}
	return executionAux{
		Trigger:        e.Trigger.String(),
		VMState:        e.VMState,
		GasConsumed:    itoa64(e.GasConsumed),
		Stack:          stack,
		FaultException: exc,
		Events:         events,
	}
}

func (e *Execution) fromAux(aux executionAux) error {
	trig, err := trigger.FromString(aux.Trigger)
	if err != nil {
		return err
	}
	gas, err := atoi64(aux.GasConsumed)
	if err != nil {
		return err
	}
	stack := make([]stackitem.Item, len(aux.Stack))
	for i, raw := range aux.Stack {
		item, err := stackitem.FromJSONSafe(raw)
		if err != nil {
			stack = nil
			break
		}
		stack[i] = item
	}
	e.Trigger = trig
	e.VMState = aux.VMState
	e.GasConsumed = gas
	e.Stack = stack
	e.Events = aux.Events
	if aux.FaultException != nil {
		e.FaultException = *aux.FaultException
	}
	return nil
}
