package vm

import (
	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

// Stack is a LIFO sequence of stack items shared by the evaluation stack
// and the argument/result stacks used for cross-context item passing.
// Every push/pop is mirrored into the owning VM's RefCounter so
// MaxStackSize can be enforced without walking the stack.
type Stack struct {
	items []stackitem.Item
	refs  *stackitem.RefCounter
}

// NewStack creates an empty Stack backed by rc.
func NewStack(rc *stackitem.RefCounter) *Stack {
	return &Stack{refs: rc}
}

// Len returns the number of items on the stack.
func (s *Stack) Len() int { return len(s.items) }

// Push adds an item to the top of the stack.
func (s *Stack) Push(i stackitem.Item) {
	s.items = append(s.items, i)
	if s.refs != nil {
		s.refs.Add(i)
	}
}

// Pop removes and returns the top item.
func (s *Stack) Pop() stackitem.Item {
	i := s.Peek(0)
	s.items = s.items[:len(s.items)-1]
	if s.refs != nil {
		s.refs.Remove(i)
	}
	return i
}

// Peek returns the n-th item from the top without removing it (0 is top).
func (s *Stack) Peek(n int) stackitem.Item {
	return s.items[len(s.items)-1-n]
}

// Remove deletes and returns the n-th item from the top, shifting the
// items above it down (used by XDROP/ROLL/PICK-family opcodes).
func (s *Stack) Remove(n int) stackitem.Item {
	idx := len(s.items) - 1 - n
	i := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	if s.refs != nil {
		s.refs.Remove(i)
	}
	return i
}

// Insert inserts i so that it becomes the n-th item from the top (used by
// TUCK/ROT-family opcodes); n=0 is equivalent to Push.
func (s *Stack) Insert(n int, i stackitem.Item) {
	idx := len(s.items) - n
	s.items = append(s.items, nil)
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = i
	if s.refs != nil {
		s.refs.Add(i)
	}
}

// Clear empties the stack, releasing every item from the RefCounter.
func (s *Stack) Clear() {
	for _, i := range s.items {
		if s.refs != nil {
			s.refs.Remove(i)
		}
	}
	s.items = s.items[:0]
}

// Slot is a fixed-size, independently reference-counted array used for a
// context's static fields, local variables, and arguments.
type Slot struct {
	items []stackitem.Item
	refs  *stackitem.RefCounter
}

func newSlot(n int, rc *stackitem.RefCounter) *Slot {
	items := make([]stackitem.Item, n)
	for i := range items {
		items[i] = stackitem.NewNull()
	}
	if rc != nil {
		for _, it := range items {
			rc.Add(it)
		}
	}
	return &Slot{items: items, refs: rc}
}

// Size returns the slot's fixed item count.
func (s *Slot) Size() int { return len(s.items) }

// Get returns the item at index i.
func (s *Slot) Get(i int) stackitem.Item { return s.items[i] }

// Set replaces the item at index i, updating the RefCounter for both the
// outgoing and incoming values.
func (s *Slot) Set(i int, v stackitem.Item) {
	if s.refs != nil {
		s.refs.Remove(s.items[i])
		s.refs.Add(v)
	}
	s.items[i] = v
}

// Clear releases every item in the slot from the RefCounter.
func (s *Slot) Clear() {
	if s.refs != nil {
		for _, it := range s.items {
			s.refs.Remove(it)
		}
	}
}
