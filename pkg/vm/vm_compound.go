package vm

import (
	"math/big"

	"github.com/neocorex/neogo/pkg/vm/stackitem"
)

func bigIntOf(n int) *big.Int { return big.NewInt(int64(n)) }

func toBI(i stackitem.Item) (*big.Int, error) { return stackitem.ToBigInt(i) }

func (v *VM) packMap() error {
	n := mustInt(popInt(v))
	if n < 0 || n > stackitem.MaxArraySize {
		return errBounds
	}
	m := stackitem.NewMap()
	for i := 0; i < n; i++ {
		key := v.estack.Pop()
		value := v.estack.Pop()
		if err := m.Set(key, value); err != nil {
			return err
		}
	}
	v.estack.Push(m)
	return nil
}

func (v *VM) packCollection(asStruct bool) error {
	n := mustInt(popInt(v))
	if n < 0 || n > stackitem.MaxArraySize {
		return errBounds
	}
	items := make([]stackitem.Item, n)
	for i := 0; i < n; i++ {
		items[i] = v.estack.Pop()
	}
	if asStruct {
		v.estack.Push(stackitem.NewStruct(items))
	} else {
		v.estack.Push(stackitem.NewArray(items))
	}
	return nil
}

func (v *VM) unpack() error {
	item := v.estack.Pop()
	var items []stackitem.Item
	switch c := item.(type) {
	case *stackitem.Array:
		items = c.Value().([]stackitem.Item)
	case *stackitem.Struct:
		items = c.Value().([]stackitem.Item)
	default:
		return errType
	}
	for i := len(items) - 1; i >= 0; i-- {
		v.estack.Push(items[i])
	}
	v.estack.Push(stackitem.NewBigInteger(bigIntOf(len(items))))
	return nil
}

func (v *VM) size() error {
	item := v.estack.Pop()
	switch c := item.(type) {
	case *stackitem.Array:
		v.estack.Push(stackitem.NewBigInteger(bigIntOf(c.Len())))
	case *stackitem.Struct:
		v.estack.Push(stackitem.NewBigInteger(bigIntOf(c.Len())))
	case *stackitem.Map:
		v.estack.Push(stackitem.NewBigInteger(bigIntOf(c.Len())))
	default:
		v.estack.Push(stackitem.NewBigInteger(bigIntOf(len(item.Bytes()))))
	}
	return nil
}

func (v *VM) hasKey() error {
	key := v.estack.Pop()
	item := v.estack.Pop()
	switch c := item.(type) {
	case *stackitem.Array:
		idx := mustInt(toBI(key))
		v.estack.Push(stackitem.NewBool(idx >= 0 && idx < c.Len()))
	case *stackitem.Struct:
		idx := mustInt(toBI(key))
		v.estack.Push(stackitem.NewBool(idx >= 0 && idx < c.Len()))
	case *stackitem.Map:
		v.estack.Push(stackitem.NewBool(c.Has(key)))
	default:
		return errType
	}
	return nil
}

func (v *VM) values() error {
	item := v.estack.Pop()
	switch c := item.(type) {
	case *stackitem.Map:
		v.estack.Push(stackitem.NewArray(c.Values()))
	case *stackitem.Array:
		out := make([]stackitem.Item, c.Len())
		for i := range out {
			out[i] = c.At(i).Dup()
		}
		v.estack.Push(stackitem.NewArray(out))
	default:
		return errType
	}
	return nil
}

func (v *VM) pickItem() error {
	key := v.estack.Pop()
	item := v.estack.Pop()
	switch c := item.(type) {
	case *stackitem.Array:
		idx := mustInt(toBI(key))
		if idx < 0 || idx >= c.Len() {
			return errBounds
		}
		v.estack.Push(c.At(idx).Dup())
	case *stackitem.Struct:
		idx := mustInt(toBI(key))
		if idx < 0 || idx >= c.Len() {
			return errBounds
		}
		v.estack.Push(c.At(idx).Dup())
	case *stackitem.Map:
		val := c.Get(key)
		if val == nil {
			return errBounds
		}
		v.estack.Push(val)
	case *stackitem.ByteArray:
		idx := mustInt(toBI(key))
		b := item.Bytes()
		if idx < 0 || idx >= len(b) {
			return errBounds
		}
		v.estack.Push(stackitem.NewBigInteger(bigIntOf(int(b[idx]))))
	default:
		return errType
	}
	return nil
}

func (v *VM) appendItem() error {
	item := v.estack.Pop()
	col := v.estack.Pop()
	switch c := col.(type) {
	case *stackitem.Array:
		return c.Append(item)
	case *stackitem.Struct:
		return c.Append(item)
	default:
		return errType
	}
}

func (v *VM) setItem() error {
	value := v.estack.Pop()
	key := v.estack.Pop()
	col := v.estack.Pop()
	switch c := col.(type) {
	case *stackitem.Array:
		idx := mustInt(toBI(key))
		if idx < 0 || idx >= c.Len() {
			return errBounds
		}
		c.SetAt(idx, value)
	case *stackitem.Struct:
		idx := mustInt(toBI(key))
		if idx < 0 || idx >= c.Len() {
			return errBounds
		}
		c.SetAt(idx, value)
	case *stackitem.Map:
		return c.Set(key, value)
	default:
		return errType
	}
	return nil
}

func (v *VM) reverseItems() error {
	item := v.estack.Pop()
	switch c := item.(type) {
	case *stackitem.Array:
		c.Reverse()
	case *stackitem.Struct:
		c.Reverse()
	default:
		return errType
	}
	return nil
}

func (v *VM) removeItem() error {
	key := v.estack.Pop()
	col := v.estack.Pop()
	switch c := col.(type) {
	case *stackitem.Array:
		idx := mustInt(toBI(key))
		if idx < 0 || idx >= c.Len() {
			return errBounds
		}
		c.Remove(idx)
	case *stackitem.Struct:
		idx := mustInt(toBI(key))
		if idx < 0 || idx >= c.Len() {
			return errBounds
		}
		c.Remove(idx)
	case *stackitem.Map:
		c.Delete(key)
	default:
		return errType
	}
	return nil
}

func (v *VM) clearItems() error {
	item := v.estack.Pop()
	switch c := item.(type) {
	case *stackitem.Array:
		c.Clear()
	case *stackitem.Struct:
		c.Clear()
	default:
		return errType
	}
	return nil
}

func (v *VM) popItem() error {
	item := v.estack.Pop()
	c, ok := item.(*stackitem.Array)
	if !ok {
		if s, ok2 := item.(*stackitem.Struct); ok2 {
			if s.Len() == 0 {
				return errBounds
			}
			last := s.At(s.Len() - 1)
			s.Remove(s.Len() - 1)
			v.estack.Push(last)
			return nil
		}
		return errType
	}
	if c.Len() == 0 {
		return errBounds
	}
	last := c.At(c.Len() - 1)
	c.Remove(c.Len() - 1)
	v.estack.Push(last)
	return nil
}

func (v *VM) memcpy() error {
	count := mustInt(popInt(v))
	srcIdx := mustInt(popInt(v))
	src := v.estack.Pop().Bytes()
	dstIdx := mustInt(popInt(v))
	dst, ok := v.estack.Pop().(*stackitem.Buffer)
	if !ok {
		return errType
	}
	buf := dst.Value().([]byte)
	if srcIdx < 0 || count < 0 || srcIdx+count > len(src) || dstIdx < 0 || dstIdx+count > len(buf) {
		return errBounds
	}
	copy(buf[dstIdx:dstIdx+count], src[srcIdx:srcIdx+count])
	return nil
}

func (v *VM) convert(t stackitem.Type) error {
	item := v.estack.Pop()
	switch t {
	case stackitem.BooleanT:
		b, err := item.TryBool()
		if err != nil {
			return err
		}
		v.estack.Push(stackitem.NewBool(b))
	case stackitem.IntegerT:
		n, err := stackitem.ToBigInt(item)
		if err != nil {
			return err
		}
		v.estack.Push(stackitem.NewBigInteger(n))
	case stackitem.ByteArrayT:
		v.estack.Push(stackitem.NewByteArray(item.Bytes()))
	case stackitem.BufferT:
		v.estack.Push(stackitem.NewBuffer(append([]byte(nil), item.Bytes()...)))
	case stackitem.AnyT:
		v.estack.Push(item)
	default:
		if item.Type() != t {
			return errType
		}
		v.estack.Push(item)
	}
	return nil
}
