package stackitem

// MaxArraySize bounds the element count of any Array, Struct or Map,
// matching the ledger-wide collection size ceiling.
const MaxArraySize = 1024

// Array is an ordered, mutable, reference-type collection of items;
// equality is by identity, not structure.
type Array struct {
	value []Item
}

// NewArray constructs an Array item wrapping items (not copied).
func NewArray(items []Item) *Array {
	if items == nil {
		items = []Item{}
	}
	return &Array{value: items}
}

// Type implements Item.
func (*Array) Type() Type { return ArrayT }

// Value implements Item.
func (a *Array) Value() interface{} { return a.value }

// Bytes implements Item; arrays have no deterministic byte conversion.
func (a *Array) Bytes() []byte { return nil }

// TryBool implements Item; compounds are always truthy.
func (a *Array) TryBool() (bool, error) { return true, nil }

// Equals implements Item: Array equality is reference identity.
func (a *Array) Equals(i Item) bool {
	o, ok := i.(*Array)
	return ok && o == a
}

// Dup implements Item: Arrays are reference types, so DUP shares the
// backing slice and only a new handle is created by the caller.
func (a *Array) Dup() Item { return a }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.value) }

// Append adds an item to the end of the array, enforcing MaxArraySize.
func (a *Array) Append(i Item) error {
	if len(a.value) >= MaxArraySize {
		return ErrTooBig
	}
	a.value = append(a.value, i)
	return nil
}

// At returns the i-th element.
func (a *Array) At(i int) Item { return a.value[i] }

// SetAt replaces the i-th element.
func (a *Array) SetAt(i int, v Item) { a.value[i] = v }

// Remove deletes the i-th element, preserving order.
func (a *Array) Remove(i int) {
	a.value = append(a.value[:i], a.value[i+1:]...)
}

// Reverse reverses the array in place.
func (a *Array) Reverse() {
	for i, j := 0, len(a.value)-1; i < j; i, j = i+1, j-1 {
		a.value[i], a.value[j] = a.value[j], a.value[i]
	}
}

// Clear empties the array.
func (a *Array) Clear() { a.value = a.value[:0] }

// Struct is like Array but compared structurally (field-by-field,
// recursively) instead of by identity, and copied by value on DUP.
type Struct struct {
	Array
}

// NewStruct constructs a Struct item wrapping fields (not copied).
func NewStruct(fields []Item) *Struct {
	if fields == nil {
		fields = []Item{}
	}
	return &Struct{Array{value: fields}}
}

// Type implements Item.
func (*Struct) Type() Type { return StructT }

// Equals implements Item: Struct equality recurses field-by-field, up to
// maxStructDepth to bound cost on adversarial nesting.
func (s *Struct) Equals(i Item) bool {
	o, ok := i.(*Struct)
	if !ok {
		return false
	}
	return structEquals(s, o, 0)
}

const maxStructDepth = 16

func structEquals(a, b *Struct, depth int) bool {
	if a == b {
		return true
	}
	if depth > maxStructDepth {
		return false
	}
	if len(a.value) != len(b.value) {
		return false
	}
	for i := range a.value {
		av, bv := a.value[i], b.value[i]
		as, aok := av.(*Struct)
		bs, bok := bv.(*Struct)
		if aok && bok {
			if !structEquals(as, bs, depth+1) {
				return false
			}
			continue
		}
		if !av.Equals(bv) {
			return false
		}
	}
	return true
}

// Dup deep-copies the struct one level at a time (nested structs are
// copied too; nested arrays/maps keep reference semantics), matching
// Neo N3's by-value struct copy on DUP.
func (s *Struct) Dup() Item {
	fields := make([]Item, len(s.value))
	for i, v := range s.value {
		if inner, ok := v.(*Struct); ok {
			fields[i] = inner.Dup()
		} else {
			fields[i] = v
		}
	}
	return &Struct{Array{value: fields}}
}

// Clone returns a deep value-copy of s, used when a Struct argument must
// be passed to a nested invocation without aliasing the caller's fields.
func (s *Struct) Clone() *Struct {
	return s.Dup().(*Struct)
}

// MapElement is a single key/value pair inside a Map, kept in insertion
// order so Keys()/Values() are deterministic.
type MapElement struct {
	Key   Item
	Value Item
}

// Map is an ordered, mutable, reference-type key/value collection. Keys
// must be one of the primitive item kinds (Boolean, Integer, ByteString).
type Map struct {
	value []MapElement
}

// NewMap constructs an empty Map.
func NewMap() *Map { return &Map{} }

// Type implements Item.
func (*Map) Type() Type { return MapT }

// Value implements Item.
func (m *Map) Value() interface{} { return m.value }

// Bytes implements Item; maps have no deterministic byte conversion.
func (m *Map) Bytes() []byte { return nil }

// TryBool implements Item; compounds are always truthy.
func (m *Map) TryBool() (bool, error) { return true, nil }

// Equals implements Item: Map equality is reference identity.
func (m *Map) Equals(i Item) bool {
	o, ok := i.(*Map)
	return ok && o == m
}

// Dup implements Item: Maps are reference types.
func (m *Map) Dup() Item { return m }

// Len returns the number of key/value pairs.
func (m *Map) Len() int { return len(m.value) }

func mapKeyEquals(a, b Item) bool {
	switch av := a.(type) {
	case *ByteArray:
		bv, ok := b.(*ByteArray)
		return ok && av.Equals(bv)
	case *BigInteger:
		bv, ok := b.(*BigInteger)
		return ok && av.Equals(bv)
	case *Bool:
		bv, ok := b.(*Bool)
		return ok && av.Equals(bv)
	default:
		return false
	}
}

// Index returns the slice position of key, or -1 if absent.
func (m *Map) Index(key Item) int {
	for i := range m.value {
		if mapKeyEquals(m.value[i].Key, key) {
			return i
		}
	}
	return -1
}

// Has reports whether key is present.
func (m *Map) Has(key Item) bool { return m.Index(key) >= 0 }

// Get returns the value for key, or nil if absent.
func (m *Map) Get(key Item) Item {
	if idx := m.Index(key); idx >= 0 {
		return m.value[idx].Value
	}
	return nil
}

// Set inserts or replaces the value for key, enforcing MaxArraySize on
// growth.
func (m *Map) Set(key, value Item) error {
	if idx := m.Index(key); idx >= 0 {
		m.value[idx].Value = value
		return nil
	}
	if len(m.value) >= MaxArraySize {
		return ErrTooBig
	}
	m.value = append(m.value, MapElement{Key: key, Value: value})
	return nil
}

// Delete removes key if present.
func (m *Map) Delete(key Item) {
	if idx := m.Index(key); idx >= 0 {
		m.value = append(m.value[:idx], m.value[idx+1:]...)
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Item {
	keys := make([]Item, len(m.value))
	for i, e := range m.value {
		keys[i] = e.Key
	}
	return keys
}

// Values returns the values in insertion order.
func (m *Map) Values() []Item {
	vals := make([]Item, len(m.value))
	for i, e := range m.value {
		vals[i] = e.Value
	}
	return vals
}

// Interop wraps an opaque host object (a native contract handle, an
// iterator, ...) so it can travel on the VM stack without the VM needing
// to understand its type.
type Interop struct {
	value interface{}
}

// NewInterop constructs an Interop item around v.
func NewInterop(v interface{}) *Interop { return &Interop{value: v} }

// Type implements Item.
func (*Interop) Type() Type { return InteropT }

// Value implements Item.
func (i *Interop) Value() interface{} { return i.value }

// Bytes implements Item; interop handles have no byte conversion.
func (i *Interop) Bytes() []byte { return nil }

// TryBool implements Item.
func (i *Interop) TryBool() (bool, error) { return true, nil }

// Equals implements Item: identity comparison.
func (i *Interop) Equals(o Item) bool {
	other, ok := o.(*Interop)
	return ok && other == i
}

// Dup implements Item.
func (i *Interop) Dup() Item { return i }

// Pointer is a reference to an instruction offset within a script, produced
// by PUSHA and consumed by CALLA.
type Pointer struct {
	Position int
	Script   []byte
}

// NewPointer constructs a Pointer item.
func NewPointer(pos int, script []byte) *Pointer {
	return &Pointer{Position: pos, Script: script}
}

// Type implements Item.
func (*Pointer) Type() Type { return PointerT }

// Value implements Item.
func (p *Pointer) Value() interface{} { return p.Position }

// Bytes implements Item; pointers have no byte conversion.
func (p *Pointer) Bytes() []byte { return nil }

// TryBool implements Item.
func (p *Pointer) TryBool() (bool, error) { return true, nil }

// Equals implements Item.
func (p *Pointer) Equals(i Item) bool {
	o, ok := i.(*Pointer)
	return ok && o.Position == p.Position && string(o.Script) == string(p.Script)
}

// Dup implements Item.
func (p *Pointer) Dup() Item { return p }
