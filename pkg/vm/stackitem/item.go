// Package stackitem implements the VM's tagged stack-item variants: Null,
// Boolean, Integer, ByteArray, Buffer, Array, Struct, Map, Pointer and
// InteropInterface, plus the reference counter that bounds how many
// compound items may be live at once and refuses to serialize cycles.
package stackitem

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/n3core/neogo/pkg/util"
)

// MaxBigIntegerSizeBits bounds Integer items to 32 bytes two's complement,
// per the VM's MAX_INTEGER_SIZE.
const MaxBigIntegerSizeBits = 32 * 8

// MaxSize is the maximum serialized size of a single stack item (System.Binary.Serialize).
const MaxSize = 1024 * 1024

// MaxArraySize/MaxStackSize bound compound item cardinality and the total
// number of live reference-counted items, respectively.
const (
	MaxArraySize = 1024
	MaxStackSize = 2048
)

// MaxByteArrayComparableSize is the largest ByteArray the VM will compare
// directly; EQUAL on anything bigger is a VM fault, not a false result.
const MaxByteArrayComparableSize = 64 * 1024

// Errors returned by conversions and compound-type operations.
var (
	ErrInvalidValue = errors.New("stackitem: invalid value")
	ErrTooBig       = errors.New("stackitem: item is too big")
	ErrCircular     = errors.New("stackitem: circular reference")
)

// Item is implemented by every stack item variant.
type Item interface {
	Type() Type
	Value() interface{}
	ToBool() bool
	TryBytes() ([]byte, error)
	Equals(Item) bool
	Dup() Item
	String() string
}

func typeErr(from, to Type) error {
	return fmt.Errorf("invalid conversion: %s/%s", from, to)
}

// Null represents the VM's null value.
type Null struct{}

func (Null) Type() Type          { return AnyT }
func (Null) Value() interface{}  { return nil }
func (Null) ToBool() bool        { return false }
func (Null) String() string      { return "Null" }
func (Null) TryBytes() ([]byte, error) {
	return nil, typeErr(AnyT, ByteArrayT)
}
func (Null) Dup() Item { return Null{} }
func (n Null) Equals(other Item) bool {
	_, ok := other.(Null)
	return ok
}

// Bool represents a boolean stack item.
type Bool bool

// NewBool wraps a bool as an Item.
func NewBool(b bool) Item { return Bool(b) }

func (b Bool) Type() Type         { return BooleanT }
func (b Bool) Value() interface{} { return bool(b) }
func (b Bool) ToBool() bool       { return bool(b) }
func (b Bool) String() string     { return "Boolean" }
func (b Bool) TryBytes() ([]byte, error) {
	if b {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}
func (b Bool) Dup() Item { return b }
func (b Bool) Equals(other Item) bool {
	o, ok := other.(Bool)
	return ok && b == o
}

// BigInteger represents an arbitrary-precision (bounded) integer item.
type BigInteger struct {
	value *big.Int
}

// NewBigInteger wraps v, which must already respect MaxBigIntegerSizeBits.
func NewBigInteger(v *big.Int) *BigInteger {
	return &BigInteger{value: v}
}

func (i *BigInteger) Type() Type         { return IntegerT }
func (i *BigInteger) Value() interface{} { return i.value }
func (i *BigInteger) ToBool() bool       { return i.value.Sign() != 0 }
func (i *BigInteger) String() string     { return "BigInteger" }
func (i *BigInteger) TryBytes() ([]byte, error) {
	return toTwosComplement(i.value), nil
}
func (i *BigInteger) Dup() Item {
	return &BigInteger{value: new(big.Int).Set(i.value)}
}
func (i *BigInteger) Equals(other Item) bool {
	o, ok := other.(*BigInteger)
	return ok && i.value.Cmp(o.value) == 0
}

func toTwosComplement(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{}
	}
	if n.Sign() > 0 {
		b := n.Bytes() // big-endian
		reverse(b)
		if b[len(b)-1]&0x80 != 0 {
			b = append(b, 0)
		}
		return b
	}
	// Negative: two's complement of abs value sized to fit the sign bit.
	abs := new(big.Int).Neg(n)
	nBytes := (abs.BitLen() + 8) / 8
	mod := new(big.Int).Lsh(big.NewInt(1), uint(nBytes*8))
	tc := new(big.Int).Sub(mod, abs)
	b := tc.Bytes()
	full := make([]byte, nBytes)
	copy(full[nBytes-len(b):], b)
	reverse(full)
	return full
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func fromTwosComplement(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	be := make([]byte, len(b))
	copy(be, b)
	reverse(be)
	neg := be[0]&0x80 != 0
	if !neg {
		return new(big.Int).SetBytes(be)
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(len(be)*8))
	v := new(big.Int).SetBytes(be)
	return new(big.Int).Sub(v, mod)
}

// ByteArray is an immutable byte-string item.
type ByteArray []byte

// NewByteArray wraps b as an immutable ByteArray item.
func NewByteArray(b []byte) *ByteArray {
	bs := ByteArray(b)
	return &bs
}

func (b *ByteArray) Type() Type         { return ByteArrayT }
func (b *ByteArray) Value() interface{} { return []byte(*b) }
func (b *ByteArray) ToBool() bool {
	for _, v := range *b {
		if v != 0 {
			return true
		}
	}
	return false
}
func (b *ByteArray) String() string { return "ByteString" }
func (b *ByteArray) TryBytes() ([]byte, error) {
	return []byte(*b), nil
}
func (b *ByteArray) Dup() Item {
	cp := make(ByteArray, len(*b))
	copy(cp, *b)
	return &cp
}
func (b *ByteArray) Equals(other Item) bool {
	o, ok := other.(*ByteArray)
	if !ok {
		return false
	}
	if len(*b) > MaxByteArrayComparableSize || len(*o) > MaxByteArrayComparableSize {
		panic(ErrTooBig)
	}
	return bytes.Equal(*b, *o)
}

// Buffer is a mutable byte-string item.
type Buffer struct {
	value []byte
	objectRefs
}

// NewBuffer wraps b as a mutable Buffer item.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{value: b}
}

func (b *Buffer) Type() Type         { return BufferT }
func (b *Buffer) Value() interface{} { return b.value }
func (b *Buffer) ToBool() bool {
	for _, v := range b.value {
		if v != 0 {
			return true
		}
	}
	return false
}
func (b *Buffer) String() string { return "Buffer" }
func (b *Buffer) TryBytes() ([]byte, error) {
	return b.value, nil
}

// Bytes returns the buffer's underlying byte slice directly.
func (b *Buffer) Bytes() []byte { return b.value }

// SetByte mutates a single byte in place (System.Binary.SetByte-style ops).
func (b *Buffer) SetByte(i int, v byte) { b.value[i] = v }

func (b *Buffer) Dup() Item {
	cp := make([]byte, len(b.value))
	copy(cp, b.value)
	return &Buffer{value: cp}
}
func (b *Buffer) Equals(other Item) bool {
	o, ok := other.(*Buffer)
	return ok && b == o // reference equality, matching the VM's Buffer semantics
}

// Pointer is a code-address item produced by CALLA-style instructions.
type Pointer struct {
	Position int
	Script   []byte
}

// NewPointer creates a Pointer item.
func NewPointer(pos int, script []byte) *Pointer {
	return &Pointer{Position: pos, Script: script}
}

func (p *Pointer) Type() Type         { return PointerT }
func (p *Pointer) Value() interface{} { return p.Position }
func (p *Pointer) ToBool() bool       { return true }
func (p *Pointer) String() string     { return "Pointer" }
func (p *Pointer) TryBytes() ([]byte, error) {
	return nil, typeErr(PointerT, ByteArrayT)
}
func (p *Pointer) Dup() Item { return p }
func (p *Pointer) Equals(other Item) bool {
	o, ok := other.(*Pointer)
	return ok && p.Position == o.Position && bytes.Equal(p.Script, o.Script)
}

// Interop wraps a host-opaque value (an iterator, a native session handle).
type Interop struct {
	value interface{}
}

// NewInterop wraps v as an InteropInterface item.
func NewInterop(v interface{}) *Interop {
	return &Interop{value: v}
}

func (i *Interop) Type() Type         { return InteropT }
func (i *Interop) Value() interface{} { return i.value }
func (i *Interop) ToBool() bool       { return true }
func (i *Interop) String() string     { return "Interop" }
func (i *Interop) TryBytes() ([]byte, error) {
	return nil, typeErr(InteropT, ByteArrayT)
}
func (i *Interop) Dup() Item { return i }
func (i *Interop) Equals(other Item) bool {
	o, ok := other.(*Interop)
	return ok && i.value == o.value
}

// objectRefs tracks how many live stack/slot slots hold this exact compound
// item, so a RefCounter only walks its children the first time it is added
// (and the last time it is removed) rather than on every push/pop.
type objectRefs struct {
	n int
}

// IncRef records a new reference to the item, returning the count after
// incrementing; callers recurse into children only when this was 1 (i.e.
// the item had no prior references).
func (o *objectRefs) IncRef() int {
	o.n++
	return o.n
}

// DecRef drops a reference, returning the count after decrementing;
// callers recurse into children only when this reaches 0.
func (o *objectRefs) DecRef() int {
	if o.n > 0 {
		o.n--
	}
	return o.n
}

// RefTracker is implemented by compound items (Array, Struct, Map, Buffer)
// that share object-reference state across repeated RefCounter.Add/Remove
// calls for the same underlying object.
type RefTracker interface {
	IncRef() int
	DecRef() int
}

// Array is a reference compound item; assignment shares the backing slice.
type Array struct {
	value []Item
	objectRefs
}

// NewArray creates an Array item from items.
func NewArray(items []Item) *Array {
	return &Array{value: items}
}

func (a *Array) Type() Type         { return ArrayT }
func (a *Array) Value() interface{} { return a.value }
func (a *Array) ToBool() bool       { return true }
func (a *Array) String() string     { return "Array" }
func (a *Array) TryBytes() ([]byte, error) {
	return nil, typeErr(ArrayT, ByteArrayT)
}
func (a *Array) Dup() Item { return a }
func (a *Array) Equals(other Item) bool {
	o, ok := other.(*Array)
	return ok && a == o // reference equality
}
func (a *Array) Len() int         { return len(a.value) }
func (a *Array) Append(it Item)   { a.value = append(a.value, it) }
func (a *Array) Elem(i int) Item  { return a.value[i] }
func (a *Array) SetElem(i int, v Item) { a.value[i] = v }
func (a *Array) Items() []Item    { return a.value }

// RemoveAt deletes the element at i, preserving order.
func (a *Array) RemoveAt(i int) { a.value = append(a.value[:i], a.value[i+1:]...) }

// Clear empties the array in place.
func (a *Array) Clear() { a.value = nil }

// Struct is a value compound item; assignment deep-copies it.
type Struct struct {
	value []Item
	objectRefs
}

// NewStruct creates a Struct item from items.
func NewStruct(items []Item) *Struct {
	return &Struct{value: items}
}

func (s *Struct) Type() Type         { return StructT }
func (s *Struct) Value() interface{} { return s.value }
func (s *Struct) ToBool() bool       { return true }
func (s *Struct) String() string     { return "Struct" }
func (s *Struct) TryBytes() ([]byte, error) {
	return nil, typeErr(StructT, ByteArrayT)
}
func (s *Struct) Len() int        { return len(s.value) }
func (s *Struct) Append(it Item)  { s.value = append(s.value, it) }
func (s *Struct) Elem(i int) Item { return s.value[i] }
func (s *Struct) SetElem(i int, v Item) { s.value[i] = v }
func (s *Struct) Items() []Item   { return s.value }

// RemoveAt deletes the element at i, preserving order.
func (s *Struct) RemoveAt(i int) { s.value = append(s.value[:i], s.value[i+1:]...) }

// Clear empties the struct in place.
func (s *Struct) Clear() { s.value = nil }

// Clone returns a deep copy of s (assignment/pass-by-value semantics).
func (s *Struct) Clone() *Struct {
	cp := make([]Item, len(s.value))
	for i, it := range s.value {
		if inner, ok := it.(*Struct); ok {
			cp[i] = inner.Clone()
		} else {
			cp[i] = it
		}
	}
	return &Struct{value: cp}
}

// Dup on a Struct clones it (value semantics).
func (s *Struct) Dup() Item { return s.Clone() }

// Equals performs a deep structural comparison for Structs.
func (s *Struct) Equals(other Item) bool {
	o, ok := other.(*Struct)
	if !ok || len(s.value) != len(o.value) {
		return false
	}
	for i := range s.value {
		if !s.value[i].Equals(o.value[i]) {
			return false
		}
	}
	return true
}

// MapElement is a single Map entry, kept in insertion order for
// deterministic KEYS/VALUES/iteration.
type MapElement struct {
	Key   Item
	Value Item
}

// Map is a reference compound item mapping comparable items to items,
// iterating in insertion order (the VM has no nondeterministic iteration).
type Map struct {
	elems []MapElement
	index map[interface{}]int
	objectRefs
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{index: make(map[interface{}]int)}
}

func mapKey(k Item) interface{} {
	switch v := k.(type) {
	case Bool:
		return v
	case *BigInteger:
		return v.value.String()
	case *ByteArray:
		return "b:" + string(*v)
	case *Buffer:
		return "u:" + string(v.value)
	default:
		return k
	}
}

func (m *Map) Type() Type         { return MapT }
func (m *Map) Value() interface{} { return m.elems }
func (m *Map) ToBool() bool       { return true }
func (m *Map) String() string     { return "Map" }
func (m *Map) TryBytes() ([]byte, error) {
	return nil, typeErr(MapT, ByteArrayT)
}
func (m *Map) Dup() Item { return m }
func (m *Map) Equals(other Item) bool {
	o, ok := other.(*Map)
	return ok && m == o
}

// Add inserts or updates key/value, preserving the original position of an
// existing key on overwrite.
func (m *Map) Add(key, value Item) {
	k := mapKey(key)
	if idx, ok := m.index[k]; ok {
		m.elems[idx].Value = value
		return
	}
	m.index[k] = len(m.elems)
	m.elems = append(m.elems, MapElement{Key: key, Value: value})
}

// Get looks up key, returning (nil, false) if absent.
func (m *Map) Get(key Item) (Item, bool) {
	idx, ok := m.index[mapKey(key)]
	if !ok {
		return nil, false
	}
	return m.elems[idx].Value, true
}

// Delete removes key from the map, if present.
func (m *Map) Delete(key Item) {
	k := mapKey(key)
	idx, ok := m.index[k]
	if !ok {
		return
	}
	m.elems = append(m.elems[:idx], m.elems[idx+1:]...)
	delete(m.index, k)
	for i := idx; i < len(m.elems); i++ {
		m.index[mapKey(m.elems[i].Key)] = i
	}
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.elems) }

// Elements returns the map's entries in insertion order.
func (m *Map) Elements() []MapElement { return m.elems }

// Clear empties the map in place.
func (m *Map) Clear() {
	m.elems = nil
	m.index = make(map[interface{}]int)
}

// Make converts a Go value into the matching Item, recursively for slices.
func Make(v interface{}) Item {
	switch t := v.(type) {
	case nil:
		panic("stackitem: cannot make an item from nil")
	case Item:
		return t
	case bool:
		return Bool(t)
	case int:
		return NewBigInteger(big.NewInt(int64(t)))
	case int16:
		return NewBigInteger(big.NewInt(int64(t)))
	case int32:
		return NewBigInteger(big.NewInt(int64(t)))
	case int64:
		return NewBigInteger(big.NewInt(t))
	case uint8:
		return NewBigInteger(new(big.Int).SetUint64(uint64(t)))
	case uint16:
		return NewBigInteger(new(big.Int).SetUint64(uint64(t)))
	case uint32:
		return NewBigInteger(new(big.Int).SetUint64(uint64(t)))
	case uint64:
		return NewBigInteger(new(big.Int).SetUint64(t))
	case *big.Int:
		return NewBigInteger(t)
	case []byte:
		return NewByteArray(t)
	case string:
		return NewByteArray([]byte(t))
	case util.Uint160:
		return NewByteArray(t.BytesBE())
	case util.Uint256:
		return NewByteArray(t.BytesBE())
	case []Item:
		return NewArray(t)
	default:
		return NewInterop(v)
	}
}

// Convertible is implemented by domain types that can round-trip to/from a
// stack item (used by state/transaction types and by testserdes).
type Convertible interface {
	ToStackItem() (Item, error)
	FromStackItem(Item) error
}

// ToUint160 converts it to a util.Uint160, requiring a 20-byte ByteArray/Buffer.
func ToUint160(it Item) (util.Uint160, error) {
	b, err := it.TryBytes()
	if err != nil {
		return util.Uint160{}, typeErr(it.Type(), ByteArrayT)
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return u, nil
}

// ToUint256 converts it to a util.Uint256, requiring a 32-byte ByteArray/Buffer.
func ToUint256(it Item) (util.Uint256, error) {
	b, err := it.TryBytes()
	if err != nil {
		return util.Uint256{}, typeErr(it.Type(), ByteArrayT)
	}
	u, err := util.Uint256DecodeBytesBE(b)
	if err != nil {
		return util.Uint256{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return u, nil
}

func toBigInt(it Item) (*big.Int, error) {
	bi, ok := it.(*BigInteger)
	if !ok {
		return nil, typeErr(it.Type(), IntegerT)
	}
	return bi.value, nil
}

// ToInt32 converts it to an int32, erroring if out of range.
func ToInt32(it Item) (int32, error) {
	v, err := toBigInt(it)
	if err != nil {
		return 0, err
	}
	if v.Cmp(big.NewInt(math.MinInt32)) < 0 || v.Cmp(big.NewInt(math.MaxInt32)) > 0 {
		return 0, errors.New("bigint is not in int32 range")
	}
	return int32(v.Int64()), nil
}

// ToInt64 converts it to an int64, erroring if out of range.
func ToInt64(it Item) (int64, error) {
	v, err := toBigInt(it)
	if err != nil {
		return 0, err
	}
	if v.Cmp(big.NewInt(math.MinInt64)) < 0 || v.Cmp(big.NewInt(math.MaxInt64)) > 0 {
		return 0, errors.New("bigint is not in int64 range")
	}
	return v.Int64(), nil
}

// ToBool converts it to a bool via the VM's truthiness rules.
func ToBool(it Item) bool {
	return it.ToBool()
}
