package vm

import (
	"errors"
	"math/big"

	"github.com/n3core/neogo/pkg/vm/stackitem"
)

// Element is a node on an evaluation/alt/invocation stack, wrapping a
// stackitem.Item with the conversions opcodes need most often.
type Element struct {
	value stackitem.Item
}

// NewElement wraps it in an Element.
func NewElement(it stackitem.Item) *Element {
	return &Element{value: it}
}

// Item returns the wrapped stack item.
func (e *Element) Item() stackitem.Item { return e.value }

// Value returns the item's underlying Go value.
func (e *Element) Value() interface{} { return e.value.Value() }

// Bytes returns the item's byte-string form, panicking if it has none.
func (e *Element) Bytes() []byte {
	b, err := e.value.TryBytes()
	if err != nil {
		panic(err)
	}
	return b
}

// BigInt returns the item's integer value, panicking if it has none.
func (e *Element) BigInt() *big.Int {
	bi, ok := e.value.(*stackitem.BigInteger)
	if !ok {
		panic(errors.New("vm: item is not an integer"))
	}
	return bi.Value().(*big.Int)
}

// Bool returns the item's truthiness.
func (e *Element) Bool() bool { return e.value.ToBool() }

// Stack is a LIFO sequence of Elements shared by a VM's evaluation, alt and
// invocation stacks; every push/pop is mirrored into the owning VM's
// refCounter so compound-item cardinality stays bounded.
type Stack struct {
	elems []*Element
	refs  *refCounter
}

// NewStack creates an empty stack bound to rc. name is kept only for
// diagnostics (mirrors the teacher's named-stack convention).
func NewStack(name string, rc *refCounter) *Stack {
	return &Stack{refs: rc}
}

// Len returns the number of elements.
func (s *Stack) Len() int { return len(s.elems) }

// Push adds e to the top of the stack.
func (s *Stack) Push(e *Element) {
	s.elems = append(s.elems, e)
	if s.refs != nil {
		s.refs.Add(e.value)
	}
}

// PushVal wraps v via stackitem.Make and pushes it.
func (s *Stack) PushVal(v interface{}) {
	s.Push(NewElement(stackitem.Make(v)))
}

// PushItem pushes an already-constructed stackitem.Item.
func (s *Stack) PushItem(it stackitem.Item) {
	s.Push(NewElement(it))
}

// Pop removes and returns the top element, panicking on an empty stack.
func (s *Stack) Pop() *Element {
	e := s.Peek(0)
	s.elems = s.elems[:len(s.elems)-1]
	if s.refs != nil {
		s.refs.Remove(e.value)
	}
	return e
}

// Peek returns the element n from the top (0 is the top) without removing it.
func (s *Stack) Peek(n int) *Element {
	idx := len(s.elems) - 1 - n
	if idx < 0 || idx >= len(s.elems) {
		panic(errors.New("vm: stack index out of range"))
	}
	return s.elems[idx]
}

// RemoveAt removes and returns the element n from the top.
func (s *Stack) RemoveAt(n int) *Element {
	idx := len(s.elems) - 1 - n
	if idx < 0 || idx >= len(s.elems) {
		panic(errors.New("vm: stack index out of range"))
	}
	e := s.elems[idx]
	s.elems = append(s.elems[:idx], s.elems[idx+1:]...)
	if s.refs != nil {
		s.refs.Remove(e.value)
	}
	return e
}

// InsertAt inserts e so that it ends up n positions from the top.
func (s *Stack) InsertAt(e *Element, n int) {
	idx := len(s.elems) - n
	if idx < 0 || idx > len(s.elems) {
		panic(errors.New("vm: stack index out of range"))
	}
	s.elems = append(s.elems, nil)
	copy(s.elems[idx+1:], s.elems[idx:])
	s.elems[idx] = e
	if s.refs != nil {
		s.refs.Add(e.value)
	}
}

// Dup duplicates the element n from the top and pushes the duplicate.
func (s *Stack) Dup(n int) *Element {
	e := s.Peek(n)
	dup := NewElement(e.value)
	s.Push(dup)
	return dup
}

// Clear empties the stack, releasing every element's references.
func (s *Stack) Clear() {
	if s.refs != nil {
		for _, e := range s.elems {
			s.refs.Remove(e.value)
		}
	}
	s.elems = nil
}

// Items returns the stack's elements from bottom to top.
func (s *Stack) Items() []*Element { return s.elems }
