package vm

import "github.com/n3core/neogo/pkg/vm/stackitem"

// Slot is a fixed-size register file backing a context's static fields,
// local variables, or arguments (INITSSLOT/INITSLOT). Every cell starts
// out as Null and participates in the VM's reference count from creation.
type Slot struct {
	storage []stackitem.Item
}

// Size returns the number of cells, 0 for a zero-value (uninitialized) Slot.
func (s *Slot) Size() int {
	return len(s.storage)
}

func (s *Slot) init(n int, rc *refCounter) {
	s.storage = make([]stackitem.Item, n)
	for i := range s.storage {
		s.storage[i] = stackitem.Null{}
		rc.Add(s.storage[i])
	}
}

// Get returns the item at i, or Null if i is out of range.
func (s *Slot) Get(i int) stackitem.Item {
	if i < 0 || i >= len(s.storage) {
		return stackitem.Null{}
	}
	return s.storage[i]
}

func (s *Slot) set(i int, item stackitem.Item, rc *refCounter) {
	old := s.storage[i]
	s.storage[i] = item
	rc.Add(item)
	rc.Remove(old)
}
