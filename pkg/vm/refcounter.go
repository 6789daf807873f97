package vm

import "github.com/n3core/neogo/pkg/vm/stackitem"

// refCounter is the total number of items reachable from any execution
// context's stacks or slots. Compound items (Array/Struct/Map/Buffer) are
// only walked into children the first time they're added (or the last time
// they're removed); repeat references to the same object just adjust the
// count for the object itself.
type refCounter int

func newRefCounter() *refCounter {
	var r refCounter
	return &r
}

// Add records item (and, the first time it's seen, its children) as newly
// reachable.
func (r *refCounter) Add(item stackitem.Item) {
	*r += refCounter(addRef(item))
}

// Remove records item (and, if this was its last reference, its children)
// as no longer reachable.
func (r *refCounter) Remove(item stackitem.Item) {
	*r -= refCounter(removeRef(item))
}

func addRef(item stackitem.Item) int {
	rt, ok := item.(stackitem.RefTracker)
	if !ok {
		return 1
	}
	if rt.IncRef() > 1 {
		return 1
	}
	n := 1
	for _, c := range compoundChildren(item) {
		n += addRef(c)
	}
	return n
}

func removeRef(item stackitem.Item) int {
	rt, ok := item.(stackitem.RefTracker)
	if !ok {
		return 1
	}
	if rt.DecRef() > 0 {
		return 1
	}
	n := 1
	for _, c := range compoundChildren(item) {
		n += removeRef(c)
	}
	return n
}

func compoundChildren(item stackitem.Item) []stackitem.Item {
	switch t := item.(type) {
	case *stackitem.Array:
		return t.Items()
	case *stackitem.Struct:
		return t.Items()
	case *stackitem.Map:
		els := t.Elements()
		out := make([]stackitem.Item, 0, len(els)*2)
		for _, e := range els {
			out = append(out, e.Key, e.Value)
		}
		return out
	default:
		return nil
	}
}
