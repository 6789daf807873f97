package vm

import (
	"errors"
	"math/big"

	"github.com/n3core/neogo/pkg/vm/opcode"
	"github.com/n3core/neogo/pkg/vm/stackitem"
)

func opPackMap(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int(v.estack.Pop().BigInt().Int64())
	m := stackitem.NewMap()
	for i := 0; i < n; i++ {
		key := v.estack.Pop().Item()
		val := v.estack.Pop().Item()
		m.Add(key, val)
	}
	v.estack.PushItem(m)
}

func opPackStruct(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int(v.estack.Pop().BigInt().Int64())
	items := make([]stackitem.Item, n)
	for i := 0; i < n; i++ {
		items[i] = v.estack.Pop().Item()
	}
	v.estack.PushItem(stackitem.NewStruct(items))
}

func opPack(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int(v.estack.Pop().BigInt().Int64())
	items := make([]stackitem.Item, n)
	for i := 0; i < n; i++ {
		items[i] = v.estack.Pop().Item()
	}
	v.estack.PushItem(stackitem.NewArray(items))
}

func opUnpack(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	it := v.estack.Pop().Item()
	items := itemsOf(it)
	for i := len(items) - 1; i >= 0; i-- {
		v.estack.PushItem(items[i])
	}
	v.estack.PushVal(int64(len(items)))
}

func itemsOf(it stackitem.Item) []stackitem.Item {
	switch t := it.(type) {
	case *stackitem.Array:
		return t.Items()
	case *stackitem.Struct:
		return t.Items()
	default:
		panic(errors.New("vm: item is not an array or struct"))
	}
}

func opNewArray0(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.PushItem(stackitem.NewArray(nil))
}

func opNewArray(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int(v.estack.Pop().BigInt().Int64())
	if n < 0 || n > stackitem.MaxArraySize {
		panic(errors.New("vm: array size out of range"))
	}
	items := make([]stackitem.Item, n)
	for i := range items {
		items[i] = stackitem.Null{}
	}
	v.estack.PushItem(stackitem.NewArray(items))
}

func opNewArrayT(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int(v.estack.Pop().BigInt().Int64())
	if n < 0 || n > stackitem.MaxArraySize {
		panic(errors.New("vm: array size out of range"))
	}
	t := stackitem.Type(param[0])
	items := make([]stackitem.Item, n)
	for i := range items {
		items[i] = zeroValueOf(t)
	}
	v.estack.PushItem(stackitem.NewArray(items))
}

func zeroValueOf(t stackitem.Type) stackitem.Item {
	switch t {
	case stackitem.BooleanT:
		return stackitem.NewBool(false)
	case stackitem.IntegerT:
		return stackitem.NewBigInteger(big.NewInt(0))
	case stackitem.ByteArrayT:
		return stackitem.NewByteArray(nil)
	default:
		return stackitem.Null{}
	}
}

func opNewStruct0(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.PushItem(stackitem.NewStruct(nil))
}

func opNewStruct(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int(v.estack.Pop().BigInt().Int64())
	if n < 0 || n > stackitem.MaxArraySize {
		panic(errors.New("vm: struct size out of range"))
	}
	items := make([]stackitem.Item, n)
	for i := range items {
		items[i] = stackitem.Null{}
	}
	v.estack.PushItem(stackitem.NewStruct(items))
}

func opNewMap(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.PushItem(stackitem.NewMap())
}

func opSize(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	it := v.estack.Pop().Item()
	var n int
	switch t := it.(type) {
	case *stackitem.ByteArray:
		n = len(*t)
	case *stackitem.Buffer:
		n = len(t.Bytes())
	case *stackitem.Array:
		n = t.Len()
	case *stackitem.Struct:
		n = t.Len()
	case *stackitem.Map:
		n = t.Len()
	default:
		panic(errors.New("vm: SIZE not supported for this item"))
	}
	v.estack.PushVal(int64(n))
}

func opHasKey(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	key := v.estack.Pop().Item()
	it := v.estack.Pop().Item()
	switch t := it.(type) {
	case *stackitem.Map:
		_, ok := t.Get(key)
		v.estack.PushItem(stackitem.NewBool(ok))
	case *stackitem.Array:
		idx := mustIndex(key, t.Len())
		v.estack.PushItem(stackitem.NewBool(idx >= 0))
	case *stackitem.Struct:
		idx := mustIndex(key, t.Len())
		v.estack.PushItem(stackitem.NewBool(idx >= 0))
	default:
		panic(errors.New("vm: HASKEY not supported for this item"))
	}
}

func mustIndex(key stackitem.Item, length int) int {
	n, err := stackitem.ToInt32(key)
	if err != nil {
		panic(err)
	}
	if int(n) < 0 || int(n) >= length {
		return -1
	}
	return int(n)
}

func opKeys(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	m, ok := v.estack.Pop().Item().(*stackitem.Map)
	if !ok {
		panic(errors.New("vm: KEYS requires a Map"))
	}
	els := m.Elements()
	keys := make([]stackitem.Item, len(els))
	for i, e := range els {
		keys[i] = e.Key
	}
	v.estack.PushItem(stackitem.NewArray(keys))
}

func opValues(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	it := v.estack.Pop().Item()
	switch t := it.(type) {
	case *stackitem.Map:
		els := t.Elements()
		vals := make([]stackitem.Item, len(els))
		for i, e := range els {
			vals[i] = deepCopyValue(e.Value)
		}
		v.estack.PushItem(stackitem.NewArray(vals))
	case *stackitem.Array:
		items := t.Items()
		out := make([]stackitem.Item, len(items))
		for i, it := range items {
			out[i] = deepCopyValue(it)
		}
		v.estack.PushItem(stackitem.NewArray(out))
	default:
		panic(errors.New("vm: VALUES not supported for this item"))
	}
}

func deepCopyValue(it stackitem.Item) stackitem.Item {
	if s, ok := it.(*stackitem.Struct); ok {
		return s.Clone()
	}
	return it
}

func opPickItem(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	key := v.estack.Pop().Item()
	it := v.estack.Pop().Item()
	switch t := it.(type) {
	case *stackitem.Map:
		val, ok := t.Get(key)
		if !ok {
			panic(errors.New("vm: key not found in map"))
		}
		v.estack.PushItem(val)
	case *stackitem.Array:
		idx := indexOrPanic(key, t.Len())
		v.estack.PushItem(t.Elem(idx))
	case *stackitem.Struct:
		idx := indexOrPanic(key, t.Len())
		v.estack.PushItem(t.Elem(idx))
	case *stackitem.ByteArray:
		idx := indexOrPanic(key, len(*t))
		v.estack.PushVal(int64((*t)[idx]))
	case *stackitem.Buffer:
		idx := indexOrPanic(key, len(t.Bytes()))
		v.estack.PushVal(int64(t.Bytes()[idx]))
	default:
		panic(errors.New("vm: PICKITEM not supported for this item"))
	}
}

func indexOrPanic(key stackitem.Item, length int) int {
	n, err := stackitem.ToInt32(key)
	if err != nil {
		panic(err)
	}
	if int(n) < 0 || int(n) >= length {
		panic(errors.New("vm: index out of range"))
	}
	return int(n)
}

func opAppend(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	it := v.estack.Pop().Item()
	arr := v.estack.Pop().Item()
	switch t := arr.(type) {
	case *stackitem.Array:
		if t.Len() >= stackitem.MaxArraySize {
			panic(errors.New("vm: array size limit exceeded"))
		}
		t.Append(it)
		v.refs.Add(it)
	case *stackitem.Struct:
		if t.Len() >= stackitem.MaxArraySize {
			panic(errors.New("vm: array size limit exceeded"))
		}
		t.Append(it)
		v.refs.Add(it)
	default:
		panic(errors.New("vm: APPEND requires an Array or Struct"))
	}
}

func opSetItem(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	val := v.estack.Pop().Item()
	key := v.estack.Pop().Item()
	it := v.estack.Pop().Item()
	switch t := it.(type) {
	case *stackitem.Map:
		if t.Len() >= stackitem.MaxArraySize {
			if _, ok := t.Get(key); !ok {
				panic(errors.New("vm: map size limit exceeded"))
			}
		}
		old, existed := t.Get(key)
		t.Add(key, val)
		v.refs.Add(val)
		if existed {
			v.refs.Remove(old)
		} else {
			v.refs.Add(key)
		}
	case *stackitem.Array:
		idx := indexOrPanic(key, t.Len())
		old := t.Elem(idx)
		t.SetElem(idx, val)
		v.refs.Add(val)
		v.refs.Remove(old)
	case *stackitem.Struct:
		idx := indexOrPanic(key, t.Len())
		old := t.Elem(idx)
		t.SetElem(idx, val)
		v.refs.Add(val)
		v.refs.Remove(old)
	case *stackitem.Buffer:
		idx := indexOrPanic(key, len(t.Bytes()))
		b, err := stackitem.ToInt32(val)
		if err != nil {
			panic(err)
		}
		t.SetByte(idx, byte(b))
	default:
		panic(errors.New("vm: SETITEM not supported for this item"))
	}
}

func opReverseItems(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	it := v.estack.Pop().Item()
	var items []stackitem.Item
	switch t := it.(type) {
	case *stackitem.Array:
		items = t.Items()
	case *stackitem.Struct:
		items = t.Items()
	case *stackitem.Buffer:
		b := t.Bytes()
		for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
		return
	default:
		panic(errors.New("vm: REVERSEITEMS not supported for this item"))
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

func opRemove(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	key := v.estack.Pop().Item()
	it := v.estack.Pop().Item()
	switch t := it.(type) {
	case *stackitem.Map:
		old, ok := t.Get(key)
		if ok {
			v.refs.Remove(old)
			v.refs.Remove(key)
		}
		t.Delete(key)
	case *stackitem.Array:
		idx := indexOrPanic(key, t.Len())
		items := t.Items()
		v.refs.Remove(items[idx])
		t.RemoveAt(idx)
	case *stackitem.Struct:
		idx := indexOrPanic(key, t.Len())
		items := t.Items()
		v.refs.Remove(items[idx])
		t.RemoveAt(idx)
	default:
		panic(errors.New("vm: REMOVE not supported for this item"))
	}
}

func opClearItems(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	it := v.estack.Pop().Item()
	switch t := it.(type) {
	case *stackitem.Array:
		for _, e := range t.Items() {
			v.refs.Remove(e)
		}
		t.Clear()
	case *stackitem.Struct:
		for _, e := range t.Items() {
			v.refs.Remove(e)
		}
		t.Clear()
	case *stackitem.Map:
		for _, e := range t.Elements() {
			v.refs.Remove(e.Key)
			v.refs.Remove(e.Value)
		}
		t.Clear()
	default:
		panic(errors.New("vm: CLEARITEMS not supported for this item"))
	}
}

func opPopItem(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	arr, ok := v.estack.Pop().Item().(*stackitem.Array)
	if !ok {
		panic(errors.New("vm: POPITEM requires an Array"))
	}
	if arr.Len() == 0 {
		panic(errors.New("vm: POPITEM on empty array"))
	}
	idx := arr.Len() - 1
	elem := arr.Elem(idx)
	v.refs.Remove(elem)
	arr.RemoveAt(idx)
	v.estack.PushItem(elem)
}
