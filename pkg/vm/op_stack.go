package vm

import (
	"errors"

	"github.com/n3core/neogo/pkg/vm/opcode"
	"github.com/n3core/neogo/pkg/vm/stackitem"
)

func opDepth(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.PushVal(int64(v.estack.Len()))
}

func opDrop(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.Pop()
}

func opNip(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.RemoveAt(1)
}

func opXDrop(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int(v.estack.Pop().BigInt().Int64())
	v.estack.RemoveAt(n)
}

func opClear(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.Clear()
}

func opDup(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.Dup(0)
}

func opOver(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.Dup(1)
}

func opPick(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int(v.estack.Pop().BigInt().Int64())
	v.estack.Dup(n)
}

func opTuck(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	top := v.estack.Peek(0)
	v.estack.InsertAt(NewElement(top.Item()), 2)
}

func opSwap(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	a := v.estack.RemoveAt(1)
	v.estack.Push(a)
}

func opRot(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	a := v.estack.RemoveAt(2)
	v.estack.Push(a)
}

func opRoll(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int(v.estack.Pop().BigInt().Int64())
	if n == 0 {
		return
	}
	e := v.estack.RemoveAt(n)
	v.estack.Push(e)
}

func opReverseN(n int) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		reverseTop(v, n)
	}
}

func opReverseTop(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int(v.estack.Pop().BigInt().Int64())
	reverseTop(v, n)
}

func reverseTop(v *VM, n int) {
	if n < 2 {
		return
	}
	if n > v.estack.Len() {
		panic(errors.New("vm: reverse count exceeds stack depth"))
	}
	items := make([]*Element, n)
	for i := 0; i < n; i++ {
		items[i] = v.estack.RemoveAt(0)
	}
	for _, e := range items {
		v.estack.Push(e)
	}
}

// --- slots ---

func opInitSSlot(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int(param[0])
	if n == 0 {
		panic(errors.New("vm: INITSSLOT requires a non-zero count"))
	}
	ctx.initStatic(n, v.refs)
}

func opInitSlot(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	localN := int(param[0])
	argN := int(param[1])
	if localN == 0 && argN == 0 {
		panic(errors.New("vm: INITSLOT requires locals or args"))
	}
	ctx.initLocals(localN, argN, v.refs)
	for i := argN - 1; i >= 0; i-- {
		ctx.setSlotItem(ctx.aslots, i, v.estack.Pop().Item(), v.refs)
	}
}

func opLdSFldN(i int) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		v.estack.PushItem(ctx.getSlotItem(ctx.sslots, i))
	}
}
func opStSFldN(i int) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		ctx.setSlotItem(ctx.sslots, i, v.estack.Pop().Item(), v.refs)
	}
}
func opLdLocN(i int) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		v.estack.PushItem(ctx.getSlotItem(ctx.lslots, i))
	}
}
func opStLocN(i int) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		ctx.setSlotItem(ctx.lslots, i, v.estack.Pop().Item(), v.refs)
	}
}
func opLdArgN(i int) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		v.estack.PushItem(ctx.getSlotItem(ctx.aslots, i))
	}
}
func opStArgN(i int) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		ctx.setSlotItem(ctx.aslots, i, v.estack.Pop().Item(), v.refs)
	}
}

func opLdSFld(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.PushItem(ctx.getSlotItem(ctx.sslots, int(param[0])))
}
func opStSFld(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	ctx.setSlotItem(ctx.sslots, int(param[0]), v.estack.Pop().Item(), v.refs)
}
func opLdLoc(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.PushItem(ctx.getSlotItem(ctx.lslots, int(param[0])))
}
func opStLoc(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	ctx.setSlotItem(ctx.lslots, int(param[0]), v.estack.Pop().Item(), v.refs)
}
func opLdArg(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.PushItem(ctx.getSlotItem(ctx.aslots, int(param[0])))
}
func opStArg(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	ctx.setSlotItem(ctx.aslots, int(param[0]), v.estack.Pop().Item(), v.refs)
}

// --- splice ---

func opNewBuffer(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int(v.estack.Pop().BigInt().Int64())
	v.estack.PushItem(stackitem.NewBuffer(make([]byte, n)))
}

func opMemcpy(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	count := int(v.estack.Pop().BigInt().Int64())
	srcIdx := int(v.estack.Pop().BigInt().Int64())
	src := v.estack.Pop().Bytes()
	dstIdx := int(v.estack.Pop().BigInt().Int64())
	dstItem, ok := v.estack.Pop().Item().(*stackitem.Buffer)
	if !ok {
		panic(errors.New("vm: MEMCPY destination must be a Buffer"))
	}
	if srcIdx < 0 || count < 0 || srcIdx+count > len(src) || dstIdx < 0 || dstIdx+count > len(dstItem.Bytes()) {
		panic(errors.New("vm: MEMCPY out of range"))
	}
	copy(dstItem.Bytes()[dstIdx:], src[srcIdx:srcIdx+count])
}

func opCat(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	b := v.estack.Pop().Bytes()
	a := v.estack.Pop().Bytes()
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	v.estack.PushItem(stackitem.NewBuffer(out))
}

func opSubstr(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	count := int(v.estack.Pop().BigInt().Int64())
	idx := int(v.estack.Pop().BigInt().Int64())
	b := v.estack.Pop().Bytes()
	if idx < 0 || count < 0 || idx+count > len(b) {
		panic(errors.New("vm: SUBSTR out of range"))
	}
	out := make([]byte, count)
	copy(out, b[idx:idx+count])
	v.estack.PushItem(stackitem.NewBuffer(out))
}

func opLeft(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	count := int(v.estack.Pop().BigInt().Int64())
	b := v.estack.Pop().Bytes()
	if count < 0 || count > len(b) {
		panic(errors.New("vm: LEFT out of range"))
	}
	out := make([]byte, count)
	copy(out, b[:count])
	v.estack.PushItem(stackitem.NewBuffer(out))
}

func opRight(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	count := int(v.estack.Pop().BigInt().Int64())
	b := v.estack.Pop().Bytes()
	if count < 0 || count > len(b) {
		panic(errors.New("vm: RIGHT out of range"))
	}
	out := make([]byte, count)
	copy(out, b[len(b)-count:])
	v.estack.PushItem(stackitem.NewBuffer(out))
}
