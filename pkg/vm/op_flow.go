package vm

import (
	"encoding/binary"
	"errors"

	"github.com/n3core/neogo/pkg/vm/opcode"
	"github.com/n3core/neogo/pkg/vm/stackitem"
)

// readOffset turns a relative jump operand (1-byte sbyte for the short form,
// 4-byte little-endian int32 for the *L long form) into an absolute IP.
func readOffset(ctx *Context, op opcode.Opcode, param []byte) int {
	base := ctx.ip - len(param) - 1
	if len(param) == 4 {
		return base + int(int32(binary.LittleEndian.Uint32(param)))
	}
	return base + int(int8(param[0]))
}

func condTrue(e *Element) bool  { return e.Bool() }
func condFalse(e *Element) bool { return !e.Bool() }

func opJmp(cond func(*Element) bool) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		if cond != nil && !cond(v.estack.Pop()) {
			return
		}
		ctx.Jump(readOffset(ctx, op, param))
	}
}

func opJmpCmp(pred func(int) bool) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		if pred(a.Cmp(b)) {
			ctx.Jump(readOffset(ctx, op, param))
		}
	}
}

func opCall(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	target := readOffset(ctx, op, param)
	v.pushCallContext(target)
}

func opCallA(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	it := v.estack.Pop().Item()
	p, ok := it.(*stackitem.Pointer)
	if !ok {
		panic(errors.New("vm: CALLA requires a Pointer item"))
	}
	v.pushCallContextScript(p.Script, p.Position)
}

func opCallT(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	idx := int(binary.LittleEndian.Uint16(param))
	if idx < 0 || idx >= len(ctx.tokens) {
		panic(errors.New("vm: invalid method token index"))
	}
	tok := ctx.tokens[idx]
	if v.TokenCallHandler == nil {
		panic(errors.New("vm: no method-token call handler installed"))
	}
	v.TokenCallHandler(v, tok)
}

var errAbort = errors.New("vm: ABORT")

func opAbort(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	panic(errAbort)
}

func opAssert(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	if !v.estack.Pop().Bool() {
		panic(errors.New("vm: ASSERT failed"))
	}
}

func opThrow(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.throw(v.estack.Pop().Item())
}

// opTry decodes TRY/TRYL's catch/finally offsets, where a zero offset means
// "no handler for this stage" per the VM's convention.
func opTry(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	var catchRel, finallyRel int
	if len(param) == 8 {
		catchRel = int(int32(binary.LittleEndian.Uint32(param[0:4])))
		finallyRel = int(int32(binary.LittleEndian.Uint32(param[4:8])))
	} else {
		catchRel = int(int8(param[0]))
		finallyRel = int(int8(param[1]))
	}
	base := ctx.ip - len(param) - 1
	h := exceptionHandler{state: handlerTry}
	if catchRel != 0 {
		h.hasCatch = true
		h.catchOffset = base + catchRel
	}
	if finallyRel != 0 {
		h.hasFinally = true
		h.finallyOffset = base + finallyRel
	}
	ctx.tryStack = append(ctx.tryStack, h)
}

func opEndTry(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	if len(ctx.tryStack) == 0 {
		panic(errors.New("vm: ENDTRY outside TRY"))
	}
	h := ctx.tryStack[len(ctx.tryStack)-1]
	target := readOffset(ctx, op, param)
	if h.hasFinally && h.state != handlerFinally {
		h.state = handlerFinally
		ctx.tryStack[len(ctx.tryStack)-1] = h
		v.pendingJump = &target
		ctx.Jump(h.finallyOffset)
		return
	}
	ctx.tryStack = ctx.tryStack[:len(ctx.tryStack)-1]
	ctx.Jump(target)
}

func opEndFinally(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	if len(ctx.tryStack) == 0 {
		panic(errors.New("vm: ENDFINALLY outside TRY"))
	}
	ctx.tryStack = ctx.tryStack[:len(ctx.tryStack)-1]
	if v.uncaught != nil {
		item := v.uncaught
		v.uncaught = nil
		v.raise(item)
		return
	}
	if v.pendingJump != nil {
		target := *v.pendingJump
		v.pendingJump = nil
		ctx.Jump(target)
	}
}

func opRet(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.popCallContext()
}

func opSyscall(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	id := binary.LittleEndian.Uint32(param)
	if v.SyscallHandler == nil {
		panic(errors.New("vm: no syscall handler installed"))
	}
	if err := v.SyscallHandler(v, id); err != nil {
		panic(err)
	}
}
