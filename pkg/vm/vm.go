// Package vm implements the NeoVM bytecode interpreter: a stack machine
// with static/local/argument register slots, try/catch/finally exception
// handling, and gas-metered instruction dispatch through a 256-entry jump
// table (see jumptable.go).
package vm

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/n3core/neogo/pkg/smartcontract/callflag"
	"github.com/n3core/neogo/pkg/vm/opcode"
	"github.com/n3core/neogo/pkg/vm/stackitem"
	"github.com/n3core/neogo/pkg/vm/vmstate"
)

// MaxInvocationStackSize bounds how deep CALL/CALLA/syscall-driven contract
// calls may nest before the VM faults.
const MaxInvocationStackSize = 1024

// ErrGasLimitExceeded is raised (as a catchable exception) once GasConsumed
// would exceed GasLimit.
var ErrGasLimitExceeded = errors.New("vm: gas limit exceeded")

// PriceGetter prices a single instruction; the default is a flat 1 per step.
type PriceGetter func(op opcode.Opcode, ctx *Context) int64

// SyscallFunc resolves and invokes a SYSCALL by its 4-byte method ID.
type SyscallFunc func(v *VM, id uint32) error

// TokenCallFunc resolves and invokes a CALLT method-token entry.
type TokenCallFunc func(v *VM, tok MethodToken)

// VM is a single NeoVM execution: one evaluation stack shared by every call
// context on the invocation stack, plus gas accounting and pluggable
// syscall/method-token dispatch installed by the hosting ApplicationEngine.
type VM struct {
	estack *Stack
	istack []*Context
	refs   *refCounter

	state     vmstate.State
	faultItem stackitem.Item
	faultErr  error

	// uncaught holds an exception item that must be re-raised once the
	// finally block currently executing (ENDFINALLY) completes.
	uncaught stackitem.Item
	// pendingJump holds the ENDTRY target to resume once a finally block
	// that preempted it completes without itself throwing.
	pendingJump *int

	GasLimit    int64
	gasConsumed int64
	priceGetter PriceGetter

	SyscallHandler   SyscallFunc
	TokenCallHandler TokenCallFunc
}

// New creates an empty VM with no gas limit and no loaded script.
func New() *VM {
	v := &VM{refs: newRefCounter(), GasLimit: -1}
	v.estack = NewStack("estack", v.refs)
	return v
}

// SetPriceGetter installs f as the per-instruction gas price function,
// replacing the default flat price of 1.
func (v *VM) SetPriceGetter(f PriceGetter) { v.priceGetter = f }

// Load resets the VM and loads script as the sole, top-level context.
func (v *VM) Load(script []byte) {
	v.istack = nil
	v.state = vmstate.None
	v.faultItem = nil
	v.faultErr = nil
	v.uncaught = nil
	v.pendingJump = nil
	v.gasConsumed = 0
	v.LoadScript(script)
}

// LoadScript pushes a new context over script onto the invocation stack,
// sharing this VM's evaluation stack, and returns it for the caller to set
// up (scriptHash, tokens, callFlags) before execution resumes.
func (v *VM) LoadScript(script []byte) *Context {
	if len(v.istack) >= MaxInvocationStackSize {
		panic(errors.New("vm: invocation stack limit exceeded"))
	}
	ctx := NewContext(script, v.estack)
	v.istack = append(v.istack, ctx)
	return ctx
}

// Estack returns the VM's shared evaluation stack.
func (v *VM) Estack() *Stack { return v.estack }

// Context returns the currently executing call frame, or nil if the VM has
// no script loaded or has already finished.
func (v *VM) Context() *Context {
	if len(v.istack) == 0 {
		return nil
	}
	return v.istack[len(v.istack)-1]
}

// State returns the VM's current execution state.
func (v *VM) State() vmstate.State { return v.state }

// HasFailed reports whether the VM faulted.
func (v *VM) HasFailed() bool { return v.state.HasFlag(vmstate.Fault) }

// FaultException returns the uncaught exception item that faulted the VM,
// or nil if it has not faulted (or faulted from a Go-level error with no
// item representation).
func (v *VM) FaultException() stackitem.Item { return v.faultItem }

// GasConsumed returns the total gas charged so far.
func (v *VM) GasConsumed() int64 { return v.gasConsumed }

// AddGas charges n against GasLimit, faulting the step if it would exceed
// a non-negative limit.
func (v *VM) AddGas(n int64) {
	v.gasConsumed += n
	if v.GasLimit >= 0 && v.gasConsumed > v.GasLimit {
		panic(ErrGasLimitExceeded)
	}
}

func (v *VM) currentContext() *Context {
	return v.Context()
}

func (v *VM) pushCallContext(target int) {
	cur := v.currentContext()
	if cur == nil {
		panic(errors.New("vm: CALL with no active context"))
	}
	nc := v.LoadScript(cur.prog)
	nc.scriptHash = cur.scriptHash
	nc.tokens = cur.tokens
	nc.callFlags = cur.callFlags
	nc.ip = target
}

func (v *VM) pushCallContextScript(script []byte, pos int) {
	cur := v.currentContext()
	nc := v.LoadScript(script)
	if cur != nil {
		nc.scriptHash = cur.scriptHash
		nc.tokens = cur.tokens
		nc.callFlags = cur.callFlags
	}
	nc.ip = pos
}

// popCallContext pops the current context, marking the VM Halt once the
// invocation stack empties.
func (v *VM) popCallContext() *Context {
	n := len(v.istack)
	ctx := v.istack[n-1]
	v.istack = v.istack[:n-1]
	if len(v.istack) == 0 {
		v.state = vmstate.Halt
	}
	return ctx
}

// throw raises item as a NeoVM exception: THROW's handler, and the
// recovered-panic path below, both funnel through this.
func (v *VM) throw(item stackitem.Item) {
	v.raise(item)
}

// raise searches the invocation stack, innermost context first, for a
// live TRY handler that can catch item; a context with no usable handler
// is popped and the search continues in its caller, matching the VM's
// whole-invocation-stack exception scope. If nothing catches it, the VM
// faults.
func (v *VM) raise(item stackitem.Item) {
	for len(v.istack) > 0 {
		ctx := v.currentContext()
		for i := len(ctx.tryStack) - 1; i >= 0; i-- {
			h := &ctx.tryStack[i]
			switch h.state {
			case handlerTry:
				if h.hasCatch {
					h.state = handlerCatch
					v.estack.PushItem(item)
					ctx.Jump(h.catchOffset)
					return
				}
				if h.hasFinally {
					h.state = handlerFinally
					v.uncaught = item
					ctx.Jump(h.finallyOffset)
					return
				}
			case handlerCatch:
				if h.hasFinally {
					h.state = handlerFinally
					v.uncaught = item
					ctx.Jump(h.finallyOffset)
					return
				}
			}
		}
		v.istack = v.istack[:len(v.istack)-1]
	}
	v.state = vmstate.Fault
	v.faultItem = item
}

// handleFault re-raises err (a Go error surfacing from a finally block
// that itself re-throws the exception it was cleaning up after) through
// the same exception-handling path as throw.
func (v *VM) handleFault(err error) {
	v.raise(stackitem.NewByteArray([]byte(err.Error())))
}

func readPrefixLen(ctx *Context, n int) int {
	b := ctx.readBytes(n)
	switch n {
	case 1:
		return int(b[0])
	case 2:
		return int(binary.LittleEndian.Uint16(b))
	case 4:
		return int(binary.LittleEndian.Uint32(b))
	default:
		return 0
	}
}

// Step executes a single instruction, recovering and converting any panic
// (a Go error from a failed conversion, an out-of-range index, gas
// exhaustion...) into a catchable VM exception.
func (v *VM) Step() {
	defer func() {
		if r := recover(); r != nil {
			v.recoverFault(r)
		}
	}()

	ctx := v.currentContext()
	if ctx == nil {
		v.state = vmstate.Halt
		return
	}
	if ctx.atEnd() {
		v.popCallContext()
		return
	}

	op := opcode.Opcode(ctx.readByte())
	sz := opcode.Size(op)
	var param []byte
	if sz.Prefix > 0 {
		n := readPrefixLen(ctx, sz.Prefix)
		param = ctx.readBytes(n)
	} else if sz.Size > 0 {
		param = ctx.readBytes(sz.Size)
	}

	if v.priceGetter != nil {
		v.AddGas(v.priceGetter(op, ctx))
	} else {
		v.AddGas(1)
	}

	jumpTable[op](v, ctx, op, param)

	if int(*v.refs) > stackitem.MaxStackSize {
		panic(fmt.Errorf("vm: stack item limit (%d) exceeded", stackitem.MaxStackSize))
	}
}

func (v *VM) recoverFault(r interface{}) {
	switch e := r.(type) {
	case stackitem.Item:
		v.raise(e)
	case error:
		v.raise(stackitem.NewByteArray([]byte(e.Error())))
	default:
		v.raise(stackitem.NewByteArray([]byte(fmt.Sprint(r))))
	}
}

// Run executes instructions until the VM halts or faults.
func (v *VM) Run() (vmstate.State, error) {
	if len(v.istack) == 0 {
		return v.state, errors.New("vm: no script loaded")
	}
	for v.state == vmstate.None {
		v.Step()
	}
	if v.state.HasFlag(vmstate.Fault) {
		msg := "vm: unhandled exception"
		if v.faultItem != nil {
			if b, err := v.faultItem.TryBytes(); err == nil {
				msg = string(b)
			}
		}
		return v.state, errors.New(msg)
	}
	return v.state, nil
}

// CallFlags returns the current context's call flags, or NoneFlag if no
// context is loaded.
func (v *VM) CallFlags() callflag.CallFlag {
	ctx := v.currentContext()
	if ctx == nil {
		return callflag.NoneFlag
	}
	return ctx.callFlags
}
