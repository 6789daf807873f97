package vm

import (
	"github.com/n3core/neogo/pkg/smartcontract/callflag"
	"github.com/n3core/neogo/pkg/vm/stackitem"
)

// exceptionHandler is one entry on a context's try/catch/finally stack,
// recording the IP ranges TRY pushed and which stage (catch, finally) the
// runtime is currently unwinding toward.
type exceptionHandler struct {
	catchOffset   int
	finallyOffset int
	hasCatch      bool
	hasFinally    bool
	state         handlerState
}

type handlerState int

const (
	handlerTry handlerState = iota
	handlerCatch
	handlerFinally
)

// Context is a single call frame: a script, its instruction pointer, its
// static/local/argument register files, and the exception-handler stack
// TRY/ENDTRY/ENDFINALLY operate on.
type Context struct {
	prog      []byte
	ip        int
	callFlags callflag.CallFlag

	estack *Stack

	sslots *Slot
	lslots *Slot
	aslots *Slot

	tryStack []exceptionHandler

	scriptHash []byte

	// NEF method-token table, populated by the host for CALLT.
	tokens []MethodToken
}

// MethodToken is one entry of a NEF's method-token table, resolved by CALLT.
type MethodToken struct {
	Hash       []byte
	Method     string
	ParamCount uint16
	HasReturn  bool
	CallFlag   callflag.CallFlag
}

// NewContext creates a Context over prog sharing the VM's evaluation stack.
func NewContext(prog []byte, estack *Stack) *Context {
	return &Context{prog: prog, estack: estack}
}

// NextIP returns the instruction pointer the next Step will read from.
func (c *Context) NextIP() int { return c.ip }

// Program returns the context's script bytes.
func (c *Context) Program() []byte { return c.prog }

// Jump sets the instruction pointer, bounds-checked against the script.
func (c *Context) Jump(pos int) {
	if pos < 0 || pos > len(c.prog) {
		panic("vm: jump target out of range")
	}
	c.ip = pos
}

func (c *Context) readByte() byte {
	b := c.prog[c.ip]
	c.ip++
	return b
}

func (c *Context) readBytes(n int) []byte {
	b := c.prog[c.ip : c.ip+n]
	c.ip += n
	return b
}

func (c *Context) atEnd() bool { return c.ip >= len(c.prog) }

func (c *Context) initStatic(n int, rc *refCounter) {
	c.sslots = &Slot{}
	c.sslots.init(n, rc)
}

func (c *Context) initLocals(localN, argN int, rc *refCounter) {
	c.lslots = &Slot{}
	c.lslots.init(localN, rc)
	c.aslots = &Slot{}
	c.aslots.init(argN, rc)
}

func (c *Context) getSlotItem(slots *Slot, i int) stackitem.Item {
	if slots == nil {
		panic("vm: slot not initialized")
	}
	return slots.Get(i)
}

func (c *Context) setSlotItem(slots *Slot, i int, it stackitem.Item, rc *refCounter) {
	if slots == nil {
		panic("vm: slot not initialized")
	}
	slots.set(i, it, rc)
}
