package vm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/n3core/neogo/pkg/vm/opcode"
	"github.com/n3core/neogo/pkg/vm/stackitem"
)

// instrFunc executes a single decoded instruction against v's current
// context. param is the operand bytes already consumed from the script
// (the jump offset, the slot index, the literal bytes...).
type instrFunc func(v *VM, ctx *Context, op opcode.Opcode, param []byte)

var jumpTable [256]instrFunc

func init() {
	for i := range jumpTable {
		jumpTable[i] = opUnassigned
	}

	// Constants.
	jumpTable[opcode.PUSHINT8] = opPushInt
	jumpTable[opcode.PUSHINT16] = opPushInt
	jumpTable[opcode.PUSHINT32] = opPushInt
	jumpTable[opcode.PUSHINT64] = opPushInt
	jumpTable[opcode.PUSHINT128] = opPushInt
	jumpTable[opcode.PUSHINT256] = opPushInt
	jumpTable[opcode.PUSHT] = opPushBool(true)
	jumpTable[opcode.PUSHF] = opPushBool(false)
	jumpTable[opcode.PUSHA] = opPushA
	jumpTable[opcode.PUSHNULL] = opPushNull
	jumpTable[opcode.PUSHDATA1] = opPushData
	jumpTable[opcode.PUSHDATA2] = opPushData
	jumpTable[opcode.PUSHDATA4] = opPushData
	for op := opcode.PUSHM1; op <= opcode.PUSH16; op++ {
		jumpTable[op] = opPushN
	}

	// Flow control.
	jumpTable[opcode.NOP] = opNop
	for _, op := range []opcode.Opcode{opcode.JMP, opcode.JMPL} {
		jumpTable[op] = opJmp(nil)
	}
	jumpTable[opcode.JMPIF] = opJmp(condTrue)
	jumpTable[opcode.JMPIFL] = opJmp(condTrue)
	jumpTable[opcode.JMPIFNOT] = opJmp(condFalse)
	jumpTable[opcode.JMPIFNOTL] = opJmp(condFalse)
	jumpTable[opcode.JMPEQ] = opJmpCmp(func(c int) bool { return c == 0 })
	jumpTable[opcode.JMPEQL] = jumpTable[opcode.JMPEQ]
	jumpTable[opcode.JMPNE] = opJmpCmp(func(c int) bool { return c != 0 })
	jumpTable[opcode.JMPNEL] = jumpTable[opcode.JMPNE]
	jumpTable[opcode.JMPGT] = opJmpCmp(func(c int) bool { return c > 0 })
	jumpTable[opcode.JMPGTL] = jumpTable[opcode.JMPGT]
	jumpTable[opcode.JMPGE] = opJmpCmp(func(c int) bool { return c >= 0 })
	jumpTable[opcode.JMPGEL] = jumpTable[opcode.JMPGE]
	jumpTable[opcode.JMPLT] = opJmpCmp(func(c int) bool { return c < 0 })
	jumpTable[opcode.JMPLTL] = jumpTable[opcode.JMPLT]
	jumpTable[opcode.JMPLE] = opJmpCmp(func(c int) bool { return c <= 0 })
	jumpTable[opcode.JMPLEL] = jumpTable[opcode.JMPLE]
	jumpTable[opcode.CALL] = opCall
	jumpTable[opcode.CALLL] = opCall
	jumpTable[opcode.CALLA] = opCallA
	jumpTable[opcode.CALLT] = opCallT
	jumpTable[opcode.ABORT] = opAbort
	jumpTable[opcode.ASSERT] = opAssert
	jumpTable[opcode.THROW] = opThrow
	jumpTable[opcode.TRY] = opTry
	jumpTable[opcode.TRYL] = opTry
	jumpTable[opcode.ENDTRY] = opEndTry
	jumpTable[opcode.ENDTRYL] = opEndTry
	jumpTable[opcode.ENDFINALLY] = opEndFinally
	jumpTable[opcode.RET] = opRet
	jumpTable[opcode.SYSCALL] = opSyscall

	// Stack ops.
	jumpTable[opcode.DEPTH] = opDepth
	jumpTable[opcode.DROP] = opDrop
	jumpTable[opcode.NIP] = opNip
	jumpTable[opcode.XDROP] = opXDrop
	jumpTable[opcode.CLEAR] = opClear
	jumpTable[opcode.DUP] = opDup
	jumpTable[opcode.OVER] = opOver
	jumpTable[opcode.PICK] = opPick
	jumpTable[opcode.TUCK] = opTuck
	jumpTable[opcode.SWAP] = opSwap
	jumpTable[opcode.ROT] = opRot
	jumpTable[opcode.ROLL] = opRoll
	jumpTable[opcode.REVERSE3] = opReverseN(3)
	jumpTable[opcode.REVERSE4] = opReverseN(4)
	jumpTable[opcode.REVERSEN] = opReverseTop

	// Slots.
	jumpTable[opcode.INITSSLOT] = opInitSSlot
	jumpTable[opcode.INITSLOT] = opInitSlot
	for i := 0; i <= 6; i++ {
		jumpTable[opcode.LDSFLD0+opcode.Opcode(i)] = opLdSFldN(i)
		jumpTable[opcode.STSFLD0+opcode.Opcode(i)] = opStSFldN(i)
		jumpTable[opcode.LDLOC0+opcode.Opcode(i)] = opLdLocN(i)
		jumpTable[opcode.STLOC0+opcode.Opcode(i)] = opStLocN(i)
		jumpTable[opcode.LDARG0+opcode.Opcode(i)] = opLdArgN(i)
		jumpTable[opcode.STARG0+opcode.Opcode(i)] = opStArgN(i)
	}
	jumpTable[opcode.LDSFLD] = opLdSFld
	jumpTable[opcode.STSFLD] = opStSFld
	jumpTable[opcode.LDLOC] = opLdLoc
	jumpTable[opcode.STLOC] = opStLoc
	jumpTable[opcode.LDARG] = opLdArg
	jumpTable[opcode.STARG] = opStArg

	// Splice.
	jumpTable[opcode.NEWBUFFER] = opNewBuffer
	jumpTable[opcode.MEMCPY] = opMemcpy
	jumpTable[opcode.CAT] = opCat
	jumpTable[opcode.SUBSTR] = opSubstr
	jumpTable[opcode.LEFT] = opLeft
	jumpTable[opcode.RIGHT] = opRight

	// Bitwise logic.
	jumpTable[opcode.INVERT] = opBitUnary(func(a *big.Int) *big.Int { return new(big.Int).Not(a) })
	jumpTable[opcode.AND] = opBitBinary(func(a, b *big.Int) *big.Int { return new(big.Int).And(a, b) })
	jumpTable[opcode.OR] = opBitBinary(func(a, b *big.Int) *big.Int { return new(big.Int).Or(a, b) })
	jumpTable[opcode.XOR] = opBitBinary(func(a, b *big.Int) *big.Int { return new(big.Int).Xor(a, b) })
	jumpTable[opcode.EQUAL] = opEqual(true)
	jumpTable[opcode.NOTEQUAL] = opEqual(false)

	// Arithmetic.
	jumpTable[opcode.SIGN] = opSign
	jumpTable[opcode.ABS] = opArithUnary(func(a *big.Int) *big.Int { return new(big.Int).Abs(a) })
	jumpTable[opcode.NEGATE] = opArithUnary(func(a *big.Int) *big.Int { return new(big.Int).Neg(a) })
	jumpTable[opcode.INC] = opArithUnary(func(a *big.Int) *big.Int { return new(big.Int).Add(a, big.NewInt(1)) })
	jumpTable[opcode.DEC] = opArithUnary(func(a *big.Int) *big.Int { return new(big.Int).Sub(a, big.NewInt(1)) })
	jumpTable[opcode.ADD] = opArithBinary(func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) })
	jumpTable[opcode.SUB] = opArithBinary(func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) })
	jumpTable[opcode.MUL] = opArithBinary(func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) })
	jumpTable[opcode.DIV] = opArithBinaryErr(func(a, b *big.Int) (*big.Int, error) {
		if b.Sign() == 0 {
			return nil, errors.New("vm: division by zero")
		}
		return new(big.Int).Quo(a, b), nil
	})
	jumpTable[opcode.MOD] = opArithBinaryErr(func(a, b *big.Int) (*big.Int, error) {
		if b.Sign() == 0 {
			return nil, errors.New("vm: division by zero")
		}
		return new(big.Int).Rem(a, b), nil
	})
	jumpTable[opcode.POW] = opPow
	jumpTable[opcode.SQRT] = opSqrt
	jumpTable[opcode.MODMUL] = opModMul
	jumpTable[opcode.MODPOW] = opModPow
	jumpTable[opcode.SHL] = opShift(true)
	jumpTable[opcode.SHR] = opShift(false)
	jumpTable[opcode.NOT] = opNot
	jumpTable[opcode.BOOLAND] = opBoolBinary(func(a, b bool) bool { return a && b })
	jumpTable[opcode.BOOLOR] = opBoolBinary(func(a, b bool) bool { return a || b })
	jumpTable[opcode.NZ] = opNz
	jumpTable[opcode.NUMEQUAL] = opNumCmp(func(c int) bool { return c == 0 })
	jumpTable[opcode.NUMNOTEQUAL] = opNumCmp(func(c int) bool { return c != 0 })
	jumpTable[opcode.LT] = opNumCmp(func(c int) bool { return c < 0 })
	jumpTable[opcode.LE] = opNumCmp(func(c int) bool { return c <= 0 })
	jumpTable[opcode.GT] = opNumCmp(func(c int) bool { return c > 0 })
	jumpTable[opcode.GE] = opNumCmp(func(c int) bool { return c >= 0 })
	jumpTable[opcode.MIN] = opMinMax(true)
	jumpTable[opcode.MAX] = opMinMax(false)
	jumpTable[opcode.WITHIN] = opWithin

	// Compound types.
	jumpTable[opcode.PACKMAP] = opPackMap
	jumpTable[opcode.PACKSTRUCT] = opPackStruct
	jumpTable[opcode.PACK] = opPack
	jumpTable[opcode.UNPACK] = opUnpack
	jumpTable[opcode.NEWARRAY0] = opNewArray0
	jumpTable[opcode.NEWARRAY] = opNewArray
	jumpTable[opcode.NEWARRAYT] = opNewArrayT
	jumpTable[opcode.NEWSTRUCT0] = opNewStruct0
	jumpTable[opcode.NEWSTRUCT] = opNewStruct
	jumpTable[opcode.NEWMAP] = opNewMap
	jumpTable[opcode.SIZE] = opSize
	jumpTable[opcode.HASKEY] = opHasKey
	jumpTable[opcode.KEYS] = opKeys
	jumpTable[opcode.VALUES] = opValues
	jumpTable[opcode.PICKITEM] = opPickItem
	jumpTable[opcode.APPEND] = opAppend
	jumpTable[opcode.SETITEM] = opSetItem
	jumpTable[opcode.REVERSEITEMS] = opReverseItems
	jumpTable[opcode.REMOVE] = opRemove
	jumpTable[opcode.CLEARITEMS] = opClearItems
	jumpTable[opcode.POPITEM] = opPopItem

	// Types.
	jumpTable[opcode.ISNULL] = opIsNull
	jumpTable[opcode.ISTYPE] = opIsType
	jumpTable[opcode.CONVERT] = opConvert
}

func opUnassigned(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	panic(errors.New("vm: " + op.String() + " is not a valid instruction"))
}

func opNop(v *VM, ctx *Context, op opcode.Opcode, param []byte) {}

// --- constants ---

func opPushInt(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.PushItem(stackitem.NewBigInteger(fromLEBytes(param)))
}

func fromLEBytes(b []byte) *big.Int {
	be := make([]byte, len(b))
	copy(be, b)
	for i, j := 0, len(be)-1; i < j; i, j = i+1, j-1 {
		be[i], be[j] = be[j], be[i]
	}
	if len(be) == 0 {
		return big.NewInt(0)
	}
	neg := be[0]&0x80 != 0
	if !neg {
		return new(big.Int).SetBytes(be)
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(len(be)*8))
	return new(big.Int).Sub(new(big.Int).SetBytes(be), mod)
}

func opPushBool(val bool) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		v.estack.PushItem(stackitem.NewBool(val))
	}
}

func opPushA(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	offset := int(int32(binary.LittleEndian.Uint32(param))) + ctx.ip - len(param) - 1
	v.estack.PushItem(stackitem.NewPointer(offset, ctx.prog))
}

func opPushNull(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.PushItem(stackitem.Null{})
}

func opPushData(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.PushItem(stackitem.NewByteArray(bytes.Clone(param)))
}

func opPushN(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	n := int64(op) - int64(opcode.PUSH0)
	v.estack.PushItem(stackitem.NewBigInteger(big.NewInt(n)))
}
