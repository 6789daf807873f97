package vm

import (
	"errors"
	"math/big"

	"github.com/n3core/neogo/pkg/vm/opcode"
	"github.com/n3core/neogo/pkg/vm/stackitem"
)

func opIsNull(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	_, ok := v.estack.Pop().Item().(stackitem.Null)
	v.estack.PushItem(stackitem.NewBool(ok))
}

func opIsType(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	t := stackitem.Type(param[0])
	if t == stackitem.AnyT {
		panic(errors.New("vm: ISTYPE against Any is not allowed"))
	}
	it := v.estack.Pop().Item()
	v.estack.PushItem(stackitem.NewBool(it.Type() == t))
}

func opConvert(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	t := stackitem.Type(param[0])
	it := v.estack.Pop().Item()
	v.estack.PushItem(convertTo(it, t))
}

func convertTo(it stackitem.Item, t stackitem.Type) stackitem.Item {
	if it.Type() == t {
		return it
	}
	switch t {
	case stackitem.BooleanT:
		return stackitem.NewBool(it.ToBool())
	case stackitem.IntegerT:
		switch x := it.(type) {
		case stackitem.Bool:
			if x {
				return stackitem.NewBigInteger(big.NewInt(1))
			}
			return stackitem.NewBigInteger(big.NewInt(0))
		default:
			b, err := it.TryBytes()
			if err != nil {
				panic(err)
			}
			if len(b) > 32 {
				panic(stackitem.ErrTooBig)
			}
			return stackitem.NewBigInteger(bytesToBigInt(b))
		}
	case stackitem.ByteArrayT, stackitem.BufferT:
		b, err := it.TryBytes()
		if err != nil {
			panic(err)
		}
		if t == stackitem.BufferT {
			cp := make([]byte, len(b))
			copy(cp, b)
			return stackitem.NewBuffer(cp)
		}
		return stackitem.NewByteArray(b)
	default:
		panic(errors.New("vm: unsupported CONVERT target type"))
	}
}

func bytesToBigInt(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	be := make([]byte, len(b))
	copy(be, b)
	for i, j := 0, len(be)-1; i < j; i, j = i+1, j-1 {
		be[i], be[j] = be[j], be[i]
	}
	neg := be[0]&0x80 != 0
	v := new(big.Int).SetBytes(be)
	if !neg {
		return v
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(len(be)*8))
	return new(big.Int).Sub(v, mod)
}
