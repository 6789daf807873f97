package vm

import (
	"errors"
	"math/big"

	"github.com/n3core/neogo/pkg/vm/opcode"
	"github.com/n3core/neogo/pkg/vm/stackitem"
)

func checkIntSize(n *big.Int) *big.Int {
	if n.BitLen() > stackitem.MaxBigIntegerSizeBits {
		panic(stackitem.ErrTooBig)
	}
	return n
}

func opArithUnary(f func(a *big.Int) *big.Int) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		a := v.estack.Pop().BigInt()
		v.estack.PushItem(stackitem.NewBigInteger(checkIntSize(f(a))))
	}
}

func opArithBinary(f func(a, b *big.Int) *big.Int) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		v.estack.PushItem(stackitem.NewBigInteger(checkIntSize(f(a, b))))
	}
}

func opArithBinaryErr(f func(a, b *big.Int) (*big.Int, error)) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		r, err := f(a, b)
		if err != nil {
			panic(err)
		}
		v.estack.PushItem(stackitem.NewBigInteger(checkIntSize(r)))
	}
}

func opBitUnary(f func(a *big.Int) *big.Int) instrFunc {
	return opArithUnary(f)
}

func opBitBinary(f func(a, b *big.Int) *big.Int) instrFunc {
	return opArithBinary(f)
}

func opSign(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	a := v.estack.Pop().BigInt()
	v.estack.PushVal(int64(a.Sign()))
}

func opPow(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	exp := v.estack.Pop().BigInt()
	base := v.estack.Pop().BigInt()
	if exp.Sign() < 0 {
		panic(errors.New("vm: negative exponent"))
	}
	if exp.BitLen() > 32 {
		panic(errors.New("vm: exponent too large"))
	}
	v.estack.PushItem(stackitem.NewBigInteger(checkIntSize(new(big.Int).Exp(base, exp, nil))))
}

func opSqrt(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	a := v.estack.Pop().BigInt()
	if a.Sign() < 0 {
		panic(errors.New("vm: SQRT of negative number"))
	}
	v.estack.PushItem(stackitem.NewBigInteger(new(big.Int).Sqrt(a)))
}

func opModMul(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	m := v.estack.Pop().BigInt()
	b := v.estack.Pop().BigInt()
	a := v.estack.Pop().BigInt()
	if m.Sign() == 0 {
		panic(errors.New("vm: modulus is zero"))
	}
	r := new(big.Int).Mul(a, b)
	r.Mod(r, m)
	v.estack.PushItem(stackitem.NewBigInteger(checkIntSize(r)))
}

func opModPow(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	m := v.estack.Pop().BigInt()
	exp := v.estack.Pop().BigInt()
	base := v.estack.Pop().BigInt()
	if m.CmpAbs(big.NewInt(1)) == 0 {
		v.estack.PushItem(stackitem.NewBigInteger(big.NewInt(0)))
		return
	}
	var r *big.Int
	if exp.Sign() < 0 {
		if m.Sign() == 0 {
			panic(errors.New("vm: modulus is zero"))
		}
		inv := new(big.Int).ModInverse(base, m)
		if inv == nil {
			panic(errors.New("vm: base has no modular inverse"))
		}
		r = new(big.Int).Exp(inv, new(big.Int).Neg(exp), m)
	} else {
		r = new(big.Int).Exp(base, exp, m)
	}
	v.estack.PushItem(stackitem.NewBigInteger(checkIntSize(r)))
}

func opShift(left bool) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		shift := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		n := shift.Int64()
		if n < 0 || n > 256 {
			panic(errors.New("vm: shift out of range"))
		}
		var r *big.Int
		if left {
			r = new(big.Int).Lsh(a, uint(n))
		} else {
			r = new(big.Int).Rsh(a, uint(n))
		}
		v.estack.PushItem(stackitem.NewBigInteger(checkIntSize(r)))
	}
}

func opNot(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	v.estack.PushItem(stackitem.NewBool(!v.estack.Pop().Bool()))
}

func opBoolBinary(f func(a, b bool) bool) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		b := v.estack.Pop().Bool()
		a := v.estack.Pop().Bool()
		v.estack.PushItem(stackitem.NewBool(f(a, b)))
	}
}

func opNz(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	a := v.estack.Pop().BigInt()
	v.estack.PushItem(stackitem.NewBool(a.Sign() != 0))
}

func opNumCmp(pred func(int) bool) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		v.estack.PushItem(stackitem.NewBool(pred(a.Cmp(b))))
	}
}

func opMinMax(min bool) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		b := v.estack.Pop().BigInt()
		a := v.estack.Pop().BigInt()
		c := a.Cmp(b)
		if (min && c <= 0) || (!min && c >= 0) {
			v.estack.PushItem(stackitem.NewBigInteger(a))
		} else {
			v.estack.PushItem(stackitem.NewBigInteger(b))
		}
	}
}

func opWithin(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
	b := v.estack.Pop().BigInt()
	a := v.estack.Pop().BigInt()
	x := v.estack.Pop().BigInt()
	v.estack.PushItem(stackitem.NewBool(x.Cmp(a) >= 0 && x.Cmp(b) < 0))
}

func opEqual(want bool) instrFunc {
	return func(v *VM, ctx *Context, op opcode.Opcode, param []byte) {
		b := v.estack.Pop().Item()
		a := v.estack.Pop().Item()
		v.estack.PushItem(stackitem.NewBool(a.Equals(b) == want))
	}
}
