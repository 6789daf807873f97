// Package emit writes NeoVM bytecode directly into an io.BinWriter: single
// opcodes, opcodes with an immediate operand, raw PUSHDATA blobs and the
// SYSCALL method-ID encoding, without needing a full compiler.
package emit

import (
	"encoding/binary"
	"math/big"

	"github.com/n3core/neogo/pkg/core/interop/interopnames"
	"github.com/n3core/neogo/pkg/io"
	"github.com/n3core/neogo/pkg/vm/opcode"
)

// Opcode writes a single operand-less instruction.
func Opcode(w *io.BinWriter, op opcode.Opcode) {
	w.WriteU8(byte(op))
}

// Opcodes writes a sequence of operand-less instructions.
func Opcodes(w *io.BinWriter, ops ...opcode.Opcode) {
	for _, op := range ops {
		Opcode(w, op)
	}
}

// Instruction writes op followed by its raw operand bytes, uninterpreted.
func Instruction(w *io.BinWriter, op opcode.Opcode, param []byte) {
	Opcode(w, op)
	if len(param) > 0 {
		w.WriteBytes(param)
	}
}

// Bytes emits the PUSHDATA instruction (of whichever size fits b's length)
// followed by b itself.
func Bytes(w *io.BinWriter, b []byte) {
	n := len(b)
	switch {
	case n <= 255:
		Opcode(w, opcode.PUSHDATA1)
		w.WriteU8(byte(n))
	case n <= 65535:
		Opcode(w, opcode.PUSHDATA2)
		w.WriteU16LE(uint16(n))
	default:
		Opcode(w, opcode.PUSHDATA4)
		w.WriteU32LE(uint32(n))
	}
	w.WriteBytes(b)
}

// String emits s as a PUSHDATA blob.
func String(w *io.BinWriter, s string) {
	Bytes(w, []byte(s))
}

// Int emits n using the smallest PUSH0-16/PUSHM1 or PUSHINT* form that
// represents it exactly.
func Int(w *io.BinWriter, n int64) {
	BigInt(w, big.NewInt(n))
}

// BigInt emits n using the smallest PUSH0-16/PUSHM1 or PUSHINT* form that
// represents it exactly.
func BigInt(w *io.BinWriter, n *big.Int) {
	if n.IsInt64() {
		v := n.Int64()
		if v >= -1 && v <= 16 {
			Opcode(w, opcode.Opcode(int64(opcode.PUSH0)+v))
			return
		}
	}
	b := toTwosComplement(n)
	switch {
	case len(b) <= 1:
		Instruction(w, opcode.PUSHINT8, pad(b, 1))
	case len(b) <= 2:
		Instruction(w, opcode.PUSHINT16, pad(b, 2))
	case len(b) <= 4:
		Instruction(w, opcode.PUSHINT32, pad(b, 4))
	case len(b) <= 8:
		Instruction(w, opcode.PUSHINT64, pad(b, 8))
	case len(b) <= 16:
		Instruction(w, opcode.PUSHINT128, pad(b, 16))
	default:
		Instruction(w, opcode.PUSHINT256, pad(b, 32))
	}
}

// Bool emits PUSHT/PUSHF.
func Bool(w *io.BinWriter, b bool) {
	if b {
		Opcode(w, opcode.PUSHT)
	} else {
		Opcode(w, opcode.PUSHF)
	}
}

// Syscall emits SYSCALL with name's 4-byte interop ID.
func Syscall(w *io.BinWriter, name string) {
	Instruction(w, opcode.SYSCALL, idBytes(interopnames.ToID([]byte(name))))
}

// Call emits CALLL with a placeholder 4-byte offset the caller is expected
// to patch once the target address is known (matching the teacher's
// two-pass forward-reference convention).
func Call(w *io.BinWriter, offset int32) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(offset))
	Instruction(w, opcode.CALLL, b)
}

// Jmp emits a long-form jump (JMPL and friends all share the operand shape).
func Jmp(w *io.BinWriter, op opcode.Opcode, offset int32) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(offset))
	Instruction(w, op, b)
}

func idBytes(id uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, id)
	return b
}

func pad(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	out := make([]byte, n)
	copy(out, b)
	fill := byte(0)
	if len(b) > 0 && b[len(b)-1]&0x80 != 0 {
		fill = 0xff
	}
	for i := len(b); i < n; i++ {
		out[i] = fill
	}
	return out
}

func toTwosComplement(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{0}
	}
	if n.Sign() > 0 {
		b := n.Bytes()
		reverse(b)
		if b[len(b)-1]&0x80 != 0 {
			b = append(b, 0)
		}
		return b
	}
	abs := new(big.Int).Neg(n)
	nBytes := (abs.BitLen() + 8) / 8
	mod := new(big.Int).Lsh(big.NewInt(1), uint(nBytes*8))
	tc := new(big.Int).Sub(mod, abs)
	b := tc.Bytes()
	full := make([]byte, nBytes)
	copy(full[nBytes-len(b):], b)
	reverse(full)
	return full
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
