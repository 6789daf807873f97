package stackitem

import (
	"bytes"
	"fmt"

	"github.com/n3core/neogo/pkg/io"
)

// Serialize encodes it using the VM's binary stack-item format
// (System.Binary.Serialize), rejecting Pointer/InteropInterface items,
// circular references, and results over MaxSize.
func Serialize(it Item) ([]byte, error) {
	w := io.NewBufBinWriter()
	EncodeBinary(it, w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	data := w.Bytes()
	if len(data) > MaxSize {
		return nil, ErrTooBig
	}
	return data, nil
}

// EncodeBinary writes it's binary encoding to w, detecting cycles among
// Array/Struct/Map items via a seen-pointer set.
func EncodeBinary(it Item, w *io.BinWriter) {
	encodeBinary(it, w, make(map[Item]bool))
}

func encodeBinary(it Item, w *io.BinWriter, seen map[Item]bool) {
	if w.Err != nil {
		return
	}
	if w.Written > MaxSize {
		w.Err = ErrTooBig
		return
	}
	switch t := it.(type) {
	case Null:
		w.WriteU8(byte(AnyT))
	case Bool:
		w.WriteU8(byte(BooleanT))
		w.WriteBool(bool(t))
	case *BigInteger:
		w.WriteU8(byte(IntegerT))
		b, _ := t.TryBytes()
		w.WriteVarBytes(b)
	case *ByteArray:
		w.WriteU8(byte(ByteArrayT))
		w.WriteVarBytes([]byte(*t))
	case *Buffer:
		w.WriteU8(byte(BufferT))
		w.WriteVarBytes(t.Bytes())
	case *Array:
		if seen[it] {
			w.Err = ErrCircular
			return
		}
		seen[it] = true
		w.WriteU8(byte(ArrayT))
		w.WriteVarUint(uint64(len(t.value)))
		for _, e := range t.value {
			encodeBinary(e, w, seen)
		}
	case *Struct:
		if seen[it] {
			w.Err = ErrCircular
			return
		}
		seen[it] = true
		w.WriteU8(byte(StructT))
		w.WriteVarUint(uint64(len(t.value)))
		for _, e := range t.value {
			encodeBinary(e, w, seen)
		}
	case *Map:
		if seen[it] {
			w.Err = ErrCircular
			return
		}
		seen[it] = true
		w.WriteU8(byte(MapT))
		w.WriteVarUint(uint64(len(t.elems)))
		for _, e := range t.elems {
			encodeBinary(e.Key, w, seen)
			encodeBinary(e.Value, w, seen)
		}
	default:
		w.Err = fmt.Errorf("stackitem: %s is not serializable", it.Type())
	}
}

// Deserialize decodes a binary-encoded stack item, the inverse of Serialize.
func Deserialize(data []byte) (Item, error) {
	r := io.NewBinReaderFromBuf(data)
	it := DecodeBinary(r)
	if r.Err != nil {
		return nil, r.Err
	}
	return it, nil
}

// DecodeBinary reads a single binary-encoded item from r.
func DecodeBinary(r *io.BinReader) Item {
	if r.Err != nil {
		return nil
	}
	typ := Type(r.ReadU8())
	switch typ {
	case AnyT:
		return Null{}
	case BooleanT:
		return Bool(r.ReadBool())
	case IntegerT:
		b := r.ReadVarBytes(MaxSize)
		return NewBigInteger(fromTwosComplement(b))
	case ByteArrayT:
		b := r.ReadVarBytes(MaxSize)
		return NewByteArray(bytes.Clone(b))
	case BufferT:
		b := r.ReadVarBytes(MaxSize)
		return NewBuffer(bytes.Clone(b))
	case ArrayT, StructT:
		n := r.ReadVarUint()
		items := make([]Item, 0, n)
		for i := uint64(0); i < n; i++ {
			items = append(items, DecodeBinary(r))
		}
		if typ == ArrayT {
			return NewArray(items)
		}
		return NewStruct(items)
	case MapT:
		n := r.ReadVarUint()
		m := NewMap()
		for i := uint64(0); i < n; i++ {
			k := DecodeBinary(r)
			v := DecodeBinary(r)
			m.Add(k, v)
		}
		return m
	default:
		if r.Err == nil {
			r.Err = fmt.Errorf("stackitem: unknown type byte %d", byte(typ))
		}
		return nil
	}
}
