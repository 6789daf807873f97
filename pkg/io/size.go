package io

import (
	"fmt"
	"io"
	"reflect"
)

// Sizer is implemented by values that know their own serialized size
// without being encoded, letting GetVarSize avoid a throwaway encode pass
// over a slice of them.
type Sizer interface {
	Size() int
}

// GetVarSize computes how many bytes value would take once written in the
// wire format: for an integer, the var-int encoding of that value; for a
// byte slice or string, a var-int length prefix plus its bytes; for a
// fixed-size array, a var-int element-count prefix plus each element's
// fixed width; for a slice of Sizer values, a var-int count prefix plus the
// sum of their sizes. It panics on any other type.
func GetVarSize(value interface{}) int {
	if s, ok := value.(Sizer); ok {
		return s.Size()
	}
	if ser, ok := value.(Serializable); ok {
		w := NewBinWriterFromIO(io.Discard)
		ser.EncodeBinary(w)
		return w.Written
	}

	switch v := value.(type) {
	case int:
		return varIntSize(uint64(v))
	case int8:
		return varIntSize(uint64(v))
	case int16:
		return varIntSize(uint64(v))
	case int32:
		return varIntSize(uint64(v))
	case int64:
		return varIntSize(uint64(v))
	case uint:
		return varIntSize(uint64(v))
	case uint8:
		return varIntSize(uint64(v))
	case uint16:
		return varIntSize(uint64(v))
	case uint32:
		return varIntSize(uint64(v))
	case uint64:
		return varIntSize(v)
	case []byte:
		return varIntSize(uint64(len(v))) + len(v)
	case string:
		b := []byte(v)
		return varIntSize(uint64(len(b))) + len(b)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Array:
		n := rv.Len()
		return varIntSize(uint64(n)) + n*arrayElemSize(rv.Type().Elem().Kind())
	case reflect.Slice:
		n := rv.Len()
		total := varIntSize(uint64(n))
		for i := 0; i < n; i++ {
			s, ok := rv.Index(i).Interface().(Sizer)
			if !ok {
				panic(fmt.Sprintf("io: GetVarSize: slice element %T does not implement Sizer", rv.Index(i).Interface()))
			}
			total += s.Size()
		}
		return total
	default:
		panic(fmt.Sprintf("io: GetVarSize: unsupported type %T", value))
	}
}

func arrayElemSize(k reflect.Kind) int {
	switch k {
	case reflect.Uint8, reflect.Int8:
		return 1
	case reflect.Uint16, reflect.Int16:
		return 2
	case reflect.Uint32, reflect.Int32:
		return 4
	case reflect.Uint64, reflect.Int64:
		return 8
	default:
		panic(fmt.Sprintf("io: GetVarSize: unsupported array element kind %s", k))
	}
}

func varIntSize(value uint64) int {
	switch {
	case value < 0xfd:
		return 1
	case value <= 0xffff:
		return 3
	case value <= 0xffffffff:
		return 5
	default:
		return 9
	}
}
