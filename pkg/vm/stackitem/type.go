package stackitem

import "fmt"

// Type represents the runtime type tag of a stack item.
type Type byte

// Type values, matching the NeoVM StackItemType enum.
const (
	AnyT       Type = 0x00
	PointerT   Type = 0x10
	BooleanT   Type = 0x20
	IntegerT   Type = 0x21
	ByteArrayT Type = 0x28
	BufferT    Type = 0x30
	ArrayT     Type = 0x40
	StructT    Type = 0x41
	MapT       Type = 0x48
	InteropT   Type = 0x60
)

var typeNames = map[Type]string{
	AnyT:       "Any",
	PointerT:   "Pointer",
	BooleanT:   "Boolean",
	IntegerT:   "Integer",
	ByteArrayT: "ByteString",
	BufferT:    "Buffer",
	ArrayT:     "Array",
	StructT:    "Struct",
	MapT:       "Map",
	InteropT:   "InteropInterface",
}

// String renders the type's canonical name.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Type(%d)", byte(t))
}

// FromString parses a type's canonical name back to a Type.
func FromString(s string) (Type, error) {
	for t, n := range typeNames {
		if n == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("stackitem: unknown type %q", s)
}

// IsValid reports whether t is a non-Pointer, usable VM type (Pointer
// values never appear as NEWARRAY_T/CONVERT targets).
func (t Type) IsValid() bool {
	_, ok := typeNames[t]
	return ok && t != PointerT
}
