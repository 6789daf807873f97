package util

// ToArrayReverse returns a new slice containing the bytes of b in reverse
// order; used to flip between the wire's little-endian hash encoding and
// the big-endian display form.
func ToArrayReverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-i-1] = v
	}
	return out
}

// ArrayReverse is an alias of ToArrayReverse kept for call sites that
// predate the ToArrayReverse rename.
func ArrayReverse(b []byte) []byte {
	return ToArrayReverse(b)
}
