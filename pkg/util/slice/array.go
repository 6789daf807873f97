// Package slice provides small byte-slice helpers shared by the codec and
// crypto layers.
package slice

// CopyReverse returns a new slice with a's elements in reverse order,
// leaving a untouched.
func CopyReverse(a []byte) []byte {
	dst := make([]byte, len(a))
	for i, v := range a {
		dst[len(a)-i-1] = v
	}
	return dst
}

// Reverse reverses a in place.
func Reverse(a []byte) {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}

// Clean zeroes out a in place; used to scrub sensitive buffers (private
// key material) before they're dropped.
func Clean(a []byte) {
	for i := range a {
		a[i] = 0
	}
}
