// Package io provides the var-int/var-bytes binary codec shared by every
// wire type in the node: blocks, transactions, consensus payloads and
// storage keys all serialize through BinWriter/BinReader.
package io

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// Maximum var-bytes/var-array length accepted while decoding; guards
// against a malicious peer claiming an enormous allocation.
const MaxVarBytesSize = math.MaxUint16 * 64 // 4 MiB, generous upper bound on a single field

// Serializable is implemented by every wire type that has a fixed,
// deterministic binary encoding.
type Serializable interface {
	EncodeBinary(w *BinWriter)
	DecodeBinary(r *BinReader)
}

// BinWriter wraps an io.Writer, accumulating the first error encountered so
// that a chain of Write* calls doesn't need per-call error checks; callers
// check Err once at the end.
type BinWriter struct {
	W   io.Writer
	Err error
	// Written is a running count of bytes successfully written; consumers
	// that need to bound total output size (e.g. stack-item serialization)
	// can poll it without re-reading the underlying buffer.
	Written int
}

// NewBinWriterFromIO wraps w.
func NewBinWriterFromIO(w io.Writer) *BinWriter {
	return &BinWriter{W: w}
}

func (w *BinWriter) writeBytes(b []byte) {
	if w.Err != nil {
		return
	}
	var n int
	n, w.Err = w.W.Write(b)
	w.Written += n
}

// WriteU8 writes a single byte.
func (w *BinWriter) WriteU8(v uint8) {
	w.writeBytes([]byte{v})
}

// WriteB is an alias for WriteU8, matching the upstream single-byte writer
// name used by some callers.
func (w *BinWriter) WriteB(v byte) {
	w.WriteU8(v)
}

// WriteBool writes a boolean as a single byte.
func (w *BinWriter) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

// WriteU16LE writes v in little-endian order.
func (w *BinWriter) WriteU16LE(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.writeBytes(b[:])
}

// WriteU32LE writes v in little-endian order.
func (w *BinWriter) WriteU32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.writeBytes(b[:])
}

// WriteU64LE writes v in little-endian order.
func (w *BinWriter) WriteU64LE(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.writeBytes(b[:])
}

// WriteBytes writes b verbatim, with no length prefix.
func (w *BinWriter) WriteBytes(b []byte) {
	w.writeBytes(b)
}

// WriteVarUint writes v using the Neo var-int encoding: values < 0xfd are a
// single byte; 0xfd prefixes a uint16; 0xfe prefixes a uint32; 0xff
// prefixes a uint64.
func (w *BinWriter) WriteVarUint(v uint64) {
	switch {
	case v < 0xfd:
		w.WriteU8(uint8(v))
	case v <= math.MaxUint16:
		w.WriteU8(0xfd)
		w.WriteU16LE(uint16(v))
	case v <= math.MaxUint32:
		w.WriteU8(0xfe)
		w.WriteU32LE(uint32(v))
	default:
		w.WriteU8(0xff)
		w.WriteU64LE(v)
	}
}

// WriteVarBytes writes a var-int length prefix followed by b.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.WriteBytes(b)
}

// WriteString writes s as var-bytes.
func (w *BinWriter) WriteString(s string) {
	w.WriteVarBytes([]byte(s))
}

// WriteArray writes a var-int count followed by each element's
// EncodeBinary. arr must be a slice of a type implementing Serializable,
// or a slice of pointers to such a type.
func (w *BinWriter) WriteArray(arr interface{}) {
	switch elems := arr.(type) {
	case []Serializable:
		w.WriteVarUint(uint64(len(elems)))
		for _, e := range elems {
			e.EncodeBinary(w)
		}
	default:
		w.Err = errors.New("io: WriteArray expects []Serializable")
	}
}

// BinReader is the reading counterpart of BinWriter.
type BinReader struct {
	R   io.Reader
	Err error
}

// NewBinReaderFromIO wraps r.
func NewBinReaderFromIO(r io.Reader) *BinReader {
	return &BinReader{R: r}
}

// NewBinReaderFromBuf wraps a byte slice.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return &BinReader{R: &byteReader{b: b}}
}

// byteReader is a minimal io.Reader over a byte slice (avoids pulling in
// bytes.Reader just for this).
type byteReader struct {
	b   []byte
	pos int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}

func (r *BinReader) readBytes(n int) []byte {
	if r.Err != nil {
		return nil
	}
	b := make([]byte, n)
	_, err := io.ReadFull(r.R, b)
	if err != nil {
		r.Err = err
		return nil
	}
	return b
}

// ReadB is an alias for ReadU8, matching the upstream single-byte reader
// name used by some callers.
func (r *BinReader) ReadB() byte {
	return r.ReadU8()
}

// ReadU8 reads a single byte.
func (r *BinReader) ReadU8() uint8 {
	b := r.readBytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// ReadBool reads a single byte as a bool.
func (r *BinReader) ReadBool() bool {
	return r.ReadU8() != 0
}

// ReadU16LE reads a little-endian uint16.
func (r *BinReader) ReadU16LE() uint16 {
	b := r.readBytes(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// ReadU32LE reads a little-endian uint32.
func (r *BinReader) ReadU32LE() uint32 {
	b := r.readBytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadU64LE reads a little-endian uint64.
func (r *BinReader) ReadU64LE() uint64 {
	b := r.readBytes(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// ReadBytes reads exactly len(b) bytes into b.
func (r *BinReader) ReadBytes(b []byte) {
	if r.Err != nil {
		return
	}
	_, err := io.ReadFull(r.R, b)
	if err != nil {
		r.Err = err
	}
}

// ReadVarUint reads a Neo var-int.
func (r *BinReader) ReadVarUint() uint64 {
	b := r.ReadU8()
	switch b {
	case 0xfd:
		return uint64(r.ReadU16LE())
	case 0xfe:
		return uint64(r.ReadU32LE())
	case 0xff:
		return r.ReadU64LE()
	default:
		return uint64(b)
	}
}

// ReadVarBytes reads a var-int length prefix followed by that many bytes.
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.ReadVarUint()
	limit := uint64(MaxVarBytesSize)
	if len(maxSize) > 0 {
		limit = uint64(maxSize[0])
	}
	if n > limit {
		if r.Err == nil {
			r.Err = errors.New("io: var-bytes length exceeds limit")
		}
		return nil
	}
	return r.readBytes(int(n))
}

// ReadString reads a var-bytes field as a string.
func (r *BinReader) ReadString() string {
	return string(r.ReadVarBytes())
}
