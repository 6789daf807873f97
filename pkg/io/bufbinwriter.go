package io

import "bytes"

// BufBinWriter is a BinWriter backed by an in-memory buffer, used whenever
// the caller wants the encoded bytes directly rather than streaming them to
// a socket or file (wire-message assembly, stack-item serialization,
// EncodeBinary-based hashing).
type BufBinWriter struct {
	*BinWriter
	buf *bytes.Buffer
}

// NewBufBinWriter creates a BufBinWriter ready for use.
func NewBufBinWriter() *BufBinWriter {
	b := new(bytes.Buffer)
	return &BufBinWriter{
		BinWriter: NewBinWriterFromIO(b),
		buf:       b,
	}
}

// Bytes returns the accumulated output.
func (w *BufBinWriter) Bytes() []byte {
	if w.Err != nil {
		return nil
	}
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *BufBinWriter) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer and any error, allowing the writer to be reused.
func (w *BufBinWriter) Reset() {
	w.buf.Reset()
	w.Err = nil
	w.Written = 0
}
