// Package proofio implements the DRUP/DRAT proof emitter and the
// independent online checker described in spec.md section 4.10.
//
// Clauses here are represented as plain signed integers, DIMACS-style
// (positive for the variable, negative for its negation), deliberately
// decoupled from internal/sat's Literal encoding: per spec.md section 5,
// the checker must own its state and consume the solver's data only
// through read-only snapshots, and keeping this package free of any
// import of internal/sat is what makes that boundary real rather than
// aspirational.
package proofio

import (
	"bufio"
	"io"
)

const bufferSize = 2 << 20 // 2 MiB, per spec.md section 4.10

// Writer is an append-only DRUP binary proof log: one ADD or DEL record
// per clause addition/deletion, in the order they occur. Per spec.md
// section 3 ("Proof log"), every learnt clause added and every clause
// deleted (by reduction, subsumption, or elimination) produces exactly
// one record.
type Writer struct {
	w      *bufio.Writer
	closer io.Closer
	buf    []byte
}

// NewWriter wraps dst in a buffered DRUP writer. If dst also implements
// io.Closer, Close will close it after a final flush.
func NewWriter(dst io.Writer) *Writer {
	w := &Writer{w: bufio.NewWriterSize(dst, bufferSize)}
	if c, ok := dst.(io.Closer); ok {
		w.closer = c
	}
	return w
}

func encodeLit(l int32) uint64 {
	if l < 0 {
		return uint64(-l)*2 + 1
	}
	return uint64(l) * 2
}

func (w *Writer) putVarint(v uint64) {
	for v >= 0x80 {
		w.buf = append(w.buf, byte(v)|0x80)
		v >>= 7
	}
	w.buf = append(w.buf, byte(v))
}

func (w *Writer) writeRecord(tag byte, clause []int32) error {
	w.buf = w.buf[:0]
	w.buf = append(w.buf, tag)
	for _, l := range clause {
		w.putVarint(encodeLit(l))
	}
	w.buf = append(w.buf, 0)
	_, err := w.w.Write(w.buf)
	return err
}

// Add records a clause addition (tag 'a').
func (w *Writer) Add(clause []int32) error {
	return w.writeRecord('a', clause)
}

// Delete records a clause deletion (tag 'd').
func (w *Writer) Delete(clause []int32) error {
	return w.writeRecord('d', clause)
}

// Flush atomically flushes the buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Close flushes and, if the underlying writer is closeable, closes it.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
