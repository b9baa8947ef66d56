// Package stream implements the schema-versioned binary database codec of
// spec §4.C / §6: a little-endian, length-prefixed format that can skip
// fields absent from older streams by gating reads on the schema version.
//
// The "read whole value, length-prefix variable fields, gate on version"
// shape follows gaissmai/bart's serialize.go/persist.go, adapted from a
// single-type trie dump into the multi-table, multi-schema-version format
// spec §6 requires (magic tag, block/tech payload sequence).
package stream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrCorruptStream is returned when a read encounters a malformed tag or a
// value that cannot be decoded.
var ErrCorruptStream = errors.New("stream: corrupt stream")

// ErrUnknownSchema is returned when the stream's version lies outside this
// build's known upgrade table.
var ErrUnknownSchema = errors.New("stream: unknown schema version")

// Magic is the 4-byte tag every database file begins with.
const Magic = "DB00"

// Version enumerates schema upgrade points in ascending order. Readers
// compare the stream's version against these constants to decide whether
// an optional member is present, per spec §4.C.
type Version uint32

const (
	// V1 is the initial schema.
	V1 Version = 1
	// V2 adds the cell-edge-spacing (two-widths) table to layers.
	V2 Version = 2
	// V3 adds a tech name to Block headers.
	V3 Version = 3
	// CurrentVersion is the version this build writes.
	CurrentVersion = V3
)

// Has reports whether a stream written at v would carry the feature first
// introduced at since.
func (v Version) Has(since Version) bool { return v >= since }

// Writer wraps an io.Writer with the primitive encoders the table codecs
// build on: fixed-width little-endian integers and length-prefixed bytes.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Err returns the first error encountered by any Write* call.
func (w *Writer) Err() error { return w.err }

// Flush flushes the underlying buffered writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// WriteHeader writes the magic tag and schema version; call once at the
// start of a stream.
func (w *Writer) WriteHeader(v Version) {
	if w.err != nil {
		return
	}
	if _, err := w.w.WriteString(Magic); err != nil {
		w.fail(err)
		return
	}
	w.WriteU32(uint32(v))
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(v uint8) {
	if w.err != nil {
		return
	}
	w.fail(w.w.WriteByte(v))
}

// WriteU32 writes an unsigned 32-bit little-endian integer. Bit-packed
// flag words (§4.C) are written through this call so that adding a bit
// always rides on a schema bump rather than silently changing the wire
// width.
func (w *Writer) WriteU32(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.w.Write(buf[:])
	w.fail(err)
}

// WriteI32 writes a signed 32-bit little-endian integer.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteBool writes a one-byte boolean.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

// WriteString writes a length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) {
	if w.err != nil {
		return
	}
	w.WriteU32(uint32(len(s)))
	if len(s) == 0 {
		return
	}
	_, err := w.w.WriteString(s)
	w.fail(err)
}

// WriteI32Slice writes a length-prefixed vector of int32, used for wire
// opcode/data vectors and other variable-length integer fields.
func (w *Writer) WriteI32Slice(vals []int32) {
	w.WriteU32(uint32(len(vals)))
	for _, v := range vals {
		w.WriteI32(v)
	}
}

// WriteU8Slice writes a length-prefixed vector of bytes, used for wire
// opcode streams.
func (w *Writer) WriteU8Slice(vals []uint8) {
	w.WriteU32(uint32(len(vals)))
	if len(vals) == 0 {
		return
	}
	_, err := w.w.Write(vals)
	w.fail(err)
}

// Reader is the dual of Writer.
type Reader struct {
	r       *bufio.Reader
	version Version
	err     error
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Err returns the first error encountered by any Read* call.
func (r *Reader) Err() error { return r.err }

// Version returns the schema version read by ReadHeader.
func (r *Reader) Version() Version { return r.version }

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// ReadHeader reads and validates the magic tag, then reads the schema
// version. It fails with ErrCorruptStream on a bad tag and ErrUnknownSchema
// if the version is newer than this build understands.
func (r *Reader) ReadHeader() {
	if r.err != nil {
		return
	}
	buf := make([]byte, len(Magic))
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.fail(fmt.Errorf("%w: %v", ErrCorruptStream, err))
		return
	}
	if string(buf) != Magic {
		r.fail(ErrCorruptStream)
		return
	}
	r.version = Version(r.ReadU32())
	if r.err != nil {
		return
	}
	if r.version == 0 || r.version > CurrentVersion {
		r.fail(ErrUnknownSchema)
	}
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() uint8 {
	if r.err != nil {
		return 0
	}
	b, err := r.r.ReadByte()
	r.fail(err)
	return b
}

// ReadU32 reads an unsigned 32-bit little-endian integer.
func (r *Reader) ReadU32() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		r.fail(fmt.Errorf("%w: %v", ErrCorruptStream, err))
		return 0
	}
	return binary.LittleEndian.Uint32(buf[:])
}

// ReadI32 reads a signed 32-bit little-endian integer.
func (r *Reader) ReadI32() int32 {
	return int32(r.ReadU32())
}

// ReadBool reads a one-byte boolean.
func (r *Reader) ReadBool() bool {
	return r.ReadU8() != 0
}

// ReadString reads a length-prefixed UTF-8 string.
func (r *Reader) ReadString() string {
	if r.err != nil {
		return ""
	}
	n := r.ReadU32()
	if r.err != nil || n == 0 {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.fail(fmt.Errorf("%w: %v", ErrCorruptStream, err))
		return ""
	}
	return string(buf)
}

// ReadI32Slice reads a length-prefixed vector of int32.
func (r *Reader) ReadI32Slice() []int32 {
	n := r.ReadU32()
	if r.err != nil || n == 0 {
		return nil
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = r.ReadI32()
	}
	return out
}

// ReadU8Slice reads a length-prefixed vector of bytes.
func (r *Reader) ReadU8Slice() []uint8 {
	n := r.ReadU32()
	if r.err != nil || n == 0 {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.fail(fmt.Errorf("%w: %v", ErrCorruptStream, err))
		return nil
	}
	return buf
}
