package typetree

import (
	"encoding/binary"
	"fmt"
)

const alignment = 4

// Source is the read side of a byte-stream cursor. Byte order is a
// property of the source.
type Source interface {
	Offset() int
	ReadUint8() (uint8, error)
	ReadUint16() (uint16, error)
	ReadUint32() (uint32, error)
	ReadUint64() (uint64, error)
	// ReadBytes returns the next n bytes. The result may alias the
	// source's buffer and must be copied if retained.
	ReadBytes(n int) ([]byte, error)
	// Align skips to the next multiple of n.
	Align(n int) error
}

// Sink is the write side of a byte-stream cursor.
type Sink interface {
	Offset() int
	WriteUint8(v uint8)
	WriteUint16(v uint16)
	WriteUint32(v uint32)
	WriteUint64(v uint64)
	WriteBytes(b []byte)
	// Align writes zero bytes up to the next multiple of n.
	Align(n int)
}

// Reader is a Source over an in-memory buffer.
type Reader struct {
	Orig  []byte
	Buf   []byte
	Order binary.ByteOrder
}

var _ Source = (*Reader)(nil)

// NewReader returns a Reader over data. A nil order means little-endian.
func NewReader(data []byte, order binary.ByteOrder) *Reader {
	if order == nil {
		order = binary.LittleEndian
	}
	return &Reader{data, data, order}
}

func (r *Reader) Offset() int {
	return len(r.Orig) - len(r.Buf)
}

func (r *Reader) Remaining() int {
	return len(r.Buf)
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, dataErrf(r.Orig, r.Offset(), ErrInvalidLength, "cannot read %d bytes", n)
	}
	if len(r.Buf) < n {
		return nil, dataErrf(r.Orig, r.Offset(), ErrStreamExhausted, "not enough data: %d bytes remaining, %d wanted", len(r.Buf), n)
	}
	v := r.Buf[:n]
	r.Buf = r.Buf[n:]
	return v, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return r.Order.Uint16(b), nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return r.Order.Uint32(b), nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return r.Order.Uint64(b), nil
}

func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.take(n)
}

func (r *Reader) Align(n int) error {
	_, err := r.take(padding(r.Offset(), n))
	return err
}

// Writer is a Sink appending to a growable buffer.
type Writer struct {
	Buf   []byte
	Order binary.ByteOrder
}

var _ Sink = (*Writer)(nil)

// NewWriter returns a Writer appending to buf. A nil order means
// little-endian. Offsets are measured from the start of buf.
func NewWriter(buf []byte, order binary.ByteOrder) *Writer {
	if order == nil {
		order = binary.LittleEndian
	}
	return &Writer{buf, order}
}

func (w *Writer) Bytes() []byte {
	return w.Buf
}

func (w *Writer) Offset() int {
	return len(w.Buf)
}

func (w *Writer) WriteUint8(v uint8) {
	off, buf := grow(w.Buf, 1)
	buf[off] = v
	w.Buf = buf
}

func (w *Writer) WriteUint16(v uint16) {
	off, buf := grow(w.Buf, 2)
	w.Order.PutUint16(buf[off:], v)
	w.Buf = buf
}

func (w *Writer) WriteUint32(v uint32) {
	off, buf := grow(w.Buf, 4)
	w.Order.PutUint32(buf[off:], v)
	w.Buf = buf
}

func (w *Writer) WriteUint64(v uint64) {
	off, buf := grow(w.Buf, 8)
	w.Order.PutUint64(buf[off:], v)
	w.Buf = buf
}

func (w *Writer) WriteBytes(b []byte) {
	w.Buf = appendRaw(w.Buf, b)
}

// Write implements io.Writer.
func (w *Writer) Write(b []byte) (int, error) {
	w.Buf = appendRaw(w.Buf, b)
	return len(b), nil
}

func (w *Writer) Align(n int) {
	w.Buf = appendZeros(w.Buf, padding(len(w.Buf), n))
}

// readLength reads a signed 32-bit count or size.
func readLength(src Source) (int, error) {
	off := src.Offset()
	v, err := src.ReadUint32()
	if err != nil {
		return 0, err
	}
	if n := int32(v); n < 0 {
		return 0, fmt.Errorf("%w: %d at offset %d", ErrInvalidLength, n, off)
	} else {
		return int(n), nil
	}
}

func writeLength(dst Sink, n int) {
	dst.WriteUint32(uint32(int32(n)))
}

// readAlignedString reads a length-prefixed string and skips the padding
// that follows it.
func readAlignedString(src Source) (string, error) {
	n, err := readLength(src)
	if err != nil {
		return "", err
	}
	b, err := src.ReadBytes(n)
	if err != nil {
		return "", err
	}
	s := string(b)
	return s, src.Align(alignment)
}

func writeAlignedString(dst Sink, s string) {
	writeLength(dst, len(s))
	dst.WriteBytes([]byte(s))
	dst.Align(alignment)
}
