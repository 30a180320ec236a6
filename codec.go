package typetree

import (
	"encoding/binary"
	"log/slog"
	"strings"
)

type Options struct {
	// ByteOrder of streams created by the codec. Defaults to little-endian.
	ByteOrder binary.ByteOrder

	// Strict makes Decode and TextDump reject input with trailing bytes.
	Strict bool

	Logger  *slog.Logger
	Verbose bool
}

// Codec decodes, encodes and dumps records described by type trees. A Codec
// holds configuration only and is safe for concurrent use; every call gets
// its own cursor.
type Codec struct {
	order   binary.ByteOrder
	strict  bool
	logger  *slog.Logger
	verbose bool
}

func New(opt Options) *Codec {
	c := &Codec{
		order:   opt.ByteOrder,
		strict:  opt.Strict,
		logger:  opt.Logger,
		verbose: opt.Verbose,
	}
	if c.order == nil {
		c.order = binary.LittleEndian
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

func (c *Codec) ByteOrder() binary.ByteOrder {
	return c.order
}

func (c *Codec) newDecoder(src Source, w *strings.Builder) *decoder {
	d := &decoder{
		src:     src,
		logger:  c.logger,
		verbose: c.verbose,
	}
	if w != nil {
		d.dump = &dumper{w}
	}
	return d
}

// Decode reads a whole record laid out as t from data.
func (c *Codec) Decode(t Tree, data []byte) (*Record, error) {
	r := NewReader(data, c.order)
	rec, err := c.DecodeFrom(t, r)
	if err != nil {
		return nil, err
	}
	if err := c.checkConsumed(r); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodeFrom reads a whole record laid out as t from src. On failure no
// partial record is returned, and the position of src is unspecified.
func (c *Codec) DecodeFrom(t Tree, src Source) (*Record, error) {
	return c.newDecoder(src, nil).fields(t)
}

// TextDump renders the record in data as an indented trace of every field.
func (c *Codec) TextDump(t Tree, data []byte) (string, error) {
	var buf strings.Builder
	r := NewReader(data, c.order)
	if err := c.TextDumpTo(&buf, t, r); err != nil {
		return "", err
	}
	if err := c.checkConsumed(r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TextDumpTo appends the trace of the record read from src to w. On
// failure, w holds the lines written before the failing field.
func (c *Codec) TextDumpTo(w *strings.Builder, t Tree, src Source) error {
	_, err := c.newDecoder(src, w).fields(t)
	return err
}

// Encode serializes rec, which must have the shape produced by decoding
// with the same tree.
func (c *Codec) Encode(t Tree, rec *Record) ([]byte, error) {
	buf := encodeBufPool.Get().([]byte)
	w := NewWriter(buf[:0], c.order)
	err := c.EncodeTo(t, rec, w)
	var result []byte
	if err == nil {
		result = make([]byte, len(w.Buf))
		copy(result, w.Buf)
	}
	releaseEncodeBuf(w.Buf)
	return result, err
}

func (c *Codec) EncodeTo(t Tree, rec *Record, dst Sink) error {
	e := &encoder{
		dst:     dst,
		logger:  c.logger,
		verbose: c.verbose,
	}
	return e.fields(t, rec)
}

func (c *Codec) checkConsumed(r *Reader) error {
	if c.strict && r.Remaining() > 0 {
		return dataErrf(r.Orig, r.Offset(), nil, "%d trailing bytes", r.Remaining())
	}
	return nil
}

// Decode is Codec.Decode with default options.
func Decode(t Tree, data []byte) (*Record, error) {
	return New(Options{}).Decode(t, data)
}

// Encode is Codec.Encode with default options.
func Encode(t Tree, rec *Record) ([]byte, error) {
	return New(Options{}).Encode(t, rec)
}

// TextDump is Codec.TextDump with default options.
func TextDump(t Tree, data []byte) (string, error) {
	return New(Options{}).TextDump(t, data)
}
