package typetree

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// ExportFormat selects a self-describing serialization for decoded records,
// for handing them to consumers that do not know the type tree.
//
// Records become maps with keys in field order, vectors become arrays, map
// fields become arrays of [key, value] arrays, typeless data becomes binary
// (base64 in JSON). JSON has no NaN or infinities, so non-finite floats are
// exported as the strings "NaN", "Infinity" and "-Infinity". Export is one-way: scalar widths survive in MsgPack but
// not in JSON, so use Encode to get the original bytes back.
type ExportFormat int

const (
	MsgPack ExportFormat = iota
	JSON
)

func (f ExportFormat) String() string {
	switch f {
	case MsgPack:
		return "msgpack"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("ExportFormat(%d)", int(f))
	}
}

// Export appends the serialized record to buf.
func (f ExportFormat) Export(buf []byte, rec *Record) ([]byte, error) {
	switch f {
	case MsgPack:
		w := Writer{Buf: buf}
		enc := msgpack.GetEncoder()
		enc.Reset(&w)
		err := rec.EncodeMsgpack(enc)
		msgpack.PutEncoder(enc)
		if err != nil {
			return buf, fmt.Errorf("failed to export record using MsgPack: %w", err)
		}
		return w.Buf, nil
	case JSON:
		out, err := rec.appendJSON(buf)
		if err != nil {
			return buf, fmt.Errorf("failed to export record to JSON: %w", err)
		}
		return out, nil
	default:
		panic("unsupported export format")
	}
}

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomEncoder = (*Record)(nil)
	_ json.Marshaler        = Value{}
	_ json.Marshaler        = (*Record)(nil)
)

func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch v.kind {
	case ValueInvalid:
		return enc.EncodeNil()
	case ValueInt8:
		return enc.EncodeInt8(int8(v.word))
	case ValueUint8:
		return enc.EncodeUint8(uint8(v.word))
	case ValueInt16:
		return enc.EncodeInt16(int16(v.word))
	case ValueUint16:
		return enc.EncodeUint16(uint16(v.word))
	case ValueInt32:
		return enc.EncodeInt32(int32(v.word))
	case ValueUint32:
		return enc.EncodeUint32(uint32(v.word))
	case ValueInt64:
		return enc.EncodeInt64(int64(v.word))
	case ValueUint64:
		return enc.EncodeUint64(v.word)
	case ValueFloat32:
		return enc.EncodeFloat32(math.Float32frombits(uint32(v.word)))
	case ValueFloat64:
		return enc.EncodeFloat64(math.Float64frombits(v.word))
	case ValueBool:
		return enc.EncodeBool(v.word != 0)
	case ValueString:
		return enc.EncodeString(v.ref.(string))
	case ValueBytes:
		return enc.EncodeBytes(v.ref.([]byte))
	case ValueList:
		items := v.ref.([]Value)
		if err := enc.EncodeArrayLen(len(items)); err != nil {
			return err
		}
		for _, item := range items {
			if err := item.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case ValuePairs:
		pairs := v.ref.([]Pair)
		if err := enc.EncodeArrayLen(len(pairs)); err != nil {
			return err
		}
		for _, p := range pairs {
			if err := enc.EncodeArrayLen(2); err != nil {
				return err
			}
			if err := p.Key.EncodeMsgpack(enc); err != nil {
				return err
			}
			if err := p.Value.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case ValueRecord:
		return v.ref.(*Record).EncodeMsgpack(enc)
	default:
		return fmt.Errorf("cannot encode %v value", v.kind)
	}
}

func (r *Record) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(r.names)); err != nil {
		return err
	}
	for i, name := range r.names {
		if err := enc.EncodeString(name); err != nil {
			return err
		}
		if err := r.values[i].EncodeMsgpack(enc); err != nil {
			return err
		}
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil)
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return r.appendJSON(nil)
}

func (v Value) appendJSON(buf []byte) ([]byte, error) {
	switch v.kind {
	case ValueInvalid:
		return append(buf, "null"...), nil
	case ValueList:
		buf = append(buf, '[')
		for i, item := range v.ref.([]Value) {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = item.appendJSON(buf); err != nil {
				return buf, err
			}
		}
		return append(buf, ']'), nil
	case ValuePairs:
		buf = append(buf, '[')
		for i, p := range v.ref.([]Pair) {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, '[')
			var err error
			if buf, err = p.Key.appendJSON(buf); err != nil {
				return buf, err
			}
			buf = append(buf, ',')
			if buf, err = p.Value.appendJSON(buf); err != nil {
				return buf, err
			}
			buf = append(buf, ']')
		}
		return append(buf, ']'), nil
	case ValueRecord:
		return v.ref.(*Record).appendJSON(buf)
	case ValueFloat32, ValueFloat64:
		f := v.Float()
		switch {
		case math.IsNaN(f):
			return append(buf, `"NaN"`...), nil
		case math.IsInf(f, 1):
			return append(buf, `"Infinity"`...), nil
		case math.IsInf(f, -1):
			return append(buf, `"-Infinity"`...), nil
		}
		fallthrough
	default:
		raw, err := json.Marshal(v.plain())
		if err != nil {
			return buf, err
		}
		return append(buf, raw...), nil
	}
}

func (r *Record) appendJSON(buf []byte) ([]byte, error) {
	buf = append(buf, '{')
	for i, name := range r.names {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return buf, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		if buf, err = r.values[i].appendJSON(buf); err != nil {
			return buf, err
		}
	}
	return append(buf, '}'), nil
}

// plain returns a scalar, string or blob as the corresponding Go value.
func (v Value) plain() any {
	switch v.kind {
	case ValueInt8, ValueInt16, ValueInt32, ValueInt64:
		return int64(v.word)
	case ValueUint8, ValueUint16, ValueUint32, ValueUint64:
		return v.word
	case ValueFloat32:
		return math.Float32frombits(uint32(v.word))
	case ValueFloat64:
		return math.Float64frombits(v.word)
	case ValueBool:
		return v.word != 0
	case ValueString:
		return v.ref.(string)
	case ValueBytes:
		return v.ref.([]byte)
	default:
		return nil
	}
}
