package typetree

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	ValueInvalid ValueKind = iota
	ValueInt8
	ValueUint8
	ValueInt16
	ValueUint16
	ValueInt32
	ValueUint32
	ValueInt64
	ValueUint64
	ValueFloat32
	ValueFloat64
	ValueBool
	ValueString
	ValueBytes
	ValueList
	ValuePairs
	ValueRecord
)

var valueKindNames = [...]string{
	ValueInvalid: "invalid",
	ValueInt8:    "int8",
	ValueUint8:   "uint8",
	ValueInt16:   "int16",
	ValueUint16:  "uint16",
	ValueInt32:   "int32",
	ValueUint32:  "uint32",
	ValueInt64:   "int64",
	ValueUint64:  "uint64",
	ValueFloat32: "float32",
	ValueFloat64: "float64",
	ValueBool:    "bool",
	ValueString:  "string",
	ValueBytes:   "bytes",
	ValueList:    "list",
	ValuePairs:   "pairs",
	ValueRecord:  "record",
}

func (k ValueKind) String() string {
	if k >= 0 && int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "ValueKind(" + strconv.Itoa(int(k)) + ")"
}

func (k ValueKind) IsScalar() bool {
	return k >= ValueInt8 && k <= ValueBool
}

func (k ValueKind) isSigned() bool {
	switch k {
	case ValueInt8, ValueInt16, ValueInt32, ValueInt64:
		return true
	default:
		return false
	}
}

// scalarValueKinds maps scalar field kinds to the value kinds they decode to.
var scalarValueKinds = [...]ValueKind{
	FieldSInt8:  ValueInt8,
	FieldUInt8:  ValueUint8,
	FieldSInt16: ValueInt16,
	FieldUInt16: ValueUint16,
	FieldSInt32: ValueInt32,
	FieldUInt32: ValueUint32,
	FieldSInt64: ValueInt64,
	FieldUInt64: ValueUint64,
	FieldFloat:  ValueFloat32,
	FieldDouble: ValueFloat64,
	FieldBool:   ValueBool,
}

type (
	IntegerValue interface {
		~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
	}
	FloatValue interface {
		~float32 | ~float64
	}
)

// Value is a decoded field: a scalar, a string, a byte blob, a list of
// vector elements, a list of map entries or a nested record.
//
// Scalars are kept in a single 64-bit word: integers sign- or
// zero-extended, floats as IEEE 754 bits of the original width.
type Value struct {
	kind ValueKind
	word uint64
	ref  any // string, []byte, []Value, []Pair or *Record
}

// Pair is one map entry.
type Pair struct {
	Key   Value
	Value Value
}

func intValue[T IntegerValue](kind ValueKind, v T) Value {
	if kind.isSigned() {
		return Value{kind: kind, word: uint64(int64(v))}
	}
	return Value{kind: kind, word: uint64(v)}
}

func Int8(v int8) Value       { return intValue(ValueInt8, v) }
func Uint8(v uint8) Value     { return intValue(ValueUint8, v) }
func Int16(v int16) Value     { return intValue(ValueInt16, v) }
func Uint16(v uint16) Value   { return intValue(ValueUint16, v) }
func Int32(v int32) Value     { return intValue(ValueInt32, v) }
func Uint32(v uint32) Value   { return intValue(ValueUint32, v) }
func Int64(v int64) Value     { return intValue(ValueInt64, v) }
func Uint64(v uint64) Value   { return intValue(ValueUint64, v) }
func Float32(v float32) Value { return Value{kind: ValueFloat32, word: uint64(math.Float32bits(v))} }
func Float64(v float64) Value { return Value{kind: ValueFloat64, word: math.Float64bits(v)} }
func String(v string) Value   { return Value{kind: ValueString, ref: v} }
func Bytes(v []byte) Value    { return Value{kind: ValueBytes, ref: v} }

func Bool(v bool) Value {
	if v {
		return Value{kind: ValueBool, word: 1}
	}
	return Value{kind: ValueBool}
}

func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: ValueList, ref: items}
}

func Pairs(pairs ...Pair) Value {
	if pairs == nil {
		pairs = []Pair{}
	}
	return Value{kind: ValuePairs, ref: pairs}
}

func RecordValue(rec *Record) Value {
	if rec == nil {
		panic("nil record")
	}
	return Value{kind: ValueRecord, ref: rec}
}

// scalarFromWord builds a scalar of the given kind from its raw word.
func scalarFromWord(kind ValueKind, w uint64) Value {
	switch kind {
	case ValueInt8:
		return Int8(int8(w))
	case ValueInt16:
		return Int16(int16(w))
	case ValueInt32:
		return Int32(int32(w))
	case ValueBool:
		return Bool(w != 0)
	default:
		return Value{kind: kind, word: w}
	}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsValid() bool   { return v.kind != ValueInvalid }

// Int returns a signed integer value, or the bits of an unsigned one.
func (v Value) Int() int64 {
	v.mustBeInteger()
	return int64(v.word)
}

func (v Value) Uint() uint64 {
	v.mustBeInteger()
	return v.word
}

func (v Value) Float() float64 {
	switch v.kind {
	case ValueFloat32:
		return float64(math.Float32frombits(uint32(v.word)))
	case ValueFloat64:
		return math.Float64frombits(v.word)
	default:
		panic(fmt.Errorf("Float called on %v value", v.kind))
	}
}

func (v Value) Bool() bool {
	v.mustBe(ValueBool)
	return v.word != 0
}

func (v Value) Text() string {
	v.mustBe(ValueString)
	return v.ref.(string)
}

func (v Value) Bytes() []byte {
	v.mustBe(ValueBytes)
	return v.ref.([]byte)
}

func (v Value) List() []Value {
	v.mustBe(ValueList)
	return v.ref.([]Value)
}

func (v Value) Pairs() []Pair {
	v.mustBe(ValuePairs)
	return v.ref.([]Pair)
}

func (v Value) Record() *Record {
	v.mustBe(ValueRecord)
	return v.ref.(*Record)
}

// Len returns the number of elements, entries, fields or bytes.
func (v Value) Len() int {
	switch v.kind {
	case ValueString:
		return len(v.ref.(string))
	case ValueBytes:
		return len(v.ref.([]byte))
	case ValueList:
		return len(v.ref.([]Value))
	case ValuePairs:
		return len(v.ref.([]Pair))
	case ValueRecord:
		return v.ref.(*Record).Len()
	default:
		return 0
	}
}

func (v Value) mustBe(kind ValueKind) {
	if v.kind != kind {
		panic(fmt.Errorf("%v value used as %v", v.kind, kind))
	}
}

func (v Value) mustBeInteger() {
	if !v.isInteger() {
		panic(fmt.Errorf("%v value used as integer", v.kind))
	}
}

// Scalar converts an integer value to T, reporting whether v is an
// integer and fits T without loss.
func Scalar[T IntegerValue](v Value) (T, bool) {
	if !v.isInteger() {
		return 0, false
	}
	r := T(v.word)
	if v.kind.isSigned() {
		i := int64(v.word)
		return r, int64(r) == i && (i >= 0) == (r >= 0)
	}
	return r, r >= 0 && uint64(r) == v.word
}

func (v Value) isInteger() bool {
	return v.kind.IsScalar() && v.kind != ValueFloat32 && v.kind != ValueFloat64 && v.kind != ValueBool
}

// Equal reports whether two values have the same kind and content. Floats
// are compared bitwise, so NaNs decoded from identical bytes are equal.
func (v Value) Equal(u Value) bool {
	if v.kind != u.kind {
		return false
	}
	switch v.kind {
	case ValueInvalid:
		return true
	case ValueString:
		return v.ref.(string) == u.ref.(string)
	case ValueBytes:
		return bytes.Equal(v.ref.([]byte), u.ref.([]byte))
	case ValueList:
		a, b := v.ref.([]Value), u.ref.([]Value)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case ValuePairs:
		a, b := v.ref.([]Pair), u.ref.([]Pair)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Key.Equal(b[i].Key) || !a[i].Value.Equal(b[i].Value) {
				return false
			}
		}
		return true
	case ValueRecord:
		return v.ref.(*Record).Equal(u.ref.(*Record))
	default:
		return v.word == u.word
	}
}

// String formats scalars the way the text dump prints them; composite
// values are rendered in a compact single-line form.
func (v Value) String() string {
	var buf strings.Builder
	v.format(&buf)
	return buf.String()
}

func (v Value) format(buf *strings.Builder) {
	switch v.kind {
	case ValueInvalid:
		buf.WriteString("<invalid>")
	case ValueInt8, ValueInt16, ValueInt32, ValueInt64:
		buf.WriteString(strconv.FormatInt(int64(v.word), 10))
	case ValueUint8, ValueUint16, ValueUint32, ValueUint64:
		buf.WriteString(strconv.FormatUint(v.word, 10))
	case ValueFloat32:
		buf.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 32))
	case ValueFloat64:
		buf.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case ValueBool:
		if v.word != 0 {
			buf.WriteString("True")
		} else {
			buf.WriteString("False")
		}
	case ValueString:
		buf.WriteString(strconv.Quote(v.ref.(string)))
	case ValueBytes:
		buf.WriteString(hexstr(v.ref.([]byte)))
	case ValueList:
		buf.WriteByte('[')
		for i, item := range v.ref.([]Value) {
			if i > 0 {
				buf.WriteString(", ")
			}
			item.format(buf)
		}
		buf.WriteByte(']')
	case ValuePairs:
		buf.WriteByte('[')
		for i, p := range v.ref.([]Pair) {
			if i > 0 {
				buf.WriteString(", ")
			}
			p.Key.format(buf)
			buf.WriteString(" => ")
			p.Value.format(buf)
		}
		buf.WriteByte(']')
	case ValueRecord:
		v.ref.(*Record).format(buf)
	}
}
