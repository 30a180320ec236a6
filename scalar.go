package typetree

import "fmt"

var scalarWidths = [...]int{
	FieldSInt8:  1,
	FieldUInt8:  1,
	FieldSInt16: 2,
	FieldUInt16: 2,
	FieldSInt32: 4,
	FieldUInt32: 4,
	FieldSInt64: 8,
	FieldUInt64: 8,
	FieldFloat:  4,
	FieldDouble: 8,
	FieldBool:   1,
}

// ScalarWidth returns the encoded size of a scalar kind in bytes, or 0 for
// non-scalar kinds.
func ScalarWidth(kind FieldKind) int {
	if !kind.IsScalar() {
		return 0
	}
	return scalarWidths[kind]
}

func readScalar(src Source, kind FieldKind) (Value, error) {
	var w uint64
	switch scalarWidths[kind] {
	case 1:
		v, err := src.ReadUint8()
		if err != nil {
			return Value{}, err
		}
		w = uint64(v)
	case 2:
		v, err := src.ReadUint16()
		if err != nil {
			return Value{}, err
		}
		w = uint64(v)
	case 4:
		v, err := src.ReadUint32()
		if err != nil {
			return Value{}, err
		}
		w = uint64(v)
	case 8:
		v, err := src.ReadUint64()
		if err != nil {
			return Value{}, err
		}
		w = v
	}
	return scalarFromWord(scalarValueKinds[kind], w), nil
}

func writeScalar(dst Sink, kind FieldKind, v Value) error {
	if want := scalarValueKinds[kind]; v.kind != want {
		return fmt.Errorf("%w: got %v value, wanted %v", ErrSchemaMismatch, v.kind, want)
	}
	switch scalarWidths[kind] {
	case 1:
		dst.WriteUint8(uint8(v.word))
	case 2:
		dst.WriteUint16(uint16(v.word))
	case 4:
		dst.WriteUint32(uint32(v.word))
	case 8:
		dst.WriteUint64(v.word)
	}
	return nil
}
