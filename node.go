package typetree

import (
	"strconv"
)

// MetaFlags are the per-node flags recorded by the metadata store.
type MetaFlags uint32

const (
	// FlagAlignBytes requests that the stream position is rounded up to
	// a multiple of 4 after the field has been read or written.
	FlagAlignBytes MetaFlags = 0x4000
)

func (f MetaFlags) Contains(v MetaFlags) bool {
	return (f & v) == v
}

// Node is one entry of a flattened type tree.
type Node struct {
	Depth int       `msgpack:"d"`
	Type  string    `msgpack:"t"`
	Name  string    `msgpack:"n"`
	Flags MetaFlags `msgpack:"f,omitempty"`
}

func (n Node) AlignAfter() bool {
	return n.Flags.Contains(FlagAlignBytes)
}

func (n Node) String() string {
	return n.Type + " " + n.Name
}

type FieldKind int

const (
	FieldStruct FieldKind = iota
	FieldSInt8
	FieldUInt8
	FieldSInt16
	FieldUInt16
	FieldSInt32
	FieldUInt32
	FieldSInt64
	FieldUInt64
	FieldFloat
	FieldDouble
	FieldBool
	FieldString
	FieldVector
	FieldMap
	FieldTypelessData
)

var fieldKindNames = [...]string{
	FieldStruct:       "struct",
	FieldSInt8:        "SInt8",
	FieldUInt8:        "UInt8",
	FieldSInt16:       "SInt16",
	FieldUInt16:       "UInt16",
	FieldSInt32:       "SInt32",
	FieldUInt32:       "UInt32",
	FieldSInt64:       "SInt64",
	FieldUInt64:       "UInt64",
	FieldFloat:        "float",
	FieldDouble:       "double",
	FieldBool:         "bool",
	FieldString:       "string",
	FieldVector:       "vector",
	FieldMap:          "map",
	FieldTypelessData: "TypelessData",
}

func (k FieldKind) String() string {
	if k >= 0 && int(k) < len(fieldKindNames) {
		return fieldKindNames[k]
	}
	return "FieldKind(" + strconv.Itoa(int(k)) + ")"
}

// IsScalar reports whether the kind is a fixed-width primitive.
func (k FieldKind) IsScalar() bool {
	return k >= FieldSInt8 && k <= FieldBool
}

// KindOf resolves a type name of the metadata store. Any name that is not
// a known primitive or container denotes a nested struct.
func KindOf(typeName string) FieldKind {
	switch typeName {
	case "SInt8":
		return FieldSInt8
	case "UInt8":
		return FieldUInt8
	case "short", "SInt16":
		return FieldSInt16
	case "UInt16", "unsigned short":
		return FieldUInt16
	case "int", "SInt32":
		return FieldSInt32
	case "UInt32", "unsigned int", "Type*":
		return FieldUInt32
	case "long long", "SInt64":
		return FieldSInt64
	case "UInt64", "unsigned long long":
		return FieldUInt64
	case "float":
		return FieldFloat
	case "double":
		return FieldDouble
	case "bool":
		return FieldBool
	case "string":
		return FieldString
	case "vector":
		return FieldVector
	case "map":
		return FieldMap
	case "TypelessData":
		return FieldTypelessData
	default:
		return FieldStruct
	}
}
