package typetree

import (
	"errors"
	"strings"
	"testing"
)

func TestDataError_ErrorAndUnwrap(t *testing.T) {
	t.Run("small data", func(t *testing.T) {
		inner := errors.New("inner")
		err := dataErrf([]byte{0xAA, 0xBB}, 1, inner, "oops")
		var de *DataError
		if !errors.As(err, &de) {
			t.Fatalf("err = %T, wanted *DataError", err)
		}
		if !errors.Is(err, inner) {
			t.Fatalf("errors.Is(err, inner) = false, wanted true")
		}
		s := err.Error()
		if !strings.Contains(s, "oops at 1") || !strings.Contains(s, "inner") || !strings.Contains(s, "(2) aabb") {
			t.Fatalf("err.Error() = %q, wanted message with oops/inner/(2)", s)
		}
	})

	t.Run("large data includes prefix+suffix", func(t *testing.T) {
		data := make([]byte, 200)
		for i := range data {
			data[i] = byte(i)
		}
		err := dataErrf(data, 0, nil, "oops")
		s := err.Error()
		if !strings.Contains(s, "(200)") || !strings.Contains(s, "...") {
			t.Fatalf("err.Error() = %q, wanted message with (200) and ...", s)
		}
	})
}

func TestFieldError_Error(t *testing.T) {
	inner := errors.New("inner")
	var path fieldPath
	path.push("arr")
	path.push(indexSeg(1))
	path.push("data")
	err := fieldErrf(path, Node{2, "int", "data", 0}, 12, inner, "oops %d", 1)
	if !errors.Is(err, inner) {
		t.Fatalf("errors.Is(err, inner) = false, wanted true")
	}
	deepEqual(t, err.Error(), "arr[1].data (int, depth 2, offset 12): oops 1: inner")

	// already attributed errors pass through
	deepEqual(t, fieldErrf(fieldPath{"arr"}, Node{0, "vector", "arr", 0}, 4, err, "outer"), err)

	s := (&FieldError{Type: "int", Off: -1, Err: inner}).Error()
	deepEqual(t, s, "<root> (int, depth 0): inner")
}

func TestSchemaErrf(t *testing.T) {
	err := schemaErrf(3, Node{5, "int", "x", 0}, "bad %s", "thing")
	if !errors.Is(err, ErrMalformedSchema) {
		t.Fatalf("errors.Is(err, ErrMalformedSchema) = false, wanted true")
	}
	deepEqual(t, err.Error(), "x (int, depth 5): node #3: bad thing: malformed schema")
}

func TestFieldPath(t *testing.T) {
	var p fieldPath
	deepEqual(t, p.String(), "")
	p.push("a")
	p.push(indexSeg(0))
	p.push(indexSeg(2))
	p.push("b")
	deepEqual(t, p.String(), "a[0][2].b")
	p.pop()
	p.pop()
	deepEqual(t, p.String(), "a[0]")
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		tree   Tree
		data   string
		is     error
		path   string
		off    int
		prefix string
	}{
		{"truncated scalar", exampleTree, "0700", ErrStreamExhausted, "x", 0, ""},
		{"truncated count", exampleTree, "07000000 0200", ErrStreamExhausted, "arr", 4, "int x = 7\r\n"},
		{"truncated element", exampleTree, "07000000 02000000 03000000", ErrStreamExhausted, "arr[1].data", 12, "int x = 7\r\nvector arr\r\n"},
		{"negative count", exampleTree, "07000000 ffffffff", ErrInvalidLength, "arr", 4, "int x = 7\r\n"},
		{"truncated string", stringTree, "05000000 616263", ErrStreamExhausted, "name", 0, ""},
		{"missing string padding", stringTree, "05000000 6162636465", ErrStreamExhausted, "name", 0, ""},
		{"negative string length", stringTree, "feffffff", ErrInvalidLength, "name", 0, ""},
		{"truncated map value", mapTree, "01000000 01000000 05000000 6162", ErrStreamExhausted, "m[0].second", 8, "map m\r\n"},
		{"truncated nested", nestedTree, "09000000 01000000 0000c03f", ErrStreamExhausted, "outer.inner.points[0].data.y", 12, "Outer outer\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.tree, x(tt.data))
			if !errors.Is(err, tt.is) {
				t.Fatalf("Decode err = %v, wanted %v", err, tt.is)
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("Decode err = %T %v, wanted *FieldError", err, err)
			}
			deepEqual(t, fe.Path, tt.path)
			deepEqual(t, fe.Off, tt.off)

			var buf strings.Builder
			err = New(Options{}).TextDumpTo(&buf, tt.tree, NewReader(x(tt.data), nil))
			if !errors.Is(err, tt.is) {
				t.Fatalf("TextDumpTo err = %v, wanted %v", err, tt.is)
			}
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("TextDumpTo wrote %q, wanted prefix %q", buf.String(), tt.prefix)
			}

			s, err := TextDump(tt.tree, x(tt.data))
			if err == nil || s != "" {
				t.Errorf("TextDump = (%q, %v), wanted empty output and an error", s, err)
			}
		})
	}
}

func TestMalformedSchema(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"vector without element", "vector v\n\tArray Array\n\t\tint size\n"},
		{"vector with two elements", "vector v\n\tArray Array\n\t\tint size\n\t\tint data\n\t\tint extra\n"},
		{"map without value", "map m\n\tArray Array\n\t\tint size\n\t\tpair data\n\t\t\tint first\n"},
		{"map with two values", "map m\n\tArray Array\n\t\tint size\n\t\tpair data\n\t\t\tint first\n\t\t\tint second\n\t\t\tint third\n"},
		{"string without placeholders", "string s\n\tArray Array\n"},
		{"typeless data without placeholders", "TypelessData d\n\tint size\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := MustParseTree(tt.text)
			data := x("01000000 01000000 01000000 01000000")
			_, err := Decode(tree, data)
			if !errors.Is(err, ErrMalformedSchema) {
				t.Fatalf("Decode err = %v, wanted ErrMalformedSchema", err)
			}
			_, err = Encode(tree, rec(tree.Node(0).Name, Int32(1)))
			if !errors.Is(err, ErrMalformedSchema) {
				t.Fatalf("Encode err = %v, wanted ErrMalformedSchema", err)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name string
		tree Tree
		rec  *Record
		is   error
		path string
	}{
		{"wrong scalar width", exampleTree, rec("x", Int64(7), "arr", List()), ErrSchemaMismatch, "x"},
		{"wrong signedness", exampleTree, rec("x", Uint32(7), "arr", List()), ErrSchemaMismatch, "x"},
		{"scalar for vector", exampleTree, rec("x", Int32(7), "arr", Int32(1)), ErrSchemaMismatch, "arr"},
		{"wrong element", exampleTree, rec("x", Int32(7), "arr", List(Int32(1), String("a"))), ErrSchemaMismatch, "arr[1].data"},
		{"missing field", exampleTree, rec("x", Int32(7)), ErrSchemaMismatch, "arr"},
		{"extra field", exampleTree, rec("x", Int32(7), "arr", List(), "y", Int32(1)), ErrSchemaMismatch, "y"},
		{"bytes for string", stringTree, rec("name", Bytes(nil), "after", Int32(1)), ErrSchemaMismatch, "name"},
		{"list for map", mapTree, rec("m", List()), ErrSchemaMismatch, "m"},
		{"wrong map value", mapTree, rec("m", Pairs(Pair{Int32(1), Int32(2)})), ErrSchemaMismatch, "m[0].second"},
		{"scalar for struct", nestedTree, rec("outer", Int32(1), "tail", Uint8(1)), ErrSchemaMismatch, "outer"},
		{"nil record", exampleTree, nil, ErrSchemaMismatch, "x"},
		{"missing nested field", nestedTree, rec("outer", RecordValue(rec("inner", RecordValue(rec("id", Int32(1))))), "tail", Uint8(1)), ErrSchemaMismatch, "outer.inner.points"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Encode(tt.tree, tt.rec)
			if !errors.Is(err, tt.is) {
				t.Fatalf("Encode err = %v, wanted %v", err, tt.is)
			}
			if out != nil {
				t.Errorf("Encode returned %x along with an error", out)
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("Encode err = %T %v, wanted *FieldError", err, err)
			}
			deepEqual(t, fe.Path, tt.path)
		})
	}
}
