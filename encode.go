package typetree

import (
	"fmt"
	"log/slog"
	"math"
)

type encoder struct {
	dst     Sink
	path    fieldPath
	logger  *slog.Logger
	verbose bool
}

// fields encodes every top-level field of t from rec. Every field of the
// schema must be present in rec, and rec must not have other fields.
func (e *encoder) fields(t Tree, rec *Record) error {
	var count int
	for i := 0; i < t.Len(); count++ {
		n := t.Node(i)
		v, ok := rec.Get(n.Name)
		if !ok {
			e.path.push(n.Name)
			err := fieldErrf(e.path, n, e.dst.Offset(), ErrSchemaMismatch, "missing field")
			e.path.pop()
			return err
		}
		next, err := e.field(t, i, v)
		if err != nil {
			return err
		}
		i = next
	}
	if rec.Len() > count {
		return e.unexpectedField(t, rec)
	}
	return nil
}

func (e *encoder) unexpectedField(t Tree, rec *Record) error {
	for name := range rec.All() {
		var found bool
		for i := 0; i < t.Len(); i += t.Span(i) {
			if t.Node(i).Name == name {
				found = true
				break
			}
		}
		if !found {
			e.path.push(name)
			defer e.path.pop()
			return fieldErrf(e.path, Node{Depth: -1, Type: "?", Name: name}, e.dst.Offset(), ErrSchemaMismatch, "field is not defined by the schema")
		}
	}
	panic("unreachable")
}

// field encodes v as the field at i and returns the index of the next
// field of t.
func (e *encoder) field(t Tree, i int, v Value) (int, error) {
	n, kind := t.Node(i), t.Kind(i)
	start := e.dst.Offset()
	e.path.push(n.Name)
	defer e.path.pop()

	mismatch := func(want ValueKind) error {
		return fieldErrf(e.path, n, start, ErrSchemaMismatch, "got %v value, wanted %v", v.kind, want)
	}

	align := n.AlignAfter()
	var next int
	switch kind {
	case FieldString:
		if _, err := placeholders(t, i, 2); err != nil {
			return 0, fieldErrf(e.path, n, start, err, "")
		}
		if v.kind != ValueString {
			return 0, mismatch(ValueString)
		}
		s := v.Text()
		if len(s) > math.MaxInt32 {
			return 0, fieldErrf(e.path, n, start, ErrInvalidLength, "string of %d bytes", len(s))
		}
		writeAlignedString(e.dst, s)
		next = i + t.Span(i)

	case FieldVector:
		desc, elem, err := vectorLayout(t, i)
		if err != nil {
			return 0, fieldErrf(e.path, n, start, err, "")
		}
		if v.kind != ValueList {
			return 0, mismatch(ValueList)
		}
		align = align || desc.Node(0).AlignAfter()
		items := v.List()
		if len(items) > math.MaxInt32 {
			return 0, fieldErrf(e.path, n, start, ErrInvalidLength, "%d elements", len(items))
		}
		writeLength(e.dst, len(items))
		e.logComposite(n, start, len(items))
		for j, item := range items {
			e.path.push(indexSeg(j))
			_, err := e.field(elem, 0, item)
			e.path.pop()
			if err != nil {
				return 0, err
			}
		}
		next = i + 1 + desc.Len()

	case FieldMap:
		desc, key, value, err := mapLayout(t, i)
		if err != nil {
			return 0, fieldErrf(e.path, n, start, err, "")
		}
		if v.kind != ValuePairs {
			return 0, mismatch(ValuePairs)
		}
		align = align || desc.Node(0).AlignAfter()
		pairs := v.Pairs()
		if len(pairs) > math.MaxInt32 {
			return 0, fieldErrf(e.path, n, start, ErrInvalidLength, "%d entries", len(pairs))
		}
		writeLength(e.dst, len(pairs))
		e.logComposite(n, start, len(pairs))
		for j, p := range pairs {
			e.path.push(indexSeg(j))
			_, err := e.field(key, 0, p.Key)
			if err == nil {
				_, err = e.field(value, 0, p.Value)
			}
			e.path.pop()
			if err != nil {
				return 0, err
			}
		}
		next = i + 1 + desc.Len()

	case FieldTypelessData:
		desc, err := placeholders(t, i, 2)
		if err != nil {
			return 0, fieldErrf(e.path, n, start, err, "")
		}
		if v.kind != ValueBytes {
			return 0, mismatch(ValueBytes)
		}
		b := v.Bytes()
		if len(b) > math.MaxInt32 {
			return 0, fieldErrf(e.path, n, start, ErrInvalidLength, "%d bytes", len(b))
		}
		writeLength(e.dst, len(b))
		e.dst.WriteBytes(b)
		next = i + 1 + desc.Len()

	case FieldStruct:
		if v.kind != ValueRecord {
			return 0, mismatch(ValueRecord)
		}
		desc := t.Descendants(n.Depth, i)
		if err := e.fields(desc, v.Record()); err != nil {
			return 0, err
		}
		next = i + 1 + desc.Len()

	default:
		if err := writeScalar(e.dst, kind, v); err != nil {
			return 0, fieldErrf(e.path, n, start, err, "")
		}
		next = i + 1
	}

	if align {
		e.dst.Align(alignment)
	}
	return next, nil
}

func (e *encoder) logComposite(n Node, off, count int) {
	if e.verbose {
		e.logger.Debug(fmt.Sprintf("typetree: encoding %s", n.Type), "field", e.path.String(), "off", off, "count", count)
	}
}
