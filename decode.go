package typetree

import (
	"bytes"
	"log/slog"
)

// maxPrealloc caps the capacity reserved up front for a vector or map, so
// that a corrupted count fails on the stream instead of on allocation.
const maxPrealloc = 1024

type decoder struct {
	src     Source
	dump    *dumper
	path    fieldPath
	logger  *slog.Logger
	verbose bool
}

// fields decodes every top-level field of t into a record.
func (d *decoder) fields(t Tree) (*Record, error) {
	rec := NewRecord(topLevelCount(t))
	for i := 0; i < t.Len(); {
		v, next, err := d.field(t, i)
		if err != nil {
			return nil, err
		}
		rec.Set(t.Node(i).Name, v)
		i = next
	}
	return rec, nil
}

// field decodes the field at i and returns its value and the index of the
// next field of t.
func (d *decoder) field(t Tree, i int) (Value, int, error) {
	n, kind := t.Node(i), t.Kind(i)
	start := d.src.Offset()
	d.path.push(n.Name)
	defer d.path.pop()

	align := n.AlignAfter()
	var v Value
	var next int
	switch kind {
	case FieldString:
		if _, err := placeholders(t, i, 2); err != nil {
			return v, 0, fieldErrf(d.path, n, start, err, "")
		}
		s, err := readAlignedString(d.src)
		if err != nil {
			return v, 0, fieldErrf(d.path, n, start, err, "")
		}
		d.dump.text(n, s)
		v, next = String(s), i+t.Span(i)

	case FieldVector:
		desc, elem, err := vectorLayout(t, i)
		if err != nil {
			return v, 0, fieldErrf(d.path, n, start, err, "")
		}
		align = align || desc.Node(0).AlignAfter()
		count, err := readLength(d.src)
		if err != nil {
			return v, 0, fieldErrf(d.path, n, start, err, "vector size")
		}
		d.dump.header(n)
		d.dump.arrayHeader(n, count)
		d.logComposite(n, start, count)

		items := make([]Value, 0, min(count, maxPrealloc))
		for j := 0; j < count; j++ {
			d.dump.element(n, j)
			d.path.push(indexSeg(j))
			item, _, err := d.field(elem, 0)
			d.path.pop()
			if err != nil {
				return v, 0, err
			}
			items = append(items, item)
		}
		v, next = List(items...), i+1+desc.Len()

	case FieldMap:
		desc, key, value, err := mapLayout(t, i)
		if err != nil {
			return v, 0, fieldErrf(d.path, n, start, err, "")
		}
		align = align || desc.Node(0).AlignAfter()
		count, err := readLength(d.src)
		if err != nil {
			return v, 0, fieldErrf(d.path, n, start, err, "map size")
		}
		d.dump.header(n)
		d.dump.arrayHeader(n, count)
		d.logComposite(n, start, count)

		pairs := make([]Pair, 0, min(count, maxPrealloc))
		for j := 0; j < count; j++ {
			d.dump.element(n, j)
			d.dump.pair(n)
			d.path.push(indexSeg(j))
			k, _, err := d.field(key, 0)
			if err != nil {
				d.path.pop()
				return v, 0, err
			}
			val, _, err := d.field(value, 0)
			d.path.pop()
			if err != nil {
				return v, 0, err
			}
			pairs = append(pairs, Pair{k, val})
		}
		v, next = Pairs(pairs...), i+1+desc.Len()

	case FieldTypelessData:
		desc, err := placeholders(t, i, 2)
		if err != nil {
			return v, 0, fieldErrf(d.path, n, start, err, "")
		}
		size, err := readLength(d.src)
		if err != nil {
			return v, 0, fieldErrf(d.path, n, start, err, "data size")
		}
		b, err := d.src.ReadBytes(size)
		if err != nil {
			return v, 0, fieldErrf(d.path, n, start, err, "")
		}
		d.dump.header(n)
		d.dump.size(n.Depth, size)
		v, next = Bytes(bytes.Clone(b)), i+1+desc.Len()

	case FieldStruct:
		desc := t.Descendants(n.Depth, i)
		d.dump.header(n)
		rec, err := d.fields(desc)
		if err != nil {
			return v, 0, err
		}
		v, next = RecordValue(rec), i+1+desc.Len()

	default:
		var err error
		v, err = readScalar(d.src, kind)
		if err != nil {
			return v, 0, fieldErrf(d.path, n, start, err, "")
		}
		d.dump.leaf(n, v)
		next = i + 1
	}

	if align {
		if err := d.src.Align(alignment); err != nil {
			return Value{}, 0, fieldErrf(d.path, n, start, err, "alignment")
		}
	}
	return v, next, nil
}

func (d *decoder) logComposite(n Node, off, count int) {
	if d.verbose {
		d.logger.Debug("typetree: decoding "+n.Type, "field", d.path.String(), "off", off, "count", count)
	}
}
