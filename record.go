package typetree

import (
	"iter"
	"strings"
)

// Record maps field names to values, preserving the order in which fields
// were first set.
type Record struct {
	names  []string
	values []Value
	index  map[string]int
}

func NewRecord(capacity int) *Record {
	return &Record{
		names:  make([]string, 0, capacity),
		values: make([]Value, 0, capacity),
		index:  make(map[string]int, capacity),
	}
}

// Set adds a field, or replaces the value of an existing one in place.
func (r *Record) Set(name string, v Value) {
	if i, ok := r.index[name]; ok {
		r.values[i] = v
		return
	}
	if r.index == nil {
		r.index = make(map[string]int)
	}
	r.index[name] = len(r.names)
	r.names = append(r.names, name)
	r.values = append(r.values, v)
}

// Get and Len treat a nil record as empty.
func (r *Record) Get(name string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	if i, ok := r.index[name]; ok {
		return r.values[i], true
	}
	return Value{}, false
}

// MustGet returns the named field, panicking if it is absent.
func (r *Record) MustGet(name string) Value {
	v, ok := r.Get(name)
	if !ok {
		panic("record has no field " + name)
	}
	return v
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

func (r *Record) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Record) Field(i int) (string, Value) {
	return r.names[i], r.values[i]
}

func (r *Record) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i, name := range r.names {
			if !yield(name, r.values[i]) {
				return
			}
		}
	}
}

// Equal compares field names, order and values.
func (r *Record) Equal(o *Record) bool {
	if r == o {
		return true
	}
	if r == nil || o == nil || len(r.names) != len(o.names) {
		return false
	}
	for i, name := range r.names {
		if o.names[i] != name || !r.values[i].Equal(o.values[i]) {
			return false
		}
	}
	return true
}

func (r *Record) String() string {
	var buf strings.Builder
	r.format(&buf)
	return buf.String()
}

func (r *Record) format(buf *strings.Builder) {
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(name)
		buf.WriteString(": ")
		r.values[i].format(buf)
	}
	buf.WriteByte('}')
}
