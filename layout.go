package typetree

import "fmt"

// The composite layouts below are expressed against the true descendants
// of the field node:
//
//	vector  Array, size, <element>
//	map     Array, size, pair, <key>, <value>
//	string  Array, size, data       (or any two placeholders)
//	TypelessData  size, data

func placeholders(t Tree, i, min int) (Tree, error) {
	n := t.Node(i)
	desc := t.Descendants(n.Depth, i)
	if desc.Len() < min {
		return Tree{}, fmt.Errorf("%w: %s needs at least %d child nodes, got %d", ErrMalformedSchema, n.Type, min, desc.Len())
	}
	return desc, nil
}

// vectorLayout returns the descendants of the vector at i and the schema
// of a single element.
func vectorLayout(t Tree, i int) (desc, elem Tree, err error) {
	desc, err = placeholders(t, i, 3)
	if err != nil {
		return
	}
	elem = desc.slice(2, desc.Len())
	if elem.Span(0) != elem.Len() {
		err = fmt.Errorf("%w: vector element schema must be a single field, got %d top-level nodes", ErrMalformedSchema, topLevelCount(elem))
	}
	return
}

// mapLayout returns the descendants of the map at i and the key and value
// schemas, which are siblings following the pair node.
func mapLayout(t Tree, i int) (desc, key, value Tree, err error) {
	desc, err = placeholders(t, i, 5)
	if err != nil {
		return
	}
	rest := desc.slice(3, desc.Len())
	keyLen := rest.Span(0)
	key, value = rest.slice(0, keyLen), rest.slice(keyLen, rest.Len())
	if value.IsEmpty() {
		err = fmt.Errorf("%w: map has no value schema", ErrMalformedSchema)
	} else if value.Span(0) != value.Len() {
		err = fmt.Errorf("%w: map value schema must be a single field, got %d top-level nodes", ErrMalformedSchema, topLevelCount(value))
	}
	return
}

func topLevelCount(t Tree) int {
	var c int
	for i := 0; i < t.Len(); i += t.Span(i) {
		c++
	}
	return c
}
