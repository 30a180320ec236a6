package typetree

import (
	"encoding/binary"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Tree is an immutable view of a flattened type tree. Nodes appear in
// pre-order; the children of a node are the run of following nodes that
// are deeper than it. Sub-schemas are views into the same backing arrays,
// so slicing a tree never copies nodes.
type Tree struct {
	nodes []Node
	kinds []FieldKind
}

// NewTree validates the nesting of nodes and resolves the kind of every
// node once. The nodes slice is copied.
func NewTree(nodes []Node) (Tree, error) {
	if len(nodes) == 0 {
		return Tree{}, nil
	}
	nodes = slices.Clone(nodes)
	kinds := make([]FieldKind, len(nodes))
	base := nodes[0].Depth
	for i, n := range nodes {
		if n.Depth < 0 {
			return Tree{}, schemaErrf(i, n, "negative depth %d", n.Depth)
		}
		if n.Depth < base {
			return Tree{}, schemaErrf(i, n, "depth %d is shallower than the first node (%d)", n.Depth, base)
		}
		if i > 0 && n.Depth > nodes[i-1].Depth+1 {
			return Tree{}, schemaErrf(i, n, "depth jumps from %d to %d", nodes[i-1].Depth, n.Depth)
		}
		kinds[i] = KindOf(n.Type)
	}
	return Tree{nodes, kinds}, nil
}

// MustTree is like NewTree, but panics on malformed input. Intended for
// schemas defined in code.
func MustTree(nodes ...Node) Tree {
	return must(NewTree(nodes))
}

func (t Tree) Len() int {
	return len(t.nodes)
}

func (t Tree) IsEmpty() bool {
	return len(t.nodes) == 0
}

func (t Tree) Node(i int) Node {
	return t.nodes[i]
}

func (t Tree) Kind(i int) FieldKind {
	return t.kinds[i]
}

// Nodes returns a copy of the nodes.
func (t Tree) Nodes() []Node {
	return slices.Clone(t.nodes)
}

func (t Tree) slice(i, j int) Tree {
	return Tree{t.nodes[i:j:j], t.kinds[i:j:j]}
}

// Descendants returns the maximal run of nodes immediately following pos
// whose depth is strictly greater than depth. When depth is the depth of
// the node at pos, this is the full subtree of that node, excluding the
// node itself.
func (t Tree) Descendants(depth, pos int) Tree {
	end := pos + 1
	for end < len(t.nodes) && t.nodes[end].Depth > depth {
		end++
	}
	return t.slice(pos+1, end)
}

// Span returns the number of entries occupied by the field at pos.
func (t Tree) Span(pos int) int {
	return 1 + t.Descendants(t.nodes[pos].Depth, pos).Len()
}

// Subtree returns the field at pos together with its descendants.
func (t Tree) Subtree(pos int) Tree {
	return t.slice(pos, pos+t.Span(pos))
}

// Fingerprint identifies the exact layout described by the tree.
func (t Tree) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [binary.MaxVarintLen64]byte
	for _, n := range t.nodes {
		d.Write(buf[:binary.PutUvarint(buf[:], uint64(n.Depth))])
		d.WriteString(n.Type)
		d.Write([]byte{0})
		d.WriteString(n.Name)
		d.Write([]byte{0})
		d.Write(buf[:binary.PutUvarint(buf[:], uint64(n.Flags))])
	}
	return d.Sum64()
}

// String renders the tree in the text form accepted by ParseTree.
func (t Tree) String() string {
	var buf strings.Builder
	base := 0
	if len(t.nodes) > 0 {
		base = t.nodes[0].Depth
	}
	for _, n := range t.nodes {
		buf.WriteString(strings.Repeat("\t", n.Depth-base))
		buf.WriteString(n.Type)
		buf.WriteByte(' ')
		buf.WriteString(n.Name)
		if n.Flags != 0 {
			buf.WriteString(" 0x")
			buf.WriteString(strconv.FormatUint(uint64(n.Flags), 16))
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}
