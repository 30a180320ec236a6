package typetree

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTree reads the text form of a type tree: one node per line, depth
// given by the number of leading tabs, then the type name, the field name
// and optionally the flags as a 0x-prefixed hex number.
//
//	Base m_Base
//		int x
//		vector items 0x4000
//			Array Array
//				int size
//				float data
//
// Type names may contain spaces ("unsigned int"); the field name is always
// the last word before the flags. Blank lines and lines starting with #
// are ignored.
func ParseTree(text string) (Tree, error) {
	var nodes []Node
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r ")
		body := strings.TrimLeft(line, "\t")
		if body == "" || body[0] == '#' {
			continue
		}
		n, err := parseNodeLine(body)
		if err != nil {
			return Tree{}, fmt.Errorf("%w: line %d: %v", ErrMalformedSchema, lineNo+1, err)
		}
		n.Depth = len(line) - len(body)
		nodes = append(nodes, n)
	}
	return NewTree(nodes)
}

// MustParseTree is like ParseTree, but panics on error.
func MustParseTree(text string) Tree {
	return must(ParseTree(text))
}

func parseNodeLine(s string) (Node, error) {
	words := strings.Fields(s)
	var n Node
	if k := len(words); k >= 3 && strings.HasPrefix(words[k-1], "0x") {
		v, err := strconv.ParseUint(words[k-1][2:], 16, 32)
		if err != nil {
			return n, fmt.Errorf("invalid flags %q", words[k-1])
		}
		n.Flags = MetaFlags(v)
		words = words[:k-1]
	}
	if len(words) < 2 {
		return n, fmt.Errorf("expected type and name, got %q", s)
	}
	n.Name = words[len(words)-1]
	n.Type = strings.Join(words[:len(words)-1], " ")
	return n, nil
}
