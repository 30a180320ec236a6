/*
Package typetree reads and writes binary records whose layout is only known
at runtime, described by a flattened “type tree” taken from a game asset
metadata store.

We implement:

1. Decode, turning bytes into a Record of dynamic Values.

2. Encode, turning a decoded Record back into the exact same bytes.

3. TextDump, an indented trace of every field and value read.

All three walk the schema with the same single-pass algorithm.

# Type trees

A type tree is a pre-order list of nodes, each with a depth, a type name,
a field name and flags. The children of a node are the run of following
nodes that are deeper than it, so a field together with its descendants
always occupies a contiguous span (see Tree.Span). Depth 0 nodes (or,
generally, nodes at the depth of the first node) are the top-level fields
of the record.

**Alignment.** When a node has FlagAlignBytes, the stream position is
padded to a multiple of 4 after the whole field. For vectors and maps, the
flag may also sit on the Array node right below the field.

## Binary encoding

**Scalars**: SInt8/UInt8/bool take 1 byte, SInt16/UInt16 2, SInt32/UInt32
and float 4, SInt64/UInt64 and double 8, in the byte order of the stream.

**string**: int32 length, bytes, padding to 4. Strings are always padded.
Schema shape: the string node plus placeholder descendants (Array, size,
data).

**vector**: int32 count, then each element laid out per the element schema.
Schema shape: vector, Array, size, element subtree.

**map**: int32 count, then key and value for each entry. Schema shape: map,
Array, size, pair, key subtree, value subtree.

**TypelessData**: int32 size, then that many raw bytes. Schema shape:
TypelessData, size, data.

Every other type name is a nested struct whose fields are its children.

# Text dump

One line per field, CRLF-terminated, indented by the node depth with tabs:

	int x = 7
	vector arr
		Array Array
		int size = 2
			[0]
			int data = 3
			[1]
			int data = 5
*/
package typetree
