package catalog

import (
	"encoding/binary"
	"fmt"

	"github.com/andreyvit/typetree"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	entryFormatVer1      = 1
	entryFormatVerLatest = entryFormatVer1

	minEntrySize       = 3 + 8
	maxEntryHeaderSize = binary.MaxVarintLen64*3 + 8
	maxNodeCount       = 1 << 20 // just a sanity value, can be increased
)

// An entry stores one type tree:
//
//	version:uvarint nodeCount:uvarint dataSize:uvarint fingerprint:64 data
//
// where data is the msgpack-encoded node list and fingerprint is
// Tree.Fingerprint, verified on load.
func encodeEntry(t typetree.Tree) ([]byte, error) {
	data, err := msgpack.Marshal(t.Nodes())
	if err != nil {
		return nil, fmt.Errorf("failed to encode type tree using MsgPack: %w", err)
	}
	buf := make([]byte, 0, maxEntryHeaderSize+len(data))
	buf = binary.AppendUvarint(buf, entryFormatVerLatest)
	buf = binary.AppendUvarint(buf, uint64(t.Len()))
	buf = binary.AppendUvarint(buf, uint64(len(data)))
	buf = binary.BigEndian.AppendUint64(buf, t.Fingerprint())
	return append(buf, data...), nil
}

type entryHeader struct {
	Ver         uint64
	NodeCount   int
	Fingerprint uint64
	Data        []byte
}

func corruptf(raw []byte, off int, format string, args ...any) error {
	return &typetree.DataError{Data: raw, Off: off, Err: ErrCorruptEntry, Msg: fmt.Sprintf(format, args...)}
}

func (h *entryHeader) decode(raw []byte) error {
	data := raw
	if len(data) < minEntrySize {
		return corruptf(raw, 0, "invalid entry: at least %d bytes required", minEntrySize)
	}

	v, n := binary.Uvarint(data)
	if n <= 0 {
		return corruptf(raw, len(raw)-len(data), "invalid entry: bad version")
	}
	if v != entryFormatVer1 {
		return corruptf(raw, len(raw)-len(data), "invalid entry: unsupported version %d", v)
	}
	h.Ver, data = v, data[n:]

	v, n = binary.Uvarint(data)
	if n <= 0 || v > maxNodeCount {
		return corruptf(raw, len(raw)-len(data), "invalid entry: bad node count")
	}
	h.NodeCount, data = int(v), data[n:]

	dataSize, n := binary.Uvarint(data)
	if n <= 0 {
		return corruptf(raw, len(raw)-len(data), "invalid entry: bad data size")
	}
	data = data[n:]

	if len(data) < 8 {
		return corruptf(raw, len(raw)-len(data), "invalid entry: missing fingerprint")
	}
	h.Fingerprint, data = binary.BigEndian.Uint64(data), data[8:]

	if uint64(len(data)) != dataSize {
		return corruptf(raw, len(raw)-len(data), "invalid entry: got %d bytes of data, expected %d bytes", len(data), dataSize)
	}
	h.Data = data
	return nil
}

func decodeEntry(raw []byte) (typetree.Tree, error) {
	var h entryHeader
	if err := h.decode(raw); err != nil {
		return typetree.Tree{}, err
	}
	off := len(raw) - len(h.Data)

	var nodes []typetree.Node
	if err := msgpack.Unmarshal(h.Data, &nodes); err != nil {
		return typetree.Tree{}, &typetree.DataError{Data: raw, Off: off, Err: err, Msg: "failed to decode msgpack node list"}
	}
	if len(nodes) != h.NodeCount {
		return typetree.Tree{}, corruptf(raw, off, "got %d nodes, expected %d", len(nodes), h.NodeCount)
	}
	t, err := typetree.NewTree(nodes)
	if err != nil {
		return typetree.Tree{}, err
	}
	if fp := t.Fingerprint(); fp != h.Fingerprint {
		return typetree.Tree{}, corruptf(raw, off, "fingerprint mismatch: stored %016x, computed %016x", h.Fingerprint, fp)
	}
	return t, nil
}
