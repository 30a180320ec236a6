package typetree

import (
	"fmt"
	"strings"
)

const dumpEOL = "\r\n"

// dumper writes the text trace of a decode. A nil dumper writes nothing.
type dumper struct {
	w *strings.Builder
}

func (d *dumper) linef(depth int, format string, args ...any) {
	if d == nil {
		return
	}
	for range depth {
		d.w.WriteByte('\t')
	}
	fmt.Fprintf(d.w, format, args...)
	d.w.WriteString(dumpEOL)
}

func (d *dumper) header(n Node) {
	d.linef(n.Depth, "%s %s", n.Type, n.Name)
}

func (d *dumper) leaf(n Node, v Value) {
	if d == nil {
		return
	}
	d.linef(n.Depth, "%s %s = %s", n.Type, n.Name, v.String())
}

func (d *dumper) text(n Node, s string) {
	d.linef(n.Depth, "%s %s = \"%s\"", n.Type, n.Name, s)
}

func (d *dumper) arrayHeader(n Node, count int) {
	d.linef(n.Depth+1, "Array Array")
	d.linef(n.Depth+1, "int size = %d", count)
}

func (d *dumper) size(depth, size int) {
	d.linef(depth, "int size = %d", size)
}

func (d *dumper) element(n Node, j int) {
	d.linef(n.Depth+2, "[%d]", j)
}

func (d *dumper) pair(n Node) {
	d.linef(n.Depth+2, "pair data")
}
