package typetree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStreamExhausted = errors.New("stream exhausted")
	ErrSchemaMismatch  = errors.New("value does not match schema")
	ErrMalformedSchema = errors.New("malformed schema")
	ErrInvalidLength   = errors.New("invalid length")
)

// DataError reports a problem with the raw bytes being decoded.
type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s at %d: %v: (%d) %x", e.Msg, e.Off, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("%s at %d: (%d) %x", e.Msg, e.Off, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("%s at %d: %v: (%d) %x...%x", e.Msg, e.Off, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("%s at %d: (%d) %x...%x", e.Msg, e.Off, n, p, s)
		}
	}
}

// FieldError locates a decode, encode or schema failure. Off is the stream
// offset at which the field started, or -1 when no stream is involved.
type FieldError struct {
	Path  string
	Type  string
	Depth int
	Off   int
	Msg   string
	Err   error
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func (e *FieldError) Error() string {
	var buf strings.Builder
	if e.Path != "" {
		buf.WriteString(e.Path)
	} else {
		buf.WriteString("<root>")
	}
	buf.WriteString(" (")
	buf.WriteString(e.Type)
	fmt.Fprintf(&buf, ", depth %d", e.Depth)
	if e.Off >= 0 {
		fmt.Fprintf(&buf, ", offset %d", e.Off)
	}
	buf.WriteByte(')')
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

// fieldErrf attributes err to the field n. Errors already attributed to a
// nested field are passed through unchanged.
func fieldErrf(path fieldPath, n Node, off int, err error, format string, args ...any) error {
	if fe, ok := err.(*FieldError); ok {
		return fe
	}
	var msg string
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &FieldError{
		Path:  path.String(),
		Type:  n.Type,
		Depth: n.Depth,
		Off:   off,
		Msg:   msg,
		Err:   err,
	}
}

func schemaErrf(pos int, n Node, format string, args ...any) error {
	return &FieldError{
		Path:  n.Name,
		Type:  n.Type,
		Depth: n.Depth,
		Off:   -1,
		Msg:   fmt.Sprintf("node #%d: ", pos) + fmt.Sprintf(format, args...),
		Err:   ErrMalformedSchema,
	}
}

// fieldPath is the stack of field names and element indices leading to
// the field being processed.
type fieldPath []string

func (p *fieldPath) push(seg string) {
	*p = append(*p, seg)
}

func (p *fieldPath) pop() {
	*p = (*p)[:len(*p)-1]
}

func (p fieldPath) String() string {
	var buf strings.Builder
	for i, seg := range p {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			buf.WriteByte('.')
		}
		buf.WriteString(seg)
	}
	return buf.String()
}

func indexSeg(j int) string {
	return fmt.Sprintf("[%d]", j)
}
