package typetree

import (
	"encoding/hex"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func init() {
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func bytesEqual(t testing.TB, a, e []byte) {
	if hex.EncodeToString(a) != hex.EncodeToString(e) {
		t.Helper()
		t.Errorf("** got %x, wanted %x", a, e)
	}
}

func recordEqual(t testing.TB, a, e *Record) {
	if !cmp.Equal(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func x(data string) []byte {
	data = strings.ReplaceAll(data, " ", "")
	return must(hex.DecodeString(data))
}

// rec builds a record from alternating names and values.
func rec(fields ...any) *Record {
	r := NewRecord(len(fields) / 2)
	for i := 0; i < len(fields); i += 2 {
		r.Set(fields[i].(string), fields[i+1].(Value))
	}
	return r
}

func lines(ls ...string) string {
	var buf strings.Builder
	for _, l := range ls {
		buf.WriteString(l)
		buf.WriteString("\r\n")
	}
	return buf.String()
}
