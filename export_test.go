package typetree

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"
)

func exportSample() *Record {
	return rec(
		"x", Int32(7),
		"arr", List(Int32(3), Int32(5)),
		"name", String("hi"),
		"blob", Bytes([]byte{1, 2}),
		"f", Float32(1.5),
		"m", Pairs(Pair{String("k"), String("v")}),
		"sub", RecordValue(rec("ok", Bool(true), "big", Uint64(1<<40))),
	)
}

func TestExport_MsgPack(t *testing.T) {
	out, err := MsgPack.Export(nil, exportSample())
	if err != nil {
		t.Fatal(err)
	}

	// fixmap of 7 entries, first key is "x"
	bytesEqual(t, out[:3], x("87 a178"))

	type sub struct {
		OK  bool   `msgpack:"ok"`
		Big uint64 `msgpack:"big"`
	}
	var got struct {
		X    int32      `msgpack:"x"`
		Arr  []int32    `msgpack:"arr"`
		Name string     `msgpack:"name"`
		Blob []byte     `msgpack:"blob"`
		F    float32    `msgpack:"f"`
		M    [][]string `msgpack:"m"`
		Sub  sub        `msgpack:"sub"`
	}
	if err := msgpack.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, got.X, int32(7))
	deepEqual(t, got.Arr, []int32{3, 5})
	deepEqual(t, got.Name, "hi")
	deepEqual(t, got.Blob, []byte{1, 2})
	deepEqual(t, got.F, float32(1.5))
	deepEqual(t, got.M, [][]string{{"k", "v"}})
	deepEqual(t, got.Sub, sub{OK: true, Big: 1 << 40})
}

func TestExport_MsgPackAppends(t *testing.T) {
	out := must(MsgPack.Export([]byte("pfx"), rec("a", Uint8(1))))
	bytesEqual(t, out, x("706678 81 a161 cc01"))
}

func TestExport_MsgPackMarshal(t *testing.T) {
	direct := must(msgpack.Marshal(exportSample()))
	exported := must(MsgPack.Export(nil, exportSample()))
	bytesEqual(t, direct, exported)
}

func TestExport_JSON(t *testing.T) {
	out, err := JSON.Export(nil, exportSample())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"x":7,"arr":[3,5],"name":"hi","blob":"AQI=","f":1.5,"m":[["k","v"]],"sub":{"ok":true,"big":1099511627776}}`
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Errorf("JSON export mismatch (-want +got):\n%s", diff)
	}

	direct := must(json.Marshal(exportSample()))
	deepEqual(t, string(direct), want)

	// the output is plain JSON
	var generic map[string]any
	if err := json.Unmarshal(out, &generic); err != nil {
		t.Fatal(err)
	}
	deepEqual(t, generic["name"], any("hi"))
}

func TestExport_DecodedRecord(t *testing.T) {
	r := must(Decode(nestedTree, x("09000000 01000000 0000c03f 000000c0 05")))
	out := must(JSON.Export(nil, r))
	want := `{"outer":{"inner":{"id":9,"points":[{"x":1.5,"y":-2}]}},"tail":5}`
	deepEqual(t, string(out), want)
}

func TestExport_NonFiniteFloats(t *testing.T) {
	tree := MustParseTree("float a\nfloat b\ndouble c\ndouble d\n")
	r := must(Decode(tree, x("0000c07f 0000807f 000000000000f0ff 000000000000f83f")))
	out, err := JSON.Export(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	deepEqual(t, string(out), `{"a":"NaN","b":"Infinity","c":"-Infinity","d":1.5}`)
	if !json.Valid(out) {
		t.Errorf("Export produced invalid JSON: %s", out)
	}

	// MsgPack carries non-finite floats natively
	must(MsgPack.Export(nil, r))
}

func TestExportFormat_String(t *testing.T) {
	deepEqual(t, MsgPack.String(), "msgpack")
	deepEqual(t, JSON.String(), "json")
	deepEqual(t, ExportFormat(9).String(), "ExportFormat(9)")
}
