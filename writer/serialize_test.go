package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tagpdf/tagpdf/ir/raw"
	"github.com/tagpdf/tagpdf/structure"
)

func TestSerializeObject(t *testing.T) {
	tests := []struct {
		name string
		obj  raw.Object
		want string
	}{
		{"name", raw.NameLiteral("StructElem"), "/StructElem"},
		{"int", raw.NumberInt(42), "42"},
		{"float", raw.NumberFloat(1.5), "1.5"},
		{"bool true", raw.Bool(true), "true"},
		{"bool false", raw.Bool(false), "false"},
		{"null", raw.NullObj{}, "null"},
		{"string", raw.Str([]byte("hi")), "(hi)"},
		{"ref", raw.Ref(7, 0), "7 0 R"},
		{"array", raw.NewArray(raw.NumberInt(1), raw.NullObj{}, raw.Ref(3, 0)), "[1 null 3 0 R]"},
	}
	for _, tc := range tests {
		if got := string(SerializeObject(tc.obj)); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSerializeDictSortedKeys(t *testing.T) {
	d := raw.Dict()
	d.Set(raw.NameLiteral("Type"), raw.NameLiteral("StructElem"))
	d.Set(raw.NameLiteral("S"), raw.NameLiteral("P"))
	d.Set(raw.NameLiteral("K"), raw.NewArray(raw.NumberInt(0)))

	got := string(SerializeObject(d))
	want := "<</K [0]/S /P/Type /StructElem>>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	// reproducible across calls
	if again := string(SerializeObject(d)); again != got {
		t.Errorf("second call differs: %q", again)
	}
}

func TestEscapeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "(plain)"},
		{"a(b)c", `(a\(b\)c)`},
		{`back\slash`, `(back\\slash)`},
		{"line\nbreak", `(line\nbreak)`},
		{"tab\there", `(tab\there)`},
		{"bell\x07", `(bell\007)`},
		{"high\xe9", `(high\351)`},
	}
	for _, tc := range tests {
		if got := string(EscapeString([]byte(tc.in))); got != tc.want {
			t.Errorf("EscapeString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWriteIndirect(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIndirect(&buf, raw.ObjectRef{Num: 12}, raw.NameLiteral("X")); err != nil {
		t.Fatal(err)
	}
	want := "12 0 obj\n/X\nendobj\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteRecords(t *testing.T) {
	records := []structure.Record{
		{Ref: raw.ObjectRef{Num: 1}, Obj: raw.NumberInt(1)},
		{Ref: raw.ObjectRef{Num: 2}, Obj: raw.NumberInt(2)},
	}
	var buf bytes.Buffer
	if err := WriteRecords(&buf, records); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "1 0 obj\n") {
		t.Errorf("first object not written first: %q", out)
	}
	if !strings.Contains(out, "2 0 obj\n2\nendobj\n") {
		t.Errorf("second object missing: %q", out)
	}
}
