// Package writer serializes raw PDF objects to their byte form. It covers
// exactly what the structure assembler's output needs; whole-file concerns
// (xref tables, trailers, compression) live with the caller.
package writer

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/tagpdf/tagpdf/ir/raw"
)

// SerializeObject renders a raw object. Dictionary keys are emitted in
// sorted order so output is reproducible.
func SerializeObject(obj raw.Object) []byte {
	switch v := obj.(type) {
	case raw.NameObj:
		return []byte("/" + v.Value())
	case raw.NumberObj:
		if v.IsInteger() {
			return []byte(fmt.Sprintf("%d", v.Int()))
		}
		return []byte(fmt.Sprintf("%g", v.Float()))
	case raw.BoolObj:
		if v.Value() {
			return []byte("true")
		}
		return []byte("false")
	case raw.NullObj:
		return []byte("null")
	case raw.StringObj:
		return EscapeString(v.Value())
	case raw.RefObj:
		return []byte(v.Ref().String())
	case *raw.ArrayObj:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.Write(SerializeObject(it))
		}
		buf.WriteByte(']')
		return buf.Bytes()
	case *raw.DictObj:
		var buf bytes.Buffer
		buf.WriteString("<<")
		keys := make([]string, 0, len(v.KV))
		for k := range v.KV {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			buf.WriteString("/" + k + " ")
			buf.Write(SerializeObject(v.KV[k]))
		}
		buf.WriteString(">>")
		return buf.Bytes()
	default:
		return []byte("null")
	}
}

// EscapeString renders a literal string with PDF escaping.
func EscapeString(rawBytes []byte) []byte {
	var b bytes.Buffer
	b.WriteByte('(')
	for _, ch := range rawBytes {
		switch ch {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(ch)
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		case '\b':
			b.WriteString("\\b")
		case '\f':
			b.WriteString("\\f")
		default:
			if ch < 0x20 || ch >= 0x80 {
				fmt.Fprintf(&b, "\\%03o", ch)
			} else {
				b.WriteByte(ch)
			}
		}
	}
	b.WriteByte(')')
	return b.Bytes()
}
