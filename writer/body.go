package writer

import (
	"fmt"
	"io"

	"github.com/tagpdf/tagpdf/ir/raw"
	"github.com/tagpdf/tagpdf/structure"
)

// WriteIndirect writes one indirect object definition.
func WriteIndirect(w io.Writer, ref raw.ObjectRef, obj raw.Object) error {
	if _, err := fmt.Fprintf(w, "%d %d obj\n", ref.Num, ref.Gen); err != nil {
		return err
	}
	if _, err := w.Write(SerializeObject(obj)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\nendobj\n")
	return err
}

// WriteRecords writes the assembled structure records in order.
func WriteRecords(w io.Writer, records []structure.Record) error {
	for _, rec := range records {
		if err := WriteIndirect(w, rec.Ref, rec.Obj); err != nil {
			return err
		}
	}
	return nil
}
