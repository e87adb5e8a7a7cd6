package fragment

import (
	"lawparse/utils/debug"
)

// Dump returns a readable tree of fragment state: extracted header fields,
// detached sub-documents and the size of text left. Used for debug reports.
func Dump(id Identified, f *Fragment) string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Fragment id=%q quotation=%t consumed=%d remaining=%d", id.ShortID(), f.IsQuotation, f.Consumed(), len(f.Text()))
	for _, code := range f.fields.Codes() {
		tw.Values(1, code, f.fields.Get(code))
	}
	for i, q := range f.Quotations {
		tw.Line(1, "Quotation[%d] bytes=%d", i, len(q))
	}
	for i, t := range f.Tables {
		tw.Line(1, "Table[%d] bytes=%d", i, len(t))
	}
	return tw.String()
}
