package legis

import (
	"slices"

	"lawparse/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns a readable tree of the parsed Act. It exists solely for
// manual inspection during debugging.
func (a *Act) String() string {
	if a == nil {
		return "<nil Act>"
	}
	tw := treeWriter{debug.NewTreeWriter()}
	tw.Line(0, "Act id=%q year=%q chapter=%q", a.ID, a.Year, a.Chapter)
	tw.sourceInfo(1, a.SourceInfo)
	switch p := a.Preamble.(type) {
	case *ActPreamble:
		tw.Line(1, "Preamble ordinary")
		tw.TextBlock(2, "LongTitle", p.LongTitle)
		tw.TextBlock(2, "Enactment", p.Enactment)
	case *SupplyActPreamble:
		tw.Line(1, "Preamble supply")
		tw.Values(2, "Apply", p.Apply)
		tw.Values(2, "Date", p.Date)
		tw.Values(2, "Petition", p.Petition)
	}
	tw.body(1, &a.Body)
	return tw.String()
}

// String returns a readable tree of the parsed SI.
func (s *StatutoryInstrument) String() string {
	if s == nil {
		return "<nil StatutoryInstrument>"
	}
	tw := treeWriter{debug.NewTreeWriter()}
	tw.Line(0, "SI id=%q year=%q number=%q", s.ID, s.Year, s.Number)
	tw.TextBlock(1, "Title", s.Title)
	tw.sourceInfo(1, s.SourceInfo)
	tw.body(1, &s.Body)
	return tw.String()
}

func (tw treeWriter) sourceInfo(depth int, si *SourceInfo) {
	if si == nil {
		return
	}
	tw.Line(depth, "SourceInfo source=%q url=%q", si.Source, si.URL)
	keys := make([]string, 0, len(si.Values))
	for k := range si.Values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		tw.TextBlock(depth+1, k, si.Values[k])
	}
}

func (tw treeWriter) body(depth int, b *Body) {
	tw.Line(depth, "Body items=%d", len(b.Items))
	for i, item := range b.Items {
		switch it := item.(type) {
		case *Paragraph:
			tw.TextBlock(depth+1, "P", it.Text)
		case *Table:
			tw.Line(depth+1, "Table[%d] index=%d bytes=%d", i, it.Index, len(it.Raw))
		case *Quotation:
			tw.Line(depth+1, "Quotation locus=%q parsed=%t", it.Locus.Text(), it.Parsed)
			if it.Parsed {
				tw.body(depth+2, &it.Body)
			}
		}
	}
}
