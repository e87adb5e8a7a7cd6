package legis

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// guidNamespace scopes name based document GUIDs so the same identifier always
// produces the same GUID.
var guidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:lawparse:legislation"))

// GUID returns stable name based UUID for document identifier.
func GUID(id string) uuid.UUID {
	return uuid.NewSHA1(guidNamespace, []byte(id))
}

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	return doc
}

func writeDocument(doc *etree.Document, indent int) ([]byte, error) {
	if indent > 0 {
		doc.Indent(indent)
	}
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("unable to serialize document: %w", err)
	}
	return data, nil
}

// XML renders Act as XML document.
func (a *Act) XML(indent int) ([]byte, error) {
	if a.Preamble == nil {
		return nil, fmt.Errorf("act %s has no preamble", a.ID)
	}
	doc := newDocument()
	root := doc.CreateElement("act")
	root.CreateAttr("id", a.ID)
	root.CreateAttr("guid", GUID(a.ID).String())
	root.CreateAttr("year", a.Year)
	root.CreateAttr("session", strconv.Itoa(a.Session))
	root.CreateAttr("chapter", a.Chapter)

	a.SourceInfo.element(root)

	pre := root.CreateElement("preamble")
	switch p := a.Preamble.(type) {
	case *ActPreamble:
		pre.CreateAttr("type", "ordinary")
		pre.CreateElement("longtitle").SetText(p.LongTitle)
		if len(p.Enactment) > 0 {
			pre.CreateElement("enactment").SetText(p.Enactment)
		}
	case *SupplyActPreamble:
		pre.CreateAttr("type", "supply")
		pre.CreateElement("apply").SetText(joinValues(p.Apply))
		pre.CreateElement("date").SetText(joinValues(p.Date))
		pre.CreateElement("petition").SetText(joinValues(p.Petition))
	}

	a.Body.element(root)
	return writeDocument(doc, indent)
}

// XML renders Statutory Instrument as XML document.
func (s *StatutoryInstrument) XML(indent int) ([]byte, error) {
	doc := newDocument()
	root := doc.CreateElement("si")
	root.CreateAttr("id", s.ID)
	root.CreateAttr("guid", GUID(s.ID).String())
	root.CreateAttr("year", s.Year)
	root.CreateAttr("number", s.Number)

	s.SourceInfo.element(root)
	if len(s.Title) > 0 {
		root.CreateElement("title").SetText(s.Title)
	}

	s.Body.element(root)
	return writeDocument(doc, indent)
}

// Keys are written sorted, so output does not depend on map iteration order.
func (si *SourceInfo) element(parent *etree.Element) {
	if si == nil {
		return
	}
	el := parent.CreateElement("sourceinfo")
	el.CreateAttr("source", si.Source)
	el.CreateAttr("url", si.URL)
	keys := make([]string, 0, len(si.Values))
	for k := range si.Values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		el.CreateAttr(k, si.Values[k])
	}
}

func (b *Body) element(parent *etree.Element) {
	el := parent.CreateElement("body")
	for _, item := range b.Items {
		switch it := item.(type) {
		case *Paragraph:
			el.CreateElement("p").SetText(it.Text)
		case *Table:
			t := el.CreateElement("table")
			t.CreateAttr("index", strconv.Itoa(it.Index))
			writeCData(t, it.Raw)
		case *Quotation:
			it.element(el)
		}
	}
}

// writeCData stores text as CDATA sections split at "]]>", which cannot
// appear inside a single section.
func writeCData(el *etree.Element, text string) {
	for {
		i := strings.Index(text, "]]>")
		if i < 0 {
			el.CreateCData(text)
			return
		}
		el.CreateCData(text[:i+2])
		text = text[i+2:]
	}
}

func (q *Quotation) element(parent *etree.Element) {
	el := parent.CreateElement("quotation")
	el.CreateAttr("quoted", strconv.FormatBool(q.Quoted))
	el.CreateAttr("locus", q.Locus.Text())
	el.CreateAttr("parsed", strconv.FormatBool(q.Parsed))
	if q.Parsed {
		q.Body.element(el)
	}
}

func joinValues(values []string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); len(v) > 0 {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
