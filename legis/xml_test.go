package legis

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
)

func readXML(t *testing.T, data []byte) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		t.Fatalf("unable to read produced XML: %v\n%s", err, data)
	}
	return doc
}

func TestLocus(t *testing.T) {
	base := Locus{Document: "ukgpa1990c5"}
	if got := base.Text(); got != "ukgpa1990c5" {
		t.Errorf("Text() = %q", got)
	}

	p := base.Child("p3")
	q0 := p.Child("q0")
	q1 := p.Child("q1")
	if got := q0.Text(); got != "ukgpa1990c5/p3/q0" {
		t.Errorf("Text() = %q", got)
	}
	if got := q1.String(); got != "ukgpa1990c5/p3/q1" {
		t.Errorf("String() = %q", got)
	}
	if len(base.Path) != 0 || len(p.Path) != 1 {
		t.Errorf("Child() modified receiver: base=%v p=%v", base.Path, p.Path)
	}
}

func TestGUID(t *testing.T) {
	a := GUID("ukgpa1990c5")
	if a != GUID("ukgpa1990c5") {
		t.Error("GUID() is not stable")
	}
	if a == GUID("ukgpa1990c6") {
		t.Error("GUID() collides for different identifiers")
	}
	if a.Version() != 5 {
		t.Errorf("GUID() version = %d, want 5", a.Version())
	}
}

func sampleAct() *Act {
	act := NewAct("1990", 0, "5")
	act.ID = "ukgpa1990c5"
	act.SourceInfo = NewSourceInfo("http://x")
	act.SourceInfo.Values["year"] = "1990"
	act.SourceInfo.Values["chapter"] = "5"
	act.SourceInfo.Values["name"] = "Sample Act 1990"
	act.Preamble = &ActPreamble{LongTitle: "An Act to test.", Enactment: "BE IT ENACTED as follows:--"}

	act.AddParagraph(&Paragraph{Text: "1. Fish & chips."})
	act.AddTable(&Table{Index: 0, Raw: "<table><tr><td>1</td></tr></table>"})

	parsed := NewQuotation(true, Locus{Document: act.ID}.Child("p1").Child("q0"))
	parsed.Parsed = true
	parsed.AddParagraph(&Paragraph{Text: "\"(1) Quoted.\""})
	act.AddQuotation(parsed)
	act.AddQuotation(NewQuotation(true, Locus{Document: act.ID}.Child("p1").Child("q1")))
	return act
}

func TestAct_XML(t *testing.T) {
	act := sampleAct()
	data, err := act.XML(0)
	if err != nil {
		t.Fatalf("XML() error = %v", err)
	}
	doc := readXML(t, data)

	root := doc.Root()
	if root == nil || root.Tag != "act" {
		t.Fatalf("unexpected root %v", root)
	}
	for attr, want := range map[string]string{
		"id":      "ukgpa1990c5",
		"guid":    GUID("ukgpa1990c5").String(),
		"year":    "1990",
		"session": "0",
		"chapter": "5",
	} {
		if got := root.SelectAttrValue(attr, ""); got != want {
			t.Errorf("act@%s = %q, want %q", attr, got, want)
		}
	}

	si := root.SelectElement("sourceinfo")
	if si == nil {
		t.Fatal("sourceinfo is missing")
	}
	var keys []string
	for _, a := range si.Attr {
		keys = append(keys, a.Key)
	}
	if diff := cmp.Diff([]string{"source", "url", "chapter", "name", "year"}, keys); diff != "" {
		t.Errorf("sourceinfo attributes mismatch (-want +got):\n%s", diff)
	}

	pre := root.SelectElement("preamble")
	if pre == nil || pre.SelectAttrValue("type", "") != "ordinary" {
		t.Fatalf("unexpected preamble %v", pre)
	}
	if got := pre.SelectElement("longtitle").Text(); got != "An Act to test." {
		t.Errorf("longtitle = %q", got)
	}
	if got := pre.SelectElement("enactment").Text(); got != "BE IT ENACTED as follows:--" {
		t.Errorf("enactment = %q", got)
	}

	body := root.SelectElement("body")
	if body == nil {
		t.Fatal("body is missing")
	}
	if got := body.SelectElement("p").Text(); got != "1. Fish & chips." {
		t.Errorf("p = %q", got)
	}
	if got := body.SelectElement("table").Text(); got != "<table><tr><td>1</td></tr></table>" {
		t.Errorf("table = %q", got)
	}

	quotes := body.SelectElements("quotation")
	if len(quotes) != 2 {
		t.Fatalf("quotations = %d, want 2", len(quotes))
	}
	if got := quotes[0].SelectAttrValue("locus", ""); got != "ukgpa1990c5/p1/q0" {
		t.Errorf("quotation locus = %q", got)
	}
	if quotes[0].SelectElement("body") == nil {
		t.Error("parsed quotation must carry body")
	}
	if quotes[1].SelectAttrValue("parsed", "") != "false" || quotes[1].SelectElement("body") != nil {
		t.Error("degraded quotation must not carry body")
	}
}

func TestAct_XML_Stable(t *testing.T) {
	a, err := sampleAct().XML(2)
	if err != nil {
		t.Fatalf("XML() error = %v", err)
	}
	b, err := sampleAct().XML(2)
	if err != nil {
		t.Fatalf("XML() error = %v", err)
	}
	if string(a) != string(b) {
		t.Errorf("output differs between runs:\n%s\n---\n%s", a, b)
	}
	if !strings.HasPrefix(string(a), `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing XML declaration:\n%s", a)
	}
}

func TestAct_XML_Supply(t *testing.T) {
	act := NewAct("1990", 0, "4")
	act.ID = "ukgpa1990c4"
	act.SourceInfo = NewSourceInfo("")
	act.Preamble = &SupplyActPreamble{
		Apply:    []string{"An Act to apply a sum."},
		Date:     []string{"15th March 1990"},
		Petition: []string{"Most Gracious Sovereign, ", " and be it enacted"},
	}

	data, err := act.XML(0)
	if err != nil {
		t.Fatalf("XML() error = %v", err)
	}
	pre := readXML(t, data).Root().SelectElement("preamble")
	if pre.SelectAttrValue("type", "") != "supply" {
		t.Fatalf("preamble type = %q", pre.SelectAttrValue("type", ""))
	}
	if got := pre.SelectElement("petition").Text(); got != "Most Gracious Sovereign, and be it enacted" {
		t.Errorf("petition = %q", got)
	}
	if got := pre.SelectElement("date").Text(); got != "15th March 1990" {
		t.Errorf("date = %q", got)
	}
}

func TestAct_XML_TableRoundTrip(t *testing.T) {
	tests := []string{
		"<table><tr><td>a]]>b</td></tr></table>",
		"]]>]]>",
		"<td>x]]]]>y</td>",
		"",
	}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			act := NewAct("1990", 0, "5")
			act.ID = "ukgpa1990c5"
			act.Preamble = &ActPreamble{LongTitle: "An Act to test."}
			act.AddTable(&Table{Index: 0, Raw: raw})

			for _, indent := range []int{0, 2} {
				data, err := act.XML(indent)
				if err != nil {
					t.Fatalf("XML() error = %v", err)
				}
				table := readXML(t, data).Root().SelectElement("body").SelectElement("table")
				if table == nil {
					t.Fatalf("table is missing:\n%s", data)
				}
				if got := table.Text(); got != raw {
					t.Errorf("indent %d: table = %q, want %q", indent, got, raw)
				}
			}
		})
	}
}

func TestAct_XML_NoPreamble(t *testing.T) {
	act := NewAct("1990", 0, "4")
	act.ID = "ukgpa1990c4"
	if _, err := act.XML(0); err == nil {
		t.Fatal("expected error for act without preamble")
	}
}

func TestStatutoryInstrument_XML(t *testing.T) {
	si := NewStatutoryInstrument("1991", "234")
	si.ID = "uksi1991no234"
	si.Title = "The Sample Regulations 1991"
	si.SourceInfo = NewSourceInfo("http://z")
	si.AddParagraph(&Paragraph{Text: "1. Citation."})

	data, err := si.XML(0)
	if err != nil {
		t.Fatalf("XML() error = %v", err)
	}
	root := readXML(t, data).Root()
	if root.Tag != "si" || root.SelectAttrValue("number", "") != "234" {
		t.Errorf("unexpected root %s number=%q", root.Tag, root.SelectAttrValue("number", ""))
	}
	if got := root.SelectElement("title").Text(); got != si.Title {
		t.Errorf("title = %q", got)
	}
	if got := root.SelectElement("sourceinfo").SelectAttrValue("url", ""); got != "http://z" {
		t.Errorf("sourceinfo@url = %q", got)
	}
}

func TestString(t *testing.T) {
	out := sampleAct().String()
	for _, want := range []string{
		`Act id="ukgpa1990c5"`,
		"Preamble ordinary",
		`Quotation locus="ukgpa1990c5/p1/q0" parsed=true`,
		`Quotation locus="ukgpa1990c5/p1/q1" parsed=false`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
	var nilAct *Act
	if got := nilAct.String(); got != "<nil Act>" {
		t.Errorf("nil String() = %q", got)
	}
}
