// Package legis defines the normalized legislative document model produced by
// the parser and its XML rendering.
package legis

import (
	"strings"
)

// Locus points at the place inside an enclosing document where a quotation
// occurs. Path elements are rendered in order, separated by slashes.
type Locus struct {
	Document string
	Path     []string
}

// Child returns a new locus one level deeper. The receiver is not modified.
func (l Locus) Child(elem string) Locus {
	path := make([]string, 0, len(l.Path)+1)
	path = append(path, l.Path...)
	return Locus{Document: l.Document, Path: append(path, elem)}
}

// Text renders locus as "document/elem/elem".
func (l Locus) Text() string {
	if len(l.Path) == 0 {
		return l.Document
	}
	return l.Document + "/" + strings.Join(l.Path, "/")
}

func (l Locus) String() string {
	return l.Text()
}

// SourceInfo records provenance of a parsed document.
type SourceInfo struct {
	Source string
	URL    string
	// Values holds auxiliary header values copied verbatim, keyed by header
	// field code.
	Values map[string]string
}

// NewSourceInfo returns provenance record for documents coming from OPSI.
func NewSourceInfo(url string) *SourceInfo {
	return &SourceInfo{Source: "opsi", URL: url, Values: make(map[string]string)}
}

// Paragraph is a single block of running text.
type Paragraph struct {
	Text string
}

// Table is kept as captured raw markup, it is opaque to the parser.
type Table struct {
	Index int
	Raw   string
}

// BodyItem is one of *Paragraph, *Table or *Quotation.
type BodyItem interface {
	bodyItem()
}

func (*Paragraph) bodyItem() {}
func (*Table) bodyItem()     {}
func (*Quotation) bodyItem() {}

// Body is an ordered sequence of body items. Documents and quotations embed it
// and so satisfy Container.
type Body struct {
	Items []BodyItem
}

func (b *Body) AddParagraph(p *Paragraph) { b.Items = append(b.Items, p) }
func (b *Body) AddTable(t *Table)         { b.Items = append(b.Items, t) }
func (b *Body) AddQuotation(q *Quotation) { b.Items = append(b.Items, q) }

// Container is anything body parser can populate.
type Container interface {
	AddParagraph(*Paragraph)
	AddTable(*Table)
	AddQuotation(*Quotation)
}

// Quotation is quoted legislative material embedded in another document.
type Quotation struct {
	Body
	// Quoted is set when material is a quotation of other legislation.
	Quoted bool
	Locus  Locus
	// Parsed is false for degraded quotations whose body was never parsed.
	Parsed bool
}

// NewQuotation returns empty quotation located at locus.
func NewQuotation(quoted bool, locus Locus) *Quotation {
	return &Quotation{Quoted: quoted, Locus: locus}
}

// Act is a public general Act of Parliament.
type Act struct {
	Body
	ID         string
	Year       string
	Session    int
	Chapter    string
	Preamble   Preamble
	SourceInfo *SourceInfo
}

// NewAct returns an Act for year and chapter. Identifier is set by caller.
func NewAct(year string, session int, chapter string) *Act {
	return &Act{Year: year, Session: session, Chapter: chapter}
}

// StatutoryInstrument is a UK Statutory Instrument.
type StatutoryInstrument struct {
	Body
	ID         string
	Year       string
	Number     string
	Title      string
	SourceInfo *SourceInfo
}

// NewStatutoryInstrument returns an SI for year and number.
func NewStatutoryInstrument(year, number string) *StatutoryInstrument {
	return &StatutoryInstrument{Year: year, Number: number}
}

// Document is a top level legislative object which can be written out.
type Document interface {
	Container
	Identifier() string
	XML(indent int) ([]byte, error)
}

func (a *Act) Identifier() string                 { return a.ID }
func (s *StatutoryInstrument) Identifier() string { return s.ID }
