// Package body is the default body parser. It detaches tables and quoted
// material from the text left after header extraction, turns the rest into
// plain paragraphs and promotes quotations into parsed sub-documents.
package body

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"lawparse/fragment"
	"lawparse/legis"
)

var (
	openRe  = regexp.MustCompile(`(?i)<(table|blockquote)\b[^>]*>`)
	closeRe = map[string]*regexp.Regexp{
		"table":      regexp.MustCompile(`(?i)<(/?)table\b[^>]*>`),
		"blockquote": regexp.MustCompile(`(?i)<(/?)blockquote\b[^>]*>`),
	}
)

// ParseError reports body structure parser could not follow. It is fatal for
// the document.
type ParseError struct {
	Locus  string
	Tag    string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unclosed <%s> at offset %d", e.Locus, e.Tag, e.Offset)
}

// Parser implements fragment.BodyParser.
type Parser struct {
	log *zap.Logger
}

// New returns body parser.
func New(log *zap.Logger) *Parser {
	return &Parser{log: log.Named("body")}
}

// ParseBody consumes all remaining fragment text populating target.
func (p *Parser) ParseBody(f *fragment.Fragment, target legis.Container) error {
	base := locusOf(target)
	text := f.Text()
	paragraphs := 0

	emit := func(chunk string) {
		for _, para := range splitParagraphs(chunk) {
			target.AddParagraph(&legis.Paragraph{Text: para})
			paragraphs++
		}
	}

	pos := 0
	for {
		loc := openRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, contentStart := pos+loc[0], pos+loc[1]
		tag := strings.ToLower(text[pos+loc[2] : pos+loc[3]])

		emit(text[pos:start])

		contentEnd, end, ok := findClose(text, tag, contentStart)
		if !ok {
			return &ParseError{Locus: base.Text(), Tag: tag, Offset: f.Consumed() + start}
		}

		switch tag {
		case "table":
			raw := text[start:end]
			idx := f.CaptureTable(raw)
			target.AddTable(&legis.Table{Index: idx, Raw: raw})
		case "blockquote":
			idx := f.CaptureQuotation(text[contentStart:contentEnd])
			locus := base.Child(fmt.Sprintf("p%d", paragraphs)).Child(fmt.Sprintf("q%d", idx))
			q, err := f.PromoteQuotation(idx, locus, p, p.log)
			if err != nil {
				return err
			}
			target.AddQuotation(q)
		}
		pos = end
	}
	emit(text[pos:])

	f.Advance(len(text))
	p.log.Debug("Body parsed", zap.String("locus", base.Text()),
		zap.Int("paragraphs", paragraphs), zap.Int("tables", len(f.Tables)), zap.Int("quotations", len(f.Quotations)))
	return nil
}

func locusOf(target legis.Container) legis.Locus {
	switch t := target.(type) {
	case *legis.Act:
		return legis.Locus{Document: t.ID}
	case *legis.StatutoryInstrument:
		return legis.Locus{Document: t.ID}
	case *legis.Quotation:
		return t.Locus
	default:
		return legis.Locus{Document: "unknown"}
	}
}

// findClose returns offsets of matching closing tag for element whose content
// starts at from, taking nesting into account.
func findClose(text, tag string, from int) (contentEnd, end int, ok bool) {
	depth := 1
	for _, m := range closeRe[tag].FindAllStringSubmatchIndex(text[from:], -1) {
		if m[3] > m[2] {
			depth--
		} else {
			depth++
		}
		if depth == 0 {
			return from + m[0], from + m[1], true
		}
	}
	return 0, 0, false
}

// block level elements which start a new paragraph
var breaking = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// splitParagraphs extracts text of markup chunk breaking it into paragraphs
// at block level elements. Character references are decoded and whitespace
// collapsed.
func splitParagraphs(chunk string) []string {
	var (
		out []string
		buf strings.Builder
	)
	flush := func() {
		if s := strings.Join(strings.Fields(buf.String()), " "); len(s) > 0 {
			out = append(out, s)
		}
		buf.Reset()
	}

	z := html.NewTokenizer(strings.NewReader(chunk))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				// tokenizer gives up on garbage, keep what we have
				buf.WriteString(string(z.Raw()))
			}
			flush()
			return out
		case html.TextToken:
			buf.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if breaking[string(name)] {
				flush()
			}
		}
	}
}
