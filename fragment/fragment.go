// Package fragment implements the parse unit used while converting a
// legislative text: a shrinking text buffer consumed from the front by header
// steps, the header fields extracted so far and sub-documents (quotations and
// tables) detached by the body parser.
package fragment

import (
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"lawparse/legis"
)

// Identified is implemented by every fragment kind.
type Identified interface {
	ShortID() string
}

// BodyParser consumes remaining fragment text populating target.
type BodyParser interface {
	ParseBody(f *Fragment, target legis.Container) error
}

// Fragment is one legislative document or sub-document being parsed.
type Fragment struct {
	cursor *Cursor
	fields Fields

	// Quotations and Tables hold raw spans detached by body parser.
	Quotations []string
	Tables     []string

	IsQuotation bool
	// PreviewLength bounds excerpt of text reported on header failures.
	PreviewLength int
}

// New returns fragment over text.
func New(text string) *Fragment {
	return &Fragment{cursor: NewCursor(text), PreviewLength: DefaultPreviewLength}
}

// ShortID of generic fragment carries no identity.
func (f *Fragment) ShortID() string {
	return "unidentified fragment"
}

// Text returns remaining unconsumed text.
func (f *Fragment) Text() string {
	return f.cursor.Remaining()
}

// Consumed returns number of bytes consumed by header extraction.
func (f *Fragment) Consumed() int {
	return f.cursor.Offset()
}

// Fields returns header fields extracted so far.
func (f *Fragment) Fields() *Fields {
	return &f.fields
}

// Peek reports whether pattern matches the front of remaining text.
func (f *Fragment) Peek(pattern *regexp.Regexp) bool {
	return f.cursor.Peek(pattern)
}

// Nibble extracts single header step. Mismatch is fatal for the document: it
// is logged with enough context to write a patch and returned as
// *NibbleError.
func (f *Fragment) Nibble(step Step, log *zap.Logger) error {
	err := f.cursor.Nibble(step, &f.fields, f.PreviewLength)
	if err != nil {
		var ne *NibbleError
		if errors.As(err, &ne) {
			log.Error("Header step failed",
				zap.String("code", ne.Code), zap.String("pattern", ne.Pattern), zap.String("text", ne.Preview))
		}
		return err
	}
	log.Debug("Header step", zap.String("code", step.Code), zap.Stringer("kind", step.Kind), zap.Strings("values", f.fields.Get(step.Code)))
	return nil
}

// Patch rewrites the text before header extraction starts.
func (f *Fragment) Patch(fn func(string) (string, error)) error {
	if f.cursor.Offset() > 0 {
		return ErrConsumed
	}
	text, err := fn(f.cursor.Remaining())
	if err != nil {
		return err
	}
	f.cursor = NewCursor(text)
	return nil
}

// Advance consumes n bytes of remaining text. Body parser uses it to hand over
// what it has processed.
func (f *Fragment) Advance(n int) {
	rest := len(f.cursor.Remaining())
	if n > rest {
		n = rest
	}
	if n > 0 {
		f.cursor.off += n
	}
}

// CaptureQuotation stores raw quotation span and returns its index.
func (f *Fragment) CaptureQuotation(raw string) int {
	f.Quotations = append(f.Quotations, raw)
	return len(f.Quotations) - 1
}

// CaptureTable stores raw table span and returns its index.
func (f *Fragment) CaptureTable(raw string) int {
	f.Tables = append(f.Tables, raw)
	return len(f.Tables) - 1
}

func (f *Fragment) quotation(n int) (string, error) {
	if n < 0 || n >= len(f.Quotations) {
		return "", fmt.Errorf("quotation %d out of range (%d captured)", n, len(f.Quotations))
	}
	return f.Quotations[n], nil
}
