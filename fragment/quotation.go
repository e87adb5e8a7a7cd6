package fragment

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"lawparse/legis"
)

// quoteMarkRe detects opening quote right after a tag, which is how quoted
// legislation starts in OPSI renderings.
var quoteMarkRe = regexp.MustCompile(`>["“]`)

// PromoteQuotation turns quotation captured at index n into its own fragment
// located at locus and parses it with parser. Text without quotation marks is
// not parsed: warning is logged and quotation is returned without body.
func (f *Fragment) PromoteQuotation(n int, locus legis.Locus, parser BodyParser, log *zap.Logger) (*legis.Quotation, error) {
	raw, err := f.quotation(n)
	if err != nil {
		return nil, err
	}

	q := NewQuotedAct(raw, locus)
	q.PreviewLength = f.PreviewLength

	quotation := legis.NewQuotation(true, locus)
	if !quoteMarkRe.MatchString(q.Text()) {
		log.Warn("Tried to parse as quotation without quotation marks", zap.String("locus", q.ShortID()))
		return quotation, nil
	}
	if err := parser.ParseBody(&q.Fragment, quotation); err != nil {
		return nil, fmt.Errorf("quotation at %s: %w", q.ShortID(), err)
	}
	quotation.Parsed = true
	return quotation, nil
}
