package fragment

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"lawparse/legis"
)

var (
	actLocatorRe = regexp.MustCompile(`(\d{4})c(\d+)\.html$`)
	siLocatorRe  = regexp.MustCompile(`(\d{4})no(\d+)\.html$`)
	pageURLRe    = regexp.MustCompile(`^<pageurl page="0" url="([^"]*?)"/>`)
)

// Act is a fragment holding a public general Act.
type Act struct {
	Fragment
	Year      string
	Chapter   string
	SourceURL string
}

// NewAct creates Act fragment. Year and chapter come from locator, for
// example "ukgpa1990c5.html", source URL from the page marker which must open
// the text.
func NewAct(locator, text string, log *zap.Logger) (*Act, error) {
	m := actLocatorRe.FindStringSubmatch(locator)
	if m == nil {
		return nil, &ConstructionError{Locator: locator, Pattern: actLocatorRe.String()}
	}
	act := &Act{Fragment: *New(text), Year: m[1], Chapter: m[2]}
	if u := pageURLRe.FindStringSubmatch(text); u != nil {
		act.SourceURL = u[1]
	} else {
		log.Warn("Cannot see page URL at the beginning of act", zap.String("locator", locator))
	}
	return act, nil
}

func (a *Act) ShortID() string {
	return fmt.Sprintf("ukgpa%sc%s", a.Year, a.Chapter)
}

// Patch rewrites text and takes source URL from the page marker of the new
// text, so repaired marker is not lost.
func (a *Act) Patch(fn func(string) (string, error)) error {
	if err := a.Fragment.Patch(fn); err != nil {
		return err
	}
	a.SourceURL = pageURL(a.Text())
	return nil
}

// QuotedAct is legislative material quoted inside another document. It is
// never loaded from a file.
type QuotedAct struct {
	Act
	Locus legis.Locus
}

// NewQuotedAct creates fragment for quoted text found at locus.
func NewQuotedAct(text string, locus legis.Locus) *QuotedAct {
	q := &QuotedAct{Act: Act{Fragment: *New(text)}, Locus: locus}
	q.IsQuotation = true
	return q
}

// ShortID of quoted material is its position in the enclosing document.
func (q *QuotedAct) ShortID() string {
	return q.Locus.Text()
}

// SI is a fragment holding a Statutory Instrument.
type SI struct {
	Fragment
	Year      string
	Number    string
	SourceURL string
}

// NewSI creates SI fragment, locator is expected to look like
// "uksi1991no234.html".
func NewSI(locator, text string, log *zap.Logger) (*SI, error) {
	m := siLocatorRe.FindStringSubmatch(locator)
	if m == nil {
		return nil, &ConstructionError{Locator: locator, Pattern: siLocatorRe.String()}
	}
	si := &SI{Fragment: *New(text), Year: m[1], Number: m[2]}
	if u := pageURLRe.FindStringSubmatch(text); u != nil {
		si.SourceURL = u[1]
	} else {
		log.Debug("No page URL at the beginning of statutory instrument", zap.String("locator", locator))
	}
	return si, nil
}

func (s *SI) ShortID() string {
	return fmt.Sprintf("uksi%sno%s", s.Year, s.Number)
}

func (s *SI) Patch(fn func(string) (string, error)) error {
	if err := s.Fragment.Patch(fn); err != nil {
		return err
	}
	s.SourceURL = pageURL(s.Text())
	return nil
}

// pageURL returns URL from the page marker opening text or empty string.
func pageURL(text string) string {
	if u := pageURLRe.FindStringSubmatch(text); u != nil {
		return u[1]
	}
	return ""
}
