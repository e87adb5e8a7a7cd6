package header

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"lawparse/fragment"
	"lawparse/legis"
)

// ErrNoDialect is returned when header fields fit neither ordinary nor supply
// Act layout.
var ErrNoDialect = errors.New("header matches neither ordinary nor supply act layout")

// markupRe matches bold and font markup, it is removed from enacting words.
var markupRe = regexp.MustCompile(`(?i)(<B>|</B>|<FONT[^>]*>|</FONT>)`)

// sourceInfoKeys lists Act header fields copied into source information.
var sourceInfoKeys = []string{"name", "year", "chapter", "prodid", "name2", "name3", "chapt2"}

// siSourceInfoKeys lists SI header fields copied into source information.
var siSourceInfoKeys = []string{"name", "sititle", "sinumber", "subject", "preisbn", "made"}

// Dialect is the resolved header layout of an Act: either Ordinary or Supply.
type Dialect interface {
	Preamble() legis.Preamble
}

// Ordinary Act header: long title and enacting formula.
type Ordinary struct {
	LongTitle string
	Enactment string
}

// Supply Act header: application clause, date and the Commons' petition.
type Supply struct {
	Apply    []string
	Date     []string
	Petition []string
}

func (o Ordinary) Preamble() legis.Preamble {
	return &legis.ActPreamble{LongTitle: o.LongTitle, Enactment: o.Enactment}
}

func (s Supply) Preamble() legis.Preamble {
	return &legis.SupplyActPreamble{Apply: s.Apply, Date: s.Date, Petition: s.Petition}
}

// StripMarkup removes bold and font tags leaving their content.
func StripMarkup(s string) string {
	return markupRe.ReplaceAllString(s, "")
}

// Resolve decides header dialect once all fields are known. Presence of long
// title selects ordinary layout, otherwise all supply fields are required.
func Resolve(fields *fragment.Fields) (Dialect, error) {
	if fields.Has("longtitle") {
		return Ordinary{
			LongTitle: fields.First("longtitle"),
			Enactment: StripMarkup(fields.First("enact")),
		}, nil
	}

	var missing []string
	for _, code := range []string{"apply", "consoldate"} {
		if !fields.Has(code) {
			missing = append(missing, code)
		}
	}

	var petition []string
	switch {
	case fields.Has("petition1"):
		petition = fields.Get("petition1")
	case fields.Has("petition2") && fields.Has("enact"):
		petition = append(fields.Get("petition2"), fields.Get("enact")...)
	default:
		missing = append(missing, "petition1|petition2+enact")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: no longtitle, missing %s", ErrNoDialect, strings.Join(missing, ", "))
	}
	return Supply{
		Apply:    fields.Get("apply"),
		Date:     fields.Get("consoldate"),
		Petition: petition,
	}, nil
}

// FoldAct sets Act preamble from resolved dialect and copies identification
// fields into source information. Absent fields are skipped.
func FoldAct(fields *fragment.Fields, act *legis.Act) error {
	d, err := Resolve(fields)
	if err != nil {
		return err
	}
	act.Preamble = d.Preamble()
	if act.SourceInfo == nil {
		act.SourceInfo = legis.NewSourceInfo("")
	}
	copyValues(fields, sourceInfoKeys, act.SourceInfo)
	return nil
}

// FoldSI sets SI title and copies identification fields into source
// information.
func FoldSI(fields *fragment.Fields, si *legis.StatutoryInstrument) {
	si.Title = fields.First("sititle")
	if si.SourceInfo == nil {
		si.SourceInfo = legis.NewSourceInfo("")
	}
	copyValues(fields, siSourceInfoKeys, si.SourceInfo)
	// sinumber holds both year and number, keep them together
	if v := fields.Get("sinumber"); len(v) == 2 {
		si.SourceInfo.Values["sinumber"] = v[0] + " No. " + v[1]
	}
}

func copyValues(fields *fragment.Fields, keys []string, info *legis.SourceInfo) {
	for _, k := range keys {
		if fields.Has(k) {
			info.Values[k] = fields.First(k)
		}
	}
}

// ParseAct assembles Act header and folds it into a new legislative Act.
func ParseAct(act *fragment.Act, log *zap.Logger) (*legis.Act, error) {
	if err := Assemble(&act.Fragment, ActGrammar, log); err != nil {
		return nil, err
	}
	doc := legis.NewAct(act.Year, 0, act.Chapter)
	doc.ID = act.ShortID()
	doc.SourceInfo = legis.NewSourceInfo(act.SourceURL)
	if err := FoldAct(act.Fields(), doc); err != nil {
		return nil, fmt.Errorf("%s: %w", act.ShortID(), err)
	}
	log.Debug("Act header assembled", zap.String("id", doc.ID), zap.Strings("fields", act.Fields().Codes()))
	return doc, nil
}

// ParseSI assembles SI header and folds it into a new Statutory Instrument.
func ParseSI(si *fragment.SI, log *zap.Logger) (*legis.StatutoryInstrument, error) {
	if err := Assemble(&si.Fragment, SIGrammar, log); err != nil {
		return nil, err
	}
	doc := legis.NewStatutoryInstrument(si.Year, si.Number)
	doc.ID = si.ShortID()
	doc.SourceInfo = legis.NewSourceInfo(si.SourceURL)
	FoldSI(si.Fields(), doc)
	if v := si.Fields().Get("sinumber"); len(v) == 2 && (v[0] != si.Year || v[1] != si.Number) {
		log.Warn("SI number in header differs from locator",
			zap.String("id", doc.ID), zap.String("year", v[0]), zap.String("number", v[1]))
	}
	log.Debug("SI header assembled", zap.String("id", doc.ID), zap.Strings("fields", si.Fields().Codes()))
	return doc, nil
}
