package fragment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind selects how a matched step is recorded.
type Kind int

const (
	// KindValue stores all capture groups of the match under step code.
	KindValue Kind = iota
	// KindMiddle consumes structural markup, nothing is recorded.
	KindMiddle
	// KindCheckFront asserts pattern matches at the front, nothing is
	// recorded and nothing is consumed.
	KindCheckFront
	// KindISBN composes ISBN from groups 2-4 with dashes and spaces removed
	// inside each part when group 1 is present and uses placeholder
	// otherwise.
	KindISBN
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindMiddle:
		return "middle"
	case KindCheckFront:
		return "checkfront"
	case KindISBN:
		return "isbn"
	default:
		return "unknown"
	}
}

// isbnSeparators are dropped from ISBN parts, parts are joined by spaces.
var isbnSeparators = strings.NewReplacer("-", "", " ", "", "\t", "", "\n", "")

// MissingISBN is recorded for early prints which carried no ISBN.
const MissingISBN = "XXXXXXXXXXX"

// DefaultPreviewLength bounds the excerpt of unmatched text carried by
// NibbleError.
const DefaultPreviewLength = 1000

// Anchor compiles expression so it only matches at the start of the text.
func Anchor(expr string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + expr + `)`)
}

// Step is a single nibble: pattern expected at the front of remaining text and
// the way match is recorded.
type Step struct {
	Code    string
	Kind    Kind
	Pattern *regexp.Regexp
}

// Value returns step recording all capture groups under code.
func Value(code, expr string) Step {
	return Step{Code: code, Kind: KindValue, Pattern: Anchor(expr)}
}

// Middle returns step skipping structural markup.
func Middle(expr string) Step {
	return Step{Code: "middle", Kind: KindMiddle, Pattern: Anchor(expr)}
}

// CheckFront returns lookahead step.
func CheckFront(expr string) Step {
	return Step{Code: "checkfront", Kind: KindCheckFront, Pattern: Anchor(expr)}
}

// ISBN returns step recording ISBN under code. Pattern must have optional
// group 1 enclosing groups 2, 3 and 4.
func ISBN(code, expr string) Step {
	return Step{Code: code, Kind: KindISBN, Pattern: Anchor(expr)}
}

// Cursor is a read position over immutable source text. Position only moves
// forward.
type Cursor struct {
	src string
	off int
}

// NewCursor returns cursor at the start of text.
func NewCursor(text string) *Cursor {
	return &Cursor{src: text}
}

// Remaining returns unconsumed text.
func (c *Cursor) Remaining() string {
	return c.src[c.off:]
}

// Offset returns number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.off
}

// Peek reports whether pattern matches at the front of remaining text.
func (c *Cursor) Peek(pattern *regexp.Regexp) bool {
	loc := pattern.FindStringIndex(c.Remaining())
	return loc != nil && loc[0] == 0
}

// match returns submatches of pattern anchored at cursor position or nil.
func (c *Cursor) match(pattern *regexp.Regexp) []int {
	loc := pattern.FindStringSubmatchIndex(c.Remaining())
	if loc == nil || loc[0] != 0 {
		return nil
	}
	return loc
}

// Nibble matches step pattern against the front of remaining text, records
// result in fields and advances past the match. On mismatch nothing changes
// and *NibbleError is returned, step recording a code which is already
// present fails with *FieldRecordedError and does not consume either.
func (c *Cursor) Nibble(step Step, fields *Fields, previewLength int) error {
	loc := c.match(step.Pattern)
	if loc == nil {
		return &NibbleError{
			Code:    step.Code,
			Pattern: step.Pattern.String(),
			Preview: preview(c.Remaining(), previewLength),
		}
	}

	rest := c.Remaining()
	group := func(n int) (string, bool) {
		if 2*n+1 >= len(loc) || loc[2*n] < 0 {
			return "", false
		}
		return rest[loc[2*n]:loc[2*n+1]], true
	}

	switch step.Kind {
	case KindCheckFront:
		return nil
	case KindMiddle:
	case KindISBN:
		isbn := MissingISBN
		if v, ok := group(1); ok && len(v) > 0 {
			parts := make([]string, 0, 3)
			for n := 2; n <= 4; n++ {
				p, _ := group(n)
				parts = append(parts, isbnSeparators.Replace(p))
			}
			isbn = strings.Join(parts, " ")
		}
		if err := fields.Set(step.Code, []string{isbn}); err != nil {
			return err
		}
	default:
		groups := make([]string, 0, len(loc)/2-1)
		for n := 1; n < len(loc)/2; n++ {
			v, _ := group(n)
			groups = append(groups, v)
		}
		if err := fields.Set(step.Code, groups); err != nil {
			return err
		}
	}
	c.off += loc[1]
	return nil
}

func preview(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultPreviewLength
	}
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
