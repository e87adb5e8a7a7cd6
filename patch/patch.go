// Package patch applies document specific textual corrections to source text
// before header extraction. Corrections are kept in a YAML catalogue, each
// one bound to a document identifier.
package patch

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"
)

//go:embed patches.yaml
var defaultCatalogue []byte

// Patch replaces matches of Find with Replace in text of Document. Count is
// the exact number of matches expected, zero means at least one.
type Patch struct {
	Document string `yaml:"document"`
	Find     string `yaml:"find"`
	Replace  string `yaml:"replace"`
	Count    int    `yaml:"count,omitempty"`
	Note     string `yaml:"note,omitempty"`

	re *regexp.Regexp
}

// Error reports patch which no longer fits its document.
type Error struct {
	Document string
	Find     string
	Want     int
	Got      int
}

func (e *Error) Error() string {
	want := "at least 1"
	if e.Want > 0 {
		want = fmt.Sprint(e.Want)
	}
	return fmt.Sprintf("patch for %s: %q matched %d time(s), expected %s", e.Document, e.Find, e.Got, want)
}

// Target is a fragment which can be patched.
type Target interface {
	ShortID() string
	Patch(fn func(string) (string, error)) error
}

// Catalogue holds patches grouped by document identifier.
type Catalogue struct {
	byDoc map[string][]*Patch
}

type catalogueFile struct {
	Patches []*Patch `yaml:"patches"`
}

// Load returns embedded catalogue extended with patches from files.
func Load(paths ...string) (*Catalogue, error) {
	c := &Catalogue{byDoc: make(map[string][]*Patch)}
	if err := c.add(defaultCatalogue); err != nil {
		return nil, fmt.Errorf("embedded patch catalogue: %w", err)
	}
	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read patch catalogue: %w", err)
		}
		if err := c.add(data); err != nil {
			return nil, fmt.Errorf("patch catalogue %s: %w", path, err)
		}
	}
	return c, nil
}

func (c *Catalogue) add(data []byte) error {
	var file catalogueFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			// empty catalogue
			return nil
		}
		return fmt.Errorf("failed to decode patches: %w", err)
	}
	for i, p := range file.Patches {
		if len(p.Document) == 0 || len(p.Find) == 0 {
			return fmt.Errorf("patch %d: document and find are required", i)
		}
		re, err := regexp.Compile(p.Find)
		if err != nil {
			return fmt.Errorf("patch %d for %s: %w", i, p.Document, err)
		}
		p.re = re
		c.byDoc[p.Document] = append(c.byDoc[p.Document], p)
	}
	return nil
}

// Len returns number of patches in catalogue.
func (c *Catalogue) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, ps := range c.byDoc {
		n += len(ps)
	}
	return n
}

// For returns patches registered for document.
func (c *Catalogue) For(id string) []*Patch {
	if c == nil {
		return nil
	}
	return c.byDoc[id]
}

// Apply runs all patches registered for target in catalogue order. Every
// patch which does not match as expected is reported, text is left untouched
// in that case.
func (c *Catalogue) Apply(target Target, log *zap.Logger) error {
	patches := c.For(target.ShortID())
	if len(patches) == 0 {
		return nil
	}
	return target.Patch(func(text string) (string, error) {
		var errs error
		for _, p := range patches {
			got := len(p.re.FindAllStringIndex(text, -1))
			if (p.Count == 0 && got == 0) || (p.Count > 0 && got != p.Count) {
				errs = multierr.Append(errs, &Error{Document: p.Document, Find: p.Find, Want: p.Count, Got: got})
				continue
			}
			text = p.re.ReplaceAllString(text, p.Replace)
			log.Debug("Patch applied", zap.String("document", p.Document), zap.String("find", p.Find), zap.Int("matches", got), zap.String("note", p.Note))
		}
		if errs != nil {
			return "", errs
		}
		return text, nil
	})
}
