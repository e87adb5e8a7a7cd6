package convert

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"lawparse/archive"
	"lawparse/config"
)

const htmlExt = ".html"

var (
	actShorthandRe = regexp.MustCompile(`^\d{4}c\d+$`)
	siShorthandRe  = regexp.MustCompile(`^\d{4}no\d+$`)
)

// input is a single source document in batch order.
type input struct {
	// Locator is source file name, for example "ukgpa1990c5.html".
	Locator string
	// Path is file system path or path inside archive.
	Path string
	open func() (io.ReadCloser, error)
}

// Open returns reader of raw source bytes.
func (in *input) Open() (io.ReadCloser, error) {
	return in.open()
}

// ExpandLocator turns command line shorthand into source file name: "1990c5"
// becomes "ukgpa1990c5.html", "1991no234" becomes "uksi1991no234.html",
// identifiers get extension added.
func ExpandLocator(kind config.Kind, arg string) string {
	arg = strings.TrimSpace(arg)
	switch {
	case strings.HasSuffix(strings.ToLower(arg), htmlExt):
		return arg
	case kind == config.KindAct && actShorthandRe.MatchString(arg):
		return kind.Prefix() + arg + htmlExt
	case kind == config.KindSI && siShorthandRe.MatchString(arg):
		return kind.Prefix() + arg + htmlExt
	default:
		return arg + htmlExt
	}
}

// documentID returns identifier part of locator, used for skip list
// matching and report names.
func documentID(locator string) string {
	base := filepath.Base(locator)
	if strings.EqualFold(filepath.Ext(base), htmlExt) {
		base = base[:len(base)-len(htmlExt)]
	}
	return base
}

func fileInput(path string) *input {
	return &input{
		Locator: filepath.Base(path),
		Path:    path,
		open:    func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// collectInputs returns ordered list of documents to process. Explicit
// locators keep command line order, otherwise source is scanned and ordered
// naturally.
func collectInputs(kind config.Kind, src string, args []string) ([]*input, error) {
	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("input source was not found: %w", err)
	}

	if fi.Mode().IsRegular() {
		if !strings.EqualFold(filepath.Ext(src), ".zip") {
			return nil, fmt.Errorf("input source is neither directory nor zip archive (%s)", src)
		}
		return archiveInputs(kind, src, args)
	}

	if len(args) > 0 {
		inputs := make([]*input, 0, len(args))
		for _, arg := range args {
			inputs = append(inputs, fileInput(filepath.Join(src, ExpandLocator(kind, arg))))
		}
		return inputs, nil
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, fmt.Errorf("unable to scan input directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), htmlExt) {
			names = append(names, e.Name())
		}
	}
	sort.Sort(natural.StringSlice(names))

	inputs := make([]*input, 0, len(names))
	for _, name := range names {
		inputs = append(inputs, fileInput(filepath.Join(src, name)))
	}
	return inputs, nil
}

func archiveInputs(kind config.Kind, src string, args []string) ([]*input, error) {
	entries, err := archive.Collect(src, "", htmlExt)
	if err != nil {
		return nil, fmt.Errorf("unable to read archive: %w", err)
	}

	byBase := make(map[string]*archive.Entry, len(entries))
	for _, e := range entries {
		byBase[e.Base()] = e
	}
	if len(args) > 0 {
		// keep command line order, missing entries fail when opened
		selected := make([]*archive.Entry, 0, len(args))
		for _, arg := range args {
			loc := ExpandLocator(kind, arg)
			if e, ok := byBase[loc]; ok {
				selected = append(selected, e)
			} else {
				selected = append(selected, &archive.Entry{Name: loc})
			}
		}
		entries = selected
	}

	inputs := make([]*input, 0, len(entries))
	for _, e := range entries {
		in := &input{Locator: e.Base(), Path: src + string(filepath.Separator) + e.Name}
		if e.Data == nil {
			name := e.Name
			in.open = func() (io.ReadCloser, error) {
				return nil, fmt.Errorf("%s not found in archive %s", name, src)
			}
		} else {
			data := e.Data
			in.open = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil }
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
