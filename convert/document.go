package convert

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"lawparse/body"
	"lawparse/config"
	"lawparse/fragment"
	"lawparse/header"
	"lawparse/legis"
	"lawparse/patch"
)

// Options controls single document conversion.
type Options struct {
	Kind          config.Kind
	OutputDir     string
	Skip          []string
	Patches       *patch.Catalogue
	Charset       encoding.Encoding
	PreviewLength int
	Indent        int
	Report        *config.Report
}

// skipped reports whether document is on the skip list.
func (o *Options) skipped(locator string) bool {
	return slices.Contains(o.Skip, documentID(locator))
}

// readSource decodes source into UTF-8. Forced character set wins, otherwise
// it is detected from BOM and HTML meta declarations, windows-1252 being
// the fallback.
func readSource(r io.Reader, forced encoding.Encoding) (string, error) {
	var (
		dr  io.Reader
		err error
	)
	if forced != nil {
		dr = transform.NewReader(r, forced.NewDecoder())
	} else if dr, err = charset.NewReader(r, "text/html"); err != nil {
		return "", fmt.Errorf("unable to detect source encoding: %w", err)
	}
	data, err := io.ReadAll(dr)
	if err != nil {
		return "", fmt.Errorf("unable to read source: %w", err)
	}
	return string(data), nil
}

// parseDocument runs the whole pipeline over decoded source text: fragment
// construction, patches, header assembly and folding, body parsing.
func parseDocument(locator, text string, opts *Options, log *zap.Logger) (legis.Document, error) {
	parser := body.New(log)

	switch opts.Kind {
	case config.KindAct:
		f, err := fragment.NewAct(locator, text, log)
		if err != nil {
			return nil, err
		}
		f.PreviewLength = opts.PreviewLength
		if err := opts.Patches.Apply(f, log); err != nil {
			return nil, err
		}
		doc, err := header.ParseAct(f, log)
		if err != nil {
			log.Debug("Fragment state", zap.String("dump", fragment.Dump(f, &f.Fragment)))
			return nil, err
		}
		if err := parser.ParseBody(&f.Fragment, doc); err != nil {
			return nil, err
		}
		log.Debug("Act parsed", zap.Stringer("tree", doc))
		return doc, nil

	case config.KindSI:
		f, err := fragment.NewSI(locator, text, log)
		if err != nil {
			return nil, err
		}
		f.PreviewLength = opts.PreviewLength
		if err := opts.Patches.Apply(f, log); err != nil {
			return nil, err
		}
		doc, err := header.ParseSI(f, log)
		if err != nil {
			log.Debug("Fragment state", zap.String("dump", fragment.Dump(f, &f.Fragment)))
			return nil, err
		}
		if err := parser.ParseBody(&f.Fragment, doc); err != nil {
			return nil, err
		}
		log.Debug("Statutory instrument parsed", zap.Stringer("tree", doc))
		return doc, nil
	}
	return nil, fmt.Errorf("unsupported document kind %s", opts.Kind)
}

// writeXML stores serialized document as "<id>.xml" in dir. Output appears
// under its final name only when completely written.
func writeXML(dir, id string, data []byte) (string, error) {
	name := filepath.Join(dir, config.CleanFileName(id)+".xml")

	tmp, err := os.CreateTemp(dir, "."+config.CleanFileName(id)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("unable to create output: %w", err)
	}
	defer func() {
		// no-op after successful rename
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("unable to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("unable to write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		return "", fmt.Errorf("unable to finalize output: %w", err)
	}
	return name, nil
}

// processDocument converts single input. It returns output file name, empty
// when document was skipped.
func processDocument(in *input, opts *Options, log *zap.Logger) (out string, rerr error) {
	log = log.With(zap.String("locator", in.Locator))

	if opts.skipped(in.Locator) {
		log.Info("Skipping document known to defeat parsing")
		return "", nil
	}

	var text string
	defer func() {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		}
		if rerr != nil && len(text) > 0 {
			opts.Report.StoreData("failed/"+in.Locator, []byte(text))
		}
	}()

	r, err := in.Open()
	if err != nil {
		return "", fmt.Errorf("unable to open source: %w", err)
	}
	defer r.Close()

	if text, err = readSource(r, opts.Charset); err != nil {
		return "", err
	}

	doc, err := parseDocument(in.Locator, text, opts, log)
	if err != nil {
		return "", err
	}

	data, err := doc.XML(opts.Indent)
	if err != nil {
		return "", fmt.Errorf("unable to serialize %s: %w", doc.Identifier(), err)
	}
	if out, err = writeXML(opts.OutputDir, doc.Identifier(), data); err != nil {
		return "", err
	}
	opts.Report.Store("results/"+filepath.Base(out), out)
	return out, nil
}
