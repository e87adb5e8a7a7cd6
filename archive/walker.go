// Package archive builds Walk abstraction on top of "archive/zip", used to
// read bundles of downloaded legislation pages.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to Walk
// The file argument is the zip.File structure for file in archive which satisfies
// match condition. If an error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk walks all files in the archive whose name starts with prefix and ends
// with ext (case insensitive, empty ext matches everything), calling walkFn
// for each item. Entries with path traversal components ("..") or absolute
// paths abort the walk.
func Walk(archive, prefix, ext string, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if len(ext) > 0 && !strings.EqualFold(path.Ext(name), ext) {
			continue
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// Entry is a file read from archive.
type Entry struct {
	// Name is path inside archive.
	Name    string
	NonUTF8 bool
	Data    []byte
}

// Base returns file name of entry without directories.
func (e *Entry) Base() string {
	return path.Base(e.Name)
}

// Collect reads all files Walk would visit into memory and orders them
// naturally by base name, so "ukgpa1990c9" comes before "ukgpa1990c10".
func Collect(archive, prefix, ext string) ([]*Entry, error) {
	var entries []*Entry
	err := Walk(archive, prefix, ext, func(_ string, f *zip.File) error {
		r, err := f.Open()
		if err != nil {
			return fmt.Errorf("unable to open %s: %w", f.Name, err)
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("unable to read %s: %w", f.Name, err)
		}
		entries = append(entries, &Entry{Name: f.Name, NonUTF8: f.NonUTF8, Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return natural.Less(entries[i].Base(), entries[j].Base())
	})
	return entries, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
