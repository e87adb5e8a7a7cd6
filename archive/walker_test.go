package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type zipItem struct {
	name    string
	content string
}

func makeZip(t *testing.T, items ...zipItem) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "pages.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	w := zip.NewWriter(zipFile)
	for _, it := range items {
		if it.name[len(it.name)-1] == '/' {
			h := &zip.FileHeader{Name: it.name}
			h.SetMode(os.ModeDir | 0755)
			if _, err := w.CreateHeader(h); err != nil {
				t.Fatalf("Failed to create directory %s: %v", it.name, err)
			}
			continue
		}
		fw, err := w.Create(it.name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", it.name, err)
		}
		if _, err := fw.Write([]byte(it.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", it.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	zipFile.Close()
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t,
		zipItem{"acts/", ""},
		zipItem{"acts/ukgpa1990c16.html", "a"},
		zipItem{"acts/ukgpa1990c5.HTML", "b"},
		zipItem{"acts/index.txt", "c"},
		zipItem{"si/uksi1991no234.html", "d"},
	)

	tests := []struct {
		name   string
		prefix string
		ext    string
		want   []string
	}{
		{name: "prefix and extension", prefix: "acts/", ext: ".html", want: []string{"acts/ukgpa1990c16.html", "acts/ukgpa1990c5.HTML"}},
		{name: "extension only", ext: ".html", want: []string{"acts/ukgpa1990c16.html", "acts/ukgpa1990c5.HTML", "si/uksi1991no234.html"}},
		{name: "everything", want: []string{"acts/ukgpa1990c16.html", "acts/ukgpa1990c5.HTML", "acts/index.txt", "si/uksi1991no234.html"}},
		{name: "no match", prefix: "orders/", want: nil},
		{name: "case sensitive prefix", prefix: "Acts/", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var visited []string
			err := Walk(zipPath, tt.prefix, tt.ext, func(archive string, file *zip.File) error {
				if archive != zipPath {
					t.Errorf("archive = %s, want %s", archive, zipPath)
				}
				visited = append(visited, file.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, visited); diff != "" {
				t.Errorf("visited mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	zipPath := makeZip(t, zipItem{"a.html", "1"}, zipItem{"b.html", "2"}, zipItem{"c.html", "3"})

	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, "", "", func(string, *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})
	if err != stopErr {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	noop := func(string, *zip.File) error { return nil }

	if err := Walk("/nonexistent/file.zip", "", "", noop); err == nil {
		t.Error("Expected error for nonexistent file")
	}

	invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
	if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
		t.Fatalf("Failed to create invalid zip: %v", err)
	}
	if err := Walk(invalidZip, "", "", noop); err == nil {
		t.Error("Expected error for invalid zip file")
	}

	unsafe := makeZip(t, zipItem{"../evil.html", "x"})
	if err := Walk(unsafe, "", "", noop); err == nil {
		t.Error("Expected error for path traversal entry")
	}
}

func TestCollect_NaturalOrder(t *testing.T) {
	zipPath := makeZip(t,
		zipItem{"x/ukgpa1990c10.html", "ten"},
		zipItem{"ukgpa1990c9.html", "nine"},
		zipItem{"y/ukgpa1990c100.html", "hundred"},
		zipItem{"notes.txt", "skip"},
	)

	entries, err := Collect(zipPath, "", ".html")
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Base()+"="+string(e.Data))
	}
	want := []string{"ukgpa1990c9.html=nine", "ukgpa1990c10.html=ten", "ukgpa1990c100.html=hundred"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		safe bool
	}{
		{"acts/ukgpa1990c5.html", true},
		{"/etc/passwd", false},
		{`\windows\evil`, false},
		{"acts/../../evil", false},
		{"acts/..hidden", true},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.safe {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.safe)
		}
	}
}
