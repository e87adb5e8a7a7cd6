package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rupor-github/gencfg"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if diff := cmp.Diff([]string{"ukgpa1997c31", "ukgpa1988c1", "ukgpa1988c17"}, cfg.Document.Skip); diff != "" {
		t.Errorf("default skip list mismatch (-want +got):\n%s", diff)
	}
	if cfg.Document.PreviewLength != 1000 {
		t.Errorf("PreviewLength = %d, want 1000", cfg.Document.PreviewLength)
	}
	if cfg.Paths.ActsHTML != filepath.Join("acts", "html") {
		t.Errorf("ActsHTML = %q", cfg.Paths.ActsHTML)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
paths:
  data_dir: /srv/law
document:
  skip: [ukgpa1990c1]
  input_charset: windows-1252
  indent: 0
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Paths.DataDir != "/srv/law" {
		t.Errorf("DataDir = %q", cfg.Paths.DataDir)
	}
	// unspecified values keep defaults
	if cfg.Paths.SIXML != filepath.Join("si", "xml") {
		t.Errorf("SIXML = %q", cfg.Paths.SIXML)
	}
	if diff := cmp.Diff([]string{"ukgpa1990c1"}, cfg.Document.Skip); diff != "" {
		t.Errorf("skip mismatch (-want +got):\n%s", diff)
	}
	if cfg.Document.InputCharset != "windows-1252" || cfg.Document.Indent != 0 {
		t.Errorf("unexpected document config: %+v", cfg.Document)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console level = %q", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid yaml", body: "version: 1\ndocument:\n  skip: [\n"},
		{name: "unknown field", body: "version: 1\nunknown_field: value\n"},
		{name: "bad version", body: "version: 2\n"},
		{name: "short preview", body: "version: 1\ndocument:\n  preview_length: 10\n"},
		{name: "bad console level", body: "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.body)); err == nil {
				t.Error("Expected error")
			}
		})
	}

	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}
	if _, err := LoadConfiguration("", option); err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if diff := cmp.Diff(cfg, cfg2); diff != "" {
		t.Errorf("dump is lossy (-want +got):\n%s", diff)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}

func TestPathsResolve(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere")
	conf := PathsConfig{
		DataDir:  root,
		Acts:     "acts",
		ActsHTML: "acts/html",
		ActsXML:  "acts/xml",
		SI:       "si",
		SIHTML:   "si/html",
		SIXML:    abs,
	}

	dirs, err := conf.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := &Dirs{
		Acts:     filepath.Join(root, "acts"),
		ActsHTML: filepath.Join(root, "acts", "html"),
		ActsXML:  filepath.Join(root, "acts", "xml"),
		SI:       filepath.Join(root, "si"),
		SIHTML:   filepath.Join(root, "si", "html"),
		SIXML:    abs,
	}
	if diff := cmp.Diff(want, dirs); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
	for _, d := range dirs.all() {
		if fi, err := os.Stat(d); err != nil || !fi.IsDir() {
			t.Errorf("directory %s was not created: %v", d, err)
		}
	}
	if dirs.Input(KindSI) != dirs.SIHTML || dirs.Output(KindAct) != dirs.ActsXML {
		t.Error("role selection by kind is wrong")
	}

	// existing directories are fine
	if _, err := conf.Resolve(); err != nil {
		t.Errorf("second Resolve() error = %v", err)
	}
}

func TestPathsResolve_BlockedByFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "acts"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	conf := PathsConfig{DataDir: root, Acts: "acts", ActsHTML: "acts/html", ActsXML: "acts/xml", SI: "si", SIHTML: "si/html", SIXML: "si/xml"}
	if _, err := conf.Resolve(); err == nil {
		t.Error("Resolve() expected error when role path is a file")
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "act", want: KindAct},
		{in: "SI", want: KindSI},
		{in: "order", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
	if KindSI.Prefix() != "uksi" || KindAct.Prefix() != "ukgpa" {
		t.Error("unexpected prefixes")
	}
	if Kind(7).String() != "Kind(7)" {
		t.Errorf("String() = %q", Kind(7).String())
	}
	var k Kind
	if err := k.UnmarshalText([]byte("si")); err != nil || k != KindSI {
		t.Errorf("UnmarshalText() = %v, %v", k, err)
	}
}

func TestKind_Names(t *testing.T) {
	if diff := cmp.Diff([]string{"act", "si"}, KindNames()); diff != "" {
		t.Errorf("KindNames() mismatch (-want +got):\n%s", diff)
	}
	for _, k := range []Kind{KindAct, KindSI} {
		if !k.IsValid() {
			t.Errorf("%d is not valid", int(k))
		}
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText() error = %v", err)
		}
		var back Kind
		if err := back.UnmarshalText(text); err != nil || back != k {
			t.Errorf("UnmarshalText(%q) = %v, %v, want %v", text, back, err, k)
		}
	}
	if Kind(-1).IsValid() || Kind(len(KindNames())).IsValid() {
		t.Error("out of range kind must not be valid")
	}
	// callers cannot change names
	names := KindNames()
	names[0] = "order"
	if KindAct.String() != "act" {
		t.Errorf("String() = %q after KindNames() was modified", KindAct.String())
	}
}
