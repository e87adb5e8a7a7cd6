package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"lawparse/config"
)

func preparedEnv(t *testing.T, mutate func(*config.Config)) (*LocalEnv, error) {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Paths.DataDir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Cfg = cfg
	env.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	return env, env.Prepare()
}

func TestPrepare_Defaults(t *testing.T) {
	env, err := preparedEnv(t, nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if env.Dirs == nil || env.Patches == nil {
		t.Fatal("Prepare() left environment incomplete")
	}
	if _, err := os.Stat(env.Dirs.SIXML); err != nil {
		t.Errorf("output directory not created: %v", err)
	}
	if env.Charset != nil {
		t.Error("charset must be detected from content by default")
	}
}

func TestPrepare_Charset(t *testing.T) {
	env, err := preparedEnv(t, func(cfg *config.Config) { cfg.Document.InputCharset = "windows-1252" })
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if env.Charset == nil {
		t.Fatal("charset was not resolved")
	}

	if _, err := preparedEnv(t, func(cfg *config.Config) { cfg.Document.InputCharset = "no-such-charset" }); err == nil {
		t.Error("Prepare() expected error for unknown charset")
	}
}

func TestPrepare_Patches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patches.yaml")
	body := "patches:\n  - document: ukgpa1990c16\n    find: 'x'\n    replace: 'y'\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	env, err := preparedEnv(t, func(cfg *config.Config) { cfg.Document.PatchesPath = path })
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(env.Patches.For("ukgpa1990c16")) != 1 {
		t.Errorf("patches were not loaded")
	}

	if _, err := preparedEnv(t, func(cfg *config.Config) { cfg.Document.PatchesPath = filepath.Join(filepath.Dir(path), "none.yaml") }); err == nil {
		t.Error("Prepare() expected error for missing catalogue")
	}
}

func TestPrepare_NoConfig(t *testing.T) {
	env := &LocalEnv{}
	if err := env.Prepare(); err == nil {
		t.Error("Prepare() expected error without configuration")
	}
}
