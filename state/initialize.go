package state

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"lawparse/patch"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// Prepare resolves everything conversion needs from loaded configuration:
// data directories, patch catalogue and forced input character set.
func (e *LocalEnv) Prepare() (err error) {
	if e.Cfg == nil {
		return errors.New("configuration has not been loaded")
	}
	if e.Dirs, err = e.Cfg.Paths.Resolve(); err != nil {
		return err
	}
	if e.Patches, err = patch.Load(e.Cfg.Document.PatchesPath); err != nil {
		return err
	}
	if len(e.Cfg.Document.PatchesPath) > 0 {
		if err := e.Rpt.StoreCopy("config/patches.yaml", e.Cfg.Document.PatchesPath); err != nil {
			return err
		}
	}

	e.Charset = nil
	if cs := e.Cfg.Document.InputCharset; len(cs) > 0 {
		enc, err := ianaindex.IANA.Encoding(cs)
		if err != nil || enc == nil {
			return fmt.Errorf("unknown input character set %q", cs)
		}
		e.Charset = enc
	}

	if e.Log != nil {
		fields := []zap.Field{zap.String("data", e.Cfg.Paths.DataDir), zap.Int("patches", e.Patches.Len())}
		if e.Charset != nil {
			n, _ := ianaindex.IANA.Name(e.Charset)
			fields = append(fields, zap.String("charset", n))
		}
		e.Log.Debug("Environment prepared", fields...)
	}
	return nil
}
